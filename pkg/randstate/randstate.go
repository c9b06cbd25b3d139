// Package randstate provides the seeded random generator consumed by the
// randomized parts of the number-theory engine.
//
// A State is an io.Reader. The same seed always produces the same stream, which
// makes key generation reproducible. A State must not be shared between goroutines;
// concurrent work should give each worker its own State, obtained through Fork.
package randstate

import (
	"crypto/rand"
	"encoding/binary"
	"io"

	"github.com/zeebo/blake3"
)

// Reader is the system's cryptographically secure random source, for callers
// that don't need a reproducible stream.
var Reader io.Reader = rand.Reader

const (
	domain = "schmidt-samoa randstate v1"

	tagSeed byte = 0
	tagFork byte = 1
)

// State is the deterministic random generator.
//
// Internally, the seed is absorbed by blake3 in key derivation mode, and the
// random stream is the extendable output of the hash.
type State struct {
	h *blake3.Hasher
	d *blake3.Digest
}

// New creates a State seeded with seed.
func New(seed uint64) *State {
	h := blake3.NewDeriveKey(domain)
	writeTagged(h, tagSeed, seed)
	return &State{h: h, d: h.Digest()}
}

// Read fills p with the next len(p) bytes of the stream. It never fails.
func (s *State) Read(p []byte) (int, error) {
	return s.d.Read(p)
}

// Fork derives a new State, independent from s and from forks with other labels.
//
// The derived stream depends only on the seed of s and on label, not on how much
// of s has already been read.
func (s *State) Fork(label uint64) *State {
	h := s.h.Clone()
	writeTagged(h, tagFork, label)
	return &State{h: h, d: h.Digest()}
}

func writeTagged(h *blake3.Hasher, tag byte, v uint64) {
	var buf [9]byte
	buf[0] = tag
	binary.BigEndian.PutUint64(buf[1:], v)
	// the underlying hash function never returns an error
	_, _ = h.Write(buf[:])
}
