package sample

import (
	"fmt"
	"io"
	"math/big"

	"github.com/taurusgroup/schmidt-samoa/internal/params"
)

var ErrMaxIterations = fmt.Errorf("sample: failed to generate after %d iterations", params.MaxSampleIterations)

func readBits(rand io.Reader, buf []byte) error {
	for i := 0; i < params.MaxSampleIterations; i++ {
		if _, err := io.ReadFull(rand, buf); err == nil {
			return nil
		}
	}
	return ErrMaxIterations
}

// maskedBits fills a buffer with exactly bits random bits, in big-endian order.
func maskedBits(rand io.Reader, bits int) ([]byte, error) {
	buf := make([]byte, (bits+7)/8)
	if err := readBits(rand, buf); err != nil {
		return nil, err
	}
	// Clear the excess bits in the first byte
	buf[0] &= 0xFF >> uint(len(buf)*8-bits)
	return buf, nil
}

// ModN samples an element of ℤₙ, that is, a uniform integer in [0, n).
//
// Candidates are drawn with n's bit length and rejected when ≥ n, so each
// draw succeeds with probability at least 1/2.
//
// ModN panics with ErrMaxIterations if rand keeps failing, see TryModN.
func ModN(rand io.Reader, n *big.Int) *big.Int {
	out, err := TryModN(rand, n)
	if err != nil {
		panic(err)
	}
	return out
}

// TryModN is like ModN, but returns ErrMaxIterations instead of panicking when
// rand fails, or only yields rejected candidates, params.MaxSampleIterations times in a row.
func TryModN(rand io.Reader, n *big.Int) (*big.Int, error) {
	if n.Sign() <= 0 {
		panic("sample.ModN: bound must be positive")
	}
	out := new(big.Int)
	bits := n.BitLen()
	for i := 0; i < params.MaxSampleIterations; i++ {
		buf, err := maskedBits(rand, bits)
		if err != nil {
			return nil, err
		}
		out.SetBytes(buf)
		if out.Cmp(n) < 0 {
			return out, nil
		}
	}
	return nil, ErrMaxIterations
}

// Bits returns a uniform integer of exactly bits bits: the most significant bit is
// always set, the remaining bits - 1 are random.
//
// Bits panics with ErrMaxIterations if rand keeps failing, see TryBits.
func Bits(rand io.Reader, bits int) *big.Int {
	out, err := TryBits(rand, bits)
	if err != nil {
		panic(err)
	}
	return out
}

// TryBits is like Bits, but returns ErrMaxIterations instead of panicking when rand fails.
func TryBits(rand io.Reader, bits int) (*big.Int, error) {
	if bits < 1 {
		panic("sample.Bits: bit length must be positive")
	}
	buf, err := maskedBits(rand, bits)
	if err != nil {
		return nil, err
	}
	out := new(big.Int).SetBytes(buf)
	return out.SetBit(out, bits-1, 1), nil
}

// IntRange returns a uniform integer in [lo, hi).
func IntRange(rand io.Reader, lo, hi int) int {
	if lo >= hi {
		panic("sample.IntRange: empty range")
	}
	width := new(big.Int).Sub(big.NewInt(int64(hi)), big.NewInt(int64(lo)))
	return lo + int(ModN(rand, width).Int64())
}
