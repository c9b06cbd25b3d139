package ss

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/taurusgroup/schmidt-samoa/internal/params"
)

// ErrCorruptBlock is returned when a decrypted block lacks its prefix byte.
var ErrCorruptBlock = errors.New("ss: corrupt ciphertext block")

// BlockSize returns the size in bytes of an encoded block, prefix included.
//
// This is ⌊(⌊log₂ √n⌋ - 1) / 8⌋, which keeps every block below √n < pq.
func (pk *PublicKey) BlockSize() int {
	return (pk.n.BitLen()/2 - 1) / 8
}

// EncryptStream encrypts everything read from r, writing one hexadecimal ciphertext per line to w.
//
// The input is cut into chunks of BlockSize() - 1 bytes, and each chunk is prefixed with
// params.BlockPrefix before being interpreted as a big-endian integer.
func (pk *PublicKey) EncryptStream(w io.Writer, r io.Reader) error {
	k := pk.BlockSize()
	if k < 2 {
		return errors.Wrapf(ErrKeySize, "ss: block size %d", k)
	}
	out := bufio.NewWriter(w)
	block := make([]byte, k)
	block[0] = params.BlockPrefix
	m := new(big.Int)
	for {
		j, err := io.ReadFull(r, block[1:])
		if j > 0 {
			c, encErr := pk.Encrypt(m.SetBytes(block[:j+1]))
			if encErr != nil {
				return encErr
			}
			if _, werr := fmt.Fprintf(out, "%x\n", c); werr != nil {
				return errors.Wrap(werr, "ss: write ciphertext")
			}
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "ss: read plaintext")
		}
	}
	return errors.Wrap(out.Flush(), "ss: write ciphertext")
}

// DecryptStream reverses EncryptStream, reading hexadecimal ciphertexts from r
// and writing the recovered bytes to w.
func (sk *PrivateKey) DecryptStream(w io.Writer, r io.Reader) error {
	in := bufio.NewReader(r)
	out := bufio.NewWriter(w)
	c := new(big.Int)
	for line := 1; ; line++ {
		s, err := in.ReadString('\n')
		if err != nil && err != io.EOF {
			return errors.Wrap(err, "ss: read ciphertext")
		}
		if s = strings.TrimSpace(s); s != "" {
			if _, ok := c.SetString(s, 16); !ok {
				return errors.Wrapf(ErrCorruptBlock, "line %d: invalid hexadecimal", line)
			}
			m, decErr := sk.Decrypt(c)
			if decErr != nil {
				return errors.Wrapf(decErr, "line %d", line)
			}
			b := m.Bytes()
			if len(b) == 0 || b[0] != params.BlockPrefix {
				return errors.Wrapf(ErrCorruptBlock, "line %d: missing prefix", line)
			}
			if _, werr := out.Write(b[1:]); werr != nil {
				return errors.Wrap(werr, "ss: write plaintext")
			}
		}
		if err == io.EOF {
			break
		}
	}
	return errors.Wrap(out.Flush(), "ss: write plaintext")
}
