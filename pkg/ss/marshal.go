package ss

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/schmidt-samoa/pkg/math/arith"
)

// Format selects the encoding of key files.
type Format string

const (
	// FormatText is the line-based hexadecimal format:
	// "n\nuser\n" for public keys and "pq\nd\n" for private keys.
	FormatText Format = "text"
	// FormatCBOR is a binary encoding, which also keeps the factorization of private keys.
	FormatCBOR Format = "cbor"
)

// ErrFormat is returned for unknown key file formats.
var ErrFormat = errors.New("ss: unknown key format")

// ParseFormat returns the Format named s.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatCBOR:
		return f, nil
	default:
		return "", errors.Wrapf(ErrFormat, "%q", s)
	}
}

type publicMarshal struct {
	N    []byte
	User string
}

type privateMarshal struct {
	PQ, D []byte
	P, Q  []byte `cbor:",omitempty"`
}

// MarshalBinary implements encoding.BinaryMarshaler, encoding n and the user as CBOR.
func (pk *PublicKey) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(&publicMarshal{
		N:    pk.n.Bytes(),
		User: pk.user,
	})
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler, rejecting a non-positive n.
func (pk *PublicKey) UnmarshalBinary(data []byte) error {
	var pm publicMarshal
	if err := cbor.Unmarshal(data, &pm); err != nil {
		return errors.Wrap(err, "ss: unmarshal public key")
	}
	key, err := NewPublicKey(new(big.Int).SetBytes(pm.N), pm.User)
	if err != nil {
		return err
	}
	*pk = *key
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
//
// The factors p and q are included when they are known.
func (sk *PrivateKey) MarshalBinary() ([]byte, error) {
	pm := &privateMarshal{
		PQ: sk.pq.Bytes(),
		D:  sk.d.Bytes(),
	}
	if sk.p != nil && sk.q != nil {
		pm.P, pm.Q = sk.p.Bytes(), sk.q.Bytes()
	}
	return cbor.Marshal(pm)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
//
// When the encoding carries p and q, they must multiply to pq.
func (sk *PrivateKey) UnmarshalBinary(data []byte) error {
	var pm privateMarshal
	if err := cbor.Unmarshal(data, &pm); err != nil {
		return errors.Wrap(err, "ss: unmarshal private key")
	}
	pq, d := new(big.Int).SetBytes(pm.PQ), new(big.Int).SetBytes(pm.D)
	key, err := NewPrivateKey(pq, d)
	if err != nil {
		return err
	}
	if len(pm.P) > 0 && len(pm.Q) > 0 {
		p, q := new(big.Int).SetBytes(pm.P), new(big.Int).SetBytes(pm.Q)
		if new(big.Int).Mul(p, q).Cmp(pq) != 0 {
			return errors.New("ss: unmarshal private key: factors don't match pq")
		}
		m, err := arith.ModulusFromFactors(p, q)
		if err != nil {
			return errors.Wrap(err, "ss: unmarshal private key")
		}
		key.p, key.q, key.modulus = p, q, m
	}
	*sk = *key
	return nil
}

// WritePublicKey writes pk to w in the given format.
func WritePublicKey(w io.Writer, pk *PublicKey, format Format) error {
	switch format {
	case FormatText:
		_, err := fmt.Fprintf(w, "%x\n%s\n", pk.n, pk.user)
		return errors.Wrap(err, "ss: write public key")
	case FormatCBOR:
		data, err := pk.MarshalBinary()
		if err != nil {
			return errors.Wrap(err, "ss: marshal public key")
		}
		_, err = w.Write(data)
		return errors.Wrap(err, "ss: write public key")
	default:
		return errors.Wrapf(ErrFormat, "%q", format)
	}
}

// ReadPublicKey reads a public key written by WritePublicKey.
func ReadPublicKey(r io.Reader, format Format) (*PublicKey, error) {
	switch format {
	case FormatText:
		lines, err := readLines(r, 2)
		if err != nil {
			return nil, errors.Wrap(err, "ss: read public key")
		}
		n, err := parseHex(lines[0])
		if err != nil {
			return nil, errors.Wrap(err, "ss: read public key")
		}
		return NewPublicKey(n, lines[1])
	case FormatCBOR:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, errors.Wrap(err, "ss: read public key")
		}
		pk := new(PublicKey)
		if err = pk.UnmarshalBinary(data); err != nil {
			return nil, err
		}
		return pk, nil
	default:
		return nil, errors.Wrapf(ErrFormat, "%q", format)
	}
}

// WritePrivateKey writes sk to w in the given format.
func WritePrivateKey(w io.Writer, sk *PrivateKey, format Format) error {
	switch format {
	case FormatText:
		_, err := fmt.Fprintf(w, "%x\n%x\n", sk.pq, sk.d)
		return errors.Wrap(err, "ss: write private key")
	case FormatCBOR:
		data, err := sk.MarshalBinary()
		if err != nil {
			return errors.Wrap(err, "ss: marshal private key")
		}
		_, err = w.Write(data)
		return errors.Wrap(err, "ss: write private key")
	default:
		return errors.Wrapf(ErrFormat, "%q", format)
	}
}

// ReadPrivateKey reads a private key written by WritePrivateKey.
func ReadPrivateKey(r io.Reader, format Format) (*PrivateKey, error) {
	switch format {
	case FormatText:
		lines, err := readLines(r, 2)
		if err != nil {
			return nil, errors.Wrap(err, "ss: read private key")
		}
		pq, err := parseHex(lines[0])
		if err != nil {
			return nil, errors.Wrap(err, "ss: read private key")
		}
		d, err := parseHex(lines[1])
		if err != nil {
			return nil, errors.Wrap(err, "ss: read private key")
		}
		return NewPrivateKey(pq, d)
	case FormatCBOR:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, errors.Wrap(err, "ss: read private key")
		}
		sk := new(PrivateKey)
		if err = sk.UnmarshalBinary(data); err != nil {
			return nil, err
		}
		return sk, nil
	default:
		return nil, errors.Wrapf(ErrFormat, "%q", format)
	}
}

// readLines reads count lines from r; the last one may lack its newline.
func readLines(r io.Reader, count int) ([]string, error) {
	in := bufio.NewReader(r)
	lines := make([]string, 0, count)
	for len(lines) < count {
		s, err := in.ReadString('\n')
		if err == io.EOF && s != "" {
			err = nil
		}
		if err != nil {
			if err == io.EOF {
				return nil, errors.Newf("expected %d lines, got %d", count, len(lines))
			}
			return nil, err
		}
		lines = append(lines, strings.TrimRight(s, "\r\n"))
	}
	return lines, nil
}

func parseHex(s string) (*big.Int, error) {
	x, ok := new(big.Int).SetString(strings.TrimSpace(s), 16)
	if !ok {
		return nil, errors.Newf("invalid hexadecimal integer %q", s)
	}
	return x, nil
}
