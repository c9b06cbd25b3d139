// Package ss implements the Schmidt-Samoa public-key cryptosystem on top of the
// number-theory primitives of pkg/math.
//
// The public key is n = p²q for distinct primes p and q, with p ∤ q - 1 and q ∤ p - 1.
// The private key is the pair (pq, d) with d = n⁻¹ (mod lcm(p - 1, q - 1)).
// A message m < pq is encrypted as mⁿ (mod n) and recovered as cᵈ (mod pq).
package ss

import (
	"io"
	"math/big"

	"github.com/cockroachdb/errors"
	"github.com/taurusgroup/schmidt-samoa/internal/params"
	"github.com/taurusgroup/schmidt-samoa/pkg/math/arith"
	"github.com/taurusgroup/schmidt-samoa/pkg/math/prime"
	"github.com/taurusgroup/schmidt-samoa/pkg/math/sample"
	"github.com/taurusgroup/schmidt-samoa/pkg/pool"
	"github.com/taurusgroup/schmidt-samoa/pkg/randstate"
	"golang.org/x/sync/errgroup"
)

// maxKeyAttempts bounds the number of (p, q) pairs drawn by GenerateKey.
const maxKeyAttempts = 1000

var (
	// ErrKeySize is returned when asking for a key smaller than params.MinBits.
	ErrKeySize = errors.Newf("ss: key size must be at least %d bits", params.MinBits)
	// ErrKeyGeneration is returned when no suitable pair of primes was found.
	ErrKeyGeneration = errors.Newf("ss: no suitable prime pair after %d attempts", maxKeyAttempts)
	// ErrMessageRange is returned for a negative message, or one not below the modulus.
	ErrMessageRange = errors.New("ss: message out of range")
)

var one = big.NewInt(1)

// PublicKey is a Schmidt-Samoa public key, n = p²q, together with the name of its owner.
type PublicKey struct {
	n    *big.Int
	user string
}

// PrivateKey is a Schmidt-Samoa private key.
//
// When the factors p and q are known, decryption uses the Chinese remainder theorem.
type PrivateKey struct {
	pq, d *big.Int
	// p, q are nil for keys read from the text format
	p, q    *big.Int
	modulus *arith.Modulus
}

// NewPublicKey returns the public key with modulus n.
func NewPublicKey(n *big.Int, user string) (*PublicKey, error) {
	if n.Sign() < 1 {
		return nil, errors.Wrap(arith.ErrInvalidModulus, "ss: public key")
	}
	return &PublicKey{n: new(big.Int).Set(n), user: user}, nil
}

// NewPrivateKey returns the private key (pq, d) without its factorization.
func NewPrivateKey(pq, d *big.Int) (*PrivateKey, error) {
	m, err := arith.ModulusFromN(pq)
	if err != nil {
		return nil, errors.Wrap(err, "ss: private key")
	}
	if d.Sign() < 0 {
		return nil, errors.New("ss: private key: negative exponent")
	}
	return &PrivateKey{pq: m.Big(), d: new(big.Int).Set(d), modulus: m}, nil
}

// newPrivateKeyFromFactors returns the private key for primes p, q and the public modulus n = p²q.
func newPrivateKeyFromFactors(p, q, n *big.Int) (*PrivateKey, error) {
	m, err := arith.ModulusFromFactors(p, q)
	if err != nil {
		return nil, errors.Wrap(err, "ss: private key")
	}
	pMinus1 := new(big.Int).Sub(p, one)
	qMinus1 := new(big.Int).Sub(q, one)
	d, err := arith.ModInverse(n, arith.LCM(pMinus1, qMinus1))
	if err != nil {
		return nil, errors.Wrap(err, "ss: private exponent")
	}
	return &PrivateKey{
		pq:      m.Big(),
		d:       d,
		p:       new(big.Int).Set(p),
		q:       new(big.Int).Set(q),
		modulus: m,
	}, nil
}

// N returns the public modulus.
func (pk *PublicKey) N() *big.Int { return new(big.Int).Set(pk.n) }

// User returns the name of the key's owner.
func (pk *PublicKey) User() string { return pk.user }

// PQ returns the private modulus pq.
func (sk *PrivateKey) PQ() *big.Int { return new(big.Int).Set(sk.pq) }

// D returns the private exponent.
func (sk *PrivateKey) D() *big.Int { return new(big.Int).Set(sk.d) }

// Factors returns p and q, if they are known.
func (sk *PrivateKey) Factors() (p, q *big.Int, ok bool) {
	if sk.p == nil || sk.q == nil {
		return nil, nil, false
	}
	return new(big.Int).Set(sk.p), new(big.Int).Set(sk.q), true
}

// GenerateKey creates a key pair whose public modulus has at most bits bits.
//
// p has between bits/5 and 2⋅bits/5 bits and q takes the remainder, so that n = p²q
// has between bits - 2 and bits bits. Both primes are generated concurrently, each
// from its own fork of rand, and each search is spread over the workers of pl.
//
// With a nil pl, the key depends only on the seed of rand. With more workers, which
// worker finds a prime first depends on scheduling.
func GenerateKey(rand *randstate.State, pl *pool.Pool, bits, iterations int, user string) (*PublicKey, *PrivateKey, error) {
	if bits < params.MinBits {
		return nil, nil, ErrKeySize
	}
	for attempt := uint64(0); attempt < maxKeyAttempts; attempt++ {
		pBits := sample.IntRange(rand, bits/5, 2*bits/5)
		qBits := bits - 2*pBits
		pState, qState := rand.Fork(2*attempt), rand.Fork(2*attempt+1)

		var p, q *big.Int
		var g errgroup.Group
		g.Go(func() (err error) {
			p, err = generatePrime(pl, pState, pBits, iterations)
			return err
		})
		g.Go(func() (err error) {
			q, err = generatePrime(pl, qState, qBits, iterations)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, nil, errors.Wrap(err, "ss: generate primes")
		}
		if !suitable(p, q) {
			continue
		}

		n := new(big.Int).Mul(p, p)
		n.Mul(n, q)
		sk, err := newPrivateKeyFromFactors(p, q, n)
		if err != nil {
			return nil, nil, err
		}
		return &PublicKey{n: n, user: user}, sk, nil
	}
	return nil, nil, ErrKeyGeneration
}

// generatePrime returns a prime of bits bits, worker i of pl reading from the fork i of state.
func generatePrime(pl *pool.Pool, state *randstate.State, bits, iterations int) (*big.Int, error) {
	forks := make([]*randstate.State, pl.Workers())
	for i := range forks {
		forks[i] = state.Fork(uint64(i))
	}
	primes, err := prime.Batch(pl, func(worker int) io.Reader { return forks[worker] }, 1, bits, iterations)
	if err != nil {
		return nil, err
	}
	return primes[0], nil
}

// suitable returns true if p ≠ q, p ∤ q - 1 and q ∤ p - 1.
func suitable(p, q *big.Int) bool {
	if p.Cmp(q) == 0 {
		return false
	}
	var r big.Int
	if r.Mod(new(big.Int).Sub(q, one), p).Sign() == 0 {
		return false
	}
	return r.Mod(new(big.Int).Sub(p, one), q).Sign() != 0
}

// Encrypt returns c = mⁿ (mod n), for 0 ≤ m < n.
//
// Decryption only recovers m if m < pq, which is guaranteed for blocks of BlockSize bytes.
func (pk *PublicKey) Encrypt(m *big.Int) (*big.Int, error) {
	if m.Sign() < 0 || m.Cmp(pk.n) >= 0 {
		return nil, ErrMessageRange
	}
	return arith.PowMod(m, pk.n, pk.n), nil
}

// Decrypt returns m = cᵈ (mod pq).
func (sk *PrivateKey) Decrypt(c *big.Int) (*big.Int, error) {
	if c.Sign() < 0 {
		return nil, ErrMessageRange
	}
	return sk.modulus.Exp(c, sk.d), nil
}
