package arith

import (
	"math/big"

	"github.com/cronokirby/saferith"
)

// Modulus wraps a saferith.Modulus and enables faster modular exponentiation when
// the factorization is known.
//
// It is meant for secret exponents, such as a private decryption exponent,
// where saferith's constant-time exponentiation is preferable to PowMod.
// When n = p⋅q, xᵉ (mod n) can be computed with only two exponentiations
// with p and q respectively.
type Modulus struct {
	// represents modulus n
	n *saferith.Modulus
	// n = p⋅q
	p, q *saferith.Modulus
	// pInv = p⁻¹ (mod q)
	pNat, pInv *saferith.Nat
}

// ModulusFromN creates a Modulus for n without any factorization.
func ModulusFromN(n *big.Int) (*Modulus, error) {
	if n.Sign() < 1 {
		return nil, ErrInvalidModulus
	}
	return &Modulus{n: saferith.ModulusFromNat(natFromBig(n))}, nil
}

// ModulusFromFactors creates the necessary cached values to accelerate
// exponentiation mod n = p⋅q.
//
// p and q must be coprime and larger than 1, otherwise ErrInvalidModulus or
// ErrNotInvertible is returned.
func ModulusFromFactors(p, q *big.Int) (*Modulus, error) {
	if p.Cmp(one) <= 0 || q.Cmp(one) <= 0 {
		return nil, ErrInvalidModulus
	}
	pInv, err := ModInverse(p, q)
	if err != nil {
		return nil, err
	}
	pNat, qNat := natFromBig(p), natFromBig(q)
	nNat := new(saferith.Nat).Mul(pNat, qNat, -1)
	return &Modulus{
		n:    saferith.ModulusFromNat(nNat),
		p:    saferith.ModulusFromNat(pNat),
		q:    saferith.ModulusFromNat(qNat),
		pNat: pNat,
		pInv: natFromBig(pInv),
	}, nil
}

// Big returns n as a *big.Int.
func (m *Modulus) Big() *big.Int {
	return m.n.Big()
}

// BitLen returns the number of bits of n.
func (m *Modulus) BitLen() int {
	return m.n.BitLen()
}

// Exp returns xᵉ (mod n) ∈ [0, n). x may be any integer, e must be non-negative.
func (m *Modulus) Exp(x, e *big.Int) *big.Int {
	if e.Sign() < 0 {
		panic("arith.Modulus.Exp: negative exponent")
	}
	xNat := natFromBig(new(big.Int).Mod(x, m.n.Big()))
	eNat := natFromBig(e)
	if m.hasFactorization() {
		var xp, xq saferith.Nat
		xp.Exp(new(saferith.Nat).Mod(xNat, m.p), eNat, m.p) // x₁ = xᵉ (mod p)
		xq.Exp(new(saferith.Nat).Mod(xNat, m.q), eNat, m.q) // x₂ = xᵉ (mod q)
		// r = x₁ + p ⋅ [p⁻¹ (mod q)] ⋅ [x₂ - x₁] (mod n)
		r := xq.ModSub(&xq, &xp, m.n)
		r.ModMul(r, m.pInv, m.n)
		r.ModMul(r, m.pNat, m.n)
		r.ModAdd(r, &xp, m.n)
		return r.Big()
	}
	return new(saferith.Nat).Exp(new(saferith.Nat).Mod(xNat, m.n), eNat, m.n).Big()
}

func (m Modulus) hasFactorization() bool {
	return m.p != nil && m.q != nil && m.pNat != nil && m.pInv != nil
}

func natFromBig(x *big.Int) *saferith.Nat {
	return new(saferith.Nat).SetBig(x, x.BitLen())
}
