package arith

import "math/big"

// PowMod returns aᵈ (mod n) ∈ [0, n), using square-and-multiply.
//
// a may be negative, in which case it is first reduced into [0, n).
// PowMod(a, 0, n) = 1 mod n.
//
// PowMod panics if n ≤ 0 or d < 0.
func PowMod(a, d, n *big.Int) *big.Int {
	if n.Sign() <= 0 {
		panic("arith.PowMod: modulus must be positive")
	}
	if d.Sign() < 0 {
		panic("arith.PowMod: negative exponent")
	}
	v := new(big.Int).Mod(one, n)
	base := new(big.Int).Mod(a, n)
	e := new(big.Int).Set(d)
	for e.Sign() > 0 {
		if e.Bit(0) == 1 {
			v.Mul(v, base)
			v.Mod(v, n)
		}
		base.Mul(base, base)
		base.Mod(base, n)
		e.Rsh(e, 1)
	}
	return v
}
