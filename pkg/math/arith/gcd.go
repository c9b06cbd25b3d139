package arith

import "math/big"

var one = big.NewInt(1)

// GCD returns the greatest common divisor of a and t, computed with Euclid's algorithm.
//
// The result is always non-negative: GCD(a, 0) = |a|, and GCD(0, 0) = 0.
// Neither argument is modified.
func GCD(a, t *big.Int) *big.Int {
	x := new(big.Int).Abs(a)
	y := new(big.Int).Abs(t)
	var r big.Int
	// (x, y) ← (y, x mod y)
	for y.Sign() != 0 {
		r.Mod(x, y)
		x.Set(y)
		y.Set(&r)
	}
	return x
}

// IsCoprime returns true if gcd(a,b) = 1.
func IsCoprime(a, b *big.Int) bool {
	return GCD(a, b).Cmp(one) == 0
}

// LCM returns the least common multiple |a⋅b| / gcd(a,b), or 0 if either argument is 0.
func LCM(a, b *big.Int) *big.Int {
	if a.Sign() == 0 || b.Sign() == 0 {
		return new(big.Int)
	}
	l := new(big.Int).Mul(a, b)
	l.Abs(l)
	return l.Quo(l, GCD(a, b))
}
