package arith

import (
	"errors"
	"math/big"
)

var (
	// ErrNotInvertible is returned by ModInverse when gcd(a, n) > 1.
	ErrNotInvertible = errors.New("arith: element is not invertible")
	// ErrInvalidModulus is returned when a modulus is smaller than 1.
	ErrInvalidModulus = errors.New("arith: modulus must be positive")
)

// ModInverse returns x ∈ [0, n) such that a⋅x ≡ 1 (mod n).
//
// The inverse is computed with the extended Euclidean algorithm, tracking only the
// Bézout coefficient of a. ErrNotInvertible is returned if a and n share a factor.
// For n = 1 the result is 0, since every integer is congruent to 0.
func ModInverse(a, n *big.Int) (*big.Int, error) {
	if n.Sign() < 1 {
		return nil, ErrInvalidModulus
	}
	// r = n, r' = a mod n
	r := new(big.Int).Set(n)
	rp := new(big.Int).Mod(a, n)
	// t = 0, t' = 1
	t := new(big.Int)
	tp := new(big.Int).SetInt64(1)

	var q, tmp big.Int
	for rp.Sign() != 0 {
		q.Quo(r, rp)
		// (r, r') ← (r', r - q⋅r')
		tmp.Mul(&q, rp)
		tmp.Sub(r, &tmp)
		r.Set(rp)
		rp.Set(&tmp)
		// (t, t') ← (t', t - q⋅t')
		tmp.Mul(&q, tp)
		tmp.Sub(t, &tmp)
		t.Set(tp)
		tp.Set(&tmp)
	}
	if r.Cmp(one) > 0 {
		return nil, ErrNotInvertible
	}
	if t.Sign() < 0 {
		t.Add(t, n)
	}
	return t, nil
}
