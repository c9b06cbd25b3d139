// Package prime implements the Miller-Rabin probabilistic primality test and
// random prime generation.
//
// Every randomized function takes its random source explicitly, so that a
// seeded source yields reproducible results.
package prime

import (
	"io"
	"math/big"

	"github.com/taurusgroup/schmidt-samoa/pkg/math/arith"
	"github.com/taurusgroup/schmidt-samoa/pkg/math/sample"
)

var (
	one   = big.NewInt(1)
	two   = big.NewInt(2)
	three = big.NewInt(3)
	five  = big.NewInt(5)
)

// EffectiveTrials returns the number of witnesses IsPrime draws for a given iteration count.
//
// This is iterations - 1: a call with iterations = 1 performs no trial at all,
// and accepts every odd n ≥ 5.
func EffectiveTrials(iterations int) int {
	if iterations < 1 {
		return 0
	}
	return iterations - 1
}

// IsPrime reports whether n is probably prime, using the Miller-Rabin test.
//
// Primes are always accepted. A composite is accepted with probability at most
// 4^-EffectiveTrials(iterations). Integers below 5, including zero and negative
// integers, are classified exactly.
//
// IsPrime panics with sample.ErrMaxIterations if no witness can be drawn from rand.
func IsPrime(rand io.Reader, n *big.Int, iterations int) bool {
	ok, err := isPrime(rand, n, iterations)
	if err != nil {
		panic(err)
	}
	return ok
}

func isPrime(rand io.Reader, n *big.Int, iterations int) (bool, error) {
	if n.Cmp(five) < 0 {
		return n.Cmp(two) == 0 || n.Cmp(three) == 0, nil
	}
	if n.Bit(0) == 0 {
		return false, nil
	}

	// n - 1 = r⋅2ˢ, with r odd
	nMinus1 := new(big.Int).Sub(n, one)
	s := int(nMinus1.TrailingZeroBits())
	r := new(big.Int).Rsh(nMinus1, uint(s))

	// witnesses are drawn from [2, n - 2], i.e. 2 + [0, n - 3)
	width := new(big.Int).Sub(n, three)
	for i := 0; i < EffectiveTrials(iterations); i++ {
		a, err := sample.TryModN(rand, width)
		if err != nil {
			return false, err
		}
		a.Add(a, two)
		if isWitness(a, r, s, n, nMinus1) {
			return false, nil
		}
	}
	return true, nil
}

// isWitness returns true if a proves that n = r⋅2ˢ + 1 is composite.
func isWitness(a, r *big.Int, s int, n, nMinus1 *big.Int) bool {
	y := arith.PowMod(a, r, n)
	if y.Cmp(one) == 0 || y.Cmp(nMinus1) == 0 {
		return false
	}
	for j := 1; j < s && y.Cmp(nMinus1) != 0; j++ {
		y = arith.PowMod(y, two, n)
		// a nontrivial square root of 1 was found
		if y.Cmp(one) == 0 {
			return true
		}
	}
	return y.Cmp(nMinus1) != 0
}
