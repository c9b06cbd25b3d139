package prime

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/taurusgroup/schmidt-samoa/internal/params"
	"github.com/taurusgroup/schmidt-samoa/pkg/math/sample"
	"github.com/taurusgroup/schmidt-samoa/pkg/pool"
)

// ErrBitLength is returned when asking for a prime with fewer than 2 bits.
var ErrBitLength = errors.New("prime: bit length must be at least 2")

// ErrMaxPrimeIterations is the error we return when we fail to generate a prime.
var ErrMaxPrimeIterations = fmt.Errorf("prime: failed to generate prime after %d iterations", params.MaxPrimeIterations)

// Generate returns a random prime of exactly bits bits, as accepted by IsPrime
// with the given iteration count.
//
// Candidates are uniform integers with their top bit set. After params.MaxPrimeIterations
// rejected candidates, which only happens with a degenerate random source,
// ErrMaxPrimeIterations is returned. It is also returned, wrapping sample.ErrMaxIterations,
// when rand fails or is too degenerate to yield a candidate or a witness.
func Generate(rand io.Reader, bits, iterations int) (*big.Int, error) {
	return generate(rand, bits, iterations, params.MaxPrimeIterations)
}

func generate(rand io.Reader, bits, iterations, maxAttempts int) (*big.Int, error) {
	if bits < 2 {
		return nil, ErrBitLength
	}
	for i := 0; i < maxAttempts; i++ {
		p, err := sample.TryBits(rand, bits)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMaxPrimeIterations, err)
		}
		ok, err := isPrime(rand, p, iterations)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMaxPrimeIterations, err)
		}
		if ok {
			return p, nil
		}
	}
	return nil, ErrMaxPrimeIterations
}

type result struct {
	p   *big.Int
	err error
}

// Batch generates count primes of exactly bits bits, using the workers of pl.
//
// fork is called once per worker, before the search starts, and the returned reader
// is used by that worker only, so no random source is ever shared between goroutines.
// Which of the workers' primes end up in the result depends on scheduling.
//
// The first error encountered by a worker is returned.
func Batch(pl *pool.Pool, fork func(worker int) io.Reader, count, bits, iterations int) ([]*big.Int, error) {
	if bits < 2 {
		return nil, ErrBitLength
	}
	readers := make([]io.Reader, pl.Workers())
	for i := range readers {
		readers[i] = fork(i)
	}
	results := pl.Search(count, func(worker int) interface{} {
		p, err := Generate(readers[worker], bits, iterations)
		return &result{p: p, err: err}
	})
	primes := make([]*big.Int, 0, count)
	for _, r := range results {
		res := r.(*result)
		if res.err != nil {
			return nil, res.err
		}
		primes = append(primes, res.p)
	}
	return primes, nil
}

// Shared returns a fork function handing the same reader to every worker, guarded by a lock.
//
// This is safe, but the interleaving of reads makes the output irreproducible.
func Shared(rand io.Reader) func(worker int) io.Reader {
	locked := pool.NewLockedReader(rand)
	return func(int) io.Reader {
		return locked
	}
}
