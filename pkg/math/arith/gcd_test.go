package arith

import (
	"math/big"
	mrand "math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGCD(t *testing.T) {
	tests := []struct {
		a, t, want int64
	}{
		{48, 18, 6},
		{18, 48, 6},
		{17, 5, 1},
		{0, 0, 0},
		{7, 0, 7},
		{0, 7, 7},
		{-48, 18, 6},
		{48, -18, 6},
		{-7, 0, 7},
		{1 << 40, 1 << 20, 1 << 20},
	}
	for _, tt := range tests {
		a, b := big.NewInt(tt.a), big.NewInt(tt.t)
		g := GCD(a, b)
		assert.Equal(t, tt.want, g.Int64(), "gcd(%d, %d)", tt.a, tt.t)
		assert.Equal(t, tt.a, a.Int64(), "gcd should not modify its arguments")
		assert.Equal(t, tt.t, b.Int64(), "gcd should not modify its arguments")
	}
}

func TestGCDLargest(t *testing.T) {
	r := mrand.New(mrand.NewSource(0))
	bound := new(big.Int).Lsh(one, 512)
	for i := 0; i < 200; i++ {
		a := new(big.Int).Rand(r, bound)
		b := new(big.Int).Rand(r, bound)
		// force a known common factor
		c := big.NewInt(r.Int63n(1 << 20))
		a.Mul(a, c)
		b.Mul(b, c)

		g := GCD(a, b)
		require.True(t, g.Sign() >= 0)
		expected := new(big.Int).GCD(nil, nil, a, b)
		require.Equal(t, 0, expected.Cmp(g), "gcd(%v, %v)", a, b)
		if g.Sign() == 0 {
			continue
		}
		assert.Zero(t, new(big.Int).Mod(a, g).Sign(), "gcd must divide a")
		assert.Zero(t, new(big.Int).Mod(b, g).Sign(), "gcd must divide b")
		// dividing out the gcd leaves coprime cofactors, so no larger divisor exists
		assert.True(t, IsCoprime(new(big.Int).Quo(a, g), new(big.Int).Quo(b, g)))
	}
}

func TestIsCoprime(t *testing.T) {
	assert.True(t, IsCoprime(big.NewInt(35), big.NewInt(64)))
	assert.False(t, IsCoprime(big.NewInt(35), big.NewInt(21)))
	assert.False(t, IsCoprime(big.NewInt(0), big.NewInt(0)))
	assert.True(t, IsCoprime(big.NewInt(0), big.NewInt(1)))
}

func TestLCM(t *testing.T) {
	assert.Equal(t, int64(36), LCM(big.NewInt(12), big.NewInt(18)).Int64())
	assert.Equal(t, int64(36), LCM(big.NewInt(-12), big.NewInt(18)).Int64())
	assert.Equal(t, int64(0), LCM(big.NewInt(0), big.NewInt(18)).Int64())
	assert.Equal(t, int64(17*19), LCM(big.NewInt(17), big.NewInt(19)).Int64())
}
