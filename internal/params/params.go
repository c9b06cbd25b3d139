package params

const (
	// DefaultBits is the default minimum size of a public modulus n = p²q.
	DefaultBits = 256

	// DefaultIterations is the default Miller-Rabin iteration count.
	//
	// The test performs DefaultIterations - 1 trials, which bounds the probability
	// of a composite being accepted by 4⁻⁴⁹.
	DefaultIterations = 50

	// MaxSampleIterations bounds the number of reads attempted against a failing
	// random source before giving up.
	MaxSampleIterations = 255

	// MaxPrimeIterations is the number of candidates tried before prime generation gives up.
	//
	// By the prime number theorem a random k-bit integer is prime with probability ≈ 1/(0.69⋅k),
	// so for the sizes used here this cap is only reached by a degenerate random source.
	MaxPrimeIterations = 100_000

	// MinBits is the smallest public modulus size for which the block encoding
	// can carry at least one byte of payload.
	MinBits = 40

	// BlockPrefix is the byte prepended to every plaintext block.
	//
	// It keeps leading zero bytes of the payload from being lost when the block is
	// interpreted as an integer.
	BlockPrefix = 0xFF
)
