package builder

import "fmt"

// Config configures the prove-or-split builder. Field names and defaults
// mirror builder.py's BuilderConfig one for one.
type Config struct {
	// Precision is the number of decimal places for quantization (p).
	Precision int

	// SampleK is the number of sample points checked per rectangle.
	SampleK int

	// BruteForceThreshold is the maximum point_count a rectangle may have
	// for the builder to attempt exhaustive verification.
	BruteForceThreshold int64

	// MaxDepth is a safety bound on recursion depth.
	MaxDepth int

	// Seed is the global sampling seed.
	Seed int64

	// BatchSize is the oracle batch size used during brute-force
	// verification.
	BatchSize int

	// Concurrency bounds how many sibling rectangles may be built
	// concurrently. 1 (the default) is fully sequential, matching the
	// spec's documented single-threaded behavior; values above 1 fan
	// independent sibling subtrees out across a bounded worker pool.
	Concurrency int
}

// DefaultConfig returns a Config with the same defaults as BuilderConfig.
func DefaultConfig(precision int) Config {
	return Config{
		Precision:           precision,
		SampleK:             16,
		BruteForceThreshold: 16384,
		MaxDepth:            64,
		Seed:                42,
		BatchSize:           10000,
		Concurrency:         1,
	}
}

// Validate rejects an invalid config before any oracle call is made.
func (c Config) Validate() error {
	if c.Precision < 0 {
		return fmt.Errorf("builder: precision must be non-negative, got %d", c.Precision)
	}
	if c.SampleK < 1 {
		return fmt.Errorf("builder: sample_k must be at least 1, got %d", c.SampleK)
	}
	if c.BruteForceThreshold < 1 {
		return fmt.Errorf("builder: brute_force_threshold must be at least 1, got %d", c.BruteForceThreshold)
	}
	if c.MaxDepth < 1 {
		return fmt.Errorf("builder: max_depth must be at least 1, got %d", c.MaxDepth)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("builder: batch_size must be at least 1, got %d", c.BatchSize)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("builder: concurrency must be at least 1, got %d", c.Concurrency)
	}
	return nil
}
