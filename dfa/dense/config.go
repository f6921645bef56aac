package dense

import "github.com/coregx/automata/dfa"

// Config configures determinization of an NFA into a dense DFA.
//
// The configuration tunes the trade-off between build time, memory usage
// and search speed. The defaults favor a compact, fast automaton.
type Config struct {
	// Anchored selects which NFA start state the DFA is built from.
	// An unanchored DFA restarts match candidates structurally (via the
	// NFA's leading byte loop); an anchored DFA only matches at the
	// position the search begins at.
	//
	// Default: false (unanchored)
	Anchored bool

	// ByteClasses enables byte equivalence class compression. Bytes the
	// pattern never distinguishes share a single column in the transition
	// table, often shrinking it by an order of magnitude.
	//
	// Default: true
	ByteClasses bool

	// Premultiply scales state IDs by the alphabet length so that a
	// transition lookup is a single add instead of a multiply and add.
	// Premultiplied IDs are opaque table offsets.
	//
	// Default: true
	Premultiply bool

	// Minimize runs Moore partition refinement after determinization,
	// producing the unique minimal DFA for the language. Slower to build,
	// never larger.
	//
	// Default: false
	Minimize bool

	// SizeLimit is the maximum number of DFA states to create before
	// failing with a state limit error. Zero or less means no limit.
	//
	// Subset construction can be exponential in the NFA size for
	// pathological patterns; the limit turns that into a recoverable
	// error instead of unbounded memory growth.
	//
	// Default: 100,000 states
	SizeLimit int
}

// DefaultConfig returns a configuration with sensible defaults:
// unanchored, byte classes and premultiplication on, minimization off,
// 100,000-state ceiling.
func DefaultConfig() Config {
	return Config{
		ByteClasses: true,
		Premultiply: true,
		SizeLimit:   100_000,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.SizeLimit < 0 {
		return &dfa.BuildError{
			Kind:    dfa.InvalidConfig,
			Message: "SizeLimit must be >= 0",
		}
	}
	return nil
}

// WithAnchored returns a new config with anchored matching set.
func (c Config) WithAnchored(anchored bool) Config {
	c.Anchored = anchored
	return c
}

// WithByteClasses returns a new config with byte class compression set.
func (c Config) WithByteClasses(enabled bool) Config {
	c.ByteClasses = enabled
	return c
}

// WithPremultiply returns a new config with premultiplication set.
func (c Config) WithPremultiply(enabled bool) Config {
	c.Premultiply = enabled
	return c
}

// WithMinimize returns a new config with minimization set.
func (c Config) WithMinimize(enabled bool) Config {
	c.Minimize = enabled
	return c
}

// WithSizeLimit returns a new config with the specified state ceiling.
func (c Config) WithSizeLimit(limit int) Config {
	c.SizeLimit = limit
	return c
}
