package automata

import "github.com/coregx/automata/dfa"

// Config configures compilation of a pattern into a Regex.
//
// The defaults produce a dense, byte-class-compressed, premultiplied
// automaton pair with Unicode semantics, which is the right trade-off for
// most patterns. Memory-sensitive callers enable Sparse or Minimize;
// callers scanning raw binary data disable Unicode or enable
// AllowInvalidUTF8.
type Config struct {
	// Unicode selects rune-oriented matching: '.' matches a codepoint,
	// classes and case folding are Unicode-aware, and matches land on
	// UTF-8 boundaries. When false, matching is byte-oriented. A leading
	// (?u) or (?-u) in the pattern overrides this per pattern.
	//
	// Default: true
	Unicode bool

	// CaseInsensitive enables case-insensitive matching for the whole
	// pattern, equivalent to a leading (?i).
	CaseInsensitive bool

	// DotNewline determines whether '.' matches '\n', equivalent to a
	// leading (?s).
	DotNewline bool

	// Anchored restricts matches to start exactly where the search
	// begins.
	Anchored bool

	// Minimize runs DFA minimization after determinization. Slower
	// compilation, never a larger automaton.
	Minimize bool

	// Sparse stores the automata in the sparse representation, trading
	// search speed for memory.
	Sparse bool

	// StateSize fixes the state ID width in bytes (1, 2, 4 or 8).
	// Zero selects the narrowest width that fits each automaton.
	StateSize int

	// Premultiply scales dense state IDs by the alphabet length so a
	// transition is one add instead of a multiply and add. Ignored for
	// sparse automata.
	//
	// Default: true
	Premultiply bool

	// ByteClasses enables byte equivalence class compression of the
	// transition tables.
	//
	// Default: true
	ByteClasses bool

	// AllowInvalidUTF8 disables the UTF-8 boundary check on match
	// offsets, allowing matches to start or end inside a multi-byte
	// encoding. Only meaningful in Unicode mode.
	AllowInvalidUTF8 bool

	// SizeLimit caps the number of states in each DFA. Exceeding it
	// fails compilation with a state limit error rather than consuming
	// unbounded memory. Zero means no limit.
	//
	// Default: 100,000 states per automaton
	SizeLimit int

	// NFASizeLimit caps the number of NFA states before determinization.
	// Zero means no limit.
	//
	// Default: 100,000 states
	NFASizeLimit int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Unicode:      true,
		Premultiply:  true,
		ByteClasses:  true,
		SizeLimit:    100_000,
		NFASizeLimit: 100_000,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.StateSize {
	case 0, 1, 2, 4, 8:
	default:
		return &dfa.BuildError{
			Kind:    dfa.InvalidConfig,
			Message: "StateSize must be 0, 1, 2, 4 or 8",
		}
	}
	if c.SizeLimit < 0 {
		return &dfa.BuildError{
			Kind:    dfa.InvalidConfig,
			Message: "SizeLimit must be >= 0",
		}
	}
	if c.NFASizeLimit < 0 {
		return &dfa.BuildError{
			Kind:    dfa.InvalidConfig,
			Message: "NFASizeLimit must be >= 0",
		}
	}
	return nil
}

// WithUnicode returns a new config with Unicode mode set.
func (c Config) WithUnicode(enabled bool) Config {
	c.Unicode = enabled
	return c
}

// WithCaseInsensitive returns a new config with case folding set.
func (c Config) WithCaseInsensitive(enabled bool) Config {
	c.CaseInsensitive = enabled
	return c
}

// WithDotNewline returns a new config with '.' matching '\n' set.
func (c Config) WithDotNewline(enabled bool) Config {
	c.DotNewline = enabled
	return c
}

// WithAnchored returns a new config with anchored matching set.
func (c Config) WithAnchored(anchored bool) Config {
	c.Anchored = anchored
	return c
}

// WithMinimize returns a new config with minimization set.
func (c Config) WithMinimize(enabled bool) Config {
	c.Minimize = enabled
	return c
}

// WithSparse returns a new config with the sparse representation set.
func (c Config) WithSparse(enabled bool) Config {
	c.Sparse = enabled
	return c
}

// WithStateSize returns a new config with a fixed state ID width.
func (c Config) WithStateSize(size int) Config {
	c.StateSize = size
	return c
}

// WithPremultiply returns a new config with premultiplication set.
func (c Config) WithPremultiply(enabled bool) Config {
	c.Premultiply = enabled
	return c
}

// WithByteClasses returns a new config with byte class compression set.
func (c Config) WithByteClasses(enabled bool) Config {
	c.ByteClasses = enabled
	return c
}

// WithAllowInvalidUTF8 returns a new config with the boundary check
// disabled or enabled.
func (c Config) WithAllowInvalidUTF8(allow bool) Config {
	c.AllowInvalidUTF8 = allow
	return c
}

// WithSizeLimit returns a new config with the DFA state ceiling set.
func (c Config) WithSizeLimit(limit int) Config {
	c.SizeLimit = limit
	return c
}

// WithNFASizeLimit returns a new config with the NFA state ceiling set.
func (c Config) WithNFASizeLimit(limit int) Config {
	c.NFASizeLimit = limit
	return c
}
