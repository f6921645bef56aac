package dfa

import "fmt"

// ErrStateLimitExceeded indicates that determinization reached the
// configured maximum number of DFA states.
//
// This prevents unbounded memory growth for pathological patterns; it is
// a recoverable condition the caller can respond to by raising the limit
// or rejecting the pattern.
var ErrStateLimitExceeded = &BuildError{
	Kind:    StateLimitExceeded,
	Message: "DFA state limit exceeded",
}

// ErrStateWidthOverflow indicates that the automaton does not fit in the
// requested state ID width.
var ErrStateWidthOverflow = &BuildError{
	Kind:    StateWidthOverflow,
	Message: "state IDs do not fit the requested width",
}

// ErrInvalidConfig indicates that the provided configuration is invalid.
// This is caught during construction.
var ErrInvalidConfig = &BuildError{
	Kind:    InvalidConfig,
	Message: "invalid DFA configuration",
}

// ErrorKind classifies DFA construction errors.
type ErrorKind uint8

const (
	// StateLimitExceeded indicates too many states were created.
	StateLimitExceeded ErrorKind = iota

	// StateWidthOverflow indicates a state ID or premultiplied offset
	// overflowed the target width.
	StateWidthOverflow

	// InvalidConfig indicates configuration validation failed.
	InvalidConfig
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case StateLimitExceeded:
		return "StateLimitExceeded"
	case StateWidthOverflow:
		return "StateWidthOverflow"
	case InvalidConfig:
		return "InvalidConfig"
	default:
		return fmt.Sprintf("UnknownErrorKind(%d)", k)
	}
}

// BuildError represents an error during DFA construction or conversion.
type BuildError struct {
	Kind    ErrorKind
	Message string
	Cause   error // optional underlying error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error (for errors.Is/As).
func (e *BuildError) Unwrap() error {
	return e.Cause
}

// Is matches BuildErrors by Kind, so errors.Is(err, ErrStateLimitExceeded)
// works for any instance carrying that kind.
func (e *BuildError) Is(target error) bool {
	t, ok := target.(*BuildError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// FormatErrorKind classifies deserialization failures.
type FormatErrorKind uint8

const (
	// FormatBadMagic indicates the buffer does not start with the
	// expected representation tag.
	FormatBadMagic FormatErrorKind = iota

	// FormatBadVersion indicates an unknown serialization version.
	FormatBadVersion

	// FormatBadEndianness indicates the endianness marker is corrupt, or
	// the buffer was serialized in a byte order the loader cannot use
	// without converting.
	FormatBadEndianness

	// FormatTruncated indicates the buffer is shorter than its header
	// claims.
	FormatTruncated

	// FormatBadDimensions indicates internally inconsistent dimensions
	// (state count, alphabet length, table length, state width).
	FormatBadDimensions

	// FormatMisaligned indicates the table bytes are not aligned for
	// zero-copy reinterpretation at the declared state width.
	FormatMisaligned
)

// String returns a human-readable format error kind name.
func (k FormatErrorKind) String() string {
	switch k {
	case FormatBadMagic:
		return "BadMagic"
	case FormatBadVersion:
		return "BadVersion"
	case FormatBadEndianness:
		return "BadEndianness"
	case FormatTruncated:
		return "Truncated"
	case FormatBadDimensions:
		return "BadDimensions"
	case FormatMisaligned:
		return "Misaligned"
	default:
		return fmt.Sprintf("UnknownFormatErrorKind(%d)", k)
	}
}

// FormatError represents a malformed or unusable serialized automaton.
type FormatError struct {
	Kind    FormatErrorKind
	Message string
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid automaton data (%s): %s", e.Kind, e.Message)
}

// Is matches FormatErrors by Kind.
func (e *FormatError) Is(target error) bool {
	t, ok := target.(*FormatError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinel values for errors.Is comparisons by kind.
var (
	ErrBadMagic      = &FormatError{Kind: FormatBadMagic, Message: "unrecognized magic"}
	ErrBadVersion    = &FormatError{Kind: FormatBadVersion, Message: "unsupported version"}
	ErrBadEndianness = &FormatError{Kind: FormatBadEndianness, Message: "endianness mismatch"}
	ErrTruncated     = &FormatError{Kind: FormatTruncated, Message: "buffer truncated"}
	ErrBadDimensions = &FormatError{Kind: FormatBadDimensions, Message: "inconsistent dimensions"}
	ErrMisaligned    = &FormatError{Kind: FormatMisaligned, Message: "table misaligned"}
)
