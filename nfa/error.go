// Package nfa compiles regexp/syntax abstract syntax trees into Thompson
// NFAs over the byte alphabet.
//
// The NFA is an intermediate form: it exists only to be determinized into a
// dense or sparse DFA. Character classes are expanded over UTF-8 byte
// sequences, so the resulting automaton consumes raw bytes and never decodes
// runes at search time. The compiler can also build the NFA of the reversed
// language, which the surrounding engine determinizes into the reverse DFA
// used to recover match start offsets.
package nfa

import (
	"errors"
	"fmt"
)

// Sentinel errors reported during compilation. All of them are wrapped in a
// *CompileError, so use errors.Is to test for them.
var (
	// ErrUnsupported indicates the pattern requires a construct this
	// engine does not implement, such as zero-width assertions.
	// It is reported before any construction work begins.
	ErrUnsupported = errors.New("unsupported pattern construct")

	// ErrNFATooLarge indicates the NFA exceeded the configured state
	// limit during construction.
	ErrNFATooLarge = errors.New("NFA exceeds configured size limit")

	// ErrRepeatTooLarge indicates a bounded repetition {m,n} whose
	// unrolling would exceed the configured repeat limit.
	ErrRepeatTooLarge = errors.New("repetition bound exceeds configured limit")
)

// CompileError wraps compilation failures with the offending pattern.
type CompileError struct {
	Pattern string
	Err     error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("NFA compilation failed for pattern %q: %v", e.Pattern, e.Err)
	}
	return fmt.Sprintf("NFA compilation failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *CompileError) Unwrap() error {
	return e.Err
}

// BuildError reports a malformed NFA detected by the Builder.
type BuildError struct {
	Message string
	StateID StateID
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	if e.StateID != InvalidState {
		return fmt.Sprintf("NFA build error at state %d: %s", e.StateID, e.Message)
	}
	return fmt.Sprintf("NFA build error: %s", e.Message)
}
