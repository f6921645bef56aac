// Package automata compiles regular expressions into fully-built
// deterministic finite automata and searches with them.
//
// Unlike a backtracking engine or a lazily-determinized one, every
// automaton here is constructed completely at compile time. That makes
// compilation comparatively expensive and memory-hungry (worst case
// exponential in the pattern size, bounded by explicit limits) in
// exchange for searches that are a straight byte-at-a-time table walk
// with no allocation, no locks and no pathological inputs.
//
// Basic usage:
//
//	re, err := automata.Compile(`[0-9]{4}-[0-9]{2}-[0-9]{2}`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	start, end, ok := re.Find([]byte("launch date: 2026-03-14"))
//	// start == 13, end == 23
//
// Match semantics are leftmost-first: among all matches, the one
// starting earliest wins, and at that start the pattern's preference
// order decides the extent. Greedy operators extend as far as possible,
// while an earlier alternative beats a longer later one, so a|ab finds
// "a" in "ab". Match positions are found with a pair of automata: a
// forward DFA locates the end of a match, then a reverse DFA (built from
// the reversed pattern) walks backwards to recover the start.
//
// Automata can be serialized to portable, endianness-tagged buffers and
// loaded back, including via mmap, without copying transition data; see
// Regex.Serialize and DeserializeRegex.
//
// The pattern syntax is Go's regexp/syntax (Perl flavor) minus empty-width
// assertions: ^, $, \b and \B are rejected at compile time. Capture
// groups are grouping-only; the engine reports whole-match positions.
package automata

import (
	"fmt"
	"strings"

	"github.com/coregx/automata/dfa"
	"github.com/coregx/automata/dfa/dense"
	"github.com/coregx/automata/dfa/sparse"
	"github.com/coregx/automata/nfa"
)

// Regex is a compiled regular expression backed by three deterministic
// automata: a forward DFA for finding match ends, an anchored forward DFA
// for anchored searches, and an anchored reverse DFA for recovering match
// starts.
//
// A Regex is immutable and safe for concurrent use.
type Regex struct {
	pattern string
	config  Config

	// forward finds match ends; unanchored unless config.Anchored.
	forward dfa.Automaton
	// anchored finds match ends only at the search start.
	anchored dfa.Automaton
	// reverse finds match starts, scanning backwards from a known end.
	reverse dfa.Automaton
}

// Compile compiles a pattern with the default configuration.
func Compile(pattern string) (*Regex, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// MustCompile is like Compile but panics on error. Intended for patterns
// known valid at program start.
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic(fmt.Sprintf("automata: Compile(%q): %v", pattern, err))
	}
	return re
}

// CompileWithConfig compiles a pattern with an explicit configuration.
//
// The pipeline runs entirely up front: the pattern is parsed, compiled
// into forward and reverse Thompson NFAs, determinized three ways
// (forward, anchored forward, anchored reverse), optionally minimized,
// narrowed to the chosen state width and converted to the chosen
// representation. All size limits apply per automaton.
func CompileWithConfig(pattern string, config Config) (*Regex, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	body, unicode := splitUnicodePrefix(pattern, config.Unicode)
	if unicode {
		body = rewritePerlClasses(body)
	}

	ccfg := nfa.DefaultCompilerConfig()
	ccfg.Unicode = unicode
	ccfg.CaseInsensitive = config.CaseInsensitive
	ccfg.DotNewline = config.DotNewline
	if config.NFASizeLimit >= 0 {
		ccfg.SizeLimit = config.NFASizeLimit
	}

	fwdNFA, err := nfa.NewCompiler(ccfg).Compile(body)
	if err != nil {
		return nil, err
	}
	revCfg := ccfg
	revCfg.Reverse = true
	revNFA, err := nfa.NewCompiler(revCfg).Compile(body)
	if err != nil {
		return nil, err
	}

	forward, err := buildAutomaton(fwdNFA, config, config.Anchored)
	if err != nil {
		return nil, err
	}
	anchored, err := buildAutomaton(fwdNFA, config, true)
	if err != nil {
		return nil, err
	}
	reverse, err := buildAutomaton(revNFA, config, true)
	if err != nil {
		return nil, err
	}

	return &Regex{
		pattern:  pattern,
		config:   config,
		forward:  forward,
		anchored: anchored,
		reverse:  reverse,
	}, nil
}

// buildAutomaton determinizes one NFA and lands it in the configured
// representation and state width.
func buildAutomaton(n *nfa.NFA, config Config, anchoredDFA bool) (dfa.Automaton, error) {
	dcfg := dense.DefaultConfig().
		WithAnchored(anchoredDFA).
		WithByteClasses(config.ByteClasses).
		WithMinimize(config.Minimize).
		WithPremultiply(false).
		WithSizeLimit(config.SizeLimit)
	d, err := dense.NewBuilder(dcfg).Build(n)
	if err != nil {
		return nil, err
	}

	premultiply := config.Premultiply && !config.Sparse
	width := config.StateSize
	if width == 0 {
		width = d.MinStateSize(premultiply)
	}

	if config.Sparse {
		switch width {
		case 1:
			return sparse.FromDense[uint8](d)
		case 2:
			return sparse.FromDense[uint16](d)
		case 4:
			return sparse.FromDense[uint32](d)
		default:
			return sparse.FromDense[uint64](d)
		}
	}
	switch width {
	case 1:
		return convertDense[uint8](d, premultiply)
	case 2:
		return convertDense[uint16](d, premultiply)
	case 4:
		return convertDense[uint32](d, premultiply)
	default:
		return convertDense[uint64](d, premultiply)
	}
}

func convertDense[S dfa.StateSize](d *dense.DFA[uint32], premultiply bool) (dfa.Automaton, error) {
	sized, err := dense.To[S](d)
	if err != nil {
		return nil, err
	}
	if premultiply {
		if err := sized.Premultiply(); err != nil {
			return nil, err
		}
	}
	return sized, nil
}

// splitUnicodePrefix strips a leading (?u) or (?-u) flag group, which
// regexp/syntax does not know, and reports the resulting Unicode mode.
func splitUnicodePrefix(pattern string, unicode bool) (string, bool) {
	switch {
	case strings.HasPrefix(pattern, "(?u)"):
		return pattern[len("(?u)"):], true
	case strings.HasPrefix(pattern, "(?-u)"):
		return pattern[len("(?-u)"):], false
	default:
		return pattern, unicode
	}
}

// Pattern returns the pattern the Regex was compiled from.
func (re *Regex) Pattern() string { return re.pattern }

// ForwardAutomaton returns the automaton used to locate match ends.
func (re *Regex) ForwardAutomaton() dfa.Automaton { return re.forward }

// ReverseAutomaton returns the automaton used to locate match starts.
func (re *Regex) ReverseAutomaton() dfa.Automaton { return re.reverse }

// MemoryUsage reports the total heap bytes backing the three automata's
// transition data.
func (re *Regex) MemoryUsage() int {
	return re.forward.MemoryUsage() + re.anchored.MemoryUsage() + re.reverse.MemoryUsage()
}

// String returns the pattern.
func (re *Regex) String() string { return re.pattern }
