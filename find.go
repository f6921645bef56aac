package automata

import (
	"fmt"
	"unicode/utf8"
)

// Match is a half-open byte range [Start, End) of a haystack.
type Match struct {
	Start int
	End   int
}

// IsMatch reports whether the pattern matches anywhere in haystack. It
// is true exactly when Find reports a match.
//
// Without UTF-8 enforcement this only runs the forward automaton, and
// only until the first position known to be inside a match, so it is
// cheaper than Find. With enforcement on, the earliest end alone cannot
// tell whether the match lands on character boundaries, so the full
// find runs.
func (re *Regex) IsMatch(haystack []byte) bool {
	if re.enforceUTF8() {
		_, ok := re.findAt(haystack, 0)
		return ok
	}
	_, ok := re.forward.SearchForward(haystack, 0, true)
	return ok
}

// Find returns the position of the leftmost match in haystack.
func (re *Regex) Find(haystack []byte) (start, end int, ok bool) {
	m, ok := re.findAt(haystack, 0)
	if !ok {
		return 0, 0, false
	}
	return m.Start, m.End, true
}

// FindAnchored returns the match beginning exactly at offset at, if any.
func (re *Regex) FindAnchored(haystack []byte, at int) (Match, bool) {
	if at < 0 || at > len(haystack) {
		panic(fmt.Sprintf("automata: anchored search at offset %d of %d-byte haystack", at, len(haystack)))
	}
	end, ok := re.anchored.SearchForward(haystack, at, false)
	if !ok {
		return Match{}, false
	}
	m := Match{Start: at, End: end}
	if re.enforceUTF8() && !(boundary(haystack, m.Start) && boundary(haystack, m.End)) {
		return Match{}, false
	}
	return m, true
}

// findAt returns the leftmost match at or after offset at.
//
// The forward automaton yields the end of the match; the reverse
// automaton, scanning haystack[at:end] backwards, recovers its start.
// With UTF-8 enforcement on, a match with an offset inside a multi-byte
// encoding is discarded and the search resumes just past its start.
func (re *Regex) findAt(haystack []byte, at int) (Match, bool) {
	for at <= len(haystack) {
		end, ok := re.forward.SearchForward(haystack, at, false)
		if !ok {
			return Match{}, false
		}
		start, ok := re.reverse.SearchReverse(haystack, at, end)
		if !ok {
			// The forward automaton accepts exactly the ends of matches
			// starting at or after the scan offset, so the reverse
			// automaton cannot fail here.
			panic("automata: reverse search found no start for a forward match")
		}
		m := Match{Start: start, End: end}
		if !re.enforceUTF8() || (boundary(haystack, m.Start) && boundary(haystack, m.End)) {
			return m, true
		}
		at = m.Start + 1
	}
	return Match{}, false
}

func (re *Regex) enforceUTF8() bool {
	return re.config.Unicode && !re.config.AllowInvalidUTF8
}

// boundary reports whether offset i of haystack falls on a UTF-8
// character boundary (or at either end).
func boundary(haystack []byte, i int) bool {
	return i == 0 || i == len(haystack) || utf8.RuneStart(haystack[i])
}

// Iter is a lazy iterator over the non-overlapping, left-to-right matches
// of a pattern in one haystack. Iteration is deterministic: the same
// haystack always yields the same sequence.
type Iter struct {
	re       *Regex
	haystack []byte
	at       int
}

// FindIter returns an iterator over all matches in haystack.
func (re *Regex) FindIter(haystack []byte) *Iter {
	return &Iter{re: re, haystack: haystack}
}

// FindIterAt returns an iterator starting at byte offset at.
func (re *Regex) FindIterAt(haystack []byte, at int) *Iter {
	if at < 0 || at > len(haystack) {
		panic(fmt.Sprintf("automata: iterator at offset %d of %d-byte haystack", at, len(haystack)))
	}
	return &Iter{re: re, haystack: haystack, at: at}
}

// Next returns the next match. After the first false, every call returns
// false.
//
// The scan resumes at the end of the previous match, or one byte past it
// when the match was empty, so iteration always terminates.
func (it *Iter) Next() (Match, bool) {
	if it.at > len(it.haystack) {
		return Match{}, false
	}
	m, ok := it.re.findAt(it.haystack, it.at)
	if !ok {
		it.at = len(it.haystack) + 1
		return Match{}, false
	}
	if m.End == m.Start {
		it.at = m.End + 1
	} else {
		it.at = m.End
	}
	return m, true
}
