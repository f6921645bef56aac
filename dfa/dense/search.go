package dense

import "github.com/coregx/automata/internal/memchr"

// SearchForward scans haystack[at:] and returns the end offset of the
// match, if any.
//
// The scan advances one byte at a time, recording the offset each time
// the automaton sits in a match state, and stops when it reaches the dead
// state or exhausts the input; the last recorded offset is the result.
// Because determinization truncates each state set at its first match,
// threads for later-starting candidates do not survive a match, so an
// unanchored automaton goes dead as soon as the leftmost match cannot be
// extended and the recorded end belongs to the leftmost match.
//
// When earliest is true the scan returns at the first recorded match
// offset instead. That is enough for boolean matching and skips the tail
// of long matches.
//
// Calling SearchForward on a reversed automaton is a programming error
// and panics.
func (d *DFA[S]) SearchForward(haystack []byte, at int, earliest bool) (int, bool) {
	if d.reversed {
		panic("dense: forward search on a reversed DFA")
	}
	state := d.start
	if d.IsDead(state) {
		return 0, false
	}
	end, found := 0, false
	if d.IsMatch(state) {
		end, found = at, true
		if earliest {
			return end, found
		}
	}

	i := at
	for i < len(haystack) {
		// While sitting in the start state, nothing has been matched yet
		// and only a few bytes can advance; skip to the next one.
		if d.accel.enabled && state == d.start {
			j := d.accelFind(haystack, i)
			if j < 0 {
				return end, found
			}
			i = j
		}
		state = d.NextState(state, haystack[i])
		i++
		if state <= d.maxMatch {
			if state == 0 {
				return end, found
			}
			end, found = i, true
			if earliest {
				return end, found
			}
		}
	}
	return end, found
}

// SearchReverse scans haystack[start:end] backwards and returns the
// smallest offset at which a match of the reversed pattern begins; for an
// anchored, reversed automaton paired with a forward search that produced
// end, that offset is the start of the forward match.
//
// Calling SearchReverse on a forward automaton is a programming error and
// panics.
func (d *DFA[S]) SearchReverse(haystack []byte, start, end int) (int, bool) {
	if !d.reversed {
		panic("dense: reverse search on a forward DFA")
	}
	state := d.start
	if d.IsDead(state) {
		return 0, false
	}
	pos, found := 0, false
	if d.IsMatch(state) {
		pos, found = end, true
	}
	for i := end; i > start; i-- {
		state = d.NextState(state, haystack[i-1])
		if state <= d.maxMatch {
			if state == 0 {
				return pos, found
			}
			pos, found = i-1, true
		}
	}
	return pos, found
}

// accelFind returns the next offset at or after `at` holding one of the
// acceleration bytes, or -1.
func (d *DFA[S]) accelFind(haystack []byte, at int) int {
	var j int
	switch d.accel.n {
	case 1:
		j = memchr.Memchr(haystack[at:], d.accel.bytes[0])
	case 2:
		j = memchr.Memchr2(haystack[at:], d.accel.bytes[0], d.accel.bytes[1])
	default:
		j = memchr.Memchr3(haystack[at:], d.accel.bytes[0], d.accel.bytes[1], d.accel.bytes[2])
	}
	if j < 0 {
		return -1
	}
	return at + j
}
