package sparse

// SearchForward scans haystack[at:] and returns the end offset of the
// match, if any. The semantics match dense.DFA.SearchForward: the last
// match offset recorded before the automaton goes dead or input runs out
// wins, and earliest returns at the first recorded offset.
//
// Calling SearchForward on a reversed automaton is a programming error
// and panics.
func (d *DFA[S]) SearchForward(haystack []byte, at int, earliest bool) (int, bool) {
	if d.reversed {
		panic("sparse: forward search on a reversed DFA")
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
	for i := at; i < len(haystack); i++ {
		state = d.NextState(state, haystack[i])
		if state == 0 {
			return end, found
		}
		if d.IsMatch(state) {
			end, found = i+1, true
			if earliest {
				return end, found
			}
		}
	}
	return end, found
}

// SearchReverse scans haystack[start:end] backwards and returns the
// smallest offset at which a match of the reversed pattern begins; see
// dense.DFA.SearchReverse.
//
// Calling SearchReverse on a forward automaton is a programming error and
// panics.
func (d *DFA[S]) SearchReverse(haystack []byte, start, end int) (int, bool) {
	if !d.reversed {
		panic("sparse: reverse search on a forward DFA")
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
		if state == 0 {
			return pos, found
		}
		if d.IsMatch(state) {
			pos, found = i-1, true
		}
	}
	return pos, found
}
