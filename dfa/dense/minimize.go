package dense

// Minimize collapses observationally equivalent states in place using
// Moore partition refinement, producing the unique minimal DFA for the
// language.
//
// The initial partition separates match states from non-match states.
// Each round re-splits blocks by transition signature (the tuple of
// target blocks over all byte classes) until no block splits. States
// equivalent to the dead state merge into it, so the dead-state-is-0 and
// contiguous-match-range invariants survive minimization.
//
// Minimization must run before premultiplication; calling it on a
// premultiplied DFA is a programming error and panics.
func (d *DFA[S]) Minimize() {
	if d.premultiplied {
		panic("dense: cannot minimize a premultiplied DFA")
	}
	count := d.stateCount
	if count <= 2 {
		return
	}

	// block[i] is the partition block of state i.
	block := make([]uint32, count)
	nblocks := uint32(1)
	hasMatch := false
	for i := 0; i < count; i++ {
		if d.IsMatch(S(i)) {
			block[i] = 1
			hasMatch = true
		}
	}
	if hasMatch {
		nblocks = 2
	}

	// Refine to fixpoint. Each round assigns fresh block numbers keyed by
	// (current block, target block per class); the block count grows
	// monotonically and is bounded by the state count, so this
	// terminates.
	newBlock := make([]uint32, count)
	sig := make([]byte, 0, 4*(d.alphabetLen+1))
	for {
		index := make(map[string]uint32, nblocks)
		next := uint32(0)
		for i := 0; i < count; i++ {
			sig = sig[:0]
			sig = appendU32(sig, block[i])
			row := d.row(i)
			for _, target := range row {
				sig = appendU32(sig, block[target])
			}
			idx, ok := index[string(sig)]
			if !ok {
				idx = next
				next++
				index[string(sig)] = idx
			}
			newBlock[i] = idx
		}
		if next == nblocks {
			break
		}
		nblocks = next
		block, newBlock = newBlock, block
	}

	if int(nblocks) == count {
		return // already minimal
	}

	// Renumber blocks: the dead state's block is 0, match blocks take
	// 1..m, the rest follow. Representatives are the lowest-ID member of
	// each block, visited in ID order so numbering is deterministic.
	const unassigned = ^uint32(0)
	newID := make([]uint32, nblocks)
	for i := range newID {
		newID[i] = unassigned
	}
	newID[block[0]] = 0
	next := uint32(1)
	for i := 1; i < count; i++ {
		if d.IsMatch(S(i)) && newID[block[i]] == unassigned {
			newID[block[i]] = next
			next++
		}
	}
	maxMatch := next - 1
	for i := 1; i < count; i++ {
		if newID[block[i]] == unassigned {
			newID[block[i]] = next
			next++
		}
	}

	table := make([]S, int(nblocks)*d.alphabetLen)
	filled := make([]bool, nblocks)
	for i := 0; i < count; i++ {
		b := block[i]
		if filled[b] {
			continue
		}
		filled[b] = true
		base := int(newID[b]) * d.alphabetLen
		row := d.row(i)
		for class, target := range row {
			table[base+class] = S(newID[block[target]])
		}
	}

	d.table = table
	d.stateCount = int(nblocks)
	d.start = S(newID[block[d.stateIndex(d.start)]])
	d.maxMatch = S(maxMatch)
}

func appendU32(b []byte, v uint32) []byte {
	return append(b, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}
