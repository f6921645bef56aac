package nfa

import (
	"fmt"
	"regexp/syntax"
	"unicode"
	"unicode/utf8"
)

// CompilerConfig configures NFA compilation.
type CompilerConfig struct {
	// Unicode selects rune-oriented matching: literals and classes are
	// expanded over their UTF-8 encodings and '.' matches any codepoint.
	// When false the automaton is byte-oriented: '.' matches any byte and
	// class ranges above 0xFF cannot match.
	Unicode bool

	// CaseInsensitive folds case at parse time (the parser's FoldCase
	// flag plus simple-fold expansion of literals).
	CaseInsensitive bool

	// DotNewline determines whether '.' matches '\n'.
	DotNewline bool

	// Reverse builds the NFA of the reversed language: concatenations and
	// multi-byte encodings are emitted back to front. A DFA built from a
	// reverse NFA scans right to left.
	Reverse bool

	// SizeLimit caps the number of NFA states. Zero or less means no
	// limit. Exceeding the limit fails with ErrNFATooLarge.
	SizeLimit int

	// MaxRepeat caps the bounds of counted repetitions {m,n}, which are
	// compiled by unrolling. Exceeding it fails with ErrRepeatTooLarge.
	MaxRepeat int

	// MaxRecursionDepth limits AST recursion during compilation.
	MaxRecursionDepth int
}

// DefaultCompilerConfig returns a compiler configuration with sensible
// defaults: Unicode mode, '.' excludes newline, 100000-state limit. The
// limit leaves room for repeats of the large Unicode classes: one \p{L}
// expansion alone runs to a few thousand states.
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{
		Unicode:           true,
		DotNewline:        false,
		SizeLimit:         100_000,
		MaxRepeat:         1_000,
		MaxRecursionDepth: 100,
	}
}

// Compiler compiles regexp/syntax ASTs into Thompson NFAs.
type Compiler struct {
	config  CompilerConfig
	builder *Builder
	cache   *utf8StateCache
	depth   int
}

// NewCompiler creates a compiler with the given configuration.
func NewCompiler(config CompilerConfig) *Compiler {
	if config.MaxRepeat == 0 {
		config.MaxRepeat = 1_000
	}
	if config.MaxRecursionDepth == 0 {
		config.MaxRecursionDepth = 100
	}
	return &Compiler{
		config: config,
		cache:  newUTF8StateCache(),
	}
}

// Compile parses pattern and compiles it into an NFA.
//
// Parsing is delegated to regexp/syntax with Perl syntax. Patterns using
// constructs this engine does not support (anchors, word boundaries) fail
// with ErrUnsupported before any states are built.
func (c *Compiler) Compile(pattern string) (*NFA, error) {
	flags := syntax.Perl
	if c.config.CaseInsensitive {
		flags |= syntax.FoldCase
	}
	if c.config.DotNewline {
		flags |= syntax.DotNL
	}
	re, err := syntax.Parse(pattern, flags)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	n, err := c.CompileRegexp(re)
	if err != nil {
		var cerr *CompileError
		if ok := asCompileError(err, &cerr); ok && cerr.Pattern == "" {
			cerr.Pattern = pattern
		}
		return nil, err
	}
	return n, nil
}

func asCompileError(err error, target **CompileError) bool {
	ce, ok := err.(*CompileError)
	if ok {
		*target = ce
	}
	return ok
}

// CompileRegexp compiles an already-parsed syntax tree into an NFA.
func (c *Compiler) CompileRegexp(re *syntax.Regexp) (*NFA, error) {
	// Unsupported constructs are rejected up front, before any
	// construction work.
	if err := checkSupported(re); err != nil {
		return nil, err
	}

	c.builder = NewBuilder(c.config.SizeLimit)
	c.cache.clear()
	c.depth = 0

	start, end, err := c.compile(re)
	if err != nil {
		return nil, err
	}

	match := c.builder.AddMatch()
	if err := c.patch(end, match); err != nil {
		return nil, err
	}

	// Unanchored prefix: a (?s:.)*? loop in front of the pattern, so the
	// determinized automaton restarts candidate matches structurally
	// instead of the caller re-running the search per offset.
	prefix := c.builder.AddSplit(start, InvalidState)
	loop := c.builder.AddByteRange(0x00, 0xFF, prefix)
	if err := c.builder.PatchSplit(prefix, start, loop); err != nil {
		return nil, err
	}

	c.builder.SetStarts(start, prefix)
	c.builder.SetRestartLoop(loop)
	return c.builder.Build(c.config.Reverse)
}

// checkSupported walks the AST and rejects constructs outside this
// engine's scope.
func checkSupported(re *syntax.Regexp) error {
	var name string
	switch re.Op {
	case syntax.OpBeginLine, syntax.OpBeginText:
		name = "start-of-text anchor"
	case syntax.OpEndLine, syntax.OpEndText:
		name = "end-of-text anchor"
	case syntax.OpWordBoundary:
		name = `\b word boundary`
	case syntax.OpNoWordBoundary:
		name = `\B word boundary`
	}
	if name != "" {
		return &CompileError{Err: fmt.Errorf("%w: %s", ErrUnsupported, name)}
	}
	for _, sub := range re.Sub {
		if err := checkSupported(sub); err != nil {
			return err
		}
	}
	return nil
}

// compile recursively compiles an AST node.
// Returns the fragment's (start, end) state IDs; end is always patchable
// to connect the following fragment.
func (c *Compiler) compile(re *syntax.Regexp) (start, end StateID, err error) {
	c.depth++
	defer func() { c.depth-- }()
	if c.depth > c.config.MaxRecursionDepth {
		return InvalidState, InvalidState, &CompileError{
			Err: fmt.Errorf("%w: pattern nesting too deep", ErrNFATooLarge),
		}
	}
	if c.builder.OverLimit() {
		return InvalidState, InvalidState, &CompileError{Err: ErrNFATooLarge}
	}

	switch re.Op {
	case syntax.OpLiteral:
		return c.compileLiteral(re.Rune, re.Flags&syntax.FoldCase != 0)
	case syntax.OpCharClass:
		return c.compileClass(re.Rune)
	case syntax.OpAnyChar:
		return c.compileAnyChar(true)
	case syntax.OpAnyCharNotNL:
		return c.compileAnyChar(false)
	case syntax.OpConcat:
		return c.compileConcat(re.Sub)
	case syntax.OpAlternate:
		return c.compileAlternate(re.Sub)
	case syntax.OpStar:
		return c.compileStar(re.Sub[0])
	case syntax.OpPlus:
		return c.compilePlus(re.Sub[0])
	case syntax.OpQuest:
		return c.compileQuest(re.Sub[0])
	case syntax.OpRepeat:
		return c.compileRepeat(re.Sub[0], re.Min, re.Max)
	case syntax.OpCapture:
		// Groups are compiled for grouping only; capture positions are
		// not tracked.
		return c.compile(re.Sub[0])
	case syntax.OpEmptyMatch:
		return c.compileEmpty()
	case syntax.OpNoMatch:
		fail := c.builder.AddFail()
		// The epsilon is unreachable; it only gives concatenation a
		// patchable end.
		e := c.builder.AddEpsilon(InvalidState)
		return fail, e, nil
	default:
		return InvalidState, InvalidState, &CompileError{
			Err: fmt.Errorf("%w: op %d", ErrUnsupported, re.Op),
		}
	}
}

// patch connects a fragment end to the next state. Fragment ends are
// always byte-range, sparse or epsilon states, so patching cannot fail
// for fragments produced by this compiler.
func (c *Compiler) patch(end, target StateID) error {
	return c.builder.Patch(end, target)
}

// compileLiteral compiles a rune sequence. In reverse mode the runes and
// the bytes within each rune are emitted back to front.
func (c *Compiler) compileLiteral(runes []rune, fold bool) (start, end StateID, err error) {
	if len(runes) == 0 {
		return c.compileEmpty()
	}

	first := InvalidState
	prev := InvalidState
	link := func(s, e StateID) error {
		if first == InvalidState {
			first = s
		}
		if prev != InvalidState {
			if err := c.patch(prev, s); err != nil {
				return err
			}
		}
		prev = e
		return nil
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if c.config.Reverse {
			r = runes[len(runes)-1-i]
		}

		if fold {
			// Case folding makes each position a small class over the
			// rune's fold orbit.
			s, e, err := c.compileClass(foldOrbitRanges(r))
			if err != nil {
				return InvalidState, InvalidState, err
			}
			if err := link(s, e); err != nil {
				return InvalidState, InvalidState, err
			}
			continue
		}

		if !c.config.Unicode {
			// Byte mode: the rune is a raw byte value, not a UTF-8
			// sequence. Runes above 0xFF cannot match a single byte.
			if r > 0xFF {
				fail := c.builder.AddFail()
				e := c.builder.AddEpsilon(InvalidState)
				if err := link(fail, e); err != nil {
					return InvalidState, InvalidState, err
				}
				continue
			}
			id := c.builder.AddByteRange(byte(r), byte(r), InvalidState)
			if err := link(id, id); err != nil {
				return InvalidState, InvalidState, err
			}
			continue
		}

		var buf [4]byte
		n := utf8.EncodeRune(buf[:], r)
		for j := 0; j < n; j++ {
			b := buf[j]
			if c.config.Reverse {
				b = buf[n-1-j]
			}
			id := c.builder.AddByteRange(b, b, InvalidState)
			if err := link(id, id); err != nil {
				return InvalidState, InvalidState, err
			}
		}
	}
	return first, prev, nil
}

// foldOrbitRanges returns the rune-range pairs covering r's simple case
// fold orbit.
func foldOrbitRanges(r rune) []rune {
	ranges := []rune{r, r}
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		ranges = append(ranges, f, f)
	}
	return ranges
}

// compileClass compiles a character class given as rune-range pairs
// [lo1, hi1, lo2, hi2, ...].
//
// ASCII-only classes become a single sparse state. Anything above 0x7F is
// expanded over UTF-8 byte sequences with suffix sharing; in byte mode,
// ranges above 0xFF are clamped away instead.
func (c *Compiler) compileClass(ranges []rune) (start, end StateID, err error) {
	if len(ranges) == 0 {
		fail := c.builder.AddFail()
		e := c.builder.AddEpsilon(InvalidState)
		return fail, e, nil
	}

	if !c.config.Unicode {
		return c.compileByteClass(ranges)
	}

	allASCII := true
	for i := 1; i < len(ranges); i += 2 {
		if ranges[i] > 0x7F {
			allASCII = false
			break
		}
	}
	if allASCII {
		trans := make([]Transition, 0, len(ranges)/2)
		for i := 0; i < len(ranges); i += 2 {
			trans = append(trans, Transition{Lo: byte(ranges[i]), Hi: byte(ranges[i+1]), Next: InvalidState})
		}
		return c.compileByteTransitions(trans)
	}

	var seqs []utf8Seq
	for i := 0; i < len(ranges); i += 2 {
		seqs = appendRuneRange(seqs, ranges[i], ranges[i+1])
	}
	if len(seqs) == 0 {
		fail := c.builder.AddFail()
		e := c.builder.AddEpsilon(InvalidState)
		return fail, e, nil
	}
	return c.compileSeqs(seqs)
}

// compileByteClass compiles a class in byte mode: runes map directly to
// byte values, and ranges beyond 0xFF cannot match.
func (c *Compiler) compileByteClass(ranges []rune) (start, end StateID, err error) {
	var trans []Transition
	for i := 0; i < len(ranges); i += 2 {
		lo, hi := ranges[i], ranges[i+1]
		if lo > 0xFF {
			continue
		}
		if hi > 0xFF {
			hi = 0xFF
		}
		trans = append(trans, Transition{Lo: byte(lo), Hi: byte(hi), Next: InvalidState})
	}
	if len(trans) == 0 {
		fail := c.builder.AddFail()
		e := c.builder.AddEpsilon(InvalidState)
		return fail, e, nil
	}
	return c.compileByteTransitions(trans)
}

// compileByteTransitions emits a fragment matching exactly one byte from
// the given ranges.
func (c *Compiler) compileByteTransitions(trans []Transition) (start, end StateID, err error) {
	if len(trans) == 1 {
		id := c.builder.AddByteRange(trans[0].Lo, trans[0].Hi, InvalidState)
		return id, id, nil
	}
	id := c.builder.AddSparse(trans)
	return id, id, nil
}

// compileSeqs compiles a set of UTF-8 sequences into a fragment with a
// single patchable exit. Single-byte sequences collapse into one sparse
// state; multi-byte sequences share tail states through the cache.
func (c *Compiler) compileSeqs(seqs []utf8Seq) (start, end StateID, err error) {
	join := c.builder.AddEpsilon(InvalidState)

	var single []Transition
	var heads []StateID
	for _, seq := range seqs {
		if c.config.Reverse {
			seq = seq.reversed()
		}
		if seq.n == 1 {
			single = append(single, Transition{Lo: seq.ranges[0].lo, Hi: seq.ranges[0].hi, Next: join})
			continue
		}
		target := join
		for i := seq.n - 1; i >= 0; i-- {
			target = c.cache.getOrCreate(c.builder, target, seq.ranges[i].lo, seq.ranges[i].hi)
		}
		if !containsState(heads, target) {
			heads = append(heads, target)
		}
	}

	if len(single) > 0 {
		var id StateID
		if len(single) == 1 {
			id = c.builder.AddByteRange(single[0].Lo, single[0].Hi, join)
		} else {
			id = c.builder.AddSparse(single)
		}
		heads = append(heads, id)
	}

	switch len(heads) {
	case 0:
		fail := c.builder.AddFail()
		return fail, join, nil
	case 1:
		return heads[0], join, nil
	default:
		return c.splitChain(heads), join, nil
	}
}

func containsState(ids []StateID, id StateID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// compileAnyChar compiles '.', honoring Unicode and DotNewline modes.
func (c *Compiler) compileAnyChar(withNewline bool) (start, end StateID, err error) {
	if c.config.Unicode {
		if withNewline {
			return c.compileClass([]rune{0, utf8.MaxRune})
		}
		return c.compileClass([]rune{0, '\n' - 1, '\n' + 1, utf8.MaxRune})
	}
	if withNewline {
		id := c.builder.AddByteRange(0x00, 0xFF, InvalidState)
		return id, id, nil
	}
	return c.compileByteTransitions([]Transition{
		{Lo: 0x00, Hi: 0x09, Next: InvalidState},
		{Lo: 0x0B, Hi: 0xFF, Next: InvalidState},
	})
}

// compileConcat chains fragments. In reverse mode the sub-expressions are
// emitted back to front.
func (c *Compiler) compileConcat(subs []*syntax.Regexp) (start, end StateID, err error) {
	if len(subs) == 0 {
		return c.compileEmpty()
	}

	first := InvalidState
	prev := InvalidState
	for i := 0; i < len(subs); i++ {
		sub := subs[i]
		if c.config.Reverse {
			sub = subs[len(subs)-1-i]
		}
		s, e, err := c.compile(sub)
		if err != nil {
			return InvalidState, InvalidState, err
		}
		if first == InvalidState {
			first = s
		}
		if prev != InvalidState {
			if err := c.patch(prev, s); err != nil {
				return InvalidState, InvalidState, err
			}
		}
		prev = e
	}
	return first, prev, nil
}

// compileAlternate compiles alternation via a chain of split states
// converging on a shared epsilon join.
func (c *Compiler) compileAlternate(subs []*syntax.Regexp) (start, end StateID, err error) {
	if len(subs) == 0 {
		return c.compileEmpty()
	}
	if len(subs) == 1 {
		return c.compile(subs[0])
	}

	join := c.builder.AddEpsilon(InvalidState)
	starts := make([]StateID, 0, len(subs))
	for _, sub := range subs {
		s, e, err := c.compile(sub)
		if err != nil {
			return InvalidState, InvalidState, err
		}
		if err := c.patch(e, join); err != nil {
			return InvalidState, InvalidState, err
		}
		starts = append(starts, s)
	}
	return c.splitChain(starts), join, nil
}

// splitChain builds a right-leaning chain of split states over targets.
func (c *Compiler) splitChain(targets []StateID) StateID {
	if len(targets) == 1 {
		return targets[0]
	}
	right := c.splitChain(targets[1:])
	return c.builder.AddSplit(targets[0], right)
}

// compileStar compiles e* (zero or more).
func (c *Compiler) compileStar(sub *syntax.Regexp) (start, end StateID, err error) {
	s, e, err := c.compile(sub)
	if err != nil {
		return InvalidState, InvalidState, err
	}
	out := c.builder.AddEpsilon(InvalidState)
	split := c.builder.AddSplit(s, out)
	if err := c.patch(e, split); err != nil {
		return InvalidState, InvalidState, err
	}
	return split, out, nil
}

// compilePlus compiles e+ (one or more).
func (c *Compiler) compilePlus(sub *syntax.Regexp) (start, end StateID, err error) {
	s, e, err := c.compile(sub)
	if err != nil {
		return InvalidState, InvalidState, err
	}
	out := c.builder.AddEpsilon(InvalidState)
	split := c.builder.AddSplit(s, out)
	if err := c.patch(e, split); err != nil {
		return InvalidState, InvalidState, err
	}
	return s, out, nil
}

// compileQuest compiles e? (zero or one).
func (c *Compiler) compileQuest(sub *syntax.Regexp) (start, end StateID, err error) {
	s, e, err := c.compile(sub)
	if err != nil {
		return InvalidState, InvalidState, err
	}
	out := c.builder.AddEpsilon(InvalidState)
	split := c.builder.AddSplit(s, out)
	if err := c.patch(e, out); err != nil {
		return InvalidState, InvalidState, err
	}
	return split, out, nil
}

// compileRepeat compiles e{m,n} by explicit unrolling, bounded by
// MaxRepeat. Unbounded maxima compile as m copies followed by a star.
func (c *Compiler) compileRepeat(sub *syntax.Regexp, minCount, maxCount int) (start, end StateID, err error) {
	limit := c.config.MaxRepeat
	if minCount > limit || maxCount > limit {
		return InvalidState, InvalidState, &CompileError{
			Err: fmt.Errorf("%w: {%d,%d} exceeds %d", ErrRepeatTooLarge, minCount, maxCount, limit),
		}
	}
	if maxCount != -1 && minCount > maxCount {
		return InvalidState, InvalidState, &CompileError{
			Err: fmt.Errorf("invalid repeat range {%d,%d}", minCount, maxCount),
		}
	}

	// Direction does not matter for repetition itself; the sub-fragments
	// are compiled in whatever mode the compiler is in, and unrolled
	// copies of the same sub-expression are interchangeable.
	first := InvalidState
	prev := InvalidState
	link := func(s, e StateID) error {
		if first == InvalidState {
			first = s
		}
		if prev != InvalidState {
			if err := c.patch(prev, s); err != nil {
				return err
			}
		}
		prev = e
		return nil
	}

	for i := 0; i < minCount; i++ {
		s, e, err := c.compile(sub)
		if err != nil {
			return InvalidState, InvalidState, err
		}
		if err := link(s, e); err != nil {
			return InvalidState, InvalidState, err
		}
	}

	if maxCount == -1 {
		s, e, err := c.compileStar(sub)
		if err != nil {
			return InvalidState, InvalidState, err
		}
		if err := link(s, e); err != nil {
			return InvalidState, InvalidState, err
		}
	} else {
		for i := 0; i < maxCount-minCount; i++ {
			s, e, err := c.compileQuest(sub)
			if err != nil {
				return InvalidState, InvalidState, err
			}
			if err := link(s, e); err != nil {
				return InvalidState, InvalidState, err
			}
		}
	}

	if first == InvalidState {
		return c.compileEmpty()
	}
	return first, prev, nil
}

// compileEmpty compiles a zero-width fragment.
func (c *Compiler) compileEmpty() (start, end StateID, err error) {
	id := c.builder.AddEpsilon(InvalidState)
	return id, id, nil
}
