package automata

import (
	"testing"
)

func mustRegex(t *testing.T, pattern string) *Regex {
	t.Helper()
	re, err := Compile(pattern)
	if err != nil {
		t.Fatalf("Compile(%q) failed: %v", pattern, err)
	}
	return re
}

func collectMatches(re *Regex, haystack string) []Match {
	var out []Match
	it := re.FindIter([]byte(haystack))
	for {
		m, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, m)
	}
}

func TestFind(t *testing.T) {
	tests := []struct {
		name      string
		pattern   string
		haystack  string
		wantStart int
		wantEnd   int
		wantOK    bool
	}{
		{"literal", "abc", "xxabcyy", 2, 5, true},
		{"at start", "abc", "abcyy", 0, 3, true},
		{"at end", "abc", "xxabc", 2, 5, true},
		{"no match", "abc", "xxxxx", 0, 0, false},
		{"empty haystack", "abc", "", 0, 0, false},
		{"date", "[0-9]{4}-[0-9]{2}-[0-9]{2}", "launch date: 2026-03-14", 13, 23, true},
		{"greedy", "a+", "xxaaayy", 2, 5, true},
		{"leftmost", "a+", "a aaaa", 0, 1, true},
		{"leftmost beats overlap", "aa", "aaaa", 0, 2, true},
		{"first alternative wins", "a|ab", "aab", 0, 1, true},
		{"alternation", "foo|bar", "a bar", 2, 5, true},
		{"class repeat", "[a-f]{3}", "zz fade", 3, 6, true},
		{"unicode literal", "мир", "привет мир", 13, 19, true},
		{"unicode class", "[а-я]+", "hello мир", 6, 12, true},
		{"empty pattern", "", "abc", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re := mustRegex(t, tt.pattern)
			start, end, ok := re.Find([]byte(tt.haystack))
			if ok != tt.wantOK || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("Find(%q) = (%d, %d, %v), want (%d, %d, %v)",
					tt.haystack, start, end, ok, tt.wantStart, tt.wantEnd, tt.wantOK)
			}
		})
	}
}

func TestIsMatch(t *testing.T) {
	re := mustRegex(t, "[0-9]+")
	if !re.IsMatch([]byte("abc 123")) {
		t.Error("IsMatch = false, want true")
	}
	if re.IsMatch([]byte("no digits here")) {
		t.Error("IsMatch = true, want false")
	}
	if re.IsMatch(nil) {
		t.Error("IsMatch(nil) = true, want false")
	}
}

func TestFindIterDates(t *testing.T) {
	re := mustRegex(t, "[0-9]{4}-[0-9]{2}-[0-9]{2}")
	got := collectMatches(re, "2023-01-15 2024-12-31")
	want := []Match{{0, 10}, {11, 21}}
	if len(got) != len(want) {
		t.Fatalf("got %d matches %v, want %v", len(got), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("match %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFindIterNonOverlapping(t *testing.T) {
	re := mustRegex(t, "aa")
	got := collectMatches(re, "aaaa")
	want := []Match{{0, 2}, {2, 4}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("match %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFindIterEmptyMatches(t *testing.T) {
	re := mustRegex(t, "a*")
	got := collectMatches(re, "baa")
	// Empty match at 0, then "aa", then the trailing empty match.
	want := []Match{{0, 0}, {1, 3}, {3, 3}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("match %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFindIterDeterministic(t *testing.T) {
	re := mustRegex(t, "[ab]+")
	haystack := "abba c ab baab"
	first := collectMatches(re, haystack)
	for trial := 0; trial < 3; trial++ {
		again := collectMatches(re, haystack)
		if len(again) != len(first) {
			t.Fatalf("trial %d: got %v, want %v", trial, again, first)
		}
		for i := range first {
			if again[i] != first[i] {
				t.Errorf("trial %d: match %d = %v, want %v", trial, i, again[i], first[i])
			}
		}
	}
}

func TestFindIterAt(t *testing.T) {
	re := mustRegex(t, "x")
	it := re.FindIterAt([]byte("x.x.x"), 1)
	m, ok := it.Next()
	if !ok || m != (Match{2, 3}) {
		t.Errorf("first match = %v, %v, want {2 3}, true", m, ok)
	}
	m, ok = it.Next()
	if !ok || m != (Match{4, 5}) {
		t.Errorf("second match = %v, %v, want {4 5}, true", m, ok)
	}
	if _, ok := it.Next(); ok {
		t.Error("iterator should be exhausted")
	}
	if _, ok := it.Next(); ok {
		t.Error("iterator should stay exhausted")
	}
}

func TestFindIterAtPanicsOutOfRange(t *testing.T) {
	re := mustRegex(t, "x")
	defer func() {
		if recover() == nil {
			t.Error("FindIterAt past the haystack should panic")
		}
	}()
	re.FindIterAt([]byte("abc"), 4)
}

func TestFindAnchored(t *testing.T) {
	re := mustRegex(t, "[0-9]+")
	h := []byte("ab123cd")

	if m, ok := re.FindAnchored(h, 2); !ok || m != (Match{2, 5}) {
		t.Errorf("FindAnchored at 2 = %v, %v, want {2 5}, true", m, ok)
	}
	if m, ok := re.FindAnchored(h, 3); !ok || m != (Match{3, 5}) {
		t.Errorf("FindAnchored at 3 = %v, %v, want {3 5}, true", m, ok)
	}
	if _, ok := re.FindAnchored(h, 0); ok {
		t.Error("FindAnchored at 0 should not match")
	}
	if _, ok := re.FindAnchored(h, 7); ok {
		t.Error("FindAnchored at the end should not match")
	}
}

func TestFindAnchoredPanicsOutOfRange(t *testing.T) {
	re := mustRegex(t, "x")
	defer func() {
		if recover() == nil {
			t.Error("FindAnchored with negative offset should panic")
		}
	}()
	re.FindAnchored([]byte("abc"), -1)
}

func TestAnchoredConfig(t *testing.T) {
	re, err := CompileWithConfig("abc", DefaultConfig().WithAnchored(true))
	if err != nil {
		t.Fatal(err)
	}
	if !re.IsMatch([]byte("abcdef")) {
		t.Error("anchored IsMatch at start = false, want true")
	}
	if re.IsMatch([]byte("xabc")) {
		t.Error("anchored IsMatch mid-haystack = true, want false")
	}
}

func TestCaseInsensitive(t *testing.T) {
	re, err := CompileWithConfig("straße", DefaultConfig().WithCaseInsensitive(true))
	if err != nil {
		t.Fatal(err)
	}
	if !re.IsMatch([]byte("STRAßE")) {
		t.Error("case-insensitive match failed for STRAßE")
	}

	re2, err := CompileWithConfig("hello", DefaultConfig().WithCaseInsensitive(true))
	if err != nil {
		t.Fatal(err)
	}
	for _, hs := range []string{"hello", "HELLO", "HeLLo"} {
		if !re2.IsMatch([]byte(hs)) {
			t.Errorf("case-insensitive IsMatch(%q) = false, want true", hs)
		}
	}
}

func TestDotNewline(t *testing.T) {
	plain := mustRegex(t, "a.b")
	if plain.IsMatch([]byte("a\nb")) {
		t.Error("'.' should not match newline by default")
	}
	withNL, err := CompileWithConfig("a.b", DefaultConfig().WithDotNewline(true))
	if err != nil {
		t.Fatal(err)
	}
	if !withNL.IsMatch([]byte("a\nb")) {
		t.Error("'.' should match newline with DotNewline on")
	}
}

func TestUnicodeWordClass(t *testing.T) {
	re := mustRegex(t, `\w+`)
	start, end, ok := re.Find([]byte("... мир_42 ..."))
	if !ok || start != 4 || end != 13 {
		t.Errorf("Find = (%d, %d, %v), want (4, 13, true)", start, end, ok)
	}

	bytemode := mustRegex(t, `(?-u)\w+`)
	start, end, ok = bytemode.Find([]byte("... word42 ..."))
	if !ok || start != 4 || end != 10 {
		t.Errorf("byte-mode Find = (%d, %d, %v), want (4, 10, true)", start, end, ok)
	}
}

func TestInvalidUTF8Handling(t *testing.T) {
	// 0xA5 is the last byte of the three-byte encoding of 日. In Unicode
	// mode a match inside a character is discarded; allowing invalid
	// UTF-8 exposes it.
	strict := mustRegex(t, `(?-u)\xA5`)
	if _, _, ok := strict.Find([]byte("日")); ok {
		t.Error("match inside a UTF-8 character should be discarded by default")
	}
	if strict.IsMatch([]byte("日")) {
		t.Error("IsMatch should agree with Find and discard the match")
	}

	relaxed, err := CompileWithConfig(`(?-u)\xA5`, DefaultConfig().WithAllowInvalidUTF8(true))
	if err != nil {
		t.Fatal(err)
	}
	start, end, ok := relaxed.Find([]byte("日"))
	if !ok || start != 2 || end != 3 {
		t.Errorf("Find = (%d, %d, %v), want (2, 3, true)", start, end, ok)
	}
	if !relaxed.IsMatch([]byte("日")) {
		t.Error("IsMatch = false, want true with invalid UTF-8 allowed")
	}
}

func TestBinaryHaystack(t *testing.T) {
	re, err := CompileWithConfig(`(?-u)\x00+`, DefaultConfig().WithAllowInvalidUTF8(true))
	if err != nil {
		t.Fatal(err)
	}
	start, end, ok := re.Find([]byte{'a', 0, 0, 0, 'b'})
	if !ok || start != 1 || end != 4 {
		t.Errorf("Find = (%d, %d, %v), want (1, 4, true)", start, end, ok)
	}
}
