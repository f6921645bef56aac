package automata

import "testing"

func TestRewritePerlClasses(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"word", `\w`, `[\p{L}\p{M}\p{N}_]`},
		{"not word", `\W`, `[^\p{L}\p{M}\p{N}_]`},
		{"digit", `\d`, `\p{Nd}`},
		{"not digit", `\D`, `\P{Nd}`},
		{"space", `\s`, "[\\t\\n\\f\\r \\p{Z}\\x{85}]"},
		{"not space", `\S`, "[^\\t\\n\\f\\r \\p{Z}\\x{85}]"},
		{"inside class", `[\w-]`, `[\p{L}\p{M}\p{N}_-]`},
		{"digit inside class", `[a\d]`, `[a\p{Nd}]`},
		{"negated class", `[^\w]`, `[^\p{L}\p{M}\p{N}_]`},
		{"escaped backslash", `\\w`, `\\w`},
		{"double escape then class", `\\\w`, `\\[\p{L}\p{M}\p{N}_]`},
		{"unrelated escape", `\n\t`, `\n\t`},
		{"no classes", "abc[d-f]+", "abc[d-f]+"},
		{"literal bracket member", `[]\w]`, `[]\p{L}\p{M}\p{N}_]`},
		{"repeated", `\d+\.\d+`, `\p{Nd}+\.\p{Nd}+`},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rewritePerlClasses(tt.in); got != tt.want {
				t.Errorf("rewritePerlClasses(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestUnicodeClassMatching(t *testing.T) {
	tests := []struct {
		name      string
		pattern   string
		haystack  string
		wantStart int
		wantEnd   int
		wantOK    bool
	}{
		{"word matches cyrillic", `\w+`, "-мир-", 1, 7, true},
		{"word matches cjk", `\w+`, " 日本 ", 1, 7, true},
		{"digit matches devanagari", `\d`, "x१y", 1, 4, true},
		{"space matches nbsp", `\s`, "a b", 1, 3, true},
		{"not-word skips letters", `\W`, "ab,cd", 2, 3, true},
		{"ascii digit still works", `\d+`, "abc42", 3, 5, true},
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

func TestByteModePerlClasses(t *testing.T) {
	// Without the Unicode rewrite \w stays regexp/syntax's ASCII class.
	re := mustRegex(t, `(?-u)\w+`)
	if _, _, ok := re.Find([]byte("мир")); ok {
		t.Error("byte-mode \\w should not match Cyrillic letters")
	}
	start, end, ok := re.Find([]byte(" ascii_42 "))
	if !ok || start != 1 || end != 9 {
		t.Errorf("Find = (%d, %d, %v), want (1, 9, true)", start, end, ok)
	}
}
