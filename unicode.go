package automata

import "strings"

// regexp/syntax treats \w, \d and \s as their ASCII sets regardless of
// flags. In Unicode mode this engine follows the convention that those
// classes cover the full Unicode sets, so the pattern is rewritten before
// parsing: each positive Perl class escape is replaced by the equivalent
// \p{...} class expression. Negated escapes inside bracket classes are
// left alone, since a nested negation cannot be expressed there.
const (
	unicodeWord  = `\p{L}\p{M}\p{N}_`
	unicodeDigit = `\p{Nd}`
	unicodeSpace = "\\t\\n\\f\\r \\p{Z}\\x{85}"
)

// rewritePerlClasses expands \w, \d, \s (and negations \W, \D, \S
// outside bracket classes) to their Unicode equivalents.
func rewritePerlClasses(pattern string) string {
	if !strings.ContainsRune(pattern, '\\') {
		return pattern
	}
	var sb strings.Builder
	sb.Grow(len(pattern))
	inClass := false
	classOpen := -1
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c == '\\' && i+1 < len(pattern) {
			if rep := perlClassExpansion(pattern[i+1], inClass); rep != "" {
				sb.WriteString(rep)
				i++
				continue
			}
			sb.WriteByte(c)
			sb.WriteByte(pattern[i+1])
			i++
			continue
		}
		switch c {
		case '[':
			if !inClass {
				inClass = true
				classOpen = i
			}
		case ']':
			// A ']' directly after '[' or '[^' is a literal member.
			if inClass && i != classOpen+1 && !(pattern[classOpen+1] == '^' && i == classOpen+2) {
				inClass = false
			}
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

func perlClassExpansion(c byte, inClass bool) string {
	if inClass {
		switch c {
		case 'w':
			return unicodeWord
		case 'd':
			return unicodeDigit
		case 's':
			return unicodeSpace
		}
		return ""
	}
	switch c {
	case 'w':
		return "[" + unicodeWord + "]"
	case 'W':
		return "[^" + unicodeWord + "]"
	case 'd':
		return unicodeDigit
	case 'D':
		return `\P{Nd}`
	case 's':
		return "[" + unicodeSpace + "]"
	case 'S':
		return "[^" + unicodeSpace + "]"
	}
	return ""
}
