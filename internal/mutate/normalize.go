package mutate

import "strings"

// RemoveExcessSpaces converts a token-streamed-then-spaced-out identifier or
// type expression (as tree-sitter's node text, or syn's ToTokens, produces)
// into the compact spacing a human would write it with, e.g. shrinking
// "Lex < 'buf > :: take" to "Lex<'buf>::take".
//
// The transformation is idempotent: applying it twice equals applying it
// once, since it only ever drops spaces adjacent to punctuation and never
// introduces new ones.
func RemoveExcessSpaces(s string) string {
	var r strings.Builder
	r.Grow(len(s))
	for _, c := range s {
		switch c {
		case ' ':
			if strings.HasSuffix(r.String(), "->") {
				break
			}
			if last, ok := lastRune(r.String()); ok {
				switch last {
				case ':', '&', '<', '>':
					continue
				}
			}
		case ':', ',', '<', '>':
			if strings.HasSuffix(r.String(), " ") {
				trimmed := strings.TrimSuffix(r.String(), " ")
				r.Reset()
				r.WriteString(trimmed)
			}
		}
		r.WriteRune(c)
	}
	return r.String()
}

func lastRune(s string) (rune, bool) {
	if s == "" {
		return 0, false
	}
	runes := []rune(s)
	return runes[len(runes)-1], true
}
