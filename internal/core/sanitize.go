package core

import "strings"

// StripTags deletes every "<...>" run that has at least one character
// between the brackets. A second '<' before the closing '>' restarts the
// tag, so "<<b>" keeps the first '<' and "a<b<c>d" becomes "a<bd". The
// result matches replacing the pattern <[^<>]+> everywhere; "<>" is left alone.
//
// This is a denylist for casual markup, not an HTML sanitizer: text such as
// "a < b" followed later by ">" will lose everything in between.
func StripTags(s string) string {
	if strings.IndexByte(s, '<') < 0 {
		return s
	}

	var out strings.Builder
	out.Grow(len(s))

	inTag := false
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			if inTag {
				out.WriteString(s[start:i])
			}
			inTag = true
			start = i
		case '>':
			if !inTag {
				out.WriteByte('>')
				continue
			}
			inTag = false
			if i-start == 1 {
				out.WriteString("<>")
			}
		default:
			if !inTag {
				out.WriteByte(s[i])
			}
		}
	}
	if inTag {
		out.WriteString(s[start:])
	}
	return out.String()
}
