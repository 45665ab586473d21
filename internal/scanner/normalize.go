package scanner

import "strings"

// BlankComments replaces comments and the HTML markers "<!--" and "-->"
// with spaces. Newlines inside comments are kept and quoted strings are
// left alone, so the result has the same length and line structure as css.
// An unterminated comment is blanked to the end of input.
func BlankComments(css string) string {
	if !strings.Contains(css, "/*") && !strings.Contains(css, "<!--") && !strings.Contains(css, "-->") {
		return css
	}
	b := []byte(css)
	var quote byte
	for i := 0; i < len(b); i++ {
		c := b[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '/' && i+1 < len(b) && b[i+1] == '*':
			end := strings.Index(css[i+2:], "*/")
			stop := len(b)
			if end >= 0 {
				stop = i + 2 + end + 2
			}
			blank(b[i:stop])
			i = stop - 1
		case c == '<' && strings.HasPrefix(css[i:], "<!--"):
			blank(b[i : i+4])
			i += 3
		case c == '-' && strings.HasPrefix(css[i:], "-->"):
			blank(b[i : i+3])
			i += 2
		}
	}
	return string(b)
}

func blank(b []byte) {
	for i, c := range b {
		if c != '\n' && c != '\r' {
			b[i] = ' '
		}
	}
}

// trailingBackslashes counts the backslashes at the end of s.
func trailingBackslashes(s string) int {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\\'; i-- {
		n++
	}
	return n
}
