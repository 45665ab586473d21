package scanner

import (
	"strings"

	css "github.com/gorilla/css/scanner"
)

// Tokenize splits text into CSS tokens, stopping before EOF or at the
// first error.
func Tokenize(text string) []*css.Token {
	var tokens []*css.Token
	s := css.New(text)
	for {
		t := s.Next()
		if t.Type == css.TokenEOF {
			return tokens
		}
		if t.Type == css.TokenError {
			tracer().Infof("tokenizer stopped: %s", t.Value)
			return tokens
		}
		tokens = append(tokens, t)
	}
}

// SplitByOr splits a media query list on top level commas and the "or"
// keyword, e.g. "screen, print and (min-width: 5em)" yields two queries.
// Each query is trimmed with whitespace collapsed; empty ones are dropped.
func SplitByOr(prelude string) []string {
	return SplitTokensByOr(Tokenize(prelude))
}

// SplitTokensByOr is SplitByOr for pre-tokenized input.
func SplitTokensByOr(tokens []*css.Token) []string {
	var queries []string
	var current strings.Builder
	flush := func() {
		q := strings.Join(strings.Fields(current.String()), " ")
		if q != "" {
			queries = append(queries, q)
		}
		current.Reset()
	}
	depth := 0
	for _, t := range tokens {
		switch t.Type {
		case css.TokenFunction:
			depth++
		case css.TokenChar:
			switch t.Value {
			case "(":
				depth++
			case ")":
				if depth > 0 {
					depth--
				}
			case ",":
				if depth == 0 {
					flush()
					continue
				}
			}
		case css.TokenIdent:
			if depth == 0 && strings.EqualFold(t.Value, "or") {
				flush()
				continue
			}
		case css.TokenComment:
			continue
		}
		current.WriteString(t.Value)
	}
	flush()
	return queries
}

// SanitizeMediaQuery collapses whitespace in a media query; an empty
// query means "all".
func SanitizeMediaQuery(query string) string {
	q := strings.Join(strings.Fields(query), " ")
	if q == "" {
		return "all"
	}
	return q
}
