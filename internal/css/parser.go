package css

import (
	"fmt"
	"regexp"
	"strings"
)

var commentRegex = regexp.MustCompile(`/\*[^*]*\*+([^/*][^*]*\*+)*/`)

// Parser turns declaration blocks into Declarations.
//
// A tolerant parser skips fragments without a colon or with an empty value.
// A strict parser reports empty values as errors.
type Parser struct {
	strict bool
}

// NewParser creates a tolerant declaration parser
func NewParser() *Parser {
	return &Parser{}
}

// NewStrictParser creates a parser that fails on empty values
func NewStrictParser() *Parser {
	return &Parser{strict: true}
}

// ParseDeclarations parses a declaration block, skipping malformed fragments.
func ParseDeclarations(block string) *Declarations {
	decls, _ := NewParser().Parse(block)
	return decls
}

// ParseDeclarationsStrict parses a declaration block and fails on the
// first declaration with an empty value.
func ParseDeclarationsStrict(block string) (*Declarations, error) {
	return NewStrictParser().Parse(block)
}

// Parse parses "prop: value; prop: value !important" text. Surrounding
// braces are allowed. Inside one block a later non-important declaration
// does not override an earlier !important one.
func (p *Parser) Parse(block string) (*Declarations, error) {
	decls := NewDeclarations()

	block = commentRegex.ReplaceAllString(block, "")
	block = strings.TrimSpace(block)
	block = strings.TrimPrefix(block, "{")
	block = strings.TrimSuffix(block, "}")

	for _, part := range splitTopLevel(block, ';') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		colonIndex := indexTopLevel(part, ':')
		if colonIndex == -1 {
			continue
		}

		property := NormalizePropertyName(part[:colonIndex])
		if property == "" {
			continue
		}

		value, err := NewValue(part[colonIndex+1:])
		if err != nil {
			if p.strict {
				return nil, fmt.Errorf("failed to parse %s: %w", property, err)
			}
			tracer().Debugf("skipping declaration %q: %v", part, err)
			continue
		}

		if existing, ok := decls.values[property]; ok && existing.important && !value.important {
			continue
		}
		decls.put(property, value)
	}

	return decls, nil
}

// walkTopLevel calls fn with the index of every rune of s that is outside
// quotes, parentheses and brackets. Walking stops when fn returns false.
func walkTopLevel(s string, fn func(i int, c rune) bool) {
	var quote rune
	depth := 0
	for i, c := range s {
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[':
			depth++
		case (c == ')' || c == ']') && depth > 0:
			depth--
		case depth == 0:
			if !fn(i, c) {
				return
			}
		}
	}
}

// splitTopLevel splits s at every top-level delimiter. Empty pieces are dropped.
func splitTopLevel(s string, delimiter rune) []string {
	var parts []string
	last := 0
	walkTopLevel(s, func(i int, c rune) bool {
		if c == delimiter {
			if i > last {
				parts = append(parts, s[last:i])
			}
			last = i + 1
		}
		return true
	})
	if last < len(s) {
		parts = append(parts, s[last:])
	}
	return parts
}

// indexTopLevel returns the index of the first top-level char in s, or -1.
func indexTopLevel(s string, char rune) int {
	index := -1
	walkTopLevel(s, func(i int, c rune) bool {
		if c == char {
			index = i
			return false
		}
		return true
	})
	return index
}

// NormalizePropertyName lower-cases and trims a property name
func NormalizePropertyName(property string) string {
	return strings.ToLower(strings.TrimSpace(property))
}
