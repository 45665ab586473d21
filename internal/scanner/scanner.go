package scanner

import (
	"strings"
)

// Scanner walks over a stylesheet and emits top level nodes.
type Scanner struct {
	src string
	pos int
}

// New creates a scanner for css. Comments are blanked first.
func New(css string) *Scanner {
	return &Scanner{src: BlankComments(strings.TrimPrefix(css, "\uFEFF"))}
}

// Scan splits css into its top level nodes. Offsets refer to css with a
// leading byte order mark removed.
func Scan(css string) ([]Node, error) {
	return New(css).Nodes()
}

// Nodes scans all remaining nodes. Stray ';' and '}' between nodes are skipped.
func (s *Scanner) Nodes() ([]Node, error) {
	var nodes []Node
	for {
		n, err := s.Next()
		if err != nil {
			return nil, err
		}
		if n == nil {
			return nodes, nil
		}
		nodes = append(nodes, n)
	}
}

// Next returns the next node, or nil at the end of input.
func (s *Scanner) Next() (Node, error) {
	s.skipSeparators()
	if s.pos >= len(s.src) {
		return nil, nil
	}
	if s.src[s.pos] == '@' {
		return s.scanAtRule()
	}

	start := s.pos
	selector, err := s.scanSelector()
	if err != nil {
		return nil, err
	}
	properties, err := s.scanProperties(start)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("style rule %q at %d..%d", selector, start, s.pos)
	return &StyleRule{
		Selector:   selector,
		Properties: properties,
		Start:      start,
		End:        s.pos,
	}, nil
}

func (s *Scanner) skipSeparators() {
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case ' ', '\t', '\n', '\r', '\f', ';':
		case '}':
			tracer().Debugf("skipping stray '}' at %d", s.pos)
		default:
			return
		}
		s.pos++
	}
}

func (s *Scanner) fail(err error, offset int) error {
	return &ScanError{Err: err, Offset: offset}
}

// nextSelectorStop finds the next quote, '{' or double backslash.
func (s *Scanner) nextSelectorStop() int {
	for i := s.pos; i < len(s.src); i++ {
		switch s.src[i] {
		case '"', '\'', '{':
			return i
		case '\\':
			if i+1 < len(s.src) && s.src[i+1] == '\\' {
				return i
			}
		}
	}
	return -1
}

// scanSelector reads up to the first unescaped '{' and consumes it.
// A double backslash folds to one, an escaped quote or brace is kept
// literally without its backslash, and quoted strings are copied whole.
func (s *Scanner) scanSelector() (string, error) {
	start := s.pos
	var sel strings.Builder
	for {
		i := s.nextSelectorStop()
		if i < 0 {
			return "", s.fail(ErrSelectorEnd, start)
		}
		seg := s.src[s.pos:i]
		c := s.src[i]
		switch {
		case c == '\\':
			sel.WriteString(seg)
			sel.WriteByte('\\')
			s.pos = i + 2
		case trailingBackslashes(seg) == 1:
			sel.WriteString(seg[:len(seg)-1])
			sel.WriteByte(c)
			s.pos = i + 1
		case trailingBackslashes(seg) > 1:
			return "", s.fail(ErrMalformedEscape, i)
		case c == '{':
			sel.WriteString(seg)
			s.pos = i + 1
			return strings.TrimSpace(sel.String()), nil
		default:
			sel.WriteString(seg)
			s.pos = i
			str, err := s.scanString(c, ErrSelectorEnd)
			if err != nil {
				return "", err
			}
			sel.WriteString(str)
		}
	}
}

// scanProperties reads up to the first unescaped '}' and consumes it.
// Errors are reported at ruleStart.
func (s *Scanner) scanProperties(ruleStart int) (string, error) {
	var props strings.Builder
	for {
		i := strings.IndexAny(s.src[s.pos:], `'"}`)
		if i < 0 {
			return "", s.fail(ErrPropertiesEnd, ruleStart)
		}
		i += s.pos
		seg := s.src[s.pos:i]
		c := s.src[i]
		n := trailingBackslashes(seg)
		switch {
		case c == '}' && n%2 == 1:
			props.WriteString(seg)
			props.WriteByte('}')
			s.pos = i + 1
		case c == '}':
			props.WriteString(seg)
			s.pos = i + 1
			return strings.TrimSpace(props.String()), nil
		case n != 0:
			return "", s.fail(ErrMalformedEscape, i)
		default:
			props.WriteString(seg)
			s.pos = i
			str, err := s.scanString(c, ErrPropertiesEnd)
			if err != nil {
				return "", err
			}
			props.WriteString(str)
		}
	}
}

// scanString reads a quoted string starting at the opening quote. The
// string ends at a quote preceded by an even number of backslashes.
// Double backslashes fold to one.
func (s *Scanner) scanString(quote byte, errKind error) (string, error) {
	start := s.pos
	j := start + 1
	for {
		k := strings.IndexByte(s.src[j:], quote)
		if k < 0 {
			return "", s.fail(errKind, start)
		}
		k += j
		if trailingBackslashes(s.src[j:k])%2 == 0 {
			s.pos = k + 1
			break
		}
		j = k + 1
	}
	return strings.ReplaceAll(s.src[start:s.pos], `\\`, `\`), nil
}

func isNameChar(c byte) bool {
	return c == '-' || c == '_' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// scanAtRule reads "@name prelude;" or "@name prelude { block }". A
// statement at-rule may also end at the end of input.
func (s *Scanner) scanAtRule() (*AtRule, error) {
	start := s.pos
	s.pos++
	nameStart := s.pos
	for s.pos < len(s.src) && isNameChar(s.src[s.pos]) {
		s.pos++
	}
	rule := &AtRule{Name: strings.ToLower(s.src[nameStart:s.pos]), Start: start}
	preludeStart := s.pos
	depth := 0
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '"' || c == '\'':
			if _, err := s.scanString(c, ErrBlockEnd); err != nil {
				return nil, err
			}
			continue
		case c == '\\':
			s.pos += 2
			continue
		case c == '(':
			depth++
		case c == ')' && depth > 0:
			depth--
		case c == ';' && depth == 0:
			rule.Prelude = strings.TrimSpace(s.src[preludeStart:s.pos])
			s.pos++
			rule.End = s.pos
			return rule, nil
		case c == '{' && depth == 0:
			rule.Prelude = strings.TrimSpace(s.src[preludeStart:s.pos])
			s.pos++
			rule.BlockStart = s.pos
			end, err := s.scanBlock(start)
			if err != nil {
				return nil, err
			}
			rule.Block = s.src[rule.BlockStart:end]
			rule.HasBlock = true
			s.pos = end + 1
			rule.End = s.pos
			tracer().Debugf("@%s %q at %d..%d", rule.Name, rule.Prelude, rule.Start, rule.End)
			return rule, nil
		}
		s.pos++
	}
	rule.Prelude = strings.TrimSpace(s.src[preludeStart:])
	s.pos = len(s.src)
	rule.End = s.pos
	return rule, nil
}

// scanBlock finds the '}' closing the block that starts at s.pos.
func (s *Scanner) scanBlock(ruleStart int) (int, error) {
	depth := 0
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch c {
		case '"', '\'':
			if _, err := s.scanString(c, ErrBlockEnd); err != nil {
				return 0, err
			}
			continue
		case '\\':
			s.pos += 2
			continue
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return s.pos, nil
			}
			depth--
		}
		s.pos++
	}
	return 0, s.fail(ErrBlockEnd, ruleStart)
}
