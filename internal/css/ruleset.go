package css

import (
	"fmt"
	"strings"
)

// RuleSet is a list of selectors sharing one declaration block.
type RuleSet struct {
	selectors    []string
	declarations *Declarations
	specificity  *int
	filename     string
	offset       *Offset
}

// Options configure NewRuleSet. Block is parsed only if Declarations is nil.
type Options struct {
	Selectors    string        // comma separated selector list
	Block        string        // declaration block text
	Declarations *Declarations // pre-built declarations
	Specificity  *int          // overrides the selector specificity when merging
	Filename     string        // source file, requires Offset
	Offset       *Offset       // source location, requires Filename
	Strict       bool          // fail on empty declaration values
}

// NewRuleSet creates a rule set from opts.
func NewRuleSet(opts Options) (*RuleSet, error) {
	if (opts.Filename == "") != (opts.Offset == nil) {
		return nil, ErrSourceLocation
	}
	rs := &RuleSet{
		filename:    opts.Filename,
		offset:      opts.Offset,
		specificity: opts.Specificity,
	}
	rs.AddSelectors(opts.Selectors)

	switch {
	case opts.Declarations != nil:
		rs.declarations = opts.Declarations
	case opts.Strict:
		decls, err := ParseDeclarationsStrict(opts.Block)
		if err != nil {
			return nil, err
		}
		rs.declarations = decls
	default:
		rs.declarations = ParseDeclarations(opts.Block)
	}
	return rs, nil
}

// ParseRuleSet creates a rule set from selector and block text, skipping
// malformed declarations.
func ParseRuleSet(selectors, block string) *RuleSet {
	rs := &RuleSet{declarations: ParseDeclarations(block)}
	rs.AddSelectors(selectors)
	return rs
}

// AddSelectors appends the comma separated selectors not yet present.
// Whitespace is collapsed; commas inside parentheses or quotes do not split.
func (rs *RuleSet) AddSelectors(selectors string) {
	for _, sel := range SplitSelectors(selectors) {
		if !rs.hasSelector(sel) {
			rs.selectors = append(rs.selectors, sel)
		}
	}
}

func (rs *RuleSet) hasSelector(sel string) bool {
	for _, s := range rs.selectors {
		if s == sel {
			return true
		}
	}
	return false
}

// SplitSelectors splits a selector list on top-level commas and
// normalizes whitespace inside each selector.
func SplitSelectors(selectors string) []string {
	var out []string
	for _, part := range splitTopLevel(selectors, ',') {
		sel := strings.TrimSpace(whitespaceRegex.ReplaceAllString(part, " "))
		if sel != "" {
			out = append(out, sel)
		}
	}
	return out
}

// Selectors returns the selectors in order.
func (rs *RuleSet) Selectors() []string {
	return append([]string(nil), rs.selectors...)
}

// SelectorsString returns the selectors joined by ",".
func (rs *RuleSet) SelectorsString() string {
	return strings.Join(rs.selectors, ",")
}

// Declarations gives access to the declaration block.
func (rs *RuleSet) Declarations() *Declarations {
	return rs.declarations
}

// Specificity returns the explicit specificity, if one was given.
func (rs *RuleSet) Specificity() (int, bool) {
	if rs.specificity == nil {
		return 0, false
	}
	return *rs.specificity, true
}

// SetSpecificity overrides the specificity used when merging.
func (rs *RuleSet) SetSpecificity(n int) {
	rs.specificity = &n
}

// Source returns the source file and byte range, if captured.
func (rs *RuleSet) Source() (string, *Offset) {
	return rs.filename, rs.offset
}

// GetValue returns the declaration text for property, with a trailing
// semicolon, or the empty string if it is not declared.
func (rs *RuleSet) GetValue(property string) string {
	v, ok := rs.declarations.Get(property)
	if !ok {
		return ""
	}
	return v.String() + ";"
}

// Set stores a raw value for property; a blank value deletes it.
func (rs *RuleSet) Set(property, raw string) error {
	return rs.declarations.SetString(property, raw)
}

// Delete removes property.
func (rs *RuleSet) Delete(property string) {
	rs.declarations.Delete(property)
}

// EachSelector calls fn once per selector with the rendered declarations
// and the selector's specificity.
func (rs *RuleSet) EachSelector(forceImportant bool, fn func(selector, declarations string, specificity int)) {
	decls := rs.declarations.StringImportant(forceImportant)
	for _, sel := range rs.selectors {
		spec := CalculateSpecificity(sel)
		if rs.specificity != nil {
			spec = *rs.specificity
		}
		fn(sel, decls, spec)
	}
}

// EachDeclaration calls fn for every declaration in order.
func (rs *RuleSet) EachDeclaration(fn func(property string, value Value)) {
	rs.declarations.Each(fn)
}

// DeclarationsString renders the declaration block.
func (rs *RuleSet) DeclarationsString() string {
	return rs.declarations.String()
}

// String renders the rule set as "sel1,sel2 { decls }".
func (rs *RuleSet) String() string {
	return fmt.Sprintf("%s { %s }", rs.SelectorsString(), rs.declarations.String())
}

// Equal reports whether both rule sets render the same CSS.
func (rs *RuleSet) Equal(other *RuleSet) bool {
	if other == nil {
		return false
	}
	return rs.String() == other.String()
}

// Clone returns a deep copy.
func (rs *RuleSet) Clone() *RuleSet {
	c := &RuleSet{
		selectors:    append([]string(nil), rs.selectors...),
		declarations: rs.declarations.Clone(),
		filename:     rs.filename,
	}
	if rs.specificity != nil {
		n := *rs.specificity
		c.specificity = &n
	}
	if rs.offset != nil {
		o := *rs.offset
		c.offset = &o
	}
	return c
}
