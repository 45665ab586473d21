package stylesheet

import (
	"strings"

	tp "github.com/xlab/treeprint"

	"cssparser/internal/css"
)

type styledSelector struct {
	selector     string
	declarations string
}

// byMedia groups selectors and their declarations per media query, in
// order of first appearance.
func (s *Stylesheet) byMedia(media []string) ([]string, map[string][]styledSelector) {
	var order []string
	groups := make(map[string][]styledSelector)
	s.EachSelector(func(sel, decls string, _ int, entryMedia []string) {
		for _, m := range entryMedia {
			if _, ok := groups[m]; !ok {
				order = append(order, m)
			}
			groups[m] = append(groups[m], styledSelector{sel, decls})
		}
	}, media...)
	return order, groups
}

// String renders the rule sets of the given media queries as one style
// sheet, one selector per rule. Rules for media other than "all" are
// wrapped in @media blocks.
func (s *Stylesheet) String(media ...string) string {
	var out []string
	order, groups := s.byMedia(media)
	for _, m := range order {
		wrapped := m != MediaAll
		if wrapped {
			out = append(out, "@media "+m+" {")
		}
		for _, st := range groups[m] {
			if wrapped {
				out = append(out, "  "+st.selector+" {\n    "+st.declarations+"\n  }")
			} else {
				out = append(out, st.selector+" {\n"+st.declarations+"\n}")
			}
		}
		if wrapped {
			out = append(out, "}")
		}
	}
	out = append(out, "")
	return strings.Join(out, "\n")
}

// ToMap returns media query -> selector -> property -> value. A value
// carries its " !important" suffix. Declarations of repeated selectors are
// merged with later ones overwriting earlier ones.
func (s *Stylesheet) ToMap(media ...string) map[string]map[string]map[string]string {
	out := make(map[string]map[string]map[string]string)
	s.EachRuleSet(func(rs *css.RuleSet, entryMedia []string) {
		for _, m := range entryMedia {
			selectors, ok := out[m]
			if !ok {
				selectors = make(map[string]map[string]string)
				out[m] = selectors
			}
			for _, sel := range rs.Selectors() {
				props, ok := selectors[sel]
				if !ok {
					props = make(map[string]string)
					selectors[sel] = props
				}
				rs.EachDeclaration(func(property string, value css.Value) {
					props[property] = value.String()
				})
			}
		}
	}, media...)
	return out
}

// Tree renders the style sheet as a tree of media queries, rule sets and
// declarations, for debugging.
func (s *Stylesheet) Tree() string {
	root := tp.New()
	root.SetValue("stylesheet")
	for _, group := range s.RulesByMediaQuery() {
		branch := root.AddBranch("@media " + group.Media)
		for _, rs := range group.RuleSets {
			label := rs.SelectorsString()
			if file, offset := rs.Source(); offset != nil {
				label += " (" + file + " " + offset.String() + ")"
			}
			rule := branch.AddBranch(label)
			rs.EachDeclaration(func(property string, value css.Value) {
				rule.AddNode(property + ": " + value.String())
			})
		}
	}
	return root.String()
}
