package stylesheet

import (
	"fmt"
	"strings"

	"cssparser/internal/config"
	"cssparser/internal/css"
	"cssparser/internal/scanner"
)

// MediaAll is the media query that matches every medium.
const MediaAll = "all"

// Entry is a rule set together with the media queries it applies to.
type Entry struct {
	RuleSet    *css.RuleSet
	MediaTypes []string
}

// Stylesheet is an ordered collection of rule sets.
// It is not safe for concurrent use.
type Stylesheet struct {
	config   config.Config
	entries  []Entry
	importer Importer
}

// New creates an empty style sheet
func New(cfg config.Config) *Stylesheet {
	return &Stylesheet{config: cfg}
}

// Config returns the configuration the style sheet was created with.
func (s *Stylesheet) Config() config.Config {
	return s.config
}

// SetImporter installs the collaborator that follows @import rules.
// Without one, imports are skipped.
func (s *Stylesheet) SetImporter(importer Importer) {
	s.importer = importer
}

// Len returns the number of entries.
func (s *Stylesheet) Len() int {
	return len(s.entries)
}

// Entries returns the entries in source order.
func (s *Stylesheet) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}

// sanitizeMediaTypes normalizes a media query list; an empty list is "all".
func sanitizeMediaTypes(media []string) []string {
	if len(media) == 0 {
		return []string{MediaAll}
	}
	out := make([]string, 0, len(media))
	for _, m := range media {
		out = append(out, scanner.SanitizeMediaQuery(m))
	}
	return out
}

func containsMedia(media []string, query string) bool {
	for _, m := range media {
		if m == query {
			return true
		}
	}
	return false
}

func sameMedia(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// AddRule parses a declaration block and adds it under selectors. With
// RuleSetErrors configured, a declaration with an empty value fails the
// rule; otherwise such declarations are dropped.
func (s *Stylesheet) AddRule(selectors, block string, media ...string) error {
	return s.addRule(css.Options{
		Selectors: selectors,
		Block:     block,
		Strict:    s.config.RuleSetErrors,
	}, media)
}

// AddRuleWithSource is AddRule for a rule read from filename at offset.
func (s *Stylesheet) AddRuleWithSource(selectors, block, filename string, offset css.Offset, media ...string) error {
	return s.addRule(css.Options{
		Selectors: selectors,
		Block:     block,
		Filename:  filename,
		Offset:    &offset,
		Strict:    s.config.RuleSetErrors,
	}, media)
}

func (s *Stylesheet) addRule(opts css.Options, media []string) error {
	rs, err := css.NewRuleSet(opts)
	if err != nil {
		if s.config.RuleSetErrors {
			return fmt.Errorf("failed to add rule %q: %w", opts.Selectors, err)
		}
		tracer().Errorf("dropping rule %q: %v", opts.Selectors, err)
		return nil
	}
	s.AddRuleSet(rs, media...)
	return nil
}

// AddRuleSet appends a rule set for the given media queries.
func (s *Stylesheet) AddRuleSet(rs *css.RuleSet, media ...string) {
	s.entries = append(s.entries, Entry{RuleSet: rs, MediaTypes: sanitizeMediaTypes(media)})
}

// RemoveRuleSet removes every entry that renders like rs and has exactly
// the given media queries.
func (s *Stylesheet) RemoveRuleSet(rs *css.RuleSet, media ...string) {
	media = sanitizeMediaTypes(media)
	text := rs.String()
	kept := s.entries[:0]
	for _, e := range s.entries {
		if sameMedia(e.MediaTypes, media) && e.RuleSet.String() == text {
			continue
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(s.entries); i++ {
		s.entries[i] = Entry{}
	}
	s.entries = kept
}

// EachRuleSet calls fn for each entry applying to one of the media queries.
// Without media queries, or with "all" among them, every entry is visited.
// An entry added for "all" is not visited when asking for "print".
func (s *Stylesheet) EachRuleSet(fn func(rs *css.RuleSet, media []string), media ...string) {
	media = sanitizeMediaTypes(media)
	wildcard := containsMedia(media, MediaAll)
	for _, e := range s.entries {
		if wildcard || matchesAny(e.MediaTypes, media) {
			fn(e.RuleSet, e.MediaTypes)
		}
	}
}

func matchesAny(entryMedia, media []string) bool {
	for _, m := range entryMedia {
		if containsMedia(media, m) {
			return true
		}
	}
	return false
}

// EachSelector calls fn once per selector of every matching rule set with
// the rendered declarations and the selector's specificity.
func (s *Stylesheet) EachSelector(fn func(selector, declarations string, specificity int, media []string), media ...string) {
	s.EachRuleSet(func(rs *css.RuleSet, entryMedia []string) {
		rs.EachSelector(false, func(sel, decls string, spec int) {
			fn(sel, decls, spec, entryMedia)
		})
	}, media...)
}

// FindBySelector returns the rendered declarations of every rule set
// containing selector, in source order.
func (s *Stylesheet) FindBySelector(selector string, media ...string) []string {
	selector = strings.TrimSpace(selector)
	var out []string
	s.EachSelector(func(sel, decls string, _ int, _ []string) {
		if sel == selector {
			out = append(out, decls)
		}
	}, media...)
	return out
}

// FindRuleSets returns the distinct rule sets containing any of the
// selectors. Whitespace in the selectors is normalized first.
func (s *Stylesheet) FindRuleSets(selectors []string, media ...string) []*css.RuleSet {
	var found []*css.RuleSet
	seen := make(map[*css.RuleSet]bool)
	for _, selector := range selectors {
		selector = strings.Join(strings.Fields(selector), " ")
		s.EachRuleSet(func(rs *css.RuleSet, _ []string) {
			if seen[rs] {
				return
			}
			for _, sel := range rs.Selectors() {
				if sel == selector {
					seen[rs] = true
					found = append(found, rs)
					return
				}
			}
		}, media...)
	}
	return found
}

// MediaRules groups the rule sets of one media query.
type MediaRules struct {
	Media    string
	RuleSets []*css.RuleSet
}

// RulesByMediaQuery groups rule sets by media query, in order of first
// appearance. A rule set listed under several queries appears in each group.
func (s *Stylesheet) RulesByMediaQuery() []MediaRules {
	var groups []MediaRules
	index := make(map[string]int)
	for _, e := range s.entries {
		for _, m := range e.MediaTypes {
			i, ok := index[m]
			if !ok {
				i = len(groups)
				index[m] = i
				groups = append(groups, MediaRules{Media: m})
			}
			groups[i].RuleSets = append(groups[i].RuleSets, e.RuleSet)
		}
	}
	return groups
}
