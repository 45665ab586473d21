package stylesheet

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"cssparser/internal/config"
	"cssparser/internal/css"
)

// Resolver computes the effective declarations for selectors by merging
// every rule set that contains them. Merged results are cached per
// Resolver, keyed by the rule sets taking part, so the cache never goes
// stale when the style sheet changes.
type Resolver struct {
	stylesheet *Stylesheet
	mode       css.SpecificityMode
	cache      map[string]*css.RuleSet
}

// NewResolver creates a resolver over stylesheet using the configured
// specificity mode
func NewResolver(stylesheet *Stylesheet) *Resolver {
	mode := css.SpecificityDigits
	if stylesheet.config.SpecificityMode == config.SpecificityTuple {
		mode = css.SpecificityTuple
	}
	return &Resolver{
		stylesheet: stylesheet,
		mode:       mode,
		cache:      make(map[string]*css.RuleSet),
	}
}

// Resolve merges, in source order, every rule set containing one of the
// selectors and applying to the media queries. Each participating rule set
// is ranked by the specificity of the selector that matched it, not by its
// other selectors. The style sheet itself is not modified.
//
// It returns nil if no rule set matches.
func (r *Resolver) Resolve(selectors []string, media ...string) (*css.RuleSet, error) {
	// Step 1: Collect matching rule sets, narrowed to the matched selector
	var matches []*css.RuleSet
	wanted := make(map[string]bool, len(selectors))
	for _, sel := range selectors {
		wanted[strings.Join(strings.Fields(sel), " ")] = true
	}
	var keyParts []string
	var buildErr error
	r.stylesheet.EachRuleSet(func(rs *css.RuleSet, _ []string) {
		if buildErr != nil {
			return
		}
		for _, sel := range rs.Selectors() {
			if !wanted[sel] {
				continue
			}
			narrowed, err := narrow(rs, sel)
			if err != nil {
				buildErr = err
				return
			}
			matches = append(matches, narrowed)
			keyParts = append(keyParts, narrowed.String())
			if spec, ok := narrowed.Specificity(); ok {
				keyParts = append(keyParts, fmt.Sprint(spec))
			}
			return
		}
	}, media...)
	if buildErr != nil {
		return nil, fmt.Errorf("failed to resolve %v: %w", selectors, buildErr)
	}
	if len(matches) == 0 {
		return nil, nil
	}

	// Step 2: Look up the folded result
	key := cacheKey(r.mode, keyParts)
	if cached, ok := r.cache[key]; ok {
		tracer().Debugf("resolve %v: cache hit", selectors)
		return cached.Clone(), nil
	}

	// Step 3: Apply the cascade
	merged, err := css.MergeWith(css.MergeOptions{Mode: r.mode}, matches...)
	if err != nil {
		return nil, fmt.Errorf("failed to merge rule sets for %v: %w", selectors, err)
	}
	r.cache[key] = merged.Clone()
	return merged, nil
}

// narrow copies rs with sel as its only selector.
func narrow(rs *css.RuleSet, sel string) (*css.RuleSet, error) {
	opts := css.Options{
		Selectors:    sel,
		Declarations: rs.Declarations().Clone(),
	}
	if spec, ok := rs.Specificity(); ok {
		opts.Specificity = &spec
	}
	return css.NewRuleSet(opts)
}

func cacheKey(mode css.SpecificityMode, parts []string) string {
	h := sha1.New()
	h.Write([]byte(mode.String()))
	for _, p := range parts {
		h.Write([]byte{0})
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// CacheSize returns the number of folded results held.
func (r *Resolver) CacheSize() int {
	return len(r.cache)
}

// StylesString renders resolved declarations as "prop: value; ..." with
// properties sorted, the way a style attribute would carry them.
func StylesString(rs *css.RuleSet) string {
	if rs == nil || rs.Declarations().Len() == 0 {
		return ""
	}

	properties := rs.Declarations().Keys()
	sort.Strings(properties)

	var parts []string
	for _, property := range properties {
		value, _ := rs.Declarations().Get(property)
		parts = append(parts, fmt.Sprintf("%s: %s", property, value.String()))
	}

	return strings.Join(parts, "; ")
}
