package css

import (
	"fmt"
	"strings"
)

// SpecificityMode selects how Merge ranks rule sets of equal importance.
type SpecificityMode int

const (
	// SpecificityDigits ranks by CalculateSpecificity, the default.
	SpecificityDigits SpecificityMode = iota
	// SpecificityTuple ranks by the (IDs, classes, elements) tuple computed by cascadia.
	SpecificityTuple
)

func (m SpecificityMode) String() string {
	if m == SpecificityTuple {
		return "tuple"
	}
	return "digits"
}

// MergeOptions configure MergeWith.
type MergeOptions struct {
	Mode SpecificityMode
}

// Merge folds rule sets into one following the cascade: an !important
// declaration beats a normal one, then higher specificity wins, then the
// later rule set wins. Each rule set is expanded in place first. A single
// rule set is returned as is. The result has no selectors and has its
// shorthands recreated.
func Merge(rulesets ...*RuleSet) (*RuleSet, error) {
	return MergeWith(MergeOptions{}, rulesets...)
}

// MergeAny is Merge for untyped arguments. Slices of rule sets are
// flattened; any other argument fails with ErrNotRuleSet.
func MergeAny(args ...any) (*RuleSet, error) {
	var rulesets []*RuleSet
	for i, arg := range args {
		switch a := arg.(type) {
		case *RuleSet:
			if a == nil {
				return nil, fmt.Errorf("%w: argument %d is nil", ErrNotRuleSet, i)
			}
			rulesets = append(rulesets, a)
		case []*RuleSet:
			rulesets = append(rulesets, a...)
		default:
			return nil, fmt.Errorf("%w: argument %d is %T", ErrNotRuleSet, i, arg)
		}
	}
	return Merge(rulesets...)
}

// cascadeEntry tracks the cascade information for a declaration
type cascadeEntry struct {
	value       Value
	specificity Specificity
}

// MergeWith is Merge with explicit options.
func MergeWith(opts MergeOptions, rulesets ...*RuleSet) (*RuleSet, error) {
	for i, rs := range rulesets {
		if rs == nil {
			return nil, fmt.Errorf("%w: argument %d is nil", ErrNotRuleSet, i)
		}
	}
	if len(rulesets) == 1 {
		return rulesets[0], nil
	}

	var order []string
	winning := make(map[string]cascadeEntry)

	for _, rs := range rulesets {
		if err := rs.ExpandShorthand(); err != nil {
			return nil, fmt.Errorf("failed to expand %s: %w", rs.SelectorsString(), err)
		}
		spec := effectiveSpecificity(rs, opts.Mode)

		rs.EachDeclaration(func(property string, value Value) {
			entry := cascadeEntry{value: value, specificity: spec}
			existing, ok := winning[property]
			if !ok {
				order = append(order, property)
				winning[property] = entry
				return
			}
			if shouldReplace(entry, existing) {
				tracer().Debugf("merge: %s: %q %v replaces %q %v", property,
					value, spec, existing.value, existing.specificity)
				winning[property] = entry
			}
		})
	}

	decls := NewDeclarations()
	for _, property := range order {
		decls.put(property, winning[property].value)
	}
	merged := &RuleSet{declarations: decls}
	merged.CreateShorthand()
	return merged, nil
}

// shouldReplace determines if a new declaration should replace the existing winning declaration
func shouldReplace(newEntry, existingEntry cascadeEntry) bool {
	// 1. !important declarations always beat non-!important
	if newEntry.value.important && !existingEntry.value.important {
		return true
	}
	if !newEntry.value.important && existingEntry.value.important {
		return false
	}

	// 2. Higher specificity wins; if equal, the later declaration wins
	return newEntry.specificity.Compare(existingEntry.specificity) >= 0
}

// effectiveSpecificity is the explicit specificity of rs if set, otherwise
// the largest specificity over its selectors, otherwise zero.
func effectiveSpecificity(rs *RuleSet, mode SpecificityMode) Specificity {
	if n, ok := rs.Specificity(); ok {
		return SpecificityFromDigits(n)
	}
	if mode == SpecificityTuple && len(rs.selectors) > 0 {
		spec, err := TupleSpecificity(strings.Join(rs.selectors, ","))
		if err == nil {
			return spec
		}
		tracer().Infof("falling back to digit specificity: %v", err)
	}
	best := 0
	for _, sel := range rs.selectors {
		if n := CalculateSpecificity(sel); n > best {
			best = n
		}
	}
	return SpecificityFromDigits(best)
}
