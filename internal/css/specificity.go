package css

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
)

var (
	nonIDAttributesAndPseudoClassesRegex = regexp.MustCompile(`(?i)(\.\w+)|(\[\w+)|(:(link|first-child|lang))`)
	elementsAndPseudoElementsRegex       = regexp.MustCompile(`(?i)((^|[\s+>]+)\w+|:(first-line|first-letter|before|after))`)
)

// CalculateSpecificity returns the specificity of a single selector as the
// integer formed by concatenating the counts of IDs, classes/attributes/
// pseudo-classes and elements/pseudo-elements, e.g. "#content p" is 101.
func CalculateSpecificity(selector string) int {
	a := strings.Count(selector, "#")
	b := len(nonIDAttributesAndPseudoClassesRegex.FindAllStringIndex(selector, -1))
	c := len(elementsAndPseudoElementsRegex.FindAllStringIndex(selector, -1))

	n, err := strconv.Atoi(fmt.Sprintf("0%d%d%d", a, b, c))
	if err != nil {
		return 0
	}
	return n
}

// TupleSpecificity returns the (IDs, classes, elements) specificity of a
// selector list as computed by cascadia. For a list the largest one wins.
func TupleSpecificity(selectors string) (Specificity, error) {
	group, err := cascadia.ParseGroupWithPseudoElements(selectors)
	if err != nil {
		return Specificity{}, fmt.Errorf("failed to parse selector %q: %w", selectors, err)
	}
	var best Specificity
	for _, sel := range group {
		s := sel.Specificity()
		spec := Specificity{IDs: int(s[0]), Classes: int(s[1]), Elements: int(s[2])}
		if spec.Compare(best) > 0 {
			best = spec
		}
	}
	return best, nil
}
