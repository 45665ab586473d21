/*
Package css holds the CSS value model: property values with importance,
ordered declaration collections and rule sets.

Rule sets know how to expand shorthand properties (margin, border, font,
background, list-style and friends) into their longhands and how to fold
longhands back into shorthands. Merge folds several rule sets into one
according to the cascade: !important first, then specificity, then order.

Specificity is computed the classic way by concatenating the number of IDs,
classes and elements into a single integer. Tuple specificity, computed by
cascadia, is available as an alternative ranking for Merge.
*/
package css

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cssparser.css'.
func tracer() tracing.Trace {
	return tracing.Select("cssparser.css")
}
