/*
Package stylesheet holds a parsed style sheet: an ordered list of rule sets,
each tagged with the media queries it applies to.

AddBlock scans CSS text and routes its nodes. Style rules become rule sets,
@media blocks are added recursively under their split media query list,
@page and @font-face become rule sets with an at-keyword selector, and
@import rules are handed to an Importer. Other at-rules are ignored.

Entry order matters: it is the source order the cascade falls back to when
importance and specificity are equal.
*/
package stylesheet

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cssparser.stylesheet'.
func tracer() tracing.Trace {
	return tracing.Select("cssparser.stylesheet")
}
