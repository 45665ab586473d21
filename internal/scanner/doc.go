/*
Package scanner splits a stylesheet into its top level nodes.

Style rules are scanned with a small state machine that is aware of quoted
strings and backslash escapes: a selector ends at the first unescaped '{',
a property block at the first unescaped '}'. At-rules are captured whole,
including a nested block if they have one, so that callers can recurse
into @media blocks.

Comments are blanked before scanning rather than removed, so byte offsets
reported for each node refer to the original input.
*/
package scanner

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cssparser.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("cssparser.scanner")
}
