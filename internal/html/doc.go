/*
Package html finds the style sheets an HTML document refers to.

Embedded <style> elements and <link rel="stylesheet"> references are
returned in document order together with their media attribute, ready to be
handed to a style sheet loader.
*/
package html

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cssparser.html'.
func tracer() tracing.Trace {
	return tracing.Select("cssparser.html")
}
