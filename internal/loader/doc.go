/*
Package loader reads style sheets from files, URLs and strings into a
stylesheet.Stylesheet and follows their @import rules.

Every file or URL is loaded at most once per Loader; loading it again is a
circular reference. Remote sheets are fetched with a bounded number of
redirects, decompressed and converted to UTF-8.
*/
package loader

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cssparser.loader'.
func tracer() tracing.Trace {
	return tracing.Select("cssparser.loader")
}
