/*
Package cssparser parses CSS style sheets and answers questions about them.

A Parser collects rule sets from CSS text, local files, remote URLs and
HTML documents, following @import rules on the way. The collected rules
can be looked up by selector, folded into one declaration set by the
cascade, or rendered back as CSS, a map or a tree.

	p := cssparser.NewWithDefaults()
	if err := p.LoadFile("site.css", cssparser.BlockOptions{}); err != nil {
		return err
	}
	styles, err := p.ResolveStyles([]string{"p.lead"})
*/
package cssparser
