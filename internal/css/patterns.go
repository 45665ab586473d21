package css

import (
	"regexp"
	"strings"
)

const (
	lengthUnits = `(e[mx]+|px|[cm]+m|p[tc+]|in|%)`
	number      = `(-*([0-9]+|[0-9]*\.[0-9]+))`
	lengthOrPct = `([\-]*(([0-9]*\.[0-9]+)|[0-9]+)` + lengthUnits + `)`
)

var namedColours = []string{
	"aliceblue", "antiquewhite", "aqua", "aquamarine", "azure", "beige", "bisque", "black",
	"blanchedalmond", "blue", "blueviolet", "brown", "burlywood", "cadetblue", "chartreuse",
	"chocolate", "coral", "cornflowerblue", "cornsilk", "crimson", "cyan", "darkblue",
	"darkcyan", "darkgoldenrod", "darkgray", "darkgreen", "darkgrey", "darkkhaki",
	"darkmagenta", "darkolivegreen", "darkorange", "darkorchid", "darkred", "darksalmon",
	"darkseagreen", "darkslateblue", "darkslategray", "darkslategrey", "darkturquoise",
	"darkviolet", "deeppink", "deepskyblue", "dimgray", "dimgrey", "dodgerblue", "firebrick",
	"floralwhite", "forestgreen", "fuchsia", "gainsboro", "ghostwhite", "gold", "goldenrod",
	"gray", "green", "greenyellow", "grey", "honeydew", "hotpink", "indianred", "indigo",
	"ivory", "khaki", "lavender", "lavenderblush", "lawngreen", "lemonchiffon", "lightblue",
	"lightcoral", "lightcyan", "lightgoldenrodyellow", "lightgray", "lightgreen", "lightgrey",
	"lightpink", "lightsalmon", "lightseagreen", "lightskyblue", "lightslategray",
	"lightslategrey", "lightsteelblue", "lightyellow", "lime", "limegreen", "linen",
	"magenta", "maroon", "mediumaquamarine", "mediumblue", "mediumorchid", "mediumpurple",
	"mediumseagreen", "mediumslateblue", "mediumspringgreen", "mediumturquoise",
	"mediumvioletred", "midnightblue", "mintcream", "mistyrose", "moccasin", "navajowhite",
	"navy", "oldlace", "olive", "olivedrab", "orange", "orangered", "orchid", "palegoldenrod",
	"palegreen", "paleturquoise", "palevioletred", "papayawhip", "peachpuff", "peru", "pink",
	"plum", "powderblue", "purple", "rebeccapurple", "red", "rosybrown", "royalblue",
	"saddlebrown", "salmon", "sandybrown", "seagreen", "seashell", "sienna", "silver",
	"skyblue", "slateblue", "slategray", "slategrey", "snow", "springgreen", "steelblue",
	"tan", "teal", "thistle", "tomato", "transparent", "turquoise", "violet", "wheat", "white",
	"whitesmoke", "yellow", "yellowgreen",
}

var (
	boxModelUnitsRegex = regexp.MustCompile(`(?i)(auto|inherit|0|(` + number +
		`(rem|vw|vh|vm|vmin|vmax|e[mx]+|px|[cm]+m|p[tc+]|in|%)))([\s;]|$)`)
	borderUnitsRegex = union(boxModelUnitsRegex, regexp.MustCompile(`(?i)(thin|medium|thick)`))
	borderStyleRegex = regexp.MustCompile(`(?i)(none|hidden|dotted|dashed|solid|double|dot-dash|dot-dot-dash|wave|groove|ridge|inset|outset)`)

	fontUnitsRegex = regexp.MustCompile(`(?i)((x+-)*small|medium|larger*|(x+-)*large|(` + number + lengthUnits + `))`)
	fontTokenRegex = regexp.MustCompile(`"(?:.*[^"])"|'(?:.*[^'])'|(?:\w[^ ,]+)`)
	fontSlashRegex = regexp.MustCompile(`/\s+`)

	colourNumericRegex = regexp.MustCompile(`(?i)\b(hsl|rgb)\s*\(` +
		component + `,` + component + `,` + component + `\)`)
	colourNumericAlphaRegex = regexp.MustCompile(`(?i)\b(hsla|rgba)\s*\(` +
		component + `,` + component + `,` + component + `,` + component + `\)`)
	colourHexRegex   = regexp.MustCompile(`\s*#([0-9a-fA-F]{6}|[0-9a-fA-F]{3})\b`)
	colourNamedRegex = regexp.MustCompile(`(?i)\s*\b(` + strings.Join(namedColours, "|") + `)\b`)
	colourRegex      = union(colourNumericRegex, colourNumericAlphaRegex, colourHexRegex, colourNamedRegex)
	colourCommaRegex = regexp.MustCompile(`\s*,\s*`)

	uriRegex       = regexp.MustCompile(`(?is)url\(("([^"]*)"|'([^']*)'|([^)]*))\)`)
	uriOrNoneRegex = union(uriRegex, regexp.MustCompile(`(?i)none`))
	gradientRegex  = regexp.MustCompile(`(?is)[-a-z]*gradient\([-a-z0-9 .,#%()]*\)`)
	imageRegex     = union(uriRegex, gradientRegex, regexp.MustCompile(`(?i)none`))

	inheritRegex            = regexp.MustCompile(`(?i)inherit`)
	scrollFixedRegex        = regexp.MustCompile(`(?i)(scroll|fixed)`)
	repeatRegex             = regexp.MustCompile(`(?i)(repeat(-x|-y)*|no-repeat)`)
	backgroundPositionRegex = regexp.MustCompile(`(?i)((` + lengthOrPct + `|left|center|right|top|bottom)\s*){1,2}`)
	backgroundSizeRegex     = regexp.MustCompile(`(?i)\s*/\s*((` + lengthOrPct + `|auto|cover|contain|initial|inherit)\s*){1,2}`)
	leadingSlashRegex       = regexp.MustCompile(`^\s*/\s*`)

	insideOutsideRegex = regexp.MustCompile(`(?i)(inside|outside)`)
	listStyleTypeRegex = regexp.MustCompile(`(?i)(disc|circle|square|decimal-leading-zero|decimal|lower-roman|` +
		`upper-roman|lower-greek|lower-alpha|lower-latin|upper-alpha|upper-latin|hebrew|armenian|` +
		`georgian|cjk-ideographic|hiragana|hira-gana-iroha|katakana-iroha|katakana|none)`)

	whitespaceRegex      = regexp.MustCompile(`\s+`)
	commaWhitespaceRegex = regexp.MustCompile(`,\s`)
)

const component = `-?\s*-?\d+(\.\d+)?%?\s*%?`

// union combines patterns into one alternation, tried left to right.
func union(rxs ...*regexp.Regexp) *regexp.Regexp {
	parts := make([]string, len(rxs))
	for i, rx := range rxs {
		parts[i] = "(?:" + rx.String() + ")"
	}
	return regexp.MustCompile(strings.Join(parts, "|"))
}

// extract removes the leftmost match of rx from value. It returns the
// trimmed match and the remainder; the match is empty if rx does not match.
func extract(rx *regexp.Regexp, value string) (match, rest string) {
	loc := rx.FindStringIndex(value)
	if loc == nil {
		return "", value
	}
	return strings.TrimSpace(value[loc[0]:loc[1]]), value[:loc[0]] + value[loc[1]:]
}

// valueCursor walks over a shorthand value, consuming one component at a time.
type valueCursor struct {
	rest string
}

// take consumes the leftmost match of rx.
func (c *valueCursor) take(rx *regexp.Regexp) string {
	var m string
	m, c.rest = extract(rx, c.rest)
	return m
}

// splitOutsideFunctions splits value on whitespace that is not nested
// inside parentheses, so "calc(1em / 4) 2px" yields two tokens.
func splitOutsideFunctions(value string) []string {
	var tokens []string
	var current strings.Builder
	depth := 0
	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	for _, r := range value {
		switch {
		case r == '(':
			depth++
			current.WriteRune(r)
		case r == ')' && depth > 0:
			depth--
			current.WriteRune(r)
		case depth == 0 && (r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f'):
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return tokens
}
