package css

import (
	"fmt"
	"strings"
)

var (
	backgroundProperties = []string{
		"background-color", "background-image", "background-repeat",
		"background-position", "background-size", "background-attachment",
	}
	listStyleProperties   = []string{"list-style-type", "list-style-position", "list-style-image"}
	fontProperties        = []string{"font-style", "font-variant", "font-weight", "font-size", "line-height", "font-family"}
	borderProperties      = []string{"border", "border-left", "border-right", "border-top", "border-bottom"}
	borderStyleProperties = []string{"border-width", "border-style", "border-color"}

	dimensionProperties = [][2]string{
		{"margin", "margin-%s"},
		{"padding", "padding-%s"},
		{"border-color", "border-%s-color"},
		{"border-style", "border-%s-style"},
		{"border-width", "border-%s-width"},
	}
	sides = []string{"top", "right", "bottom", "left"}

	systemFonts = map[string]bool{
		"caption": true, "icon": true, "menu": true,
		"message-box": true, "small-caption": true, "status-bar": true,
	}
)

// ExpandShorthand splits every shorthand property into its longhands,
// in the order border, dimensions, font, background, list-style. Border
// comes first so that the border-width, border-color and border-style it
// yields are split into their four sides.
func (rs *RuleSet) ExpandShorthand() error {
	rs.ExpandBorderShorthand()
	if err := rs.ExpandDimensionsShorthand(); err != nil {
		return err
	}
	rs.ExpandFontShorthand()
	rs.ExpandBackgroundShorthand()
	rs.ExpandListStyleShorthand()
	return nil
}

// CreateShorthand folds longhands back into shorthands, in the order
// background, dimensions, border, font, list-style.
func (rs *RuleSet) CreateShorthand() {
	rs.CreateBackgroundShorthand()
	rs.CreateDimensionsShorthand()
	rs.CreateBorderShorthand()
	rs.CreateFontShorthand()
	rs.CreateListStyleShorthand()
}

func (rs *RuleSet) replace(property string, replacements []Declaration) {
	if err := rs.declarations.Replace(property, replacements, true); err != nil {
		tracer().Errorf("failed to expand %s: %v", property, err)
	}
}

// ExpandBorderShorthand splits border and border-{side} into width, colour and style.
func (rs *RuleSet) ExpandBorderShorthand() {
	for _, property := range borderProperties {
		v, ok := rs.declarations.Get(property)
		if !ok {
			continue
		}
		c := valueCursor{rest: v.text}
		width := c.take(borderUnitsRegex)
		colour := c.take(colourRegex)
		style := c.take(borderStyleRegex)
		rs.replace(property, []Declaration{
			{Property: property + "-width", Value: width},
			{Property: property + "-color", Value: colour},
			{Property: property + "-style", Value: style},
		})
	}
}

// ExpandDimensionsShorthand splits margin, padding, border-color,
// border-style and border-width into their four sides.
func (rs *RuleSet) ExpandDimensionsShorthand() error {
	for _, dim := range dimensionProperties {
		property := dim[0]
		v, ok := rs.declarations.Get(property)
		if !ok {
			continue
		}
		value := colourRegex.ReplaceAllStringFunc(v.text, func(c string) string {
			return colourCommaRegex.ReplaceAllString(c, ",")
		})
		tokens := splitOutsideFunctions(value)

		var t, r, b, l string
		switch len(tokens) {
		case 1:
			t, r, b, l = tokens[0], tokens[0], tokens[0], tokens[0]
		case 2:
			t, r, b, l = tokens[0], tokens[1], tokens[0], tokens[1]
		case 3:
			t, r, b, l = tokens[0], tokens[1], tokens[2], tokens[1]
		case 4:
			t, r, b, l = tokens[0], tokens[1], tokens[2], tokens[3]
		default:
			return fmt.Errorf("%w: %s: %s", ErrDimensionCount, property, v.text)
		}
		rs.replace(property, []Declaration{
			{Property: fmt.Sprintf(dim[1], "top"), Value: t},
			{Property: fmt.Sprintf(dim[1], "right"), Value: r},
			{Property: fmt.Sprintf(dim[1], "bottom"), Value: b},
			{Property: fmt.Sprintf(dim[1], "left"), Value: l},
		})
	}
	return nil
}

// ExpandFontShorthand splits font into style, variant, weight, size,
// line-height and family. System fonts are left alone.
func (rs *RuleSet) ExpandFontShorthand() {
	v, ok := rs.declarations.Get("font")
	if !ok {
		return
	}
	value := strings.TrimSpace(v.text)
	if systemFonts[strings.ToLower(value)] {
		return
	}
	value = fontSlashRegex.ReplaceAllString(value, "/")

	props := map[string]string{
		"font-style": "normal", "font-variant": "normal", "font-weight": "normal",
		"font-size": "normal", "line-height": "normal",
	}
	filled := map[string]bool{}
	var families []string
	inFonts := false

	for _, m := range fontTokenRegex.FindAllString(value, -1) {
		m = strings.TrimSpace(m)
		lower := strings.ToLower(m)
		switch {
		case inFonts:
			families = append(families, m)
		case strings.Contains(lower, "normal") || strings.Contains(lower, "inherit"):
			for _, p := range []string{"font-style", "font-weight", "font-variant"} {
				if !filled[p] {
					props[p] = m
					filled[p] = true
				}
			}
		case strings.Contains(lower, "italic") || strings.Contains(lower, "oblique"):
			props["font-style"] = m
			filled["font-style"] = true
		case strings.Contains(lower, "small-caps"):
			props["font-variant"] = m
			filled["font-variant"] = true
		case isFontWeight(lower):
			props["font-weight"] = m
			filled["font-weight"] = true
		case fontUnitsRegex.MatchString(m):
			if size, lh, ok := strings.Cut(m, "/"); ok {
				props["font-size"] = size
				props["line-height"] = lh
			} else {
				props["font-size"] = m
			}
			inFonts = true
		}
	}

	replacements := make([]Declaration, 0, len(fontProperties))
	for _, p := range fontProperties[:5] {
		replacements = append(replacements, Declaration{Property: p, Value: props[p]})
	}
	if len(families) > 0 {
		replacements = append(replacements, Declaration{Property: "font-family", Value: strings.Join(families, ",")})
	}
	rs.replace("font", replacements)
}

func isFontWeight(token string) bool {
	if len(token) >= 3 && strings.HasSuffix(token, "00") {
		if c := token[len(token)-3]; c >= '1' && c <= '9' {
			return true
		}
	}
	return strings.Contains(token, "bold") || strings.Contains(token, "lighter")
}

// ExpandBackgroundShorthand splits background into its longhands. An
// inherit anywhere in the value makes every longhand inherit.
func (rs *RuleSet) ExpandBackgroundShorthand() {
	v, ok := rs.declarations.Get("background")
	if !ok {
		return
	}
	if inheritRegex.MatchString(v.text) {
		rs.replace("background", fanOut(backgroundProperties, "inherit"))
		return
	}
	c := valueCursor{rest: v.text}
	image := c.take(imageRegex)
	attachment := c.take(scrollFixedRegex)
	repeat := c.take(repeatRegex)
	colour := c.take(colourRegex)
	size := leadingSlashRegex.ReplaceAllString(c.take(backgroundSizeRegex), "")
	position := c.take(backgroundPositionRegex)

	rs.replace("background", []Declaration{
		{Property: "background-image", Value: image},
		{Property: "background-attachment", Value: attachment},
		{Property: "background-repeat", Value: repeat},
		{Property: "background-color", Value: colour},
		{Property: "background-size", Value: size},
		{Property: "background-position", Value: position},
	})
}

// ExpandListStyleShorthand splits list-style into type, position and image.
func (rs *RuleSet) ExpandListStyleShorthand() {
	v, ok := rs.declarations.Get("list-style")
	if !ok {
		return
	}
	if inheritRegex.MatchString(v.text) {
		rs.replace("list-style", fanOut(listStyleProperties, "inherit"))
		return
	}
	c := valueCursor{rest: v.text}
	kind := c.take(listStyleTypeRegex)
	position := c.take(insideOutsideRegex)
	image := c.take(uriOrNoneRegex)
	rs.replace("list-style", []Declaration{
		{Property: "list-style-type", Value: kind},
		{Property: "list-style-position", Value: position},
		{Property: "list-style-image", Value: image},
	})
}

func fanOut(properties []string, value string) []Declaration {
	out := make([]Declaration, len(properties))
	for i, p := range properties {
		out[i] = Declaration{Property: p, Value: value}
	}
	return out
}

// createShorthandProperty collapses the non-important longhands present
// into shorthand, provided at least two of them are declared.
func (rs *RuleSet) createShorthandProperty(shorthand string, longhands []string) {
	var values, collapsed []string
	for _, p := range longhands {
		v, ok := rs.declarations.Get(p)
		if !ok || v.important {
			continue
		}
		values = append(values, v.text)
		collapsed = append(collapsed, p)
	}
	if len(values) <= 1 {
		return
	}
	for _, p := range collapsed {
		rs.declarations.Delete(p)
	}
	rs.declarations.put(shorthand, Value{text: strings.Join(values, " ")})
}

// CreateBackgroundShorthand folds background longhands into background.
// A background-size needs a position in front of it, so 0% 0% is
// supplied when none is declared.
func (rs *RuleSet) CreateBackgroundShorthand() {
	if size, ok := rs.declarations.Get("background-size"); ok && !size.important {
		pos, hasPos := rs.declarations.Get("background-position")
		if !hasPos || !pos.important {
			if !hasPos {
				rs.declarations.put("background-position", Value{text: "0% 0%"})
			}
			rs.declarations.put("background-size", Value{text: "/ " + size.text})
		}
	}
	rs.createShorthandProperty("background", backgroundProperties)
}

// CreateListStyleShorthand folds list-style longhands into list-style.
func (rs *RuleSet) CreateListStyleShorthand() {
	rs.createShorthandProperty("list-style", listStyleProperties)
}

// CreateDimensionsShorthand folds the four sides of margin, padding,
// border-color, border-style and border-width into one property when
// all four are declared with the same importance. A shorthand carries a
// single !important flag, so sides of mixed importance stay longhands.
func (rs *RuleSet) CreateDimensionsShorthand() {
	if rs.declarations.Len() < 4 {
		return
	}
	for _, dim := range dimensionProperties {
		values := make(map[string]string, 4)
		important := false
		complete := true
		for i, side := range sides {
			v, ok := rs.declarations.Get(fmt.Sprintf(dim[1], side))
			if !ok || (i > 0 && v.important != important) {
				complete = false
				break
			}
			important = v.important
			values[side] = v.text
		}
		if !complete {
			continue
		}
		folded := foldDimensions(values["top"], values["right"], values["bottom"], values["left"])
		for _, side := range sides {
			rs.declarations.Delete(fmt.Sprintf(dim[1], side))
		}
		rs.declarations.put(dim[0], Value{text: folded, important: important})
	}
}

func foldDimensions(top, right, bottom, left string) string {
	switch {
	case top == right && right == bottom && bottom == left:
		return top
	case left != right:
		return strings.Join([]string{top, right, bottom, left}, " ")
	case top == bottom:
		return top + " " + left
	default:
		return strings.Join([]string{top, left, bottom}, " ")
	}
}

// CreateBorderShorthand folds border-width, border-style and border-color
// into border. Nothing happens if any of them is !important or holds more
// than one value.
func (rs *RuleSet) CreateBorderShorthand() {
	values := make([]string, 0, len(borderStyleProperties))
	for _, p := range borderStyleProperties {
		v, ok := rs.declarations.Get(p)
		if !ok || v.important {
			return
		}
		text := commaWhitespaceRegex.ReplaceAllString(v.text, ",")
		if whitespaceRegex.MatchString(text) {
			return
		}
		values = append(values, text)
	}
	for _, p := range borderStyleProperties {
		rs.declarations.Delete(p)
	}
	rs.declarations.put("border", Value{text: strings.Join(values, " ")})
}

// CreateFontShorthand folds the six font longhands into font when all
// of them are declared with the same importance. Mixed importance keeps
// the longhands, since font can only be !important as a whole.
func (rs *RuleSet) CreateFontShorthand() {
	values := make(map[string]string, len(fontProperties))
	important := false
	for i, p := range fontProperties {
		v, ok := rs.declarations.Get(p)
		if !ok || (i > 0 && v.important != important) {
			return
		}
		important = v.important
		values[p] = v.text
	}

	var b strings.Builder
	for _, p := range []string{"font-style", "font-variant", "font-weight"} {
		if values[p] != "normal" {
			b.WriteString(values[p])
			b.WriteString(" ")
		}
	}
	b.WriteString(values["font-size"])
	if values["line-height"] != "normal" {
		b.WriteString("/")
		b.WriteString(values["line-height"])
	}
	b.WriteString(" ")
	b.WriteString(values["font-family"])

	for _, p := range fontProperties {
		rs.declarations.Delete(p)
	}
	folded := strings.TrimSpace(whitespaceRegex.ReplaceAllString(b.String(), " "))
	rs.declarations.put("font", Value{text: folded, important: important})
}
