package css

import (
	"regexp"
	"strings"
)

var (
	importantInPropertyRegex = regexp.MustCompile(`(?i)\s*!important\b\s*`)
	trailingSemicolonRegex   = regexp.MustCompile(`\s*;\s*$`)
)

// Value is a single property value with an importance flag.
// The zero Value is not valid; use NewValue.
type Value struct {
	text      string
	important bool
}

// NewValue parses raw value text. A trailing semicolon is dropped and an
// !important marker sets the importance flag. Empty values are rejected.
func NewValue(raw string) (Value, error) {
	var v Value
	if err := v.Set(raw); err != nil {
		return Value{}, err
	}
	return v, nil
}

// NewValueImportance parses raw value text like NewValue but forces the
// importance flag to the given value.
func NewValueImportance(raw string, important bool) (Value, error) {
	v, err := NewValue(raw)
	if err != nil {
		return Value{}, err
	}
	v.important = important
	return v, nil
}

// Set replaces the value text, re-detecting importance.
func (v *Value) Set(raw string) error {
	text := trailingSemicolonRegex.ReplaceAllString(raw, "")
	important := false
	if loc := importantInPropertyRegex.FindStringIndex(text); loc != nil {
		important = true
		text = text[:loc[0]] + text[loc[1]:]
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyValue
	}
	v.text = text
	v.important = important
	return nil
}

// Text returns the value without importance marker.
func (v Value) Text() string {
	return v.text
}

// Important reports whether the value was declared !important.
func (v Value) Important() bool {
	return v.important
}

// WithImportant returns a copy of v with the given importance.
func (v Value) WithImportant(important bool) Value {
	v.important = important
	return v
}

func (v Value) String() string {
	if v.important {
		return v.text + " !important"
	}
	return v.text
}
