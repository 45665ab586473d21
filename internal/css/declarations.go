package css

import (
	"fmt"
	"strings"
)

// Declarations is an insertion-ordered map from property name to Value.
// Overwriting an existing property keeps its position.
type Declarations struct {
	keys   []string
	values map[string]Value
}

// NewDeclarations creates an empty declaration collection
func NewDeclarations() *Declarations {
	return &Declarations{values: make(map[string]Value)}
}

// Set stores a value under the normalized property name.
func (d *Declarations) Set(property string, value Value) {
	d.put(NormalizePropertyName(property), value)
}

// SetString parses raw and stores it under property. A blank raw value
// removes the property instead.
func (d *Declarations) SetString(property, raw string) error {
	property = NormalizePropertyName(property)
	if strings.TrimSpace(raw) == "" {
		d.Delete(property)
		return nil
	}
	v, err := NewValue(raw)
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", property, err)
	}
	d.put(property, v)
	return nil
}

func (d *Declarations) put(property string, value Value) {
	if d.values == nil {
		d.values = make(map[string]Value)
	}
	if _, ok := d.values[property]; !ok {
		d.keys = append(d.keys, property)
	}
	d.values[property] = value
}

// Get returns the value stored for property.
func (d *Declarations) Get(property string) (Value, bool) {
	v, ok := d.values[NormalizePropertyName(property)]
	return v, ok
}

// Has reports whether property is declared.
func (d *Declarations) Has(property string) bool {
	_, ok := d.values[NormalizePropertyName(property)]
	return ok
}

// Delete removes property if it is declared.
func (d *Declarations) Delete(property string) {
	property = NormalizePropertyName(property)
	if _, ok := d.values[property]; !ok {
		return
	}
	delete(d.values, property)
	if i := d.index(property); i >= 0 {
		d.keys = append(d.keys[:i], d.keys[i+1:]...)
	}
}

// Len returns the number of declared properties.
func (d *Declarations) Len() int {
	return len(d.keys)
}

// Keys returns the property names in declaration order.
func (d *Declarations) Keys() []string {
	return append([]string(nil), d.keys...)
}

// Each calls fn for every declaration in order.
func (d *Declarations) Each(fn func(property string, value Value)) {
	for _, k := range d.Keys() {
		fn(k, d.values[k])
	}
}

// Clone returns an independent copy.
func (d *Declarations) Clone() *Declarations {
	c := &Declarations{
		keys:   append([]string(nil), d.keys...),
		values: make(map[string]Value, len(d.values)),
	}
	for k, v := range d.values {
		c.values[k] = v
	}
	return c
}

// Equal reports whether both collections hold the same properties in
// the same order with equal values.
func (d *Declarations) Equal(other *Declarations) bool {
	if other == nil || len(d.keys) != len(other.keys) {
		return false
	}
	for i, k := range d.keys {
		if other.keys[i] != k || d.values[k] != other.values[k] {
			return false
		}
	}
	return true
}

func (d *Declarations) index(property string) int {
	for i, k := range d.keys {
		if k == property {
			return i
		}
	}
	return -1
}

// Replace substitutes property with the given replacements at the same
// position. Replacements with blank values are skipped. When
// preserveImportance is set, every replacement takes the importance of
// the replaced property.
//
// A replacement whose property is already declared wins if it is
// !important and the existing one is not (the existing entry moves to the
// replacement position), or if both share the same importance and the
// existing entry comes before property (the existing entry keeps its
// position). An !important existing entry always survives.
func (d *Declarations) Replace(property string, replacements []Declaration, preserveImportance bool) error {
	property = NormalizePropertyName(property)
	target, ok := d.values[property]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchProperty, property)
	}

	sub := NewDeclarations()
	for _, r := range replacements {
		if strings.TrimSpace(r.Value) == "" {
			continue
		}
		v, err := NewValue(r.Value)
		if err != nil {
			return fmt.Errorf("failed to replace %s: %w", property, err)
		}
		if r.Important {
			v = v.WithImportant(true)
		}
		if preserveImportance {
			v = v.WithImportant(target.important)
		}
		sub.Set(r.Property, v)
	}

	keys := append([]string(nil), d.keys...)
	at := d.index(property)
	winners := NewDeclarations()
	for _, key := range sub.keys {
		repl := sub.values[key]
		existing, ok := d.values[key]
		switch {
		case !ok:
			winners.put(key, repl)
		case repl.important && !existing.important:
			winners.put(key, repl)
			for i, k := range keys {
				if k == key {
					keys = append(keys[:i], keys[i+1:]...)
					if i < at {
						at--
					}
					break
				}
			}
		case existing.important && !repl.important:
			// existing wins
		default:
			for i, k := range keys {
				if k == key {
					if i < at {
						winners.put(key, repl)
					}
					break
				}
			}
		}
	}
	if winners.Len() == 0 {
		tracer().Debugf("no replacement for %s survived, keeping it", property)
		return nil
	}

	seq := make([]string, 0, len(keys)+winners.Len())
	seq = append(seq, keys[:at]...)
	seq = append(seq, winners.keys...)
	seq = append(seq, keys[at+1:]...)

	result := NewDeclarations()
	for _, k := range seq {
		if result.Has(k) {
			continue
		}
		v, ok := winners.values[k]
		if !ok {
			v = d.values[k]
		}
		result.put(k, v)
	}
	d.keys, d.values = result.keys, result.values
	return nil
}

// String renders the declarations as "prop: value; prop: value !important;".
func (d *Declarations) String() string {
	return d.render(false)
}

// StringImportant renders the declarations, marking every value !important
// when force is set.
func (d *Declarations) StringImportant(force bool) string {
	return d.render(force)
}

func (d *Declarations) render(forceImportant bool) string {
	var b strings.Builder
	for _, k := range d.keys {
		v := d.values[k]
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(v.text)
		if forceImportant || v.important {
			b.WriteString(" !important")
		}
		b.WriteString("; ")
	}
	return strings.TrimSpace(b.String())
}
