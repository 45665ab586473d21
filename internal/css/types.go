package css

import (
	"cmp"
	"errors"
	"fmt"
)

var (
	// ErrEmptyValue is returned when a value is empty after stripping
	// the trailing semicolon and the !important marker.
	ErrEmptyValue = errors.New("value is empty")

	// ErrNoSuchProperty is returned when replacing a property that is not declared.
	ErrNoSuchProperty = errors.New("property does not exist")

	// ErrNotRuleSet is returned by MergeAny for arguments that are not rule sets.
	ErrNotRuleSet = errors.New("all parameters must be rule sets")

	// ErrDimensionCount is returned when a dimension shorthand does not hold 1 to 4 values.
	ErrDimensionCount = errors.New("cannot parse dimension shorthand")

	// ErrSourceLocation is returned when a rule set gets a filename without an offset or vice versa.
	ErrSourceLocation = errors.New("require both offset and filename or no offset and no filename")
)

// Specificity is the (a, b, c) weight of a selector, ranked component by
// component. Important declarations rank above any selector weight.
type Specificity struct {
	IDs       int  // #id
	Classes   int  // .class, [attr], :pseudo-class
	Elements  int  // type, ::pseudo-element
	Important bool // declared !important
}

// Compare returns -1, 0 or 1 as s ranks below, equal to or above other.
func (s Specificity) Compare(other Specificity) int {
	if s.Important != other.Important {
		if s.Important {
			return 1
		}
		return -1
	}
	if c := cmp.Compare(s.IDs, other.IDs); c != 0 {
		return c
	}
	if c := cmp.Compare(s.Classes, other.Classes); c != 0 {
		return c
	}
	return cmp.Compare(s.Elements, other.Elements)
}

func (s Specificity) String() string {
	important := ""
	if s.Important {
		important = " !important"
	}
	return fmt.Sprintf("(%d,%d,%d)%s", s.IDs, s.Classes, s.Elements, important)
}

// SpecificityFromDigits splits an integer specificity back into its decimal
// digits, the inverse of the digit concatenation done by CalculateSpecificity.
// Everything above the hundreds is counted as IDs.
func SpecificityFromDigits(n int) Specificity {
	if n < 0 {
		n = 0
	}
	return Specificity{
		IDs:      n / 100,
		Classes:  (n / 10) % 10,
		Elements: n % 10,
	}
}

// Declaration is a single property/value pair as handed to Declarations.Replace.
// Value is raw text and may carry an !important marker; Important forces importance.
type Declaration struct {
	Property  string // CSS property name
	Value     string // CSS property value
	Important bool   // !important flag
}

// Offset is a byte range [Start, End) of a rule inside its source file.
type Offset struct {
	Start int
	End   int
}

func (o Offset) String() string {
	return fmt.Sprintf("%d..%d", o.Start, o.End)
}
