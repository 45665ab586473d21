package scanner

import (
	"errors"
	"fmt"
)

var (
	// ErrSelectorEnd is reported when input ends inside a selector.
	ErrSelectorEnd = errors.New("could not find end of selector")
	// ErrPropertiesEnd is reported when input ends inside a property block.
	ErrPropertiesEnd = errors.New("could not find end of properties")
	// ErrBlockEnd is reported when input ends inside an at-rule block.
	ErrBlockEnd = errors.New("could not find end of block")
	// ErrMalformedEscape is reported for an escaped quote inside a property block.
	ErrMalformedEscape = errors.New("malformed escape in properties")
)

// ScanError records where scanning failed.
type ScanError struct {
	Err    error
	Offset int
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("%v at offset %d", e.Err, e.Offset)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// Node is a top level stylesheet node, either *StyleRule or *AtRule.
type Node interface {
	// Span returns the byte range [start, end) of the node in the input.
	Span() (int, int)
	node()
}

// StyleRule is "selector { properties }".
type StyleRule struct {
	Selector   string
	Properties string
	Start, End int
}

// Span is part of interface Node.
func (r *StyleRule) Span() (int, int) { return r.Start, r.End }
func (r *StyleRule) node()            {}

// AtRule is "@name prelude;" or "@name prelude { block }".
// BlockStart is the offset of Block within the input.
type AtRule struct {
	Name       string
	Prelude    string
	Block      string
	HasBlock   bool
	BlockStart int
	Start, End int
}

// Span is part of interface Node.
func (r *AtRule) Span() (int, int) { return r.Start, r.End }
func (r *AtRule) node()            {}
