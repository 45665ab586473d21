package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cssparser/pkg/cssparser"
)

func newParser(t *testing.T) *cssparser.Parser {
	t.Helper()
	p := cssparser.NewWithDefaults()
	require.NoError(t, p.AddBlock(`
		p { color: red; margin: 0 }
		@media print { p { color: black } }
	`, cssparser.BlockOptions{}))
	return p
}

func TestRenderSheet(t *testing.T) {
	p := newParser(t)

	out, err := renderSheet(p, "css", []string{"print"})
	require.NoError(t, err)
	assert.Equal(t, "@media print {\n  p {\n    color: black;\n  }\n}\n", out)

	out, err = renderSheet(p, "json", nil)
	require.NoError(t, err)
	var decoded map[string]map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "black", decoded["print"]["p"]["color"])
	assert.Equal(t, "0", decoded["all"]["p"]["margin"])

	out, err = renderSheet(p, "tree", nil)
	require.NoError(t, err)
	assert.Contains(t, out, "@media print")
}

func TestRenderResolved(t *testing.T) {
	p := newParser(t)

	out, err := renderResolved(p, []string{"p"}, "css", []string{"all"})
	require.NoError(t, err)
	assert.Equal(t, "p { color: black; margin: 0 }\n", out)

	out, err = renderResolved(p, []string{"h1"}, "css", nil)
	require.NoError(t, err)
	assert.Equal(t, "h1 {  }\n", out)

	out, err = renderResolved(p, []string{"p"}, "json", []string{"print"})
	require.NoError(t, err)
	var decoded struct {
		Selectors    []string          `json:"selectors"`
		Declarations map[string]string `json:"declarations"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, []string{"p"}, decoded.Selectors)
	assert.Equal(t, map[string]string{"color": "black"}, decoded.Declarations)
}

func TestSplitMedia(t *testing.T) {
	assert.Nil(t, splitMedia(" "))
	assert.Equal(t, []string{"screen", "print and (color)"}, splitMedia("screen, print and (color)"))
}
