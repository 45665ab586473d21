package cssparser

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cssparser/internal/config"
)

const page = `<!DOCTYPE html>
<html>
<head>
  <link rel="stylesheet" href="/css/base.css">
  <style>p { color: red }</style>
  <link rel="stylesheet" href="print.css" media="print">
</head>
<body><p>hello</p></body>
</html>`

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	sheets := map[string]string{
		"/css/base.css": "p { color: blue; margin: 0 }",
		"/print.css":    "p { color: black }",
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		src, ok := sheets[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/css")
		_, _ = w.Write([]byte(src))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoadHTML(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssparser.loader")
	defer teardown()

	srv := newServer(t)
	p := NewWithDefaults()
	require.NoError(t, p.LoadHTML(page, BlockOptions{BaseURI: srv.URL + "/index.html"}))

	assert.Equal(t, []string{srv.URL + "/css/base.css", srv.URL + "/print.css"}, p.LoadedURIs())
	assert.Equal(t, []string{"color: blue; margin: 0;", "color: red;", "color: black;"}, p.FindBySelector("p"))

	styles, err := p.ResolveStyles([]string{"p"})
	require.NoError(t, err)
	assert.Equal(t, "color: black; margin: 0", styles)

	styles, err = p.ResolveStyles([]string{"p"}, "print")
	require.NoError(t, err)
	assert.Equal(t, "color: black", styles)

	assert.Equal(t, Stats{RuleSets: 3, Selectors: 3, MediaQueries: 2, LoadedURIs: 2}, p.Stats())
}

func TestLoadHTMLBaseHref(t *testing.T) {
	srv := newServer(t)
	doc := `<html><head><base href="` + srv.URL + `/css/"><link rel="stylesheet" href="base.css"></head></html>`

	p := NewWithDefaults()
	require.NoError(t, p.LoadHTML(doc, BlockOptions{}))
	assert.Equal(t, []string{"color: blue; margin: 0;"}, p.FindBySelector("p"))
}

func TestLoadHTMLMissingLink(t *testing.T) {
	srv := newServer(t)
	doc := `<link rel="stylesheet" href="/nope.css"><style>p { color: red }</style>`

	p := NewWithDefaults()
	err := p.LoadHTML(doc, BlockOptions{BaseURI: srv.URL + "/"})
	assert.True(t, errors.Is(err, ErrRemoteFile))

	cfg := DefaultConfig()
	cfg.IOErrors = false
	p = New(cfg)
	require.NoError(t, p.LoadHTML(doc, BlockOptions{BaseURI: srv.URL + "/"}))
	assert.Equal(t, []string{"color: red;"}, p.FindBySelector("p"))
}

func TestLoadHTMLFile(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"page.html": `<html><head><link rel="stylesheet" href="style.css"></head></html>`,
		"style.css": "@import \"more.css\";\nh1 { font-size: 2em }",
		"more.css":  "h1 { color: navy }",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	p := NewWithDefaults()
	require.NoError(t, p.LoadHTMLFile(filepath.Join(dir, "page.html"), BlockOptions{}))
	assert.Equal(t, []string{"color: navy;", "font-size: 2em;"}, p.FindBySelector("h1"))
	assert.Len(t, p.LoadedURIs(), 2)
}

func TestExpandShorthands(t *testing.T) {
	p := NewWithDefaults()
	require.NoError(t, p.AddBlock("p { margin: 1px 2px }", BlockOptions{}))
	require.NoError(t, p.ExpandShorthands())

	decls := p.FindBySelector("p")
	require.Len(t, decls, 1)
	assert.Contains(t, decls[0], "margin-left: 2px;")
	assert.Contains(t, decls[0], "margin-bottom: 1px;")
	assert.NotContains(t, decls[0], "margin:")
}

func TestAddRuleErrors(t *testing.T) {
	p := NewWithDefaults()
	err := p.AddRule("p", "color: ")
	assert.True(t, errors.Is(err, ErrEmptyValue))

	cfg := DefaultConfig()
	cfg.RuleSetErrors = false
	p = New(cfg)
	assert.NoError(t, p.AddRule("p", "color: "))
}

func TestMergeModes(t *testing.T) {
	p := NewWithDefaults()
	require.NoError(t, p.AddBlock("#x { color: blue } .a.b.c.d.e.f.g.h.i.j { color: red }", BlockOptions{}))
	rulesets := p.FindRuleSets([]string{"#x", ".a.b.c.d.e.f.g.h.i.j"})
	require.Len(t, rulesets, 2)

	merged, err := p.Merge(rulesets...)
	require.NoError(t, err)
	assert.Equal(t, "red;", merged.GetValue("color"))

	cfg := DefaultConfig()
	cfg.SpecificityMode = config.SpecificityTuple
	merged, err = New(cfg).Merge(rulesets...)
	require.NoError(t, err)
	assert.Equal(t, "blue;", merged.GetValue("color"))

	merged, err = Merge(rulesets...)
	require.NoError(t, err)
	assert.Equal(t, "red;", merged.GetValue("color"))
}

func TestCalculateSpecificity(t *testing.T) {
	assert.Equal(t, 100, CalculateSpecificity("#x"))
	assert.Equal(t, 11, CalculateSpecificity("p.lead"))
}
