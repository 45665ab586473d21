package loader

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cssparser/internal/config"
	"cssparser/internal/stylesheet"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

var importFixtures = map[string]string{
	"import1.css":          "@import \"subdir/import2.css\";\n\ndiv { color: lime; }\n",
	"subdir/import2.css":   "@import \"../simple.css\";\n\na { text-decoration: none; }\n",
	"simple.css":           "p { margin: 0px; }\n",
	"import-media.css":     "@import \"simple.css\" screen;\n",
	"import-circular1.css": "@import \"import-circular2.css\";\n",
	"import-circular2.css": "@import \"import-circular1.css\";\n",
}

func newLoader(cfg config.Config) (*Loader, *stylesheet.Stylesheet) {
	sheet := stylesheet.New(cfg)
	return New(cfg, sheet), sheet
}

func joined(sheet *stylesheet.Stylesheet, selector string, media ...string) string {
	return strings.Join(sheet.FindBySelector(selector, media...), " ")
}

func TestLoadString(t *testing.T) {
	l, sheet := newLoader(config.Default())
	require.NoError(t, l.LoadString("p{margin:0px}", stylesheet.BlockOptions{}))
	assert.Equal(t, "margin: 0px;", joined(sheet, "p"))
}

func TestLoadFileFollowsImports(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssparser.loader")
	defer teardown()

	dir := writeFiles(t, importFixtures)
	l, sheet := newLoader(config.Default())
	require.NoError(t, l.LoadFile("import1.css", stylesheet.BlockOptions{BaseDir: dir}))

	assert.Equal(t, "color: lime;", joined(sheet, "div"))
	assert.Equal(t, "text-decoration: none;", joined(sheet, "a"))
	assert.Equal(t, "margin: 0px;", joined(sheet, "p"))
	assert.Len(t, l.LoadedURIs(), 3)
	assert.Equal(t, filepath.Join(dir, "simple.css"), l.LoadedURIs()[2])
}

func TestLoadFileImportsDisabled(t *testing.T) {
	dir := writeFiles(t, importFixtures)
	cfg := config.Default()
	cfg.Import = false
	l, sheet := newLoader(cfg)
	require.NoError(t, l.LoadFile(filepath.Join(dir, "import1.css"), stylesheet.BlockOptions{}))

	assert.Equal(t, "color: lime;", joined(sheet, "div"))
	assert.Empty(t, joined(sheet, "a"))
	assert.Empty(t, joined(sheet, "p"))
}

func TestLoadFileImportMediaTypes(t *testing.T) {
	dir := writeFiles(t, importFixtures)
	l, sheet := newLoader(config.Default())
	require.NoError(t, l.LoadFile("import-media.css", stylesheet.BlockOptions{BaseDir: dir}))

	assert.Equal(t, "margin: 0px;", joined(sheet, "p", "screen"))
	assert.Empty(t, joined(sheet, "p", "tty"))
}

func TestLoadFileCapturesOffsets(t *testing.T) {
	dir := writeFiles(t, importFixtures)
	cfg := config.Default()
	cfg.CaptureOffsets = true
	l, sheet := newLoader(cfg)
	require.NoError(t, l.LoadFile("import1.css", stylesheet.BlockOptions{BaseDir: dir}))

	rules := sheet.FindRuleSets([]string{"div", "a", "p"})
	require.Len(t, rules, 3)

	file, offset := rules[0].Source()
	assert.Equal(t, filepath.Join(dir, "import1.css"), file)
	require.NotNil(t, offset)
	assert.Equal(t, 31, offset.Start)
	assert.Equal(t, 51, offset.End)

	file, offset = rules[2].Source()
	assert.Equal(t, filepath.Join(dir, "simple.css"), file)
	assert.Equal(t, 0, offset.Start)
	assert.Equal(t, 18, offset.End)
}

func TestLoadFileCircularReference(t *testing.T) {
	dir := writeFiles(t, importFixtures)
	l, _ := newLoader(config.Default())
	err := l.LoadFile("import-circular1.css", stylesheet.BlockOptions{BaseDir: dir})
	assert.ErrorIs(t, err, ErrCircularReference)

	cfg := config.Default()
	cfg.IOErrors = false
	l, _ = newLoader(cfg)
	assert.NoError(t, l.LoadFile("import-circular1.css", stylesheet.BlockOptions{BaseDir: dir}))
	assert.Len(t, l.LoadedURIs(), 2)
}

func TestLoadFileMissing(t *testing.T) {
	l, _ := newLoader(config.Default())
	err := l.LoadFile("no-such-file.css", stylesheet.BlockOptions{BaseDir: t.TempDir()})
	assert.ErrorIs(t, err, ErrRemoteFile)

	cfg := config.Default()
	cfg.IOErrors = false
	l, _ = newLoader(cfg)
	assert.NoError(t, l.LoadFile("no-such-file.css", stylesheet.BlockOptions{BaseDir: t.TempDir()}))
}

func TestLoadURIWithFileScheme(t *testing.T) {
	dir := writeFiles(t, importFixtures)
	l, sheet := newLoader(config.Default())
	uri := "file://" + filepath.ToSlash(filepath.Join(dir, "import1.css"))
	require.NoError(t, l.LoadURI(uri, stylesheet.BlockOptions{}))

	assert.Equal(t, "color: lime;", joined(sheet, "div"))
	assert.Equal(t, "margin: 0px;", joined(sheet, "p"))
	assert.Equal(t, uri, l.LoadedURIs()[0])
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	serve := func(path, body string) {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/css")
			fmt.Fprint(w, body)
		})
	}
	for name, content := range importFixtures {
		serve("/"+name, content)
	}
	mux.HandleFunc("/redirect301", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/simple.css", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/redirect307", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/simple.css", http.StatusTemporaryRedirect)
	})
	mux.HandleFunc("/loop/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, r.URL.Path+"x", http.StatusFound)
	})
	mux.HandleFunc("/gzip.css", func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		fmt.Fprint(gz, "p { color: gzip }")
		gz.Close()
		w.Header().Set("Content-Encoding", "gzip")
		w.Write(buf.Bytes())
	})
	mux.HandleFunc("/deflate.css", func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		zw := zlib.NewWriter(&buf)
		fmt.Fprint(zw, "p { color: deflate }")
		zw.Close()
		w.Header().Set("Content-Encoding", "deflate")
		w.Write(buf.Bytes())
	})
	mux.HandleFunc("/latin1.css", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/css; charset=iso-8859-1")
		w.Write([]byte("p { content: \"caf\xe9\" }"))
	})
	mux.HandleFunc("/agent.css", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "p { content: %q }", r.Header.Get("User-Agent"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLoadURIRemote(t *testing.T) {
	srv := newServer(t)
	l, sheet := newLoader(config.Default())
	require.NoError(t, l.LoadURI(srv.URL+"/simple.css", stylesheet.BlockOptions{}))
	assert.Equal(t, "margin: 0px;", joined(sheet, "p"))
}

func TestLoadURIFollowsImports(t *testing.T) {
	srv := newServer(t)
	l, sheet := newLoader(config.Default())
	require.NoError(t, l.LoadURI(srv.URL+"/import1.css", stylesheet.BlockOptions{}))

	assert.Equal(t, "color: lime;", joined(sheet, "div"))
	assert.Equal(t, "text-decoration: none;", joined(sheet, "a"))
	assert.Equal(t, "margin: 0px;", joined(sheet, "p"))
	assert.Equal(t, []string{
		srv.URL + "/import1.css",
		srv.URL + "/subdir/import2.css",
		srv.URL + "/simple.css",
	}, l.LoadedURIs())
}

func TestLoadBlockImportsRelativeToBaseURI(t *testing.T) {
	srv := newServer(t)
	l, sheet := newLoader(config.Default())
	require.NoError(t, l.LoadString(`@import "../simple.css";`, stylesheet.BlockOptions{BaseURI: srv.URL + "/subdir/"}))
	assert.Equal(t, "margin: 0px;", joined(sheet, "p"))
}

func TestLoadURIRedirects(t *testing.T) {
	srv := newServer(t)
	for _, path := range []string{"/redirect301", "/redirect307"} {
		l, sheet := newLoader(config.Default())
		require.NoError(t, l.LoadURI(srv.URL+path, stylesheet.BlockOptions{}), path)
		assert.Equal(t, "margin: 0px;", joined(sheet, "p"), path)
	}

	l, _ := newLoader(config.Default())
	err := l.LoadURI(srv.URL+"/loop/", stylesheet.BlockOptions{})
	assert.ErrorIs(t, err, ErrTooManyRedirects)
	assert.Len(t, l.LoadedURIs(), 4)
}

func TestLoadURIContentEncodingAndCharset(t *testing.T) {
	srv := newServer(t)
	l, sheet := newLoader(config.Default())
	require.NoError(t, l.LoadURI(srv.URL+"/gzip.css", stylesheet.BlockOptions{}))
	require.NoError(t, l.LoadURI(srv.URL+"/deflate.css", stylesheet.BlockOptions{}))
	require.NoError(t, l.LoadURI(srv.URL+"/latin1.css", stylesheet.BlockOptions{}))
	require.NoError(t, l.LoadURI(srv.URL+"/agent.css", stylesheet.BlockOptions{}))

	assert.Equal(t, []string{
		"color: gzip;",
		"color: deflate;",
		"content: \"café\";",
		fmt.Sprintf("content: %q;", config.UserAgent),
	}, sheet.FindBySelector("p"))
}

func TestLoadURINotFound(t *testing.T) {
	srv := newServer(t)
	l, _ := newLoader(config.Default())
	err := l.LoadURI(srv.URL+"/no-exist.xyz", stylesheet.BlockOptions{})
	require.ErrorIs(t, err, ErrRemoteFile)
	assert.Contains(t, err.Error(), srv.URL+"/no-exist.xyz")

	cfg := config.Default()
	cfg.IOErrors = false
	l, _ = newLoader(cfg)
	assert.NoError(t, l.LoadURI(srv.URL+"/no-exist.xyz", stylesheet.BlockOptions{}))
}

func TestLoadURICircularReference(t *testing.T) {
	srv := newServer(t)
	l, _ := newLoader(config.Default())
	err := l.LoadURI(srv.URL+"/import-circular1.css", stylesheet.BlockOptions{})
	assert.ErrorIs(t, err, ErrCircularReference)

	cfg := config.Default()
	cfg.IOErrors = false
	l, _ = newLoader(cfg)
	assert.NoError(t, l.LoadURI(srv.URL+"/import-circular1.css", stylesheet.BlockOptions{}))
}
