package loader

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"cssparser/internal/config"
	"cssparser/internal/stylesheet"
)

var (
	// ErrRemoteFile is returned when a style sheet cannot be read or downloaded.
	ErrRemoteFile = errors.New("failed to load style sheet")

	// ErrCircularReference is returned when a style sheet is loaded a second time.
	ErrCircularReference = errors.New("style sheet loaded more than once")

	// ErrTooManyRedirects is returned when a download redirects more than configured.
	ErrTooManyRedirects = errors.New("too many redirects")
)

// Loader reads style sheets into a Stylesheet. It installs itself as the
// style sheet's importer.
type Loader struct {
	config config.Config
	sheet  *stylesheet.Stylesheet
	client *http.Client
	loaded []string
	seen   map[string]bool
}

// New creates a loader adding to sheet
func New(cfg config.Config, sheet *stylesheet.Stylesheet) *Loader {
	l := &Loader{
		config: cfg,
		sheet:  sheet,
		seen:   make(map[string]bool),
	}
	l.SetHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout})
	sheet.SetImporter(l)
	return l
}

// SetHTTPClient replaces the client used for downloads. Redirects are
// always followed by the loader, not by the client.
func (l *Loader) SetHTTPClient(client *http.Client) {
	c := *client
	c.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	l.client = &c
}

// LoadedURIs returns the files and URLs loaded so far, in order.
func (l *Loader) LoadedURIs() []string {
	return append([]string(nil), l.loaded...)
}

// fail returns err if I/O errors are configured to surface, else traces it.
func (l *Loader) fail(err error) error {
	if l.config.IOErrors {
		return err
	}
	tracer().Errorf("%v", err)
	return nil
}

// markLoaded records key, failing if it was loaded before.
func (l *Loader) markLoaded(key string) (bool, error) {
	if l.seen[key] {
		return false, l.fail(fmt.Errorf("%w: %s", ErrCircularReference, key))
	}
	l.seen[key] = true
	l.loaded = append(l.loaded, key)
	return true, nil
}

// LoadString adds CSS text.
func (l *Loader) LoadString(src string, opts stylesheet.BlockOptions) error {
	return l.sheet.AddBlock(src, opts)
}

// LoadFile reads a local style sheet. A relative name is resolved against
// opts.BaseDir. Imports of the file are resolved against its directory.
func (l *Loader) LoadFile(name string, opts stylesheet.BlockOptions) error {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(opts.BaseDir, path)
	}
	path, err := filepath.Abs(path)
	if err != nil {
		return l.fail(fmt.Errorf("%w: %s: %v", ErrRemoteFile, name, err))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return l.fail(fmt.Errorf("%w: %v", ErrRemoteFile, err))
	}
	ok, err := l.markLoaded(path)
	if !ok {
		return err
	}
	tracer().Infof("loaded %s (%d bytes)", path, len(content))

	if opts.CaptureOffsets || l.config.CaptureOffsets {
		opts.Filename = path
	}
	opts.BaseDir = filepath.Dir(path)
	opts.BaseURI = ""
	return l.sheet.AddBlock(string(content), opts)
}

// LoadURI reads a style sheet from an http, https or file URL. A URL
// without scheme is a local path. Imports are resolved against the URL
// unless opts.BaseURI is set.
func (l *Loader) LoadURI(uri string, opts stylesheet.BlockOptions) error {
	u, err := url.Parse(uri)
	if err != nil {
		return l.fail(fmt.Errorf("%w: %s: %v", ErrRemoteFile, uri, err))
	}
	if u.Scheme == "" || u.Scheme == "file" {
		path, err := filepath.Abs(u.Path)
		if err != nil {
			return l.fail(fmt.Errorf("%w: %s: %v", ErrRemoteFile, uri, err))
		}
		u = &url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	}
	if opts.BaseURI == "" {
		opts.BaseURI = u.String()
	}
	if opts.CaptureOffsets || l.config.CaptureOffsets {
		opts.Filename = u.String()
	}

	src, err := l.read(u)
	if err != nil {
		return l.fail(err)
	}
	if src == "" {
		return nil
	}
	return l.sheet.AddBlock(src, opts)
}

// Import follows an @import rule. It is part of interface stylesheet.Importer.
func (l *Loader) Import(req stylesheet.ImportRequest) error {
	opts := stylesheet.BlockOptions{
		MediaTypes:     req.MediaTypes,
		CaptureOffsets: req.CaptureOffsets,
	}
	if req.BaseURI != "" {
		base, err := url.Parse(req.BaseURI)
		if err != nil {
			return l.fail(fmt.Errorf("%w: bad base %s: %v", ErrRemoteFile, req.BaseURI, err))
		}
		ref, err := url.Parse(req.Path)
		if err != nil {
			return l.fail(fmt.Errorf("%w: %s: %v", ErrRemoteFile, req.Path, err))
		}
		return l.LoadURI(base.ResolveReference(ref).String(), opts)
	}
	opts.BaseDir = req.BaseDir
	return l.LoadFile(req.Path, opts)
}
