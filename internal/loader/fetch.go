package loader

import (
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"golang.org/x/net/html/charset"
)

// read returns the contents of a file or remote URL. An empty string with
// a nil error means the URL was skipped.
func (l *Loader) read(u *url.URL) (string, error) {
	if u.Scheme == "file" {
		ok, err := l.markLoaded(u.String())
		if !ok {
			return "", err
		}
		content, err := os.ReadFile(u.Path)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrRemoteFile, err)
		}
		return string(content), nil
	}
	return l.download(u)
}

// download fetches u, following at most MaxRedirects redirects.
func (l *Loader) download(u *url.URL) (string, error) {
	for redirects := 0; ; redirects++ {
		if redirects > l.config.MaxRedirects {
			return "", fmt.Errorf("%w: %s", ErrTooManyRedirects, u)
		}
		ok, err := l.markLoaded(u.String())
		if !ok {
			return "", err
		}

		resp, err := l.get(u)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrRemoteFile, u, err)
		}

		switch {
		case resp.StatusCode >= 400:
			resp.Body.Close()
			return "", fmt.Errorf("%w: %s: %s", ErrRemoteFile, u, resp.Status)
		case resp.StatusCode >= 300:
			location := resp.Header.Get("Location")
			resp.Body.Close()
			if location == "" {
				return "", nil
			}
			next, err := u.Parse(location)
			if err != nil {
				return "", fmt.Errorf("%w: bad redirect from %s: %v", ErrRemoteFile, u, err)
			}
			tracer().Debugf("redirect %d: %s -> %s", resp.StatusCode, u, next)
			u = next
			continue
		}

		src, err := decodeBody(resp)
		resp.Body.Close()
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrRemoteFile, u, err)
		}
		tracer().Infof("downloaded %s (%d bytes)", u, len(src))
		return src, nil
	}
}

func (l *Loader) get(u *url.URL) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", l.config.UserAgent)
	req.Header.Set("Accept-Encoding", "gzip")
	return l.client.Do(req)
}

// decodeBody undoes the content encoding and converts the body to UTF-8
// according to its Content-Type.
func decodeBody(resp *http.Response) (string, error) {
	var body io.Reader = resp.Body
	switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
	case "gzip":
		gz, err := gzip.NewReader(body)
		if err != nil {
			return "", fmt.Errorf("failed to read gzip body: %w", err)
		}
		defer gz.Close()
		body = gz
	case "deflate":
		zr, err := zlib.NewReader(body)
		if err != nil {
			return "", fmt.Errorf("failed to read deflate body: %w", err)
		}
		defer zr.Close()
		body = zr
	}

	utf8, err := charset.NewReader(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("failed to convert charset: %w", err)
	}
	content, err := io.ReadAll(utf8)
	if err != nil {
		return "", err
	}
	return string(content), nil
}
