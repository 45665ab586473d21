package stylesheet

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var uriRegex = regexp.MustCompile(`(?i)url\(\s*(?:"([^"]*)"|'([^']*)'|([^)"'\s]*))\s*\)`)

// ConvertURIs rewrites every url() reference in css to an absolute,
// single-quoted URL resolved against base.
func ConvertURIs(css, base string) (string, error) {
	baseURL, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return "", fmt.Errorf("failed to parse base URI %q: %w", base, err)
	}
	return uriRegex.ReplaceAllStringFunc(css, func(m string) string {
		sub := uriRegex.FindStringSubmatch(m)
		ref := sub[1] + sub[2] + sub[3]
		if strings.TrimSpace(ref) == "" {
			return m
		}
		refURL, err := url.Parse(strings.TrimSpace(ref))
		if err != nil {
			tracer().Infof("leaving url(%s) alone: %v", ref, err)
			return m
		}
		return "url('" + baseURL.ResolveReference(refURL).String() + "')"
	}), nil
}
