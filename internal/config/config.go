package config

import (
	"fmt"
	"strings"
	"time"
)

// UserAgent is sent with every remote stylesheet request.
const UserAgent = "cssparser/1.0 (Go CSS parser)"

// Specificity modes accepted by ParseSpecificityMode.
const (
	SpecificityDigits = "digits"
	SpecificityTuple  = "tuple"
)

// Config holds configuration options for parsing and loading stylesheets
type Config struct {
	// Import follows @import rules
	Import bool

	// IOErrors returns errors for unreadable files, failed downloads and
	// circular imports instead of skipping them silently
	IOErrors bool

	// RuleSetErrors returns errors for malformed declarations added through
	// AddRule instead of dropping the rule
	RuleSetErrors bool

	// CaptureOffsets records the source file and byte range of every rule
	CaptureOffsets bool

	// AbsolutePaths rewrites url() references against the base URI
	AbsolutePaths bool

	// UserAgent is sent with remote requests
	UserAgent string

	// MaxRedirects caps the redirects followed for one remote stylesheet
	MaxRedirects int

	// SpecificityMode selects how Merge ranks selectors: "digits" or "tuple"
	SpecificityMode string

	// HTTPTimeout bounds a single remote request
	HTTPTimeout time.Duration
}

// Default returns the configuration used when none is given
func Default() Config {
	return Config{
		Import:          true,
		IOErrors:        true,
		RuleSetErrors:   true,
		CaptureOffsets:  false,
		AbsolutePaths:   false,
		UserAgent:       UserAgent,
		MaxRedirects:    3,
		SpecificityMode: SpecificityDigits,
		HTTPTimeout:     30 * time.Second,
	}
}

// ParseSpecificityMode validates a specificity mode name. The empty
// string selects the default.
func ParseSpecificityMode(mode string) (string, error) {
	switch m := strings.ToLower(strings.TrimSpace(mode)); m {
	case "":
		return SpecificityDigits, nil
	case SpecificityDigits, SpecificityTuple:
		return m, nil
	default:
		return "", fmt.Errorf("invalid specificity mode: %s (valid: %s, %s)",
			mode, SpecificityDigits, SpecificityTuple)
	}
}
