package stylesheet

import (
	"fmt"
	"strings"

	gorilla "github.com/gorilla/css/scanner"

	"cssparser/internal/css"
	"cssparser/internal/scanner"
)

// BlockOptions configure AddBlock.
type BlockOptions struct {
	// BaseURI resolves relative @import and url() references of remote sheets
	BaseURI string
	// BaseDir resolves relative @import references of local files
	BaseDir string
	// MediaTypes are the media queries the block applies to, "all" if empty
	MediaTypes []string
	// OnlyMediaTypes restricts which @import rules are followed, all if empty
	OnlyMediaTypes []string
	// Filename is recorded as the source of each rule when capturing offsets
	Filename string
	// CaptureOffsets records byte ranges even if the configuration does not
	CaptureOffsets bool
}

// ImportRequest describes one @import rule to follow.
type ImportRequest struct {
	Path           string   // URL or path as written in the rule
	BaseURI        string   // base for a remote import, empty for a local one
	BaseDir        string   // base for a local import
	MediaTypes     []string // media queries of the import, "all" if none
	CaptureOffsets bool
}

// Importer loads the style sheet an @import rule refers to and adds it.
type Importer interface {
	Import(req ImportRequest) error
}

// AddBlock parses a block of CSS and adds its rules. Scan errors abort the
// whole block; malformed declarations are dropped.
//
// To follow @import rules a BaseURI or BaseDir must be given and an
// Importer must be installed.
func (s *Stylesheet) AddBlock(block string, opts BlockOptions) error {
	opts.MediaTypes = sanitizeMediaTypes(opts.MediaTypes)
	opts.OnlyMediaTypes = sanitizeMediaTypes(opts.OnlyMediaTypes)

	if opts.BaseURI != "" && s.config.AbsolutePaths {
		converted, err := ConvertURIs(block, opts.BaseURI)
		if err != nil {
			return fmt.Errorf("failed to convert URIs: %w", err)
		}
		block = converted
	}

	nodes, err := scanner.Scan(block)
	if err != nil {
		return fmt.Errorf("failed to scan stylesheet: %w", err)
	}
	return s.addNodes(nodes, opts, 0)
}

// addNodes adds scanned nodes; base is the offset of their input within
// the outermost block.
func (s *Stylesheet) addNodes(nodes []scanner.Node, opts BlockOptions, base int) error {
	for _, node := range nodes {
		var err error
		switch n := node.(type) {
		case *scanner.StyleRule:
			err = s.addScanned(n.Selector, n.Properties, n.Start, n.End, opts, base)
		case *scanner.AtRule:
			err = s.addAtRule(n, opts, base)
		default:
			panic(fmt.Sprintf("unknown node type %T", node))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Stylesheet) addAtRule(rule *scanner.AtRule, opts BlockOptions, base int) error {
	switch rule.Name {
	case "media":
		if !rule.HasBlock {
			return nil
		}
		nodes, err := scanner.Scan(rule.Block)
		if err != nil {
			return fmt.Errorf("failed to scan @media %s: %w", rule.Prelude, err)
		}
		inner := opts
		inner.MediaTypes = sanitizeMediaTypes(scanner.SplitByOr(rule.Prelude))
		tracer().Debugf("@media %q -> %v", rule.Prelude, inner.MediaTypes)
		return s.addNodes(nodes, inner, base+rule.BlockStart)
	case "page", "font-face":
		if !rule.HasBlock {
			return nil
		}
		selector := strings.TrimSpace("@" + rule.Name + " " + rule.Prelude)
		return s.addScanned(selector, rule.Block, rule.Start, rule.End, opts, base)
	case "import":
		return s.addImport(rule, opts)
	default:
		tracer().Debugf("ignoring @%s", rule.Name)
		return nil
	}
}

// addScanned adds a scanned rule. Declarations are parsed tolerantly.
func (s *Stylesheet) addScanned(selector, block string, start, end int, opts BlockOptions, base int) error {
	ro := css.Options{Selectors: selector, Block: block}
	if (opts.CaptureOffsets || s.config.CaptureOffsets) && opts.Filename != "" {
		ro.Filename = opts.Filename
		ro.Offset = &css.Offset{Start: base + start, End: base + end}
	}
	rs, err := css.NewRuleSet(ro)
	if err != nil {
		return fmt.Errorf("failed to add rule %q: %w", selector, err)
	}
	s.AddRuleSet(rs, opts.MediaTypes...)
	return nil
}

func (s *Stylesheet) addImport(rule *scanner.AtRule, opts BlockOptions) error {
	if !s.config.Import {
		return nil
	}
	path, rest, ok := importTarget(scanner.Tokenize(rule.Prelude))
	if !ok {
		tracer().Infof("ignoring @import without a target: %q", rule.Prelude)
		return nil
	}

	media := sanitizeMediaTypes(scanner.SplitTokensByOr(rest))
	if !containsMedia(opts.OnlyMediaTypes, MediaAll) && !matchesAny(media, opts.OnlyMediaTypes) {
		tracer().Debugf("skipping @import %q for media %v", path, media)
		return nil
	}
	if opts.BaseURI == "" && opts.BaseDir == "" {
		tracer().Debugf("skipping @import %q without a base", path)
		return nil
	}
	if s.importer == nil {
		tracer().Infof("skipping @import %q: no importer", path)
		return nil
	}

	tracer().Debugf("following @import %q for media %v", path, media)
	return s.importer.Import(ImportRequest{
		Path:           path,
		BaseURI:        opts.BaseURI,
		BaseDir:        opts.BaseDir,
		MediaTypes:     media,
		CaptureOffsets: opts.CaptureOffsets || s.config.CaptureOffsets,
	})
}

// importTarget finds the string or url() of an @import prelude and returns
// it with the tokens following it.
func importTarget(tokens []*gorilla.Token) (string, []*gorilla.Token, bool) {
	for i, t := range tokens {
		switch t.Type {
		case gorilla.TokenS, gorilla.TokenComment:
			continue
		case gorilla.TokenString:
			return unquote(t.Value), tokens[i+1:], true
		case gorilla.TokenURI:
			inner := strings.TrimSuffix(t.Value[len("url("):], ")")
			return unquote(strings.TrimSpace(inner)), tokens[i+1:], true
		default:
			return "", nil, false
		}
	}
	return "", nil, false
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
