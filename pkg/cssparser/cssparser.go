package cssparser

import (
	"fmt"
	"net/url"
	"path/filepath"

	"cssparser/internal/config"
	"cssparser/internal/css"
	"cssparser/internal/html"
	"cssparser/internal/loader"
	"cssparser/internal/stylesheet"
)

type (
	// Config controls parsing and loading
	Config = config.Config
	// RuleSet is a set of selectors sharing one declaration block
	RuleSet = css.RuleSet
	// BlockOptions configure how a block of CSS is added
	BlockOptions = stylesheet.BlockOptions
	// Specificity is the (ids, classes, elements) tuple of a selector
	Specificity = css.Specificity
	// MediaRules groups rule sets under one media query
	MediaRules = stylesheet.MediaRules
)

// Errors callers may check with errors.Is
var (
	ErrRemoteFile        = loader.ErrRemoteFile
	ErrCircularReference = loader.ErrCircularReference
	ErrTooManyRedirects  = loader.ErrTooManyRedirects
	ErrEmptyValue        = css.ErrEmptyValue
)

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return config.Default()
}

// Parser collects style sheets from strings, files, URLs and HTML documents
// and answers questions about them
type Parser struct {
	config   config.Config
	sheet    *stylesheet.Stylesheet
	loader   *loader.Loader
	resolver *stylesheet.Resolver
}

// New creates a parser with the given configuration
func New(cfg Config) *Parser {
	sheet := stylesheet.New(cfg)
	return &Parser{
		config:   cfg,
		sheet:    sheet,
		loader:   loader.New(cfg, sheet),
		resolver: stylesheet.NewResolver(sheet),
	}
}

// NewWithDefaults creates a parser with the default configuration
func NewWithDefaults() *Parser {
	return New(config.Default())
}

// Stylesheet gives access to the underlying rule collection
func (p *Parser) Stylesheet() *stylesheet.Stylesheet {
	return p.sheet
}

// Stats describes what has been parsed so far
type Stats struct {
	RuleSets     int // Rule sets held
	Selectors    int // Selectors over all rule sets
	MediaQueries int // Distinct media queries
	LoadedURIs   int // Files and URLs read, imports included
}

// Stats counts rule sets, selectors, media queries and loaded sources
func (p *Parser) Stats() Stats {
	stats := Stats{
		RuleSets:     p.sheet.Len(),
		MediaQueries: len(p.sheet.RulesByMediaQuery()),
		LoadedURIs:   len(p.loader.LoadedURIs()),
	}
	for _, entry := range p.sheet.Entries() {
		stats.Selectors += len(entry.RuleSet.Selectors())
	}
	return stats
}

// AddBlock parses a block of CSS
func (p *Parser) AddBlock(block string, opts BlockOptions) error {
	return p.sheet.AddBlock(block, opts)
}

// AddRule adds a single rule set for the given media queries
func (p *Parser) AddRule(selectors, block string, media ...string) error {
	return p.sheet.AddRule(selectors, block, media...)
}

// LoadString parses CSS text, following imports relative to opts
func (p *Parser) LoadString(src string, opts BlockOptions) error {
	return p.loader.LoadString(src, opts)
}

// LoadFile reads a local style sheet
func (p *Parser) LoadFile(name string, opts BlockOptions) error {
	return p.loader.LoadFile(name, opts)
}

// LoadURI reads a style sheet from a URL
func (p *Parser) LoadURI(uri string, opts BlockOptions) error {
	return p.loader.LoadURI(uri, opts)
}

// LoadedURIs lists the files and URLs read so far
func (p *Parser) LoadedURIs() []string {
	return p.loader.LoadedURIs()
}

// LoadHTML adds the style sheets of an HTML document in document order.
// Embedded style is parsed directly; linked sheets are loaded relative to
// the document's <base href>, opts.BaseURI or opts.BaseDir, in that order.
func (p *Parser) LoadHTML(htmlStr string, opts BlockOptions) error {
	doc, err := html.Parse(htmlStr)
	if err != nil {
		return err
	}
	return p.loadDocument(doc, opts)
}

// LoadHTMLFile reads an HTML file and adds its style sheets. Relative links
// resolve against the file's directory unless a base is given.
func (p *Parser) LoadHTMLFile(filename string, opts BlockOptions) error {
	doc, err := html.ParseFile(filename)
	if err != nil {
		return err
	}
	if opts.BaseURI == "" && opts.BaseDir == "" {
		opts.BaseDir = filepath.Dir(filename)
	}
	return p.loadDocument(doc, opts)
}

func (p *Parser) loadDocument(doc *html.Document, opts BlockOptions) error {
	// Step 1: Work out the base for relative links
	baseURI, err := documentBase(doc.BaseHref(), opts.BaseURI)
	if err != nil {
		return err
	}

	// Step 2: Add every source in cascade order
	for _, src := range doc.Sources() {
		srcOpts := opts
		srcOpts.MediaTypes = src.MediaTypes

		switch src.Kind {
		case html.Embedded:
			srcOpts.BaseURI = baseURI
			if err := p.loader.LoadString(src.CSS, srcOpts); err != nil {
				return fmt.Errorf("failed to add embedded style: %w", err)
			}
		case html.Linked:
			if err := p.loadLink(src.Href, baseURI, srcOpts); err != nil {
				return fmt.Errorf("failed to load linked style sheet %s: %w", src.Href, err)
			}
		}
	}
	return nil
}

func (p *Parser) loadLink(href, baseURI string, opts BlockOptions) error {
	ref, err := url.Parse(href)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRemoteFile, href, err)
	}
	opts.BaseURI = ""
	switch {
	case ref.IsAbs():
		return p.loader.LoadURI(ref.String(), opts)
	case baseURI != "":
		base, _ := url.Parse(baseURI)
		return p.loader.LoadURI(base.ResolveReference(ref).String(), opts)
	default:
		return p.loader.LoadFile(ref.Path, opts)
	}
}

// documentBase resolves a <base href> against the caller's base URI.
func documentBase(baseHref, baseURI string) (string, error) {
	if baseHref == "" {
		return baseURI, nil
	}
	ref, err := url.Parse(baseHref)
	if err != nil {
		return "", fmt.Errorf("invalid base href %q: %w", baseHref, err)
	}
	if baseURI == "" {
		return ref.String(), nil
	}
	base, err := url.Parse(baseURI)
	if err != nil {
		return "", fmt.Errorf("invalid base URI %q: %w", baseURI, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// FindBySelector returns the declaration blocks of all rule sets with the
// given selector
func (p *Parser) FindBySelector(selector string, media ...string) []string {
	return p.sheet.FindBySelector(selector, media...)
}

// FindRuleSets returns the rule sets containing any of the selectors
func (p *Parser) FindRuleSets(selectors []string, media ...string) []*RuleSet {
	return p.sheet.FindRuleSets(selectors, media...)
}

// Resolve folds every rule set containing one of the selectors into one
// using the cascade. It returns nil if nothing matches.
func (p *Parser) Resolve(selectors []string, media ...string) (*RuleSet, error) {
	return p.resolver.Resolve(selectors, media...)
}

// ResolveStyles is Resolve rendered as a style attribute value
func (p *Parser) ResolveStyles(selectors []string, media ...string) (string, error) {
	rs, err := p.Resolve(selectors, media...)
	if err != nil {
		return "", err
	}
	return stylesheet.StylesString(rs), nil
}

// ExpandShorthands replaces shorthand properties by their longhands in
// every rule set
func (p *Parser) ExpandShorthands() error {
	for _, entry := range p.sheet.Entries() {
		if err := entry.RuleSet.ExpandShorthand(); err != nil {
			return fmt.Errorf("failed to expand %q: %w", entry.RuleSet.SelectorsString(), err)
		}
	}
	return nil
}

// RulesByMediaQuery groups the rule sets by media query
func (p *Parser) RulesByMediaQuery() []MediaRules {
	return p.sheet.RulesByMediaQuery()
}

// String renders the style sheet as CSS
func (p *Parser) String(media ...string) string {
	return p.sheet.String(media...)
}

// ToMap renders the style sheet as media → selector → property → value
func (p *Parser) ToMap(media ...string) map[string]map[string]map[string]string {
	return p.sheet.ToMap(media...)
}

// Tree renders the style sheet as an indented tree
func (p *Parser) Tree() string {
	return p.sheet.Tree()
}

// Merge folds rule sets into one using the configured specificity mode
func (p *Parser) Merge(rulesets ...*RuleSet) (*RuleSet, error) {
	mode := css.SpecificityDigits
	if p.config.SpecificityMode == config.SpecificityTuple {
		mode = css.SpecificityTuple
	}
	return css.MergeWith(css.MergeOptions{Mode: mode}, rulesets...)
}

// Merge folds rule sets into one with integer specificity
func Merge(rulesets ...*RuleSet) (*RuleSet, error) {
	return css.Merge(rulesets...)
}

// CalculateSpecificity returns the integer specificity of a selector
func CalculateSpecificity(selector string) int {
	return css.CalculateSpecificity(selector)
}
