package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/npillmayer/schuko/tracing"

	"cssparser/internal/config"
	"cssparser/internal/css"
	"cssparser/internal/scanner"
	"cssparser/internal/stylesheet"
	"cssparser/pkg/cssparser"
)

var (
	// Input/Output flags
	inputFile  = flag.String("input", "", "Input CSS file path (default: stdin)")
	inputURL   = flag.String("url", "", "Load the style sheet from a URL")
	htmlFile   = flag.String("html", "", "Load the style sheets of an HTML file")
	outputFile = flag.String("output", "", "Output file path (default: stdout)")
	baseURI    = flag.String("base", "", "Base URI for @import and url() references")

	// Selection flags
	media     = flag.String("media", "", "Comma separated media queries to render or resolve (default: all)")
	onlyMedia = flag.String("only-media", "", "Only follow @import rules for these media queries")
	selector  = flag.String("selector", "", "Resolve the cascade for these comma separated selectors")

	// Configuration flags
	format        = flag.String("format", "css", "Output format (css, json, tree)")
	expand        = flag.Bool("expand", false, "Expand shorthand properties")
	offsets       = flag.Bool("offsets", false, "Record source offsets of each rule set")
	noImport      = flag.Bool("no-import", false, "Do not follow @import rules")
	absolutePaths = flag.Bool("absolute-paths", false, "Rewrite url() references against the base URI")
	specificity   = flag.String("specificity", config.SpecificityDigits, "Specificity mode for the cascade (digits, tuple)")

	// Output control flags
	verbose   = flag.Bool("verbose", false, "Trace parsing and loading to stderr")
	quiet     = flag.Bool("quiet", false, "Suppress all output except errors")
	stats     = flag.Bool("stats", false, "Show parsing statistics")
	benchmark = flag.Bool("benchmark", false, "Show processing time")
)

var traceKeys = []string{
	"cssparser.css",
	"cssparser.scanner",
	"cssparser.stylesheet",
	"cssparser.loader",
	"cssparser.html",
}

func main() {
	flag.Parse()

	// Validate command line arguments
	if err := validateArgs(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.Usage()
		os.Exit(1)
	}

	setTraceLevel()
	cfg := buildConfig()
	parser := cssparser.New(cfg)

	startTime := time.Now()
	err := runLoad(parser)
	if err == nil && *expand {
		err = parser.ExpandShorthands()
	}
	if err == nil {
		err = runOutput(parser)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *stats && !*quiet {
		showStats(parser.Stats())
	}
	if *benchmark {
		fmt.Fprintf(os.Stderr, "Processing completed in %v\n", time.Since(startTime))
	}
}

// validateArgs validates command line arguments
func validateArgs() error {
	sources := 0
	for _, s := range []string{*inputFile, *inputURL, *htmlFile} {
		if s != "" {
			sources++
		}
	}
	if sources > 1 {
		return fmt.Errorf("specify only one of -input, -url and -html")
	}

	if *quiet && *verbose {
		return fmt.Errorf("cannot specify both -quiet and -verbose")
	}

	validFormats := []string{"css", "json", "tree"}
	formatValid := false
	for _, valid := range validFormats {
		if *format == valid {
			formatValid = true
			break
		}
	}
	if !formatValid {
		return fmt.Errorf("invalid format: %s (valid: %s)", *format, strings.Join(validFormats, ", "))
	}
	if *format == "tree" && *selector != "" {
		return fmt.Errorf("-format tree cannot be combined with -selector")
	}

	if _, err := config.ParseSpecificityMode(*specificity); err != nil {
		return err
	}
	return nil
}

// buildConfig creates configuration from command line flags
func buildConfig() config.Config {
	cfg := config.Default()
	cfg.Import = !*noImport
	cfg.CaptureOffsets = *offsets
	cfg.AbsolutePaths = *absolutePaths
	cfg.SpecificityMode, _ = config.ParseSpecificityMode(*specificity)
	return cfg
}

func setTraceLevel() {
	level := tracing.LevelError
	if *verbose {
		level = tracing.LevelDebug
	}
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
}

// runLoad reads the input named by the flags into the parser
func runLoad(parser *cssparser.Parser) error {
	opts := cssparser.BlockOptions{
		BaseURI:        *baseURI,
		OnlyMediaTypes: splitMedia(*onlyMedia),
	}

	switch {
	case *inputURL != "":
		return parser.LoadURI(*inputURL, opts)
	case *htmlFile != "":
		return parser.LoadHTMLFile(*htmlFile, opts)
	case *inputFile != "":
		return parser.LoadFile(*inputFile, opts)
	default:
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read from stdin: %w", err)
		}
		if opts.BaseURI == "" {
			opts.BaseDir, _ = os.Getwd()
		}
		return parser.LoadString(string(src), opts)
	}
}

// runOutput renders the style sheet or the resolved selectors
func runOutput(parser *cssparser.Parser) error {
	var out string
	var err error
	if *selector != "" {
		out, err = renderResolved(parser, css.SplitSelectors(*selector), *format, splitMedia(*media))
	} else {
		out, err = renderSheet(parser, *format, splitMedia(*media))
	}
	if err != nil {
		return err
	}
	if *quiet {
		return nil
	}
	if err := writeOutput(out, *outputFile); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func renderSheet(parser *cssparser.Parser, format string, media []string) (string, error) {
	switch format {
	case "json":
		return toJSON(parser.ToMap(media...))
	case "tree":
		return parser.Tree(), nil
	default:
		return parser.String(media...), nil
	}
}

func renderResolved(parser *cssparser.Parser, selectors []string, format string, media []string) (string, error) {
	rs, err := parser.Resolve(selectors, media...)
	if err != nil {
		return "", fmt.Errorf("failed to resolve selectors: %w", err)
	}

	if format == "json" {
		values := make(map[string]string)
		if rs != nil {
			rs.EachDeclaration(func(property string, value css.Value) {
				values[property] = value.String()
			})
		}
		return toJSON(map[string]any{
			"selectors":    selectors,
			"declarations": values,
		})
	}
	return fmt.Sprintf("%s { %s }\n", strings.Join(selectors, ", "), stylesheet.StylesString(rs)), nil
}

func toJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}
	return string(data) + "\n", nil
}

func splitMedia(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	return scanner.SplitByOr(list)
}

// writeOutput writes content to a file or stdout
func writeOutput(content, filename string) error {
	if filename == "" {
		_, err := fmt.Print(content)
		return err
	}
	return os.WriteFile(filename, []byte(content), 0644)
}

// showStats displays parsing statistics
func showStats(s cssparser.Stats) {
	fmt.Fprintf(os.Stderr, "\nParsing Statistics:\n")
	fmt.Fprintf(os.Stderr, "  Rule sets: %d\n", s.RuleSets)
	fmt.Fprintf(os.Stderr, "  Selectors: %d\n", s.Selectors)
	fmt.Fprintf(os.Stderr, "  Media queries: %d\n", s.MediaQueries)
	fmt.Fprintf(os.Stderr, "  Loaded sources: %d\n", s.LoadedURIs)
}
