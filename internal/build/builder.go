package build

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tdewolff/minify/v2"
	minifycss "github.com/tdewolff/minify/v2/css"
	minifyhtml "github.com/tdewolff/minify/v2/html"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/omm-dev/omm/internal/config"
	"github.com/omm-dev/omm/internal/errors"
	"github.com/omm-dev/omm/pkg/compile"
	"github.com/omm-dev/omm/pkg/tree"
)

// tracerName identifies build spans.
const tracerName = "omm/build"

// Page is the outcome of one compiled document.
type Page struct {
	// Name is the document base name without extension.
	Name string

	// Source is the input document path.
	Source string

	// Output is the written HTML file path.
	Output string

	// CSS is the page's contribution to the shared stylesheet.
	CSS string

	// Diagnostics are the non-fatal problems recorded while compiling.
	Diagnostics []compile.Diagnostic
}

// Result contains the build output.
type Result struct {
	// Duration is how long the build took.
	Duration time.Duration

	// Pages are the successfully compiled documents.
	Pages []Page

	// Stylesheet is the path of the shared stylesheet, empty when no
	// page carried styles.
	Stylesheet string

	// Failed are the documents that could not be built.
	Failed []string
}

// Options configures the builder.
type Options struct {
	// Minify enables HTML and CSS minification.
	Minify bool

	// Logger receives progress and diagnostics. Defaults to
	// slog.Default().
	Logger *slog.Logger

	// OnProgress is called with progress updates.
	OnProgress func(step string)
}

// Builder compiles a project's documents into its output directory.
type Builder struct {
	config  *config.Config
	options Options
	logger  *slog.Logger
	tracer  trace.Tracer
}

// New creates a new builder. Option zero values fall back to the
// project configuration.
func New(cfg *config.Config, options Options) *Builder {
	if !options.Minify && cfg.Build.Minify {
		options.Minify = true
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		config:  cfg,
		options: options,
		logger:  logger,
		tracer:  otel.Tracer(tracerName),
	}
}

// Build compiles every configured document and writes the output
// directory. Documents that fail are logged and reported on the result;
// the build errors only when nothing could be produced correctly.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	ctx, span := b.tracer.Start(ctx, "omm.build")
	defer span.End()

	docs, err := b.collectInputs()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("omm.documents", len(docs)))

	outputDir := b.config.OutputPath()
	b.progress("Cleaning output directory...")
	if err := os.RemoveAll(outputDir); err != nil {
		return nil, errors.New("E403").Wrap(err)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, errors.New("E403").Wrap(err)
	}

	result := &Result{}
	var sheet strings.Builder
	for _, doc := range docs {
		page, err := b.buildDocument(ctx, doc, outputDir)
		if err != nil {
			b.logger.Error("document failed", "document", doc, "err", err)
			result.Failed = append(result.Failed, doc)
			continue
		}
		for _, d := range page.Diagnostics {
			b.logger.Warn("compile diagnostic", "document", doc, "diagnostic", d.String())
		}
		if page.CSS != "" {
			if sheet.Len() > 0 {
				sheet.WriteString("\n")
			}
			sheet.WriteString(page.CSS)
		}
		result.Pages = append(result.Pages, *page)
	}

	if sheet.Len() > 0 {
		b.progress("Writing stylesheet...")
		css := sheet.String()
		if b.options.Minify {
			if min, err := b.minify("text/css", css); err == nil {
				css = min
			}
		}
		path := filepath.Join(outputDir, b.config.Build.StylesheetName)
		if err := os.WriteFile(path, []byte(css+"\n"), 0644); err != nil {
			return nil, errors.New("E403").Wrap(err)
		}
		result.Stylesheet = path
	}

	if len(result.Failed) > 0 {
		span.SetStatus(codes.Error, "build had failures")
		return result, errors.New("E403").
			WithDetail(itoa(len(result.Failed)) + " of " + itoa(len(docs)) + " documents failed")
	}

	result.Duration = time.Since(start)
	return result, nil
}

// buildDocument decodes, compiles, and writes one page.
func (b *Builder) buildDocument(ctx context.Context, doc, outputDir string) (*Page, error) {
	_, span := b.tracer.Start(ctx, "omm.compile",
		trace.WithAttributes(attribute.String("omm.document", doc)))
	defer span.End()

	b.progress("Compiling " + filepath.Base(doc) + "...")

	root, err := decodeDocument(doc)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	name := pageName(doc)
	res, err := compile.Compile(root, b.compileOptions(name))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("omm.diagnostics", len(res.Diagnostics)))

	page := &Page{
		Name:        name,
		Source:      doc,
		CSS:         res.CSS,
		Diagnostics: res.Diagnostics,
	}

	html := b.pageShell(name, res.HTML, res.CSS != "")
	if b.options.Minify {
		if min, err := b.minify("text/html", html); err == nil {
			html = min
		}
	}

	page.Output = filepath.Join(outputDir, name+".html")
	if err := os.WriteFile(page.Output, []byte(html), 0644); err != nil {
		return nil, err
	}
	return page, nil
}

// compileOptions maps the project configuration onto one page's compile
// options. The class prefix is namespaced per page so rules from
// different documents never collide in the shared stylesheet.
func (b *Builder) compileOptions(page string) compile.Options {
	cc := b.config.Compiler
	prefix := cc.ClassPrefix
	if prefix == "" {
		prefix = compile.DefaultClassPrefix
	}
	opts := compile.Options{
		ClassPrefix:   prefix + cssIdent(page) + "-",
		ExtraVoidTags: cc.ExtraVoidTags,
		MaxDepth:      cc.MaxDepth,
		Pretty:        cc.Pretty,
	}
	if cc.EscapeText != nil && !*cc.EscapeText {
		opts.DisableEscaping = true
	}
	return opts
}

// pageShell wraps a compiled fragment in a minimal HTML document that
// links the shared stylesheet.
func (b *Builder) pageShell(name, fragment string, hasCSS bool) string {
	var sb strings.Builder
	sb.WriteString("<!doctype html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	sb.WriteString(name)
	sb.WriteString("</title>\n")
	if hasCSS {
		sb.WriteString(`<link rel="stylesheet" href="`)
		sb.WriteString(b.config.Build.StylesheetName)
		sb.WriteString("\">\n")
	}
	sb.WriteString("</head>\n<body>\n")
	sb.WriteString(fragment)
	sb.WriteString("\n</body>\n</html>\n")
	return sb.String()
}

// collectInputs expands the configured globs relative to the project
// root, deduplicated and sorted for deterministic build order.
func (b *Builder) collectInputs() ([]string, error) {
	seen := make(map[string]bool)
	var docs []string
	for _, pattern := range b.config.Inputs {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(b.config.Dir(), pattern)
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, errors.New("E402").Wrap(err)
		}
		for _, m := range matches {
			if !isDocument(m) || seen[m] {
				continue
			}
			seen[m] = true
			docs = append(docs, m)
		}
	}
	if len(docs) == 0 {
		return nil, errors.New("E402").
			WithDetail("Patterns: " + strings.Join(b.config.Inputs, ", "))
	}
	sort.Strings(docs)
	return docs, nil
}

func (b *Builder) minify(mediatype, input string) (string, error) {
	m := minify.New()
	m.AddFunc("text/html", minifyhtml.Minify)
	m.AddFunc("text/css", minifycss.Minify)
	return m.String(mediatype, input)
}

func (b *Builder) progress(step string) {
	if b.options.OnProgress != nil {
		b.options.OnProgress(step)
	}
}

// decodeDocument parses one input file by extension.
func decodeDocument(path string) (*tree.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return tree.DecodeYAML(f)
	default:
		return tree.DecodeJSON(f)
	}
}

func isDocument(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func pageName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// cssIdent reduces a page name to characters safe in a CSS identifier.
func cssIdent(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('-')
		}
	}
	return sb.String()
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
