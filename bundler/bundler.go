// CLAUDE:SUMMARY Core build: parse entry HTML, merge referenced scripts, rewrite imports, copy assets into the deploy dir.
// Package bundler assembles a deployable bundle for a browser game.
//
// A build:
//   - creates the output directory (an existing one is fine)
//   - parses the entry HTML and concatenates every <script src> it references,
//     in document order, into one merged script
//   - replaces the imports container with a single <script> pointing at the
//     merged script and writes the rewritten HTML
//   - copies the configured asset files and directories
//
// Builds fail fast: the first error aborts the run and nothing written so
// far is rolled back.
//
// Usage:
//
//	b, err := bundler.New(bundler.Config{Root: "."})
//	res, err := b.Build(ctx)
//	fmt.Println(res.ScriptPath, res.HTMLPath)
package bundler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hazyhaar/ptdbuild/htmldoc"
	"github.com/hazyhaar/ptdbuild/idgen"
	"github.com/hazyhaar/ptdbuild/kit"
)

// Result describes one successful build.
type Result struct {
	BuildID     string        `json:"build_id"`
	OutputDir   string        `json:"output_dir"`
	ScriptPath  string        `json:"script_path"`
	HTMLPath    string        `json:"html_path"`
	Scripts     []string      `json:"scripts"`      // src values, in document order
	ScriptBytes int64         `json:"script_bytes"` // size of the merged script
	Files       []string      `json:"files"`        // copied files (destinations)
	Dirs        []string      `json:"dirs"`         // copied directories (destinations)
	CreatedDir  bool          `json:"created_dir"`
	Duration    time.Duration `json:"duration"`
}

// Bundler runs builds for one Config. It is safe for concurrent use;
// builds are serialized.
type Bundler struct {
	cfg    Config
	logger *slog.Logger
	newID  idgen.Generator

	mu   sync.Mutex
	last *Result
}

// Option configures a Bundler.
type Option func(*Bundler)

// WithIDGenerator overrides the build ID generator.
func WithIDGenerator(gen idgen.Generator) Option {
	return func(b *Bundler) { b.newID = gen }
}

// New creates a Bundler. The config is defaulted and validated.
func New(cfg Config, opts ...Option) (*Bundler, error) {
	cfg.defaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("bundler: config: %w", err)
	}
	b := &Bundler{
		cfg:    cfg,
		logger: cfg.Logger,
		newID:  idgen.BuildID,
	}
	for _, o := range opts {
		o(b)
	}
	return b, nil
}

// Config returns the effective (defaulted) configuration.
func (b *Bundler) Config() Config { return b.cfg }

// NewBuildID returns a fresh ID from the configured generator. Callers that
// need the ID before Build returns put it on the context with kit.WithBuildID.
func (b *Bundler) NewBuildID() string { return b.newID() }

// Last returns the most recent successful build, or nil.
func (b *Bundler) Last() *Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}

// Build runs the whole pipeline once. The build ID is taken from ctx when
// set there, otherwise generated.
func (b *Bundler) Build(ctx context.Context) (*Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	start := time.Now()
	id := kit.GetBuildID(ctx)
	if id == "" {
		id = b.newID()
	}
	log := b.logger.With("build_id", id, "trigger", kit.GetTransport(ctx))

	log.Info("building deployment files", "root", b.cfg.Root)

	outDir := b.cfg.path(b.cfg.OutputDir)
	res := &Result{BuildID: id, OutputDir: outDir}

	created, err := ensureDir(outDir)
	if err != nil {
		return nil, err
	}
	if created {
		res.CreatedDir = true
		log.Info("created folder", "path", outDir)
	}

	htmlPath := b.cfg.path(b.cfg.InputHTML)
	doc, err := loadDocument(htmlPath)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	script, sources, err := mergeScripts(doc, filepath.Dir(htmlPath))
	if err != nil {
		return nil, err
	}
	res.ScriptPath = filepath.Join(outDir, b.cfg.MergedJS)
	if err := writeFile(res.ScriptPath, script); err != nil {
		return nil, err
	}
	res.Scripts = sources
	res.ScriptBytes = int64(len(script))
	log.Info("created JS", "path", res.ScriptPath, "sources", len(sources), "bytes", len(script))

	if err := b.rewriteImports(doc, htmlPath); err != nil {
		return nil, err
	}
	var page bytes.Buffer
	if err := doc.Render(&page); err != nil {
		return nil, &ParseError{Path: htmlPath, Err: fmt.Errorf("render: %w", err)}
	}
	res.HTMLPath = filepath.Join(outDir, b.cfg.MergedHTML)
	if err := writeFile(res.HTMLPath, page.Bytes()); err != nil {
		return nil, err
	}
	log.Info("created HTML file", "path", res.HTMLPath)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, name := range b.cfg.Files {
		dst, err := b.dest(outDir, name)
		if err != nil {
			return nil, err
		}
		if err := copyFile(b.cfg.path(name), dst); err != nil {
			return nil, err
		}
		res.Files = append(res.Files, dst)
		log.Info("copied file", "src", name, "dst", dst)
	}

	for _, name := range b.cfg.Dirs {
		dst, err := b.dest(outDir, name)
		if err != nil {
			return nil, err
		}
		if err := replaceDir(b.cfg.path(name), dst); err != nil {
			return nil, err
		}
		res.Dirs = append(res.Dirs, dst)
		log.Info("copied folder", "src", name, "dst", dst)
	}

	res.Duration = time.Since(start)
	b.last = res
	log.Info("finished building", "dir", outDir, "duration", res.Duration)
	return res, nil
}

// Inputs lists every file a build reads: the entry HTML, the scripts it
// references, asset files and the files under asset directories. Files that
// do not exist are still listed so that their appearance is noticed. If the
// entry HTML cannot be parsed it is returned alone with the error.
func (b *Bundler) Inputs(ctx context.Context) ([]string, error) {
	htmlPath := b.cfg.path(b.cfg.InputHTML)
	inputs := []string{htmlPath}

	doc, err := loadDocument(htmlPath)
	if err != nil {
		return inputs, err
	}
	base := filepath.Dir(htmlPath)
	for _, src := range scriptSources(doc) {
		inputs = append(inputs, resolveSource(base, src))
	}

	for _, name := range b.cfg.Files {
		inputs = append(inputs, b.cfg.path(name))
	}

	for _, name := range b.cfg.Dirs {
		if err := ctx.Err(); err != nil {
			return inputs, err
		}
		files, err := listFiles(b.cfg.path(name))
		if err != nil {
			b.logger.Debug("bundler: skip asset dir", "dir", name, "error", err)
			continue
		}
		inputs = append(inputs, files...)
	}
	return inputs, nil
}

// rewriteImports swaps the imports container for a single merged script tag.
func (b *Bundler) rewriteImports(doc *htmldoc.Document, htmlPath string) error {
	container := doc.ByID(b.cfg.ImportsID)
	if container == nil {
		return &ParseError{Path: htmlPath, Err: fmt.Errorf("%w: id %q", ErrContainerNotFound, b.cfg.ImportsID)}
	}
	merged := htmldoc.NewElement("script",
		htmldoc.A("src", b.cfg.MergedJS),
		htmldoc.A("charset", "utf-8"),
		htmldoc.A("type", "text/javascript"),
	)
	if err := doc.Replace(container, merged); err != nil {
		return &ParseError{Path: htmlPath, Err: err}
	}
	return nil
}

func (b *Bundler) dest(outDir, name string) (string, error) {
	dst, err := safeJoin(outDir, name)
	if err != nil {
		return "", ioErr("copy", name, err)
	}
	return dst, nil
}

func loadDocument(path string) (*htmldoc.Document, error) {
	doc, err := htmldoc.ParseFile(path)
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return nil, ioErr("read", path, err)
		}
		return nil, &ParseError{Path: path, Err: err}
	}
	return doc, nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ioErr("write", path, err)
	}
	return nil
}
