// Package build runs the extraction pass over a source tree and writes the
// resulting registry to a cache file.
package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/phobologic/rbdoc/internal/discover"
	"github.com/phobologic/rbdoc/internal/handler"
	"github.com/phobologic/rbdoc/internal/registry"
	"github.com/phobologic/rbdoc/internal/syntax"
)

// DefaultMaxFileSize is the size above which source files are skipped.
const DefaultMaxFileSize = 1_000_000 // 1 MB

// ErrNoFiles is returned when the tree holds no Ruby files to process.
var ErrNoFiles = errors.New("no Ruby files found")

// Options configures a build pass.
type Options struct {
	// Root is the directory to scan.
	Root string
	// Output is the cache file to write. Nothing is written when empty.
	Output string
	Mode   handler.Mode
	// MaxFileSize skips larger files. Zero means DefaultMaxFileSize.
	MaxFileSize int64
	// Force rebuilds even when Output is newer than every source file.
	// Strict mode always rebuilds, since the cache keeps no diagnostics.
	Force  bool
	Logger *log.Logger
}

// Failure is a file that could not be fully processed.
type Failure struct {
	Path string
	Err  error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Path, f.Err)
}

// Diagnostic reports the failure as an error-severity diagnostic.
func (f Failure) Diagnostic() handler.Diagnostic {
	d := handler.Diagnostic{
		Severity: handler.SeverityError,
		Code:     handler.CodeRead,
		Message:  f.Error(),
		File:     f.Path,
		Cause:    f.Err,
	}
	var pe *syntax.ParseError
	switch {
	case errors.As(f.Err, &pe):
		d.Code = handler.CodeParse
		d.Message = pe.Error()
		d.Line = pe.Pos.Line
	case errors.Is(f.Err, registry.ErrConflict):
		d.Code = handler.CodeConflict
	}
	return d
}

// Result summarizes a build pass.
type Result struct {
	Registry *registry.Registry
	// Files is the number of files handed to the parser.
	Files int
	// Fresh is set when the existing cache was reused without parsing.
	Fresh       bool
	Skipped     []string
	Failures    []Failure
	// Diagnostics holds handler warnings plus one error per failure.
	Diagnostics []handler.Diagnostic
}

// Run discovers the Ruby files under opts.Root, extracts them one at a time
// into a fresh registry and saves it to opts.Output. A file that fails to
// parse or conflicts with earlier definitions is recorded in
// Result.Failures; everything extracted before the failure is kept and the
// pass moves on to the next file.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	files, err := discover.Files(ctx, opts.Root)
	if err != nil {
		return nil, fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	reuse := opts.Output != "" && !opts.Force && opts.Mode != handler.ModeStrict
	if reuse && cacheIsFresh(opts.Output, files) {
		reg, err := registry.Load(opts.Output)
		if err == nil {
			logger.Info("cache is up to date", "path", opts.Output, "objects", reg.Len())
			return &Result{Registry: reg, Fresh: true}, nil
		}
		logger.Warn("rebuilding unreadable cache", "path", opts.Output, "err", err)
	}

	res := &Result{Registry: registry.New()}
	files, res.Skipped = filterBySize(files, maxSize)
	for _, p := range res.Skipped {
		logger.Warn("skipped file", "path", p, "limit", maxSize)
	}

	parser := syntax.NewParser()
	dispatcher := handler.NewDispatcher()
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res.Files++
		hctx, err := processFile(ctx, parser, dispatcher, res.Registry, opts, f.Path, logger)
		if hctx != nil {
			res.Diagnostics = append(res.Diagnostics, hctx.Diagnostics...)
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("file not fully processed", "path", f.Path, "err", err)
			failure := Failure{Path: f.Path, Err: err}
			res.Failures = append(res.Failures, failure)
			res.Diagnostics = append(res.Diagnostics, failure.Diagnostic())
		}
	}

	if opts.Output != "" {
		if err := res.Registry.Save(opts.Output); err != nil {
			return res, err
		}
		logger.Info("wrote cache", "path", opts.Output, "objects", res.Registry.Len(), "files", res.Files)
	}
	return res, nil
}

func processFile(ctx context.Context, p *syntax.Parser, d *handler.Dispatcher, reg *registry.Registry,
	opts Options, rel string, logger *log.Logger,
) (*handler.Context, error) {
	source, err := os.ReadFile(filepath.Join(opts.Root, rel))
	if err != nil {
		return nil, err
	}

	root, err := p.Parse(ctx, source)
	var pe *syntax.ParseError
	switch {
	case errors.As(err, &pe):
		pe.File = rel
		root = root.Before(pe.Pos)
	case err != nil:
		return nil, err
	}

	hctx := handler.NewContext(reg, rel, opts.Mode)
	hctx.Logger = logger
	if derr := d.Run(root, hctx); derr != nil {
		return hctx, derr
	}
	if pe != nil {
		return hctx, pe
	}
	return hctx, nil
}

func cacheIsFresh(cachePath string, files []discover.FileEntry) bool {
	cacheInfo, err := os.Stat(cachePath)
	if err != nil {
		return false
	}
	cacheMtime := cacheInfo.ModTime()

	for _, f := range files {
		if !f.ModTime.Before(cacheMtime) {
			return false
		}
	}
	return true
}

func filterBySize(files []discover.FileEntry, maxSize int64) (kept []discover.FileEntry, skipped []string) {
	for _, f := range files {
		if f.Size > maxSize {
			skipped = append(skipped, f.Path)
			continue
		}
		kept = append(kept, f)
	}
	return kept, skipped
}
