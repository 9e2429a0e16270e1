// Package ri resolves object paths against previously built cache files.
//
// The cache file in the current directory is always consulted first. After
// that the memo, which remembers which cache file answered a name last
// time, is tried, then every configured search path in order. Answers from
// anywhere other than the current directory are memoized and persisted on
// Close.
package ri

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/phobologic/rbdoc/internal/model"
	"github.com/phobologic/rbdoc/internal/registry"
)

// DefaultCacheFile is the cache file name looked for in the current
// directory.
const DefaultCacheFile = ".rbdoc"

// Options configures a Finder.
type Options struct {
	// DefaultFile is the current-directory cache file. Empty means
	// DefaultCacheFile.
	DefaultFile string
	// MemoFile persists name to cache file mappings. Empty disables it.
	MemoFile string
	// SearchPathsFile lists extra cache files, one per line.
	SearchPathsFile string
	// ExtraPaths are searched after the SearchPathsFile entries.
	ExtraPaths []string
	Logger     *log.Logger
}

// Result is the outcome of a lookup.
type Result struct {
	Object *model.CodeObject
	// File is the cache file the object was found in.
	File string
}

// Found reports whether the lookup hit.
func (r Result) Found() bool {
	return r.Object != nil
}

// Finder looks names up across cache files. It is not safe for concurrent
// use.
type Finder struct {
	defaultFile string
	memoFile    string
	searchPaths []string
	memo        *Memo
	loaded      map[string]*registry.Registry
	logger      *log.Logger
}

// New reads the memo and search path configuration and returns a Finder.
func New(opts Options) (*Finder, error) {
	f := &Finder{
		defaultFile: opts.DefaultFile,
		memoFile:    opts.MemoFile,
		loaded:      make(map[string]*registry.Registry),
		logger:      opts.Logger,
	}
	if f.defaultFile == "" {
		f.defaultFile = DefaultCacheFile
	}
	f.defaultFile = normalize(f.defaultFile)
	if f.logger == nil {
		f.logger = log.New(io.Discard)
	}

	f.memo = newMemo()
	if f.memoFile != "" {
		m, err := readMemo(f.memoFile)
		if err != nil {
			return nil, err
		}
		f.memo = m
	}

	f.searchPaths = []string{f.defaultFile}
	if opts.SearchPathsFile != "" {
		paths, err := readSearchPaths(opts.SearchPathsFile)
		if err != nil {
			return nil, err
		}
		f.searchPaths = appendUnique(f.searchPaths, paths...)
	}
	f.searchPaths = appendUnique(f.searchPaths, opts.ExtraPaths...)

	f.logger.Debug("lookup initialized", "search_paths", f.searchPaths, "memo", f.memo.Len())
	return f, nil
}

// SearchPaths returns the ordered cache files consulted after the memo. The
// first entry is always the current-directory cache file.
func (f *Finder) SearchPaths() []string {
	return append([]string(nil), f.searchPaths...)
}

// Memo returns the lookup memo.
func (f *Finder) Memo() *Memo {
	return f.memo
}

// Find resolves name. A miss is a Result with Found false and a nil error.
// An error is returned only when the current-directory cache file exists
// but cannot be decoded; other unreadable cache files are skipped.
func (f *Finder) Find(name string) (Result, error) {
	if f.available(f.defaultFile) {
		obj, err := f.lookIn(f.defaultFile, name)
		if err != nil {
			return Result{}, err
		}
		if obj != nil {
			f.logger.Debug("found in current directory", "name", name, "file", f.defaultFile)
			return Result{Object: obj, File: f.defaultFile}, nil
		}
	}

	tried := map[string]bool{f.defaultFile: true}
	if file, ok := f.memo.Lookup(name); ok {
		file = normalize(file)
		if !tried[file] {
			tried[file] = true
			if res, ok := f.tryFile(file, name); ok {
				f.logger.Debug("found via memo", "name", name, "file", file)
				return res, nil
			}
		}
	}

	for _, file := range f.searchPaths {
		if tried[file] {
			continue
		}
		tried[file] = true
		if res, ok := f.tryFile(file, name); ok {
			f.logger.Debug("found in search path", "name", name, "file", file)
			return res, nil
		}
	}

	f.logger.Debug("not found", "name", name)
	return Result{}, nil
}

// tryFile looks name up in a non-default cache file and memoizes a hit.
func (f *Finder) tryFile(file, name string) (Result, bool) {
	if !f.available(file) {
		return Result{}, false
	}
	obj, err := f.lookIn(file, name)
	if err != nil {
		f.logger.Warn("skipping cache file", "file", file, "err", err)
		return Result{}, false
	}
	if obj == nil {
		return Result{}, false
	}
	f.memo.Record(name, file)
	return Result{Object: obj, File: file}, true
}

func (f *Finder) lookIn(file, name string) (*model.CodeObject, error) {
	reg, ok := f.loaded[file]
	if !ok {
		var err error
		reg, err = registry.Load(file)
		if err != nil {
			return nil, err
		}
		f.loaded[file] = reg
		f.logger.Debug("loaded cache file", "file", file, "objects", reg.Len())
	}
	if name == "" {
		return nil, nil
	}
	return reg.At(name), nil
}

// Close appends newly learned memo entries to the memo file.
func (f *Finder) Close() error {
	if f.memoFile == "" {
		return nil
	}
	if err := f.memo.flush(f.memoFile); err != nil {
		return fmt.Errorf("writing memo %s: %w", f.memoFile, err)
	}
	return nil
}

// available reports whether file was already loaded or exists on disk.
func (f *Finder) available(file string) bool {
	if _, ok := f.loaded[file]; ok {
		return true
	}
	return exists(file)
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// appendUnique appends the normalized form of each item not already in dst.
func appendUnique(dst []string, items ...string) []string {
	seen := make(map[string]bool, len(dst))
	for _, s := range dst {
		seen[s] = true
	}
	for _, s := range items {
		if s == "" {
			continue
		}
		s = normalize(s)
		if seen[s] {
			continue
		}
		seen[s] = true
		dst = append(dst, s)
	}
	return dst
}

// normalize makes path absolute so that every spelling of one cache file
// shares a single search path entry and loaded registry.
func normalize(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
