package registry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/phobologic/rbdoc/internal/model"
)

const (
	formatName = "rbdoc-registry"

	// FormatVersion is the cache layout written by Encode. Decode accepts
	// this version and older ones; fields it does not know are skipped.
	FormatVersion = 1
)

type document struct {
	Format  string         `msgpack:"format"`
	Version int            `msgpack:"version"`
	Objects []objectRecord `msgpack:"objects"`
}

type objectRecord struct {
	Name       string                    `msgpack:"name"`
	Kind       model.Kind                `msgpack:"kind"`
	Namespace  string                    `msgpack:"namespace"`
	Source     string                    `msgpack:"source,omitempty"`
	Docstring  string                    `msgpack:"docstring,omitempty"`
	Value      string                    `msgpack:"value,omitempty"`
	Superclass string                    `msgpack:"superclass,omitempty"`
	File       string                    `msgpack:"file,omitempty"`
	Line       int                       `msgpack:"line,omitempty"`
	Attributes map[string]accessorRecord `msgpack:"attributes,omitempty"`
}

type accessorRecord struct {
	Read  bool `msgpack:"read"`
	Write bool `msgpack:"write"`
}

// Encode writes the registry as a zstd-compressed MessagePack document.
func (r *Registry) Encode(w io.Writer) error {
	doc := document{Format: formatName, Version: FormatVersion}
	for _, obj := range r.All() {
		rec := objectRecord{
			Name:       obj.Name,
			Kind:       obj.Kind,
			Namespace:  obj.Namespace.Path(),
			Source:     obj.Source,
			Docstring:  obj.Docstring,
			Value:      obj.Value,
			Superclass: obj.Superclass,
			File:       obj.File,
			Line:       obj.Line,
		}
		if len(obj.Attributes) > 0 {
			rec.Attributes = make(map[string]accessorRecord, len(obj.Attributes))
			for name, acc := range obj.Attributes {
				rec.Attributes[name] = accessorRecord{Read: acc.Read, Write: acc.Write}
			}
		}
		doc.Objects = append(doc.Objects, rec)
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("creating compressor: %w", err)
	}
	if err := msgpack.NewEncoder(zw).Encode(&doc); err != nil {
		_ = zw.Close()
		return fmt.Errorf("encoding registry: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flushing registry: %w", err)
	}
	return nil
}

// Decode reads a registry written by Encode.
func Decode(rd io.Reader) (*Registry, error) {
	zr, err := zstd.NewReader(rd)
	if err != nil {
		return nil, fmt.Errorf("creating decompressor: %w", err)
	}
	defer zr.Close()

	var doc document
	if err := msgpack.NewDecoder(zr).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	if doc.Format != formatName {
		return nil, fmt.Errorf("%w: format %q", ErrUnsupportedFormat, doc.Format)
	}
	if doc.Version > FormatVersion {
		return nil, fmt.Errorf("%w: version %d is newer than %d", ErrUnsupportedFormat, doc.Version, FormatVersion)
	}

	r := New()
	for _, rec := range doc.Objects {
		parent := r.At(rec.Namespace)
		if parent == nil {
			return nil, fmt.Errorf("decoding %q: namespace %q not found", rec.Name, rec.Namespace)
		}
		obj := &model.CodeObject{
			Name:       rec.Name,
			Kind:       rec.Kind,
			Namespace:  parent,
			Source:     rec.Source,
			Docstring:  rec.Docstring,
			Value:      rec.Value,
			Superclass: rec.Superclass,
			File:       rec.File,
			Line:       rec.Line,
		}
		for name, acc := range rec.Attributes {
			obj.SetAttribute(name, model.Accessors{Read: acc.Read, Write: acc.Write})
		}
		if _, err := r.Add(obj); err != nil {
			return nil, fmt.Errorf("decoding %q: %w", rec.Name, err)
		}
	}
	return r, nil
}

// Save writes the registry to path, replacing any existing file atomically.
func (r *Registry) Save(path string) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("saving registry: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := r.Encode(tmp); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("saving registry: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("saving registry: %w", err)
	}
	return nil
}

// Load reads the registry stored at path. Loading the same file twice
// yields equivalent registries.
func Load(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return r, nil
}
