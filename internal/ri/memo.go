package ri

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Memo maps object paths to the cache file that last resolved them. On disk
// it is one "name file" pair per line; fields holding whitespace or quotes
// are written as Go-quoted strings. Later lines win.
type Memo struct {
	entries map[string]string
	pending []memoEntry
}

type memoEntry struct {
	name, file string
}

func newMemo() *Memo {
	return &Memo{entries: make(map[string]string)}
}

// Lookup returns the cache file memoized for name.
func (m *Memo) Lookup(name string) (string, bool) {
	f, ok := m.entries[name]
	return f, ok
}

// Record remembers that file resolved name. Entries already known are not
// written again.
func (m *Memo) Record(name, file string) {
	if m.entries[name] == file {
		return
	}
	m.entries[name] = file
	m.pending = append(m.pending, memoEntry{name: name, file: file})
}

// Len returns the number of memoized names.
func (m *Memo) Len() int {
	return len(m.entries)
}

// readMemo loads the memo at path. A missing file yields an empty memo.
func readMemo(path string) (*Memo, error) {
	m := newMemo()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, err
	}
	defer f.Close()

	if err := m.decode(f); err != nil {
		return nil, fmt.Errorf("reading memo %s: %w", path, err)
	}
	return m, nil
}

func (m *Memo) decode(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, rest, err := nextField(line)
		if err != nil {
			continue
		}
		file, _, err := nextField(rest)
		if err != nil || name == "" || file == "" {
			continue
		}
		m.entries[name] = file
	}
	return sc.Err()
}

// flush appends pending entries to path.
func (m *Memo) flush(path string) error {
	if len(m.pending) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for _, e := range m.pending {
		fmt.Fprintf(w, "%s %s\n", encodeField(e.name), encodeField(e.file))
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	m.pending = nil
	return nil
}

func encodeField(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\r\n\"\\") {
		return strconv.Quote(s)
	}
	return s
}

// nextField splits the first field off line.
func nextField(line string) (field, rest string, err error) {
	line = strings.TrimLeft(line, " \t")
	if strings.HasPrefix(line, `"`) {
		q, err := strconv.QuotedPrefix(line)
		if err != nil {
			return "", "", err
		}
		field, err = strconv.Unquote(q)
		return field, line[len(q):], err
	}
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		return line[:i], line[i:], nil
	}
	return line, "", nil
}

// readSearchPaths returns the non-blank, non-comment lines of path. A
// missing file yields no paths.
func readSearchPaths(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading search paths %s: %w", path, err)
	}
	return out, nil
}
