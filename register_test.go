package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAddSearchPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		content     string
		entry       string
		want        string
		wantChanged bool
	}{
		{"empty file", "", "/a.rbdoc", "/a.rbdoc\n", true},
		{"append", "/a.rbdoc\n", "/b.rbdoc", "/a.rbdoc\n/b.rbdoc\n", true},
		{"missing trailing newline", "/a.rbdoc", "/b.rbdoc", "/a.rbdoc\n/b.rbdoc\n", true},
		{"already present", "# gems\n/a.rbdoc\n/b.rbdoc\n", "/a.rbdoc", "# gems\n/a.rbdoc\n/b.rbdoc\n", false},
		{"present with whitespace", "  /a.rbdoc  \n", "/a.rbdoc", "  /a.rbdoc  \n", false},
		{"comment does not count", "# /a.rbdoc\n", "/a.rbdoc", "# /a.rbdoc\n/a.rbdoc\n", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, changed := addSearchPath(tt.content, tt.entry)
			if got != tt.want || changed != tt.wantChanged {
				t.Errorf("addSearchPath(%q, %q) = %q, %v; want %q, %v",
					tt.content, tt.entry, got, changed, tt.want, tt.wantChanged)
			}
		})
	}
}

func TestRegisterWritesSearchPaths(t *testing.T) {
	t.Parallel()
	home := t.TempDir()
	cache := buildSampleCache(t)

	for i := 0; i < 2; i++ {
		var stdout, stderr bytes.Buffer
		if err := run([]string{"--home", home, "register", cache}, &stdout, &stderr); err != nil {
			t.Fatalf("register: %v\nstderr: %s", err, stderr.String())
		}
	}

	data, err := os.ReadFile(filepath.Join(home, "ri_search_paths"))
	if err != nil {
		t.Fatalf("reading search paths: %v", err)
	}
	if got := strings.Count(string(data), cache); got != 1 {
		t.Errorf("cache registered %d times:\n%s", got, data)
	}
}

func TestRegisterDryRun(t *testing.T) {
	t.Parallel()
	home := t.TempDir()
	cache := buildSampleCache(t)

	var stdout, stderr bytes.Buffer
	if err := run([]string{"--home", home, "register", "--dry-run", cache}, &stdout, &stderr); err != nil {
		t.Fatalf("register: %v", err)
	}
	if stdout.String() != cache+"\n" {
		t.Errorf("stdout = %q", stdout.String())
	}
	if _, err := os.Stat(filepath.Join(home, "ri_search_paths")); !os.IsNotExist(err) {
		t.Error("--dry-run should not write the file")
	}
}

func TestRegisterMissingCache(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	err := run([]string{"--home", t.TempDir(), "register", filepath.Join(t.TempDir(), "none.rbdoc")}, &stdout, &stderr)
	if err == nil {
		t.Fatal("expected error for missing cache file")
	}
}
