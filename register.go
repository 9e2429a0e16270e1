package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func newRegisterCommand(g *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "register [cache-file]",
		Short: "Add a cache file to the ri search paths",
		Long: `Add the absolute path of a cache file (default: cache_file from config,
in the current directory) to <home>/ri_search_paths so that 'rbdoc ri' can
find its objects from any directory. Registering the same file twice is a
no-op.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(g, args, dryRun, stdout, stderr)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the updated search path file without writing it")

	return cmd
}

func runRegister(g *globalFlags, args []string, dryRun bool, stdout, stderr io.Writer) error {
	cfg, logger, err := g.setup(stderr)
	if err != nil {
		return err
	}

	cacheFile := cfg.CacheFile
	if len(args) > 0 {
		cacheFile = args[0]
	}
	cacheFile, err = filepath.Abs(cacheFile)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", cacheFile, err)
	}
	if _, err := os.Stat(cacheFile); err != nil {
		return fmt.Errorf("cache file: %w", err)
	}

	path := cfg.SearchPathsFile()
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	updated, changed := addSearchPath(string(existing), cacheFile)

	if dryRun {
		_, _ = fmt.Fprint(stdout, updated)
		return nil
	}
	if !changed {
		logger.Info("already registered", "path", cacheFile)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	_, _ = fmt.Fprintf(stderr, "registered %s in %s\n", cacheFile, path)
	return nil
}

// addSearchPath appends entry to a search path file's content unless a line
// already names it. Comments and blank lines are kept as they are.
func addSearchPath(content, entry string) (string, bool) {
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == entry {
			return content, false
		}
	}
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + entry + "\n", true
}
