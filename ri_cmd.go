package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phobologic/rbdoc/internal/ri"
	"github.com/phobologic/rbdoc/internal/toon"
)

func newRICommand(g *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	var cacheFile string

	cmd := &cobra.Command{
		Use:   "ri NAME...",
		Short: "Show documentation objects by path",
		Long: `Look up each NAME (e.g. Shapes::Point or Shapes::Point#x) and print it in
TOON format.

The current directory's cache file is searched first, then the cache file
that answered NAME last time, then every configured search path.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRI(g, args, cacheFile, stdout, stderr)
		},
	}

	cmd.Flags().StringVarP(&cacheFile, "cache", "c", "", "current-directory cache file (default: cache_file from config)")

	return cmd
}

func runRI(g *globalFlags, names []string, cacheFile string, stdout, stderr io.Writer) (err error) {
	cfg, logger, err := g.setup(stderr)
	if err != nil {
		return err
	}
	if cacheFile == "" {
		cacheFile = cfg.CacheFile
	}

	finder, err := ri.New(ri.Options{
		DefaultFile:     cacheFile,
		MemoFile:        cfg.MemoFile(),
		SearchPathsFile: cfg.SearchPathsFile(),
		ExtraPaths:      cfg.SearchPaths,
		Logger:          logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := finder.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	var missing []string
	printed := 0
	for _, name := range names {
		res, err := finder.Find(name)
		if err != nil {
			return err
		}
		if !res.Found() {
			missing = append(missing, name)
			continue
		}
		if printed > 0 {
			_, _ = fmt.Fprintln(stdout)
		}
		_, _ = fmt.Fprintln(stdout, toon.Encode(res.Object))
		printed++
	}

	if len(missing) > 0 {
		return fmt.Errorf("no documentation for %s", strings.Join(missing, ", "))
	}
	return nil
}
