package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/phobologic/rbdoc/internal/build"
	"github.com/phobologic/rbdoc/internal/handler"
)

func newBuildCommand(g *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	var (
		output string
		strict bool
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "build [path]",
		Short: "Parse Ruby files and write the registry cache",
		Long: `Parse every Ruby file under path (default: the current directory) and
write the resulting registry to the cache file.

The cache is reused without parsing when it is newer than every source
file; pass --force to rebuild anyway.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			return runBuild(cmd, g, root, output, strict, force, stdout, stderr)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "cache file to write (default: cache_file from config, in the current directory)")
	cmd.Flags().BoolVar(&strict, "strict", false, "report constructs that cannot be documented")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "rebuild even if the cache is up to date")

	return cmd
}

func runBuild(cmd *cobra.Command, g *globalFlags, root, output string, strict, force bool, stdout, stderr io.Writer) error {
	cfg, logger, err := g.setup(stderr)
	if err != nil {
		return err
	}

	root, err = filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", root)
	}

	if output == "" {
		output = cfg.CacheFile
	}
	mode := handler.ModeLenient
	if strict || cfg.Strict {
		mode = handler.ModeStrict
	}

	res, err := build.Run(cmd.Context(), build.Options{
		Root:        root,
		Output:      output,
		Mode:        mode,
		MaxFileSize: cfg.MaxFileSize,
		Force:       force,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	if res.Fresh {
		_, _ = fmt.Fprintf(stdout, "%s is up to date (%d objects)\n", output, res.Registry.Len())
		return nil
	}

	for _, d := range res.Diagnostics {
		_, _ = fmt.Fprintln(stderr, d.String())
	}
	_, _ = fmt.Fprintf(stdout, "%d files, %d objects, %d failed -> %s\n",
		res.Files, res.Registry.Len(), len(res.Failures), output)
	return nil
}
