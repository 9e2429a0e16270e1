// rbdoc extracts documentation objects from Ruby source trees and looks them
// up again by path.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/phobologic/rbdoc/internal/config"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	home       string
	configFile string
	logLevel   string
}

func run(args []string, stdout, stderr io.Writer) error {
	cmd := newRootCommand(stdout, stderr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "rbdoc",
		Short: "Extract and query Ruby documentation objects",
		Long: `rbdoc parses Ruby source into a registry of namespaces, classes,
constants and attributes, saves it to a cache file, and looks objects up
again by their fully-qualified path.

Examples:
  rbdoc build                  # index the current directory into .rbdoc
  rbdoc build lib --strict     # report Struct.new calls that cannot be documented
  rbdoc ri Shapes::Point       # show one object
  rbdoc register               # make ./.rbdoc searchable from anywhere`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.PersistentFlags().StringVar(&g.home, "home", "", "rbdoc home directory (default ~/.rbdoc)")
	cmd.PersistentFlags().StringVar(&g.configFile, "config", "", "config file (default <home>/config.toml)")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error")

	cmd.AddCommand(
		newBuildCommand(g, stdout, stderr),
		newRICommand(g, stdout, stderr),
		newRegisterCommand(g, stdout, stderr),
		newVersionCommand(stdout),
	)
	return cmd
}

func newVersionCommand(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the rbdoc version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _ = fmt.Fprintf(stdout, "rbdoc %s\n", version)
			return nil
		},
	}
}

// setup loads the configuration and builds the logger for a subcommand.
func (g *globalFlags) setup(stderr io.Writer) (*config.Config, *log.Logger, error) {
	cfg, err := config.Load(config.LoadOptions{Home: g.home, ConfigFile: g.configFile})
	if err != nil {
		return nil, nil, err
	}

	levelName := cfg.LogLevel
	if g.logLevel != "" {
		levelName = g.logLevel
	}
	level, err := log.ParseLevel(levelName)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q", levelName)
	}

	logger := log.NewWithOptions(stderr, log.Options{Prefix: "rbdoc", Level: level})
	return cfg, logger, nil
}
