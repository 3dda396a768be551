package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/deepnoodle-ai/canvasbox/config"
	"github.com/deepnoodle-ai/canvasbox/internal/publish"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// imagePublisher uploads rendered images.
type imagePublisher interface {
	PNG(ctx context.Context, name string, data []byte) (string, error)
}

// app carries the process streams and collaborators so commands can be
// driven from tests.
type app struct {
	v      *viper.Viper
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	tty    bool

	newPublisher func(ctx context.Context, cfg *config.Config) (imagePublisher, error)
}

func newApp() *app {
	return &app{
		v:      viper.New(),
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		tty:    isTerminal(os.Stdout) && isTerminal(os.Stderr),
		newPublisher: func(ctx context.Context, cfg *config.Config) (imagePublisher, error) {
			return publish.NewS3(ctx, cfg.Publish.Bucket, cfg.Publish.Prefix, cfg.Publish.Region)
		},
	}
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// useColor reports whether output should carry ANSI colors.
func (a *app) useColor() bool {
	return a.tty && !a.v.GetBool("no-color")
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "canvasbox [file]",
		Short: "Evaluate sandboxed drawing scripts",
		Long: `Evaluate a JavaScript-like script in a sandbox. When the script's value is
a canvas or an image it is written as a PNG file; otherwise the value is
printed.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !a.useColor() {
				color.NoColor = true
			}
			return nil
		},
		RunE: a.runHandler,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default is $HOME/.canvasbox.yaml)")
	pf.Duration("timeout", 0, "maximum evaluation time")
	pf.Int("max-depth", 0, "maximum evaluation depth")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("log-format", "", "log format (console or json)")
	pf.String("bucket", "", "S3 bucket used by --publish")
	pf.Bool("no-color", false, "disable colored output")
	a.bind("config", pf.Lookup("config"))
	a.bind("timeout", pf.Lookup("timeout"))
	a.bind("max_depth", pf.Lookup("max-depth"))
	a.bind("log.level", pf.Lookup("log-level"))
	a.bind("log.format", pf.Lookup("log-format"))
	a.bind("publish.bucket", pf.Lookup("bucket"))
	a.bind("no-color", pf.Lookup("no-color"))

	f := root.Flags()
	f.StringP("code", "c", "", "code to evaluate")
	f.Bool("stdin", false, "read code from stdin")
	f.StringP("output", "o", "", "output format for non-image values (json or text)")
	f.String("out", "output.png", "where to write image results")
	f.Bool("publish", false, "upload image results to S3")
	f.Bool("timing", true, "print the evaluation time")
	root.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return outputFormats, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(a.batchCmd(), a.docCmd(), a.versionCmd())
	return root
}

// bind registers a flag with viper; an unchanged flag does not override the
// config file or environment.
func (a *app) bind(key string, flag *pflag.Flag) {
	if err := a.v.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

func main() {
	a := newApp()
	if err := a.rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("%s", err))
		os.Exit(1)
	}
}
