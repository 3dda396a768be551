package main

import (
	"context"
	goerrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/canvasbox"
	"github.com/deepnoodle-ai/canvasbox/config"
)

func (a *app) runHandler(cmd *cobra.Command, args []string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	code, err := a.readCode(cmd, args)
	if err != nil {
		return err
	}
	var filename string
	if len(args) > 0 {
		filename = args[0]
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger := a.newLogger(cfg, a.stderr)
	ctx = logger.WithContext(ctx)

	start := time.Now()
	result, err := canvasbox.Eval(ctx, canvasbox.StripCodeBlock(code), a.evalOptions(cfg, logger, filename)...)
	elapsed := time.Since(start)
	if err != nil {
		return a.formatError(err)
	}

	out, err := canvasbox.Render(result)
	if err != nil {
		return err
	}
	if out.IsImage() {
		path, _ := cmd.Flags().GetString("out")
		if err := a.writeImage(ctx, cfg, cmd, path, out.PNG); err != nil {
			return err
		}
	} else {
		format, _ := cmd.Flags().GetString("output")
		text, err := a.formatValue(ctx, result, out, format)
		if err != nil {
			return err
		}
		if text != "" {
			fmt.Fprintln(a.stdout, text)
		}
	}

	if timing, _ := cmd.Flags().GetBool("timing"); timing {
		fmt.Fprintln(a.stderr, a.dim("took "+stopwatch(elapsed)))
	}
	return nil
}

// readCode picks the single input source: --code, --stdin or a file.
func (a *app) readCode(cmd *cobra.Command, args []string) (string, error) {
	codeSet := cmd.Flags().Changed("code")
	stdinSet, _ := cmd.Flags().GetBool("stdin")
	fileProvided := len(args) > 0

	count := 0
	for _, set := range []bool{codeSet, stdinSet, fileProvided} {
		if set {
			count++
		}
	}
	switch {
	case count > 1:
		return "", goerrors.New("multiple input sources specified")
	case count == 0:
		return "", goerrors.New("no input: pass a file, --code or --stdin")
	}

	if stdinSet {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	if fileProvided {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	code, _ := cmd.Flags().GetString("code")
	return code, nil
}

// writeImage stores a rendered image at path and, with --publish, uploads
// it as well.
func (a *app) writeImage(ctx context.Context, cfg *config.Config, cmd *cobra.Command, path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "wrote %s (%s)\n", path, byteSize(len(data)))

	if publish, _ := cmd.Flags().GetBool("publish"); !publish {
		return nil
	}
	publisher, err := a.newPublisher(ctx, cfg)
	if err != nil {
		return err
	}
	location, err := publisher.PNG(ctx, filepath.Base(path), data)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "published %s\n", location)
	return nil
}
