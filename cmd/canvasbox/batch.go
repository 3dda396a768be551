package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/remeh/sizedwaitgroup"
	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/canvasbox"
)

func (a *app) batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <files...>",
		Short: "Evaluate many scripts concurrently",
		Long: `Evaluate each file in its own sandbox. Image results are written to the
output directory as <name>.png; other values are printed as "<file>: <value>".`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.batchHandler,
	}
	cmd.Flags().IntP("concurrency", "j", 4, "number of scripts evaluated at once")
	cmd.Flags().String("out-dir", ".", "directory for image results")
	cmd.Flags().Bool("publish", false, "upload image results to S3")
	return cmd
}

func (a *app) batchHandler(cmd *cobra.Command, files []string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	outDir, _ := cmd.Flags().GetString("out-dir")
	if concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", concurrency)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	ctx := cmd.Context()
	logger := a.newLogger(cfg, a.stderr)
	ctx = logger.WithContext(ctx)

	var publisher imagePublisher
	if publish, _ := cmd.Flags().GetBool("publish"); publish {
		if publisher, err = a.newPublisher(ctx, cfg); err != nil {
			return err
		}
	}

	var (
		mu     sync.Mutex
		result *multierror.Error
	)
	report := func(format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(a.stdout, format, args...)
	}
	fail := func(file string, err error) {
		mu.Lock()
		defer mu.Unlock()
		result = multierror.Append(result, fmt.Errorf("%s: %w", file, a.formatError(err)))
	}

	start := time.Now()
	swg := sizedwaitgroup.New(concurrency)
	for _, file := range files {
		swg.Add()
		go func(file string) {
			defer swg.Done()
			data, err := os.ReadFile(file)
			if err != nil {
				fail(file, err)
				return
			}
			opts := a.evalOptions(cfg, logger.With().Str("file", file).Logger(), file)
			value, err := canvasbox.Eval(ctx, canvasbox.StripCodeBlock(string(data)), opts...)
			if err != nil {
				fail(file, err)
				return
			}
			out, err := canvasbox.Render(value)
			if err != nil {
				fail(file, err)
				return
			}
			if !out.IsImage() {
				report("%s: %s\n", file, out.Text)
				return
			}
			name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)) + ".png"
			path := filepath.Join(outDir, name)
			if err := os.WriteFile(path, out.PNG, 0o644); err != nil {
				fail(file, err)
				return
			}
			report("%s: wrote %s (%s)\n", file, path, byteSize(len(out.PNG)))
			if publisher != nil {
				location, err := publisher.PNG(ctx, name, out.PNG)
				if err != nil {
					fail(file, err)
					return
				}
				report("%s: published %s\n", file, location)
			}
		}(file)
	}
	swg.Wait()

	failed := 0
	if result != nil {
		failed = len(result.Errors)
	}
	fmt.Fprintln(a.stderr, a.dim(fmt.Sprintf("%d scripts, %d failed, took %s", len(files), failed, stopwatch(time.Since(start)))))
	return result.ErrorOrNil()
}
