package main

import (
	"encoding/json"
	"fmt"

	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/canvasbox"
)

func (a *app) docCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "doc [topic]",
		Aliases: []string{"d"},
		Short:   "Show documentation for globals, modules, types and errors",
		Example: `  canvasbox doc
  canvasbox doc Canvas.blur
  canvasbox doc --category errors`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []canvasbox.DocsOption
			if category, _ := cmd.Flags().GetString("category"); category != "" {
				opts = append(opts, canvasbox.DocsCategory(category))
			}
			if len(args) > 0 {
				opts = append(opts, canvasbox.DocsTopic(args[0]))
			}
			return a.printJSON(canvasbox.Docs(opts...).Data())
		},
	}
	cmd.Flags().String("category", "", "globals, modules, types, syntax or errors")
	return cmd
}

func (a *app) versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format, _ := cmd.Flags().GetString("output"); format == "json" {
				return a.printJSON(map[string]any{
					"version": version,
					"commit":  commit,
					"date":    date,
				})
			}
			fmt.Fprintln(a.stdout, version)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "", "output format (json or text)")
	return cmd
}

func (a *app) printJSON(v any) error {
	var (
		data []byte
		err  error
	)
	if a.useColor() {
		data, err = prettyjson.Marshal(v)
	} else {
		data, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, string(data))
	return nil
}
