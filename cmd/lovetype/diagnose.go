package main

import (
	"github.com/Veraticus/lovetype/internal/cli"
	"github.com/Veraticus/lovetype/internal/render"
	"github.com/spf13/cobra"
)

func diagnoseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagnose <your-type> <partner-type>",
		Short: "Diagnose the compatibility of two love types",
		Long: `Ask the compatibility service about an ordered pair of love types and
show the result.

Types must be listed by 'lovetype types'. Full-width and half-width spellings
are accepted. The result is kept for the session; run 'lovetype detail' to
see it again with the macro classification and ratios.`,
		Args: cobra.ExactArgs(2),
		RunE: runDiagnose,
	}

	cmd.Flags().StringP("output", "o", "text", "output format (text, json, yaml)")

	return cmd
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	d, err := a.engine.Diagnose(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format != cli.FormatText {
		return cli.Encode(out, format, d)
	}
	return writeResult(out, a.theme, render.ResultLayout, d.Result)
}
