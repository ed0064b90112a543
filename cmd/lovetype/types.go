package main

import (
	"fmt"

	"github.com/Veraticus/lovetype/internal/cli"
	"github.com/spf13/cobra"
)

func typesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List the love types offered by the service",
		Long: `Fetch the type catalog from the compatibility service.

These are the values accepted by 'lovetype diagnose'.`,
		RunE: runTypes,
	}

	cmd.Flags().StringP("output", "o", "text", "output format (text, json, yaml)")

	return cmd
}

func runTypes(cmd *cobra.Command, _ []string) error {
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

	labels, err := a.catalog.Categories(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format != cli.FormatText {
		return cli.Encode(out, format, labels)
	}
	for _, label := range labels {
		if _, err := fmt.Fprintln(out, label); err != nil {
			return err
		}
	}
	return nil
}

func outputFormat(cmd *cobra.Command) (cli.Format, error) {
	raw, _ := cmd.Flags().GetString("output")
	return cli.ParseFormat(raw)
}
