package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Veraticus/lovetype/internal/cli"
	"github.com/Veraticus/lovetype/internal/session"
	"github.com/spf13/cobra"
)

func healthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check the compatibility service",
		Args:  cobra.NoArgs,
		RunE:  runHealth,
	}

	cmd.Flags().StringP("output", "o", "text", "output format (text, json, yaml)")

	return cmd
}

func runHealth(cmd *cobra.Command, _ []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, session.NewMemoryStore())
	if err != nil {
		return err
	}
	defer a.Close()

	h, err := a.client.Health(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format != cli.FormatText {
		return cli.Encode(out, format, h)
	}

	lines := []string{cli.FormatSuccess(h.Status)}
	if !h.OK() {
		lines[0] = cli.FormatWarning(h.Status)
	}

	names := make([]string, 0, len(h.Components))
	for name := range h.Components {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("%s: %s", name, h.Components[name]))
	}

	_, err = fmt.Fprintln(out, cli.RenderBox("サービス状態", strings.Join(lines, "\n")))
	return err
}
