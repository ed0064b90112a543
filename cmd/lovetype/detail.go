package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/Veraticus/lovetype/internal/cli"
	"github.com/Veraticus/lovetype/internal/model"
	"github.com/Veraticus/lovetype/internal/render"
	"github.com/spf13/cobra"
)

func detailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detail",
		Short: "Show the session's last diagnosis in detail",
		Long: `Show the result of the last 'lovetype diagnose' in this session with the
macro classification, quadrant, ratios and candidate list.

The stored result is shown as is; the service is not contacted again.`,
		Args: cobra.NoArgs,
		RunE: runDetail,
	}

	cmd.Flags().StringP("output", "o", "text", "output format (text, json, yaml)")

	return cmd
}

func runDetail(cmd *cobra.Command, _ []string) error {
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

	d, err := a.engine.Detail(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format != cli.FormatText {
		return cli.Encode(out, format, d)
	}

	if _, err := fmt.Fprintln(out, cli.FormatTitle(d.Request.Primary.String()+" × "+d.Request.Partner.String())); err != nil {
		return err
	}
	if err := writeResult(out, a.theme, render.DetailLayout, d.Result); err != nil {
		return err
	}
	return writeCandidates(out, d.Result.Candidates)
}

func writeCandidates(w io.Writer, candidates []model.Candidate) error {
	if len(candidates) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, cli.TableHeaderStyle.Render("候補")); err != nil {
		return err
	}
	for i, c := range candidates {
		distance := render.NoValue
		if c.Distance.Valid {
			distance = strconv.FormatFloat(c.Distance.Value, 'f', -1, 64)
		}
		if _, err := fmt.Fprintf(w, "%d. %s  %s\n", i+1, c.Name, distance); err != nil {
			return err
		}
	}
	return nil
}
