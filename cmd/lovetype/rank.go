package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/Veraticus/lovetype/internal/cli"
	"github.com/Veraticus/lovetype/internal/engine"
	"github.com/mattn/go-runewidth"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func rankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rank <your-type>",
		Short: "Rank every partner type by compatibility",
		Long: `Diagnose your type against every type in the catalog and list the
partners from the highest confidence to the lowest.

Requests run concurrently (rank.concurrency, default 4). The session's stored
result is not changed.`,
		Args: cobra.ExactArgs(1),
		RunE: runRank,
	}

	cmd.Flags().StringP("output", "o", "text", "output format (text, json, yaml)")
	cmd.Flags().IntP("concurrency", "c", 0, "concurrent requests (default: rank.concurrency)")
	cmd.Flags().Bool("no-progress", false, "hide the progress bar")

	return cmd
}

func runRank(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "ランキングを中断しました")
	ctx, stop := handler.HandleInterrupts(cmd.Context())
	defer stop()

	a, err := newApp(ctx, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	if concurrency <= 0 {
		concurrency = a.runtime.Settings().RankConcurrency
	}

	opts := engine.RankOptions{Concurrency: concurrency}
	if !noProgress {
		var bar *progressbar.ProgressBar
		opts.Progress = func(done, total int) {
			if bar == nil {
				bar = cli.NewProgressBar(cmd.ErrOrStderr(), total, "相性を診断中...")
			}
			cli.Advance(bar, done)
		}
	}

	entries, err := a.engine.Rank(ctx, args[0], opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format != cli.FormatText {
		return cli.Encode(out, format, entries)
	}
	return writeRanking(out, entries)
}

func writeRanking(w io.Writer, entries []engine.RankEntry) error {
	nameWidth := 0
	for _, e := range entries {
		nameWidth = max(nameWidth, runewidth.StringWidth(e.Partner.String()))
	}

	for i, e := range entries {
		name := runewidth.FillRight(e.Partner.String(), nameWidth)
		var line string
		if e.Err != nil {
			line = fmt.Sprintf("%3d. %s  %s", i+1, name, cli.FormatError(e.Error))
		} else {
			confidence := strconv.Itoa(e.Result.ConfidencePercent) + "%"
			line = fmt.Sprintf("%3d. %s  %4s  %s", i+1, name, confidence, e.Result.DisplayMicroType)
			if e.Result.IsHybrid() {
				line += "  " + cli.SubtleStyle.Render(e.Result.HybridLabel)
			}
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
