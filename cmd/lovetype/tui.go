package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Veraticus/lovetype/internal/common"
	"github.com/Veraticus/lovetype/internal/session"
	"github.com/Veraticus/lovetype/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func tuiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui [your-type] [partner-type]",
		Short: "Pick two types interactively",
		Long: `Open the interactive view: choose your type and your partner's type,
diagnose, then open the detail view or change the service URL.

Results live only as long as the view; they are not written to the CLI session.
Logs go to --log-file so they do not disturb the screen.`,
		Args: cobra.MaximumNArgs(2),
		RunE: runTUI,
	}

	cmd.Flags().String("log-file", "", "write logs to this file while the view is open")
	cmd.Flags().Bool("inline", false, "draw inline instead of using the alternate screen")

	return cmd
}

func runTUI(cmd *cobra.Command, args []string) error {
	logFile, _ := cmd.Flags().GetString("log-file")
	inline, _ := cmd.Flags().GetBool("inline")

	if err := redirectLogs(logFile); err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, session.NewMemoryStore())
	if err != nil {
		return err
	}
	defer a.Close()

	var primary, partner string
	if len(args) > 0 {
		primary = args[0]
	}
	if len(args) > 1 {
		partner = args[1]
	}

	return tui.Run(ctx,
		tui.WithEngine(a.engine),
		tui.WithRuntime(a.runtime),
		tui.WithSettings(a.storage),
		tui.WithTheme(a.theme),
		tui.WithPair(primary, partner),
		tui.WithAltScreen(!inline),
	)
}

// redirectLogs points the logger at path, or discards logs when path is empty.
func redirectLogs(path string) error {
	level, err := common.ParseLevel(viper.GetString("logging.level"))
	if err != nil {
		return err
	}

	var w io.Writer = io.Discard
	if path != "" {
		path = filepath.Clean(path)
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		// Closed at exit.
		w = f
	}
	return common.SetupLoggerTo(w, level, viper.GetString("logging.format"))
}
