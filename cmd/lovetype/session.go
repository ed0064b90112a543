package main

import (
	"fmt"

	"github.com/Veraticus/lovetype/internal/cli"
	"github.com/Veraticus/lovetype/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage the diagnosis session",
		Long: `A session keeps the last diagnosis so 'lovetype detail' can show it.
Sessions expire after session.ttl (default 24h).`,
	}

	cmd.AddCommand(sessionShowCmd())
	cmd.AddCommand(sessionEndCmd())

	return cmd
}

func sessionShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "session: %s\n", a.results.SessionID()); err != nil {
				return err
			}

			d, err := a.results.Take(ctx)
			if err != nil {
				_, err = fmt.Fprintln(out, cli.SubtleStyle.Render("(no diagnosis yet)"))
				return err
			}
			_, err = fmt.Fprintf(out, "last: %s × %s (%s)\n",
				d.Request.Primary, d.Request.Partner, d.CreatedAt.Local().Format("2006-01-02 15:04"))
			return err
		},
	}
}

func sessionEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end",
		Short: "End the session and discard its result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			settings, err := config.FromViper(viper.GetViper())
			if err != nil {
				return err
			}
			store, err := initStorage(ctx, settings.DatabasePath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.EndSession(ctx); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("セッションを終了しました"))
			return err
		},
	}
}
