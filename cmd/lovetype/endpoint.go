package main

import (
	"fmt"

	"github.com/Veraticus/lovetype/internal/cli"
	"github.com/Veraticus/lovetype/internal/common"
	"github.com/Veraticus/lovetype/internal/session"
	"github.com/Veraticus/lovetype/internal/storage"
	"github.com/spf13/cobra"
)

func endpointCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "endpoint",
		Short: "Manage the compatibility service URL",
		Long: `Show, save or clear the base URL of the compatibility service.

A URL given with --api-base, LOVETYPE_API_BASE or api.base_url in the config
file takes precedence over the saved one.`,
	}

	// Subcommands
	cmd.AddCommand(endpointShowCmd())
	cmd.AddCommand(endpointSetCmd())
	cmd.AddCommand(endpointClearCmd())

	return cmd
}

func endpointShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the URL in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, session.NewMemoryStore())
			if err != nil {
				return err
			}
			defer a.Close()

			baseURL, err := a.runtime.BaseURL()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), baseURL)
			return err
		},
	}
}

func endpointSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <url>",
		Short: "Save the service URL",
		Long: `Save the base URL of the compatibility service.

The type catalog is fetched from the new URL to check it before saving;
use --no-verify to skip the check.`,
		Args: cobra.ExactArgs(1),
		RunE: runEndpointSet,
	}

	cmd.Flags().Bool("no-verify", false, "save without fetching the type catalog")

	return cmd
}

func runEndpointSet(cmd *cobra.Command, args []string) error {
	noVerify, _ := cmd.Flags().GetBool("no-verify")

	ctx := cmd.Context()
	a, err := newApp(ctx, session.NewMemoryStore())
	if err != nil {
		return err
	}
	defer a.Close()

	// Reconfiguring drops the cached catalog, so the check below hits the new URL.
	if err := a.runtime.SetBaseURL(args[0]); err != nil {
		return common.NewUserError("URLが正しくありません (http:// または https://)", err)
	}
	baseURL, err := a.runtime.BaseURL()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !noVerify {
		labels, err := a.catalog.Categories(ctx)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("%d タイプを確認しました", len(labels)))); err != nil {
			return err
		}
	}

	if err := a.storage.SetSetting(ctx, storage.SettingAPIBaseURL, baseURL); err != nil {
		return fmt.Errorf("failed to save endpoint: %w", err)
	}
	common.LogInfo("Saved endpoint", common.Fields{"base_url": baseURL})
	_, err = fmt.Fprintln(out, cli.FormatSuccess("API URLを保存しました: "+baseURL))
	return err
}

func endpointClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget the saved URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, session.NewMemoryStore())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.storage.DeleteSetting(ctx, storage.SettingAPIBaseURL); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("保存されたAPI URLを削除しました"))
			return err
		},
	}
}
