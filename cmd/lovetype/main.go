package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Veraticus/lovetype/internal/cli"
	"github.com/Veraticus/lovetype/internal/common"
	"github.com/Veraticus/lovetype/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	version = "dev"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lovetype",
		Short: "💞 Love type compatibility client",
		Long: `lovetype: pick two love types and ask the compatibility service how they fit.

Results show the macro and micro classification, five dimension scores,
a feature/advice description and a confidence percentage. The latest result
is kept for the session so 'lovetype detail' can show it again.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/lovetype/config.yaml)")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console, json)")
	flags.String("api-base", "", "compatibility service base URL")
	flags.String("db", "", "database path (default: $HOME/.local/share/lovetype/lovetype.db)")
	flags.String("theme", "default", "color theme (default, mono)")

	// Bind flags to viper
	_ = viper.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", flags.Lookup("log-format"))
	_ = viper.BindPFlag("api.base_url", flags.Lookup("api-base"))
	_ = viper.BindPFlag("database.path", flags.Lookup("db"))
	_ = viper.BindPFlag("ui.theme", flags.Lookup("theme"))

	// Add commands
	rootCmd.AddCommand(typesCmd())
	rootCmd.AddCommand(diagnoseCmd())
	rootCmd.AddCommand(detailCmd())
	rootCmd.AddCommand(rankCmd())
	rootCmd.AddCommand(endpointCmd())
	rootCmd.AddCommand(sessionCmd())
	rootCmd.AddCommand(healthCmd())
	rootCmd.AddCommand(tuiCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func main() {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := newRootCmd().ExecuteContext(ctx)
	cancel() // Always cleanup

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(userMessage(err)))
		os.Exit(1)
	}
}

// userMessage turns a command error into one line for the terminal.
func userMessage(err error) string {
	common.LogDebug("Command failed", common.Fields{"error": err.Error()})
	return common.Diagnose(err)
}

func initConfig(_ *cobra.Command, _ []string) error {
	config.SetDefaults(viper.GetViper())
	viper.SetDefault("logging.level", "warn")
	viper.SetDefault("logging.format", "console")
	viper.SetDefault("ui.theme", "default")

	// Set up config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		// Search for config in standard locations
		viper.AddConfigPath(fmt.Sprintf("%s/.config/lovetype", home))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Environment variables: LOVETYPE_API_BASE_URL, LOVETYPE_DATABASE_PATH, ...
	viper.SetEnvPrefix("LOVETYPE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("api.base_url", "LOVETYPE_API_BASE", "LOVETYPE_API_BASE_URL")

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	// Set up logging
	if err := setupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

func setupLogging() error {
	level, err := common.ParseLevel(viper.GetString("logging.level"))
	if err != nil {
		return err
	}
	return common.SetupLogger(level, viper.GetString("logging.format"))
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "lovetype %s\n", version)
			return err
		},
	}
}
