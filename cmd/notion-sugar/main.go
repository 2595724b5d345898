package main

import (
	"context"
	"fmt"
	"os"

	"github.com/diwise/notion-sugar/internal/pkg/application/notifications"
	"github.com/diwise/notion-sugar/internal/pkg/application/sugar"
	"github.com/diwise/notion-sugar/internal/pkg/infrastructure/metrics"
	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/spf13/cobra"
)

const (
	appName string = "notion-sugar"
)

var (
	envFile      string
	databaseName string

	settings *Settings
	app      sugar.NotionSugar
	appStats *metrics.Metrics
	notifier notifications.Notifier
)

func main() {
	appVersion := buildinfo.SourceVersion()

	ctx, _, cleanup := o11y.Init(context.Background(), appName, appVersion, "json")

	err := rootCmd.ExecuteContext(ctx)
	cleanup()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "notion-sugar reads and writes Notion database rows as plain records",
	Long: `notion-sugar lists, adds, updates and deletes rows in Notion databases.

The Notion token and the default database are read from the environment
(NOTION_TOKEN, DATABASE_ID) or from a .env file. Named databases and their
fields can be configured in a yaml file pointed to by NOTION_SUGAR_CONFIG.`,
	SilenceUsage:       true,
	PersistentPreRunE:  initApplication,
	PersistentPostRunE: stopApplication,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "file to read environment settings from")
	rootCmd.PersistentFlags().StringVarP(&databaseName, "database", "d", DefaultDatabaseName, "name or id of the database to use")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", appName, buildinfo.SourceVersion())
	},
}

func initApplication(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	var err error

	settings, err = LoadSettings(envFile)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	app, appStats, notifier, err = newApplication(cmd.Context(), settings)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	return nil
}

func stopApplication(cmd *cobra.Command, args []string) error {
	if notifier != nil {
		return notifier.Stop()
	}
	return nil
}
