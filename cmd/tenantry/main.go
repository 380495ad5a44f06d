// Command tenantry runs the multi-tenant account service.
package main

//go:generate swag init -g ../../internal/account/http/router.go -d ../../internal/account/http,../../pkg/accountsdk -o ../../api/account --packageName account --parseDependency

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/aussiebroadwan/tenantry/internal/account/app"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "tenantry",
	Short:         "Multi-tenant account service",
	Long:          "tenantry serves sign-up, sign-in, invitations and company onboarding over HTTP.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := app.LoadConfig()
		logger := app.NewLogger(cfg)

		db, err := app.OpenStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.ApplyMigrations(); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		logger.Info("database migrations applied successfully", "driver", cfg.DatabaseDriver)
		return nil
	},
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run one housekeeping pass: expired invites and orphaned businesses",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.New(cmd.Context(), app.LoadConfig())
		if err != nil {
			return err
		}

		report := application.Sweep(cmd.Context())
		return json.NewEncoder(cmd.OutOrStdout()).Encode(report)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the application version information",
	Run: func(cmd *cobra.Command, args []string) {
		info := map[string]string{
			"version":   app.BuildVersion,
			"goVersion": runtime.Version(),
			"platform":  runtime.GOOS + "/" + runtime.GOARCH,
		}
		b, _ := json.Marshal(info)
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
	},
}

func serve(ctx context.Context) error {
	application, err := app.New(ctx, app.LoadConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return application.Run()
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, sweepCmd, versionCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "tenantry: %v\n", err)
		os.Exit(1)
	}
}
