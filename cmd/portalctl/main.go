// Command portalctl drives the clinic portal API from a terminal. The login
// session is persisted between invocations.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/carepoint/portal-client/internal/app"
	"github.com/carepoint/portal-client/internal/config"
	"github.com/carepoint/portal-client/pkg/logger"
)

var (
	baseURL    string
	timeout    time.Duration
	jsonOutput bool

	portal *app.Portal
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:           "portalctl",
	Short:         "Clinic portal command line client",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(cmd.Context())
		if err != nil {
			return err
		}
		if baseURL != "" {
			cfg.API.BaseURL = baseURL
		}
		if timeout > 0 {
			cfg.API.Timeout = timeout
		}

		log := logger.Init(logger.Options{
			Level:   cfg.LogLevel,
			Pretty:  cfg.Pretty(),
			Service: "portalctl",
		})
		portal, err = app.NewPortal(cmd.Context(), cfg, log)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "api", "", "API base URL (overrides PORTAL_API_BASE_URL)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-request timeout")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print JSON instead of tables")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(employeesCmd)
	rootCmd.AddCommand(qualificationCmd)
	rootCmd.AddCommand(servicesCmd)
	rootCmd.AddCommand(feedbackCmd)
	rootCmd.AddCommand(bookCmd)
	rootCmd.AddCommand(dashboardCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if portal != nil {
		_ = portal.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", describe(err))
		os.Exit(1)
	}
}
