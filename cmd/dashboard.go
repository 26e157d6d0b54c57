package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	dashboardrender "github.com/bnema/bizweb-cli/internal/adapters/render/dashboard"
	"github.com/bnema/bizweb-cli/internal/application"
	"github.com/spf13/cobra"
)

func newDashboardCmd(a *app) *cobra.Command {
	var (
		asJSON bool
		width  int
	)

	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"status"},
		Short:   "Show plan, credits, usage and transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var dashboard application.Dashboard
			err := runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Loading your dashboard...", func(ctx context.Context) error {
				var enterErr error
				dashboard, enterErr = a.dashboard.Enter(ctx)
				return enterErr
			})
			if err != nil {
				return err
			}

			return writeDashboardOutput(cmd, a, dashboard, asJSON, width)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the dashboard as JSON")
	cmd.Flags().IntVar(&width, "width", 0, "Truncate lines to this many columns (0 disables)")

	return cmd
}

func writeDashboardOutput(cmd *cobra.Command, a *app, dashboard application.Dashboard, asJSON bool, width int) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(dashboard)
	}

	rendered, err := a.renderDashboard(dashboard, dashboardrender.RenderOptions{Now: a.now(), Width: width})
	if err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}
