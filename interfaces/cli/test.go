package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/workflow-go/application"
	"github.com/felixgeelhaar/workflow-go/infrastructure/config"
	"github.com/felixgeelhaar/workflow-go/infrastructure/provider"
)

// newTestCmd creates the test command, which probes the configured provider
// without running a workflow.
func (a *App) newTestCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the connection to the configured provider",
		Long: `Probe the provider selected in the configuration file with the
configured credentials, without running a workflow turn.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.NewLoader().Load(configPath, config.WithEnvExpansion(true))
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			ctrl := application.NewController(provider.NewRegistry())
			if _, err := ctrl.TestProviderConnection(cmd.Context(), *settings); err != nil {
				return fmt.Errorf("connection to %s failed: %w", settings.Provider, err)
			}

			fmt.Fprintf(a.stdout, "Connection to %s succeeded.\n", settings.Provider)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (required)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
