package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/obeidat/hrdesk/internal/config"
	"github.com/obeidat/hrdesk/internal/version"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show hrdesk status and configuration summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("hrdesk %s (commit %s)\n\n", version.Version, version.Commit)

			fmt.Printf("Config:  %s\n", paths.Config)
			fmt.Printf("Data:    %s\n", paths.Data)
			fmt.Printf("Reports: %s\n", paths.Reports)
			fmt.Println()

			cfg, err := config.Load(paths.Config)
			if err != nil {
				if os.IsNotExist(err) {
					fmt.Println("Config:  not found (using defaults)")
				} else {
					fmt.Printf("Config:  error loading: %v\n", err)
				}
				return nil
			}

			fmt.Printf("Gateway: port=%d bind=%s\n", cfg.Gateway.Port, cfg.Gateway.Bind)

			fmt.Printf("Engine:  provider=%s model=%s", cfg.Engine.Provider, cfg.Engine.Model)
			if len(cfg.Engine.Fallbacks) > 0 {
				fmt.Printf(" fallbacks=%d", len(cfg.Engine.Fallbacks))
			}
			if cfg.Engine.APIKey == "" && cfg.Engine.Provider != "mock" {
				fmt.Print(" (no API key)")
			}
			fmt.Println()

			fmt.Printf("Session: store=%s\n", cfg.Session.Store)
			fmt.Printf("Confirm: ttl=%dm maxPending=%d\n", cfg.Confirm.TTLMinutes, cfg.Confirm.MaxPending)
			fmt.Printf("Agent:   name=%s\n", cfg.Agent.Name)

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				fmt.Printf("\nValidation issues (%d):\n", len(issues))
				for _, issue := range issues {
					fmt.Printf("  - %s: %s\n", issue.Path, issue.Message)
				}
			}

			return nil
		},
	}

	return cmd
}
