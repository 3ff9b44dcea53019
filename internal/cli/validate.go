package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kestrelmods/cfsync/internal/curse"
)

// newValidateCmd creates the `validate` command, which probes the API with
// the configured credential.
func newValidateCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the API key against the CurseForge API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if cfg.APIKey == "" {
				return fmt.Errorf("no API key configured")
			}

			fmt.Println("🔑 Validating API key...")
			client := curse.NewClient(curse.Options{
				APIKey: cfg.APIKey,
				Logger: newLogger(cfg),
			})
			if err := client.ValidateKey(context.Background(), cfg.GameID); err != nil {
				return fmt.Errorf("API key validation failed: %w", err)
			}

			fmt.Println("✅ API key is valid.")
			return nil
		},
	}
}
