package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newConfigCmd creates the `config` command, which prints the effective
// configuration with the API key masked.
func newConfigCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			fmt.Println("📋 Current configuration:")
			fmt.Printf("   API key:      %s\n", cfg.MaskedAPIKey())
			fmt.Printf("   Mod ID:       %d\n", cfg.ModID)
			fmt.Printf("   Game ID:      %d\n", cfg.GameID)
			fmt.Printf("   Download dir: %s\n", cfg.DownloadDir)
			if cfg.ModLoader != "" {
				fmt.Printf("   Mod loader:   %s\n", cfg.ModLoader)
			}
			if cfg.GameVersion != "" {
				fmt.Printf("   Game version: %s\n", cfg.GameVersion)
			}
			fmt.Printf("   Log level:    %s\n", cfg.LogLevel)
			return nil
		},
	}
}
