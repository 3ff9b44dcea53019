package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kestrelmods/cfsync/internal/config"
)

// newInitCmd creates the `init` command, which scaffolds a config file.
func newInitCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a cfsync.toml configuration file from the template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteTemplate(flags.configFile); err != nil {
				return err
			}
			fmt.Printf("✅ Created %s. Edit it and add your API key.\n", flags.configFile)
			return nil
		},
	}
}
