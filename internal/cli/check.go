package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// newCheckCmd creates the `check` command.
// Usage: cfsync check [--strict]
func newCheckCmd(flags *rootFlags) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report whether a download would be needed, without downloading",
		Long: `Queries the catalog, selects the install target, and evaluates it against
the local download directory and metadata. Nothing is downloaded.

With --strict, the command exits with a non-zero code when a download
would be needed. Useful in CI/CD pipelines and schedulers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(flags, strict)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with error code if a download is needed")

	return cmd
}

func runCheck(flags *rootFlags, strict bool) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	u := newUpdater(cfg)
	status, err := u.Check(context.Background())
	if err != nil {
		return err
	}

	if status.NeedsFetch {
		msg := fmt.Sprintf("Out of date: %s. Run 'cfsync' to download.", status.Reason)
		if strict {
			return fmt.Errorf("%s", msg)
		}
		fmt.Printf("⚠️  %s\n", msg)
		return nil
	}

	fmt.Printf("✅ %s is up to date.\n", status.Selected.FileName)
	return nil
}
