package cli

import (
	"context"
	"fmt"
)

// runSync performs one synchronization pass against the live API.
func runSync(flags *rootFlags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	fmt.Printf("🔄 Syncing mod %d into %s...\n", cfg.ModID, cfg.DownloadDir)

	u := newUpdater(cfg)
	if _, err := u.Run(context.Background()); err != nil {
		return err
	}
	return nil
}
