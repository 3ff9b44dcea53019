package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kestrelmods/cfsync/internal/config"
	"github.com/kestrelmods/cfsync/internal/curse"
	"github.com/kestrelmods/cfsync/internal/updater"
)

// version is set at build time via -ldflags.
var version = "dev"

// rootFlags holds the flag overrides shared by the root and check commands.
type rootFlags struct {
	configFile  string
	modID       int
	downloadDir string
}

// NewRootCmd creates the top-level `cfsync` command. Running it with no
// subcommand performs one sync pass.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "cfsync",
		Short: "cfsync — keep a CurseForge mod's server pack in sync",
		Long: `cfsync polls the CurseForge API for the latest distributable file of a
single mod or modpack, preferring the server-targeted variant when one is
published, and downloads it only when the remote build differs from what
was last fetched.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(flags)
		},
	}

	root.PersistentFlags().StringVar(&flags.configFile, "config-file", config.DefaultConfigFile, "Path to the TOML configuration file")
	root.PersistentFlags().IntVar(&flags.modID, "mod-id", 0, "Override the configured mod ID")
	root.PersistentFlags().StringVar(&flags.downloadDir, "download-dir", "", "Override the configured download directory")

	root.AddCommand(newCheckCmd(flags))
	root.AddCommand(newConfigCmd(flags))
	root.AddCommand(newValidateCmd(flags))
	root.AddCommand(newInitCmd(flags))

	return root
}

// Execute runs the root command.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// loadConfig layers file, environment, and flag overrides into the
// effective configuration.
func loadConfig(flags *rootFlags) (config.Config, error) {
	cfg, err := config.Load(flags.configFile, nil)
	if err != nil {
		return cfg, err
	}
	if flags.modID > 0 {
		cfg.ModID = flags.modID
	}
	if flags.downloadDir != "" {
		cfg.DownloadDir = flags.downloadDir
	}
	return cfg, nil
}

// newLogger builds the diagnostic logger from the configured level.
func newLogger(cfg config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

// newUpdater wires a live catalog client and updater from the configuration.
func newUpdater(cfg config.Config) *updater.Updater {
	log := newLogger(cfg)
	client := curse.NewClient(curse.Options{
		APIKey: cfg.APIKey,
		Logger: log,
	})
	return updater.New(updater.Options{
		Catalog:     client,
		ModID:       cfg.ModID,
		DownloadDir: cfg.DownloadDir,
		Filters: curse.FileFilters{
			GameVersion: cfg.GameVersion,
			ModLoader:   cfg.ModLoader,
		},
		Logger: log,
	})
}
