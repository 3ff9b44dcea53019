package config

import (
	"fmt"
	"os"
)

// configTemplate is the scaffold written by `cfsync init`.
const configTemplate = `# cfsync configuration
# Get an API key from https://console.curseforge.com/

api_key = ""

# Numeric CurseForge project ID of the mod or modpack to track.
mod_id = 0

download_dir = "./downloads"

# 432 is Minecraft.
game_id = 432

# Optional filters for the file listing.
# mod_loader = "forge"
# game_version = "1.21"

# debug, info, warn, or error.
log_level = "info"
`

// WriteTemplate scaffolds a config file at path. It refuses to overwrite
// an existing file.
func WriteTemplate(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists, not overwriting", path)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
