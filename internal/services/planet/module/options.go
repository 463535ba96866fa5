package module

import (
	"time"

	"osmwatch/internal/platform/config"
)

// Options holds planet module configuration
type Options struct {
	Source     string
	Start      time.Time
	DataDir    string
	CitiesFile string
	Users      []string
	UsersFile  string
}

// FromConfig reads CORE_PLANET_* plus the shared CORE_* run keys
func FromConfig(cfg config.Conf) Options {
	core := cfg.Prefix("CORE_")
	return Options{
		Source:     cfg.Prefix("CORE_PLANET_").MayString("SOURCE", ""),
		Start:      core.MayTime("START", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		DataDir:    core.MayString("DATA_DIR", "data"),
		CitiesFile: core.MayString("CITIES_FILE", ""),
		Users:      core.MayCSV("USERS", nil),
		UsersFile:  core.MayString("USERS_FILE", ""),
	}
}
