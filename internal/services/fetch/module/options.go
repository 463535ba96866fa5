package module

import (
	"time"

	"osmwatch/internal/platform/config"
)

// Options holds fetch module configuration
type Options struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int

	PageDelay time.Duration
	UserDelay time.Duration
	Every     time.Duration

	Start      time.Time
	DataDir    string
	CitiesFile string
	Users      []string
	UsersFile  string
}

// FromConfig reads CORE_FETCH_* plus the shared CORE_* run keys
func FromConfig(cfg config.Conf) Options {
	core := cfg.Prefix("CORE_")
	f := cfg.Prefix("CORE_FETCH_")
	return Options{
		BaseURL:    f.MayString("BASE_URL", ""),
		UserAgent:  f.MayString("USER_AGENT", ""),
		Timeout:    f.MayDuration("TIMEOUT", 30*time.Second),
		MaxRetries: f.MayInt("MAX_RETRIES", 3),

		PageDelay: f.MayDuration("PAGE_DELAY", time.Second),
		UserDelay: f.MayDuration("USER_DELAY", 2*time.Second),
		Every:     f.MayDuration("EVERY", 0),

		Start:      core.MayTime("START", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		DataDir:    core.MayString("DATA_DIR", "data"),
		CitiesFile: core.MayString("CITIES_FILE", ""),
		Users:      core.MayCSV("USERS", nil),
		UsersFile:  core.MayString("USERS_FILE", ""),
	}
}
