package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override file settings.
const (
	EnvStreamURL      = "TOOLPANEL_STREAM_URL"
	EnvStreamToken    = "TOOLPANEL_STREAM_TOKEN"
	EnvStreamFile     = "TOOLPANEL_STREAM_FILE"
	EnvRedisAddr      = "TOOLPANEL_REDIS_ADDR"
	EnvRedisPassword  = "TOOLPANEL_REDIS_PASSWORD"
	EnvRedisDB        = "TOOLPANEL_REDIS_DB"
	EnvActionsURL     = "TOOLPANEL_ACTIONS_URL"
	EnvActionsToken   = "TOOLPANEL_ACTIONS_TOKEN"
	EnvInstalledLabel = "TOOLPANEL_INSTALLED_SUFFIX"
)

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// ApplyEnv overrides settings from lookup, normally os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	set(EnvStreamURL, &c.Stream.URL)
	set(EnvStreamToken, &c.Stream.Token)
	set(EnvStreamFile, &c.Stream.File)
	set(EnvRedisAddr, &c.Stream.Redis.Addr)
	set(EnvRedisPassword, &c.Stream.Redis.Password)
	set(EnvActionsURL, &c.Actions.BaseURL)
	set(EnvActionsToken, &c.Actions.Token)
	set(EnvInstalledLabel, &c.InstalledSuffix)

	if v, ok := lookup(EnvRedisDB); ok && v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRedisDB, err)
		}
		c.Stream.Redis.DB = db
	}
	return nil
}
