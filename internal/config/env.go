package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv copies variables from the given .env files (".env" when none
// are named) into the process environment. Missing files are ignored and
// variables already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// ApplyEnv overrides fields from WEEKGRID_* variables. Unparsable values are
// ignored.
func (c *Config) ApplyEnv() {
	if v, ok := getEnvString("WEEKGRID_LISTEN"); ok {
		c.Listen = v
	}
	if v, ok := getEnvString("WEEKGRID_TIMEZONE"); ok {
		c.Timezone = v
	}
	if v, ok := getEnvString("WEEKGRID_STORAGE_BACKEND"); ok {
		c.Storage.Backend = strings.ToLower(v)
	}
	if v, ok := getEnvString("WEEKGRID_STORAGE_PATH"); ok {
		c.Storage.Path = v
	}
	if v, ok := getEnvString("WEEKGRID_STORAGE_KEY"); ok {
		c.Storage.Key = v
	}
	if v, ok := getEnvString("WEEKGRID_REDIS_ADDR"); ok {
		c.Storage.Redis.Addr = v
	}
	if v, ok := getEnvString("WEEKGRID_REDIS_USERNAME"); ok {
		c.Storage.Redis.Username = v
	}
	if v, ok := getEnvString("WEEKGRID_REDIS_PASSWORD"); ok {
		c.Storage.Redis.Password = v
	}
	if v, ok := getEnvInt("WEEKGRID_REDIS_DB"); ok && v >= 0 {
		c.Storage.Redis.DB = v
	}
	if v, ok := getEnvDuration("WEEKGRID_REDIS_CONNECT_TIMEOUT"); ok && v > 0 {
		c.Storage.Redis.ConnectTimeout = v
	}
	if v, ok := getEnvInt("WEEKGRID_VIEW_START_HOUR"); ok {
		c.View.StartHour = v
	}
	if v, ok := getEnvInt("WEEKGRID_VIEW_END_HOUR"); ok {
		c.View.EndHour = v
	}
	if v, ok := getEnvString("WEEKGRID_LOG_LEVEL"); ok {
		c.Log.Level = strings.ToLower(v)
	}
	if v, ok := getEnvBool("WEEKGRID_LOG_PRETTY"); ok {
		c.Log.Pretty = v
	}
	if v, ok := getEnvString("WEEKGRID_LOG_FILE"); ok {
		c.Log.File = v
	}
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvDuration(name string) (time.Duration, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return 0, false
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return false, false
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
