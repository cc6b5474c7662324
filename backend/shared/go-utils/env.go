package utils

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads ".env.<env>" and then ".env" from dir, skipping missing files.
// Variables already set win over both, and ".env.<env>" wins over ".env".
func LoadDotEnv(dir, env string) error {
	var files []string
	if env != "" {
		files = append(files, filepath.Join(dir, ".env."+strings.ToLower(env)))
	}
	files = append(files, filepath.Join(dir, ".env"))

	for _, path := range files {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		Logger.Debugf("Loading environment from %s", path)
		if err := godotenv.Load(path); err != nil {
			return err
		}
	}
	return nil
}

// GetEnvDefault returns the value of key, or def when unset or blank.
func GetEnvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// GetEnvInt parses key as an int, falling back to def when unset or malformed.
func GetEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		Logger.Warnf("Invalid %s '%s', defaulting to %d", key, raw, def)
		return def
	}
	return v
}

// GetEnvList splits a comma separated variable, dropping blank items. def is
// returned when the variable is unset or holds no items.
func GetEnvList(key string, def []string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
