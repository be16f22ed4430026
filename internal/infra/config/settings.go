// Package config loads application settings.
// Priority: setting.json > environment > defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vkarpenko/faultlog/internal/app/config"
)

// RawSettings represents the structure of the setting.json file.
type RawSettings struct {
	DBPath      *string `json:"db_path"`
	AccessFile  *string `json:"access_file"`
	RecentHours *int    `json:"recent_hours"`
}

// LoadSettings loads configuration for the given base directory.
func LoadSettings(baseDir string) (*config.AppConfig, error) {
	settings := &RawSettings{}
	configSource := "default"
	settingPath := ""

	jsonPath := filepath.Join(baseDir, "setting.json")
	if data, err := os.ReadFile(jsonPath); err == nil {
		if err := json.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", jsonPath, err)
		}
		configSource = "json"
		settingPath = jsonPath
	}

	if configSource == "default" && applyEnv(settings) {
		configSource = "env"
	}

	applyDefaults(settings)

	return config.NewAppConfig(
		*settings.DBPath,
		*settings.AccessFile,
		time.Duration(*settings.RecentHours)*time.Hour,
		configSource,
		settingPath,
	), nil
}

// applyEnv fills unset fields from the environment and reports whether any
// variable was present
func applyEnv(settings *RawSettings) bool {
	found := false
	if v := os.Getenv("FAULTLOG_DB_PATH"); v != "" && settings.DBPath == nil {
		settings.DBPath = &v
		found = true
	}
	if v := os.Getenv("FAULTLOG_ACCESS_FILE"); v != "" && settings.AccessFile == nil {
		settings.AccessFile = &v
		found = true
	}
	if v := os.Getenv("FAULTLOG_RECENT_HOURS"); v != "" && settings.RecentHours == nil {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			settings.RecentHours = &n
			found = true
		}
	}
	return found
}

// applyDefaults fills in default values for any nil fields
func applyDefaults(settings *RawSettings) {
	if settings.DBPath == nil {
		v := "faultlog.db"
		settings.DBPath = &v
	}
	if settings.AccessFile == nil {
		v := "access_user.json"
		settings.AccessFile = &v
	}
	if settings.RecentHours == nil {
		v := 24
		settings.RecentHours = &v
	}
}
