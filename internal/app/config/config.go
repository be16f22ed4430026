package config

import "time"

// Config provides read-only access to application configuration.
// The interface hides the configuration source (setting.json, ENV, defaults)
// so the app layer doesn't depend on infrastructure details.
type Config interface {
	// DBPath returns the SQLite database path (FAULTLOG_DB_PATH)
	DBPath() string

	// AccessFilePath returns the JSON access-control file path (FAULTLOG_ACCESS_FILE)
	AccessFilePath() string

	// RecentWindow returns the trailing window for the recent-history view
	// (FAULTLOG_RECENT_HOURS)
	RecentWindow() time.Duration

	// ConfigSource reports where the configuration came from: "json", "env", or "default"
	ConfigSource() string

	// SettingPath returns the path of setting.json if one was loaded
	SettingPath() string
}

// AppConfig is the concrete implementation of Config.
type AppConfig struct {
	dbPath         string
	accessFilePath string
	recentWindow   time.Duration

	configSource string
	settingPath  string
}

// NewAppConfig creates an AppConfig with all values resolved
func NewAppConfig(
	dbPath string,
	accessFilePath string,
	recentWindow time.Duration,
	configSource string,
	settingPath string,
) *AppConfig {
	return &AppConfig{
		dbPath:         dbPath,
		accessFilePath: accessFilePath,
		recentWindow:   recentWindow,
		configSource:   configSource,
		settingPath:    settingPath,
	}
}

func (c *AppConfig) DBPath() string              { return c.dbPath }
func (c *AppConfig) AccessFilePath() string      { return c.accessFilePath }
func (c *AppConfig) RecentWindow() time.Duration { return c.recentWindow }
func (c *AppConfig) ConfigSource() string        { return c.configSource }
func (c *AppConfig) SettingPath() string         { return c.settingPath }
