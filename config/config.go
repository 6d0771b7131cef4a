package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/icodeforyou/histoplot-go/gradient"
	"github.com/icodeforyou/histoplot-go/logging"
	"github.com/spf13/viper"
)

type AppConfigApi struct {
	Address string
	Port    int16
	// If not assigned, the server will serve embedded files.
	// If assigned, the server will serve files from the directory,
	// that must contain a "static" and "templates" directory.
	// This is useful for development.
	WwwDir *string `mapstructure:"www_dir"`
	// Key used to sign the session cookie holding flash messages
	SessionKey string `mapstructure:"session_key"`
}

type AppConfigDatabase struct {
	Path string
	// How many days a stored dataset is kept before it gets purged
	DataRetentionDays *int `mapstructure:"data_retention_days"`
	// How many days daily backup files should be stored before they gets deleted
	BackupRetentionDays *int `mapstructure:"backup_retention_days"`
}

func (d AppConfigDatabase) GetDataRetentionDays() int {
	if d.DataRetentionDays == nil {
		return 90
	}
	return *d.DataRetentionDays
}

func (d AppConfigDatabase) GetBackupRetentionDays() int {
	if d.BackupRetentionDays == nil {
		return 90
	}
	return *d.BackupRetentionDays
}

type AppConfigGradient struct {
	// Initial color range shown in the min/max fields, default: 0 to 1
	Min *float64 `mapstructure:"min"`
	Max *float64 `mapstructure:"max"`
	// "rainbow", "grayscale" or "RdYlGn", default: "rainbow"
	Palette *string `mapstructure:"palette"`
}

func (g AppConfigGradient) GetRange() gradient.Range {
	r := gradient.Range{Min: 0, Max: 1}
	if g.Min != nil {
		r.Min = *g.Min
	}
	if g.Max != nil {
		r.Max = *g.Max
	}
	return r
}

func (g AppConfigGradient) GetPalette() (gradient.Palette, error) {
	name := ""
	if g.Palette != nil {
		name = *g.Palette
	}
	p, ok := gradient.PaletteByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown gradient palette %q", name)
	}
	return p, nil
}

type AppConfigMqtt struct {
	// Broker host, leave empty to disable the MQTT feed
	Host     string
	Port     int16
	Username string
	Password string
	ClientId *string `mapstructure:"client_id"`
	// Topics are <prefix>/<surface>/render and <prefix>/<surface>/recolor, default: "histoplot"
	TopicPrefix *string `mapstructure:"topic_prefix"`
}

func (m AppConfigMqtt) Enabled() bool {
	return m.Host != ""
}

func (m AppConfigMqtt) GetClientId() string {
	if m.ClientId == nil {
		return "histoplot"
	}
	return *m.ClientId
}

func (m AppConfigMqtt) GetTopicPrefix() string {
	if m.TopicPrefix == nil {
		return "histoplot"
	}
	return strings.TrimSuffix(*m.TopicPrefix, "/")
}

type AppConfigMaintenance struct {
	// Cron spec for backup and purge, default: "30 2 * * *"
	RunAt *string `mapstructure:"run_at"`
}

func (m AppConfigMaintenance) GetRunAt() string {
	if m.RunAt == nil {
		return "30 2 * * *"
	}
	return *m.RunAt
}

type AppConfigLogging struct {
	// Min log level for database : "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	DbLevel *string `mapstructure:"db_level"`
	// Log attributes format: "TEXT", "JSON", default: "JSON"
	DbAttrsFormat *string `mapstructure:"db_attrs_format"`
	// Maximum number of log entries in the database, default: 10000
	DbMaxEntries *int `mapstructure:"db_max_entries"`
	// Min log level for database console: "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	ConsoleLevel *string `mapstructure:"console_level"`
	// Optional log file, rotated by size
	File *string `mapstructure:"file"`
	// Max size in megabytes before the log file is rotated, default: 10
	FileMaxSizeMb *int `mapstructure:"file_max_size_mb"`
	// Number of rotated log files to keep, default: 3
	FileMaxBackups *int `mapstructure:"file_max_backups"`
}

func (l AppConfigLogging) GetDbLevel() slog.Level {
	return logging.LevelFromString(l.DbLevel)
}

func (l AppConfigLogging) GetDbAttrsFormat() logging.LogAttrFormat {
	if l.DbAttrsFormat == nil {
		return logging.LogAttrFormatJSON
	}
	if strings.EqualFold(*l.DbAttrsFormat, "text") {
		return logging.LogAttrFormatText
	}
	return logging.LogAttrFormatJSON
}

func (l AppConfigLogging) GetDbMaxEntries() int {
	if l.DbMaxEntries == nil {
		return 10000
	}
	return *l.DbMaxEntries
}

func (l AppConfigLogging) GetConsoleLevel() slog.Level {
	return logging.LevelFromString(l.ConsoleLevel)
}

func (l AppConfigLogging) GetFileMaxSizeMb() int {
	if l.FileMaxSizeMb == nil {
		return 10
	}
	return *l.FileMaxSizeMb
}

func (l AppConfigLogging) GetFileMaxBackups() int {
	if l.FileMaxBackups == nil {
		return 3
	}
	return *l.FileMaxBackups
}

type AppConfig struct {
	Api         AppConfigApi
	Database    AppConfigDatabase
	Gradient    AppConfigGradient    `mapstructure:"gradient"`
	Mqtt        AppConfigMqtt        `mapstructure:"mqtt"`
	Maintenance AppConfigMaintenance `mapstructure:"maintenance"`
	Logging     AppConfigLogging     `mapstructure:"logging"`
}

func Load(path string) (*AppConfig, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("config")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var c AppConfig

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config file: %w", err)
	}

	if _, err := c.Gradient.GetPalette(); err != nil {
		return nil, err
	}

	return &c, nil
}
