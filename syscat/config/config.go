package config

import (
	"fmt"
	"path/filepath"
	"strings"

	internal "github.com/arcadeforge/system-catalog/syscat"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	SysCat SysCatConfig `mapstructure:"syscat"`
}

// SysCatConfig stores catalog related configurations.
type SysCatConfig struct {
	// Locale is the BCP 47 tag used for collation of the sorted list.
	Locale string `mapstructure:"locale"`
	// TitlesPath points at the optional tab-delimited localized titles file.
	// A missing or unreadable file is not an error; raw descriptions are used.
	TitlesPath string `mapstructure:"titlesPath"`
	// AvailablePath points at the optional identifier list marking systems
	// whose media is present.
	AvailablePath string `mapstructure:"availablePath"`
	// RememberLast restores the previously selected system on startup.
	RememberLast bool           `mapstructure:"rememberLast"`
	Database     DatabaseConfig `mapstructure:"database"`
}

// DatabaseConfig stores session state database connection details.
type DatabaseConfig struct {
	DSN  string `mapstructure:"dsn"`
	Type string `mapstructure:"type"`
}

var AppConfig Config

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath(filepath.Join("etc", internal.DefaultAppName))
		viper.AddConfigPath(internal.DefaultConfigPath)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Set default values
	viper.SetDefault("syscat.locale", internal.DefaultLocale)
	viper.SetDefault("syscat.titlesPath", internal.DefaultTitlesFile)
	viper.SetDefault("syscat.availablePath", internal.DefaultAvailableFile)
	viper.SetDefault("syscat.rememberLast", true)
	viper.SetDefault("syscat.database.dsn", internal.DefaultDatabaseDSN)
	viper.SetDefault("syscat.database.type", internal.DefaultDatabaseType)

	viper.AutomaticEnv()                                   // Read in environment variables that match
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // e.g. syscat.titlesPath becomes SYSCAT_TITLESPATH

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; defaults will be used. This is not an
			// error for the application to halt on.
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	err := viper.Unmarshal(&AppConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	return &AppConfig, nil
}
