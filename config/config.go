/*
Package config loads runtime configuration from file and environment.

Configuration is read with viper: defaults first, then an optional .env
file in the working directory, then environment variables. Command-line
flags in cmd/server keep precedence over everything here.
*/
package config

import (
	"github.com/spf13/viper"
)

// Config holds every runtime setting of the server.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Export   ExportConfig
}

type ServerConfig struct {
	Port int
}

type DatabaseConfig struct {
	// Path of the SQLite ledger file. ":memory:" runs without persistence.
	Path string
}

type ExportConfig struct {
	// Dir receives exported .xlsx files.
	Dir string
}

// Load returns the configuration with defaults applied.
func Load() *Config {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()
	viper.ReadInConfig() // missing .env is fine, env and defaults cover it

	viper.BindEnv("server.port", "POS_PORT")
	viper.BindEnv("database.path", "POS_DATABASE_PATH")
	viper.BindEnv("export.dir", "POS_EXPORT_DIR")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("database.path", "./data/transactions.db")
	viper.SetDefault("export.dir", "./exports")

	return &Config{
		Server: ServerConfig{
			Port: viper.GetInt("server.port"),
		},
		Database: DatabaseConfig{
			Path: viper.GetString("database.path"),
		},
		Export: ExportConfig{
			Dir: viper.GetString("export.dir"),
		},
	}
}
