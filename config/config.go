// Package config loads the runtime settings shared by the croissant tools.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/alextaconet/en-croissant/pgn"
)

// Config carries the settings for session storage, the game database and
// the notation parser.
type Config struct {
	DataDir       string        `mapstructure:"data_dir"`
	SessionsDir   string        `mapstructure:"sessions_dir"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	MongoURI      string        `mapstructure:"mongo_uri"`
	MongoDatabase string        `mapstructure:"mongo_database"`
	ParseMaxBytes int           `mapstructure:"parse_max_bytes"`
	ParseMaxDepth int           `mapstructure:"parse_max_depth"`
}

// Load resolves the configuration from defaults, then the optional file at
// path, then CROISSANT_* environment variables. An empty path skips the file.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("data_dir", "data")
	v.SetDefault("sessions_dir", "sessions")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("session_ttl", 30*24*time.Hour)
	v.SetDefault("mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("mongo_database", "croissant")
	v.SetDefault("parse_max_bytes", pgn.DefaultMaxBytes)
	v.SetDefault("parse_max_depth", pgn.DefaultMaxDepth)

	v.SetEnvPrefix("CROISSANT")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
