package utils

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Throttle  ThrottleConfig
	WatchList WatchListConfig
	Admin     AdminConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type CORSConfig struct {
	AllowedOrigins []string
}

// ThrottleConfig holds "N/period" rates per scope, e.g. "10/minute".
type ThrottleConfig struct {
	ReviewCreate    string
	ReviewDetail    string
	GlobalPerMinute int
}

type WatchListConfig struct {
	PageSize    int
	MaxPageSize int
}

// AdminConfig seeds an admin account on startup when Username is set.
type AdminConfig struct {
	Username string
	Email    string
	Password string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "watchmate")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "")
	viper.SetDefault("THROTTLE_REVIEW_CREATE", "10/minute")
	viper.SetDefault("THROTTLE_REVIEW_DETAIL", "60/minute")
	viper.SetDefault("THROTTLE_GLOBAL_PER_MINUTE", 0)
	viper.SetDefault("WATCHLIST_PAGE_SIZE", 4)
	viper.SetDefault("WATCHLIST_MAX_PAGE_SIZE", 100)

	// .env is optional, the environment alone is enough
	if err := viper.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Throttle: ThrottleConfig{
			ReviewCreate:    viper.GetString("THROTTLE_REVIEW_CREATE"),
			ReviewDetail:    viper.GetString("THROTTLE_REVIEW_DETAIL"),
			GlobalPerMinute: viper.GetInt("THROTTLE_GLOBAL_PER_MINUTE"),
		},
		WatchList: WatchListConfig{
			PageSize:    viper.GetInt("WATCHLIST_PAGE_SIZE"),
			MaxPageSize: viper.GetInt("WATCHLIST_MAX_PAGE_SIZE"),
		},
		Admin: AdminConfig{
			Username: viper.GetString("ADMIN_USERNAME"),
			Email:    viper.GetString("ADMIN_EMAIL"),
			Password: viper.GetString("ADMIN_PASSWORD"),
		},
	}

	return config, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
