// Package config centralises all environment configuration for the API.
// It should be imported only by `cmd/server` (and test code). Business-logic
// layers receive an already-built Config instance via dependency-injection.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends accepted by STORE_BACKEND.
const (
	BackendFile  = "file"
	BackendMongo = "mongo"
)

// Config holds every runtime option the server needs.
// Keep it flat and simple; prefer primitive types over embedding structs.
type Config struct {
	// Network
	Port string

	// Data stores
	StoreBackend string
	DataFile     string
	MongoURI     string
	DBName       string

	// Session revocation; empty RedisAddr keeps revocations in memory.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Files
	UploadsDir  string
	FrontendDir string

	// Server tuning
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Sessions
	TokenSecret string
	TokenTTL    time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// Assistant
	AssistantSignOff  bool
	AssistantTimezone string
}

// Load reads an optional .env file and the process environment into Config.
// It returns an error on missing or inconsistent settings so
// mis-configurations fail fast.
func Load() (Config, error) {
	// godotenv.Load() is a no-op if .env doesn't exist; safe in production.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)

	cfg := Config{
		Port:              v.GetString("PORT"),
		StoreBackend:      strings.ToLower(v.GetString("STORE_BACKEND")),
		DataFile:          v.GetString("DATA_FILE"),
		MongoURI:          v.GetString("MONGODB_URI"),
		DBName:            v.GetString("MONGODB_DB"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		RedisDB:           v.GetInt("REDIS_DB"),
		UploadsDir:        v.GetString("UPLOADS_DIR"),
		FrontendDir:       v.GetString("FRONTEND_DIR"),
		ReadTimeout:       seconds(v.GetInt("READ_TIMEOUT_SEC")),
		WriteTimeout:      seconds(v.GetInt("WRITE_TIMEOUT_SEC")),
		TokenSecret:       v.GetString("TOKEN_SECRET"),
		TokenTTL:          time.Duration(v.GetInt("TOKEN_TTL_HOURS")) * time.Hour,
		LogLevel:          strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:         strings.ToLower(v.GetString("LOG_FORMAT")),
		AssistantSignOff:  v.GetBool("ASSISTANT_SIGN_OFF"),
		AssistantTimezone: v.GetString("ASSISTANT_TIMEZONE"),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "2173")
	v.SetDefault("STORE_BACKEND", BackendFile)
	v.SetDefault("DATA_FILE", "data/database.json")
	v.SetDefault("MONGODB_DB", "marketplace")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("UPLOADS_DIR", "uploads")
	v.SetDefault("FRONTEND_DIR", "frontend")
	v.SetDefault("READ_TIMEOUT_SEC", 5)
	v.SetDefault("WRITE_TIMEOUT_SEC", 10)
	v.SetDefault("TOKEN_TTL_HOURS", 72)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("ASSISTANT_SIGN_OFF", false)
}

func (c Config) validate() error {
	if c.TokenSecret == "" {
		return fmt.Errorf("TOKEN_SECRET is required")
	}
	switch c.StoreBackend {
	case BackendFile:
		if c.DataFile == "" {
			return fmt.Errorf("DATA_FILE is required for the file backend")
		}
	case BackendMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGODB_URI is required for the mongo backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL_HOURS must be positive")
	}
	if c.AssistantTimezone != "" {
		if _, err := time.LoadLocation(c.AssistantTimezone); err != nil {
			return fmt.Errorf("ASSISTANT_TIMEZONE: %w", err)
		}
	}
	return nil
}

// Location resolves the assistant's display timezone, defaulting to local.
func (c Config) Location() *time.Location {
	if c.AssistantTimezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.AssistantTimezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
