package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// DevSecretKey signs session cookies when running in debug mode without a configured key.
const DevSecretKey = "qms-dev-secret-change-me"

type Config struct {
	Server struct {
		Addr        string   `mapstructure:"addr"`
		MetricsAddr string   `mapstructure:"metrics_addr"`
		Mode        string   `mapstructure:"mode"`
		SecretKey   string   `mapstructure:"secret_key"`
		CORSOrigins []string `mapstructure:"cors_origins"`
	} `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Session  struct {
		Store      string `mapstructure:"store"`
		CookieName string `mapstructure:"cookie_name"`
		Secure     bool   `mapstructure:"secure"`
	} `mapstructure:"session"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
	Log  LogConfig `mapstructure:"log"`
	Auth struct {
		BcryptCost int `mapstructure:"bcrypt_cost"`
	} `mapstructure:"auth"`
	// Users is the credential table. It is read once at startup and never changes at runtime.
	Users []UserEntry `mapstructure:"users"`
}

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Path     string `mapstructure:"path"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// UserEntry is one row of the credential table. PasswordHash must be a bcrypt hash.
type UserEntry struct {
	Username     string `mapstructure:"username" yaml:"username"`
	PasswordHash string `mapstructure:"password_hash" yaml:"password_hash"`
	Role         string `mapstructure:"role" yaml:"role"`
}

var envKeys = []string{
	"server.addr",
	"server.metrics_addr",
	"server.mode",
	"server.secret_key",
	"server.cors_origins",
	"database.driver",
	"database.path",
	"database.host",
	"database.port",
	"database.user",
	"database.password",
	"database.name",
	"session.store",
	"session.cookie_name",
	"session.secure",
	"redis.addr",
	"redis.password",
	"redis.db",
	"log.level",
	"log.format",
	"auth.bcrypt_cost",
}

// Load reads configuration from the environment (QMS_ prefix, optionally seeded from .env)
// and an optional YAML file. An empty path searches for config.yaml in . and ../
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.WithError(err).Warn("Could not read .env file")
	}

	v := viper.New()
	v.SetEnvPrefix("QMS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}

	// Defaults
	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.metrics_addr", ":9091")
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "qms.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.name", "qms")
	v.SetDefault("session.store", "database")
	v.SetDefault("session.cookie_name", "qms_session")
	v.SetDefault("session.secure", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("auth.bcrypt_cost", bcrypt.DefaultCost)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("../")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
			log.Info("config.yaml not found, using environment variables only")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unsupported server.mode %q", c.Server.Mode)
	}

	switch c.Database.Driver {
	case "sqlite", "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}

	switch c.Session.Store {
	case "database", "redis":
	default:
		return fmt.Errorf("unsupported session.store %q", c.Session.Store)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log.format %q", c.Log.Format)
	}

	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("auth.bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	if c.Server.SecretKey == "" {
		if c.Server.Mode != "debug" {
			return errors.New("server.secret_key is required (QMS_SERVER_SECRET_KEY)")
		}
		log.Warn("server.secret_key not set, using the development key")
		c.Server.SecretKey = DevSecretKey
	}

	return nil
}
