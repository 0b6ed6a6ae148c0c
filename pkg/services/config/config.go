package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/revenue-atlas/pkg/store/mysql"
	"github.com/de-tools/revenue-atlas/pkg/store/revenue"
	"github.com/spf13/viper"
)

const DefaultPort = "5000"

type Config struct {
	Port string

	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	DBMaxOpenConns     int
	DBMaxIdleConns     int
	DBConnLifetime     time.Duration
	DBQueryTimeout     time.Duration
	ExcludedDivisionID int

	LogLevel       string
	AllowedOrigins []string

	ArchiveBucket string
	ArchivePrefix string
}

var envBindings = map[string]string{
	"port":                 "PORT",
	"db.host":              "DB_HOST",
	"db.port":              "DB_PORT",
	"db.user":              "DB_USER",
	"db.password":          "DB_PASSWORD",
	"db.name":              "DB_NAME",
	"db.max_open_conns":    "DB_MAX_OPEN_CONNS",
	"db.max_idle_conns":    "DB_MAX_IDLE_CONNS",
	"db.conn_max_lifetime": "DB_CONN_MAX_LIFETIME",
	"db.query_timeout":     "DB_QUERY_TIMEOUT",
	"db.excluded_division": "EXCLUDED_DIVISION_ID",
	"log.level":            "LOG_LEVEL",
	"cors.allowed_origins": "CORS_ALLOWED_ORIGINS",
	"archive.bucket":       "EXPORT_ARCHIVE_BUCKET",
	"archive.prefix":       "EXPORT_ARCHIVE_PREFIX",
}

// Load reads the configuration from the environment. When optionFile is set,
// its [client] section provides database values the environment does not.
func Load(optionFile string) (*Config, error) {
	v := viper.New()
	v.SetDefault("port", DefaultPort)
	v.SetDefault("db.max_open_conns", mysql.DefaultMaxOpenConns)
	v.SetDefault("db.max_idle_conns", mysql.DefaultMaxOpenConns)
	v.SetDefault("db.conn_max_lifetime", mysql.DefaultConnMaxLifetime)
	v.SetDefault("db.query_timeout", time.Duration(0))
	v.SetDefault("db.excluded_division", revenue.ExcludedDivisionID)
	v.SetDefault("log.level", "info")
	v.SetDefault("cors.allowed_origins", "*")
	v.SetDefault("archive.prefix", "revenue")

	if optionFile != "" {
		client, err := LoadOptionFile(optionFile)
		if err != nil {
			return nil, err
		}
		client.applyDefaults(v)
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	cfg := &Config{
		Port:               v.GetString("port"),
		DBHost:             v.GetString("db.host"),
		DBPort:             v.GetString("db.port"),
		DBUser:             v.GetString("db.user"),
		DBPassword:         v.GetString("db.password"),
		DBName:             v.GetString("db.name"),
		DBMaxOpenConns:     v.GetInt("db.max_open_conns"),
		DBMaxIdleConns:     v.GetInt("db.max_idle_conns"),
		DBConnLifetime:     v.GetDuration("db.conn_max_lifetime"),
		DBQueryTimeout:     v.GetDuration("db.query_timeout"),
		ExcludedDivisionID: v.GetInt("db.excluded_division"),
		LogLevel:           v.GetString("log.level"),
		AllowedOrigins:     splitList(v.GetString("cors.allowed_origins")),
		ArchiveBucket:      v.GetString("archive.bucket"),
		ArchivePrefix:      v.GetString("archive.prefix"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid PORT %q: must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid PORT %d: must be between 1 and 65535", port))
	}
	if c.DBHost == "" {
		problems = append(problems, "DB_HOST is required")
	}
	if c.DBUser == "" {
		problems = append(problems, "DB_USER is required")
	}
	if c.DBName == "" {
		problems = append(problems, "DB_NAME is required")
	}
	if c.DBPort != "" {
		if _, err := strconv.Atoi(c.DBPort); err != nil {
			problems = append(problems, fmt.Sprintf("invalid DB_PORT %q: must be a number", c.DBPort))
		}
	}
	if c.DBMaxOpenConns < 1 {
		problems = append(problems, "DB_MAX_OPEN_CONNS must be at least 1")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) MySQL() mysql.Settings {
	return mysql.Settings{
		Host:            c.DBHost,
		Port:            c.DBPort,
		User:            c.DBUser,
		Password:        c.DBPassword,
		Database:        c.DBName,
		MaxOpenConns:    c.DBMaxOpenConns,
		MaxIdleConns:    c.DBMaxIdleConns,
		ConnMaxLifetime: c.DBConnLifetime,
	}
}

func (c *Config) Store() revenue.Settings {
	return revenue.Settings{
		ExcludedDivisionID: c.ExcludedDivisionID,
		QueryTimeout:       c.DBQueryTimeout,
	}
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
