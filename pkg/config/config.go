package config

import (
	"fmt"
	"lunarwatch/pkg/consts"
	"lunarwatch/pkg/repository"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const defaultTimeout = 30 * time.Second

// Config is resolved once at startup and handed to the handlers.
type Config struct {
	NasaKey     string
	BaseURL     string
	Timeout     time.Duration
	Port        string
	CorsOrigins []string
	LogLevel    logrus.Level
	DB          repository.Config
}

// JournalEnabled reports whether the call journal has a database to write to.
func (c *Config) JournalEnabled() bool {
	return c.DB.Host != ""
}

// Load reads the given .env files (".env" when none given) and then the
// process environment. Missing env files are not an error.
func Load(files ...string) (*Config, error) {

	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load env file %s: %w", f, err)
		}
	}

	return FromEnv(os.Getenv)
}

func FromEnv(getenv func(string) string) (*Config, error) {

	cfg := &Config{
		NasaKey:     strings.TrimSpace(getenv(consts.NasaKey)),
		BaseURL:     strings.TrimRight(valueOr(getenv(consts.NasaBaseURL), consts.DefaultBaseURL), "/"),
		Timeout:     defaultTimeout,
		Port:        valueOr(getenv(consts.Port), consts.DefaultPort),
		CorsOrigins: splitOrigins(valueOr(getenv(consts.CorsOrigin), consts.DefaultOrigin)),
		LogLevel:    logrus.InfoLevel,
		DB: repository.Config{
			Host:     getenv(consts.DBHost),
			Port:     valueOr(getenv(consts.DBPort), "5432"),
			Username: getenv(consts.DBUsername),
			Password: getenv(consts.DBPassword),
			DBName:   getenv(consts.DBName),
			SSLMode:  valueOr(getenv(consts.DBSSLMode), "disable"),
		},
	}

	if p, err := strconv.Atoi(cfg.Port); err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid %s %q", consts.Port, cfg.Port)
	}

	if v := getenv(consts.NasaTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid %s %q", consts.NasaTimeout, v)
		}
		cfg.Timeout = d
	}

	if v := getenv(consts.LogLevel); v != "" {
		lvl, err := logrus.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", consts.LogLevel, err)
		}
		cfg.LogLevel = lvl
	}

	return cfg, nil
}

func valueOr(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

func splitOrigins(v string) []string {
	var out []string
	for _, o := range strings.Split(v, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
