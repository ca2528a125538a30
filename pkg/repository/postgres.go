package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const applicationName = "lunarwatch-journal"

// Config holds the call journal connection settings.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	DBName   string
	SSLMode  string
}

// DSN renders c as a lib/pq keyword/value string. Values are quoted so
// passwords with spaces or quotes survive.
func (c Config) DSN() string {
	pairs := [][2]string{
		{"host", c.Host},
		{"port", c.Port},
		{"user", c.Username},
		{"password", c.Password},
		{"dbname", c.DBName},
		{"sslmode", c.SSLMode},
		{"application_name", applicationName},
		{"connect_timeout", "5"},
	}

	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p[1] == "" {
			continue
		}
		parts = append(parts, p[0]+"="+quote(p[1]))
	}

	return strings.Join(parts, " ")
}

func quote(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// NewPostgresDB opens a small pool; journal writes come from a single worker.
func NewPostgresDB(ctx context.Context, c Config) (*sqlx.DB, error) {

	db, err := sqlx.Open("postgres", c.DSN())
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping journal db %s:%s: %w", c.Host, c.Port, err)
	}

	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxIdleTime(time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
