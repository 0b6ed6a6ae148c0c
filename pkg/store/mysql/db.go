package mysql

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

const (
	DefaultMaxOpenConns    = 10
	DefaultConnMaxLifetime = 2 * time.Minute
)

type Settings struct {
	Host            string
	Port            string
	User            string
	Password        string
	Database        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN renders the settings as a go-sql-driver DSN. Dates stay textual
// (parseTime is off) because the queries return SUBSTR'd date strings.
func (s Settings) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = s.User
	cfg.Passwd = s.Password
	cfg.Net = "tcp"
	cfg.Addr = s.Host
	if s.Port != "" {
		cfg.Addr = net.JoinHostPort(s.Host, s.Port)
	}
	cfg.DBName = s.Database
	cfg.ParseTime = false
	return cfg.FormatDSN()
}

// NewDB opens a bounded connection pool. Callers beyond MaxOpenConns wait for
// a free connection instead of failing. No connection is made until first use.
func NewDB(settings Settings) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", settings.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql pool: %w", err)
	}

	maxOpen := settings.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = DefaultMaxOpenConns
	}
	db.SetMaxOpenConns(maxOpen)

	maxIdle := settings.MaxIdleConns
	if maxIdle <= 0 || maxIdle > maxOpen {
		maxIdle = maxOpen
	}
	db.SetMaxIdleConns(maxIdle)

	lifetime := settings.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = DefaultConnMaxLifetime
	}
	db.SetConnMaxLifetime(lifetime)

	return db, nil
}

// Pinger checks that the pool can hand out a working connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

type pinger struct {
	db *sqlx.DB
}

func NewPinger(db *sqlx.DB) Pinger {
	return &pinger{db: db}
}

func (p *pinger) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var result int
	if err := p.db.QueryRowxContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
