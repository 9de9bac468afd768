package postgres

import (
	"context"
	"fmt"
	"net/url"

	"github.com/STTM-NSU/currency-transformer/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const _driverName = "postgres"

// NewDB opens the process-wide pool and pings it so a bad DATABASE_URL fails
// at startup instead of on the first request.
func NewDB(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open(_driverName, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: can't open db", err)
	}
	Configure(db, cfg)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: can't ping db", err)
	}

	return db, nil
}

func Configure(db *sqlx.DB, cfg config.DatabaseConfig) {
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
}

// Redact hides the password of a connection URL for logging.
func Redact(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" {
		return "[redacted]"
	}
	if u.User == nil {
		return dsn
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
