// database/connection.go
package database

import (
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql" // MariaDB/MySQL driver
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"go.uber.org/zap"

	"github.com/gewnthar/tzimport/config"
)

// Store is the handle every component shares for the lifetime of a run.
type Store struct {
	db        *sqlx.DB
	dialect   dialect
	logger    *zap.Logger
	closeOnce sync.Once
	closeErr  error
}

// Open connects to the configured database and verifies the connection.
func Open(cfg config.DatabaseConfig, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	d, err := dialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(d.driver, dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if d.driver == config.DriverSQLite {
		// One connection: keeps :memory: databases and TEMP tables on a single
		// handle, and SQLite allows one writer anyway.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger = logger.Named("database")
	logger.Info("connected to database", zap.String("driver", d.driver))
	return &Store{db: db, dialect: d, logger: logger}, nil
}

func dsn(cfg config.DatabaseConfig) string {
	if cfg.Driver == config.DriverMySQL {
		// username:password@protocol(address)/dbname?param=value
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
		)
	}
	return cfg.Path + "?_busy_timeout=5000"
}

// DB exposes the underlying handle for read-only tooling.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Close releases the connection pool. Calling it more than once is safe.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.db.Close()
		s.logger.Info("database connection closed")
	})
	return s.closeErr
}
