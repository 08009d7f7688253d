// Package db implements the relational data-access layer for employees and
// departments on top of GORM. Every DAO operation runs on one dedicated
// connection taken from a Source and released before the operation returns.
package db

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	e "github.com/gartstein/personnel/internal/personnel/errors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config describes how to reach the store.
type Config struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	// Path is the database file (or sqlite URI) for the sqlite driver.
	Path string

	MaxIdleConns int
	MaxOpenConns int

	// LogLevel is one of silent, error, warn, info. Defaults to warn.
	LogLevel      string
	SlowThreshold time.Duration
}

func (c *Config) dialector() (gorm.Dialector, error) {
	switch c.Driver {
	case DriverPostgres, "":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
		return postgres.Open(dsn), nil
	case DriverSQLite:
		if c.Path == "" {
			return nil, fmt.Errorf("%w: sqlite path is empty", e.ErrInvalidInput)
		}
		return sqlite.Open(c.Path), nil
	default:
		return nil, fmt.Errorf("%w: unsupported driver %q", e.ErrInvalidInput, c.Driver)
	}
}

func (c *Config) logLevel() gormlogger.LogLevel {
	switch strings.ToLower(c.LogLevel) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// Source hands out store connections. The underlying *gorm.DB is opened on
// first use and shared by every DAO built on the same Source.
type Source struct {
	cfg    *Config
	logger *zap.Logger

	mu sync.Mutex
	db *gorm.DB
}

// NewSource returns a Source for cfg. No connection is made until the first
// call that needs one.
func NewSource(cfg *Config, logger *zap.Logger) *Source {
	return &Source{
		cfg:    cfg,
		logger: logger.Named("db"),
	}
}

func (s *Source) open() (*gorm.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db, nil
	}

	dialector, err := s.cfg.dialector()
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(s.logger, s.cfg.SlowThreshold).LogMode(s.cfg.logLevel()),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to database: %w", e.ErrConnectivity, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", e.ErrStore, err)
	}
	if s.cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(s.cfg.MaxIdleConns)
	}
	if s.cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(s.cfg.MaxOpenConns)
	}

	s.logger.Debug("database opened", zap.String("driver", s.cfg.Driver))
	s.db = db
	return db, nil
}

// Connection runs fn on a single connection. The connection is released when
// fn returns, whether it succeeded, failed or panicked.
func (s *Source) Connection(ctx context.Context, fn func(tx *gorm.DB) error) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Connection(fn)
}

// Ping checks that the store is reachable.
func (s *Source) Ping(ctx context.Context) error {
	err := s.Connection(ctx, func(tx *gorm.DB) error {
		return tx.Exec("SELECT 1").Error
	})
	if err != nil {
		return wrap("ping", err)
	}
	return nil
}

// Close releases the underlying database handle, if it was opened.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	s.db = nil
	return db.Close()
}
