package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"time"

	"catalog-service/internal/util"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

//go:embed schema.sql
var schema string

// ErrConnection is returned when the database cannot be reached. The message never
// carries the connection string or credentials.
var ErrConnection = errors.New("database connection failed")

// Options tunes the connection pool
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultOptions mirrors the pool sizing used in production
var DefaultOptions = Options{
	MaxOpenConns:    25,
	MaxIdleConns:    5,
	ConnMaxLifetime: 5 * time.Minute,
}

// Store owns the process-wide database handle shared by every repository
type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string, opts Options) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		util.GetLogger().Error("Database connect failed",
			zap.String("target", RedactURL(databaseURL)))
		return nil, fmt.Errorf("%w: %s", ErrConnection, RedactURL(databaseURL))
	}

	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %s", ErrConnection, RedactURL(databaseURL))
	}

	return &Store{db: db}, nil
}

// NewStoreFromDB wraps an already opened handle
func NewStoreFromDB(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// Ping checks the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate creates the catalog tables when they do not exist yet
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// RedactURL reduces a connection string to host and database name
func RedactURL(databaseURL string) string {
	u, err := url.Parse(databaseURL)
	if err != nil || u.Host == "" {
		return "postgres"
	}
	return u.Host + u.Path
}

// observe opens a span and records query latency for one repository call
func observe(ctx context.Context, query string) (context.Context, func()) {
	ctx, span := util.StartSpan(ctx, query)
	start := time.Now()
	return ctx, func() {
		util.RepositoryQueryDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
		span.End()
	}
}
