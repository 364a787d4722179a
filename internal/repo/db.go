// Package repo is the GORM persistence layer: chats, messages, profiles,
// feedback and idempotent turn replays, all keyed and scoped by user.
package repo

import (
	"net/url"
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tbourn/go-stylist-backend/internal/domain"
)

// Options tunes OpenSQLite.
type Options struct {
	// Trace registers the OpenTelemetry GORM plugin so every query becomes a
	// child span of the request that issued it.
	Trace bool
	// Logger overrides GORM's logger. Nil keeps GORM's default.
	Logger logger.Interface
	// MaxOpenConns caps the pool. Zero means 10.
	MaxOpenConns int
}

// connPragmas are applied by the driver to every pooled connection.
var connPragmas = []string{
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
	"foreign_keys(1)",
	"busy_timeout(5000)",
}

// DSN returns the driver data source for path with the connection pragmas.
func DSN(path string) string {
	q := url.Values{}
	for _, p := range connPragmas {
		q.Add("_pragma", p)
	}
	return path + "?" + q.Encode()
}

// OpenSQLite opens (or creates) the database file at path. The parent
// directory must exist.
func OpenSQLite(path string, opts Options) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(DSN(path)), &gorm.Config{Logger: opts.Logger})
	if err != nil {
		return nil, err
	}

	if opts.Trace {
		// Query variables may carry user prompts and profile data.
		if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics(), tracing.WithoutQueryVariables())); err != nil {
			return nil, err
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	maxOpen := opts.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 10
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxOpen)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// AutoMigrate creates or updates every table the service owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(domain.Models()...)
}
