package database

import (
	"database/sql"
	"strconv"
	"strings"
	"time"
)

// Dialect defines the interface for database-specific operations
type Dialect interface {
	// DriverName returns the driver name for sql.Open
	DriverName() string

	// DSN returns the data source name for the connection
	DSN(config DialectConfig) string

	// RewriteQuery converts placeholder syntax if needed (e.g., ? to $1 for postgres)
	RewriteQuery(query string) string

	// SupportsLastInsertId returns true if the driver supports LastInsertId()
	SupportsLastInsertId() bool

	// ConfigureConnection applies pool limits and any database-specific connection settings
	ConfigureConnection(db *sql.DB, config DialectConfig) error

	// MigrationsSubdir returns the subdirectory name for migrations (e.g., "sqlite", "postgres")
	MigrationsSubdir() string

	// CreateMigrationsTableQuery returns the SQL to create the migrations tracking table
	CreateMigrationsTableQuery() string

	// Upsert returns an INSERT that updates updateColumns when conflictColumns already exist
	Upsert(table string, columns, conflictColumns, updateColumns []string) string
}

// DialectConfig holds configuration for database connection
type DialectConfig struct {
	// For SQLite
	Path string

	// For PostgreSQL/MySQL
	URL string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// applyPool sets the pool limits, falling back to 25 open, 5 idle and a 5 minute lifetime
func applyPool(db *sql.DB, config DialectConfig) {
	maxOpen, maxIdle, lifetime := 25, 5, 5*time.Minute
	if config.MaxOpenConns > 0 {
		maxOpen = config.MaxOpenConns
	}
	if config.MaxIdleConns > 0 {
		maxIdle = min(config.MaxIdleConns, maxOpen)
	}
	if config.ConnMaxLifetime > 0 {
		lifetime = config.ConnMaxLifetime
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(lifetime)
	db.SetConnMaxIdleTime(time.Minute)
}

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, etc.
// Question marks inside quoted literals or identifiers are left alone.
func rewritePlaceholdersToNumbered(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)

	counter := 0
	var quote byte
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '?':
			counter++
			b.WriteString("$" + strconv.Itoa(counter))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// insertStatement builds "INSERT INTO table (a, b) VALUES (?, ?)"
func insertStatement(table string, columns []string) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	return "INSERT INTO " + table + " (" + strings.Join(columns, ", ") + ") VALUES (" + placeholders + ")"
}

// upsertOnConflict is the ON CONFLICT form shared by SQLite and PostgreSQL
func upsertOnConflict(table string, columns, conflictColumns, updateColumns []string) string {
	sets := make([]string, len(updateColumns))
	for i, c := range updateColumns {
		sets[i] = c + " = excluded." + c
	}
	return insertStatement(table, columns) +
		" ON CONFLICT (" + strings.Join(conflictColumns, ", ") + ") DO UPDATE SET " + strings.Join(sets, ", ")
}
