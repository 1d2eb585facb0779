package sqlstore

import "time"

// Supported database/sql driver names
const (
	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"
)

// Config holds SQL connection settings
type Config struct {
	// Driver is "sqlite3" or "mysql"
	Driver string

	// DSN is passed to sql.Open unchanged, e.g. "file:seating.db?_busy_timeout=5000"
	// or "user:pass@tcp(localhost:3306)/seating?parseTime=true"
	DSN string

	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns a local SQLite configuration
func DefaultConfig() Config {
	return Config{
		Driver:          DriverSQLite,
		DSN:             "file:seating.db?_busy_timeout=5000&_foreign_keys=on",
		MaxOpenConns:    1,
		ConnMaxLifetime: time.Hour,
	}
}
