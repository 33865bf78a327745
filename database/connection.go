// database/connection.go
package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/clearglobal/hdx-scraper/config"
	_ "github.com/go-sql-driver/mysql" // MariaDB/MySQL driver
	_ "modernc.org/sqlite"             // local runs and tests
)

// OpenDB opens and pings the configured database and ensures the schema.
func OpenDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	var driver, dsn string
	switch cfg.Driver {
	case "mysql":
		// username:password@protocol(address)/dbname?param=value
		driver = "mysql"
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
		)
	case "sqlite":
		driver = "sqlite"
		dsn = cfg.Path
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if driver == "sqlite" {
		// A single connection keeps :memory: databases shared.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := EnsureSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	slog.Info("connected to database", "driver", driver)
	return db, nil
}

const schema = `CREATE TABLE IF NOT EXISTS run_state (
	location_code VARCHAR(16) NOT NULL PRIMARY KEY,
	watermark VARCHAR(40) NOT NULL,
	updated_at VARCHAR(40) NOT NULL
)`

// EnsureSchema creates the run_state table if it is missing.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create run_state table: %w", err)
	}
	return nil
}
