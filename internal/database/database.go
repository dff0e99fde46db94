// Package database opens the MySQL and Redis connections shared by the
// API, the notification worker and the reminder scheduler, and applies the
// schema migrations.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// MigrationsTable is the golang-migrate bookkeeping table
const MigrationsTable = "hotel_schema_migrations"

// migrationDirs are searched in order, relative to the working directory
var migrationDirs = []string{"migrations", "../migrations", "../../migrations"}

// Pool sizes the MySQL connection pool of one process
type Pool struct {
	MaxOpen int
	MaxIdle int
}

// Pool sizes per process
var (
	APIPool       = Pool{MaxOpen: 25, MaxIdle: 5}
	WorkerPool    = Pool{MaxOpen: 10, MaxIdle: 5}
	SchedulerPool = Pool{MaxOpen: 5, MaxIdle: 2}
)

// OpenMySQL opens a pooled MySQL connection and checks it with a ping
func OpenMySQL(dsn string, pool Pool) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(pool.MaxOpen)
	db.SetMaxIdleConns(pool.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// OpenRedis connects to Redis and checks the connection within five seconds
func OpenRedis(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// Migrate applies every pending migration found in sourceURL, e.g. "file://migrations".
// An up-to-date schema is not an error.
func Migrate(db *sql.DB, sourceURL string) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{MigrationsTable: MigrationsTable})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(sourceURL, "mysql", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// MigrationsSource locates the migrations directory from the working
// directory, so binaries run from the repository root or from cmd/<name>
// find the same files
func MigrationsSource() (string, error) {
	for _, dir := range migrationDirs {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return "file://" + filepath.ToSlash(dir), nil
		}
	}
	return "", fmt.Errorf("migrations directory not found in %v", migrationDirs)
}
