package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
)

// DB wraps the database connection with performance optimizations.
type DB struct {
	*sql.DB
}

// InitDB initializes the database with connection pooling.
func InitDB(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Performance optimizations
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS gallery_items (
		id TEXT PRIMARY KEY,
		image_url TEXT NOT NULL,
		asset_id TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		like_count INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS gallery_comments (
		id TEXT PRIMARY KEY,
		item_id TEXT NOT NULL,
		name TEXT NOT NULL,
		text TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (item_id) REFERENCES gallery_items(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_comments_item ON gallery_comments(item_id);

	CREATE TABLE IF NOT EXISTS gallery_ratings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		item_id TEXT NOT NULL,
		user_name TEXT NOT NULL,
		value INTEGER NOT NULL CHECK (value BETWEEN 1 AND 5),
		created_at DATETIME NOT NULL,
		FOREIGN KEY (item_id) REFERENCES gallery_items(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_ratings_item ON gallery_ratings(item_id);

	CREATE TABLE IF NOT EXISTS menu_categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS menu_items (
		id TEXT PRIMARY KEY,
		category_id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		price REAL NOT NULL,
		image_url TEXT NOT NULL,
		asset_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (category_id) REFERENCES menu_categories(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_items_category ON menu_items(category_id);

	CREATE TABLE IF NOT EXISTS reservations (
		id TEXT PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT NOT NULL,
		guest_count INTEGER NOT NULL,
		date TEXT NOT NULL,
		time TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		reference_number TEXT NOT NULL UNIQUE,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`

	_, err := db.Exec(schema)
	return err
}

// isUniqueViolation reports whether err is a sqlite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
