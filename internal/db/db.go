package db

import (
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var (
	// ErrNotFound is returned when a point lookup matches no row. Absence is
	// a normal outcome, not a storage failure.
	ErrNotFound = errors.New("record not found")
	// ErrNoFields is returned by Update when the caller supplied no fields.
	ErrNoFields = errors.New("no fields supplied")
	// ErrDuplicate is returned when a unique key is already taken.
	ErrDuplicate = errors.New("record already exists")
)

func Connect(driverName, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	return db, nil
}

// InitSchema creates the tables if they do not exist yet. The DDL differs per
// driver only in the auto-increment spelling; sqlite AUTOINCREMENT is used
// deliberately so task ids are never reused after a delete.
func InitSchema(db *sqlx.DB) error {
	var taskID string
	switch db.DriverName() {
	case "sqlite3":
		taskID = "INTEGER PRIMARY KEY AUTOINCREMENT"
	case "postgres":
		taskID = "BIGSERIAL PRIMARY KEY"
	default:
		return fmt.Errorf("unsupported driver %q", db.DriverName())
	}

	ddl := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS tasks (
  task_id %s,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  due_date DATE,
  priority INTEGER NOT NULL DEFAULT 2, -- 1=Low, 2=Medium, 3=High
  status TEXT NOT NULL DEFAULT 'Pending',
  created_at TIMESTAMP NOT NULL,
  completed_at TIMESTAMP
);
CREATE TABLE IF NOT EXISTS users (
  username TEXT PRIMARY KEY,
  password TEXT NOT NULL,
  created_at TIMESTAMP NOT NULL
);`, taskID)

	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
