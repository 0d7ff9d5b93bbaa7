package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// 固定宽度，保证按字符串排序即按时间排序
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

// OpenSQLite opens (creating if needed) the local database file. A single connection
// serialises writers so concurrent requests never see "database is locked".
func OpenSQLite(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// MigrateSQLite applies the embedded sqlite schema.
func MigrateSQLite(ctx context.Context, db *sql.DB) error {
	return migrate(ctx, DriverSQLite, func(ctx context.Context, stmt string) error {
		_, err := db.ExecContext(ctx, stmt)
		return err
	})
}

// NewSQLiteStore wires every repository to one database handle.
func NewSQLiteStore(db *sql.DB, logger *zap.Logger) *Store {
	return &Store{
		Driver:       DriverSQLite,
		Habits:       &SqliteHabitRepository{db: db, logger: logger},
		WeeklyHabits: &SqliteWeeklyHabitRepository{db: db, logger: logger},
		Gamification: &SqliteGamificationRepository{db: db, logger: logger},
		Moods:        &SqliteMoodRepository{db: db, logger: logger},
		Reminders:    &SqliteReminderRepository{db: db, logger: logger},
		ping:         db.PingContext,
		close:        db.Close,
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, s)
}

func formatNullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func encodeInts(v []int) (string, error) {
	b, err := json.Marshal(nonNil(v))
	return string(b), err
}

func decodeInts(s string) ([]int, error) {
	out := []int{}
	if s == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("decode int array: %w", err)
	}
	return out, nil
}

// rowScanner 由 *sql.Row 和 *sql.Rows 共同实现
type rowScanner interface {
	Scan(dest ...any) error
}

// OpenLocalStore opens the sqlite file at path, applies the schema and returns the store.
func OpenLocalStore(ctx context.Context, path string, logger *zap.Logger) (*Store, error) {
	db, err := OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := MigrateSQLite(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return NewSQLiteStore(db, logger), nil
}
