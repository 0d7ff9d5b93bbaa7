package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"superoutine/internal/model"
)

const dateLayout = "2006-01-02"

type PgGamificationRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewPgGamificationRepository(db *pgxpool.Pool, logger *zap.Logger) *PgGamificationRepository {
	return &PgGamificationRepository{db: db, logger: logger}
}

func (r *PgGamificationRepository) Get(ctx context.Context, userID string) (*model.GameState, error) {
	var s model.GameState
	err := r.db.QueryRow(ctx, `
        SELECT user_id, total_xp, emergency_skips_remaining, emergency_skips_used,
               last_skip_date, last_month_reset, updated_at
        FROM user_gamification
        WHERE user_id = $1
    `, userID).Scan(
		&s.UserID,
		&s.TotalXP,
		&s.EmergencySkipsRemaining,
		&s.EmergencySkipsUsed,
		&s.LastSkipDate,
		&s.LastMonthReset,
		&s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to load game state", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return &s, nil
}

func (r *PgGamificationRepository) Save(ctx context.Context, s *model.GameState) error {
	err := r.db.QueryRow(ctx, `
        INSERT INTO user_gamification
            (user_id, total_xp, emergency_skips_remaining, emergency_skips_used, last_skip_date, last_month_reset)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (user_id) DO UPDATE SET
            total_xp = EXCLUDED.total_xp,
            emergency_skips_remaining = EXCLUDED.emergency_skips_remaining,
            emergency_skips_used = EXCLUDED.emergency_skips_used,
            last_skip_date = EXCLUDED.last_skip_date,
            last_month_reset = EXCLUDED.last_month_reset,
            updated_at = NOW()
        RETURNING updated_at
    `,
		s.UserID,
		s.TotalXP,
		s.EmergencySkipsRemaining,
		s.EmergencySkipsUsed,
		s.LastSkipDate,
		s.LastMonthReset,
	).Scan(&s.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to save game state", zap.String("user_id", s.UserID), zap.Error(err))
		return err
	}
	return nil
}

type PgMoodRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewPgMoodRepository(db *pgxpool.Pool, logger *zap.Logger) *PgMoodRepository {
	return &PgMoodRepository{db: db, logger: logger}
}

func (r *PgMoodRepository) Upsert(ctx context.Context, m *model.MoodCheckin) error {
	date, err := time.Parse(dateLayout, m.Date)
	if err != nil {
		return fmt.Errorf("invalid mood date %q: %w", m.Date, err)
	}
	err = r.db.QueryRow(ctx, `
        INSERT INTO mood_checkins (user_id, date, mood)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id, date) DO UPDATE SET mood = EXCLUDED.mood
        RETURNING created_at
    `, m.UserID, date, m.Mood).Scan(&m.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to upsert mood", zap.String("user_id", m.UserID), zap.Error(err))
	}
	return err
}

func (r *PgMoodRepository) Recent(ctx context.Context, userID string, limit int) ([]model.MoodCheckin, error) {
	rows, err := r.db.Query(ctx, `
        SELECT user_id, date, mood, created_at
        FROM mood_checkins
        WHERE user_id = $1
        ORDER BY date DESC
        LIMIT $2
    `, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	moods := []model.MoodCheckin{}
	for rows.Next() {
		var (
			m    model.MoodCheckin
			date time.Time
		)
		if err := rows.Scan(&m.UserID, &date, &m.Mood, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Date = date.Format(dateLayout)
		moods = append(moods, m)
	}
	return moods, rows.Err()
}

type PgReminderRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewPgReminderRepository(db *pgxpool.Pool, logger *zap.Logger) *PgReminderRepository {
	return &PgReminderRepository{db: db, logger: logger}
}

const reminderColumns = `user_id, enabled, remind_at, timezone, last_sent_on`

func scanReminder(row pgx.Row) (*model.ReminderSettings, error) {
	var s model.ReminderSettings
	if err := row.Scan(&s.UserID, &s.Enabled, &s.Time, &s.Timezone, &s.LastSentOn); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PgReminderRepository) Get(ctx context.Context, userID string) (*model.ReminderSettings, error) {
	s, err := scanReminder(r.db.QueryRow(ctx,
		`SELECT `+reminderColumns+` FROM reminder_settings WHERE user_id = $1`, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

func (r *PgReminderRepository) Save(ctx context.Context, s *model.ReminderSettings) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO reminder_settings (user_id, enabled, remind_at, timezone, last_sent_on)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_id) DO UPDATE SET
            enabled = EXCLUDED.enabled,
            remind_at = EXCLUDED.remind_at,
            timezone = EXCLUDED.timezone,
            last_sent_on = EXCLUDED.last_sent_on
    `, s.UserID, s.Enabled, s.Time, s.Timezone, s.LastSentOn)
	if err != nil {
		r.logger.Error("Failed to save reminder settings", zap.String("user_id", s.UserID), zap.Error(err))
	}
	return err
}

func (r *PgReminderRepository) ListEnabled(ctx context.Context) ([]model.ReminderSettings, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+reminderColumns+` FROM reminder_settings WHERE enabled = TRUE ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ReminderSettings
	for rows.Next() {
		s, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *PgReminderRepository) MarkSent(ctx context.Context, userID, date string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE reminder_settings SET last_sent_on = $2 WHERE user_id = $1`, userID, date)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// NewPostgresStore wires every repository to one pool.
func NewPostgresStore(pool *pgxpool.Pool, logger *zap.Logger) *Store {
	return &Store{
		Driver:       DriverPostgres,
		Habits:       NewPgHabitRepository(pool, logger),
		WeeklyHabits: NewPgWeeklyHabitRepository(pool, logger),
		Gamification: NewPgGamificationRepository(pool, logger),
		Moods:        NewPgMoodRepository(pool, logger),
		Reminders:    NewPgReminderRepository(pool, logger),
		ping:         pool.Ping,
		close: func() error {
			pool.Close()
			return nil
		},
	}
}

// MigratePostgres applies the embedded postgres schema, outbox table included.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	return migrate(ctx, DriverPostgres, func(ctx context.Context, stmt string) error {
		_, err := pool.Exec(ctx, stmt)
		return err
	})
}
