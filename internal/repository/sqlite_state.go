package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"superoutine/internal/model"
)

type SqliteGamificationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func (r *SqliteGamificationRepository) Get(ctx context.Context, userID string) (*model.GameState, error) {
	var (
		s                model.GameState
		lastSkip, lastMR sql.NullString
		updated          string
	)
	err := r.db.QueryRowContext(ctx, `
        SELECT user_id, total_xp, emergency_skips_remaining, emergency_skips_used,
               last_skip_date, last_month_reset, updated_at
        FROM user_gamification
        WHERE user_id = ?
    `, userID).Scan(
		&s.UserID,
		&s.TotalXP,
		&s.EmergencySkipsRemaining,
		&s.EmergencySkipsUsed,
		&lastSkip,
		&lastMR,
		&updated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to load game state", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if s.LastSkipDate, err = parseNullTime(lastSkip); err != nil {
		return nil, err
	}
	if s.LastMonthReset, err = parseNullTime(lastMR); err != nil {
		return nil, err
	}
	if s.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SqliteGamificationRepository) Save(ctx context.Context, s *model.GameState) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO user_gamification
            (user_id, total_xp, emergency_skips_remaining, emergency_skips_used, last_skip_date, last_month_reset, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (user_id) DO UPDATE SET
            total_xp = excluded.total_xp,
            emergency_skips_remaining = excluded.emergency_skips_remaining,
            emergency_skips_used = excluded.emergency_skips_used,
            last_skip_date = excluded.last_skip_date,
            last_month_reset = excluded.last_month_reset,
            updated_at = excluded.updated_at
    `,
		s.UserID,
		s.TotalXP,
		s.EmergencySkipsRemaining,
		s.EmergencySkipsUsed,
		formatNullTime(s.LastSkipDate),
		formatNullTime(s.LastMonthReset),
		formatTime(now),
	)
	if err != nil {
		r.logger.Error("Failed to save game state", zap.String("user_id", s.UserID), zap.Error(err))
		return err
	}
	s.UpdatedAt = now
	return nil
}

type SqliteMoodRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func (r *SqliteMoodRepository) Upsert(ctx context.Context, m *model.MoodCheckin) error {
	if _, err := time.Parse(dateLayout, m.Date); err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO mood_checkins (user_id, date, mood, created_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT (user_id, date) DO UPDATE SET mood = excluded.mood
    `, m.UserID, m.Date, m.Mood, formatTime(now))
	if err != nil {
		r.logger.Error("Failed to upsert mood", zap.String("user_id", m.UserID), zap.Error(err))
		return err
	}
	m.CreatedAt = now
	return nil
}

func (r *SqliteMoodRepository) Recent(ctx context.Context, userID string, limit int) ([]model.MoodCheckin, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT user_id, date, mood, created_at
        FROM mood_checkins
        WHERE user_id = ?
        ORDER BY date DESC
        LIMIT ?
    `, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	moods := []model.MoodCheckin{}
	for rows.Next() {
		var (
			m       model.MoodCheckin
			created string
		)
		if err := rows.Scan(&m.UserID, &m.Date, &m.Mood, &created); err != nil {
			return nil, err
		}
		if m.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		moods = append(moods, m)
	}
	return moods, rows.Err()
}

type SqliteReminderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func (r *SqliteReminderRepository) Get(ctx context.Context, userID string) (*model.ReminderSettings, error) {
	var s model.ReminderSettings
	err := r.db.QueryRowContext(ctx,
		`SELECT `+reminderColumns+` FROM reminder_settings WHERE user_id = ?`, userID,
	).Scan(&s.UserID, &s.Enabled, &s.Time, &s.Timezone, &s.LastSentOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SqliteReminderRepository) Save(ctx context.Context, s *model.ReminderSettings) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO reminder_settings (user_id, enabled, remind_at, timezone, last_sent_on)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT (user_id) DO UPDATE SET
            enabled = excluded.enabled,
            remind_at = excluded.remind_at,
            timezone = excluded.timezone,
            last_sent_on = excluded.last_sent_on
    `, s.UserID, s.Enabled, s.Time, s.Timezone, s.LastSentOn)
	if err != nil {
		r.logger.Error("Failed to save reminder settings", zap.String("user_id", s.UserID), zap.Error(err))
	}
	return err
}

func (r *SqliteReminderRepository) ListEnabled(ctx context.Context) ([]model.ReminderSettings, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reminderColumns+` FROM reminder_settings WHERE enabled = 1 ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ReminderSettings
	for rows.Next() {
		var s model.ReminderSettings
		if err := rows.Scan(&s.UserID, &s.Enabled, &s.Time, &s.Timezone, &s.LastSentOn); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SqliteReminderRepository) MarkSent(ctx context.Context, userID, date string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reminder_settings SET last_sent_on = ? WHERE user_id = ?`, date, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
