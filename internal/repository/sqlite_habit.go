package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"superoutine/internal/model"
)

type SqliteHabitRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func (r *SqliteHabitRepository) scan(row rowScanner) (*model.Habit, error) {
	var (
		h                  model.Habit
		days, created, upd string
		linked             sql.NullString
	)
	if err := row.Scan(&h.ID, &h.UserID, &h.Name, &h.Goal, &days, &linked, &created, &upd); err != nil {
		return nil, err
	}
	var err error
	if h.CompletedDays, err = decodeInts(days); err != nil {
		return nil, err
	}
	if linked.Valid {
		h.LinkedTo = &linked.String
	}
	if h.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if h.UpdatedAt, err = parseTime(upd); err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *SqliteHabitRepository) List(ctx context.Context, userID string) ([]model.Habit, error) {
	r.logger.Debug("Listing habits", zap.String("user_id", userID))

	rows, err := r.db.QueryContext(ctx, `
        SELECT `+habitColumns+`
        FROM habits
        WHERE user_id = ?
        ORDER BY created_at ASC, rowid ASC
    `, userID)
	if err != nil {
		r.logger.Error("Failed to list habits", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	habits := []model.Habit{}
	for rows.Next() {
		h, err := r.scan(rows)
		if err != nil {
			r.logger.Error("Failed to scan habit", zap.Error(err))
			return nil, err
		}
		habits = append(habits, *h)
	}
	return habits, rows.Err()
}

func (r *SqliteHabitRepository) Get(ctx context.Context, userID, id string) (*model.Habit, error) {
	h, err := r.scan(r.db.QueryRowContext(ctx,
		`SELECT `+habitColumns+` FROM habits WHERE id = ? AND user_id = ?`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return h, err
}

func (r *SqliteHabitRepository) Create(ctx context.Context, h *model.Habit) error {
	days, err := encodeInts(h.CompletedDays)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = r.db.ExecContext(ctx, `
        INSERT INTO habits (id, user_id, name, goal, completed_days, linked_to, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `, h.ID, h.UserID, h.Name, h.Goal, days, h.LinkedTo, formatTime(now), formatTime(now))
	if err != nil {
		r.logger.Error("Failed to insert habit", zap.Error(err))
		return err
	}
	h.CreatedAt, h.UpdatedAt = now, now

	r.logger.Info("Habit inserted successfully",
		zap.String("id", h.ID),
		zap.String("user_id", h.UserID),
	)
	return nil
}

func (r *SqliteHabitRepository) Update(ctx context.Context, h *model.Habit) error {
	days, err := encodeInts(h.CompletedDays)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
        UPDATE habits
        SET name = ?, goal = ?, completed_days = ?, linked_to = ?, updated_at = ?
        WHERE id = ? AND user_id = ?
    `, h.Name, h.Goal, days, h.LinkedTo, formatTime(now), h.ID, h.UserID)
	if err != nil {
		r.logger.Error("Failed to update habit", zap.String("id", h.ID), zap.Error(err))
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	h.UpdatedAt = now
	return nil
}

func (r *SqliteHabitRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM habits WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		r.logger.Error("Failed to delete habit", zap.String("id", id), zap.Error(err))
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	r.logger.Info("Habit deleted", zap.String("id", id), zap.String("user_id", userID))
	return nil
}

type SqliteWeeklyHabitRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func (r *SqliteWeeklyHabitRepository) scan(row rowScanner) (*model.WeeklyHabit, error) {
	var (
		w                   model.WeeklyHabit
		weeks, created, upd string
	)
	if err := row.Scan(&w.ID, &w.UserID, &w.Name, &w.Goal, &weeks, &created, &upd); err != nil {
		return nil, err
	}
	var err error
	if w.CompletedWeeks, err = decodeInts(weeks); err != nil {
		return nil, err
	}
	if w.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if w.UpdatedAt, err = parseTime(upd); err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *SqliteWeeklyHabitRepository) List(ctx context.Context, userID string) ([]model.WeeklyHabit, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT `+weeklyColumns+`
        FROM weekly_habits
        WHERE user_id = ?
        ORDER BY created_at ASC, rowid ASC
    `, userID)
	if err != nil {
		r.logger.Error("Failed to list weekly habits", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	habits := []model.WeeklyHabit{}
	for rows.Next() {
		w, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, *w)
	}
	return habits, rows.Err()
}

func (r *SqliteWeeklyHabitRepository) Get(ctx context.Context, userID, id string) (*model.WeeklyHabit, error) {
	w, err := r.scan(r.db.QueryRowContext(ctx,
		`SELECT `+weeklyColumns+` FROM weekly_habits WHERE id = ? AND user_id = ?`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return w, err
}

func (r *SqliteWeeklyHabitRepository) Create(ctx context.Context, w *model.WeeklyHabit) error {
	weeks, err := encodeInts(w.CompletedWeeks)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = r.db.ExecContext(ctx, `
        INSERT INTO weekly_habits (id, user_id, name, goal, completed_weeks, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `, w.ID, w.UserID, w.Name, w.Goal, weeks, formatTime(now), formatTime(now))
	if err != nil {
		r.logger.Error("Failed to insert weekly habit", zap.Error(err))
		return err
	}
	w.CreatedAt, w.UpdatedAt = now, now
	return nil
}

func (r *SqliteWeeklyHabitRepository) Update(ctx context.Context, w *model.WeeklyHabit) error {
	weeks, err := encodeInts(w.CompletedWeeks)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
        UPDATE weekly_habits
        SET name = ?, goal = ?, completed_weeks = ?, updated_at = ?
        WHERE id = ? AND user_id = ?
    `, w.Name, w.Goal, weeks, formatTime(now), w.ID, w.UserID)
	if err != nil {
		r.logger.Error("Failed to update weekly habit", zap.String("id", w.ID), zap.Error(err))
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	w.UpdatedAt = now
	return nil
}

func (r *SqliteWeeklyHabitRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM weekly_habits WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
