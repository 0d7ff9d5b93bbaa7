package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"superoutine/internal/model"
)

type PgHabitRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewPgHabitRepository(db *pgxpool.Pool, logger *zap.Logger) *PgHabitRepository {
	return &PgHabitRepository{
		db:     db,
		logger: logger,
	}
}

const habitColumns = `id, user_id, name, goal, completed_days, linked_to, created_at, updated_at`

func scanHabit(row pgx.Row) (*model.Habit, error) {
	var h model.Habit
	if err := row.Scan(
		&h.ID,
		&h.UserID,
		&h.Name,
		&h.Goal,
		&h.CompletedDays,
		&h.LinkedTo,
		&h.CreatedAt,
		&h.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *PgHabitRepository) List(ctx context.Context, userID string) ([]model.Habit, error) {
	r.logger.Debug("Listing habits", zap.String("user_id", userID))

	query := `
        SELECT ` + habitColumns + `
        FROM habits
        WHERE user_id = $1
        ORDER BY created_at ASC, id ASC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list habits", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	habits := []model.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			r.logger.Error("Failed to scan habit", zap.Error(err))
			return nil, err
		}
		habits = append(habits, *h)
	}
	return habits, rows.Err()
}

func (r *PgHabitRepository) Get(ctx context.Context, userID, id string) (*model.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE id = $1 AND user_id = $2`

	h, err := scanHabit(r.db.QueryRow(ctx, query, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return h, err
}

func (r *PgHabitRepository) Create(ctx context.Context, h *model.Habit) error {
	r.logger.Debug("Inserting habit",
		zap.String("user_id", h.UserID),
		zap.String("name", h.Name),
	)

	query := `
        INSERT INTO habits (id, user_id, name, goal, completed_days, linked_to)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		h.ID,
		h.UserID,
		h.Name,
		h.Goal,
		nonNil(h.CompletedDays),
		h.LinkedTo,
	).Scan(&h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to insert habit", zap.Error(err))
		return err
	}

	r.logger.Info("Habit inserted successfully",
		zap.String("id", h.ID),
		zap.String("user_id", h.UserID),
	)
	return nil
}

func (r *PgHabitRepository) Update(ctx context.Context, h *model.Habit) error {
	query := `
        UPDATE habits
        SET name = $3, goal = $4, completed_days = $5, linked_to = $6, updated_at = NOW()
        WHERE id = $1 AND user_id = $2
        RETURNING updated_at
    `
	err := r.db.QueryRow(ctx, query,
		h.ID,
		h.UserID,
		h.Name,
		h.Goal,
		nonNil(h.CompletedDays),
		h.LinkedTo,
	).Scan(&h.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to update habit", zap.String("id", h.ID), zap.Error(err))
		return err
	}
	return nil
}

func (r *PgHabitRepository) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM habits WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		r.logger.Error("Failed to delete habit", zap.String("id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	r.logger.Info("Habit deleted", zap.String("id", id), zap.String("user_id", userID))
	return nil
}

type PgWeeklyHabitRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewPgWeeklyHabitRepository(db *pgxpool.Pool, logger *zap.Logger) *PgWeeklyHabitRepository {
	return &PgWeeklyHabitRepository{db: db, logger: logger}
}

const weeklyColumns = `id, user_id, name, goal, completed_weeks, created_at, updated_at`

func scanWeekly(row pgx.Row) (*model.WeeklyHabit, error) {
	var w model.WeeklyHabit
	if err := row.Scan(
		&w.ID,
		&w.UserID,
		&w.Name,
		&w.Goal,
		&w.CompletedWeeks,
		&w.CreatedAt,
		&w.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *PgWeeklyHabitRepository) List(ctx context.Context, userID string) ([]model.WeeklyHabit, error) {
	rows, err := r.db.Query(ctx, `
        SELECT `+weeklyColumns+`
        FROM weekly_habits
        WHERE user_id = $1
        ORDER BY created_at ASC, id ASC
    `, userID)
	if err != nil {
		r.logger.Error("Failed to list weekly habits", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	habits := []model.WeeklyHabit{}
	for rows.Next() {
		w, err := scanWeekly(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, *w)
	}
	return habits, rows.Err()
}

func (r *PgWeeklyHabitRepository) Get(ctx context.Context, userID, id string) (*model.WeeklyHabit, error) {
	w, err := scanWeekly(r.db.QueryRow(ctx,
		`SELECT `+weeklyColumns+` FROM weekly_habits WHERE id = $1 AND user_id = $2`, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return w, err
}

func (r *PgWeeklyHabitRepository) Create(ctx context.Context, w *model.WeeklyHabit) error {
	err := r.db.QueryRow(ctx, `
        INSERT INTO weekly_habits (id, user_id, name, goal, completed_weeks)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at, updated_at
    `, w.ID, w.UserID, w.Name, w.Goal, nonNil(w.CompletedWeeks)).Scan(&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to insert weekly habit", zap.Error(err))
		return err
	}
	r.logger.Info("Weekly habit inserted", zap.String("id", w.ID), zap.String("user_id", w.UserID))
	return nil
}

func (r *PgWeeklyHabitRepository) Update(ctx context.Context, w *model.WeeklyHabit) error {
	err := r.db.QueryRow(ctx, `
        UPDATE weekly_habits
        SET name = $3, goal = $4, completed_weeks = $5, updated_at = NOW()
        WHERE id = $1 AND user_id = $2
        RETURNING updated_at
    `, w.ID, w.UserID, w.Name, w.Goal, nonNil(w.CompletedWeeks)).Scan(&w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to update weekly habit", zap.String("id", w.ID), zap.Error(err))
	}
	return err
}

func (r *PgWeeklyHabitRepository) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM weekly_habits WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
