package model

import "time"

const (
	MaxNameLength = 50
	MaxGoal       = 31
)

// Habit 每日习惯；CompletedDays 是当月已完成日期的集合（升序保存）
type Habit struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	Goal          int       `json:"goal"`
	CompletedDays []int     `json:"completed_days"`
	LinkedTo      *string   `json:"linked_to,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// WeeklyHabit 每周习惯；CompletedWeeks 取值 [1, numWeeks]
type WeeklyHabit struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Name           string    `json:"name"`
	Goal           int       `json:"goal"`
	CompletedWeeks []int     `json:"completed_weeks"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// HabitInput 创建或编辑每日习惯的请求体
type HabitInput struct {
	Name     string  `json:"name" validate:"notblank,max=50"`
	Goal     int     `json:"goal" validate:"min=1,max=31"`
	LinkedTo *string `json:"linked_to,omitempty" validate:"omitempty,uuid"`
}

// Validate checks name, goal and the optional stacking link.
func (in *HabitInput) Validate() error {
	return validateStruct(in)
}

// WeeklyHabitInput 创建或编辑每周习惯的请求体
type WeeklyHabitInput struct {
	Name string `json:"name" validate:"notblank,max=50"`
	Goal int    `json:"goal" validate:"min=1,max=5"`
}

func (in *WeeklyHabitInput) Validate() error {
	return validateStruct(in)
}

// Clone returns a deep copy, so callers can keep a rollback value.
func (h Habit) Clone() Habit {
	h.CompletedDays = append([]int(nil), h.CompletedDays...)
	if h.LinkedTo != nil {
		linked := *h.LinkedTo
		h.LinkedTo = &linked
	}
	return h
}

func (w WeeklyHabit) Clone() WeeklyHabit {
	w.CompletedWeeks = append([]int(nil), w.CompletedWeeks...)
	return w
}
