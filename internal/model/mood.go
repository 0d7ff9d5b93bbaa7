package model

import "time"

const (
	MinMood = 1
	MaxMood = 5
)

// MoodCheckin 每个用户每天一条，重复提交覆盖
type MoodCheckin struct {
	UserID    string    `json:"user_id"`
	Date      string    `json:"date"`
	Mood      int       `json:"mood"`
	CreatedAt time.Time `json:"created_at"`
}

type MoodInput struct {
	Mood int    `json:"mood" validate:"min=1,max=5"`
	Date string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func (in *MoodInput) Validate() error {
	return validateStruct(in)
}
