package model

import "time"

// GameState 用户的 XP 与紧急跳过计数
type GameState struct {
	UserID                  string     `json:"user_id"`
	TotalXP                 int        `json:"total_xp"`
	EmergencySkipsRemaining int        `json:"emergency_skips_remaining"`
	EmergencySkipsUsed      int        `json:"emergency_skips_used"`
	LastSkipDate            *time.Time `json:"last_skip_date,omitempty"`
	LastMonthReset          *time.Time `json:"last_month_reset,omitempty"`
	UpdatedAt               time.Time  `json:"updated_at"`
}

// NewGameState 新用户每月有一次紧急跳过
func NewGameState(userID string) GameState {
	return GameState{UserID: userID, EmergencySkipsRemaining: 1}
}
