package gamification

import (
	"errors"
	"time"

	"superoutine/internal/model"
)

// ErrNoSkipsLeft 本月的紧急跳过已用完
var ErrNoSkipsLeft = errors.New("no emergency skips left this month")

// ErrAlreadyProtected 今天已经处于保护状态
var ErrAlreadyProtected = errors.New("streak already protected today")

// SkipStatus 紧急跳过状态机
type SkipStatus string

const (
	SkipAvailable SkipStatus = "available"
	SkipProtected SkipStatus = "protected"
	SkipExhausted SkipStatus = "exhausted"
)

// SkipsPerMonth 每月重置后的可用次数
const SkipsPerMonth = 1

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func sameMonth(a, b time.Time) bool {
	ay, am, _ := a.Date()
	by, bm, _ := b.Date()
	return ay == by && am == bm
}

// EnsureMonth resets the skip counters when now is in a different calendar month than the
// last reset. It reports whether the state changed and must be persisted.
func EnsureMonth(s *model.GameState, now time.Time) bool {
	if s.LastMonthReset != nil && sameMonth(*s.LastMonthReset, now) {
		return false
	}
	reset := now
	s.EmergencySkipsRemaining = SkipsPerMonth
	s.EmergencySkipsUsed = 0
	s.LastSkipDate = nil
	s.LastMonthReset = &reset
	return true
}

// IsStreakProtected 今天是否已使用紧急跳过
func IsStreakProtected(s model.GameState, now time.Time) bool {
	return s.LastSkipDate != nil && sameDay(*s.LastSkipDate, now)
}

// Status returns the state of the skip machine at now.
func Status(s model.GameState, now time.Time) SkipStatus {
	switch {
	case IsStreakProtected(s, now):
		return SkipProtected
	case s.EmergencySkipsRemaining > 0:
		return SkipAvailable
	default:
		return SkipExhausted
	}
}

// UseSkip consumes one skip and protects today. It is a no-op returning false when the
// day is already protected or no skip is left.
func UseSkip(s *model.GameState, now time.Time) bool {
	if Status(*s, now) != SkipAvailable {
		return false
	}
	day := now
	s.EmergencySkipsRemaining--
	s.EmergencySkipsUsed++
	s.LastSkipDate = &day
	return true
}

// SkipError maps a rejected UseSkip to its reason.
func SkipError(s model.GameState, now time.Time) error {
	switch Status(s, now) {
	case SkipProtected:
		return ErrAlreadyProtected
	case SkipExhausted:
		return ErrNoSkipsLeft
	default:
		return nil
	}
}
