package analytics

import "superoutine/internal/model"

// Momentum compares the trailing 7-day completion rate to the 7 days before it.
type Momentum struct {
	Recent   int    `json:"recent"`
	Previous int    `json:"previous"`
	Delta    int    `json:"delta"`
	Label    string `json:"label"`
}

const windowDays = 7

// windowRate is round(completions / (habits × days)) over [start, end], 0 for an empty window.
func windowRate(habits []model.Habit, start, end int) int {
	days := end - start + 1
	if days <= 0 {
		return 0
	}
	return percent(completionsBetween(habits, start, end), len(habits)*days)
}

// ComputeMomentum computes both windows ending at ref; windows are truncated at day 1.
func ComputeMomentum(habits []model.Habit, ref int) Momentum {
	if len(habits) == 0 {
		return Momentum{Label: "Getting Started"}
	}

	recentStart := max(1, ref-windowDays+1)
	prevEnd := recentStart - 1
	prevStart := max(1, prevEnd-windowDays+1)

	m := Momentum{
		Recent:   windowRate(habits, recentStart, ref),
		Previous: windowRate(habits, prevStart, prevEnd),
	}
	m.Delta = m.Recent - m.Previous
	m.Label = momentumLabel(m.Recent, m.Delta)
	return m
}

func momentumLabel(recent, delta int) string {
	switch {
	case recent >= 80:
		return "On Fire!"
	case recent >= 60:
		return "Building Momentum"
	case delta > 10:
		return "Picking Up Speed"
	case delta < -10 && recent > 0:
		return "Room to Grow"
	case recent == 0:
		return "Fresh Start Awaits"
	default:
		return "Steady Progress"
	}
}
