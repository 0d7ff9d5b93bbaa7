package analytics

import (
	"sort"

	"superoutine/internal/model"
)

// HabitRate is a habit's completion rate over the elapsed days.
type HabitRate struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Rate int    `json:"rate"`
}

// Insights summarize the daily series.
type Insights struct {
	AverageDaily   int        `json:"average_daily"`
	RecentAverage  int        `json:"recent_average"`
	OlderAverage   int        `json:"older_average"`
	Trend          int        `json:"trend"`
	TrendDirection string     `json:"trend_direction"`
	BestDay        Point      `json:"best_day"`
	PerfectDays    int        `json:"perfect_days"`
	TopHabit       *HabitRate `json:"top_habit,omitempty"`
	WorstHabit     *HabitRate `json:"worst_habit,omitempty"`
}

func averageRate(points []Point) int {
	sum := 0
	for _, p := range points {
		sum += p.Rate
	}
	return percent(sum, len(points)*100)
}

// ComputeInsights derives the insight panel from a daily series ending at currentDay.
// BestDay is the zero Point when no day has a positive rate.
func ComputeInsights(series []Point, habits []model.Habit, currentDay int) Insights {
	in := Insights{AverageDaily: averageRate(series)}

	recent := Trend(series, windowDays)
	var older []Point
	if len(series) > windowDays {
		older = series[max(0, len(series)-2*windowDays) : len(series)-windowDays]
	}
	in.RecentAverage = averageRate(recent)
	in.OlderAverage = averageRate(older)
	in.Trend = in.RecentAverage - in.OlderAverage
	in.TrendDirection = "up"
	if in.Trend < 0 {
		in.TrendDirection = "down"
	}

	for _, p := range series {
		if p.Rate > in.BestDay.Rate {
			in.BestDay = p
		}
		if len(habits) > 0 && p.Rate == 100 {
			in.PerfectDays++
		}
	}

	if len(habits) > 0 {
		rates := make([]HabitRate, 0, len(habits))
		for _, h := range habits {
			rates = append(rates, HabitRate{
				ID:   h.ID,
				Name: h.Name,
				Rate: percent(completionsBetween([]model.Habit{h}, 1, currentDay), currentDay),
			})
		}
		sort.SliceStable(rates, func(i, j int) bool { return rates[i].Rate > rates[j].Rate })
		top, worst := rates[0], rates[len(rates)-1]
		in.TopHabit, in.WorstHabit = &top, &worst
	}
	return in
}
