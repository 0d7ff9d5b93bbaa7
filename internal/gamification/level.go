package gamification

// Level 是 XP 总量对应的等级视图
type Level struct {
	Level          int     `json:"level"`
	CurrentLevelXP int     `json:"current_level_xp"`
	NextLevelXP    int     `json:"next_level_xp"`
	Progress       float64 `json:"progress"`
	Title          string  `json:"title"`
	TotalXP        int     `json:"total_xp"`
}

// XPForLevel is the cumulative XP needed to enter level L: Σ_{i=1}^{L-1} i*100.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return 100 * level * (level - 1) / 2
}

// LevelFor derives the level of a total XP amount. Negative totals count as 0.
func LevelFor(xp int) Level {
	if xp < 0 {
		xp = 0
	}
	level := 1
	for XPForLevel(level+1) <= xp {
		level++
	}
	current := xp - XPForLevel(level)
	next := level * 100
	return Level{
		Level:          level,
		CurrentLevelXP: current,
		NextLevelXP:    next,
		Progress:       float64(current) / float64(next),
		Title:          Title(level),
		TotalXP:        xp,
	}
}

var titles = []struct {
	min   int
	title string
}{
	{50, "Legendary Master"},
	{40, "Grand Champion"},
	{30, "Elite Warrior"},
	{20, "Habit Hero"},
	{15, "Discipline Master"},
	{10, "Streak Keeper"},
	{7, "Rising Star"},
	{5, "Habit Builder"},
	{3, "Beginner"},
}

// Title 等级称号
func Title(level int) string {
	for _, t := range titles {
		if level >= t.min {
			return t.title
		}
	}
	return "Newcomer"
}

// LevelsCrossed is the number of levels gained going from before to after XP.
func LevelsCrossed(before, after int) int {
	return LevelFor(after).Level - LevelFor(before).Level
}
