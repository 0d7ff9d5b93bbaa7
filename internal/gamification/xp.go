package gamification

// Kind 区分每日与每周习惯的完成事件
type Kind string

const (
	KindDaily  Kind = "daily"
	KindWeekly Kind = "weekly"
)

// XP 奖励额度
const (
	DailyXP  = 10
	WeeklyXP = 50
)

// AwardFor returns the XP granted by one toggle. Only absent->present earns XP;
// un-toggling never subtracts.
func AwardFor(kind Kind, added bool) int {
	if !added {
		return 0
	}
	switch kind {
	case KindDaily:
		return DailyXP
	case KindWeekly:
		return WeeklyXP
	default:
		return 0
	}
}
