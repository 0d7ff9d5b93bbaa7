package model

// ReminderSettings 每日提醒设置
type ReminderSettings struct {
	UserID     string `json:"user_id"`
	Enabled    bool   `json:"enabled"`
	Time       string `json:"time"`
	Timezone   string `json:"timezone"`
	LastSentOn string `json:"last_sent_on,omitempty"`
}

// DefaultReminderSettings 默认早上九点，关闭
func DefaultReminderSettings(userID string) ReminderSettings {
	return ReminderSettings{UserID: userID, Enabled: false, Time: "09:00", Timezone: "UTC"}
}

type ReminderInput struct {
	Enabled  bool   `json:"enabled"`
	Time     string `json:"time" validate:"required,hhmm"`
	Timezone string `json:"timezone,omitempty" validate:"omitempty,timezone"`
}

func (in *ReminderInput) Validate() error {
	return validateStruct(in)
}
