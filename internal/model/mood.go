package model

import "unicode/utf8"

// Mood 是一个用户的当前心情记录，每个用户只有一条，更新时整体覆盖合并。
type Mood struct {
	UserID    string `json:"userId"`
	Mood      string `json:"mood"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// MaxStatusLen 限制心情附言的最大长度。
const MaxStatusLen = 100

var validMoods = map[string]bool{
	"happy": true, "sad": true, "busy": true, "relaxed": true,
	"tired": true, "productive": true, "stressed": true, "social": true,
}

// Validate 校验心情提交，返回字段错误表。
func (m *Mood) Validate() map[string]string {
	errs := make(map[string]string)
	if m.UserID == "" {
		errs["userId"] = "User ID is required"
	}
	if m.Mood == "" {
		errs["mood"] = "Mood is required"
	} else if !validMoods[m.Mood] {
		errs["mood"] = "Mood must be one of: happy, sad, busy, relaxed, tired, productive, stressed, social"
	}
	if utf8.RuneCountInString(m.Status) > MaxStatusLen {
		errs["status"] = "Status cannot exceed 100 characters"
	}
	return errs
}

// MoodWithUser 是带用户展示信息的心情条目，用于全员心情列表。
type MoodWithUser struct {
	Mood
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
}

// MoodOption 描述一个可选的心情。
type MoodOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Emoji string `json:"emoji"`
}

// MoodOptions 返回固定的八种心情选项。
func MoodOptions() []MoodOption {
	return []MoodOption{
		{ID: "happy", Label: "Happy", Emoji: "😊"},
		{ID: "sad", Label: "Sad", Emoji: "😢"},
		{ID: "busy", Label: "Busy", Emoji: "🏃‍♂️"},
		{ID: "relaxed", Label: "Relaxed", Emoji: "😌"},
		{ID: "tired", Label: "Tired", Emoji: "😴"},
		{ID: "productive", Label: "Productive", Emoji: "💪"},
		{ID: "stressed", Label: "Stressed", Emoji: "😰"},
		{ID: "social", Label: "Social", Emoji: "🎉"},
	}
}
