package model

// QuizResult 是一个用户提交的问卷答案集，answers 以题目 ID 映射到所选选项文本。
// 同一用户重复提交会整体覆盖合并，正常流程中永不删除。
type QuizResult struct {
	UserID    string         `json:"userId"`
	Answers   map[int]string `json:"answers"`
	Timestamp string         `json:"timestamp,omitempty"`
	UpdatedAt string         `json:"updatedAt,omitempty"`
}

// Validate 校验问卷提交，返回字段错误表。
func (q *QuizResult) Validate() map[string]string {
	errs := make(map[string]string)
	if q.UserID == "" {
		errs["userId"] = "User ID is required"
	}
	if len(q.Answers) == 0 {
		errs["answers"] = "Quiz answers are required"
	}
	return errs
}

// Question 是问卷中的一道题目，category 对应兼容度分类。
type Question struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Category string   `json:"category"`
}

// Questions 返回固定的问卷题目清单。
func Questions() []Question {
	return []Question{
		{ID: 1, Question: "Night owl or early bird?", Options: []string{"Night owl", "Early bird"}, Category: "lifestyle"},
		{ID: 2, Question: "Clean as you go or deep clean once a week?", Options: []string{"Clean as you go", "Deep clean once a week"}, Category: "cleaning"},
		{ID: 3, Question: "Do you prefer quiet time or social activity at home?", Options: []string{"Quiet time", "Social activity"}, Category: "social"},
		{ID: 4, Question: "Do you cook often or order takeout?", Options: []string{"Cook often", "Order takeout"}, Category: "food"},
		{ID: 5, Question: "What's your preferred room temperature?", Options: []string{"Cool", "Warm"}, Category: "lifestyle"},
		{ID: 6, Question: "Are you a morning or evening shower person?", Options: []string{"Morning", "Evening"}, Category: "routine"},
		{ID: 7, Question: "TV in common areas - on or off most of the time?", Options: []string{"On", "Off"}, Category: "lifestyle"},
		{ID: 8, Question: "How do you feel about guests?", Options: []string{"Frequently welcome", "Occasionally welcome", "Rarely welcome"}, Category: "social"},
		{ID: 9, Question: "How do you prefer to handle groceries?", Options: []string{"Share everything", "Some shared, some separate", "Completely separate"}, Category: "food"},
		{ID: 10, Question: "What's your pet preference?", Options: []string{"Love pets", "No pets", "Some pets are ok"}, Category: "pets"},
	}
}
