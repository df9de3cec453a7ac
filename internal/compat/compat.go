// Package compat 实现室友兼容度打分引擎。
// 纯函数，无状态、无 I/O：输入两份问卷答案，输出总体与分类得分。
package compat

import "math"

// Categories 是固定的题目分类表：分类名 -> 该分类下的题目 ID。
var Categories = map[string][]int{
	"lifestyle": {1, 5, 7}, // 作息、室温、公共区电视
	"cleaning":  {2},
	"social":    {3, 8},
	"food":      {4, 9},
	"routine":   {6},
	"pets":      {10},
}

// Score 是两个用户之间的兼容度结果，取值均为 [0,100] 的整数。
type Score struct {
	Overall    int            `json:"overall"`
	Categories map[string]int `json:"categories"`
}

// Compute 计算两份答案集之间的兼容度。
// 只统计双方都回答过的题目；答案按字符串精确比较（大小写敏感，不做归一化）。
// 分类得分 = round(匹配数/共同作答数 × 100)，该分类无共同作答时为 0 且不计入总分。
// 总分在所有分类的合计上按同样方式计算，无任何共同作答时为 0。
// 取整使用 math.Round，对这里的非负比值即 0.5 进位。
func Compute(a, b map[int]string) Score {
	totalAnswered := 0
	totalMatched := 0

	categoryScores := make(map[string]int, len(Categories))
	for category, questionIDs := range Categories {
		answered := 0
		matched := 0
		for _, id := range questionIDs {
			answerA, okA := a[id]
			answerB, okB := b[id]
			if !okA || !okB || answerA == "" || answerB == "" {
				continue
			}
			answered++
			totalAnswered++
			if answerA == answerB {
				matched++
				totalMatched++
			}
		}
		categoryScores[category] = percentage(matched, answered)
	}

	return Score{
		Overall:    percentage(totalMatched, totalAnswered),
		Categories: categoryScores,
	}
}

func percentage(matched, answered int) int {
	if answered == 0 {
		return 0
	}
	return int(math.Round(float64(matched) / float64(answered) * 100))
}
