package model

import "time"

// 时间戳以 ISO-8601 字符串存储与传输，与前端及历史数据保持一致。
const isoLayout = "2006-01-02T15:04:05.000Z"

// NowISO 返回当前 UTC 时间的 ISO-8601 字符串。
func NowISO() string {
	return time.Now().UTC().Format(isoLayout)
}

// ParseISO 解析 ISO-8601 时间戳，无法解析时返回零值时间。
// 排序场景下零值自然排在最旧。
func ParseISO(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
