package analytics

import (
	"sort"
	"time"

	"evaluation_backend/internal/model"
)

const DateLayout = "2006-01-02"

// FormatDate 日期比较两侧共用的唯一规范化函数。
// 使用时间自身的时区，不做隐式 UTC 转换。
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// NormalizeDate 将存储的日期字符串规范化为 YYYY-MM-DD，接受 YYYY-MM-DD 或 RFC3339
func NormalizeDate(s string) (string, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return FormatDate(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return "", err
	}
	return FormatDate(t), nil
}

// ParseDate 解析 YYYY-MM-DD，结果位于 UTC 零点，再经 FormatDate 得到原字符串
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func dueOn(e model.Evaluation, target string) bool {
	due, err := NormalizeDate(e.DueDate)
	if err != nil {
		return false
	}
	return due == target
}

// MatchDueDate 返回截止日期等于指定日期的所有评估，保持输入顺序
func MatchDueDate(evals []model.Evaluation, date time.Time) []model.Evaluation {
	target := FormatDate(date)
	result := make([]model.Evaluation, 0)
	for _, e := range evals {
		if dueOn(e, target) {
			result = append(result, e)
		}
	}
	return result
}

// HasDueDate 日历格子是否需要标记
func HasDueDate(evals []model.Evaluation, date time.Time) bool {
	target := FormatDate(date)
	for _, e := range evals {
		if dueOn(e, target) {
			return true
		}
	}
	return false
}

// DueDatesInMonth 返回某月内所有有评估截止的日期，升序去重
func DueDatesInMonth(evals []model.Evaluation, year int, month time.Month) []string {
	seen := make(map[string]bool)
	for _, e := range evals {
		due, err := NormalizeDate(e.DueDate)
		if err != nil {
			continue
		}
		t, _ := ParseDate(due)
		if t.Year() == year && t.Month() == month {
			seen[due] = true
		}
	}

	result := make([]string, 0, len(seen))
	for d := range seen {
		result = append(result, d)
	}
	sort.Strings(result)
	return result
}
