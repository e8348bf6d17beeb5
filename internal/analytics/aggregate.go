// Package analytics 将已取回的回答与评估集合归约为图表数据。
// 所有函数都是纯函数，不持有任何跨调用状态。
package analytics

import (
	"evaluation_backend/internal/model"
)

// 是/否统计只识别这两个字面值
const (
	AnswerYes = "si"
	AnswerNo  = "no"
)

type YesNoTally struct {
	Yes int `json:"yes"`
	No  int `json:"no"`
}

type AuthorAverage struct {
	Author  string  `json:"author"`
	Average float64 `json:"average"`
}

// TallyYesNo 统计某个问题中 "si" 与 "no" 的数量，其他值（包括缺失）忽略
func TallyYesNo(records []model.AnswerRecord, question string) YesNoTally {
	var tally YesNoTally
	for _, rec := range records {
		s, ok := rec.Answers[question].Text()
		if !ok {
			continue
		}
		switch s {
		case AnswerYes:
			tally.Yes++
		case AnswerNo:
			tally.No++
		}
	}
	return tally
}

type accumulator struct {
	total float64
	count int
}

// AverageByAuthor 按作者计算某个问题数字回答的平均值。
// 作者按首次出现顺序输出，没有数字回答的作者不出现在结果中。
func AverageByAuthor(records []model.AnswerRecord, question string) []AuthorAverage {
	acc := make(map[string]*accumulator)
	var order []string

	for _, rec := range records {
		n, ok := rec.Answers[question].Number()
		if !ok {
			continue
		}
		a, exists := acc[rec.Author]
		if !exists {
			a = &accumulator{}
			acc[rec.Author] = a
			order = append(order, rec.Author)
		}
		a.total += n
		a.count++
	}

	result := make([]AuthorAverage, 0, len(order))
	for _, author := range order {
		a := acc[author]
		result = append(result, AuthorAverage{
			Author:  author,
			Average: a.total / float64(a.count),
		})
	}
	return result
}

// FilterByEvaluation 只保留指定评估名称的回答
func FilterByEvaluation(records []model.AnswerRecord, evaluationName string) []model.AnswerRecord {
	result := make([]model.AnswerRecord, 0, len(records))
	for _, rec := range records {
		if rec.EvaluationName == evaluationName {
			result = append(result, rec)
		}
	}
	return result
}

// FilterByAuthor 只保留指定作者的回答，精确匹配
func FilterByAuthor(records []model.AnswerRecord, author string) []model.AnswerRecord {
	result := make([]model.AnswerRecord, 0, len(records))
	for _, rec := range records {
		if rec.Author == author {
			result = append(result, rec)
		}
	}
	return result
}

type QuestionSummary struct {
	QuestionID int64              `json:"questionId"`
	Label      string             `json:"label"`
	Type       model.QuestionType `json:"type"`
	Answered   int                `json:"answered"`
	Tally      *YesNoTally        `json:"tally,omitempty"`
	Averages   []AuthorAverage    `json:"averages,omitempty"`
}

type EvaluationSummary struct {
	EvaluationID int64             `json:"evaluationId"`
	Title        string            `json:"title"`
	Responses    int               `json:"responses"`
	Questions    []QuestionSummary `json:"questions"`
}

// SummarizeEvaluation 为一个评估的每个问题生成汇总：
// 评分题给出按作者平均值，其他题给出是/否统计。
func SummarizeEvaluation(def model.Evaluation, records []model.AnswerRecord) EvaluationSummary {
	matching := FilterByEvaluation(records, def.Title)

	summary := EvaluationSummary{
		EvaluationID: def.ID,
		Title:        def.Title,
		Responses:    len(matching),
		Questions:    make([]QuestionSummary, 0, len(def.Questions)),
	}

	for _, q := range def.Questions {
		qs := QuestionSummary{
			QuestionID: q.ID,
			Label:      q.Label,
			Type:       q.Type,
		}
		for _, rec := range matching {
			if _, ok := rec.Answers[q.Label]; ok {
				qs.Answered++
			}
		}
		if q.Type == model.QuestionScale {
			qs.Averages = AverageByAuthor(matching, q.Label)
		} else {
			tally := TallyYesNo(matching, q.Label)
			qs.Tally = &tally
		}
		summary.Questions = append(summary.Questions, qs)
	}

	return summary
}
