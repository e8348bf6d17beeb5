package model

type QuestionType string

const (
	QuestionText           QuestionType = "text"
	QuestionScale          QuestionType = "scale"
	QuestionMultipleChoice QuestionType = "multiple-choice"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionText, QuestionScale, QuestionMultipleChoice:
		return true
	}
	return false
}

// 评分题的取值范围
const (
	ScaleMin = 1
	ScaleMax = 10
)

// swagger:model Question
type Question struct {
	ID      int64        `json:"id"`
	Type    QuestionType `json:"type"`
	Label   string       `json:"label"`
	Options []string     `json:"options,omitempty"`
}

// swagger:model Evaluation
type Evaluation struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	IsCurrent bool       `json:"isCurrent"`
	DueDate   string     `json:"dueDate"`
	Questions []Question `json:"questions"`
}
