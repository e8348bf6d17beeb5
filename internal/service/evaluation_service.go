package service

import (
	"context"
	"evaluation_backend/internal/analytics"
	"evaluation_backend/internal/model"
	"evaluation_backend/internal/repository"
	"evaluation_backend/internal/util"
	"evaluation_backend/pkg/logger"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

type EvaluationService struct {
	EvaluationRepo *repository.EvaluationRepository
	// Now 可在测试中替换
	Now func() time.Time
}

func NewEvaluationService(evaluationRepo *repository.EvaluationRepository) *EvaluationService {
	return &EvaluationService{
		EvaluationRepo: evaluationRepo,
		Now:            time.Now,
	}
}

type CreateEvaluationInput struct {
	Title     string
	IsCurrent bool
	DueDate   string
	Questions []model.Question
}

func (in *CreateEvaluationInput) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return util.NewValidationError("title", "is required")
	}
	if len(in.Questions) == 0 {
		return util.NewValidationError("questions", "at least one question is required")
	}

	// 回答按问题文本存储，文本必须唯一
	labels := make(map[string]bool, len(in.Questions))
	for i := range in.Questions {
		q := &in.Questions[i]
		field := fmt.Sprintf("questions[%d]", i)
		q.Label = strings.TrimSpace(q.Label)
		if q.Label == "" {
			return util.NewValidationError(field+".label", "is required")
		}
		if labels[q.Label] {
			return util.NewValidationError(field+".label", "duplicates another question")
		}
		labels[q.Label] = true
		if !q.Type.Valid() {
			return util.NewValidationError(field+".type", "must be text, scale or multiple-choice")
		}
		if q.Type != model.QuestionMultipleChoice {
			q.Options = nil
			continue
		}
		options := make([]string, 0, len(q.Options))
		for _, opt := range q.Options {
			if opt = strings.TrimSpace(opt); opt != "" {
				options = append(options, opt)
			}
		}
		if len(options) == 0 {
			return util.NewValidationError(field+".options", "multiple-choice needs at least one option")
		}
		q.Options = options
	}

	if in.DueDate != "" {
		normalized, err := analytics.NormalizeDate(in.DueDate)
		if err != nil {
			return util.NewValidationError("dueDate", "must be YYYY-MM-DD")
		}
		in.DueDate = normalized
	}
	return nil
}

func (s *EvaluationService) List(ctx context.Context) ([]model.Evaluation, error) {
	return s.EvaluationRepo.FindAll(ctx)
}

func (s *EvaluationService) Get(ctx context.Context, id int64) (*model.Evaluation, error) {
	evaluation, err := s.EvaluationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if evaluation == nil {
		return nil, util.ErrEvaluationNotFound
	}
	return evaluation, nil
}

// Current 返回当前评估；存在多个时取第一个并记录警告
func (s *EvaluationService) Current(ctx context.Context) (*model.Evaluation, error) {
	evaluations, err := s.EvaluationRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	var current *model.Evaluation
	count := 0
	for i := range evaluations {
		if !evaluations[i].IsCurrent {
			continue
		}
		count++
		if current == nil {
			current = &evaluations[i]
		}
	}
	if current == nil {
		return nil, util.ErrNoCurrentEvaluation
	}
	if count > 1 {
		logger.Log.Warn("More than one evaluation is marked current", zap.Int("count", count))
	}
	return current, nil
}

func (s *EvaluationService) Create(ctx context.Context, in CreateEvaluationInput) (*model.Evaluation, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	var created model.Evaluation
	_, err := s.EvaluationRepo.Update(ctx, func(evaluations []model.Evaluation) ([]model.Evaluation, error) {
		id := s.Now().UnixMilli()
		var maxQuestionID int64
		for _, e := range evaluations {
			if e.ID >= id {
				id = e.ID + 1
			}
			for _, q := range e.Questions {
				if q.ID > maxQuestionID {
					maxQuestionID = q.ID
				}
			}
		}

		questions := make([]model.Question, len(in.Questions))
		seen := make(map[int64]bool, len(in.Questions))
		for i, q := range in.Questions {
			if q.ID == 0 || seen[q.ID] {
				maxQuestionID++
				if maxQuestionID < id {
					maxQuestionID = id
				}
				q.ID = maxQuestionID
			}
			seen[q.ID] = true
			questions[i] = q
		}

		if in.IsCurrent {
			for i := range evaluations {
				evaluations[i].IsCurrent = false
			}
		}

		created = model.Evaluation{
			ID:        id,
			Title:     in.Title,
			IsCurrent: in.IsCurrent,
			DueDate:   in.DueDate,
			Questions: questions,
		}
		return append(evaluations, created), nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Evaluation created",
		zap.Int64("evaluation_id", created.ID),
		zap.String("title", created.Title),
		zap.Bool("current", created.IsCurrent),
	)
	return &created, nil
}

// SetCurrent 在一次整体替换中设置当前评估，保证最多一个 isCurrent
func (s *EvaluationService) SetCurrent(ctx context.Context, id int64) (*model.Evaluation, error) {
	var current model.Evaluation
	_, err := s.EvaluationRepo.Update(ctx, func(evaluations []model.Evaluation) ([]model.Evaluation, error) {
		found := false
		for i := range evaluations {
			evaluations[i].IsCurrent = evaluations[i].ID == id
			if evaluations[i].IsCurrent {
				found = true
				current = evaluations[i]
			}
		}
		if !found {
			return nil, util.ErrEvaluationNotFound
		}
		return evaluations, nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Current evaluation changed", zap.Int64("evaluation_id", id))
	return &current, nil
}

func (s *EvaluationService) Delete(ctx context.Context, id int64) error {
	_, err := s.EvaluationRepo.Update(ctx, func(evaluations []model.Evaluation) ([]model.Evaluation, error) {
		kept := make([]model.Evaluation, 0, len(evaluations))
		found := false
		for _, e := range evaluations {
			if e.ID == id {
				found = true
				continue
			}
			kept = append(kept, e)
		}
		if !found {
			return nil, util.ErrEvaluationNotFound
		}
		return kept, nil
	})
	if err != nil {
		return err
	}

	logger.Log.Info("Evaluation deleted", zap.Int64("evaluation_id", id))
	return nil
}

func (s *EvaluationService) DueOn(ctx context.Context, date time.Time) ([]model.Evaluation, error) {
	evaluations, err := s.EvaluationRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.MatchDueDate(evaluations, date), nil
}

func (s *EvaluationService) MonthMarks(ctx context.Context, year int, month time.Month) ([]string, error) {
	evaluations, err := s.EvaluationRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.DueDatesInMonth(evaluations, year, month), nil
}

// Pending 截止日期为今天或之后、或未设置截止日期的评估，按截止日期排序
func (s *EvaluationService) Pending(ctx context.Context) ([]model.Evaluation, error) {
	evaluations, err := s.EvaluationRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return pendingEvaluations(evaluations, s.Now()), nil
}

func pendingEvaluations(evaluations []model.Evaluation, now time.Time) []model.Evaluation {
	type dated struct {
		evaluation model.Evaluation
		due        string
	}

	today := analytics.FormatDate(now)
	candidates := make([]dated, 0, len(evaluations))
	for _, e := range evaluations {
		if e.DueDate == "" {
			candidates = append(candidates, dated{evaluation: e})
			continue
		}
		due, err := analytics.NormalizeDate(e.DueDate)
		if err != nil {
			continue
		}
		// YYYY-MM-DD 可直接按字典序比较
		if due >= today {
			candidates = append(candidates, dated{evaluation: e, due: due})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i].due, candidates[j].due
		if a == "" || b == "" {
			return a != "" && b == ""
		}
		return a < b
	})

	pending := make([]model.Evaluation, len(candidates))
	for i, c := range candidates {
		pending[i] = c.evaluation
	}
	return pending
}
