package service

import (
	"context"
	"evaluation_backend/internal/analytics"
	"evaluation_backend/internal/model"
	"evaluation_backend/internal/repository"
	"evaluation_backend/internal/util"
	"evaluation_backend/pkg/logger"
	"evaluation_backend/pkg/monitoring"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

type AnswerService struct {
	AnswerRepo        *repository.AnswerRepository
	EvaluationService *EvaluationService
}

func NewAnswerService(answerRepo *repository.AnswerRepository, evaluationService *EvaluationService) *AnswerService {
	return &AnswerService{
		AnswerRepo:        answerRepo,
		EvaluationService: evaluationService,
	}
}

// Submit 对当前评估提交回答。responses 以问题 ID 为键，存储时以问题文本为键
func (s *AnswerService) Submit(ctx context.Context, author string, responses map[int64]string) (*model.AnswerRecord, error) {
	author = strings.TrimSpace(author)
	if author == "" {
		return nil, util.NewValidationError("author", "is required")
	}

	evaluation, err := s.EvaluationService.Current(ctx)
	if err != nil {
		return nil, err
	}

	answers, err := buildAnswers(*evaluation, responses)
	if err != nil {
		return nil, err
	}

	record := model.AnswerRecord{
		Author:         author,
		EvaluationName: evaluation.Title,
		Answers:        answers,
	}
	if err := s.AnswerRepo.Append(ctx, record); err != nil {
		return nil, err
	}

	monitoring.AnswersSubmitted.Inc()
	logger.Log.Info("Answers submitted",
		zap.String("author", author),
		zap.Int64("evaluation_id", evaluation.ID),
	)
	return &record, nil
}

func buildAnswers(evaluation model.Evaluation, responses map[int64]string) (map[string]model.AnswerValue, error) {
	answers := make(map[string]model.AnswerValue, len(evaluation.Questions))
	for _, q := range evaluation.Questions {
		field := fmt.Sprintf("responses[%d]", q.ID)
		raw := strings.TrimSpace(responses[q.ID])
		if raw == "" {
			return nil, util.NewValidationError(field, fmt.Sprintf("question %q is unanswered", q.Label))
		}

		switch q.Type {
		case model.QuestionScale:
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil || math.IsNaN(n) || n < model.ScaleMin || n > model.ScaleMax {
				return nil, util.NewValidationError(field, fmt.Sprintf("must be a number between %d and %d", model.ScaleMin, model.ScaleMax))
			}
			answers[q.Label] = model.NumberAnswer(n)
		case model.QuestionMultipleChoice:
			if !containsOption(q.Options, raw) {
				return nil, util.NewValidationError(field, "is not one of the options")
			}
			answers[q.Label] = model.StringAnswer(raw)
		default:
			answers[q.Label] = model.StringAnswer(raw)
		}
	}
	return answers, nil
}

func containsOption(options []string, value string) bool {
	for _, opt := range options {
		if opt == value {
			return true
		}
	}
	return false
}

func (s *AnswerService) List(ctx context.Context) ([]model.AnswerRecord, error) {
	return s.AnswerRepo.FindAll(ctx)
}

func (s *AnswerService) ListByAuthor(ctx context.Context, author string) ([]model.AnswerRecord, error) {
	records, err := s.AnswerRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.FilterByAuthor(records, author), nil
}
