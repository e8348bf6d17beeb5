package service

import (
	"context"
	"evaluation_backend/internal/analytics"
	"evaluation_backend/internal/config"
	"evaluation_backend/internal/model"
	"evaluation_backend/internal/util"
	"sync"
	"time"
)

// DashboardService 仪表盘：领导力平均分、授权统计、待完成评估与日历
type DashboardService struct {
	AnswerService     *AnswerService
	EvaluationService *EvaluationService

	mu         sync.RWMutex
	leadership string
	delegation string
}

func NewDashboardService(answerService *AnswerService, evaluationService *EvaluationService, cfg config.DashboardConfig) *DashboardService {
	s := &DashboardService{
		AnswerService:     answerService,
		EvaluationService: evaluationService,
	}
	s.SetQuestions(cfg)
	return s
}

// SetQuestions 配置热加载时更新图表使用的问题
func (s *DashboardService) SetQuestions(cfg config.DashboardConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leadership = cfg.LeadershipQuestion
	s.delegation = cfg.DelegationQuestion
}

func (s *DashboardService) Questions() (leadership, delegation string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.leadership, s.delegation
}

type DashboardOverview struct {
	LeadershipQuestion string                    `json:"leadershipQuestion"`
	Leadership         []analytics.AuthorAverage `json:"leadership"`
	DelegationQuestion string                    `json:"delegationQuestion"`
	Delegation         analytics.YesNoTally      `json:"delegation"`
	Pending            []model.Evaluation        `json:"pending"`
	Month              string                    `json:"month"`
	CalendarMarks      []string                  `json:"calendarMarks"`
	TotalResponses     int                       `json:"totalResponses"`
}

func (s *DashboardService) Overview(ctx context.Context, month time.Time) (*DashboardOverview, error) {
	records, err := s.AnswerService.List(ctx)
	if err != nil {
		return nil, err
	}
	evaluations, err := s.EvaluationService.List(ctx)
	if err != nil {
		return nil, err
	}

	leadership, delegation := s.Questions()
	return &DashboardOverview{
		LeadershipQuestion: leadership,
		Leadership:         analytics.AverageByAuthor(records, leadership),
		DelegationQuestion: delegation,
		Delegation:         analytics.TallyYesNo(records, delegation),
		Pending:            pendingEvaluations(evaluations, s.EvaluationService.Now()),
		Month:              month.Format(util.MonthFormat),
		CalendarMarks:      analytics.DueDatesInMonth(evaluations, month.Year(), month.Month()),
		TotalResponses:     len(records),
	}, nil
}

func (s *DashboardService) Tally(ctx context.Context, question string) (analytics.YesNoTally, error) {
	records, err := s.AnswerService.List(ctx)
	if err != nil {
		return analytics.YesNoTally{}, err
	}
	return analytics.TallyYesNo(records, question), nil
}

func (s *DashboardService) Averages(ctx context.Context, question string) ([]analytics.AuthorAverage, error) {
	records, err := s.AnswerService.List(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.AverageByAuthor(records, question), nil
}

func (s *DashboardService) DueOn(ctx context.Context, date time.Time) ([]model.Evaluation, error) {
	return s.EvaluationService.DueOn(ctx, date)
}

func (s *DashboardService) EvaluationSummary(ctx context.Context, evaluationID int64) (*analytics.EvaluationSummary, error) {
	evaluation, err := s.EvaluationService.Get(ctx, evaluationID)
	if err != nil {
		return nil, err
	}
	records, err := s.AnswerService.List(ctx)
	if err != nil {
		return nil, err
	}
	summary := analytics.SummarizeEvaluation(*evaluation, records)
	return &summary, nil
}
