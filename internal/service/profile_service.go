package service

import (
	"context"
	"evaluation_backend/internal/model"
)

type ProfileService struct {
	EmployeeService *EmployeeService
	AnswerService   *AnswerService
}

func NewProfileService(employeeService *EmployeeService, answerService *AnswerService) *ProfileService {
	return &ProfileService{
		EmployeeService: employeeService,
		AnswerService:   answerService,
	}
}

type Profile struct {
	Employee model.EmployeeView   `json:"employee"`
	History  []model.AnswerRecord `json:"history"`
}

// Get 回答历史按员工姓名匹配，与提交时记录的 author 一致
func (s *ProfileService) Get(ctx context.Context, employeeID int) (*Profile, error) {
	employee, err := s.EmployeeService.Get(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	history, err := s.AnswerService.ListByAuthor(ctx, employee.Name)
	if err != nil {
		return nil, err
	}
	return &Profile{Employee: *employee, History: history}, nil
}
