package service

import (
	"context"
	"evaluation_backend/internal/model"
	"evaluation_backend/internal/repository"
	"evaluation_backend/internal/util"
	"evaluation_backend/pkg/logger"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New()

type EmployeeService struct {
	EmployeeRepo *repository.EmployeeRepository
}

func NewEmployeeService(employeeRepo *repository.EmployeeRepository) *EmployeeService {
	return &EmployeeService{EmployeeRepo: employeeRepo}
}

type CreateEmployeeInput struct {
	Name     string
	Email    string
	Position string
	Username string
	Password string
	Role     model.EmployeeRole
}

func (in *CreateEmployeeInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Position = strings.TrimSpace(in.Position)
	in.Username = strings.TrimSpace(in.Username)

	switch {
	case in.Name == "":
		return util.NewValidationError("name", "is required")
	case in.Email == "":
		return util.NewValidationError("email", "is required")
	case in.Position == "":
		return util.NewValidationError("position", "is required")
	case in.Username == "":
		return util.NewValidationError("username", "is required")
	case in.Password == "":
		return util.NewValidationError("password", "is required")
	}

	if err := validate.Var(in.Email, "email"); err != nil {
		return util.NewValidationError("email", "is not a valid address")
	}

	if in.Role == "" {
		in.Role = model.RoleEmployee
	}
	if !in.Role.Valid() {
		return util.NewValidationError("role", "must be admin or employee")
	}
	return nil
}

func (s *EmployeeService) List(ctx context.Context) ([]model.EmployeeView, error) {
	employees, err := s.EmployeeRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]model.EmployeeView, len(employees))
	for i, e := range employees {
		views[i] = e.View()
	}
	return views, nil
}

func (s *EmployeeService) Get(ctx context.Context, id int) (*model.EmployeeView, error) {
	employee, err := s.EmployeeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, util.ErrEmployeeNotFound
	}
	view := employee.View()
	return &view, nil
}

// Create ID 取现有最大值加一，删除后不会复用
func (s *EmployeeService) Create(ctx context.Context, in CreateEmployeeInput) (*model.EmployeeView, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	hashed, err := util.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	var created model.Employee
	_, err = s.EmployeeRepo.Update(ctx, func(employees []model.Employee) ([]model.Employee, error) {
		maxID := 0
		for _, e := range employees {
			if e.Username == in.Username {
				return nil, util.ErrUsernameTaken
			}
			if e.ID > maxID {
				maxID = e.ID
			}
		}

		created = model.Employee{
			ID:       maxID + 1,
			Name:     in.Name,
			Email:    in.Email,
			Position: in.Position,
			Username: in.Username,
			Password: hashed,
			Role:     in.Role,
		}
		return append(employees, created), nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Employee created", zap.Int("employee_id", created.ID), zap.String("username", created.Username))
	view := created.View()
	return &view, nil
}

// Delete 删除员工，actorID 为操作者，不能删除自己的账号
func (s *EmployeeService) Delete(ctx context.Context, actorID, id int) error {
	if actorID == id {
		return util.ErrPermissionDenied
	}

	_, err := s.EmployeeRepo.Update(ctx, func(employees []model.Employee) ([]model.Employee, error) {
		kept := make([]model.Employee, 0, len(employees))
		found := false
		for _, e := range employees {
			if e.ID == id {
				found = true
				continue
			}
			kept = append(kept, e)
		}
		if !found {
			return nil, util.ErrEmployeeNotFound
		}
		return kept, nil
	})
	if err != nil {
		return err
	}

	logger.Log.Info("Employee deleted", zap.Int("employee_id", id))
	return nil
}
