package service

import (
	"context"
	"evaluation_backend/internal/config"
	"evaluation_backend/internal/model"
	"evaluation_backend/internal/repository"
	"evaluation_backend/internal/util"
	"evaluation_backend/pkg/logger"

	"go.uber.org/zap"
)

type AuthService struct {
	EmployeeRepo *repository.EmployeeRepository
	Cfg          *config.Config
}

func NewAuthService(employeeRepo *repository.EmployeeRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		EmployeeRepo: employeeRepo,
		Cfg:          cfg,
	}
}

type LoginResult struct {
	Token    string             `json:"token"`
	Employee model.EmployeeView `json:"employee"`
}

// Login 用户不存在与密码错误返回同一个错误
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	employee, err := s.EmployeeRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		util.CheckDummyPassword(password)
		logger.Log.Info("Login rejected", zap.String("username", username))
		return nil, util.ErrInvalidCredentials
	}
	if !util.CheckPassword(employee.Password, password) {
		logger.Log.Info("Login rejected", zap.String("username", username))
		return nil, util.ErrInvalidCredentials
	}

	if util.IsLegacyHash(employee.Password) {
		s.upgradeHash(ctx, employee.ID, password)
	}

	token, err := util.GenerateJWT(employee, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, Employee: employee.View()}, nil
}

// upgradeHash 将旧的 SHA-256 哈希替换为 bcrypt，失败不影响登录
func (s *AuthService) upgradeHash(ctx context.Context, employeeID int, password string) {
	hashed, err := util.HashPassword(password)
	if err != nil {
		logger.Log.Warn("Failed to hash password for upgrade", zap.Error(err))
		return
	}

	_, err = s.EmployeeRepo.Update(ctx, func(employees []model.Employee) ([]model.Employee, error) {
		for i := range employees {
			if employees[i].ID == employeeID {
				employees[i].Password = hashed
			}
		}
		return employees, nil
	})
	if err != nil {
		logger.Log.Warn("Failed to upgrade legacy password hash", zap.Int("employee_id", employeeID), zap.Error(err))
		return
	}
	logger.Log.Info("Upgraded legacy password hash", zap.Int("employee_id", employeeID))
}
