package repository

import (
	"context"

	"evaluation_backend/internal/model"
	"evaluation_backend/pkg/docstore"
)

type EmployeeRepository struct {
	collection[model.Employee]
}

func NewEmployeeRepository(store docstore.Store, locker docstore.Locker) *EmployeeRepository {
	return &EmployeeRepository{collection[model.Employee]{
		name:   docstore.CollectionEmployees,
		store:  store,
		locker: locker,
	}}
}

// FindByUsername 用户名精确匹配，未找到时返回 nil
func (r *EmployeeRepository) FindByUsername(ctx context.Context, username string) (*model.Employee, error) {
	employees, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range employees {
		if employees[i].Username == username {
			return &employees[i], nil
		}
	}
	return nil, nil
}

// FindByID 未找到时返回 nil
func (r *EmployeeRepository) FindByID(ctx context.Context, id int) (*model.Employee, error) {
	employees, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range employees {
		if employees[i].ID == id {
			return &employees[i], nil
		}
	}
	return nil, nil
}
