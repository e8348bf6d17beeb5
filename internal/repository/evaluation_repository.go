package repository

import (
	"context"

	"evaluation_backend/internal/model"
	"evaluation_backend/pkg/docstore"
)

type EvaluationRepository struct {
	collection[model.Evaluation]
}

func NewEvaluationRepository(store docstore.Store, locker docstore.Locker) *EvaluationRepository {
	return &EvaluationRepository{collection[model.Evaluation]{
		name:   docstore.CollectionEvaluations,
		store:  store,
		locker: locker,
	}}
}

// FindByID 未找到时返回 nil
func (r *EvaluationRepository) FindByID(ctx context.Context, id int64) (*model.Evaluation, error) {
	evaluations, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range evaluations {
		if evaluations[i].ID == id {
			return &evaluations[i], nil
		}
	}
	return nil, nil
}
