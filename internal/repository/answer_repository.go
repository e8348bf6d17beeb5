package repository

import (
	"context"

	"evaluation_backend/internal/model"
	"evaluation_backend/pkg/docstore"
)

type AnswerRepository struct {
	collection[model.AnswerRecord]
}

func NewAnswerRepository(store docstore.Store, locker docstore.Locker) *AnswerRepository {
	return &AnswerRepository{collection[model.AnswerRecord]{
		name:   docstore.CollectionAnswers,
		store:  store,
		locker: locker,
	}}
}

// Append 在锁内追加一条回答
func (r *AnswerRepository) Append(ctx context.Context, record model.AnswerRecord) error {
	_, err := r.Update(ctx, func(records []model.AnswerRecord) ([]model.AnswerRecord, error) {
		return append(records, record), nil
	})
	return err
}
