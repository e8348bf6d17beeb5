package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Document 每个集合在表中占一行
type Document struct {
	Name      string    `gorm:"primaryKey;size:64"`
	Body      string    `gorm:"type:longtext;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Document) TableName() string {
	return "documents"
}

// SQLStore 以关系数据库表保存集合的文档存储
type SQLStore struct {
	DB *gorm.DB
}

func NewSQLStore(db *gorm.DB) (*SQLStore, error) {
	if err := db.AutoMigrate(&Document{}); err != nil {
		return nil, err
	}
	return &SQLStore{DB: db}, nil
}

func (s *SQLStore) Get(ctx context.Context, collection string, out any) error {
	var doc Document
	err := s.DB.WithContext(ctx).Where("name = ?", collection).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decodeRecord(nil, out)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return decodeRecord([]byte(doc.Body), out)
}

func (s *SQLStore) Put(ctx context.Context, collection string, in any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("docstore: encode %s: %w", collection, err)
	}

	doc := Document{Name: collection, Body: string(body)}
	err = s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(&doc).Error
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return nil
}
