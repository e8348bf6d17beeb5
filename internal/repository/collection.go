package repository

import (
	"context"
	"fmt"

	"evaluation_backend/pkg/docstore"
)

// collection 对单个文档集合的读取与整体替换。
// Update 在锁内完成 读取-修改-覆盖，防止并发写入互相覆盖。
type collection[T any] struct {
	name   string
	store  docstore.Store
	locker docstore.Locker
}

func (c *collection[T]) FindAll(ctx context.Context) ([]T, error) {
	var items []T
	if err := c.store.Get(ctx, c.name, &items); err != nil {
		return nil, fmt.Errorf("load %s: %w", c.name, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (c *collection[T]) ReplaceAll(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	if err := c.store.Put(ctx, c.name, items); err != nil {
		return fmt.Errorf("save %s: %w", c.name, err)
	}
	return nil
}

func (c *collection[T]) Update(ctx context.Context, mutate func([]T) ([]T, error)) ([]T, error) {
	unlock, err := c.locker.Lock(ctx, c.name)
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", c.name, err)
	}
	defer unlock()

	items, err := c.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := mutate(items)
	if err != nil {
		return nil, err
	}

	if err := c.ReplaceAll(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}
