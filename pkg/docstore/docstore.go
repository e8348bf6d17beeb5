// Package docstore 通用 JSON 文档存储。每个集合是一个完整的 JSON 数组，
// 读取时整体 GET，写入时整体 PUT 覆盖。
package docstore

import (
	"context"
	"errors"
	"fmt"
)

const (
	CollectionEmployees   = "employees"
	CollectionEvaluations = "evaluations"
	CollectionAnswers     = "answers"
)

var (
	ErrNetwork           = errors.New("document store unreachable")
	ErrStatus            = errors.New("document store returned non-2xx status")
	ErrDecode            = errors.New("document store returned malformed JSON")
	ErrUnknownCollection = errors.New("unknown collection")
)

// StatusError 非 2xx 响应
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("document store returned status %d", e.Code)
}

func (e *StatusError) Unwrap() error { return ErrStatus }

// Store 文档存储
type Store interface {
	// Get 读取整个集合并解码到 out
	Get(ctx context.Context, collection string, out any) error
	// Put 用 in 整体替换集合
	Put(ctx context.Context, collection string, in any) error
}
