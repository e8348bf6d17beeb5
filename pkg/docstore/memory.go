package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore 进程内文档存储，用于本地开发与测试
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

func (s *MemoryStore) Get(ctx context.Context, collection string, out any) error {
	s.mu.RLock()
	body := s.docs[collection]
	s.mu.RUnlock()

	return decodeRecord(body, out)
}

func (s *MemoryStore) Put(ctx context.Context, collection string, in any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("docstore: encode %s: %w", collection, err)
	}

	s.mu.Lock()
	s.docs[collection] = body
	s.mu.Unlock()
	return nil
}

// Seed 直接写入原始 JSON，测试用
func (s *MemoryStore) Seed(collection string, raw string) {
	s.mu.Lock()
	s.docs[collection] = []byte(raw)
	s.mu.Unlock()
}
