package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"
)

// JSONBinStore 基于 jsonbin.io 风格 HTTP API 的文档存储
type JSONBinStore struct {
	baseURL    string
	masterKey  string
	bins       map[string]string
	httpClient *http.Client
}

func NewJSONBinStore(baseURL, masterKey string, bins map[string]string, timeout time.Duration) *JSONBinStore {
	return &JSONBinStore{
		baseURL:    strings.TrimRight(baseURL, "/"),
		masterKey:  masterKey,
		bins:       bins,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type envelope struct {
	Record json.RawMessage `json:"record"`
}

func (s *JSONBinStore) binURL(collection string, latest bool) (string, error) {
	binID, ok := s.bins[collection]
	if !ok || binID == "" {
		return "", fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}
	u := s.baseURL + "/b/" + binID
	if latest {
		u += "/latest"
	}
	return u, nil
}

func (s *JSONBinStore) Get(ctx context.Context, collection string, out any) error {
	u, err := s.binURL(collection, true)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("docstore: create request: %w", err)
	}

	return s.do(req, out)
}

func (s *JSONBinStore) Put(ctx context.Context, collection string, in any) error {
	u, err := s.binURL(collection, false)
	if err != nil {
		return err
	}

	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("docstore: encode %s: %w", collection, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("docstore: create request: %w", err)
	}

	return s.do(req, nil)
}

func (s *JSONBinStore) do(req *http.Request, out any) error {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Master-Key", s.masterKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	if out == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return decodeRecord(env.Record, out)
}

// decodeRecord 空记录或 null 视为空集合。
// 早期前端会把单个对象直接写入集合，目标为切片时按单元素数组读取。
func decodeRecord(raw json.RawMessage, out any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		trimmed = []byte("[]")
	}
	if trimmed[0] == '{' && targetIsSlice(out) {
		wrapped := make([]byte, 0, len(trimmed)+2)
		wrapped = append(wrapped, '[')
		wrapped = append(wrapped, trimmed...)
		trimmed = append(wrapped, ']')
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

func targetIsSlice(out any) bool {
	v := reflect.ValueOf(out)
	return v.Kind() == reflect.Pointer && v.Elem().Kind() == reflect.Slice
}
