package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

type valueKind uint8

const (
	kindOther valueKind = iota
	kindString
	kindNumber
)

// AnswerValue 单个回答值，可能是字符串或数字。
// 其他 JSON 类型原样保留，整集合覆盖写入时不会丢失。
type AnswerValue struct {
	kind valueKind
	str  string
	num  float64
	raw  json.RawMessage
}

func StringAnswer(s string) AnswerValue {
	return AnswerValue{kind: kindString, str: s}
}

func NumberAnswer(n float64) AnswerValue {
	return AnswerValue{kind: kindNumber, num: n}
}

func (v AnswerValue) Text() (string, bool) {
	return v.str, v.kind == kindString
}

// Number 仅当值为有限数字时返回 true
func (v AnswerValue) Number() (float64, bool) {
	if v.kind != kindNumber || math.IsNaN(v.num) || math.IsInf(v.num, 0) {
		return 0, false
	}
	return v.num, true
}

func (v AnswerValue) String() string {
	switch v.kind {
	case kindString:
		return v.str
	case kindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return string(v.raw)
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case kindString:
		return json.Marshal(v.str)
	case kindNumber:
		return json.Marshal(v.num)
	}
	if len(v.raw) == 0 {
		return []byte("null"), nil
	}
	return v.raw, nil
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		*v = AnswerValue{}
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = StringAnswer(s)
		return nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		// 超出 float64 范围的数字原样保留，不参与统计
		var n float64
		if err := json.Unmarshal(trimmed, &n); err == nil {
			*v = NumberAnswer(n)
			return nil
		}
	}

	*v = AnswerValue{kind: kindOther, raw: append(json.RawMessage(nil), trimmed...)}
	return nil
}

// swagger:model AnswerRecord
type AnswerRecord struct {
	Author         string                 `json:"author"`
	EvaluationName string                 `json:"evaluationName"`
	Answers        map[string]AnswerValue `json:"answers"`
}
