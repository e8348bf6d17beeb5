package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerRecord_DecodeMixedValues(t *testing.T) {
	body := `{"author":"Ana","evaluationName":"Q3","answers":{"lead":7,"delegate":"si","flag":true,"empty":null}}`

	var rec AnswerRecord
	require.NoError(t, json.Unmarshal([]byte(body), &rec))

	n, ok := rec.Answers["lead"].Number()
	assert.True(t, ok)
	assert.Equal(t, 7.0, n)

	s, ok := rec.Answers["delegate"].Text()
	assert.True(t, ok)
	assert.Equal(t, "si", s)

	_, ok = rec.Answers["flag"].Number()
	assert.False(t, ok)
	_, ok = rec.Answers["flag"].Text()
	assert.False(t, ok)

	_, ok = rec.Answers["missing"].Number()
	assert.False(t, ok)
}

func TestAnswerValue_PreservesUnknownTypes(t *testing.T) {
	body := `{"flag":true,"list":[1,2],"num":2.5,"txt":"no"}`

	var answers map[string]AnswerValue
	require.NoError(t, json.Unmarshal([]byte(body), &answers))

	out, err := json.Marshal(answers)
	require.NoError(t, err)
	assert.JSONEq(t, body, string(out))
}

func TestAnswerValue_NumericStringIsNotANumber(t *testing.T) {
	var v AnswerValue
	require.NoError(t, json.Unmarshal([]byte(`"7"`), &v))

	_, ok := v.Number()
	assert.False(t, ok)
	assert.Equal(t, "7", v.String())
}

func TestAnswerValue_OutOfRangeNumberIsKeptRaw(t *testing.T) {
	body := `[{"author":"Ana","answers":{"Q":5}},{"author":"Luis","answers":{"Q":1e400}}]`

	var records []AnswerRecord
	require.NoError(t, json.Unmarshal([]byte(body), &records))
	require.Len(t, records, 2)

	_, ok := records[1].Answers["Q"].Number()
	assert.False(t, ok)
	_, ok = records[1].Answers["Q"].Text()
	assert.False(t, ok)

	out, err := json.Marshal(records[1].Answers)
	require.NoError(t, err)
	assert.Equal(t, `{"Q":1e400}`, string(out))
}
