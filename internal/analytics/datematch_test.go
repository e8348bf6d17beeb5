package analytics

import (
	"testing"
	"time"

	"evaluation_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchDueDate(t *testing.T) {
	evals := []model.Evaluation{
		{ID: 1, Title: "first", DueDate: "2024-10-01"},
		{ID: 2, Title: "second", DueDate: "2024-10-02"},
	}

	target, err := ParseDate("2024-10-01")
	require.NoError(t, err)

	got := MatchDueDate(evals, target)
	assert.Equal(t, []model.Evaluation{evals[0]}, got)
	assert.True(t, HasDueDate(evals, target))
}

func TestMatchDueDate_NoMatch(t *testing.T) {
	evals := []model.Evaluation{{ID: 1, DueDate: "2024-10-01"}}

	got := MatchDueDate(evals, time.Date(2024, 10, 3, 0, 0, 0, 0, time.UTC))
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.False(t, HasDueDate(evals, time.Date(2024, 10, 3, 0, 0, 0, 0, time.UTC)))
}

func TestMatchDueDate_UsesLocalCalendarDay(t *testing.T) {
	evals := []model.Evaluation{{ID: 1, DueDate: "2024-10-01"}}
	bogota := time.FixedZone("COT", -5*3600)

	// 23:30 in Bogota is already the 2nd in UTC; the calendar day must still be the 1st.
	late := time.Date(2024, 10, 1, 23, 30, 0, 0, bogota)
	assert.Len(t, MatchDueDate(evals, late), 1)
}

func TestMatchDueDate_NormalizesStoredSide(t *testing.T) {
	evals := []model.Evaluation{
		{ID: 1, DueDate: "2024-10-01T09:00:00-05:00"},
		{ID: 2, DueDate: "not a date"},
		{ID: 3, DueDate: ""},
	}

	got := MatchDueDate(evals, time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC))
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestNormalizeDate(t *testing.T) {
	got, err := NormalizeDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", got)

	_, err = NormalizeDate("2024-02-30")
	assert.Error(t, err)

	_, err = NormalizeDate("01/10/2024")
	assert.Error(t, err)
}

func TestDueDatesInMonth(t *testing.T) {
	evals := []model.Evaluation{
		{DueDate: "2024-10-15"},
		{DueDate: "2024-10-01"},
		{DueDate: "2024-10-15"},
		{DueDate: "2024-11-01"},
		{DueDate: "bad"},
	}

	assert.Equal(t, []string{"2024-10-01", "2024-10-15"}, DueDatesInMonth(evals, 2024, time.October))
	assert.Empty(t, DueDatesInMonth(evals, 2023, time.October))
}
