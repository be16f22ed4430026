package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkarpenko/faultlog/internal/domain/model/record"
)

func threeRecords() []record.Record {
	return []record.Record{
		{ID: 30, Status: "Открыта", Description: "перегрев"},
		{ID: 20, Status: "Открыта", Description: "вибрация"},
		{ID: 10, Status: "Закрыта", Description: "течь масла"},
	}
}

func TestAdvanceClampsCursor(t *testing.T) {
	tests := []struct {
		name   string
		steps  []int
		cursor int
	}{
		{name: "forward", steps: []int{1}, cursor: 1},
		{name: "forward then back", steps: []int{1, -1}, cursor: 0},
		{name: "past upper edge is a no-op", steps: []int{1, 1, 1, 1}, cursor: 2},
		{name: "past lower edge is a no-op", steps: []int{-1, -1}, cursor: 0},
		{name: "edge press after walking", steps: []int{1, 1, -1, -1, -1}, cursor: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(1, "открыта", threeRecords())
			for _, d := range tt.steps {
				s.Advance(d)
			}
			assert.Equal(t, tt.cursor, s.Cursor())
			assert.GreaterOrEqual(t, s.Cursor(), 0)
			assert.Less(t, s.Cursor(), s.Len())
		})
	}
}

func TestCurrentFollowsCursor(t *testing.T) {
	s := New(1, "", threeRecords())
	assert.Equal(t, int64(30), s.Current().ID)
	s.Advance(1)
	assert.Equal(t, int64(20), s.Current().ID)
}

func TestStageEdit(t *testing.T) {
	s := New(1, "перегрев", threeRecords())

	err := s.StageEdit(record.FieldStatus)
	require.NoError(t, err)

	p := s.Pending()
	require.NotNil(t, p)
	assert.Equal(t, record.FieldStatus, p.Field)
	assert.Equal(t, "Открыта", p.OldValue)
	assert.Equal(t, EditCollecting, p.State)
}

func TestStageEditRejectsUnknownField(t *testing.T) {
	s := New(1, "", threeRecords())
	err := s.StageEdit(record.Field("date"))
	assert.ErrorIs(t, err, record.ErrUnknownField)
	assert.Nil(t, s.Pending())
}

func TestSupplyValue(t *testing.T) {
	s := New(1, "", threeRecords())
	require.NoError(t, s.StageEdit(record.FieldStatus))

	t.Run("blank value rejected", func(t *testing.T) {
		assert.ErrorIs(t, s.SupplyValue("   "), ErrEmptyValue)
		assert.Equal(t, EditCollecting, s.Pending().State)
	})

	t.Run("trimmed value staged", func(t *testing.T) {
		require.NoError(t, s.SupplyValue("  Закрыта  "))
		p := s.Pending()
		assert.Equal(t, "Закрыта", p.NewValue)
		assert.Equal(t, EditConfirming, p.State)
		assert.NotEmpty(t, p.OldValue)
	})
}

func TestSupplyValueWithoutPendingEdit(t *testing.T) {
	s := New(1, "", threeRecords())
	assert.ErrorIs(t, s.SupplyValue("Закрыта"), ErrNoPendingEdit)
}

func TestApplyPending(t *testing.T) {
	s := New(1, "", threeRecords())
	require.NoError(t, s.StageEdit(record.FieldStatus))

	t.Run("before value supplied", func(t *testing.T) {
		assert.ErrorIs(t, s.ApplyPending(), ErrNotConfirming)
	})

	t.Run("after confirmation", func(t *testing.T) {
		require.NoError(t, s.SupplyValue("Закрыта"))
		require.NoError(t, s.ApplyPending())
		assert.Equal(t, "Закрыта", s.Current().Status)
		assert.Nil(t, s.Pending())
	})

	t.Run("without pending edit", func(t *testing.T) {
		assert.ErrorIs(t, s.ApplyPending(), ErrNoPendingEdit)
	})
}

func TestCancelEditLeavesRecordUntouched(t *testing.T) {
	s := New(1, "", threeRecords())
	require.NoError(t, s.StageEdit(record.FieldStatus))
	require.NoError(t, s.SupplyValue("Закрыта"))

	s.CancelEdit()

	assert.Nil(t, s.Pending())
	assert.Equal(t, "Открыта", s.Current().Status)
}

func TestSessionsAreIndependent(t *testing.T) {
	s1 := New(1, "открыта", threeRecords())
	s2 := New(2, "открыта", threeRecords())

	s1.Advance(1)
	s1.Advance(1)

	assert.Equal(t, 2, s1.Cursor())
	assert.Equal(t, 0, s2.Cursor())
	assert.NotEqual(t, s1.TraceID(), s2.TraceID())
}

func TestStateIsValid(t *testing.T) {
	for _, st := range []State{StateIdle, StateAwaitingPhrase, StateViewing, StateAwaitingNewValue, StateConfirmingEdit} {
		assert.True(t, st.IsValid(), st.String())
	}
	assert.False(t, State("BROWSING").IsValid())
}
