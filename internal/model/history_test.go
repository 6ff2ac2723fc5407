package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func migratedOf(reports []PassReport) []int {
	out := make([]int, len(reports))
	for i, r := range reports {
		out[i] = r.Migrated
	}
	return out
}

func TestPassHistory_PushAndLen(t *testing.T) {
	h := NewPassHistory(5)
	assert.Equal(t, 0, h.Len())

	h.Push(PassReport{Migrated: 1})
	assert.Equal(t, 1, h.Len())

	h.Push(PassReport{Migrated: 2})
	h.Push(PassReport{Migrated: 3})
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, 6, h.TotalMigrated())
}

func TestPassHistory_OverwritesOldest(t *testing.T) {
	h := NewPassHistory(3)

	h.Push(PassReport{Migrated: 10})
	h.Push(PassReport{Migrated: 20})
	h.Push(PassReport{Migrated: 30})
	require.Equal(t, 3, h.Len())

	// Push beyond capacity; oldest (10) is overwritten
	h.Push(PassReport{Migrated: 40})
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, []int{20, 30, 40}, migratedOf(h.Reports()))

	h.Push(PassReport{Migrated: 50})
	assert.Equal(t, []int{30, 40, 50}, migratedOf(h.Reports()))
}

func TestPassHistory_Clear(t *testing.T) {
	h := NewPassHistory(4)
	h.Push(PassReport{Migrated: 1})
	h.Push(PassReport{Migrated: 2})
	require.Equal(t, 2, h.Len())

	h.Clear()
	assert.Equal(t, 0, h.Len())
	assert.Empty(t, h.Reports())

	h.Push(PassReport{Migrated: 99})
	assert.Equal(t, []int{99}, migratedOf(h.Reports()))
}

func TestPassHistory_DefaultCapacity(t *testing.T) {
	h := NewPassHistory(0)
	for i := 0; i < 25; i++ {
		h.Push(PassReport{Migrated: i})
	}
	// Default cap is 20, entries 0-4 were overwritten.
	assert.Equal(t, 20, h.Len())
	reports := h.Reports()
	assert.Equal(t, 5, reports[0].Migrated)
	assert.Equal(t, 24, reports[19].Migrated)
}
