package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageHistoryCurrent(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("returns last classified record", func(t *testing.T) {
		history := StageHistory{
			Symbol:   "BTCUSDT",
			Interval: "1d",
			Records: []StageRecord{
				{Timestamp: base, Stage: StageNone},
				{Timestamp: base.Add(24 * time.Hour), Stage: StageA, Snapshot: &IndicatorSnapshot{}},
				{Timestamp: base.Add(48 * time.Hour), Stage: StageB, Snapshot: &IndicatorSnapshot{}},
			},
		}

		current, err := history.Current()
		require.NoError(t, err)
		assert.Equal(t, StageB, current.Stage)
		assert.Equal(t, base.Add(48*time.Hour), current.Timestamp)
	})

	t.Run("all-sentinel history has no current stage", func(t *testing.T) {
		history := StageHistory{
			Records: []StageRecord{
				{Timestamp: base, Stage: StageNone},
				{Timestamp: base.Add(24 * time.Hour), Stage: StageNone},
			},
		}

		_, err := history.Current()
		assert.ErrorIs(t, err, ErrNoData)
	})

	t.Run("empty history has no current stage", func(t *testing.T) {
		_, err := StageHistory{}.Current()
		assert.ErrorIs(t, err, ErrNoData)
	})
}

func TestStageHistoryOccupancy(t *testing.T) {
	history := StageHistory{
		Records: []StageRecord{
			{Stage: StageNone},
			{Stage: StageA},
			{Stage: StageA},
			{Stage: StageB},
		},
	}

	counts := history.Occupancy()
	assert.Equal(t, map[StageLabel]int{StageA: 2, StageB: 1}, counts)
}

func TestStageRecordHasStage(t *testing.T) {
	assert.False(t, StageRecord{Stage: StageNone}.HasStage())
	assert.True(t, StageRecord{Stage: StageGSC}.HasStage())
}
