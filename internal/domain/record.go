package domain

import "time"

// StageRecord classification result for a single timestep.
type StageRecord struct {
	Timestamp time.Time `json:"ts"`
	// Stage is StageNone while the indicator warmup window is not satisfied.
	Stage StageLabel `json:"stage"`
	// Snapshot is nil for warmup records.
	Snapshot *IndicatorSnapshot `json:"snapshot,omitempty"`
	// ConsecutiveCount how many consecutive steps the current indicator
	// profile has supported this stage.
	ConsecutiveCount int `json:"consecutive_count"`
}

// HasStage reports whether the record carries a classified stage.
func (r StageRecord) HasStage() bool {
	return r.Stage != StageNone
}

// StageHistory ordered stage classification of a full candle series. One
// record per input candle; warmup entries carry StageNone.
type StageHistory struct {
	Symbol   string        `json:"symbol"`
	Interval string        `json:"interval"`
	Records  []StageRecord `json:"records"`
}

// Current returns the last classified record, or ErrNoData when every
// record is still inside the warmup window.
func (h StageHistory) Current() (StageRecord, error) {
	for i := len(h.Records) - 1; i >= 0; i-- {
		if h.Records[i].HasStage() {
			return h.Records[i], nil
		}
	}
	return StageRecord{}, ErrNoData
}

// Occupancy counts how many records carry each classified stage.
func (h StageHistory) Occupancy() map[StageLabel]int {
	counts := make(map[StageLabel]int)
	for _, r := range h.Records {
		if r.HasStage() {
			counts[r.Stage]++
		}
	}
	return counts
}

// StageRecordEvent bundles a journaled stage record with the log index it
// originated from.
type StageRecordEvent struct {
	Index  uint64      `json:"index"`
	Symbol string      `json:"symbol"`
	Record StageRecord `json:"record"`
}
