// Package stagerecords persists classified stage records in a WAL so the
// web layer can replay and stream them.
package stagerecords

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"

	"github.com/turnDeep/elliott-wave-sentiment/internal/domain"
)

const (
	defaultJournalDir  = "./wal/stages"
	stageSegmentLimit  = 1000
	stageMaxSegments   = 100
	stageRecordKeyPref = "stage_record_"
)

type journaledRecord struct {
	Symbol string             `json:"symbol"`
	Record domain.StageRecord `json:"record"`
}

// WalStore persists stage records in a WAL for recovery/streaming purposes.
type WalStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWalStore initializes a WAL-backed stage record store under the provided directory.
func NewWalStore(dir string) (*WalStore, error) {
	if dir == "" {
		dir = defaultJournalDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "stage_",
		SegmentThreshold: stageSegmentLimit,
		MaxSegments:      stageMaxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init stage record WAL")
	}

	return &WalStore{wal: wal}, nil
}

// Save appends the record for the given symbol.
func (s *WalStore) Save(symbol string, record domain.StageRecord) error {
	if s == nil || s.wal == nil {
		return errors.New("stage record store is not initialized")
	}
	if symbol == "" {
		return errors.New("stage record symbol is required")
	}

	payload, err := json.Marshal(journaledRecord{Symbol: symbol, Record: record})
	if err != nil {
		return errors.Wrap(err, "marshal stage record")
	}

	key := fmt.Sprintf("%s%s", stageRecordKeyPref, symbol)

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, key, payload)
}

// EventsAfter returns all stage record events written after the provided WAL index.
func (s *WalStore) EventsAfter(index uint64) ([]domain.StageRecordEvent, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("stage record store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	events := make([]domain.StageRecordEvent, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		key, payload, err := s.wal.Get(idx)
		if err != nil || !strings.HasPrefix(key, stageRecordKeyPref) {
			continue
		}
		var jr journaledRecord
		if err := json.Unmarshal(payload, &jr); err != nil {
			return nil, errors.Wrap(err, "decode stage record")
		}
		events = append(events, domain.StageRecordEvent{
			Index:  idx,
			Symbol: jr.Symbol,
			Record: jr.Record,
		})
	}

	return events, nil
}

// CurrentIndex returns the latest WAL index stored.
func (s *WalStore) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *WalStore) Close() error {
	if s == nil || s.wal == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
