package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"instagen/internal/types"
)

// HistoryCap bounds the persisted history list. Insertion is newest
// first; anything beyond the cap is dropped.
const HistoryCap = 10

var ErrHistoryRecordInvalid = errors.New("history record requires an image url")

type bboltHistoryStore struct {
	db *bolt.DB
	mu sync.Mutex
}

func (s *bboltHistoryStore) List(ctx context.Context) ([]*types.HistoryRecord, error) {
	out := make([]*types.HistoryRecord, 0, HistoryCap)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketHistory)
		if b == nil {
			return nil
		}
		raw := b.Get(keyHistory)
		if len(raw) == 0 {
			return nil
		}
		records, err := decodeHistory(raw)
		if err != nil {
			// Corrupt stored history is discarded rather than
			// propagated; the next Record call rewrites the key.
			return nil
		}
		out = append(out, records...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *bboltHistoryStore) Record(ctx context.Context, record *types.HistoryRecord) (*types.HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	normalized, err := normalizeHistoryRecord(record)
	if err != nil {
		return nil, err
	}
	if err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketHistory)
		if b == nil {
			return errors.New("history bucket missing")
		}
		var records []*types.HistoryRecord
		if raw := b.Get(keyHistory); len(raw) > 0 {
			if decoded, err := decodeHistory(raw); err == nil {
				records = decoded
			}
		}
		records = append([]*types.HistoryRecord{normalized}, records...)
		if len(records) > HistoryCap {
			records = records[:HistoryCap]
		}
		raw, err := json.Marshal(records)
		if err != nil {
			return err
		}
		return b.Put(keyHistory, raw)
	}); err != nil {
		return nil, err
	}
	return types.CloneHistoryRecord(normalized), nil
}

func (s *bboltHistoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketHistory)
		if b == nil {
			return errors.New("history bucket missing")
		}
		return b.Delete(keyHistory)
	})
}

func decodeHistory(raw []byte) ([]*types.HistoryRecord, error) {
	var records []*types.HistoryRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}
	out := make([]*types.HistoryRecord, 0, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}
		out = append(out, types.CloneHistoryRecord(record))
	}
	return out, nil
}

func normalizeHistoryRecord(record *types.HistoryRecord) (*types.HistoryRecord, error) {
	if record == nil || strings.TrimSpace(record.ImageURL) == "" {
		return nil, ErrHistoryRecordInvalid
	}
	normalized := *record
	if strings.TrimSpace(normalized.ID) == "" {
		normalized.ID = uuid.NewString()
	}
	if normalized.Timestamp.IsZero() {
		normalized.Timestamp = time.Now().UTC()
	}
	return &normalized, nil
}
