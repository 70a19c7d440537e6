package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/damon-houk/exchange-quotes-bot/internal/domain/entity"
	"github.com/dgraph-io/badger/v3"
)

const historyKeyPrefix = "history:"

// BadgerHistoryStore persists fetched rate histories in BadgerDB
type BadgerHistoryStore struct {
	db  *badger.DB
	ttl time.Duration
}

// NewBadgerHistoryStore creates a store whose entries expire after ttl (never when ttl <= 0)
func NewBadgerHistoryStore(db *badger.DB, ttl time.Duration) *BadgerHistoryStore {
	return &BadgerHistoryStore{db: db, ttl: ttl}
}

func historyKey(query entity.HistoryQuery) []byte {
	return []byte(historyKeyPrefix + query.Key())
}

// Get returns the stored history for query, reporting whether it was found
func (s *BadgerHistoryStore) Get(ctx context.Context, query entity.HistoryQuery) (*entity.RateHistory, bool, error) {
	var history entity.RateHistory

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(historyKey(query))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &history)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("failed to read rate history: %w", err)
	}

	return &history, true, nil
}

// Put saves history under its query
func (s *BadgerHistoryStore) Put(ctx context.Context, history *entity.RateHistory) error {
	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to marshal rate history: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(historyKey(history.Query), data)
		if s.ttl > 0 {
			entry = entry.WithTTL(s.ttl)
		}
		return txn.SetEntry(entry)
	})

	if err != nil {
		return fmt.Errorf("failed to store rate history: %w", err)
	}

	return nil
}
