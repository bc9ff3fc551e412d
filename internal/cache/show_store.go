// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package cache

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/zaidejaz/todaytix-scraper/internal/models"
)

const showKeyPrefix = "show:"

// ShowStore persists resolved show lookups in BadgerDB. Entries expire
// through Badger's native TTL.
type ShowStore struct {
	db  *badger.DB
	ttl time.Duration
}

// OpenShowStore opens (or creates) the store at path. An empty path opens
// an in-memory database.
func OpenShowStore(path string, ttl time.Duration) (*ShowStore, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open show store: %w", err)
	}
	return &ShowStore{db: db, ttl: ttl}, nil
}

// GetShow returns the cached show for key. A missing or expired key reports
// ok=false with a nil error.
func (s *ShowStore) GetShow(key string) (models.ShowRef, bool, error) {
	var ref models.ShowRef
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(showKeyPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &ref)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return models.ShowRef{}, false, nil
	}
	if err != nil {
		return models.ShowRef{}, false, fmt.Errorf("get show %q: %w", key, err)
	}
	return ref, true, nil
}

func (s *ShowStore) PutShow(key string, ref models.ShowRef) error {
	data, err := json.Marshal(ref)
	if err != nil {
		return fmt.Errorf("marshal show: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(showKeyPrefix+key), data)
		if s.ttl > 0 {
			e = e.WithTTL(s.ttl)
		}
		return txn.SetEntry(e)
	})
}

// DeleteShow drops a cached lookup. Missing keys are not an error.
func (s *ShowStore) DeleteShow(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(showKeyPrefix + key)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return nil
	})
}

// Count returns the number of live show entries.
func (s *ShowStore) Count() (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(showKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

func (s *ShowStore) Close() error {
	return s.db.Close()
}
