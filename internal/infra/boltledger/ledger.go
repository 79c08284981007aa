package boltledger

import (
	"context"
	"encoding/json"
	"time"

	"payscan/internal/infra"
	"payscan/internal/usecase/commands"

	bolt "go.etcd.io/bbolt"
)

var bucketDuplicates = []byte("duplicates")

type record struct {
	FirstSeen  time.Time `json:"first_seen"`
	LastSeen   time.Time `json:"last_seen"`
	UsageCount int64     `json:"usage_count"`
}

// Ledger is a single-file duplicate ledger for deployments without Postgres.
// bbolt serializes writers, so the insert-or-increment inside one Update
// transaction is atomic across concurrent scans.
type Ledger struct {
	db *bolt.DB
}

func Open(path string) (*Ledger, func(), error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketDuplicates)
		return err
	})
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	cleanup := func() {
		db.Close()
	}
	return &Ledger{db: db}, cleanup, nil
}

func (l *Ledger) Upsert(_ context.Context, normalizedID string, now time.Time) (commands.LedgerEntry, error) {
	var entry commands.LedgerEntry
	err := l.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDuplicates)
		key := []byte(normalizedID)

		rec := record{FirstSeen: now, LastSeen: now, UsageCount: 0}
		if raw := b.Get(key); raw != nil {
			if err := json.Unmarshal(raw, &rec); err != nil {
				return err
			}
		}
		rec.UsageCount++
		rec.LastSeen = now

		raw, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if err := b.Put(key, raw); err != nil {
			return err
		}
		entry = commands.LedgerEntry{FirstSeen: rec.FirstSeen, UsageCount: rec.UsageCount}
		return nil
	})
	if err != nil {
		return commands.LedgerEntry{}, infra.WrapRepoErr(infra.KindDBFailure, "failed to upsert duplicate record", err)
	}
	return entry, nil
}
