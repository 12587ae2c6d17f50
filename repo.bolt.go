package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

// SyncJournal keeps the outcome of every processed progress event so
// failed remote mutations stay observable. Nothing replays journaled
// failures, the record is for operators and callers to inspect.
type SyncJournal interface {
	Record(ctx context.Context, rec SyncRecord) error
	GetOne(ctx context.Context, id string) (SyncRecord, error)
	GetAll(ctx context.Context) ([]SyncRecord, error)
}

type boltSyncJournal struct {
	logger *zap.Logger
	client *bolt.DB
	config *BoltDBConfig
}

// GetBoltDBClient setup the database and the bucket then provides a ready to use client.
func GetBoltDBClient(config *Config) (*bolt.DB, error) {
	db, err := bolt.Open(config.BoltDB.FilePath, 0o600, &bolt.Options{Timeout: config.BoltDB.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open the database, %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, errB := tx.CreateBucketIfNotExists([]byte(config.BoltDB.BucketName)); errB != nil {
			return fmt.Errorf("failed to create %s bucket: %v", config.BoltDB.BucketName, errB)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up bucket: %v", err)
	}
	return db, nil
}

// NewBoltSyncJournal provides an instance of bolt-based sync journal.
func NewBoltSyncJournal(logger *zap.Logger, boltConfig *BoltDBConfig, client *bolt.DB) SyncJournal {
	return &boltSyncJournal{
		logger: logger,
		client: client,
		config: boltConfig,
	}
}

// Close shuts down the bolt-based sync journal.
func (bj *boltSyncJournal) Close() error {
	return bj.client.Close()
}

// Record appends the outcome of one processed progress event.
func (bj *boltSyncJournal) Record(_ context.Context, rec SyncRecord) error {
	recBytes, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return bj.client.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bj.config.BucketName)).Put([]byte(rec.ID), recBytes)
	})
}

// GetOne retrieves a journaled record based on its ID.
func (bj *boltSyncJournal) GetOne(_ context.Context, id string) (SyncRecord, error) {
	var rec SyncRecord
	// initialize a readable transaction.
	tx, err := bj.client.Begin(false)
	if err != nil {
		return rec, err
	}
	defer tx.Rollback()

	recBytes := tx.Bucket([]byte(bj.config.BucketName)).Get([]byte(id))
	if recBytes == nil {
		return rec, ErrSyncRecordNotFound
	}
	err = json.Unmarshal(recBytes, &rec)
	return rec, err
}

// GetAll retrieves all journaled records from the boltdb store.
func (bj *boltSyncJournal) GetAll(_ context.Context) ([]SyncRecord, error) {
	records := []SyncRecord{}
	err := bj.client.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bj.config.BucketName)).ForEach(func(_, v []byte) error {
			var rec SyncRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			records = append(records, rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
