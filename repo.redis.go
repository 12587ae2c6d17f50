package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// HLibrary is the redis hash holding imported metadata records keyed by
// their hardcover slug.
const HLibrary string = "library"

// LibraryStorage defines possible operations on the local library of
// imported metadata records. Slugs feeds the bibliography exclusion set.
type LibraryStorage interface {
	Add(ctx context.Context, slug string, record MetaRecord) error
	GetOne(ctx context.Context, slug string) (MetaRecord, error)
	Delete(ctx context.Context, slug string) error
	GetAll(ctx context.Context) ([]MetaRecord, error)
	Slugs(ctx context.Context) ([]string, error)
}

type redisLibraryStorage struct {
	logger *zap.Logger
	client *redis.Client
}

// NewRedisLibraryStorage provides an instance of redis-based library storage.
func NewRedisLibraryStorage(logger *zap.Logger, client *redis.Client) LibraryStorage {
	return &redisLibraryStorage{
		logger: logger,
		client: client,
	}
}

// GetRedisClient provides a ready to use redis client.
func GetRedisClient(config *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", config.Redis.Host, config.Redis.Port),
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
		PoolSize:     config.Redis.PoolSize,
		PoolTimeout:  config.Redis.PoolTimeout,
		Password:     config.Redis.Password,
		Username:     config.Redis.Username,
		DB:           config.Redis.DatabaseIndex,
	})

	// test connection.
	if pong, err := client.Ping(context.Background()).Result(); pong != "PONG" || err != nil {
		return client, fmt.Errorf("test connection failed: %v", err)
	}
	return client, nil
}

// Add inserts or replaces a library record under its slug.
func (rs *redisLibraryStorage) Add(ctx context.Context, slug string, record MetaRecord) error {
	recordBytes, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return rs.client.HSet(ctx, HLibrary, slug, recordBytes).Err()
}

// GetOne retrieves a library record based on its slug.
func (rs *redisLibraryStorage) GetOne(ctx context.Context, slug string) (MetaRecord, error) {
	var record MetaRecord
	recordJSONString, err := rs.client.HGet(ctx, HLibrary, slug).Result()
	if err == redis.Nil {
		return record, ErrRecordNotFound
	}
	if err != nil {
		return record, err
	}
	err = json.Unmarshal([]byte(recordJSONString), &record)
	return record, err
}

// Delete removes a library record based on its slug.
func (rs *redisLibraryStorage) Delete(ctx context.Context, slug string) error {
	deleted, err := rs.client.HDel(ctx, HLibrary, slug).Result()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// GetAll retrieves all library records stored in the redis database.
func (rs *redisLibraryStorage) GetAll(ctx context.Context) ([]MetaRecord, error) {
	values, err := rs.client.HVals(ctx, HLibrary).Result()
	if err != nil {
		return nil, err
	}
	records := []MetaRecord{}
	for _, recordJSONString := range values {
		var record MetaRecord
		if err = json.Unmarshal([]byte(recordJSONString), &record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// Slugs retrieves the set of owned hardcover slugs.
func (rs *redisLibraryStorage) Slugs(ctx context.Context) ([]string, error) {
	return rs.client.HKeys(ctx, HLibrary).Result()
}
