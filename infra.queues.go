package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// SyncQueue receives the progress events reported by the host
// application, consumed by the hardcover sync consumer.
const SyncQueue = "hardcover.sync"

// Ensure *redisQueue implements Queuer.
var _ Queuer = (*redisQueue)(nil)

// Queuer describes a queue of progress events.
type Queuer interface {
	Push(ctx context.Context, qid string, event ProgressEvent) error
	Pop(ctx context.Context, qids ...string) (string, ProgressEvent, error)
}

// redisQueue represents a queue which implements the Queuer interface.
type redisQueue struct {
	client *redis.Client
}

func NewRedisQueue(client *redis.Client) Queuer {
	return &redisQueue{client: client}
}

// Push enqueues a progress event onto the queue identified by qid.
func (q *redisQueue) Push(ctx context.Context, qid string, event ProgressEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return q.client.RPush(ctx, qid, eventBytes).Err()
}

// Pop returns the first dequeued progress event from the list of queue ids.
func (q *redisQueue) Pop(ctx context.Context, qids ...string) (string, ProgressEvent, error) {
	var event ProgressEvent
	var qid string
	infos, err := q.client.BLPop(ctx, 0*time.Second, qids...).Result()
	if err != nil {
		return qid, event, err
	}

	if err = json.Unmarshal([]byte(infos[1]), &event); err != nil {
		return qid, event, err
	}
	qid = infos[0]
	return qid, event, nil
}
