package main

import (
	"context"

	"go.uber.org/zap"
)

type Consumer interface {
	Consume(ctx context.Context, qids ...string) error
}

// syncConsumer drains queued progress events, reconciles each one with
// the remote account and journals the outcome. Sync errors end their
// life here: they are logged and recorded, never retried.
type syncConsumer struct {
	logger  *zap.Logger
	queue   Queuer
	syncer  ProgressSyncer
	journal SyncJournal
	clock   Clocker
	uids    UIDHandler
}

func NewSyncConsumer(logger *zap.Logger, q Queuer, syncer ProgressSyncer, journal SyncJournal, clock Clocker, uids UIDHandler) Consumer {
	return &syncConsumer{logger: logger, queue: q, syncer: syncer, journal: journal, clock: clock, uids: uids}
}

func (sc *syncConsumer) Consume(ctx context.Context, qids ...string) error {
	for {
		qid, event, err := sc.queue.Pop(ctx, qids...)
		if err != nil && ctx.Err() != nil {
			sc.logger.Info("consumer: queue pop call: context is done: exit", zap.String("reason", ctx.Err().Error()))
			return nil
		}

		if err != nil {
			sc.logger.Error("consumer: error on queue pop call", zap.Error(err))
			continue
		}

		if qid != SyncQueue {
			sc.logger.Warn("consumer: received event on unknown queue id", zap.String("qid", qid), zap.Any("event", event))
			continue
		}

		rec := SyncRecord{
			ID:          sc.uids.Generate(SyncRecordIDPrefix),
			Identifiers: event.Identifiers,
			Percent:     event.Percent,
			Succeeded:   true,
			SyncedAt:    sc.clock.Now(),
		}
		if err = sc.syncer.UpdateReadingProgress(ctx, event.Identifiers, event.Percent); err != nil {
			sc.logger.Error("consumer: failed to sync reading progress",
				zap.String("event.id", event.ID),
				zap.Int("event.percent", event.Percent),
				zap.Error(err),
			)
			rec.Succeeded = false
			rec.Error = err.Error()
		}

		if err = sc.journal.Record(ctx, rec); err != nil {
			sc.logger.Error("consumer: failed to journal sync outcome", zap.String("record.id", rec.ID), zap.Error(err))
		}
	}
}
