package main

import (
	"context"

	"go.uber.org/zap"
)

// AuthorDirectory is the author-lookup side of the hardcover client.
type AuthorDirectory interface {
	GetAuthorInfo(ctx context.Context, slug string) (*AuthorInfo, error)
	GetOtherAuthorBooks(ctx context.Context, slug string, owned []string) ([]AuthorBook, error)
}

// Ensure *HardcoverClient implements AuthorDirectory.
var _ AuthorDirectory = (*HardcoverClient)(nil)

type SyncServiceProvider interface {
	QueueProgress(ctx context.Context, event ProgressEvent) (ProgressEvent, error)
	AuthorInfo(ctx context.Context, slug string) (*AuthorInfo, error)
	OtherAuthorBooks(ctx context.Context, slug string) ([]AuthorBook, error)
	Journal(ctx context.Context) ([]SyncRecord, error)
}

// SyncService fronts the asynchronous reconciliation pipeline: progress
// events get stamped and queued here, the consumer does the remote work.
type SyncService struct {
	logger  *zap.Logger
	config  *Config
	clock   Clocker
	uids    UIDHandler
	authors AuthorDirectory
	queue   Queuer
	journal SyncJournal
	library LibraryStorage
}

func NewSyncService(logger *zap.Logger, config *Config, clock Clocker, uids UIDHandler, authors AuthorDirectory, queue Queuer, journal SyncJournal, library LibraryStorage) SyncServiceProvider {
	return &SyncService{
		logger:  logger,
		config:  config,
		clock:   clock,
		uids:    uids,
		authors: authors,
		queue:   queue,
		journal: journal,
		library: library,
	}
}

// QueueProgress stamps the event with an id and a report time then
// enqueues it for the sync consumer.
func (ss *SyncService) QueueProgress(ctx context.Context, event ProgressEvent) (ProgressEvent, error) {
	event.ID = ss.uids.Generate(SyncRecordIDPrefix)
	event.ReportedAt = ss.clock.Now().Format(dateLayout)
	if err := ss.queue.Push(ctx, SyncQueue, event); err != nil {
		ss.logger.Error("service: failed to push progress event to queue", zap.String("qid", SyncQueue), zap.Error(err))
		return event, err
	}
	return event, nil
}

// AuthorInfo serves the author payload, cached client-side for the
// configured time-to-live.
func (ss *SyncService) AuthorInfo(ctx context.Context, slug string) (*AuthorInfo, error) {
	return ss.authors.GetAuthorInfo(ctx, slug)
}

// OtherAuthorBooks serves the author bibliography minus the titles
// already present in the local library.
func (ss *SyncService) OtherAuthorBooks(ctx context.Context, slug string) ([]AuthorBook, error) {
	owned, err := ss.library.Slugs(ctx)
	if err != nil {
		return nil, err
	}
	return ss.authors.GetOtherAuthorBooks(ctx, slug, owned)
}

// Journal lists the recorded outcomes of processed progress events.
func (ss *SyncService) Journal(ctx context.Context) ([]SyncRecord, error) {
	return ss.journal.GetAll(ctx)
}

type LibraryServiceProvider interface {
	Import(ctx context.Context, record MetaRecord) error
	GetOne(ctx context.Context, slug string) (MetaRecord, error)
	Delete(ctx context.Context, slug string) error
	GetAll(ctx context.Context) ([]MetaRecord, error)
}

// LibraryService manages the local library of imported metadata records.
type LibraryService struct {
	logger  *zap.Logger
	config  *Config
	storage LibraryStorage
}

func NewLibraryService(logger *zap.Logger, config *Config, storage LibraryStorage) LibraryServiceProvider {
	return &LibraryService{
		logger:  logger,
		config:  config,
		storage: storage,
	}
}

func (ls *LibraryService) Import(ctx context.Context, record MetaRecord) error {
	return ls.storage.Add(ctx, record.Identifiers[IDKindSlug], record)
}

func (ls *LibraryService) GetOne(ctx context.Context, slug string) (MetaRecord, error) {
	return ls.storage.GetOne(ctx, slug)
}

func (ls *LibraryService) Delete(ctx context.Context, slug string) error {
	return ls.storage.Delete(ctx, slug)
}

func (ls *LibraryService) GetAll(ctx context.Context) ([]MetaRecord, error) {
	return ls.storage.GetAll(ctx)
}
