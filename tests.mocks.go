package main

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// This file contains mocks definitions needed to perform unit tests.

// MockCall records one graphql round trip received by the executor.
type MockCall struct {
	Token     string
	Query     string
	Variables map[string]any
}

// MockExecutor implements a fake GraphQLExecutor. Each call is recorded
// so tests can assert on the number and the content of the round trips.
type MockExecutor struct {
	ExecuteFunc func(ctx context.Context, token, query string, variables map[string]any) (json.RawMessage, error)
	mu          sync.Mutex
	Calls       []MockCall
}

// Execute records the call then delegates to the configured function.
func (m *MockExecutor) Execute(ctx context.Context, token, query string, variables map[string]any) (json.RawMessage, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Token: token, Query: query, Variables: variables})
	m.mu.Unlock()
	return m.ExecuteFunc(ctx, token, query, variables)
}

// CallsCount returns how many round trips were executed so far.
func (m *MockExecutor) CallsCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

type MockLibraryStorage struct {
	AddFunc    func(ctx context.Context, slug string, record MetaRecord) error
	GetOneFunc func(ctx context.Context, slug string) (MetaRecord, error)
	DeleteFunc func(ctx context.Context, slug string) error
	GetAllFunc func(ctx context.Context) ([]MetaRecord, error)
	SlugsFunc  func(ctx context.Context) ([]string, error)
}

// Add mocks the behavior of record import by the repository.
func (m *MockLibraryStorage) Add(ctx context.Context, slug string, record MetaRecord) error {
	return m.AddFunc(ctx, slug, record)
}

// GetOne mocks the behavior of retrieving a record by the repository.
func (m *MockLibraryStorage) GetOne(ctx context.Context, slug string) (MetaRecord, error) {
	return m.GetOneFunc(ctx, slug)
}

// Delete mocks the behavior of deleting a record by the repository.
func (m *MockLibraryStorage) Delete(ctx context.Context, slug string) error {
	return m.DeleteFunc(ctx, slug)
}

// GetAll mocks the behavior of retrieving all records by the repository.
func (m *MockLibraryStorage) GetAll(ctx context.Context) ([]MetaRecord, error) {
	return m.GetAllFunc(ctx)
}

// Slugs mocks the behavior of listing owned slugs by the repository.
func (m *MockLibraryStorage) Slugs(ctx context.Context) ([]string, error) {
	return m.SlugsFunc(ctx)
}

type MockSyncJournal struct {
	RecordFunc func(ctx context.Context, rec SyncRecord) error
	GetOneFunc func(ctx context.Context, id string) (SyncRecord, error)
	GetAllFunc func(ctx context.Context) ([]SyncRecord, error)
}

func (m *MockSyncJournal) Record(ctx context.Context, rec SyncRecord) error {
	return m.RecordFunc(ctx, rec)
}

func (m *MockSyncJournal) GetOne(ctx context.Context, id string) (SyncRecord, error) {
	return m.GetOneFunc(ctx, id)
}

func (m *MockSyncJournal) GetAll(ctx context.Context) ([]SyncRecord, error) {
	return m.GetAllFunc(ctx)
}

type MockQueuer struct {
	PushFunc func(ctx context.Context, qid string, event ProgressEvent) error
	PopFunc  func(ctx context.Context, qids ...string) (string, ProgressEvent, error)
}

func (m *MockQueuer) Push(ctx context.Context, qid string, event ProgressEvent) error {
	return m.PushFunc(ctx, qid, event)
}

func (m *MockQueuer) Pop(ctx context.Context, qids ...string) (string, ProgressEvent, error) {
	return m.PopFunc(ctx, qids...)
}

type MockSyncer struct {
	UpdateReadingProgressFunc func(ctx context.Context, identifiers map[string]string, percent int) error
}

func (m *MockSyncer) UpdateReadingProgress(ctx context.Context, identifiers map[string]string, percent int) error {
	return m.UpdateReadingProgressFunc(ctx, identifiers, percent)
}

type MockAuthorDirectory struct {
	GetAuthorInfoFunc       func(ctx context.Context, slug string) (*AuthorInfo, error)
	GetOtherAuthorBooksFunc func(ctx context.Context, slug string, owned []string) ([]AuthorBook, error)
}

func (m *MockAuthorDirectory) GetAuthorInfo(ctx context.Context, slug string) (*AuthorInfo, error) {
	return m.GetAuthorInfoFunc(ctx, slug)
}

func (m *MockAuthorDirectory) GetOtherAuthorBooks(ctx context.Context, slug string, owned []string) ([]AuthorBook, error) {
	return m.GetOtherAuthorBooksFunc(ctx, slug, owned)
}

// MockMetadataSearcher implements a fake MetadataSearcher.
type MockMetadataSearcher struct {
	SearchFunc func(ctx context.Context, userToken, query, genericCover, locale string) []MetaRecord
}

func (m *MockMetadataSearcher) Search(ctx context.Context, userToken, query, genericCover, locale string) []MetaRecord {
	return m.SearchFunc(ctx, userToken, query, genericCover, locale)
}

// MockClocker implements a fake Clocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2023, 0o7, 0o2, 0o0, 0o0, 0o0, 0o00000000, time.UTC)}
}

// Now returns an already defined time to be used as mock. This
// equals to `Sun, 02 Jul 2023 00:00:00 UTC` in time.RFC1123 format.
// equals to `2023-07-02 00:00:00 +0000 UTC` in String format.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// Zero returns zero time.
func (mck *MockClocker) Zero() time.Time {
	return time.Time{}
}

// MockUIDHandler implements a fake UIDHandler.
type MockUIDHandler struct {
	MockedUID string
	Valid     bool
}

// NewMockUIDHandler returns a mocked instance with predictable id.
func NewMockUIDHandler(id string, valid bool) *MockUIDHandler {
	return &MockUIDHandler{MockedUID: id, Valid: valid}
}

// Generate constructs a predictable id to be used as mock.
func (muid *MockUIDHandler) Generate(prefix string) string {
	return prefix + ":" + muid.MockedUID
}

// IsValid mocks IsValid behavior by providing configured status.
func (muid *MockUIDHandler) IsValid(_, _ string) bool {
	return muid.Valid
}
