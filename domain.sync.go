package main

import "time"

// ReadingStatus is the remote status of a user book. The remote API does
// not document the full set; these three values are the ones the bridge
// drives. Unknown values coming back from the API are passed through.
type ReadingStatus int

const (
	StatusWantToRead ReadingStatus = 1
	StatusReading    ReadingStatus = 2
	StatusRead       ReadingStatus = 3
)

// UserBook is the remote record binding a user to a title.
type UserBook struct {
	ID       int64          `json:"id"`
	StatusID ReadingStatus  `json:"status_id"`
	BookID   int64          `json:"book_id"`
	Book     UserBookTitle  `json:"book"`
	Edition  *BookEdition   `json:"edition"`
	Reads    []UserBookRead `json:"user_book_reads"`
}

// UserBookTitle carries the slug and title of the associated book.
type UserBookTitle struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// BookEdition carries the edition id and its page count.
type BookEdition struct {
	ID    int64 `json:"id"`
	Pages int   `json:"pages"`
}

// UserBookRead is a read session. FinishedAt stays nil until the
// session is closed at 100% progress. Dates travel as YYYY-MM-DD.
type UserBookRead struct {
	ID            int64   `json:"id"`
	StartedAt     string  `json:"started_at"`
	FinishedAt    *string `json:"finished_at"`
	EditionID     *int64  `json:"edition_id"`
	ProgressPages int     `json:"progress_pages"`
}

// OpenRead returns the first unfinished read session or nil.
func (ub *UserBook) OpenRead() *UserBookRead {
	if len(ub.Reads) == 0 {
		return nil
	}
	return &ub.Reads[0]
}

// AuthorInfo is the cached author payload.
type AuthorInfo struct {
	Bio         string `json:"bio"`
	Name        string `json:"name"`
	CachedImage string `json:"cached_image"`
	Slug        string `json:"slug"`
}

// AuthorBook is one entry of an author bibliography.
type AuthorBook struct {
	Title string    `json:"title"`
	Slug  string    `json:"slug"`
	Image BookImage `json:"image"`
}

// BookImage wraps a cover url.
type BookImage struct {
	URL string `json:"url"`
}

// ProgressEvent is a reading-position change reported by the host
// application. It is queued as-is and reconciled asynchronously.
type ProgressEvent struct {
	ID          string            `json:"id"`
	Identifiers map[string]string `json:"identifiers"`
	Percent     int               `json:"percent"`
	ReportedAt  string            `json:"reportedAt"`
}

// SyncRecord is the journaled outcome of one processed progress event.
type SyncRecord struct {
	ID          string            `json:"id"`
	Identifiers map[string]string `json:"identifiers"`
	Percent     int               `json:"percent"`
	Succeeded   bool              `json:"succeeded"`
	Error       string            `json:"error,omitempty"`
	SyncedAt    time.Time         `json:"syncedAt"`
}
