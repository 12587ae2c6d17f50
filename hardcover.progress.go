package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"go.uber.org/zap"
)

// dateLayout is the wire format of read session dates.
const dateLayout = "2006-01-02"

// ProgressSyncer reconciles a reading position with the remote account.
type ProgressSyncer interface {
	UpdateReadingProgress(ctx context.Context, identifiers map[string]string, percent int) error
}

// Ensure *HardcoverClient implements ProgressSyncer.
var _ ProgressSyncer = (*HardcoverClient)(nil)

// UpdateReadingProgress locates or creates the remote user book for the
// given identifiers, moves its status to match the reading position and
// creates or updates the open read session. The remote API offers no
// multi-operation atomicity, so a failure mid-sequence can leave the
// remote record in an intermediate state; errors always propagate so the
// caller knows the write failed.
func (hc *HardcoverClient) UpdateReadingProgress(ctx context.Context, identifiers map[string]string, percent int) error {
	ids, err := hc.ParseIdentifiers(ctx, identifiers)
	if err != nil {
		return err
	}

	book, err := hc.GetUserBook(ctx, ids)
	if err != nil {
		return err
	}

	if book == nil {
		if book, err = hc.AddBook(ctx, ids, StatusReading); err != nil {
			return err
		}
		if book == nil {
			hc.logger.Warn("hardcover: user book creation returned nothing, skipping progress update", zap.Any("identifiers", ids))
			return nil
		}
		hc.logger.Info("hardcover: added book in reading status", zap.String("book.title", book.Book.Title))
	}

	if book.StatusID != StatusReading && percent != 100 {
		if book, err = hc.ChangeBookStatus(ctx, book, StatusReading); err != nil {
			return err
		}
		hc.logger.Info("hardcover: changed book status to reading", zap.String("book.title", book.Book.Title))
	}

	if book.StatusID == StatusRead && percent == 100 {
		hc.logger.Info("hardcover: book already marked as read, nothing to update", zap.String("book.title", book.Book.Title))
		return nil
	}

	if book.Edition == nil || book.Edition.Pages <= 0 {
		// Without a page count there is no session to maintain, the
		// status transition above is the whole update.
		return nil
	}

	pagesRead := int(math.Round(float64(book.Edition.Pages) * float64(percent) / 100))
	read := book.OpenRead()
	if read == nil {
		if _, err = hc.AddRead(ctx, book, pagesRead); err != nil {
			return err
		}
		return nil
	}

	today := hc.clock.Now().Format(dateLayout)
	startedAt := read.StartedAt
	if startedAt == "" {
		startedAt = today
	}
	var finishedAt *string
	if percent == 100 {
		finishedAt = &today
		// Mark the book read before closing the session so a failure in
		// between never leaves a closed session on a non-read book.
		if _, err = hc.ChangeBookStatus(ctx, book, StatusRead); err != nil {
			return err
		}
		hc.logger.Info("hardcover: changed book status to read", zap.String("book.title", book.Book.Title))
	}

	variables := map[string]any{
		"readId":     read.ID,
		"pages":      pagesRead,
		"editionId":  book.Edition.ID,
		"startedAt":  startedAt,
		"finishedAt": finishedAt,
	}
	if _, err = hc.exec.Execute(ctx, hc.token, mutationUpdateUserBookRead, variables); err != nil {
		return err
	}
	hc.logger.Info("hardcover: updated reading progress",
		zap.Int("progress.percent", percent),
		zap.Int("progress.pages", pagesRead),
		zap.String("book.title", book.Book.Title),
	)
	return nil
}

// ChangeBookStatus moves an existing user book to the given status and
// returns the refreshed record.
func (hc *HardcoverClient) ChangeBookStatus(ctx context.Context, book *UserBook, status ReadingStatus) (*UserBook, error) {
	variables := map[string]any{
		"id":        book.ID,
		"status_id": int(status),
	}
	data, err := hc.exec.Execute(ctx, hc.token, mutationChangeBookStatus, variables)
	if err != nil {
		return nil, err
	}

	var out struct {
		UpdateUserBook struct {
			Error    *string   `json:"error"`
			UserBook *UserBook `json:"user_book"`
		} `json:"update_user_book"`
	}
	if err = json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode status change: %w", err)
	}
	if out.UpdateUserBook.UserBook == nil {
		return nil, fmt.Errorf("%w: status change returned no user book", ErrUserBookNotFound)
	}
	return out.UpdateUserBook.UserBook, nil
}

// AddBook creates the user book for the given identifiers with the
// requested status, carrying the privacy setting captured at client
// construction. A nil user book means the remote refused the insert.
func (hc *HardcoverClient) AddBook(ctx context.Context, ids IdentifierSet, status ReadingStatus) (*UserBook, error) {
	object := map[string]any{
		"book_id":            ids.BookID(),
		"status_id":          int(status),
		"privacy_setting_id": hc.privacy,
	}
	if editionID := ids.EditionID(); editionID != 0 {
		object["edition_id"] = editionID
	}

	data, err := hc.exec.Execute(ctx, hc.token, mutationInsertUserBook, map[string]any{"object": object})
	if err != nil {
		return nil, err
	}

	var out struct {
		InsertUserBook struct {
			Error    *string   `json:"error"`
			UserBook *UserBook `json:"user_book"`
		} `json:"insert_user_book"`
	}
	if err = json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode user book insert: %w", err)
	}
	return out.InsertUserBook.UserBook, nil
}

// AddRead opens a read session on the user book with the given pages
// counter and today as start date.
func (hc *HardcoverClient) AddRead(ctx context.Context, book *UserBook, pages int) (*UserBookRead, error) {
	variables := map[string]any{
		"id":        book.ID,
		"pages":     pages,
		"startedAt": hc.clock.Now().Format(dateLayout),
	}
	if book.Edition != nil && book.Edition.ID != 0 {
		variables["editionId"] = book.Edition.ID
	}

	data, err := hc.exec.Execute(ctx, hc.token, mutationInsertUserBookRead, variables)
	if err != nil {
		return nil, err
	}

	var out struct {
		InsertUserBookRead struct {
			Error        *string       `json:"error"`
			UserBookRead *UserBookRead `json:"user_book_read"`
		} `json:"insert_user_book_read"`
	}
	if err = json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode read session insert: %w", err)
	}
	return out.InsertUserBookRead.UserBookRead, nil
}
