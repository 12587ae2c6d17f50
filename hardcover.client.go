package main

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// HardcoverClient drives the user-facing sync operations against the
// Hardcover account tied to its token: user book lookup and creation,
// status transitions, read sessions, author lookups. All calls are
// synchronous and blocking, bounded only by the executor timeout.
type HardcoverClient struct {
	logger      *zap.Logger
	exec        GraphQLExecutor
	clock       Clocker
	token       string
	privacy     int
	authors     *TTLCache[AuthorInfo]
	authorBooks *TTLCache[[]AuthorBook]
}

// NewHardcoverClient provides a ready to use client. The account privacy
// setting is fetched once here and reused for every created user book.
// A privacy lookup failure falls back to 1 (public) instead of failing
// the whole construction.
func NewHardcoverClient(logger *zap.Logger, config *HardcoverConfig, exec GraphQLExecutor, clock Clocker) *HardcoverClient {
	hc := &HardcoverClient{
		logger:      logger,
		exec:        exec,
		clock:       clock,
		token:       config.Token,
		privacy:     1,
		authors:     NewTTLCache[AuthorInfo](clock, config.CacheTTL),
		authorBooks: NewTTLCache[[]AuthorBook](clock, config.CacheTTL),
	}

	privacy, err := hc.getPrivacy(context.Background())
	if err != nil {
		logger.Warn("hardcover: failed to fetch account privacy setting", zap.Error(err))
		return hc
	}
	hc.privacy = privacy
	return hc
}

// getPrivacy fetches the account privacy setting id of the token owner.
func (hc *HardcoverClient) getPrivacy(ctx context.Context) (int, error) {
	data, err := hc.exec.Execute(ctx, hc.token, queryPrivacySetting, nil)
	if err != nil {
		return 0, err
	}
	var out struct {
		Me []struct {
			AccountPrivacySettingID int `json:"account_privacy_setting_id"`
		} `json:"me"`
	}
	if err = json.Unmarshal(data, &out); err != nil {
		return 0, fmt.Errorf("decode privacy setting: %w", err)
	}
	if len(out.Me) == 0 || out.Me[0].AccountPrivacySettingID == 0 {
		return 1, nil
	}
	return out.Me[0].AccountPrivacySettingID, nil
}

// ParseIdentifiers filters the caller identifiers to the kinds the
// remote system knows and ensures the set carries a numeric book id.
// When only a slug (and optionally an isbn) is present, a single remote
// lookup resolves it to (book id, edition id). The call is idempotent:
// an already resolved set goes through untouched with no remote call.
func (hc *HardcoverClient) ParseIdentifiers(ctx context.Context, raw map[string]string) (IdentifierSet, error) {
	ids := NewIdentifierSet(raw)
	if _, ok := ids[IDKindBook]; ok {
		return ids, nil
	}

	slug := ids.Slug()
	if slug == "" {
		hc.logger.Error("hardcover: no usable slug in identifiers", zap.Any("identifiers", ids))
		return ids, fmt.Errorf("%w: got %v", ErrNoUsableIdentifiers, raw)
	}

	bookID, editionID, err := hc.GetBookID(ctx, slug, ids.ISBN())
	if err != nil {
		return ids, err
	}
	ids[IDKindBook] = fmt.Sprintf("%d", bookID)
	if editionID != nil {
		ids[IDKindEdition] = fmt.Sprintf("%d", *editionID)
	}
	hc.logger.Debug("hardcover: parsed identifiers", zap.Any("identifiers", ids))
	return ids, nil
}

// GetBookID resolves a slug to the numeric book id. A 13-digit isbn
// narrows the lookup to the matching edition; any other isbn length is
// ignored. Returns ErrBookNotFound when no book matches the slug.
func (hc *HardcoverClient) GetBookID(ctx context.Context, slug, isbn string) (int64, *int64, error) {
	query := queryBookIDBySlug
	variables := map[string]any{"slug": slug}
	if len(isbn) == 13 {
		query = queryBookIDBySlugAndISBN
		variables["isbn"] = isbn
	}

	data, err := hc.exec.Execute(ctx, hc.token, query, variables)
	if err != nil {
		return 0, nil, err
	}

	var out struct {
		Books []struct {
			ID       int64 `json:"id"`
			Editions []struct {
				ID int64 `json:"id"`
			} `json:"editions"`
		} `json:"books"`
	}
	if err = json.Unmarshal(data, &out); err != nil {
		return 0, nil, fmt.Errorf("decode book id lookup: %w", err)
	}
	if len(out.Books) == 0 {
		return 0, nil, fmt.Errorf("%w: slug %q", ErrBookNotFound, slug)
	}

	book := out.Books[0]
	if len(book.Editions) == 0 {
		return book.ID, nil, nil
	}
	return book.ID, &book.Editions[0].ID, nil
}

// GetUserBook fetches the remote user book for the given identifier set.
// Exactly one query is issued, keyed by edition id when present, else
// book id, else slug. A nil user book with a nil error means the user
// has no relationship with that title yet.
func (hc *HardcoverClient) GetUserBook(ctx context.Context, ids IdentifierSet) (*UserBook, error) {
	var query string
	variables := map[string]any{}
	switch {
	case ids.EditionID() != 0:
		query = queryUserBookByEdition
		variables["query"] = ids.EditionID()
	case ids.BookID() != 0:
		query = queryUserBookByBook
		variables["query"] = ids.BookID()
	case ids.Slug() != "":
		query = queryUserBookBySlug
		variables["slug"] = ids.Slug()
	default:
		return nil, fmt.Errorf("%w: got %v", ErrNoUsableIdentifiers, ids)
	}

	data, err := hc.exec.Execute(ctx, hc.token, query, variables)
	if err != nil {
		return nil, err
	}

	var out struct {
		Me []struct {
			UserBooks []UserBook `json:"user_books"`
		} `json:"me"`
	}
	if err = json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode user book lookup: %w", err)
	}
	if len(out.Me) == 0 || len(out.Me[0].UserBooks) == 0 {
		return nil, nil
	}
	return &out.Me[0].UserBooks[0], nil
}
