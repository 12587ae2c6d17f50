package main

import (
	"context"
	"encoding/json"
	"fmt"
)

// GetAuthorInfo returns the author matching the given slug, served from
// the in-process cache while the entry is younger than the configured
// time-to-live. A nil result with a nil error means no author matched.
func (hc *HardcoverClient) GetAuthorInfo(ctx context.Context, slug string) (*AuthorInfo, error) {
	if cached, ok := hc.authors.Get(slug); ok {
		return &cached, nil
	}

	data, err := hc.exec.Execute(ctx, hc.token, queryAuthorInfo, map[string]any{"author": slug})
	if err != nil {
		return nil, err
	}

	var out struct {
		Authors []AuthorInfo `json:"authors"`
	}
	if err = json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode author lookup: %w", err)
	}
	if len(out.Authors) == 0 {
		return nil, nil
	}

	author := out.Authors[0]
	hc.authors.Set(slug, author)
	return &author, nil
}

// GetOtherAuthorBooks returns the author bibliography (contributions of
// type Book, title ascending) minus the titles whose slug appears in the
// caller-supplied owned set. The cached value is the filtered list and
// the cache key is the author slug alone: a library change after caching
// only shows up once the entry expires.
func (hc *HardcoverClient) GetOtherAuthorBooks(ctx context.Context, slug string, owned []string) ([]AuthorBook, error) {
	if cached, ok := hc.authorBooks.Get(slug); ok {
		return cached, nil
	}

	data, err := hc.exec.Execute(ctx, hc.token, queryOtherAuthorBooks, map[string]any{"author": slug})
	if err != nil {
		return nil, err
	}

	var out struct {
		Authors []struct {
			Contributions []struct {
				Book AuthorBook `json:"book"`
			} `json:"contributions"`
		} `json:"authors"`
	}
	if err = json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode author books lookup: %w", err)
	}
	if len(out.Authors) == 0 {
		return []AuthorBook{}, nil
	}

	ownedSet := make(map[string]struct{}, len(owned))
	for _, ownedSlug := range owned {
		ownedSet[ownedSlug] = struct{}{}
	}

	books := []AuthorBook{}
	for _, contribution := range out.Authors[0].Contributions {
		book := contribution.Book
		if book.Slug == "" {
			continue
		}
		if _, own := ownedSet[book.Slug]; own {
			continue
		}
		books = append(books, book)
	}

	hc.authorBooks.Set(slug, books)
	return books, nil
}
