package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
)

const (
	hardcoverSourceID    = "hardcover"
	hardcoverDescription = "Hardcover Books"
	hardcoverMetaURL     = "https://hardcover.app"

	// editionSearchPrefix switches a query from free-text title search
	// to an edition-oriented lookup by numeric book id.
	editionSearchPrefix = "hardcover-id:"

	// readingFormatAudio is the remote classification code of audiobook
	// editions, which the edition search filters out.
	readingFormatAudio = 2
)

// readingFormats maps the remote reading_format_id to a display label.
// Indices without a label (including audio) resolve to an empty string.
var readingFormats = []string{"", "Physical Book", "", "", "E-Book"}

// MetadataSearcher translates a query into normalized metadata records.
type MetadataSearcher interface {
	Search(ctx context.Context, userToken, query, genericCover, locale string) []MetaRecord
}

// Ensure *HardcoverProvider implements MetadataSearcher.
var _ MetadataSearcher = (*HardcoverProvider)(nil)

// HardcoverProvider is the search/mapping side of the integration. It
// never surfaces an error to its caller: any failure degrades to an
// empty result set with a warning log. Once no token can be resolved the
// provider flips itself inactive and refuses without network access.
type HardcoverProvider struct {
	logger    *zap.Logger
	config    *HardcoverConfig
	exec      GraphQLExecutor
	languages LanguageResolver
	inactive  atomic.Bool
}

// NewHardcoverProvider provides a ready to use metadata provider.
func NewHardcoverProvider(logger *zap.Logger, config *HardcoverConfig, exec GraphQLExecutor, languages LanguageResolver) *HardcoverProvider {
	return &HardcoverProvider{
		logger:    logger,
		config:    config,
		exec:      exec,
		languages: languages,
	}
}

// resolveToken picks the bearer token in priority order: per-user value,
// global configuration, HARDCOVER_TOKEN environment variable.
func (p *HardcoverProvider) resolveToken(userToken string) string {
	if userToken != "" {
		return userToken
	}
	if p.config.Token != "" {
		return p.config.Token
	}
	return os.Getenv("HARDCOVER_TOKEN")
}

// Search maps a free-text or `hardcover-id:` prefixed query to zero or
// more metadata records. Cover defaults to genericCover when the remote
// payload has none.
func (p *HardcoverProvider) Search(ctx context.Context, userToken, query, genericCover, locale string) []MetaRecord {
	if p.inactive.Load() {
		p.logger.Warn("hardcover search: provider is inactive, refusing query")
		return nil
	}

	token := p.resolveToken(userToken)
	if token == "" {
		p.inactive.Store(true)
		p.logger.Warn("hardcover search: no token set for user and no global token provided, deactivating provider")
		return nil
	}

	if strings.HasPrefix(query, editionSearchPrefix) {
		return p.searchEditions(ctx, token, strings.TrimPrefix(query, editionSearchPrefix), genericCover, locale)
	}
	return p.searchTitles(ctx, token, query, genericCover)
}

// searchTitles runs the free-text search and maps each hit on its own so
// one malformed hit never suppresses the others. The remote sometimes
// delivers `search.results` as a quoted JSON string, which gets a second
// decode pass before probing for hits.
func (p *HardcoverProvider) searchTitles(ctx context.Context, token, query, genericCover string) []MetaRecord {
	data, err := p.exec.Execute(ctx, token, querySearchBooks, map[string]any{"query": query, "perPage": p.config.SearchPageSize})
	if err != nil {
		p.logger.Warn("hardcover search: title query failed", zap.String("search.query", query), zap.Error(err))
		return nil
	}

	var tree map[string]any
	if err = json.Unmarshal(data, &tree); err != nil {
		p.logger.Warn("hardcover search: failed to decode title payload", zap.Error(err))
		return nil
	}

	results, _ := Lookup(tree, "search", "results")
	if quoted, ok := results.(string); ok {
		var reparsed any
		if err = json.Unmarshal([]byte(quoted), &reparsed); err != nil {
			p.logger.Warn("hardcover search: failed to reparse quoted results payload", zap.Error(err))
			return nil
		}
		results = reparsed
	}

	hits := LookupSlice(results, "hits")
	records := make([]MetaRecord, 0, len(hits))
	for _, hit := range hits {
		record, err := p.parseTitleHit(hit, genericCover)
		if err != nil {
			p.logger.Warn("hardcover search: skipping malformed hit", zap.Error(err))
			continue
		}
		records = append(records, record)
	}
	return records
}

// parseTitleHit maps one search hit document to a metadata record.
func (p *HardcoverProvider) parseTitleHit(hit any, genericCover string) (MetaRecord, error) {
	document, ok := Lookup(hit, "document")
	if !ok {
		return MetaRecord{}, fmt.Errorf("hit without document payload")
	}

	id := LookupString(document, "", "id")
	if id == "" {
		if raw := LookupFloat(document, 0, "id"); raw != 0 {
			id = strconv.FormatFloat(raw, 'f', -1, 64)
		}
	}
	slug := LookupString(document, "", "slug")

	var url string
	if slug != "" {
		url = fmt.Sprintf("%s/books/%s", hardcoverMetaURL, slug)
	}

	record := MetaRecord{
		ID:      id,
		Title:   LookupString(document, "", "title"),
		Authors: LookupStrings(document, "author_names"),
		URL:     url,
		Source: MetaSourceInfo{
			ID:          hardcoverSourceID,
			Description: hardcoverDescription,
			Link:        hardcoverMetaURL,
		},
		Series:        LookupString(document, "", "featured_series", "series_name"),
		SeriesIndex:   LookupFloat(document, 0, "featured_series", "position"),
		Cover:         LookupString(document, genericCover, "image", "url"),
		Description:   LookupString(document, "", "description"),
		PublishedDate: LookupString(document, "", "release_date"),
		Rating:        LookupFloat(document, 0, "rating"),
		Tags:          LookupStrings(document, "genres"),
		Identifiers: map[string]string{
			IDKindBook: id,
			IDKindSlug: slug,
		},
	}
	return record, nil
}

// remoteBook is the typed shape of the edition-oriented lookup.
type remoteBook struct {
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	ID         int64  `json:"id"`
	BookSeries []struct {
		Series struct {
			Name string `json:"name"`
		} `json:"series"`
		Position float64 `json:"position"`
	} `json:"book_series"`
	Rating      float64          `json:"rating"`
	Editions    []remoteEdition  `json:"editions"`
	Description string           `json:"description"`
	CachedTags  []map[string]any `json:"cached_tags"`
}

type remoteEdition struct {
	ID              int64   `json:"id"`
	ISBN13          *string `json:"isbn_13"`
	ISBN10          *string `json:"isbn_10"`
	Title           string  `json:"title"`
	EditionFormat   *string `json:"edition_format"`
	ReadingFormatID *int    `json:"reading_format_id"`
	Contributions   []struct {
		Author struct {
			Name string `json:"name"`
		} `json:"author"`
	} `json:"contributions"`
	Image *struct {
		URL string `json:"url"`
	} `json:"image"`
	Language *struct {
		Code3 string `json:"code3"`
	} `json:"language"`
	Publisher *struct {
		Name string `json:"name"`
	} `json:"publisher"`
	ReleaseDate string `json:"release_date"`
}

// isAudio reports whether the edition is classified as an audiobook.
// Editions with no format classification at all are kept.
func (e *remoteEdition) isAudio() bool {
	return e.ReadingFormatID != nil && *e.ReadingFormatID == readingFormatAudio && e.EditionFormat != nil
}

// formatLabel maps the reading format id through the fixed table.
func (e *remoteEdition) formatLabel() string {
	if e.ReadingFormatID == nil {
		return ""
	}
	idx := *e.ReadingFormatID
	if idx < 0 || idx >= len(readingFormats) {
		return ""
	}
	return readingFormats[idx]
}

// bestISBN prefers the 13-digit isbn and falls back to the 10-digit one.
func (e *remoteEdition) bestISBN() string {
	if e.ISBN13 != nil && *e.ISBN13 != "" {
		return *e.ISBN13
	}
	if e.ISBN10 != nil {
		return *e.ISBN10
	}
	return ""
}

// searchEditions looks up one book by numeric id and expands its edition
// list into one record per non-audio edition.
func (p *HardcoverProvider) searchEditions(ctx context.Context, token, rawID, genericCover, locale string) []MetaRecord {
	bookID, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil {
		p.logger.Warn("hardcover search: invalid book id in edition query", zap.String("search.id", rawID))
		return nil
	}

	data, err := p.exec.Execute(ctx, token, queryBookEditions, map[string]any{"query": bookID})
	if err != nil {
		p.logger.Warn("hardcover search: edition query failed", zap.Int64("book.id", bookID), zap.Error(err))
		return nil
	}

	var out struct {
		Books []remoteBook `json:"books"`
	}
	if err = json.Unmarshal(data, &out); err != nil {
		p.logger.Warn("hardcover search: failed to decode edition payload", zap.Error(err))
		return nil
	}
	if len(out.Books) == 0 {
		return nil
	}
	return p.parseEditionResults(&out.Books[0], genericCover, locale)
}

// parseEditionResults flattens the book into one record per edition,
// inheriting the parent book title/series/description/tags.
func (p *HardcoverProvider) parseEditionResults(book *remoteBook, genericCover, locale string) []MetaRecord {
	id := strconv.FormatInt(book.ID, 10)

	var series string
	var seriesIndex float64
	if len(book.BookSeries) > 0 {
		series = book.BookSeries[0].Series.Name
		seriesIndex = book.BookSeries[0].Position
	}

	tags := make([]string, 0, len(book.CachedTags))
	for _, item := range book.CachedTags {
		if tag, ok := item["tag"].(string); ok && tag != "" {
			tags = append(tags, tag)
		}
	}

	records := make([]MetaRecord, 0, len(book.Editions))
	for i := range book.Editions {
		edition := &book.Editions[i]
		if edition.isAudio() {
			continue
		}

		title := edition.Title
		if title == "" {
			title = book.Title
		}

		authors := make([]string, 0, len(edition.Contributions))
		for _, contribution := range edition.Contributions {
			if contribution.Author.Name != "" {
				authors = append(authors, contribution.Author.Name)
			}
		}

		cover := genericCover
		if edition.Image != nil && edition.Image.URL != "" {
			cover = edition.Image.URL
		}

		var publisher string
		if edition.Publisher != nil {
			publisher = edition.Publisher.Name
		}

		var languages []string
		if edition.Language != nil && edition.Language.Code3 != "" {
			languages = []string{p.languages.Name(locale, edition.Language.Code3)}
		}

		identifiers := map[string]string{
			IDKindBook:    id,
			IDKindSlug:    book.Slug,
			IDKindEdition: strconv.FormatInt(edition.ID, 10),
		}
		if isbn := edition.bestISBN(); isbn != "" {
			identifiers[IDKindISBN] = isbn
		}

		records = append(records, MetaRecord{
			ID:      id,
			Title:   title,
			Authors: authors,
			URL:     fmt.Sprintf("%s/books/%s/editions/%d", hardcoverMetaURL, book.Slug, edition.ID),
			Source: MetaSourceInfo{
				ID:          hardcoverSourceID,
				Description: hardcoverDescription,
				Link:        hardcoverMetaURL,
			},
			Series:        series,
			SeriesIndex:   seriesIndex,
			Cover:         cover,
			Description:   book.Description,
			Publisher:     publisher,
			PublishedDate: edition.ReleaseDate,
			Rating:        book.Rating,
			Languages:     languages,
			Tags:          tags,
			Format:        edition.formatLabel(),
			Identifiers:   identifiers,
		})
	}
	return records
}
