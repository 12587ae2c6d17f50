package main

import (
	"strconv"
	"strings"
)

// Identifier kinds recognized by the bridge. Only hardcover-prefixed
// kinds and isbn are meaningful to the remote system.
const (
	IDKindBook    = "hardcover-id"      // numeric book id
	IDKindEdition = "hardcover-edition" // numeric edition id
	IDKindSlug    = "hardcover"         // slug string
	IDKindISBN    = "isbn"              // 10 or 13 digits
)

// Identifier is a single cross-reference entry as submitted by callers.
type Identifier struct {
	Type string `json:"type"`
	Val  string `json:"val"`
}

// IdentifierSet maps an identifier kind to its value. Values are kept
// as strings and converted on demand since callers mix numbers and text.
type IdentifierSet map[string]string

// NewIdentifierSet keeps only the hardcover-prefixed kinds and isbn
// from a raw identifiers mapping.
func NewIdentifierSet(raw map[string]string) IdentifierSet {
	ids := IdentifierSet{}
	for kind, val := range raw {
		if strings.HasPrefix(kind, "hardcover") || kind == IDKindISBN {
			ids[kind] = val
		}
	}
	return ids
}

// NewIdentifierSetFromList builds a filtered set from a sequence of
// identifier objects (last occurrence of a kind wins).
func NewIdentifierSetFromList(list []Identifier) IdentifierSet {
	raw := make(map[string]string, len(list))
	for _, id := range list {
		raw[id.Type] = id.Val
	}
	return NewIdentifierSet(raw)
}

// BookID returns the numeric book id or 0 when absent or malformed.
func (ids IdentifierSet) BookID() int64 {
	n, _ := strconv.ParseInt(ids[IDKindBook], 10, 64)
	return n
}

// EditionID returns the numeric edition id or 0 when absent or malformed.
func (ids IdentifierSet) EditionID() int64 {
	n, _ := strconv.ParseInt(ids[IDKindEdition], 10, 64)
	return n
}

// Slug returns the hardcover slug or an empty string.
func (ids IdentifierSet) Slug() string {
	return ids[IDKindSlug]
}

// ISBN returns the isbn value or an empty string.
func (ids IdentifierSet) ISBN() string {
	return ids[IDKindISBN]
}

// MetaSourceInfo describes the provider a metadata record came from.
type MetaSourceInfo struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

// MetaRecord is the normalized output of a metadata search. Every field
// except ID/Title/Authors/URL/Source is optional and defaults to its
// zero value when the remote payload lacks it.
type MetaRecord struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Authors       []string          `json:"authors"`
	URL           string            `json:"url"`
	Source        MetaSourceInfo    `json:"source"`
	Series        string            `json:"series,omitempty"`
	SeriesIndex   float64           `json:"series_index,omitempty"`
	Cover         string            `json:"cover,omitempty"`
	Description   string            `json:"description,omitempty"`
	Publisher     string            `json:"publisher,omitempty"`
	PublishedDate string            `json:"publishedDate,omitempty"`
	Rating        float64           `json:"rating,omitempty"`
	Languages     []string          `json:"languages,omitempty"`
	Tags          []string          `json:"tags,omitempty"`
	Format        string            `json:"format,omitempty"`
	Identifiers   map[string]string `json:"identifiers"`
}

// LanguageResolver maps a 3-letter language code plus a locale to a
// display name. The host application owns the real lookup tables.
type LanguageResolver interface {
	Name(locale, code3 string) string
}

// codeLanguageResolver is the fallback resolver which echoes the code.
type codeLanguageResolver struct{}

func NewCodeLanguageResolver() LanguageResolver {
	return &codeLanguageResolver{}
}

func (r *codeLanguageResolver) Name(_, code3 string) string {
	return code3
}
