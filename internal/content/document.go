// Package content defines the document records served by the cache and the
// coercion rules that map raw front-matter metadata onto them.
//
// Front-matter fields are optional and untrusted: Coerce never fails, it
// substitutes defaults for anything absent or malformed. The sort key is the
// only derived field; see Coerce for the derivation rules.
package content

import (
	"fmt"
	"strconv"
	"strings"
)

// DocumentMeta is the listing-level view of a document. It carries every
// persisted field except the body, so listings stay cheap.
type DocumentMeta struct {
	Slug          string   `json:"slug"`
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Date          string   `json:"date"`
	Category      string   `json:"category"`
	CategoryLabel string   `json:"categoryLabel"`
	Points        []string `json:"points"`
	Contacts      []string `json:"contacts"`
	Tables        []any    `json:"tables"`
	Sort          int      `json:"sort"`
}

// Document is a full document: metadata plus the raw body text.
type Document struct {
	DocumentMeta
	Content string `json:"content"`
}

// Coerce normalizes a raw front-matter map into a fully-populated Document.
//
// Every string field defaults to "" when absent or non-string, sequence
// fields default to empty, and the sort key is derived as follows: the
// digits of the `id` field (e.g. "doc-007" -> 7), else the digits of the
// slug, else 0. Coerce never returns an error; malformed metadata degrades
// to defaults instead of blocking a seed pass.
func Coerce(slug string, meta map[string]any, body string) Document {
	doc := Document{
		DocumentMeta: DocumentMeta{
			Slug:          slug,
			ID:            stringField(meta, "id"),
			Title:         stringField(meta, "title"),
			Description:   stringField(meta, "description"),
			Date:          stringField(meta, "date"),
			Category:      stringField(meta, "category"),
			CategoryLabel: stringField(meta, "categoryLabel"),
			Points:        stringListField(meta, "points"),
			Contacts:      stringListField(meta, "contacts"),
			Tables:        listField(meta, "tables"),
		},
		Content: body,
	}
	doc.Sort = sortKey(doc.ID, slug)
	return doc
}

// sortKey derives the listing sort key. The id field wins when it contains
// digits; otherwise any digits embedded in the slug are used; otherwise 0.
func sortKey(id, slug string) int {
	if n, ok := digitsValue(id); ok {
		return n
	}
	if n, ok := digitsValue(slug); ok {
		return n
	}
	return 0
}

// digitsValue strips every non-digit character from s and parses the rest
// as an integer. Returns false when s contains no digits or the digit run
// overflows int.
func digitsValue(s string) (int, bool) {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0, false
	}
	return n, true
}

func stringField(meta map[string]any, key string) string {
	if s, ok := meta[key].(string); ok {
		return s
	}
	return ""
}

// stringListField coerces a front-matter sequence into []string. Non-string
// elements are stringified rather than dropped; anything that is not a
// sequence at all yields the empty list.
func stringListField(meta map[string]any, key string) []string {
	raw, ok := meta[key].([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
			continue
		}
		out = append(out, fmt.Sprint(v))
	}
	return out
}

// listField coerces a front-matter sequence of arbitrary structure.
func listField(meta map[string]any, key string) []any {
	if raw, ok := meta[key].([]any); ok {
		return raw
	}
	return []any{}
}
