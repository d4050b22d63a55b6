package filter

import (
	"net/url"
	"strings"

	"recipe-blog-cms/models"
)

// QueryParam is the shareable free-text parameter of the recipe listing.
const QueryParam = "q"

const (
	categoryParam   = "category"
	difficultyParam = "difficulty"
	tagParam        = "tag"
)

// FromQuery reads a State from request parameters. Only q is part of the
// shareable URL; the facet parameters are accepted for API callers.
func FromQuery(values url.Values) State {
	return State{
		Query:      strings.TrimSpace(values.Get(QueryParam)),
		Category:   strings.TrimSpace(values.Get(categoryParam)),
		Difficulty: models.Difficulty(strings.TrimSpace(values.Get(difficultyParam))),
		Tag:        strings.TrimSpace(values.Get(tagParam)),
	}
}

// ShareableQuery mirrors the state into URL parameters. Category,
// difficulty and tag stay in memory and are not written.
func (s State) ShareableQuery() url.Values {
	values := url.Values{}
	if q := strings.TrimSpace(s.Query); q != "" {
		values.Set(QueryParam, q)
	}
	return values
}

// APIQuery encodes every active dimension, for calls against the listing
// endpoint.
func (s State) APIQuery() url.Values {
	values := s.ShareableQuery()
	if s.Category != "" {
		values.Set(categoryParam, s.Category)
	}
	if s.Difficulty != "" {
		values.Set(difficultyParam, string(s.Difficulty))
	}
	if s.Tag != "" {
		values.Set(tagParam, s.Tag)
	}
	return values
}

// SyncURL returns u with its q parameter set from s, or removed when the
// query is empty. Unrelated parameters are kept.
func SyncURL(u url.URL, s State) url.URL {
	values := u.Query()
	if q := strings.TrimSpace(s.Query); q != "" {
		values.Set(QueryParam, q)
	} else {
		values.Del(QueryParam)
	}
	u.RawQuery = values.Encode()
	return u
}
