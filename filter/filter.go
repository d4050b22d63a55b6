// Package filter derives the visible subset of a loaded recipe collection
// from the current free-text query and facet selections.
package filter

import (
	"strings"

	"recipe-blog-cms/models"
)

// State is the set of filters applied to a recipe listing. Empty fields
// are inactive. Active fields are ANDed together.
type State struct {
	Query      string            `json:"q,omitempty"`
	Category   string            `json:"category,omitempty"`
	Difficulty models.Difficulty `json:"difficulty,omitempty"`
	Tag        string            `json:"tag,omitempty"`
}

// Clear returns the neutral state.
func Clear() State {
	return State{}
}

// IsEmpty reports whether no dimension is active.
func (s State) IsEmpty() bool {
	return strings.TrimSpace(s.Query) == "" && s.Category == "" && s.Difficulty == "" && s.Tag == ""
}

// Apply returns the recipes matching s in their original order. The input
// slice is never modified.
func Apply(recipes []models.RecipeView, s State) []models.RecipeView {
	out := make([]models.RecipeView, 0, len(recipes))
	q := normalizeQuery(s.Query)
	for _, r := range recipes {
		if matches(r, s, q) {
			out = append(out, r)
		}
	}
	return out
}

// Matches reports whether a single recipe passes every active filter.
func Matches(r models.RecipeView, s State) bool {
	return matches(r, s, normalizeQuery(s.Query))
}

func matches(r models.RecipeView, s State, q string) bool {
	if q != "" && !matchesQuery(r, q) {
		return false
	}
	if s.Category != "" && !hasCategory(r, s.Category) {
		return false
	}
	if s.Difficulty != "" && r.Difficulty != s.Difficulty {
		return false
	}
	if s.Tag != "" && !hasTag(r, s.Tag) {
		return false
	}
	return true
}

func normalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

func matchesQuery(r models.RecipeView, q string) bool {
	return strings.Contains(strings.ToLower(r.Title), q) ||
		strings.Contains(strings.ToLower(r.Description), q) ||
		(r.Excerpt != "" && strings.Contains(strings.ToLower(r.Excerpt), q))
}

func hasCategory(r models.RecipeView, slug string) bool {
	for _, c := range r.Categories {
		if strings.EqualFold(c.Slug, slug) {
			return true
		}
	}
	return false
}

func hasTag(r models.RecipeView, name string) bool {
	for _, t := range r.Tags {
		if strings.EqualFold(t.Name, name) {
			return true
		}
	}
	return false
}
