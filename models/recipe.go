package models

import (
	"fmt"
	"time"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

type Recipe struct {
	ID          uint        `json:"id" gorm:"primarykey"`
	Slug        string      `json:"slug" gorm:"uniqueIndex;not null"`
	Title       string      `json:"title" gorm:"not null"`
	Description string      `json:"description" gorm:"type:text"`
	Excerpt     string      `json:"excerpt"`
	Difficulty  *Difficulty `json:"difficulty" gorm:"type:varchar(16)"`
	PrepTime    *int        `json:"prep_time"`
	CookTime    *int        `json:"cook_time"`
	Servings    *int        `json:"servings"`
	Featured    bool        `json:"featured" gorm:"default:false"`
	Trending    bool        `json:"trending" gorm:"default:false"`
	EditorsPick bool        `json:"editors_pick" gorm:"default:false"`
	PublishedAt *time.Time  `json:"published_at" gorm:"index"`
	ImageKey    string      `json:"image_key"`
	Categories  []Category  `json:"categories" gorm:"many2many:recipe_categories;"`
	Tags        []Tag       `json:"tags" gorm:"many2many:recipe_tags;"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// RecipeView is the read model handed to listing and detail views.
// Nullable columns are already resolved to their display defaults.
type RecipeView struct {
	ID          uint       `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Excerpt     string     `json:"excerpt,omitempty"`
	Difficulty  Difficulty `json:"difficulty"`
	PrepTime    int        `json:"prep_time"`
	CookTime    int        `json:"cook_time"`
	Servings    int        `json:"servings"`
	Featured    bool       `json:"featured"`
	Trending    bool       `json:"trending"`
	EditorsPick bool       `json:"editors_pick"`
	PublishedAt *time.Time `json:"published_at"`
	Categories  []Category `json:"categories"`
	Tags        []Tag      `json:"tags"`
	ImageURL    string     `json:"image_url,omitempty"`
}

func (v RecipeView) TotalTime() int {
	return v.PrepTime + v.CookTime
}

// NewRecipeView validates a stored row and resolves its defaults. A row that
// cannot be shown fails here instead of leaking zero values into listings.
func NewRecipeView(r Recipe, imageURL string) (RecipeView, error) {
	if r.Slug == "" || r.Title == "" {
		return RecipeView{}, NewBackendError(fmt.Sprintf("malformed recipe row %d", r.ID), fmt.Errorf("missing slug or title"))
	}

	difficulty := DifficultyMedium
	if r.Difficulty != nil {
		if !r.Difficulty.Valid() {
			return RecipeView{}, NewBackendError(fmt.Sprintf("malformed recipe %q", r.Slug), fmt.Errorf("unknown difficulty %q", *r.Difficulty))
		}
		difficulty = *r.Difficulty
	}

	prep, cook, servings := 0, 0, 1
	if r.PrepTime != nil {
		prep = *r.PrepTime
	}
	if r.CookTime != nil {
		cook = *r.CookTime
	}
	if r.Servings != nil {
		servings = *r.Servings
	}
	if prep < 0 || cook < 0 {
		return RecipeView{}, NewBackendError(fmt.Sprintf("malformed recipe %q", r.Slug), fmt.Errorf("negative preparation or cooking time"))
	}
	if servings < 1 {
		return RecipeView{}, NewBackendError(fmt.Sprintf("malformed recipe %q", r.Slug), fmt.Errorf("servings must be positive, got %d", servings))
	}

	categories := r.Categories
	if categories == nil {
		categories = []Category{}
	}
	tags := r.Tags
	if tags == nil {
		tags = []Tag{}
	}

	return RecipeView{
		ID:          r.ID,
		Slug:        r.Slug,
		Title:       r.Title,
		Description: r.Description,
		Excerpt:     r.Excerpt,
		Difficulty:  difficulty,
		PrepTime:    prep,
		CookTime:    cook,
		Servings:    servings,
		Featured:    r.Featured,
		Trending:    r.Trending,
		EditorsPick: r.EditorsPick,
		PublishedAt: r.PublishedAt,
		Categories:  categories,
		Tags:        tags,
		ImageURL:    imageURL,
	}, nil
}
