package models

import "time"

type Tag struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	Name       string    `json:"name" gorm:"uniqueIndex;not null"`
	UsageCount int       `json:"usage_count" gorm:"default:0"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

// TagDetail is a tag together with the published recipes carrying it.
type TagDetail struct {
	Tag
	Recipes []RecipeView `json:"recipes"`
}
