package models

import "time"

type Category struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;not null"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// CategoryDetail is a category together with its published recipes.
type CategoryDetail struct {
	Category
	Recipes []RecipeView `json:"recipes"`
}
