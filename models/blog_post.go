package models

import "time"

type BlogPost struct {
	ID          uint       `json:"id" gorm:"primarykey"`
	Slug        string     `json:"slug" gorm:"uniqueIndex;not null"`
	Title       string     `json:"title" gorm:"not null"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content,omitempty" gorm:"type:text"`
	AuthorName  string     `json:"author_name"`
	PublishedAt *time.Time `json:"published_at" gorm:"index"`
	Tags        []Tag      `json:"tags" gorm:"many2many:blog_post_tags;"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
