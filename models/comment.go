package models

import "time"

const MinCommentLength = 3

type Comment struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	RecipeID  uint      `json:"recipe_id" gorm:"index;not null"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Author    *Profile  `json:"author,omitempty" gorm:"foreignKey:UserID"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// OwnedBy reports whether userID authored the comment.
func (c Comment) OwnedBy(userID uint) bool {
	return userID != 0 && c.UserID == userID
}
