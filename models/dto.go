package models

import "time"

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	DisplayName string `json:"display_name" validate:"required,min=2,max=50"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Account   Account   `json:"account"`
	Profile   *Profile  `json:"profile"`
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,min=2,max=50"`
}

type SetupProfileRequest struct {
	DisplayName string `json:"display_name" validate:"required,min=2,max=50"`
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

type SubscribeRequest struct {
	Email  string `json:"email" validate:"required"`
	Source string `json:"source" validate:"max=50"`
}

type UnsubscribeRequest struct {
	Email string `json:"email" validate:"required"`
}

type CreateUserRequest struct {
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,min=6"`
	DisplayName string   `json:"display_name" validate:"required,min=2,max=50"`
	Role        UserRole `json:"role,omitempty" validate:"omitempty,oneof=admin user editor"`
}

type AdminStats struct {
	Users            int64           `json:"users"`
	Recipes          int64           `json:"recipes"`
	PublishedRecipes int64           `json:"published_recipes"`
	Categories       int64           `json:"categories"`
	Comments         int64           `json:"comments"`
	Newsletter       NewsletterStats `json:"newsletter"`
}

// UserSummary is one row of the admin user list.
type UserSummary struct {
	ID          uint      `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        UserRole  `json:"role"`
	NeedsSetup  bool      `json:"needs_setup"`
	CreatedAt   time.Time `json:"created_at"`
}
