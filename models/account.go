package models

import "time"

// Account is the identity-provider record. The application-owned profile
// lives in Profile and shares the same ID.
type Account struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Session backs a signed token. Tokens whose session is revoked or expired
// are rejected even if the signature still verifies.
type Session struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	AccountID uint       `json:"account_id" gorm:"index;not null"`
	ExpiresAt time.Time  `json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at"`
	CreatedAt time.Time  `json:"created_at"`
}

func (s Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
