package models

import "time"

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleUser   UserRole = "user"
	RoleEditor UserRole = "editor"
)

type Profile struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Email       string    `json:"email" gorm:"not null"`
	DisplayName string    `json:"display_name"`
	Role        UserRole  `json:"role" gorm:"type:varchar(16);default:'user'"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
