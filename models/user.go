package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	Username      string         `gorm:"unique;not null" json:"username"`
	Email         string         `gorm:"unique;not null" json:"email"`
	Password      string         `gorm:"not null" json:"-"` // Don't expose password in JSON
	Name          string         `json:"name"`
	Bio           string         `json:"bio"`
	Image         string         `json:"image"`
	IsPrivate     bool           `gorm:"not null;default:false" json:"is_private"`
	Role          string         `gorm:"not null;default:'user';type:varchar(20)" json:"role"`
	EmailVerified bool           `gorm:"not null;default:false" json:"email_verified"`

	Posts []Post `json:"-" gorm:"foreignKey:UserID"`
}

// UserSummary is the trimmed projection embedded in follower lists and
// notification payloads.
type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Image    string `json:"image"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Name: u.Name, Image: u.Image}
}
