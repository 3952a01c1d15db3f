package models

import "gorm.io/gorm"

type Comment struct {
	gorm.Model
	Content string `gorm:"type:text;not null"`
	UserID  uint   `gorm:"not null;index"`
	User    User
	PostID  uint `gorm:"not null;index"`
	Post    Post
}
