package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Post struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Caption   string         `json:"caption" gorm:"type:text"`
	Media     pq.StringArray `json:"media" gorm:"type:text[]"`
	UserID    uint           `json:"userId" gorm:"not null;index"`
	User      User           `json:"user" gorm:"foreignKey:UserID"`
	Comments  []Comment      `json:"comments" gorm:"foreignKey:PostID"`
	Likes     []Like         `json:"likes" gorm:"foreignKey:PostID"`
}
