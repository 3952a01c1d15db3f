package models

import (
	"time"
)

type Like struct {
	LikeID    uint      `gorm:"column:like_id;primaryKey;autoIncrement"`
	PostID    uint      `gorm:"column:post_id;not null;uniqueIndex:idx_like_pair"`
	UserID    uint      `gorm:"column:user_id;not null;uniqueIndex:idx_like_pair"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`

	User User `gorm:"foreignKey:UserID"`
	Post Post `gorm:"foreignKey:PostID"`
}
