package models

import "time"

const (
	NotificationFollowRequest   = "FOLLOW_REQUEST"
	NotificationFollowedYou     = "FOLLOWED_YOU"
	NotificationRequestAccepted = "REQUEST_ACCEPTED"
)

type Notification struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	RecipientID uint      `gorm:"not null;index" json:"recipient_id"`
	ActorID     uint      `gorm:"not null" json:"actor_id"`
	FollowID    *uint     `json:"follow_id,omitempty"`
	Type        string    `gorm:"not null;type:varchar(32)" json:"type"`
	IsRead      bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`

	Recipient User    `gorm:"foreignKey:RecipientID" json:"-"`
	Actor     User    `gorm:"foreignKey:ActorID" json:"-"`
	Follow    *Follow `gorm:"foreignKey:FollowID" json:"-"`
}
