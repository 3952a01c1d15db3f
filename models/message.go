package models

import "time"

// Message is a direct message between two users.
type Message struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	SenderID    uint       `gorm:"not null;index" json:"sender_id"`
	RecipientID uint       `gorm:"not null;index" json:"recipient_id"`
	Body        string     `gorm:"type:text;not null" json:"body"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`

	Sender    User `gorm:"foreignKey:SenderID" json:"-"`
	Recipient User `gorm:"foreignKey:RecipientID" json:"-"`
}
