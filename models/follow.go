package models

import "time"

const (
	FollowStatusPending  = "pending"
	FollowStatusAccepted = "accepted"
)

// Follow is a directed edge: FollowerID follows FollowingID. The pair is
// unique so a racing duplicate insert is rejected by the store.
type Follow struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FollowerID  uint      `gorm:"not null;uniqueIndex:idx_follow_pair" json:"follower_id"`
	FollowingID uint      `gorm:"not null;uniqueIndex:idx_follow_pair" json:"following_id"`
	Status      string    `gorm:"not null;default:'pending';type:varchar(16)" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Follower  User `gorm:"foreignKey:FollowerID" json:"-"`
	Following User `gorm:"foreignKey:FollowingID" json:"-"`
}
