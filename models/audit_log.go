package models

import "time"

// AuditLog records moderation actions taken by administrators.
type AuditLog struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	AdminUserID  uint      `gorm:"not null;index" json:"admin_user_id"`
	Action       string    `gorm:"not null;type:varchar(50)" json:"action"` // "user_purged", "report_updated", ...
	TargetUserID uint      `json:"target_user_id"`
	Detail       string    `gorm:"type:text" json:"detail"`
	CreatedAt    time.Time `json:"created_at"`
}
