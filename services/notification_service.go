package services

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/gymfluence/api-go/models"
)

const (
	defaultNotificationPageSize = 50
	maxNotificationPageSize     = 200
)

// NotificationItem is the listing shape: the stored record plus an embedded
// actor summary.
type NotificationItem struct {
	ID        uint               `json:"id"`
	Type      string             `json:"type"`
	IsRead    bool               `json:"isRead"`
	CreatedAt time.Time          `json:"createdAt"`
	FollowID  *uint              `json:"followId,omitempty"`
	Actor     models.UserSummary `json:"actor"`
}

type NotificationService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewNotificationService(db *gorm.DB, logger *zap.Logger) *NotificationService {
	return &NotificationService{db: db, logger: logger}
}

// Emit appends a new unread notification. There is no deduplication: rapid
// follow/unfollow cycling produces one record per transition.
func (s *NotificationService) Emit(ctx context.Context, ntype string, recipientID, actorID uint, followID *uint) error {
	return s.emit(s.db.WithContext(ctx), ntype, recipientID, actorID, followID)
}

// emit is the transaction-aware variant used when the fan-out must commit
// atomically with a follow mutation.
func (s *NotificationService) emit(tx *gorm.DB, ntype string, recipientID, actorID uint, followID *uint) error {
	n := models.Notification{
		RecipientID: recipientID,
		ActorID:     actorID,
		FollowID:    followID,
		Type:        ntype,
	}
	if err := tx.Create(&n).Error; err != nil {
		return err
	}
	s.logger.Debug("notification emitted",
		zap.String("type", ntype),
		zap.Uint("recipient_id", recipientID),
		zap.Uint("actor_id", actorID))
	return nil
}

// List returns the recipient's notifications newest first, bounded to a page.
func (s *NotificationService) List(ctx context.Context, recipientID uint, page, pageSize int) ([]NotificationItem, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultNotificationPageSize
	}
	if pageSize > maxNotificationPageSize {
		pageSize = maxNotificationPageSize
	}
	offset := (page - 1) * pageSize

	var records []models.Notification
	err := s.db.WithContext(ctx).
		Preload("Actor").
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	items := make([]NotificationItem, len(records))
	for i, n := range records {
		items[i] = NotificationItem{
			ID:        n.ID,
			Type:      n.Type,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
			FollowID:  n.FollowID,
			Actor:     n.Actor.Summary(),
		}
	}
	return items, nil
}

// MarkRead flips a notification owned by the recipient to read. Read is the
// only transition a notification ever makes.
func (s *NotificationService) MarkRead(ctx context.Context, recipientID, notificationID uint) error {
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInvalidNotification
	}
	return nil
}

// UnreadCount is used by the profile surface to badge the bell icon.
func (s *NotificationService) UnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	var cnt int64
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&cnt).Error
	return cnt, err
}
