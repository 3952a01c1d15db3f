package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gymfluence/api-go/models"
)

const (
	ActionFollow   = "follow"
	ActionUnfollow = "unfollow"
	ActionToggle   = "toggle"
)

// FollowState is the viewer-relative snapshot returned after every follow
// read or mutation. Counts cover accepted edges only; IsFollowing is true
// for an edge of any status from the viewer to the target.
type FollowState struct {
	Followers   int64 `json:"followers"`
	Following   int64 `json:"following"`
	IsFollowing bool  `json:"isFollowing"`
}

type FollowService struct {
	db            *gorm.DB
	notifications *NotificationService
	logger        *zap.Logger
}

func NewFollowService(db *gorm.DB, notifications *NotificationService, logger *zap.Logger) *FollowService {
	return &FollowService{db: db, notifications: notifications, logger: logger}
}

// SetFollowState applies a follow mutation from viewer to target and returns
// the resulting state. An empty action means toggle. Both follow and unfollow
// are idempotent: re-following while an edge exists (of either status) and
// unfollowing an absent edge are no-ops.
func (s *FollowService) SetFollowState(ctx context.Context, viewerID, targetID uint, action string) (*FollowState, error) {
	if viewerID == targetID {
		return nil, ErrSelfFollow
	}

	// The token can outlive the account; a purged viewer cannot mutate edges.
	var viewerCount int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", viewerID).Count(&viewerCount).Error; err != nil {
		return nil, err
	}
	if viewerCount == 0 {
		return nil, ErrUserNotFound
	}

	var target models.User
	if err := s.db.WithContext(ctx).First(&target, targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var existing models.Follow
	err := s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", viewerID, targetID).
		First(&existing).Error
	exists := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var mutation error
	switch action {
	case "", ActionToggle:
		if exists {
			mutation = s.deleteEdge(ctx, viewerID, targetID)
		} else {
			mutation = s.createEdge(ctx, viewerID, &target)
		}
	case ActionFollow:
		if !exists {
			mutation = s.createEdge(ctx, viewerID, &target)
		}
	case ActionUnfollow:
		if exists {
			mutation = s.deleteEdge(ctx, viewerID, targetID)
		}
	default:
		return nil, ErrInvalidAction
	}
	if mutation != nil {
		return nil, mutation
	}

	return s.GetFollowState(ctx, viewerID, targetID)
}

// createEdge inserts the follow edge and fans out the matching notification.
// The insert rides on the unique (follower_id, following_id) index: a racing
// duplicate resolves to RowsAffected == 0 and no notification is emitted.
func (s *FollowService) createEdge(ctx context.Context, viewerID uint, target *models.User) error {
	status := models.FollowStatusAccepted
	if target.IsPrivate {
		status = models.FollowStatusPending
	}

	edge := models.Follow{FollowerID: viewerID, FollowingID: target.ID, Status: status}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "follower_id"}, {Name: "following_id"}},
		DoNothing: true,
	}).Create(&edge)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		s.logger.Debug("follow insert lost race, treating as already following",
			zap.Uint("viewer_id", viewerID), zap.Uint("target_id", target.ID))
		return nil
	}

	ntype := models.NotificationFollowedYou
	if status == models.FollowStatusPending {
		ntype = models.NotificationFollowRequest
	}
	return s.notifications.Emit(ctx, ntype, target.ID, viewerID, &edge.ID)
}

func (s *FollowService) deleteEdge(ctx context.Context, viewerID, targetID uint) error {
	return s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", viewerID, targetID).
		Delete(&models.Follow{}).Error
}

// GetFollowState returns the target's accepted follower/following counts and
// whether the viewer has an outgoing edge of any status. A zero viewerID
// means an anonymous caller.
func (s *FollowService) GetFollowState(ctx context.Context, viewerID, targetID uint) (*FollowState, error) {
	state := &FollowState{}

	if err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("following_id = ? AND status = ?", targetID, models.FollowStatusAccepted).
		Count(&state.Followers).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND status = ?", targetID, models.FollowStatusAccepted).
		Count(&state.Following).Error; err != nil {
		return nil, err
	}

	if viewerID != 0 && viewerID != targetID {
		var cnt int64
		if err := s.db.WithContext(ctx).Model(&models.Follow{}).
			Where("follower_id = ? AND following_id = ?", viewerID, targetID).
			Count(&cnt).Error; err != nil {
			return nil, err
		}
		state.IsFollowing = cnt > 0
	}

	return state, nil
}

// AcceptFollowRequest validates that the notification belongs to the
// recipient, is a follow request, and still references an edge; then flips
// the edge to accepted, marks the notification read and notifies the
// original requester.
func (s *FollowService) AcceptFollowRequest(ctx context.Context, recipientID, notificationID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		edge, n, err := s.lockFollowRequest(tx, recipientID, notificationID)
		if err != nil {
			return err
		}
		if err := tx.Model(edge).Update("status", models.FollowStatusAccepted).Error; err != nil {
			return err
		}
		if err := tx.Model(n).Update("is_read", true).Error; err != nil {
			return err
		}
		return s.notifications.emit(tx, models.NotificationRequestAccepted, edge.FollowerID, recipientID, &edge.ID)
	})
}

// DeclineFollowRequest deletes the pending edge and marks the notification
// read. Declining is modeled as edge deletion, same as unfollow.
func (s *FollowService) DeclineFollowRequest(ctx context.Context, recipientID, notificationID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		edge, n, err := s.lockFollowRequest(tx, recipientID, notificationID)
		if err != nil {
			return err
		}
		if err := tx.Delete(edge).Error; err != nil {
			return err
		}
		return tx.Model(n).Update("is_read", true).Error
	})
}

func (s *FollowService) lockFollowRequest(tx *gorm.DB, recipientID, notificationID uint) (*models.Follow, *models.Notification, error) {
	var n models.Notification
	if err := tx.Where("id = ? AND recipient_id = ?", notificationID, recipientID).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidNotification
		}
		return nil, nil, err
	}
	if n.Type != models.NotificationFollowRequest || n.FollowID == nil {
		return nil, nil, ErrInvalidNotification
	}

	var edge models.Follow
	if err := tx.First(&edge, *n.FollowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidNotification
		}
		return nil, nil, err
	}
	return &edge, &n, nil
}

// ListFollowers returns accepted followers of a user, newest first.
func (s *FollowService) ListFollowers(ctx context.Context, userID uint, page, pageSize int) ([]models.UserSummary, error) {
	return s.listEdgeUsers(ctx, userID, "following_id", "follower_id", page, pageSize)
}

// ListFollowing returns the users a user follows (accepted only), newest first.
func (s *FollowService) ListFollowing(ctx context.Context, userID uint, page, pageSize int) ([]models.UserSummary, error) {
	return s.listEdgeUsers(ctx, userID, "follower_id", "following_id", page, pageSize)
}

func (s *FollowService) listEdgeUsers(ctx context.Context, userID uint, whereCol, joinCol string, page, pageSize int) ([]models.UserSummary, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	var users []models.UserSummary
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Select("users.id, users.username, users.name, users.image").
		Joins("JOIN users ON users.id = follows."+joinCol).
		Where("follows."+whereCol+" = ? AND follows.status = ?", userID, models.FollowStatusAccepted).
		Order("follows.created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Scan(&users).Error
	return users, err
}
