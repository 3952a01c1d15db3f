package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/gymfluence/api-go/models"
)

// VisibilityPolicy is the single authority deciding whether a viewer may see
// a private owner's content. Every handler that crosses a privacy boundary
// (profile post listing, post preview, profile detail) goes through CanView
// so enforcement cannot drift between call sites.
type VisibilityPolicy struct {
	db *gorm.DB
}

func NewVisibilityPolicy(db *gorm.DB) *VisibilityPolicy {
	return &VisibilityPolicy{db: db}
}

// CanView is true when the owner is public or the viewer is the owner;
// otherwise an accepted edge viewer→owner must exist. A zero viewerID is an
// anonymous caller and never sees private content.
func (p *VisibilityPolicy) CanView(ctx context.Context, viewerID, ownerID uint, ownerIsPrivate bool) (bool, error) {
	if !ownerIsPrivate || viewerID == ownerID {
		return true, nil
	}
	if viewerID == 0 {
		return false, nil
	}

	var cnt int64
	err := p.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ? AND status = ?",
			viewerID, ownerID, models.FollowStatusAccepted).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}
