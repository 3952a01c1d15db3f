package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gymfluence/api-go/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// :memory: is per-connection; pin the pool to one.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Follow{}, &models.Notification{}))
	return db
}

func newTestServices(t *testing.T) (*gorm.DB, *FollowService, *NotificationService, *VisibilityPolicy) {
	t.Helper()
	db := newTestDB(t)
	notifications := NewNotificationService(db, zap.NewNop())
	follows := NewFollowService(db, notifications, zap.NewNop())
	visibility := NewVisibilityPolicy(db)
	return db, follows, notifications, visibility
}

func createUser(t *testing.T, db *gorm.DB, username string, private bool) *models.User {
	t.Helper()
	user := &models.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "hashed",
		Name:      username,
		IsPrivate: private,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func edgeCount(t *testing.T, db *gorm.DB, followerID, followingID uint) int64 {
	t.Helper()
	var cnt int64
	require.NoError(t, db.Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&cnt).Error)
	return cnt
}

func notificationsFor(t *testing.T, db *gorm.DB, recipientID uint) []models.Notification {
	t.Helper()
	var ns []models.Notification
	require.NoError(t, db.Where("recipient_id = ?", recipientID).Order("id ASC").Find(&ns).Error)
	return ns
}

func ctx() context.Context { return context.Background() }
