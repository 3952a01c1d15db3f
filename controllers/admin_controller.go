package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/gymfluence/api-go/models"
	"github.com/gymfluence/api-go/utils"
)

type AdminController struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

func NewAdminController(db *gorm.DB, logger *zap.Logger) *AdminController {
	return &AdminController{DB: db, Logger: logger}
}

func (ac *AdminController) ListReports(c *gin.Context) {
	page, pageSize := utils.ParsePagination(c, 20, 100)
	offset := (page - 1) * pageSize

	status := c.DefaultQuery("status", "pending")

	var reports []models.Report
	if err := ac.DB.Where("status = ?", status).
		Order("created_at ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&reports).Error; err != nil {
		message(c, http.StatusInternalServerError, "Error fetching reports")
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports, "page": page, "pageSize": pageSize})
}

func (ac *AdminController) UpdateReport(c *gin.Context) {
	claims := utils.GetUser(c)
	reportID, ok := utils.ParseUintParam(c, "id")
	if !ok {
		message(c, http.StatusBadRequest, "Invalid report id")
		return
	}

	var input struct {
		Status string `json:"status" binding:"required,oneof=pending reviewed resolved dismissed"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		message(c, http.StatusBadRequest, err.Error())
		return
	}

	var report models.Report
	if err := ac.DB.First(&report, reportID).Error; err != nil {
		message(c, http.StatusNotFound, "Report not found")
		return
	}

	if err := ac.DB.Model(&report).Update("status", input.Status).Error; err != nil {
		message(c, http.StatusInternalServerError, "Failed to update report")
		return
	}

	ac.DB.Create(&models.AuditLog{
		AdminUserID:  claims.UserID,
		Action:       "report_updated",
		TargetUserID: report.ReportedUserID,
		Detail:       fmt.Sprintf("report %d -> %s", report.ID, input.Status),
	})

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PurgeUser hard-deletes an account and everything it owns: posts with their
// likes and comments, both directions of the follow graph, notifications the
// user received or triggered, messages, and tokens.
func (ac *AdminController) PurgeUser(c *gin.Context) {
	claims := utils.GetUser(c)

	targetID, ok := utils.ParseUintParam(c, "userId")
	if !ok {
		message(c, http.StatusBadRequest, "Invalid user id")
		return
	}
	if claims != nil && claims.UserID == targetID {
		message(c, http.StatusBadRequest, "Cannot purge your own account")
		return
	}

	var target models.User
	if err := ac.DB.First(&target, targetID).Error; err != nil {
		message(c, http.StatusNotFound, "User not found")
		return
	}

	err := ac.DB.Transaction(func(tx *gorm.DB) error {
		var postIDs []uint
		if err := tx.Model(&models.Post{}).Where("user_id = ?", target.ID).
			Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Like{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
		}
		steps := []*gorm.DB{
			tx.Where("user_id = ?", target.ID).Delete(&models.Like{}),
			tx.Where("user_id = ?", target.ID).Delete(&models.Comment{}),
			tx.Unscoped().Where("user_id = ?", target.ID).Delete(&models.Post{}),
			tx.Where("follower_id = ? OR following_id = ?", target.ID, target.ID).Delete(&models.Follow{}),
			tx.Where("recipient_id = ? OR actor_id = ?", target.ID, target.ID).Delete(&models.Notification{}),
			tx.Where("sender_id = ? OR recipient_id = ?", target.ID, target.ID).Delete(&models.Message{}),
			tx.Unscoped().Where("user_id = ?", target.ID).Delete(&models.RefreshToken{}),
			tx.Where("user_id = ?", target.ID).Delete(&models.VerificationToken{}),
		}
		for _, step := range steps {
			if step.Error != nil {
				return step.Error
			}
		}
		return tx.Unscoped().Delete(&target).Error
	})
	if err != nil {
		ac.Logger.Error("user purge failed", zap.Uint("target_id", target.ID), zap.Error(err))
		message(c, http.StatusInternalServerError, "Failed to purge user")
		return
	}

	ac.DB.Create(&models.AuditLog{
		AdminUserID:  claims.UserID,
		Action:       "user_purged",
		TargetUserID: target.ID,
		Detail:       fmt.Sprintf("purged user %s", target.Username),
	})

	ac.Logger.Info("user purged",
		zap.Uint("admin_id", claims.UserID),
		zap.Uint("target_id", target.ID))

	c.JSON(http.StatusOK, gin.H{"success": true})
}
