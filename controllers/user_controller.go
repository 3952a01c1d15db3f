package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gymfluence/api-go/models"
	"github.com/gymfluence/api-go/services"
	"github.com/gymfluence/api-go/utils"
)

type UserController struct {
	DB         *gorm.DB
	Follows    *services.FollowService
	Visibility *services.VisibilityPolicy
}

func NewUserController(db *gorm.DB, follows *services.FollowService, visibility *services.VisibilityPolicy) *UserController {
	return &UserController{DB: db, Follows: follows, Visibility: visibility}
}

// GetUserProfile returns a profile with follow counts and viewer-relative
// state. A private profile a viewer may not see still returns the header
// fields, but no post count and a locked flag.
func (uc *UserController) GetUserProfile(c *gin.Context) {
	userID, ok := utils.ParseUintParam(c, "userId")
	if !ok {
		message(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	var target models.User
	if err := uc.DB.First(&target, userID).Error; err != nil {
		message(c, http.StatusNotFound, "User not found")
		return
	}

	viewerID := utils.ViewerID(c)
	state, err := uc.Follows.GetFollowState(c.Request.Context(), viewerID, target.ID)
	if err != nil {
		message(c, http.StatusInternalServerError, "Error fetching profile")
		return
	}

	allowed, err := uc.Visibility.CanView(c.Request.Context(), viewerID, target.ID, target.IsPrivate)
	if err != nil {
		message(c, http.StatusInternalServerError, "Error fetching profile")
		return
	}

	profile := gin.H{
		"id":           target.ID,
		"username":     target.Username,
		"name":         target.Name,
		"image":        target.Image,
		"is_private":   target.IsPrivate,
		"isOwnProfile": viewerID == target.ID,
		"isFollowing":  state.IsFollowing,
		"followers":    state.Followers,
		"following":    state.Following,
		"locked":       !allowed,
	}

	if allowed {
		var postsCount int64
		uc.DB.Model(&models.Post{}).Where("user_id = ?", target.ID).Count(&postsCount)
		profile["bio"] = target.Bio
		profile["postsCount"] = postsCount
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "profile": profile})
}

func (uc *UserController) SearchUsers(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		message(c, http.StatusBadRequest, "Search query is required")
		return
	}

	page, pageSize := utils.ParsePagination(c, 20, 100)
	offset := (page - 1) * pageSize

	var users []models.UserSummary
	pattern := "%" + query + "%"
	if err := uc.DB.Model(&models.User{}).
		Select("id, username, name, image").
		Where("username ILIKE ? OR name ILIKE ?", pattern, pattern).
		Order("username ASC").
		Offset(offset).
		Limit(pageSize).
		Scan(&users).Error; err != nil {
		message(c, http.StatusInternalServerError, "Error searching users")
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "query": query, "page": page, "pageSize": pageSize})
}

func (uc *UserController) ReportUser(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		message(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	targetID, ok := utils.ParseUintParam(c, "userId")
	if !ok {
		message(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	if claims.UserID == targetID {
		message(c, http.StatusBadRequest, "Cannot report yourself")
		return
	}

	var input struct {
		Reason      string `json:"reason" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		message(c, http.StatusBadRequest, err.Error())
		return
	}

	var target models.User
	if err := uc.DB.First(&target, targetID).Error; err != nil {
		message(c, http.StatusNotFound, "User not found")
		return
	}

	report := models.Report{
		ReporterUserID: claims.UserID,
		ReportedUserID: target.ID,
		Reason:         input.Reason,
		Description:    input.Description,
		Status:         "pending",
	}
	if err := uc.DB.Create(&report).Error; err != nil {
		message(c, http.StatusInternalServerError, "Failed to submit report")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
