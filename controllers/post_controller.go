package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/gymfluence/api-go/models"
	"github.com/gymfluence/api-go/services"
	"github.com/gymfluence/api-go/utils"
)

type PostController struct {
	DB         *gorm.DB
	Visibility *services.VisibilityPolicy
}

func NewPostController(db *gorm.DB, visibility *services.VisibilityPolicy) *PostController {
	return &PostController{DB: db, Visibility: visibility}
}

func (pc *PostController) CreatePost(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		message(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input struct {
		Caption string   `json:"caption" binding:"required"`
		Media   []string `json:"media"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		message(c, http.StatusBadRequest, err.Error())
		return
	}

	post := models.Post{
		Caption: input.Caption,
		Media:   pq.StringArray(input.Media),
		UserID:  claims.UserID,
	}

	if err := pc.DB.Create(&post).Error; err != nil {
		message(c, http.StatusInternalServerError, "Failed to create post")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "post": post})
}

// GetUserPosts lists a user's posts, gated by the visibility policy: a
// private owner's posts are only visible to the owner and accepted followers.
func (pc *PostController) GetUserPosts(c *gin.Context) {
	userID, ok := utils.ParseUintParam(c, "userId")
	if !ok {
		message(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	var owner models.User
	if err := pc.DB.First(&owner, userID).Error; err != nil {
		message(c, http.StatusNotFound, "User not found")
		return
	}

	allowed, err := pc.Visibility.CanView(c.Request.Context(), utils.ViewerID(c), owner.ID, owner.IsPrivate)
	if err != nil {
		message(c, http.StatusInternalServerError, "Error checking visibility")
		return
	}
	if !allowed {
		message(c, http.StatusForbidden, "Private account")
		return
	}

	page, pageSize := utils.ParsePagination(c, 20, 100)
	offset := (page - 1) * pageSize

	var posts []models.Post
	if err := pc.DB.Where("user_id = ?", owner.ID).
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&posts).Error; err != nil {
		message(c, http.StatusInternalServerError, "Error fetching posts")
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts, "page": page, "pageSize": pageSize})
}

// GetPostPreview is the trimmed lookup used for share cards. It goes through
// the same visibility policy as the full listing.
func (pc *PostController) GetPostPreview(c *gin.Context) {
	postID, ok := utils.ParseUintParam(c, "id")
	if !ok {
		message(c, http.StatusBadRequest, "Invalid post id")
		return
	}

	var post models.Post
	if err := pc.DB.Preload("User").First(&post, postID).Error; err != nil {
		message(c, http.StatusNotFound, "Post not found")
		return
	}

	allowed, err := pc.Visibility.CanView(c.Request.Context(), utils.ViewerID(c), post.UserID, post.User.IsPrivate)
	if err != nil {
		message(c, http.StatusInternalServerError, "Error checking visibility")
		return
	}
	if !allowed {
		message(c, http.StatusForbidden, "Private account")
		return
	}

	preview := gin.H{
		"id":        post.ID,
		"caption":   post.Caption,
		"createdAt": post.CreatedAt,
		"author":    post.User.Summary(),
	}
	if len(post.Media) > 0 {
		preview["image"] = post.Media[0]
	}

	c.JSON(http.StatusOK, gin.H{"preview": preview})
}

func (pc *PostController) DeletePost(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		message(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	postID, ok := utils.ParseUintParam(c, "id")
	if !ok {
		message(c, http.StatusBadRequest, "Invalid post id")
		return
	}

	var post models.Post
	if err := pc.DB.First(&post, postID).Error; err != nil {
		message(c, http.StatusNotFound, "Post not found")
		return
	}

	if post.UserID != claims.UserID && !claims.IsAdmin() {
		message(c, http.StatusForbidden, "Forbidden")
		return
	}

	if err := pc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	}); err != nil {
		message(c, http.StatusInternalServerError, "Failed to delete post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
