package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gymfluence/api-go/models"
	"github.com/gymfluence/api-go/services"
	"github.com/gymfluence/api-go/utils"
)

type InteractionController struct {
	DB         *gorm.DB
	Visibility *services.VisibilityPolicy
}

func NewInteractionController(db *gorm.DB, visibility *services.VisibilityPolicy) *InteractionController {
	return &InteractionController{DB: db, Visibility: visibility}
}

// LikePost toggles the like for the principal on a post.
func (ic *InteractionController) LikePost(c *gin.Context) {
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
	if err := ic.DB.First(&post, postID).Error; err != nil {
		message(c, http.StatusNotFound, "Post not found")
		return
	}

	var existingLike models.Like
	result := ic.DB.Where("post_id = ? AND user_id = ?", post.ID, claims.UserID).First(&existingLike)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		like := models.Like{
			UserID:    claims.UserID,
			PostID:    post.ID,
			CreatedAt: time.Now(),
		}
		if err := ic.DB.Create(&like).Error; err != nil {
			message(c, http.StatusInternalServerError, "Failed to like post")
			return
		}
		c.JSON(http.StatusOK, gin.H{"liked": true})
		return
	}

	if err := ic.DB.Delete(&existingLike).Error; err != nil {
		message(c, http.StatusInternalServerError, "Failed to unlike post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": false})
}

func (ic *InteractionController) CreateComment(c *gin.Context) {
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

	var input struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		message(c, http.StatusBadRequest, err.Error())
		return
	}

	var post models.Post
	if err := ic.DB.First(&post, postID).Error; err != nil {
		message(c, http.StatusNotFound, "Post not found")
		return
	}

	comment := models.Comment{
		Content: input.Content,
		UserID:  claims.UserID,
		PostID:  post.ID,
	}
	if err := ic.DB.Create(&comment).Error; err != nil {
		message(c, http.StatusInternalServerError, "Failed to create comment")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "comment": comment})
}

// GetComments lists a post's comments. Comments are owner-scoped content, so
// the read goes through the same visibility policy as the post itself.
func (ic *InteractionController) GetComments(c *gin.Context) {
	postID, ok := utils.ParseUintParam(c, "id")
	if !ok {
		message(c, http.StatusBadRequest, "Invalid post id")
		return
	}

	var post models.Post
	if err := ic.DB.Preload("User").First(&post, postID).Error; err != nil {
		message(c, http.StatusNotFound, "Post not found")
		return
	}

	allowed, err := ic.Visibility.CanView(c.Request.Context(), utils.ViewerID(c), post.UserID, post.User.IsPrivate)
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

	var comments []struct {
		ID        uint      `json:"id"`
		Content   string    `json:"content"`
		CreatedAt time.Time `json:"created_at"`
		UserID    uint      `json:"user_id"`
		Username  string    `json:"username"`
		Image     string    `json:"image"`
	}

	if err := ic.DB.Model(&models.Comment{}).
		Select("comments.id, comments.content, comments.created_at, users.id as user_id, users.username, users.image").
		Joins("JOIN users ON users.id = comments.user_id").
		Where("comments.post_id = ?", postID).
		Order("comments.created_at ASC").
		Offset(offset).
		Limit(pageSize).
		Scan(&comments).Error; err != nil {
		message(c, http.StatusInternalServerError, "Error fetching comments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments, "page": page, "pageSize": pageSize})
}

func (ic *InteractionController) DeleteComment(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		message(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	commentID, ok := utils.ParseUintParam(c, "id")
	if !ok {
		message(c, http.StatusBadRequest, "Invalid comment id")
		return
	}

	var comment models.Comment
	if err := ic.DB.First(&comment, commentID).Error; err != nil {
		message(c, http.StatusNotFound, "Comment not found")
		return
	}

	if comment.UserID != claims.UserID && !claims.IsAdmin() {
		message(c, http.StatusForbidden, "Forbidden")
		return
	}

	if err := ic.DB.Delete(&comment).Error; err != nil {
		message(c, http.StatusInternalServerError, "Failed to delete comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
