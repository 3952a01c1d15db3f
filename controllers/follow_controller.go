package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gymfluence/api-go/services"
	"github.com/gymfluence/api-go/utils"
)

type FollowController struct {
	Follows *services.FollowService
}

func NewFollowController(follows *services.FollowService) *FollowController {
	return &FollowController{Follows: follows}
}

// GetFollowState returns the target's counts and the viewer-relative
// isFollowing flag. Auth is optional: anonymous viewers get isFollowing=false.
func (fc *FollowController) GetFollowState(c *gin.Context) {
	targetID, ok := utils.ParseUintParam(c, "targetId")
	if !ok {
		message(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	state, err := fc.Follows.GetFollowState(c.Request.Context(), utils.ViewerID(c), targetID)
	if err != nil {
		message(c, http.StatusInternalServerError, "Error fetching follow state")
		return
	}

	c.JSON(http.StatusOK, state)
}

// Follow applies a follow/unfollow/toggle mutation from the principal to the
// target and returns the resulting state.
func (fc *FollowController) Follow(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		message(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	targetID, ok := utils.ParseUintParam(c, "targetId")
	if !ok {
		message(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	// Body is optional; no action means toggle.
	var input struct {
		Action string `json:"action"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			message(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	state, err := fc.Follows.SetFollowState(c.Request.Context(), claims.UserID, targetID, input.Action)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSelfFollow):
			message(c, http.StatusBadRequest, "Cannot follow yourself")
		case errors.Is(err, services.ErrUserNotFound):
			message(c, http.StatusNotFound, "User not found")
		case errors.Is(err, services.ErrInvalidAction):
			message(c, http.StatusBadRequest, "Invalid action")
		default:
			message(c, http.StatusInternalServerError, "Error updating follow state")
		}
		return
	}

	c.JSON(http.StatusOK, state)
}

// GetFollowers lists a user's accepted followers. Public endpoint.
func (fc *FollowController) GetFollowers(c *gin.Context) {
	userID, ok := utils.ParseUintParam(c, "userId")
	if !ok {
		message(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	page, pageSize := utils.ParsePagination(c, 20, 100)
	users, err := fc.Follows.ListFollowers(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		message(c, http.StatusInternalServerError, "Error fetching followers")
		return
	}

	c.JSON(http.StatusOK, gin.H{"followers": users, "page": page, "pageSize": pageSize})
}

// GetFollowing lists the users a user follows. Public endpoint.
func (fc *FollowController) GetFollowing(c *gin.Context) {
	userID, ok := utils.ParseUintParam(c, "userId")
	if !ok {
		message(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	page, pageSize := utils.ParsePagination(c, 20, 100)
	users, err := fc.Follows.ListFollowing(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		message(c, http.StatusInternalServerError, "Error fetching following users")
		return
	}

	c.JSON(http.StatusOK, gin.H{"following": users, "page": page, "pageSize": pageSize})
}
