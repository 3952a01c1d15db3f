package utils

import (
	"github.com/gin-gonic/gin"

	"github.com/gymfluence/api-go/models"
)

// UserClaims is the principal resolved from a bearer token. Handlers never
// read the session themselves; the auth middleware puts this into the gin
// context and everything downstream receives explicit IDs.
type UserClaims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
}

func (u *UserClaims) IsAdmin() bool {
	return u.Role == models.RoleAdmin
}

type contextKey string

const UserContextKey contextKey = "user"

// GetUser returns the authenticated principal, or nil for anonymous requests.
func GetUser(c *gin.Context) *UserClaims {
	user, exists := c.Get(string(UserContextKey))
	if !exists {
		return nil
	}
	if claims, ok := user.(*UserClaims); ok {
		return claims
	}
	return nil
}

// ViewerID returns the principal's ID, or zero for anonymous requests.
func ViewerID(c *gin.Context) uint {
	if claims := GetUser(c); claims != nil {
		return claims.UserID
	}
	return 0
}
