package controllers

import (
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gymfluence/api-go/models"
	"github.com/gymfluence/api-go/utils"
)

type AuthController struct {
	DB     *gorm.DB
	Mailer utils.EmailDispatcher
}

func NewAuthController(db *gorm.DB, mailer utils.EmailDispatcher) *AuthController {
	return &AuthController{DB: db, Mailer: mailer}
}

// validateUsernamePattern validates username format and constraints
func validateUsernamePattern(username string) error {
	trimmed := strings.TrimSpace(username)

	if len(trimmed) < 3 {
		return fmt.Errorf("username must be at least 3 characters long")
	}
	if len(trimmed) > 20 {
		return fmt.Errorf("username must be no more than 20 characters long")
	}

	validPattern, _ := regexp.MatchString(`^[a-zA-Z][a-zA-Z0-9_]*$`, trimmed)
	if !validPattern {
		return fmt.Errorf("username must start with a letter and contain only letters, numbers, and underscores")
	}

	reserved := []string{"admin", "root", "api", "www", "mail", "test", "demo", "user", "guest", "null", "undefined"}
	for _, word := range reserved {
		if strings.EqualFold(trimmed, word) {
			return fmt.Errorf("this username is reserved and cannot be used")
		}
	}

	return nil
}

func signAccessToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(7 * 24 * time.Hour).Unix(),
	})
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func signRefreshToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(30 * 24 * time.Hour).Unix(),
	})
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func (ac *AuthController) Register(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Name     string `json:"name" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		message(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := validateUsernamePattern(input.Username); err != nil {
		message(c, http.StatusBadRequest, err.Error())
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		message(c, http.StatusInternalServerError, "Could not hash password")
		return
	}

	user := models.User{
		Username: input.Username,
		Email:    strings.ToLower(input.Email),
		Password: string(hashedPassword),
		Name:     input.Name,
		Role:     models.RoleUser,
	}

	if err := ac.DB.Create(&user).Error; err != nil {
		message(c, http.StatusBadRequest, "Username or email already exists")
		return
	}

	token := models.VerificationToken{
		UserID:    user.ID,
		Token:     uuid.New().String(),
		Purpose:   models.TokenPurposeEmailVerify,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	if err := ac.DB.Create(&token).Error; err == nil {
		ac.Mailer.SendVerification(user.Email, token.Token)
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"name":     user.Name,
		},
	})
}

func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		message(c, http.StatusBadRequest, err.Error())
		return
	}

	var user models.User
	if err := ac.DB.Where("email = ?", strings.ToLower(input.Email)).First(&user).Error; err != nil {
		message(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		message(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	accessToken, err := signAccessToken(&user)
	if err != nil {
		message(c, http.StatusInternalServerError, "Could not generate token")
		return
	}
	refreshToken, err := signRefreshToken(&user)
	if err != nil {
		message(c, http.StatusInternalServerError, "Could not generate token")
		return
	}

	ac.DB.Create(&models.RefreshToken{
		UserID:         user.ID,
		Token:          refreshToken,
		ExpirationDate: time.Now().Add(30 * 24 * time.Hour),
	})

	c.JSON(http.StatusOK, gin.H{
		"token_type":    "Bearer",
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user":          user.Summary(),
	})
}

func (ac *AuthController) RefreshToken(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		message(c, http.StatusBadRequest, err.Error())
		return
	}

	var refreshToken models.RefreshToken
	if err := ac.DB.Where("token = ?", input.RefreshToken).First(&refreshToken).Error; err != nil {
		message(c, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	if time.Now().After(refreshToken.ExpirationDate) {
		ac.DB.Delete(&refreshToken)
		message(c, http.StatusUnauthorized, "Refresh token expired")
		return
	}

	var user models.User
	if err := ac.DB.First(&user, refreshToken.UserID).Error; err != nil {
		message(c, http.StatusUnauthorized, "User not found")
		return
	}

	accessToken, err := signAccessToken(&user)
	if err != nil {
		message(c, http.StatusInternalServerError, "Could not generate token")
		return
	}
	newRefreshToken, err := signRefreshToken(&user)
	if err != nil {
		message(c, http.StatusInternalServerError, "Could not generate token")
		return
	}

	refreshToken.Token = newRefreshToken
	refreshToken.ExpirationDate = time.Now().Add(30 * 24 * time.Hour)
	ac.DB.Save(&refreshToken)

	c.JSON(http.StatusOK, gin.H{
		"token_type":    "Bearer",
		"access_token":  accessToken,
		"refresh_token": newRefreshToken,
	})
}

func (ac *AuthController) Logout(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		message(c, http.StatusBadRequest, err.Error())
		return
	}

	ac.DB.Where("token = ?", input.RefreshToken).Delete(&models.RefreshToken{})
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (ac *AuthController) VerifyEmail(c *gin.Context) {
	var input struct {
		Token string `json:"token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		message(c, http.StatusBadRequest, err.Error())
		return
	}

	token, err := ac.consumeToken(input.Token, models.TokenPurposeEmailVerify)
	if err != nil {
		message(c, http.StatusBadRequest, "Invalid or expired token")
		return
	}

	ac.DB.Model(&models.User{}).Where("id = ?", token.UserID).Update("email_verified", true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (ac *AuthController) RequestPasswordReset(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		message(c, http.StatusBadRequest, err.Error())
		return
	}

	var user models.User
	if err := ac.DB.Where("email = ?", strings.ToLower(input.Email)).First(&user).Error; err == nil {
		token := models.VerificationToken{
			UserID:    user.ID,
			Token:     uuid.New().String(),
			Purpose:   models.TokenPurposePasswordReset,
			ExpiresAt: time.Now().Add(time.Hour),
		}
		if err := ac.DB.Create(&token).Error; err == nil {
			ac.Mailer.SendPasswordReset(user.Email, token.Token)
		}
	}

	// Same answer whether or not the account exists.
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (ac *AuthController) ResetPassword(c *gin.Context) {
	var input struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required,min=6"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		message(c, http.StatusBadRequest, err.Error())
		return
	}

	token, err := ac.consumeToken(input.Token, models.TokenPurposePasswordReset)
	if err != nil {
		message(c, http.StatusBadRequest, "Invalid or expired token")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		message(c, http.StatusInternalServerError, "Could not hash password")
		return
	}

	ac.DB.Model(&models.User{}).Where("id = ?", token.UserID).Update("password", string(hashedPassword))
	// Force re-login everywhere after a password change.
	ac.DB.Where("user_id = ?", token.UserID).Delete(&models.RefreshToken{})

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (ac *AuthController) consumeToken(raw, purpose string) (*models.VerificationToken, error) {
	var token models.VerificationToken
	err := ac.DB.Where("token = ? AND purpose = ? AND used_at IS NULL AND expires_at > ?",
		raw, purpose, time.Now()).First(&token).Error
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := ac.DB.Model(&token).Update("used_at", &now).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (ac *AuthController) GetProfile(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		message(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var user models.User
	if err := ac.DB.First(&user, claims.UserID).Error; err != nil {
		message(c, http.StatusNotFound, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (ac *AuthController) UpdateProfile(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		message(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input struct {
		Name  string `json:"name"`
		Bio   string `json:"bio"`
		Image string `json:"image"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		message(c, http.StatusBadRequest, err.Error())
		return
	}

	var user models.User
	if err := ac.DB.First(&user, claims.UserID).Error; err != nil {
		message(c, http.StatusNotFound, "User not found")
		return
	}

	updates := map[string]interface{}{
		"name":  input.Name,
		"bio":   input.Bio,
		"image": input.Image,
	}
	if err := ac.DB.Model(&user).Updates(updates).Error; err != nil {
		message(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// UpdatePrivacy flips the account's public/private flag. Existing accepted
// edges are left untouched; only future follows go through the request flow.
func (ac *AuthController) UpdatePrivacy(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		message(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input struct {
		IsPrivate *bool `json:"is_private" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		message(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := ac.DB.Model(&models.User{}).Where("id = ?", claims.UserID).
		Update("is_private", *input.IsPrivate).Error; err != nil {
		message(c, http.StatusInternalServerError, "Failed to update settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "is_private": *input.IsPrivate})
}
