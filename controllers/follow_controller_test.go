package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/gymfluence/api-go/config"
	"github.com/gymfluence/api-go/models"
	"github.com/gymfluence/api-go/routes"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))

	r := gin.New()
	routes.SetupRoutes(r, db, zap.NewNop())
	return r, db
}

func seedUser(t *testing.T, db *gorm.DB, username string, private bool) *models.User {
	t.Helper()
	user := &models.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "hashed",
		Name:      username,
		IsPrivate: private,
		Role:      models.RoleUser,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func bearerToken(t *testing.T, user *models.User) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	require.NoError(t, err)
	return signed
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestFollowRequiresAuth(t *testing.T) {
	r, db := setupRouter(t)
	target := seedUser(t, db, "alice", false)

	w := doRequest(t, r, http.MethodPost, "/api/follow/"+itoa(target.ID), "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized", decodeBody(t, w)["message"])
}

func TestFollowSelfRejected(t *testing.T) {
	r, db := setupRouter(t)
	user := seedUser(t, db, "alice", false)

	w := doRequest(t, r, http.MethodPost, "/api/follow/"+itoa(user.ID), bearerToken(t, user), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cannot follow yourself", decodeBody(t, w)["message"])
}

func TestFollowUnknownTarget(t *testing.T) {
	r, db := setupRouter(t)
	user := seedUser(t, db, "alice", false)

	w := doRequest(t, r, http.MethodPost, "/api/follow/9999", bearerToken(t, user), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", decodeBody(t, w)["message"])
}

func TestFollowPublicTargetEndToEnd(t *testing.T) {
	r, db := setupRouter(t)
	alice := seedUser(t, db, "alice", false)
	bob := seedUser(t, db, "bob", false)

	w := doRequest(t, r, http.MethodPost, "/api/follow/"+itoa(alice.ID), bearerToken(t, bob),
		map[string]string{"action": "follow"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["followers"])
	assert.Equal(t, true, body["isFollowing"])

	// Anonymous follow-state shows the count but no viewer-relative flag.
	w = doRequest(t, r, http.MethodGet, "/api/follow-state/"+itoa(alice.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, float64(1), body["followers"])
	assert.Equal(t, false, body["isFollowing"])

	// Followers list is public.
	w = doRequest(t, r, http.MethodGet, "/api/followers/"+itoa(alice.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	followers := decodeBody(t, w)["followers"].([]interface{})
	require.Len(t, followers, 1)
	assert.Equal(t, "bob", followers[0].(map[string]interface{})["username"])
}

func TestPrivateAccountPostsLocked(t *testing.T) {
	r, db := setupRouter(t)
	owner := seedUser(t, db, "hermit", true)
	stranger := seedUser(t, db, "stranger", false)
	require.NoError(t, db.Create(&models.Post{Caption: "leg day", UserID: owner.ID}).Error)

	// Anonymous and non-follower viewers are rejected.
	w := doRequest(t, r, http.MethodGet, "/api/users/"+itoa(owner.ID)+"/posts", "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Private account", decodeBody(t, w)["message"])

	w = doRequest(t, r, http.MethodGet, "/api/users/"+itoa(owner.ID)+"/posts", bearerToken(t, stranger), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The owner always sees their own posts.
	w = doRequest(t, r, http.MethodGet, "/api/users/"+itoa(owner.ID)+"/posts", bearerToken(t, owner), nil)
	require.Equal(t, http.StatusOK, w.Code)
	posts := decodeBody(t, w)["posts"].([]interface{})
	assert.Len(t, posts, 1)
}

func TestPrivateAccountCommentsLocked(t *testing.T) {
	r, db := setupRouter(t)
	owner := seedUser(t, db, "hermit", true)
	stranger := seedUser(t, db, "stranger", false)
	post := models.Post{Caption: "leg day", UserID: owner.ID}
	require.NoError(t, db.Create(&post).Error)
	require.NoError(t, db.Create(&models.Comment{Content: "nice", UserID: owner.ID, PostID: post.ID}).Error)

	path := "/api/posts/" + itoa(post.ID) + "/comments"

	w := doRequest(t, r, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Private account", decodeBody(t, w)["message"])

	w = doRequest(t, r, http.MethodGet, path, bearerToken(t, stranger), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, r, http.MethodGet, path, bearerToken(t, owner), nil)
	require.Equal(t, http.StatusOK, w.Code)
	comments := decodeBody(t, w)["comments"].([]interface{})
	assert.Len(t, comments, 1)
}

func TestAcceptInvalidNotification(t *testing.T) {
	r, db := setupRouter(t)
	user := seedUser(t, db, "alice", false)

	w := doRequest(t, r, http.MethodPost, "/api/notifications/9999/accept", bearerToken(t, user), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid notification", decodeBody(t, w)["message"])
}

func TestPrivateFollowRequestLifecycle(t *testing.T) {
	r, db := setupRouter(t)
	owner := seedUser(t, db, "hermit", true)
	bob := seedUser(t, db, "bob", false)

	w := doRequest(t, r, http.MethodPost, "/api/follow/"+itoa(owner.ID), bearerToken(t, bob), nil)
	require.Equal(t, http.StatusOK, w.Code)
	// Pending edges do not count as followers.
	assert.Equal(t, float64(0), decodeBody(t, w)["followers"])

	w = doRequest(t, r, http.MethodGet, "/api/notifications", bearerToken(t, owner), nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decodeBody(t, w)["notifications"].([]interface{})
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, models.NotificationFollowRequest, item["type"])

	id := itoa(uint(item["id"].(float64)))
	w = doRequest(t, r, http.MethodPost, "/api/notifications/"+id+"/accept", bearerToken(t, owner), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/follow-state/"+itoa(owner.ID), bearerToken(t, bob), nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["followers"])
	assert.Equal(t, true, body["isFollowing"])
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
