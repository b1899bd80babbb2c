package messaging

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hously/rental-api/db"
	"hously/rental-api/internal"
	"hously/rental-api/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTest(t *testing.T) (*gin.Engine, *internal.Deps) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))

	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))

	d := &internal.Deps{DB: conn}

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("requestID", "test")

		if v := c.GetHeader("X-Test-User"); v != "" {
			c.Set("userID", v)
		}
	})

	h := func(f func(*gin.Context, *internal.Deps)) gin.HandlerFunc {
		return func(c *gin.Context) { f(c, d) }
	}

	router.GET("/api/conversations", h(List))
	router.GET("/api/conversations/:id", h(Detail))
	router.POST("/api/conversations/:id/messages", h(MessageCreate))
	router.POST("/api/start-conversation", h(Start))
	router.GET("/api/unread-count", h(UnreadCount))

	return router, d
}

func seed(t *testing.T, d *internal.Deps) model.Property {
	t.Helper()

	for id, role := range map[string]string{
		"landlord1": model.RoleLandlord,
		"tenant1":   model.RoleTenant,
		"tenant2":   model.RoleTenant,
	} {
		user := &model.User{
			ID:     id,
			Email:  id + "@example.com",
			Active: true,
			Profile: model.Profile{
				UserID: id,
				Role:   role,
			},
		}
		require.NoError(t, d.DB.Create(user).Error)
	}

	prop := model.Property{LandlordID: "landlord1", Title: "Flat", Location: "X", Price: 1000}
	require.NoError(t, d.DB.Create(&prop).Error)

	return prop
}

func do(t *testing.T, router *gin.Engine, method, path, user, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", user)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func startConversation(t *testing.T, router *gin.Engine, propID uint) uint {
	t.Helper()

	w := do(t, router, http.MethodPost, "/api/start-conversation", "tenant1",
		fmt.Sprintf(`{"property_id":%d,"message":"Is this still available?"}`, propID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Conversation model.Conversation `json:"conversation"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	return resp.Conversation.ID
}

func TestStartConversationCountsInquiry(t *testing.T) {
	router, d := setupTest(t)
	prop := seed(t, d)

	startConversation(t, router, prop.ID)

	var profile model.Profile
	require.NoError(t, d.DB.Where("user_id = ?", "landlord1").First(&profile).Error)
	assert.Equal(t, 1, profile.TotalInquiriesReceived)

	// A second message reuses the thread and is not a new inquiry
	w := do(t, router, http.MethodPost, "/api/start-conversation", "tenant1",
		fmt.Sprintf(`{"property_id":%d,"message":"Hello again"}`, prop.ID))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.NoError(t, d.DB.Where("user_id = ?", "landlord1").First(&profile).Error)
	assert.Equal(t, 1, profile.TotalInquiriesReceived)

	var convCount int64
	require.NoError(t, d.DB.Model(&model.Conversation{}).Count(&convCount).Error)
	assert.EqualValues(t, 1, convCount)
}

func TestStartConversationOwnProperty(t *testing.T) {
	router, d := setupTest(t)
	prop := seed(t, d)

	w := do(t, router, http.MethodPost, "/api/start-conversation", "landlord1",
		fmt.Sprintf(`{"property_id":%d,"message":"Hi me"}`, prop.ID))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConversationAccessControl(t *testing.T) {
	router, d := setupTest(t)
	prop := seed(t, d)

	convID := startConversation(t, router, prop.ID)

	// Both participants can open the thread
	for _, user := range []string{"tenant1", "landlord1"} {
		w := do(t, router, http.MethodGet, fmt.Sprintf("/api/conversations/%d", convID), user, "")
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	// A third party can't
	w := do(t, router, http.MethodGet, fmt.Sprintf("/api/conversations/%d", convID), "tenant2", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, router, http.MethodPost, fmt.Sprintf("/api/conversations/%d/messages", convID), "tenant2",
		`{"content":"let me in"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	router, d := setupTest(t)
	prop := seed(t, d)

	convID := startConversation(t, router, prop.ID)

	w := do(t, router, http.MethodPost, fmt.Sprintf("/api/conversations/%d/messages", convID), "tenant1",
		`{"content":"second message"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	// The landlord has two unread messages, the tenant none
	w = do(t, router, http.MethodGet, "/api/unread-count", "landlord1", "")
	assert.Contains(t, w.Body.String(), `"unread_count":2`)

	w = do(t, router, http.MethodGet, "/api/unread-count", "tenant1", "")
	assert.Contains(t, w.Body.String(), `"unread_count":0`)

	// Opening the thread marks them read
	w = do(t, router, http.MethodGet, fmt.Sprintf("/api/conversations/%d", convID), "landlord1", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodGet, "/api/unread-count", "landlord1", "")
	assert.Contains(t, w.Body.String(), `"unread_count":0`)
}

func TestConversationListOrder(t *testing.T) {
	router, d := setupTest(t)
	seed(t, d)

	prop2 := model.Property{LandlordID: "landlord1", Title: "Other", Location: "Y", Price: 2000}
	require.NoError(t, d.DB.Create(&prop2).Error)

	w := do(t, router, http.MethodGet, "/api/conversations", "tenant1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":0`)

	startConversation(t, router, prop2.ID)

	w = do(t, router, http.MethodGet, "/api/conversations", "tenant1", "")
	assert.Contains(t, w.Body.String(), `"count":1`)

	// The other tenant sees nothing
	w = do(t, router, http.MethodGet, "/api/conversations", "tenant2", "")
	assert.Contains(t, w.Body.String(), `"count":0`)
}
