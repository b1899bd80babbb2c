package favorite

import (
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

	router.GET("/api/favorites", h(List))
	router.POST("/api/favorites", h(Create))
	router.DELETE("/api/favorites/:property_id", h(Delete))

	return router, d
}

func seed(t *testing.T, d *internal.Deps) model.Property {
	t.Helper()

	landlord := &model.User{
		ID:     "landlord1",
		Email:  "landlord1@example.com",
		Active: true,
		Profile: model.Profile{
			UserID: "landlord1",
			Role:   model.RoleLandlord,
		},
	}
	require.NoError(t, d.DB.Create(landlord).Error)

	tenant := &model.User{
		ID:     "tenant1",
		Email:  "tenant1@example.com",
		Active: true,
		Profile: model.Profile{
			UserID: "tenant1",
			Role:   model.RoleTenant,
		},
	}
	require.NoError(t, d.DB.Create(tenant).Error)

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

func TestFavoriteLifecycle(t *testing.T) {
	router, d := setupTest(t)
	prop := seed(t, d)

	body := fmt.Sprintf(`{"property_id":%d}`, prop.ID)

	w := do(t, router, http.MethodPost, "/api/favorites", "tenant1", body)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Saving again is a no-op, not an error
	w = do(t, router, http.MethodPost, "/api/favorites", "tenant1", body)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, router, http.MethodGet, "/api/favorites", "tenant1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)

	w = do(t, router, http.MethodDelete, fmt.Sprintf("/api/favorites/%d", prop.ID), "tenant1", "")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, router, http.MethodGet, "/api/favorites", "tenant1", "")
	assert.Contains(t, w.Body.String(), `"count":0`)
}

func TestFavoriteUnknownProperty(t *testing.T) {
	router, d := setupTest(t)
	seed(t, d)

	w := do(t, router, http.MethodPost, "/api/favorites", "tenant1", `{"property_id":9999}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFavoriteDeleteMissing(t *testing.T) {
	router, d := setupTest(t)
	prop := seed(t, d)

	w := do(t, router, http.MethodDelete, fmt.Sprintf("/api/favorites/%d", prop.ID), "tenant1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
