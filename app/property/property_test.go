package property

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
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))

	d := &internal.Deps{DB: conn}

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("requestID", "test")

		// Tests authenticate by header instead of running the full JWT
		// middleware stack
		if v := c.GetHeader("X-Test-User"); v != "" {
			c.Set("userID", v)
		}
	})

	h := func(f func(*gin.Context, *internal.Deps)) gin.HandlerFunc {
		return func(c *gin.Context) { f(c, d) }
	}

	router.GET("/api/properties", h(List))
	router.GET("/api/properties/:id", h(Fetch))
	router.POST("/api/properties", h(Create))
	router.PUT("/api/properties/:id", h(Edit))
	router.DELETE("/api/properties/:id", h(Delete))
	router.GET("/api/my-properties", h(Mine))

	return router, d
}

func seedLandlord(t *testing.T, d *internal.Deps, id string) {
	t.Helper()

	user := &model.User{
		ID:     id,
		Email:  id + "@example.com",
		Active: true,
		Profile: model.Profile{
			UserID: id,
			Role:   model.RoleLandlord,
		},
	}
	require.NoError(t, d.DB.Create(user).Error)
}

func seedProperty(t *testing.T, d *internal.Deps, p model.Property) model.Property {
	t.Helper()

	require.NoError(t, d.DB.Create(&p).Error)
	return p
}

type listResponse struct {
	Count   int64            `json:"count"`
	Results []model.Property `json:"results"`
}

func getList(t *testing.T, router *gin.Engine, query string) listResponse {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/properties"+query, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp listResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	return resp
}

func TestListFilters(t *testing.T) {
	router, d := setupTest(t)
	seedLandlord(t, d, "landlordA")

	seedProperty(t, d, model.Property{
		LandlordID: "landlordA", Title: "City flat", PropertyType: "apartment",
		Location: "Berlin", Price: 1200, Bedrooms: 2, Status: "available", Furnished: true,
	})
	seedProperty(t, d, model.Property{
		LandlordID: "landlordA", Title: "Suburban house", PropertyType: "house",
		Location: "Potsdam", Price: 2400, Bedrooms: 4, Status: "available", PetsAllowed: true,
	})
	seedProperty(t, d, model.Property{
		LandlordID: "landlordA", Title: "Tiny studio", PropertyType: "studio",
		Location: "Berlin", Price: 700, Bedrooms: 1, Status: "rented",
	})

	assert.EqualValues(t, 3, getList(t, router, "").Count)
	assert.EqualValues(t, 1, getList(t, router, "?property_type=house").Count)
	assert.EqualValues(t, 2, getList(t, router, "?status=available").Count)
	assert.EqualValues(t, 2, getList(t, router, "?location=Berlin").Count)
	assert.EqualValues(t, 1, getList(t, router, "?bedrooms=2").Count)
	assert.EqualValues(t, 1, getList(t, router, "?furnished=true").Count)
	assert.EqualValues(t, 2, getList(t, router, "?min_price=1000").Count)
	assert.EqualValues(t, 2, getList(t, router, "?max_price=1500").Count)
	assert.EqualValues(t, 1, getList(t, router, "?search=Suburban").Count)
	assert.EqualValues(t, 1, getList(t, router, "?min_price=1000&max_price=1500").Count)
}

func TestListOrdering(t *testing.T) {
	router, d := setupTest(t)
	seedLandlord(t, d, "landlordB")

	seedProperty(t, d, model.Property{LandlordID: "landlordB", Title: "Mid", Location: "X", Price: 1500})
	seedProperty(t, d, model.Property{LandlordID: "landlordB", Title: "Cheap", Location: "X", Price: 500})
	seedProperty(t, d, model.Property{LandlordID: "landlordB", Title: "Expensive", Location: "X", Price: 3000})

	resp := getList(t, router, "?ordering=price")
	require.Len(t, resp.Results, 3)
	assert.Equal(t, "Cheap", resp.Results[0].Title)
	assert.Equal(t, "Expensive", resp.Results[2].Title)

	resp = getList(t, router, "?ordering=-price")
	assert.Equal(t, "Expensive", resp.Results[0].Title)
}

func TestFetchTracksViews(t *testing.T) {
	router, d := setupTest(t)
	seedLandlord(t, d, "landlordC")

	prop := seedProperty(t, d, model.Property{LandlordID: "landlordC", Title: "Viewed", Location: "X", Price: 1000})

	// One anonymous view, one authenticated
	for _, user := range []string{"", "someTenant"} {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/properties/%d", prop.ID), nil)
		if user != "" {
			req.Header.Set("X-Test-User", user)
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}

	var views []model.PropertyView
	require.NoError(t, d.DB.Where("property_id = ?", prop.ID).Order("id ASC").Find(&views).Error)
	require.Len(t, views, 2)
	assert.Nil(t, views[0].ViewerID)
	require.NotNil(t, views[1].ViewerID)
	assert.Equal(t, "someTenant", *views[1].ViewerID)

	var profile model.Profile
	require.NoError(t, d.DB.Where("user_id = ?", "landlordC").First(&profile).Error)
	assert.Equal(t, 2, profile.TotalPropertyViews)
}

func TestEditRejectsNonOwner(t *testing.T) {
	router, d := setupTest(t)
	seedLandlord(t, d, "owner")
	seedLandlord(t, d, "intruder")

	prop := seedProperty(t, d, model.Property{LandlordID: "owner", Title: "Mine", Location: "X", Price: 900})

	body := strings.NewReader(`{"title":"Stolen","location":"X","price":900,"property_type":"apartment","status":"available"}`)
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/properties/%d", prop.ID), body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", "intruder")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

	var stored model.Property
	require.NoError(t, d.DB.Where("id = ?", prop.ID).First(&stored).Error)
	assert.Equal(t, "Mine", stored.Title)
}

func TestDeleteRemovesProperty(t *testing.T) {
	router, d := setupTest(t)
	seedLandlord(t, d, "remover")

	prop := seedProperty(t, d, model.Property{LandlordID: "remover", Title: "Doomed", Location: "X", Price: 800})

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/properties/%d", prop.ID), nil)
	req.Header.Set("X-Test-User", "remover")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var count int64
	require.NoError(t, d.DB.Model(&model.Property{}).Where("id = ?", prop.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestMineListsOnlyOwnProperties(t *testing.T) {
	router, d := setupTest(t)
	seedLandlord(t, d, "landlordX")
	seedLandlord(t, d, "landlordY")

	seedProperty(t, d, model.Property{LandlordID: "landlordX", Title: "X1", Location: "X", Price: 100})
	seedProperty(t, d, model.Property{LandlordID: "landlordX", Title: "X2", Location: "X", Price: 200})
	seedProperty(t, d, model.Property{LandlordID: "landlordY", Title: "Y1", Location: "Y", Price: 300})

	req := httptest.NewRequest(http.MethodGet, "/api/my-properties", nil)
	req.Header.Set("X-Test-User", "landlordX")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count   int              `json:"count"`
		Results []model.Property `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
}
