package property

import (
	"net/http"
	"strconv"

	"hously/rental-api/internal"
	"hously/rental-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// orderings whitelists what clients may sort by, anything else falls
// back to newest-first
var orderings = map[string]string{
	"price":       "price ASC",
	"-price":      "price DESC",
	"created_at":  "created_at ASC",
	"-created_at": "created_at DESC",
	"bedrooms":    "bedrooms ASC",
	"-bedrooms":   "bedrooms DESC",
	"area_sqft":   "area_sqft ASC",
	"-area_sqft":  "area_sqft DESC",
}

// List is the public search endpoint over all properties
func List(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	q := applyFilters(d.DB.Model(&model.Property{}), c)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to count properties", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	order, ok := orderings[c.Query("ordering")]
	if !ok {
		order = "created_at DESC"
	}

	page, pageSize := pagination(c)

	var props []model.Property
	err := q.Order(order).
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Preload("Images").
		Find(&props).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list properties", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   total,
		"page":    page,
		"results": props,
	})
}

// Mine lists the calling landlord's own properties
func Mine(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var props []model.Property
	err := d.DB.Where("landlord_id = ?", userID).
		Order("created_at DESC").
		Preload("Images").
		Find(&props).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list own properties", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(props),
		"results": props,
	})
}

func applyFilters(q *gorm.DB, c *gin.Context) *gorm.DB {
	// Exact-match filters
	for param, column := range map[string]string{
		"property_type": "property_type",
		"status":        "status",
	} {
		if v := c.Query(param); v != "" {
			q = q.Where(column+" = ?", v)
		}
	}

	for param, column := range map[string]string{
		"bedrooms":  "bedrooms",
		"bathrooms": "bathrooms",
	} {
		if v := c.Query(param); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				q = q.Where(column+" = ?", n)
			}
		}
	}

	for param, column := range map[string]string{
		"furnished":    "furnished",
		"parking":      "parking",
		"pets_allowed": "pets_allowed",
	} {
		if v := c.Query(param); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				q = q.Where(column+" = ?", b)
			}
		}
	}

	if v := c.Query("min_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			q = q.Where("price >= ?", f)
		}
	}

	if v := c.Query("max_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			q = q.Where("price <= ?", f)
		}
	}

	if v := c.Query("location"); v != "" {
		like := "%" + v + "%"
		q = q.Where("location LIKE ? OR address LIKE ?", like, like)
	}

	if v := c.Query("search"); v != "" {
		like := "%" + v + "%"
		q = q.Where(
			"title LIKE ? OR location LIKE ? OR address LIKE ? OR description LIKE ?",
			like, like, like, like,
		)
	}

	return q
}

func pagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	return page, pageSize
}
