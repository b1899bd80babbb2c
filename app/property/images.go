package property

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"hously/rental-api/internal"
	"hously/rental-api/internal/model"
	"hously/rental-api/pkg/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UploadImages accepts a multipart form with one or more files under
// "images" and stores them in S3. The first image a property ever
// gets becomes its primary one.
func UploadImages(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	if d.S3 == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":     "Image uploads are disabled",
			"requestID": requestID,
		})
		return
	}

	prop, ok := fetchOwned(c, d, requestID)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid multipart form",
			"requestID": requestID,
		})
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No images provided",
			"requestID": requestID,
		})
		return
	}

	var hasPrimary bool
	d.DB.Model(&model.PropertyImage{}).
		Select("count(*) > 0").
		Where("property_id = ? AND is_primary = ?", prop.ID, true).
		Find(&hasPrimary)

	caption := c.PostForm("caption")

	uploaded := make([]model.PropertyImage, 0, len(files))

	for i, fh := range files {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Failed to read uploaded file",
				"requestID": requestID,
			})
			return
		}

		key := fmt.Sprintf("property_images/%d/%s%s", prop.ID, util.RandStr(10), filepath.Ext(fh.Filename))

		contentType := fh.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		err = d.S3.Upload(c.Request.Context(), key, contentType, f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to upload image to S3", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		img := model.PropertyImage{
			PropertyID: prop.ID,
			S3Key:      key,
			Caption:    caption,
			IsPrimary:  i == 0 && !hasPrimary,
			UploadedAt: time.Now(),
		}

		if err := d.DB.Create(&img).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to store image record", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		uploaded = append(uploaded, img)
	}

	c.JSON(http.StatusCreated, gin.H{
		"images": uploaded,
	})
}
