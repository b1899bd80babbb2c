// Package review holds property and landlord review endpoints
package review

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type reviewBody struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (b *reviewBody) validate() string {
	if b.Rating < 1 || b.Rating > 5 {
		return "Rating must be between 1 and 5"
	}

	return ""
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}

	return uint(id), true
}

func isDuplicate(err error) bool {
	// gorm surfaces unique violations differently per driver, the
	// shared ErrDuplicatedKey covers both we support
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
