package account

import (
	"errors"
	"fmt"
	"net/http"

	"hously/rental-api/internal"
	"hously/rental-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VerifyEmail is the programmatic side of verification. Same logic as
// the link-click page, JSON answers instead of HTML.
func VerifyEmail(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	tokenID := c.Param("token")

	_, err := d.Verification.Verify(c.Request.Context(), tokenID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTokenExpired):
			zap.L().Warn("Expired token attempt", zap.String("requestID", requestID))

			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Verification link has expired. Please request a new one.",
				"requestID": requestID,
			})
		case errors.Is(err, service.ErrTokenInvalid):
			zap.L().Warn("Invalid token attempt", zap.String("requestID", requestID))

			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Invalid verification token",
				"requestID": requestID,
			})
		case errors.Is(err, service.ErrProfileMissing):
			zap.L().Error("User profile not found for token", zap.String("requestID", requestID))

			c.JSON(http.StatusNotFound, gin.H{
				"error":     "User profile not found",
				"requestID": requestID,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to verify token", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Email verified successfully",
		"requestID": requestID,
	})
}

// VerifyEmailPage handles the link from the mail itself, humans click
// these in a browser so the answer is a small HTML page
func VerifyEmailPage(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	tokenID := c.Param("token")

	user, err := d.Verification.Verify(c.Request.Context(), tokenID)
	if err != nil {
		var reason string

		switch {
		case errors.Is(err, service.ErrTokenExpired):
			reason = "This verification link has expired. Please request a new one."
		case errors.Is(err, service.ErrTokenInvalid), errors.Is(err, service.ErrProfileMissing):
			reason = "This verification link is invalid."
		default:
			reason = "Something went wrong on our side. Please try again later."
			zap.L().Error("Failed to verify token", zap.Error(err), zap.String("requestID", requestID))
		}

		c.Data(http.StatusBadRequest, "text/html; charset=utf-8", []byte(errorPage(reason)))
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(successPage(user.FirstName)))
}

func successPage(name string) string {
	if name == "" {
		name = "there"
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>Email verified</title></head>
<body>
<h1>Email verified</h1>
<p>Hello %s, your email address is now verified and you can log in.</p>
</body>
</html>`, name)
}

func errorPage(reason string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>Verification failed</title></head>
<body>
<h1>Verification failed</h1>
<p>%s</p>
</body>
</html>`, reason)
}
