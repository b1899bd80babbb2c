// Package account holds registration, login, verification and
// profile endpoints
package account

import (
	"errors"
	"fmt"
	"time"

	"hously/rental-api/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 30 * 24 * time.Hour
)

func parseRefreshToken(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}

		return []byte(viper.GetString("jwt.secret")), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("token invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("token invalid")
	}

	if typ, _ := claims["type"].(string); typ != "refresh" {
		return "", errors.New("token invalid")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", errors.New("token invalid")
	}

	return userID, nil
}

func makeToken(userID, typ string, ttl time.Duration) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"type":    typ,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(ttl).Unix(),
	})

	return t.SignedString([]byte(viper.GetString("jwt.secret")))
}

// userSummary is the shape registration and login answer with
func userSummary(u *model.User, p *model.Profile) gin.H {
	out := gin.H{
		"id":         u.ID,
		"email":      u.Email,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"is_active":  u.Active,
		"user_type":  p.Role,
		"profile_id": p.ID,
	}

	if p.Role == model.RoleLandlord {
		out["property_name"] = p.PropertyName
		out["years_experience"] = p.YearsExperience
	}

	return out
}
