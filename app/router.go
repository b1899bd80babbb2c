// Package app contains all endpoints available
package app

import (
	"fmt"
	"strings"
	"time"

	"hously/rental-api/app/account"
	"hously/rental-api/app/favorite"
	"hously/rental-api/app/messaging"
	"hously/rental-api/app/property"
	"hously/rental-api/app/review"
	"hously/rental-api/aws"
	"hously/rental-api/db"
	"hously/rental-api/internal"
	"hously/rental-api/internal/model"
	"hously/rental-api/internal/service"
	"hously/rental-api/pkg/middleware"
	"hously/rental-api/pkg/security"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	ginzap "github.com/gin-contrib/zap"
	goredis "github.com/redis/go-redis/v9"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var store = persist.NewMemoryStore(time.Minute)

type API struct {
	Deps   *internal.Deps
	Router *gin.Engine
}

func NewRouter() (*API, error) {
	a := &API{
		Deps: &internal.Deps{},
	}

	database, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	a.Deps.DB = database

	makeLogger()

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     strings.Split(viper.GetString("host.cors"), ","),
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
		middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
			RequestsPerSecond: viper.GetInt("security.rate_limit"),
			Burst:             viper.GetInt("security.rate_limit") * 2,
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	router.MaxMultipartMemory = 10 << 20

	a.Deps.Argon = security.New()
	a.Deps.Mailer = service.SMTPMailer{}

	var limiter service.RateLimiter
	if viper.GetBool("redis.enabled") {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     viper.GetString("redis.addr"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		})

		limiter = service.NewRedisRateLimiter(rdb)
	} else {
		limiter = service.NewMemoryRateLimiter()
	}

	a.Deps.Verification = service.NewVerification(database, a.Deps.Mailer, limiter)

	if viper.GetString("storage.type") == "s3" {
		s3, err := aws.NewS3()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client, %w", err)
		}

		a.Deps.S3 = s3
	}

	jwt := middleware.NewJWTMiddleware(database)
	optionalJWT := middleware.NewOptionalJWTMiddleware()
	landlordOnly := middleware.RequireRole(database, model.RoleLandlord)
	tenantOnly := middleware.RequireRole(database, model.RoleTenant)

	d := a.Deps
	h := func(f func(*gin.Context, *internal.Deps)) gin.HandlerFunc {
		return func(c *gin.Context) { f(c, d) }
	}

	main := router.Group("/api")
	{
		// HEAD /api/heartbeat		-> Used to check if the server is alive
		main.HEAD("/heartbeat", a.Heartbeat)

		// HEAD /api/validate		-> Validates a JWT token
		main.HEAD("/validate", jwt, a.Validate)
	}

	accounts := main.Group("/accounts", middleware.BodySizeLimiter(1<<20))
	{
		// POST /api/accounts/register			-> Registers a new user
		accounts.POST("/register", h(account.Register))

		// POST /api/accounts/login			-> Logs in a user and returns JWT tokens
		accounts.POST("/login", h(account.Login))

		// POST /api/accounts/token/refresh		-> Exchanges a refresh token for a new access token
		accounts.POST("/token/refresh", h(account.Refresh))

		// POST /api/accounts/verify-email/:token	-> Redeems a verification token
		accounts.POST("/verify-email/:token", h(account.VerifyEmail))

		// GET /api/accounts/verify-email/:token	-> Browser-facing verification page
		accounts.GET("/verify-email/:token", h(account.VerifyEmailPage))

		// POST /api/accounts/resend-verification-email	-> Re-issues a verification mail
		accounts.POST("/resend-verification-email", h(account.ResendVerification))

		// GET /api/accounts/profile			-> Returns the caller's own profile
		accounts.GET("/profile", jwt, h(account.ProfileFetch))

		// PATCH /api/accounts/profile			-> Updates the caller's profile
		accounts.PATCH("/profile", jwt, h(account.ProfileUpdate))

		// GET /api/accounts/profile/:user_id		-> Public profile of any user
		accounts.GET("/profile/:user_id", cacheFor(30), h(account.ProfileDetail))
	}

	// GET /api/landlords				-> Public landlord directory
	main.GET("/landlords", cacheFor(30), h(account.LandlordList))

	landlords := main.Group("/landlords")
	{
		// GET /api/landlords/:id/reviews		-> Reviews left for a landlord
		landlords.GET("/:id/reviews", h(review.LandlordReviewList))

		// POST /api/landlords/:id/reviews		-> Leaves a review for a landlord
		landlords.POST("/:id/reviews", jwt, tenantOnly, h(review.LandlordReviewCreate))
	}

	properties := main.Group("/properties")
	{
		// GET /api/properties				-> Searchable public listing
		properties.GET("", h(property.List))

		// POST /api/properties				-> Creates a listing
		properties.POST("", jwt, landlordOnly, h(property.Create))

		// GET /api/properties/:id			-> Listing detail, counts a view
		properties.GET("/:id", optionalJWT, h(property.Fetch))

		// PUT /api/properties/:id			-> Edits an owned listing
		properties.PUT("/:id", jwt, landlordOnly, h(property.Edit))

		// DELETE /api/properties/:id			-> Deletes an owned listing
		properties.DELETE("/:id", jwt, landlordOnly, h(property.Delete))

		// POST /api/properties/:id/images		-> Uploads listing photos
		properties.POST("/:id/images", jwt, landlordOnly, middleware.BodySizeLimiter(25<<20), h(property.UploadImages))

		// GET /api/properties/:id/views		-> Raw view log, owner only
		properties.GET("/:id/views", jwt, landlordOnly, h(property.Views))

		// GET /api/properties/:id/reviews		-> Reviews for a property
		properties.GET("/:id/reviews", h(review.PropertyReviewList))

		// POST /api/properties/:id/reviews		-> Leaves a property review
		properties.POST("/:id/reviews", jwt, tenantOnly, h(review.PropertyReviewCreate))
	}

	// GET /api/my-properties			-> The caller's own listings
	main.GET("/my-properties", jwt, landlordOnly, h(property.Mine))

	favorites := main.Group("/favorites", jwt, tenantOnly)
	{
		// GET /api/favorites				-> The caller's saved properties
		favorites.GET("", h(favorite.List))

		// POST /api/favorites				-> Saves a property
		favorites.POST("", h(favorite.Create))

		// DELETE /api/favorites/:property_id		-> Removes a saved property
		favorites.DELETE("/:property_id", h(favorite.Delete))
	}

	conversations := main.Group("/conversations", jwt)
	{
		// GET /api/conversations			-> The caller's threads
		conversations.GET("", h(messaging.List))

		// GET /api/conversations/:id			-> Thread detail, marks messages read
		conversations.GET("/:id", h(messaging.Detail))

		// POST /api/conversations/:id/messages		-> Appends a message
		conversations.POST("/:id/messages", h(messaging.MessageCreate))
	}

	// POST /api/start-conversation			-> Tenant opens a thread about a property
	main.POST("/start-conversation", jwt, tenantOnly, h(messaging.Start))

	// GET /api/unread-count			-> Unread messages across all threads
	main.GET("/unread-count", jwt, h(messaging.UnreadCount))

	if viper.GetBool("verification.enabled") {
		service.TokenCleanup(24*time.Hour, database)
	}

	return a, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	if lvl, err := zapcore.ParseLevel(viper.GetString("app.log_level")); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
