package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "userhub/internal/app"
	"userhub/internal/bootstrap"
	"userhub/internal/cache"
	"userhub/internal/platform/rabbitmq"
	"userhub/internal/repository"
	"userhub/internal/transport/http/handler"
	"userhub/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.StaticFile("/", "web/login.html")
	router.StaticFile("/register", "web/register.html")
	router.StaticFile("/profile", "web/profile.html")
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.DB)
	profileCache := cache.NewProfileCache(
		app.Redis,
		time.Duration(app.Config.Redis.ProfileTTLSeconds)*time.Second,
	)

	var publisher appsvc.SignupPublisher
	if app.MQConn != nil {
		publisher = rabbitmq.NewEventPublisher(app.MQConn, app.Config.RabbitMQ.SignupQueue)
	}

	jwtTTL := time.Duration(app.Config.Auth.JWTExpireMinute) * time.Minute
	authService := appsvc.NewAuthService(userRepo, publisher, app.Config.Auth.JWTSecret, jwtTTL)
	profileService := appsvc.NewProfileService(userRepo, profileCache)

	cookieSecure := app.Config.App.Env == "production"
	authHandler := handler.NewAuthHandler(authService, app.Config.Auth.CookieName, jwtTTL, cookieSecure)
	profileHandler := handler.NewProfileHandler(profileService)

	v1 := router.Group("/api/v1")
	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	authGate := middleware.Auth(app.Config.Auth.JWTSecret, app.Config.Auth.CookieName)
	profileGroup := v1.Group("/profile")
	profileGroup.Use(authGate)
	profileGroup.GET("", profileHandler.Fetch)
	profileGroup.POST("", profileHandler.Update)

	return router
}
