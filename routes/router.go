package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"socialfeed/config"
	"socialfeed/controllers"
	"socialfeed/middleware"
	"socialfeed/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())

	// Access log and panic recovery go through zap instead of gin's console logger.
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", middleware.TokenHeader},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	userController := controllers.NewUserController(db)
	authController := controllers.NewAuthController(db)
	postController := controllers.NewPostController(db)

	api := r.Group("/api")

	// Credential issuance is rate limited; everything else behind the auth gate.
	public := api.Group("")
	public.Use(middleware.RateLimitMiddleware())
	public.POST("/users", userController.Register)
	public.POST("/auth", authController.Login)

	api.GET("/auth", middleware.AuthRequired(), authController.Me)

	posts := api.Group("/post")
	posts.Use(middleware.AuthRequired())
	posts.GET("", postController.ListPosts)
	posts.GET("/:id", postController.GetPost)

	// Mutations draw from the same per-IP bucket as credential issuance;
	// reads stay unmetered.
	mutate := posts.Group("")
	mutate.Use(middleware.RateLimitMiddleware())
	mutate.POST("", postController.CreatePost)
	mutate.DELETE("/:id", postController.DeletePost)
	mutate.PUT("/like/:id", postController.LikePost)
	mutate.PUT("/unlike/:id", postController.UnlikePost)
	mutate.POST("/comment/:id", postController.CreateComment)
	mutate.DELETE("/comment/:id/:comment_id", postController.DeleteComment)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Msg(ctx, http.StatusNotFound, "Route not found")
	})

	return r
}
