package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gallery-backend/internal/shared/middleware"
	"gallery-backend/pkg/container"
)

// maxMultipartMemory: phần vượt quá được gin ghi ra file tạm
const maxMultipartMemory = 32 << 20

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = maxMultipartMemory

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.ClientIPMiddleware(),
		middleware.Logger(),
		middleware.Metrics(c.Metrics),
	)

	router.GET("/metrics", gin.WrapH(c.Metrics.Handler()))

	auth := middleware.AuthMiddleware(c.JWTManager, c.UserService)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupUserRoutes(v1, c, auth)
		setupGirlRoutes(v1, c, auth)
		setupPostRoutes(v1, c, auth)
	}

	return router
}

// ========================================
// USER ROUTES
// ========================================
func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	users := v1.Group("/users")
	{
		users.POST("/register", c.UserHandler.Register)
		users.POST("/login", c.UserHandler.Login)

		users.GET("/profile", auth, c.UserHandler.GetProfile)
		users.PUT("/update", auth, c.UserHandler.UpdateProfile)
		users.PUT("/deactivate", auth, c.UserHandler.Deactivate)
		users.PUT("/:id", auth, middleware.AdminMiddleware(), c.UserHandler.UpdateUser)
	}
}

// ========================================
// GIRL ROUTES
// ========================================
func setupGirlRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	girls := v1.Group("/girls")
	{
		girls.GET("", c.GirlHandler.List)
		girls.GET("/slug/:slug", c.GirlHandler.GetBySlug)

		girls.POST("", auth, c.GirlHandler.Create)
		girls.GET("/:id", auth, c.GirlHandler.GetByID)
		girls.PUT("/:id", auth, c.GirlHandler.Update)
		girls.DELETE("/:id", auth, c.GirlHandler.Delete)
	}
}

// ========================================
// POST ROUTES
// ========================================
func setupPostRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	posts := v1.Group("/posts")
	{
		posts.GET("", c.PostHandler.List)
		posts.GET("/:slug", c.PostHandler.GetBySlug)

		posts.POST("", auth, c.PostHandler.Create)
		posts.PUT("/:id", auth, c.PostHandler.Update)
		posts.PUT("/:id/delete-content", auth, c.PostHandler.DeleteContent)
		posts.DELETE("/:id", auth, c.PostHandler.Delete)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		components := c.HealthCheck(ctx.Request.Context())

		status, code := "healthy", http.StatusOK
		if components["database"] != "healthy" {
			status, code = "unhealthy", http.StatusServiceUnavailable
		}

		ctx.JSON(code, gin.H{
			"status":     status,
			"version":    c.Config.App.Version,
			"components": components,
		})
	}
}
