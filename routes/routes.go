package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"coursebook/handlers"
	"coursebook/middleware"
)

// RegisterAuthRoutes registers the public registration and login
// endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/auth")
	{
		api.POST("/register", hb.Auth.Register)
		api.POST("/login", hb.Auth.Login)
	}
}

// RegisterBookingRoutes registers the booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/bookings")
	{
		api.Use(middleware.AuthRequired(hb.UserRepo))
		api.GET("", hb.Booking.List)
		api.GET("/:id", hb.Booking.Get)
		api.POST("/checkout", hb.Booking.Checkout)
		api.PUT("/:id/cancel", hb.Booking.Cancel)
	}
}

// RegisterMaterialRoutes registers the course-material endpoints.
func RegisterMaterialRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/materials")
	{
		api.Use(middleware.AuthRequired(hb.UserRepo))
		api.GET("/program/:programId", hb.Material.ListByProgram)
		api.GET("/download/:materialId", hb.Material.Download)
	}
}

// RegisterCatalogRoutes registers the public program listing endpoints.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/programs")
	{
		api.GET("", hb.Catalog.ListPrograms)
		api.GET("/:id", hb.Catalog.GetProgram)
	}
}

// RegisterAdminRoutes registers the catalog administration endpoints.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/admin")
	{
		api.Use(middleware.AuthRequired(hb.UserRepo))
		api.Use(middleware.RequireAdmin())
		api.POST("/programs", hb.Admin.CreateProgram)
		api.PUT("/programs/:id", hb.Admin.UpdateProgram)
		api.DELETE("/programs/:id", hb.Admin.DeleteProgram)
		api.POST("/programs/sessions", hb.Admin.CreateSession)
		api.POST("/programs/materials", hb.Admin.UploadMaterial)
		api.DELETE("/materials/:materialId", hb.Admin.DeleteMaterial)
		api.PUT("/bookings/:id/complete", hb.Booking.Complete)
	}
}

// RegisterUserRoutes registers the profile and credential endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/users")
	{
		api.Use(middleware.AuthRequired(hb.UserRepo))
		api.GET("/profile", hb.User.GetProfile)
		api.PUT("/profile", hb.User.UpdateProfile)
		api.PUT("/password", hb.User.ChangePassword)
	}
}

// RegisterPaymentRoutes registers the Stripe webhook endpoint. The
// webhook authenticates via its signature header, not a bearer token.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/payments/webhook", hb.Webhook.Handle)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterAuthRoutes(r, hb)
	RegisterCatalogRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterMaterialRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
}
