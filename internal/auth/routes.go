package auth

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all auth-related routes
func RegisterRoutes(
	router *gin.RouterGroup,
	handler *Handler,
	adminHandler *AdminHandler,
	middleware *Middleware,
) {
	auth := router.Group("/auth")
	{
		// Public routes
		auth.POST("/register", handler.Register)
		auth.POST("/login", handler.Login)
		auth.GET("/login/:provider", handler.OAuthLogin)
		auth.GET("/callback/:provider", handler.OAuthCallback)

		// Session-protected routes
		sessionProtected := auth.Group("")
		sessionProtected.Use(middleware.RequireSession())
		{
			sessionProtected.GET("/me", handler.Me)
			sessionProtected.POST("/logout", handler.Logout)
			sessionProtected.PATCH("/profile", handler.UpdateProfile)

			// Service token management (admin only)
			tokens := sessionProtected.Group("/tokens")
			tokens.Use(middleware.RequireRole(RoleAdmin))
			{
				tokens.GET("", handler.ListTokens)
				tokens.POST("", handler.CreateToken)
				tokens.DELETE("/:id", handler.RevokeToken)
			}
		}
	}

	// Admin routes
	admin := router.Group("/admin")
	admin.Use(middleware.RequireSession())
	admin.Use(middleware.RequireRole(RoleAdmin))
	{
		admin.GET("/users", adminHandler.ListUsers)
		admin.GET("/users/:id", adminHandler.GetUser)
		admin.PATCH("/users/:id", adminHandler.UpdateUser)
		admin.DELETE("/tokens/:id", adminHandler.RevokeToken)
	}
}
