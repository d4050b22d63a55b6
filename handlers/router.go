package handlers

import (
	"net/http"
	"time"

	"recipe-blog-cms/guard"
	"recipe-blog-cms/helper"
	"recipe-blog-cms/middleware"
	"recipe-blog-cms/services"

	"github.com/gin-gonic/gin"
)

type RouterOptions struct {
	// RateLimitPerMinute caps auth and newsletter requests per client IP.
	// Zero disables the limit.
	RateLimitPerMinute int
	Logging            bool
}

func NewRouter(reg *services.Registry, h *helper.HTTPHelper, opts RouterOptions) *gin.Engine {
	authHandler := NewAuthHandler(reg.Auth, h)
	recipeHandler := NewRecipeHandler(reg.Recipes, reg.Categories, reg.Tags, reg.Blog, h)
	commentHandler := NewCommentHandler(reg.Comments, h)
	newsletterHandler := NewNewsletterHandler(reg.Newsletter, h)
	adminHandler := NewAdminHandler(reg.Admin, h)

	router := gin.New()
	if opts.Logging {
		router.Use(gin.Logger())
	}
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())

	var limited gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if opts.RateLimitPerMinute > 0 {
		limited = middleware.RateLimit(opts.RateLimitPerMinute, time.Minute)
	}

	requireAuth := middleware.Guard(guard.Requirements{RequireAuth: true}, h)
	requireAdmin := middleware.Guard(guard.Requirements{RequireAuth: true, RequireAdmin: true}, h)
	requireProfile := middleware.RequireProfile(h)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Authenticate(reg.Auth, h))
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", limited, authHandler.Register)
			auth.POST("/login", limited, authHandler.Login)
			auth.POST("/logout", requireAuth, authHandler.Logout)
		}

		profile := v1.Group("/profile", requireAuth)
		{
			profile.GET("", authHandler.GetProfile)
			profile.PATCH("", requireProfile, authHandler.UpdateProfile)
			profile.POST("/setup", authHandler.SetupProfile)
		}

		recipes := v1.Group("/recipes")
		{
			recipes.GET("", recipeHandler.GetRecipes)
			recipes.GET("/:slug", recipeHandler.GetRecipe)
			recipes.GET("/:slug/comments", commentHandler.GetComments)
			recipes.POST("/:slug/comments", requireAuth, requireProfile, commentHandler.CreateComment)
		}
		v1.DELETE("/comments/:id", requireAuth, commentHandler.DeleteComment)

		v1.GET("/categories", recipeHandler.GetCategories)
		v1.GET("/categories/:slug", recipeHandler.GetCategory)
		v1.GET("/tags", recipeHandler.GetTags)
		v1.GET("/tags/:name", recipeHandler.GetTag)
		v1.GET("/posts", recipeHandler.GetPosts)
		v1.GET("/posts/:slug", recipeHandler.GetPost)

		newsletter := v1.Group("/newsletter", limited)
		{
			newsletter.POST("/subscribe", newsletterHandler.Subscribe)
			newsletter.POST("/unsubscribe", newsletterHandler.Unsubscribe)
		}

		admin := v1.Group("/admin", requireAdmin)
		{
			admin.GET("/stats", adminHandler.GetStats)
			admin.GET("/users", adminHandler.GetUsers)
			admin.POST("/users", adminHandler.CreateUser)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)
		}
	}

	return router
}
