package routes

import (
	"net/http"
	"strings"

	adminapi "craftshare/internal/api/admin"
	authapi "craftshare/internal/api/auth"
	postsapi "craftshare/internal/api/posts"
	usersapi "craftshare/internal/api/users"
	"craftshare/internal/app/http/middleware"
	"craftshare/internal/domain/users"
	"craftshare/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	JWTSecret string
	Users     repository.UserRepository

	Auth   *authapi.Handler
	Google *authapi.Google // nil when Google sign-in is not configured
	Posts  *postsapi.Handler
	People *usersapi.Handler
	Admin  *adminapi.Handler

	Metrics  *middleware.Metrics
	Gatherer prometheus.Gatherer

	// MediaRoot is served under MediaURL when images live on local disk.
	MediaRoot string
	MediaURL  string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(middleware.RequestID(), middleware.Logger(), d.Metrics.Handler())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	if d.MediaRoot != "" {
		r.Static(strings.TrimSuffix(d.MediaURL, "/"), d.MediaRoot)
	}

	// Every content route resolves a policy viewer; a token is optional.
	public := r.Group("/")
	public.Use(
		middleware.OptionalAuth(d.JWTSecret),
		middleware.ResolveViewer(d.Users),
		middleware.SanitizeAndCleanInputMiddleware(),
	)

	public.POST("/signup", d.Auth.Signup)
	public.POST("/login", d.Auth.Login)
	public.POST("/token/refresh", d.Auth.Refresh)
	if d.Google != nil {
		public.GET("/auth/google", d.Google.Start)
		public.GET("/auth/google/callback", d.Google.Callback)
	}

	public.GET("/posts", d.Posts.List)
	public.GET("/posts/:id", d.Posts.Get)
	// create, or filter with action=filter
	public.POST("/posts", d.Posts.Create)
	public.GET("/categories", d.Posts.Categories)
	public.GET("/comments/:post_id", d.Posts.ListComments)

	public.GET("/profiles", d.People.ListProfiles)
	public.GET("/profile/:id", d.People.GetProfile)

	// Authenticated
	auth := r.Group("/")
	auth.Use(
		middleware.AuthMiddleware(d.JWTSecret),
		middleware.ResolveViewer(d.Users),
		middleware.SanitizeAndCleanInputMiddleware(),
	)
	auth.PUT("/posts/:id", d.Posts.Update)
	auth.DELETE("/post/delete-post/:id", d.Posts.Delete)

	auth.POST("/like/:post_id", d.Posts.Like)
	auth.DELETE("/like/:post_id", d.Posts.Unlike)
	auth.POST("/ratings/:post_id", d.Posts.Rate)
	auth.POST("/comments/:post_id", d.Posts.AddComment)
	auth.DELETE("/comments/:post_id/:comment_id", d.Posts.DeleteComment)

	auth.GET("/me", d.People.GetCurrentUser)
	auth.PUT("/me", d.People.UpdateCurrentUser)
	auth.POST("/change-password", d.Auth.ChangePassword)
	auth.DELETE("/delete-account", d.Auth.DeleteAccount)

	auth.POST("/follow/:user_id", d.People.Follow)
	auth.DELETE("/follow/:user_id", d.People.Unfollow)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(
		middleware.AuthMiddleware(d.JWTSecret),
		middleware.RequireRole(users.RoleAdmin),
		middleware.ResolveViewer(d.Users),
		middleware.SanitizeAndCleanInputMiddleware(),
	)
	admin.GET("/dashboard", adminapi.AdminDashboard)
	admin.GET("/users", d.Admin.ListAllUsers)
	admin.GET("/users/:id", d.Admin.GetUserDetails)
	admin.GET("/stats", d.Admin.GetAdminStats)
	admin.POST("/categories/:kind", d.Admin.AddCategory)
	admin.DELETE("/categories/:kind/:name", d.Admin.RemoveCategory)
}
