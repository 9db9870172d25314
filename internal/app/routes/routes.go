package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/controllers"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/middleware"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/metrics"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/websocket"
)

// Controllers groups every HTTP handler the router mounts
type Controllers struct {
	Auth         *controllers.AuthController
	Profile      *controllers.ProfileController
	Course       *controllers.CourseController
	Leaderboard  *controllers.LeaderboardController
	Achievement  *controllers.AchievementController
	Project      *controllers.ProjectController
	Subscription *controllers.SubscriptionController
	Quiz         *controllers.QuizController
	Health       *controllers.HealthController
}

// Options toggles the operational endpoints
type Options struct {
	MetricsEnabled bool
	MetricsPath    string
	// UploadsDir is served under /uploads when set
	UploadsDir string
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	c Controllers,
	wsHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
	opts Options,
) {
	if opts.MetricsEnabled {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.GET(path, metrics.Handler())
	}

	if opts.UploadsDir != "" {
		router.Static("/uploads", opts.UploadsDir)
	}

	router.GET("/ping", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})
	router.GET("/health", c.Health.Health)

	// API version group
	v1 := router.Group("/api/v1")
	v1.GET("/health", c.Health.Health)

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
	}

	v1.GET("/profiles/:id/public", c.Profile.GetPublicProfile)
	v1.GET("/profiles/:id/projects", c.Profile.GetUserProjects)
	v1.GET("/leaderboard", c.Leaderboard.GetLeaderboard)
	v1.GET("/projects/search", c.Project.Search)
	v1.GET("/quiz/questions", c.Quiz.Questions)

	subscription := v1.Group("/subscription")
	{
		subscription.POST("/subscribe", c.Subscription.Subscribe)
		subscription.POST("/unsubscribe", c.Subscription.Unsubscribe)
		subscription.GET("/status", c.Subscription.Status)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", c.Auth.Me)
		authenticated.GET("/ws", wsHandler.HandleConnection)

		profiles := authenticated.Group("/profiles/me")
		{
			profiles.GET("", c.Profile.GetMyProfile)
			profiles.PUT("", c.Profile.UpdateMyProfile)
			profiles.GET("/activity", c.Profile.GetMyActivity)
		}

		courses := authenticated.Group("/courses")
		{
			courses.GET("", c.Course.ListCourses)
			courses.GET("/me", c.Course.MyCourses)
			courses.GET("/:id", c.Course.GetCourse)
			courses.POST("/:id/enroll", c.Course.Enroll)
			courses.PUT("/:id/progress", c.Course.UpdateProgress)
			courses.POST("/:id/complete", c.Course.Complete)
		}

		authenticated.GET("/leaderboard/my-rank", c.Leaderboard.GetMyRank)

		achievements := authenticated.Group("/achievements")
		{
			achievements.GET("/me", c.Achievement.ListMine)
			achievements.GET("/templates", c.Achievement.ListTemplates)
			achievements.POST("/check", c.Achievement.Check)
		}

		projects := authenticated.Group("/projects")
		{
			projects.GET("/me", c.Project.ListMine)
			projects.POST("", c.Project.Create)
			projects.GET("/:id", c.Project.Get)
			projects.PUT("/:id", c.Project.Update)
			projects.DELETE("/:id", c.Project.Delete)
			projects.POST("/:id/images", c.Project.UploadImage)
		}

		quiz := authenticated.Group("/quiz")
		{
			quiz.POST("/submit", c.Quiz.Submit)
			quiz.GET("/results/latest", c.Quiz.Latest)
		}

		// Talent search is limited to industry experts
		talent := authenticated.Group("/talent")
		talent.Use(authMiddleware.RoleRequired(string(models.RoleIndustryExpert)))
		{
			talent.GET("", c.Profile.SearchTalent)
		}
	}
}
