package app

import (
	"skillswap_backend/docs"
	"skillswap_backend/internal/config"
	"skillswap_backend/internal/middleware"
	"skillswap_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.Health)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
		public.GET("/skills", c.skill.GetSkills)
		public.GET("/skills/user/:userId", c.skill.GetUserSkills)
		public.GET("/profile/:userId", c.profile.GetProfile)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/me", c.auth.Me)

		authGroup.PUT("/profile", c.profile.UpdateProfile)
		authGroup.POST("/profile/avatar", c.profile.UploadAvatar)

		authGroup.POST("/skills/user", c.skill.AddUserSkill)
		authGroup.DELETE("/skills/user/:userSkillId", c.skill.RemoveUserSkill)

		authGroup.POST("/requests", c.mentorship.SendRequest)
		authGroup.GET("/requests/sent", c.mentorship.GetSentRequests)
		authGroup.GET("/requests/received", c.mentorship.GetReceivedRequests)
		authGroup.PUT("/requests/:requestId/accept", c.mentorship.AcceptRequest)
		authGroup.PUT("/requests/:requestId/decline", c.mentorship.DeclineRequest)
		authGroup.PUT("/requests/:requestId/complete", c.mentorship.CompleteRequest)

		authGroup.GET("/dashboard", c.dashboard.GetStats)
	}
}
