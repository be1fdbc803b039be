package routes

import (
	"research-cell-api/controllers"
	"research-cell-api/middleware"
	"research-cell-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/register", controllers.Register)
			public.GET("/verify-email", controllers.VerifyEmail)
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Research Cell API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// Session management
			protected.POST("/switch-role", controllers.SwitchRole)
			protected.POST("/refresh", controllers.RefreshToken)

			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Lookups (all authenticated users)
			protected.GET("/departments", controllers.GetDepartments)
			protected.GET("/research-domains", controllers.GetResearchDomains)

			// Notifications
			protected.GET("/notifications", controllers.GetNotifications)
			protected.PATCH("/notifications/:id/read", controllers.MarkNotificationRead)

			// Teams
			teams := protected.Group("/teams")
			{
				teams.GET("", controllers.GetTeams)
				teams.GET("/:id", controllers.GetTeam)

				// Only teachers create teams; membership rules gate the rest
				teams.POST("", middleware.RequireRole(models.RoleTeacher), controllers.CreateTeam)
				teams.PATCH("/:id/status", controllers.UpdateTeamStatus)
				teams.POST("/:id/add-members", controllers.AddTeamMembers)
				teams.GET("/:id/candidates", controllers.GetTeamCandidates)

				// Discussion
				teams.GET("/:id/comments", controllers.GetTeamComments)
				teams.POST("/:id/comments", controllers.CreateTeamComment)

				// Join requests
				teams.POST("/:id/apply", middleware.RequireRole(models.RoleStudent), controllers.ApplyToTeam)
				teams.GET("/:id/applications", controllers.GetTeamApplications)

				// Submissions
				teams.POST("/:id/papers", middleware.RequireRole(models.RoleTeacher), controllers.CreatePaper)
				teams.POST("/:id/proposals", controllers.CreateProposal)
				teams.GET("/:id/papers", controllers.GetTeamPapers)
				teams.GET("/:id/proposals", controllers.GetTeamProposals)
			}

			protected.PATCH("/applications/:id", controllers.DecideApplication)

			// Papers
			papers := protected.Group("/papers")
			{
				papers.GET("/:id", controllers.GetPaper)
				papers.DELETE("/:id", controllers.DeletePaper)
				papers.POST("/:id/resubmit", controllers.ResubmitPaper)
				papers.PATCH("/:id/assign-reviewer", middleware.RequireRole(models.RoleAdmin), controllers.AssignPaperReviewer)
			}

			// Proposals
			proposals := protected.Group("/proposals")
			{
				proposals.GET("/:id", controllers.GetProposal)
				proposals.DELETE("/:id", controllers.DeleteProposal)
				proposals.POST("/:id/resubmit", controllers.ResubmitProposal)
				proposals.POST("/:id/complete", controllers.CompleteProposal)
				proposals.PATCH("/:id/assign-reviewer", middleware.RequireRole(models.RoleAdmin), controllers.AssignProposalReviewer)
			}

			// Review queue (reviewer view role required)
			assignments := protected.Group("/assignments")
			assignments.Use(middleware.RequireRole(models.RoleReviewer))
			{
				assignments.GET("", controllers.GetMyAssignments)
				assignments.POST("/:id/review", controllers.SubmitReview)
			}

			// Documents
			protected.GET("/files/:id/download", controllers.DownloadFile)

			// Dashboard
			protected.GET("/dashboard/stats", controllers.GetDashboardStats)

			// Admin
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/stats", controllers.GetAdminStats)
				admin.GET("/submission-trends", controllers.GetSubmissionTrends)
				admin.GET("/status-distribution", controllers.GetStatusDistribution)
				admin.GET("/reviewer-workload", controllers.GetReviewerWorkload)

				admin.GET("/users", controllers.GetUsers)
				admin.PATCH("/users/:id/verify", controllers.VerifyUser)
				admin.PATCH("/users/:id/capabilities", controllers.UpdateUserCapabilities)

				admin.POST("/departments", controllers.CreateDepartment)
				admin.POST("/research-domains", controllers.CreateResearchDomain)
			}
		}
	}
}
