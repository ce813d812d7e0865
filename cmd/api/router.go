package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authDelivery "taskly-backend/internal/auth/delivery"
	authUsecase "taskly-backend/internal/auth/usecase"
	categoryDelivery "taskly-backend/internal/category/delivery"
	categoryUsecase "taskly-backend/internal/category/usecase"
	taskDelivery "taskly-backend/internal/task/delivery"
	taskUsecase "taskly-backend/internal/task/usecase"
)

func SetupRoutes(r *gin.Engine, authUc authUsecase.AuthUsecase, taskUc taskUsecase.TaskUsecase, categoryUc categoryUsecase.CategoryUsecase) {
	authHandler := authDelivery.NewAuthHandler(authUc)
	taskHandler := taskDelivery.NewTaskHandler(taskUc)
	categoryHandler := categoryDelivery.NewCategoryHandler(categoryUc)

	sessionAuth := authDelivery.AuthMiddleware(authUc)
	adminAuth := authDelivery.AdminMiddleware(authUc)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", sessionAuth, authHandler.Logout)
			auth.POST("/profile-picture", sessionAuth, authHandler.UploadProfilePicture)
			auth.POST("/change-password", sessionAuth, authHandler.ChangePassword)
			auth.POST("/delete-account", sessionAuth, authHandler.DeleteAccount)

			// User administration
			auth.GET("/users", adminAuth, authHandler.GetUsers)
			auth.PUT("/users/:id", adminAuth, authHandler.UpdateUser)
			auth.DELETE("/users/:id", adminAuth, authHandler.DeleteUser)
			auth.PUT("/users/:id/role", adminAuth, authHandler.UpdateUserRole)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(sessionAuth)
		{
			tasks.GET("", taskHandler.GetTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/categories", taskHandler.GetCategories)
			tasks.GET("/admin/all", adminAuth, taskHandler.GetAllTasks)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		// Category catalog routes
		categories := api.Group("/categories")
		{
			categories.GET("", sessionAuth, categoryHandler.GetCategories)
			categories.POST("", adminAuth, categoryHandler.CreateCategory)
			categories.PUT("/:id", adminAuth, categoryHandler.UpdateCategory)
			categories.DELETE("/:id", adminAuth, categoryHandler.DeleteCategory)
		}
	}
}
