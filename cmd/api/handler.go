package api

import (
	"github.com/gin-gonic/gin"

	authUsecase "taskly-backend/internal/auth/usecase"
	categoryUsecase "taskly-backend/internal/category/usecase"
	taskUsecase "taskly-backend/internal/task/usecase"
	"taskly-backend/pkg/config"
)

type Handler struct {
	authUsecase     authUsecase.AuthUsecase
	taskUsecase     taskUsecase.TaskUsecase
	categoryUsecase categoryUsecase.CategoryUsecase
	config          *config.Config
}

func NewHandler(authUc authUsecase.AuthUsecase, taskUc taskUsecase.TaskUsecase, categoryUc categoryUsecase.CategoryUsecase, cfg *config.Config) *Handler {
	return &Handler{
		authUsecase:     authUc,
		taskUsecase:     taskUc,
		categoryUsecase: categoryUc,
		config:          cfg,
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.authUsecase, h.taskUsecase, h.categoryUsecase)

	return r.Run(addr)
}
