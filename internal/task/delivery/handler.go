package delivery

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskly-backend/internal/task/domain"
	"taskly-backend/internal/task/usecase"
)

// TaskHandler serves the task lifecycle routes.
type TaskHandler struct {
	taskUsecase usecase.TaskUsecase
}

func NewTaskHandler(taskUsecase usecase.TaskUsecase) *TaskHandler {
	return &TaskHandler{taskUsecase: taskUsecase}
}

// GetTasks returns the caller's tasks.
// GET /api/tasks?category=Work&status=pending ("all" disables a filter)
func (h *TaskHandler) GetTasks(c *gin.Context) {
	userID := c.GetString("userID")

	tasks, err := h.taskUsecase.ListUserTasks(c.Request.Context(), userID, c.Query("category"), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

// CreateTask creates a task from a multipart form with an optional image.
// POST /api/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID := c.GetString("userID")

	in := usecase.CreateTaskInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
		Urgency:     c.PostForm("urgency"),
		DueDate:     c.PostForm("dueDate"),
	}

	image, file, err := formImage(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if file != nil {
		defer file.Close()
		in.Image = image
	}

	task, err := h.taskUsecase.CreateTask(c.Request.Context(), userID, in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// GetTask returns one task, owner or admin only.
// GET /api/tasks/:id
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID := c.GetString("userID")
	isAdmin := c.GetBool("isAdmin")

	task, err := h.taskUsecase.GetTask(c.Request.Context(), userID, isAdmin, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// UpdateTask applies a partial update from a multipart form.
// PUT /api/tasks/:id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID := c.GetString("userID")
	isAdmin := c.GetBool("isAdmin")

	in := usecase.UpdateTaskInput{
		Title:       formField(c, "title"),
		Description: formField(c, "description"),
		Status:      formField(c, "status"),
		Category:    formField(c, "category"),
		Urgency:     formField(c, "urgency"),
		DueDate:     formField(c, "dueDate"),
	}

	image, file, err := formImage(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if file != nil {
		defer file.Close()
		in.Image = image
	}

	task, err := h.taskUsecase.UpdateTask(c.Request.Context(), userID, isAdmin, c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask deletes a task and its attachment.
// DELETE /api/tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID := c.GetString("userID")
	isAdmin := c.GetBool("isAdmin")

	if err := h.taskUsecase.DeleteTask(c.Request.Context(), userID, isAdmin, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// GetCategories returns the category side-table, busiest first.
// GET /api/tasks/categories
func (h *TaskHandler) GetCategories(c *gin.Context) {
	stats, err := h.taskUsecase.ListCategoryStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	categories := make([]gin.H, 0, len(stats))
	for _, stat := range stats {
		categories = append(categories, gin.H{
			"id":          stat.Name,
			"name":        stat.Name,
			"taskCount":   stat.TaskCount,
			"lastUpdated": stat.LastUpdated,
		})
	}
	c.JSON(http.StatusOK, categories)
}

// GetAllTasks returns every task with its owner's email.
// GET /api/tasks/admin/all (admin)
func (h *TaskHandler) GetAllTasks(c *gin.Context) {
	tasks, err := h.taskUsecase.ListAllTasks(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if tasks == nil {
		tasks = []*domain.TaskWithOwner{}
	}
	c.JSON(http.StatusOK, tasks)
}

// formField returns a pointer to the form value, or nil when the field
// was not supplied at all.
func formField(c *gin.Context, name string) *string {
	if value, ok := c.GetPostForm(name); ok {
		return &value
	}
	return nil
}

// formImage opens the uploaded file for the given form field. A missing
// field or an empty filename means no image was supplied.
func formImage(c *gin.Context, field string) (*usecase.ImageUpload, multipart.File, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil || fileHeader.Filename == "" {
		return nil, nil, nil
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, nil, err
	}
	return &usecase.ImageUpload{Filename: fileHeader.Filename, Reader: file}, file, nil
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized access"})
	case errors.Is(err, domain.ErrTitleRequired), errors.Is(err, domain.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
