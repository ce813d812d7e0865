package usecase

import (
	"context"
	"log"
	"sort"

	authrepo "taskly-backend/internal/auth/repository"
	"taskly-backend/internal/task/domain"
	"taskly-backend/internal/task/repository"
	"taskly-backend/pkg/storage"
)

// taskUsecase implements TaskUsecase.
//
// The task document is the primary write; the owner's task counter and the
// category side-table are independent best-effort follow-ups. A failed
// follow-up is logged and swallowed, never rolled back.
type taskUsecase struct {
	taskRepo  repository.TaskRepository
	statsRepo repository.CategoryStatsRepository
	userRepo  authrepo.UserRepository
	storage   ObjectStorage
}

func NewTaskUsecase(taskRepo repository.TaskRepository, statsRepo repository.CategoryStatsRepository, userRepo authrepo.UserRepository, store ObjectStorage) TaskUsecase {
	return &taskUsecase{
		taskRepo:  taskRepo,
		statsRepo: statsRepo,
		userRepo:  userRepo,
		storage:   store,
	}
}

func (u *taskUsecase) CreateTask(ctx context.Context, userID string, in CreateTaskInput) (*domain.Task, error) {
	if in.Title == "" {
		return nil, domain.ErrTitleRequired
	}

	task := &domain.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      domain.StatusPending,
		UserID:      userID,
		Category:    in.Category,
		Urgency:     in.Urgency,
		DueDate:     in.DueDate,
	}
	if task.Category == "" {
		task.Category = domain.DefaultCategory
	}
	if task.Urgency == "" {
		task.Urgency = domain.UrgencyMedium
	}

	// Attachment failure never blocks task creation.
	if in.Image != nil && in.Image.Filename != "" {
		objectPath := storage.ObjectName(storage.TaskImagePrefix, userID, in.Image.Filename)
		url, err := u.storage.UploadPublic(ctx, objectPath, in.Image.Reader)
		if err != nil {
			log.Printf("[Tasks] Image upload failed, creating task without image: %v", err)
		} else {
			task.ImageURL = url
		}
	}

	if _, err := u.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	if err := u.userRepo.AdjustTaskCount(ctx, userID, 1); err != nil {
		log.Printf("[Tasks] Failed to increment task count for user %s: %v", userID, err)
	}
	if err := u.statsRepo.AddTask(ctx, task.Category, task.ID); err != nil {
		log.Printf("[Tasks] Failed to add task %s to category %q: %v", task.ID, task.Category, err)
	}

	return task, nil
}

func (u *taskUsecase) GetTask(ctx context.Context, userID string, isAdmin bool, taskID string) (*domain.Task, error) {
	task, err := u.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}
	if task.UserID != userID && !isAdmin {
		return nil, domain.ErrForbidden
	}
	return task, nil
}

func (u *taskUsecase) ListUserTasks(ctx context.Context, userID, category, status string) ([]*domain.Task, error) {
	return u.taskRepo.FindByUser(ctx, userID, category, status)
}

func (u *taskUsecase) UpdateTask(ctx context.Context, userID string, isAdmin bool, taskID string, in UpdateTaskInput) (*domain.Task, error) {
	task, err := u.GetTask(ctx, userID, isAdmin, taskID)
	if err != nil {
		return nil, err
	}

	oldCategory := task.Category
	if oldCategory == "" {
		oldCategory = domain.DefaultCategory
	}

	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Status != nil {
		next := domain.Status(*in.Status)
		if !domain.ValidStatus(next) {
			return nil, domain.ErrInvalidStatus
		}
		task.Status = next
	}
	if in.Category != nil && *in.Category != "" {
		task.Category = *in.Category
	}
	if in.Urgency != nil {
		task.Urgency = *in.Urgency
	}
	if in.DueDate != nil {
		task.DueDate = *in.DueDate
	}

	if in.Image != nil && in.Image.Filename != "" {
		// Best-effort removal of the replaced attachment.
		if task.ImageURL != "" {
			if err := u.storage.DeleteByURL(ctx, task.ImageURL); err != nil {
				log.Printf("[Tasks] Failed to delete old image for task %s: %v", taskID, err)
			}
		}
		objectPath := storage.ObjectName(storage.TaskImagePrefix, task.UserID, in.Image.Filename)
		url, err := u.storage.UploadPublic(ctx, objectPath, in.Image.Reader)
		if err != nil {
			log.Printf("[Tasks] Image upload failed, updating task without image: %v", err)
		} else {
			task.ImageURL = url
		}
	}

	if err := u.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}

	if task.Category != oldCategory {
		if err := u.statsRepo.RemoveTask(ctx, oldCategory, task.ID); err != nil {
			log.Printf("[Tasks] Failed to remove task %s from category %q: %v", task.ID, oldCategory, err)
		}
		if err := u.statsRepo.AddTask(ctx, task.Category, task.ID); err != nil {
			log.Printf("[Tasks] Failed to add task %s to category %q: %v", task.ID, task.Category, err)
		}
	}

	return task, nil
}

func (u *taskUsecase) DeleteTask(ctx context.Context, userID string, isAdmin bool, taskID string) error {
	task, err := u.GetTask(ctx, userID, isAdmin, taskID)
	if err != nil {
		return err
	}

	if task.ImageURL != "" {
		if err := u.storage.DeleteByURL(ctx, task.ImageURL); err != nil {
			log.Printf("[Tasks] Failed to delete image for task %s: %v", taskID, err)
		}
	}

	if err := u.taskRepo.Delete(ctx, taskID); err != nil {
		return err
	}

	if err := u.userRepo.AdjustTaskCount(ctx, task.UserID, -1); err != nil {
		log.Printf("[Tasks] Failed to decrement task count for user %s: %v", task.UserID, err)
	}

	category := task.Category
	if category == "" {
		category = domain.DefaultCategory
	}
	if err := u.statsRepo.RemoveTask(ctx, category, taskID); err != nil {
		log.Printf("[Tasks] Failed to remove task %s from category %q: %v", taskID, category, err)
	}

	return nil
}

func (u *taskUsecase) ListCategoryStats(ctx context.Context) ([]*domain.CategoryStat, error) {
	stats, err := u.statsRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].TaskCount > stats[j].TaskCount
	})
	return stats, nil
}

func (u *taskUsecase) ListAllTasks(ctx context.Context) ([]*domain.TaskWithOwner, error) {
	tasks, err := u.taskRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	users, err := u.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	emails := make(map[string]string, len(users))
	for _, user := range users {
		emails[user.ID] = user.Email
	}

	annotated := make([]*domain.TaskWithOwner, 0, len(tasks))
	for _, task := range tasks {
		email, ok := emails[task.UserID]
		if !ok {
			email = "Unknown"
		}
		annotated = append(annotated, &domain.TaskWithOwner{Task: task, UserEmail: email})
	}
	return annotated, nil
}
