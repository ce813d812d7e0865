package main

import (
	"context"
	"log"

	api "taskly-backend/cmd/api"
	authRepo "taskly-backend/internal/auth/repository"
	authUsecase "taskly-backend/internal/auth/usecase"
	categoryRepo "taskly-backend/internal/category/repository"
	categoryUsecase "taskly-backend/internal/category/usecase"
	taskRepo "taskly-backend/internal/task/repository"
	taskUsecase "taskly-backend/internal/task/usecase"
	"taskly-backend/pkg/config"
	"taskly-backend/pkg/firebase"
	"taskly-backend/pkg/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()

	ctx := context.Background()

	// Initialize Firebase (auth, Firestore, storage bucket)
	fb, err := firebase.NewApp(ctx, cfg.FirebaseProjectID, cfg.StorageBucket, cfg.FirebaseCredentials)
	if err != nil {
		log.Fatal("Failed to initialize Firebase:", err)
	}
	defer fb.Close()

	identity := firebase.NewIdentity(fb.Auth)
	store := storage.New(fb.Bucket, cfg.StorageBucket)

	// Initialize repositories (dependency injection)
	userRepository := authRepo.NewUserRepository(fb.Firestore)
	adminRepository := authRepo.NewAdminRepository(fb.Firestore)
	sessionRepository := authRepo.NewSessionRepository(fb.Firestore)
	taskRepository := taskRepo.NewTaskRepository(fb.Firestore)
	statsRepository := taskRepo.NewCategoryStatsRepository(fb.Firestore)
	categoryRepository := categoryRepo.NewCategoryRepository(fb.Firestore)

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepository, adminRepository, sessionRepository, taskRepository, identity, store, cfg)
	taskUsecaseInstance := taskUsecase.NewTaskUsecase(taskRepository, statsRepository, userRepository, store)
	categoryUsecaseInstance := categoryUsecase.NewCategoryUsecase(categoryRepository)

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, taskUsecaseInstance, categoryUsecaseInstance, cfg)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
