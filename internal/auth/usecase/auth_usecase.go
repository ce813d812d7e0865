package usecase

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taskly-backend/internal/auth/domain"
	"taskly-backend/internal/auth/dto"
	"taskly-backend/internal/auth/repository"
	taskrepo "taskly-backend/internal/task/repository"
	"taskly-backend/pkg/config"
	"taskly-backend/pkg/storage"
)

// authUsecase implements AuthUsecase.
type authUsecase struct {
	userRepo    repository.UserRepository
	adminRepo   repository.AdminRepository
	sessionRepo repository.SessionRepository
	taskRepo    taskrepo.TaskRepository
	identity    IdentityProvider
	storage     ObjectStorage
	config      *config.Config
}

func NewAuthUsecase(
	userRepo repository.UserRepository,
	adminRepo repository.AdminRepository,
	sessionRepo repository.SessionRepository,
	taskRepo taskrepo.TaskRepository,
	identity IdentityProvider,
	store ObjectStorage,
	cfg *config.Config,
) AuthUsecase {
	return &authUsecase{
		userRepo:    userRepo,
		adminRepo:   adminRepo,
		sessionRepo: sessionRepo,
		taskRepo:    taskRepo,
		identity:    identity,
		storage:     store,
		config:      cfg,
	}
}

func (u *authUsecase) Register(ctx context.Context, email, password string) (string, error) {
	uid, err := u.identity.CreateUser(ctx, email, password)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	user := &domain.User{
		ID:         uid,
		Email:      email,
		TaskCount:  0,
		LastActive: time.Now(),
	}
	if err := u.userRepo.Save(ctx, user); err != nil {
		return "", err
	}
	return uid, nil
}

func (u *authUsecase) Login(ctx context.Context, idToken string) (*dto.LoginResponse, error) {
	uid, err := u.identity.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	user, err := u.userRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// First login: create the user document from the identity
		// provider's account data.
		email, err := u.identity.GetUserEmail(ctx, uid)
		if err != nil {
			return nil, err
		}
		user = &domain.User{
			ID:         uid,
			Email:      email,
			TaskCount:  0,
			LastActive: time.Now(),
		}
		if err := u.userRepo.Save(ctx, user); err != nil {
			return nil, err
		}
	} else {
		if err := u.userRepo.Update(ctx, uid, map[string]interface{}{
			"lastActive": time.Now(),
		}); err != nil {
			return nil, err
		}
	}

	admin, err := u.adminRepo.FindActiveByUserID(ctx, uid)
	if err != nil {
		return nil, err
	}
	isAdmin := admin != nil

	session := &domain.Session{
		UserID:    uid,
		IsAdmin:   isAdmin,
		ExpiresAt: time.Now().Add(u.config.SessionExpiry),
	}
	sessionID, err := u.sessionRepo.Create(ctx, session)
	if err != nil {
		return nil, err
	}

	token, err := u.signSessionToken(sessionID, uid)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Message: "Login successful",
		Token:   token,
		UserID:  uid,
		IsAdmin: isAdmin,
	}, nil
}

func (u *authUsecase) Logout(ctx context.Context, sessionID string) error {
	return u.sessionRepo.Delete(ctx, sessionID)
}

func (u *authUsecase) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	sessionID, err := u.parseSessionToken(token)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	session, err := u.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.Expired(time.Now()) {
		return nil, domain.ErrUnauthenticated
	}
	return session, nil
}

func (u *authUsecase) AuthorizeAdmin(ctx context.Context, token string) (*domain.Session, error) {
	session, err := u.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	if session.IsAdmin {
		return session, nil
	}

	admin, err := u.adminRepo.FindActiveByUserID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, domain.ErrForbidden
	}

	// Self-healing cache: the flag is set once and survives until logout,
	// even if the admin record is deactivated afterwards.
	if err := u.sessionRepo.SetAdmin(ctx, session.ID, true); err != nil {
		log.Printf("[Auth] Failed to cache admin flag on session %s: %v", session.ID, err)
	}
	session.IsAdmin = true
	return session, nil
}

func (u *authUsecase) UploadProfilePicture(ctx context.Context, userID, filename string, r io.Reader) (string, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", domain.ErrUserNotFound
	}

	objectPath := storage.ObjectName(storage.ProfilePhotoPrefix, userID, filename)
	publicURL, err := u.storage.UploadPublic(ctx, objectPath, r)
	if err != nil {
		return "", err
	}

	if user.ProfilePicture != "" {
		if err := u.storage.DeleteByURL(ctx, user.ProfilePicture); err != nil {
			log.Printf("[Auth] Failed to delete old profile picture for user %s: %v", userID, err)
		}
	}

	if err := u.userRepo.Update(ctx, userID, map[string]interface{}{
		"profilePicture": publicURL,
		"lastActive":     time.Now(),
	}); err != nil {
		return "", err
	}
	return publicURL, nil
}

func (u *authUsecase) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return fmt.Errorf("%w: current and new password required", domain.ErrValidation)
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}

	if err := u.identity.UpdatePassword(ctx, userID, newPassword); err != nil {
		return err
	}

	return u.userRepo.Update(ctx, userID, map[string]interface{}{
		"lastActive": time.Now(),
	})
}

func (u *authUsecase) DeleteAccount(ctx context.Context, session *domain.Session, password string) error {
	if password == "" {
		return fmt.Errorf("%w: password required for account deletion", domain.ErrValidation)
	}

	if err := u.deleteUserCascade(ctx, session.UserID); err != nil {
		return err
	}

	if err := u.sessionRepo.Delete(ctx, session.ID); err != nil {
		log.Printf("[Auth] Failed to delete session %s after account deletion: %v", session.ID, err)
	}
	return nil
}

func (u *authUsecase) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return u.userRepo.List(ctx)
}

func (u *authUsecase) SetLegacyAdminFlag(ctx context.Context, userID string, isAdmin bool) (*domain.User, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	if err := u.userRepo.Update(ctx, userID, map[string]interface{}{
		"is_admin":  isAdmin,
		"updatedAt": time.Now(),
	}); err != nil {
		return nil, err
	}
	return u.userRepo.FindByID(ctx, userID)
}

func (u *authUsecase) UpdateUserRole(ctx context.Context, grantedBy, userID string, isAdmin bool) error {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}

	active, err := u.adminRepo.FindActiveByUserID(ctx, userID)
	if err != nil {
		return err
	}

	switch {
	case isAdmin && active == nil:
		// Reactivate a prior grant when one exists, otherwise create one.
		existing, err := u.adminRepo.FindAnyByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if existing != nil {
			return u.adminRepo.SetActive(ctx, existing.ID, true)
		}
		_, err = u.adminRepo.Create(ctx, &domain.Admin{
			UserID:    userID,
			Active:    true,
			GrantedAt: time.Now(),
			GrantedBy: grantedBy,
		})
		return err
	case !isAdmin && active != nil:
		return u.adminRepo.SetActive(ctx, active.ID, false)
	}
	return nil
}

func (u *authUsecase) DeleteUser(ctx context.Context, adminUserID, userID string) error {
	if userID == adminUserID {
		return fmt.Errorf("%w: cannot delete your own account through admin interface", domain.ErrValidation)
	}
	return u.deleteUserCascade(ctx, userID)
}

// deleteUserCascade removes everything belonging to a user: the profile
// picture object, every owned task document and its image, the user
// document, and the identity-provider account. Object deletions are
// best-effort; document and account deletions are not.
func (u *authUsecase) deleteUserCascade(ctx context.Context, userID string) error {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}

	if user.ProfilePicture != "" {
		if err := u.storage.DeleteByURL(ctx, user.ProfilePicture); err != nil {
			log.Printf("[Auth] Failed to delete profile picture for user %s: %v", userID, err)
		}
	}

	tasks, err := u.taskRepo.FindByUser(ctx, userID, "", "")
	if err != nil {
		return err
	}
	for _, task := range tasks {
		if task.ImageURL != "" {
			if err := u.storage.DeleteByURL(ctx, task.ImageURL); err != nil {
				log.Printf("[Auth] Failed to delete image for task %s: %v", task.ID, err)
			}
		}
		if err := u.taskRepo.Delete(ctx, task.ID); err != nil {
			return err
		}
	}

	if err := u.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	return u.identity.DeleteUser(ctx, userID)
}

func (u *authUsecase) signSessionToken(sessionID, userID string) (string, error) {
	claims := jwt.MapClaims{
		"sid": sessionID,
		"uid": userID,
		"exp": time.Now().Add(u.config.SessionExpiry).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.SessionJWTSecret))
}

func (u *authUsecase) parseSessionToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(u.config.SessionJWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", domain.ErrUnauthenticated
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.ErrUnauthenticated
	}
	sessionID, ok := claims["sid"].(string)
	if !ok || sessionID == "" {
		return "", domain.ErrUnauthenticated
	}
	return sessionID, nil
}
