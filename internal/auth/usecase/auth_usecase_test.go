package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskly-backend/internal/auth/domain"
	"taskly-backend/internal/auth/usecase"
	taskdomain "taskly-backend/internal/task/domain"
	"taskly-backend/pkg/config"
)

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) Save(_ context.Context, user *domain.User) error {
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, id string, fields map[string]interface{}) error {
	user, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if v, ok := fields["lastActive"].(time.Time); ok {
		user.LastActive = v
	}
	if v, ok := fields["profilePicture"].(string); ok {
		user.ProfilePicture = v
	}
	if v, ok := fields["is_admin"].(bool); ok {
		user.LegacyAdmin = v
	}
	return nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]*domain.User, error) {
	var out []*domain.User
	for _, user := range r.users {
		copied := *user
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) AdjustTaskCount(_ context.Context, id string, delta int) error {
	user, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	count := user.TaskCount + delta
	if count < 0 {
		count = 0
	}
	user.TaskCount = count
	return nil
}

type fakeAdminRepo struct {
	admins map[string]*domain.Admin
	nextID int
}

func newFakeAdminRepo(admins ...*domain.Admin) *fakeAdminRepo {
	r := &fakeAdminRepo{admins: make(map[string]*domain.Admin)}
	for _, a := range admins {
		r.nextID++
		if a.ID == "" {
			a.ID = fmt.Sprintf("admin-%d", r.nextID)
		}
		r.admins[a.ID] = a
	}
	return r
}

func (r *fakeAdminRepo) FindActiveByUserID(_ context.Context, userID string) (*domain.Admin, error) {
	for _, admin := range r.admins {
		if admin.UserID == userID && admin.Active {
			copied := *admin
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeAdminRepo) FindAnyByUserID(_ context.Context, userID string) (*domain.Admin, error) {
	for _, admin := range r.admins {
		if admin.UserID == userID {
			copied := *admin
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeAdminRepo) Create(_ context.Context, admin *domain.Admin) (string, error) {
	r.nextID++
	admin.ID = fmt.Sprintf("admin-%d", r.nextID)
	stored := *admin
	r.admins[admin.ID] = &stored
	return admin.ID, nil
}

func (r *fakeAdminRepo) SetActive(_ context.Context, adminID string, active bool) error {
	admin, ok := r.admins[adminID]
	if !ok {
		return errors.New("admin record not found")
	}
	admin.Active = active
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]*domain.Session
	nextID   int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*domain.Session)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *domain.Session) (string, error) {
	r.nextID++
	session.ID = fmt.Sprintf("session-%d", r.nextID)
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	stored := *session
	r.sessions[session.ID] = &stored
	return session.ID, nil
}

func (r *fakeSessionRepo) FindByID(_ context.Context, id string) (*domain.Session, error) {
	session, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (r *fakeSessionRepo) SetAdmin(_ context.Context, id string, isAdmin bool) error {
	session, ok := r.sessions[id]
	if !ok {
		return errors.New("session not found")
	}
	session.IsAdmin = isAdmin
	return nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, id string) error {
	delete(r.sessions, id)
	return nil
}

type fakeTaskRepo struct {
	tasks map[string]*taskdomain.Task
}

func newFakeTaskRepo(tasks ...*taskdomain.Task) *fakeTaskRepo {
	r := &fakeTaskRepo{tasks: make(map[string]*taskdomain.Task)}
	for _, t := range tasks {
		r.tasks[t.ID] = t
	}
	return r
}

func (r *fakeTaskRepo) Create(_ context.Context, task *taskdomain.Task) (string, error) {
	r.tasks[task.ID] = task
	return task.ID, nil
}

func (r *fakeTaskRepo) FindByID(_ context.Context, id string) (*taskdomain.Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, nil
	}
	return task, nil
}

func (r *fakeTaskRepo) FindByUser(_ context.Context, userID, _, _ string) ([]*taskdomain.Task, error) {
	var out []*taskdomain.Task
	for _, task := range r.tasks {
		if task.UserID == userID {
			out = append(out, task)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) Save(_ context.Context, task *taskdomain.Task) error {
	r.tasks[task.ID] = task
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id string) error {
	delete(r.tasks, id)
	return nil
}

func (r *fakeTaskRepo) FindAll(_ context.Context) ([]*taskdomain.Task, error) {
	var out []*taskdomain.Task
	for _, task := range r.tasks {
		out = append(out, task)
	}
	return out, nil
}

type fakeIdentity struct {
	accounts map[string]string // uid -> email
	tokens   map[string]string // idToken -> uid
	deleted  []string
	nextID   int
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{
		accounts: make(map[string]string),
		tokens:   make(map[string]string),
	}
}

func (f *fakeIdentity) VerifyIDToken(_ context.Context, idToken string) (string, error) {
	uid, ok := f.tokens[idToken]
	if !ok {
		return "", errors.New("invalid ID token")
	}
	return uid, nil
}

func (f *fakeIdentity) CreateUser(_ context.Context, email, password string) (string, error) {
	if password == "short" {
		return "", errors.New("password must be at least 6 characters")
	}
	f.nextID++
	uid := fmt.Sprintf("uid-%d", f.nextID)
	f.accounts[uid] = email
	return uid, nil
}

func (f *fakeIdentity) GetUserEmail(_ context.Context, uid string) (string, error) {
	email, ok := f.accounts[uid]
	if !ok {
		return "", errors.New("account not found")
	}
	return email, nil
}

func (f *fakeIdentity) UpdatePassword(_ context.Context, _, _ string) error {
	return nil
}

func (f *fakeIdentity) DeleteUser(_ context.Context, uid string) error {
	delete(f.accounts, uid)
	f.deleted = append(f.deleted, uid)
	return nil
}

type fakeObjectStorage struct {
	deleted []string
}

func (s *fakeObjectStorage) UploadPublic(_ context.Context, objectPath string, _ io.Reader) (string, error) {
	return "https://storage.googleapis.com/test-bucket/" + objectPath, nil
}

func (s *fakeObjectStorage) DeleteByURL(_ context.Context, rawURL string) error {
	s.deleted = append(s.deleted, rawURL)
	return nil
}

type fixture struct {
	uc       usecase.AuthUsecase
	users    *fakeUserRepo
	admins   *fakeAdminRepo
	sessions *fakeSessionRepo
	tasks    *fakeTaskRepo
	identity *fakeIdentity
	storage  *fakeObjectStorage
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:    newFakeUserRepo(),
		admins:   newFakeAdminRepo(),
		sessions: newFakeSessionRepo(),
		tasks:    newFakeTaskRepo(),
		identity: newFakeIdentity(),
		storage:  &fakeObjectStorage{},
	}
	cfg := &config.Config{
		SessionJWTSecret: "test-secret",
		SessionExpiry:    time.Hour,
	}
	f.uc = usecase.NewAuthUsecase(f.users, f.admins, f.sessions, f.tasks, f.identity, f.storage, cfg)
	return f
}

func (f *fixture) login(t *testing.T, uid string) string {
	t.Helper()
	token := "idtoken-" + uid
	f.identity.tokens[token] = uid
	if _, ok := f.identity.accounts[uid]; !ok {
		f.identity.accounts[uid] = uid + "@example.com"
	}
	resp, err := f.uc.Login(context.Background(), token)
	require.NoError(t, err)
	return resp.Token
}

func TestRegisterCreatesAccountAndUserDoc(t *testing.T) {
	f := newFixture(t)

	uid, err := f.uc.Register(context.Background(), "new@example.com", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	user, _ := f.users.FindByID(context.Background(), uid)
	require.NotNil(t, user)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, 0, user.TaskCount)
}

func TestRegisterIdentityFailure(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Register(context.Background(), "new@example.com", "short")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLoginFirstTimeCreatesUser(t *testing.T) {
	f := newFixture(t)
	f.identity.accounts["uid-1"] = "first@example.com"
	f.identity.tokens["good-token"] = "uid-1"

	resp, err := f.uc.Login(context.Background(), "good-token")
	require.NoError(t, err)

	assert.Equal(t, "uid-1", resp.UserID)
	assert.False(t, resp.IsAdmin)
	assert.NotEmpty(t, resp.Token)

	user, _ := f.users.FindByID(context.Background(), "uid-1")
	require.NotNil(t, user)
	assert.Equal(t, "first@example.com", user.Email)
}

func TestLoginInvalidToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Login(context.Background(), "bogus")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestLoginResolvesAdminStatus(t *testing.T) {
	f := newFixture(t)
	f.users.users["uid-1"] = &domain.User{ID: "uid-1", Email: "boss@example.com"}
	f.admins = newFakeAdminRepo(&domain.Admin{UserID: "uid-1", Active: true})
	cfg := &config.Config{SessionJWTSecret: "test-secret", SessionExpiry: time.Hour}
	f.uc = usecase.NewAuthUsecase(f.users, f.admins, f.sessions, f.tasks, f.identity, f.storage, cfg)
	f.identity.tokens["good-token"] = "uid-1"

	resp, err := f.uc.Login(context.Background(), "good-token")
	require.NoError(t, err)
	assert.True(t, resp.IsAdmin)
}

func TestAuthenticateRoundTrip(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, "uid-1")

	session, err := f.uc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", session.UserID)
	assert.False(t, session.IsAdmin)
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = f.uc.Authenticate(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestAuthenticateExpiredSession(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, "uid-1")

	for _, session := range f.sessions.sessions {
		session.ExpiresAt = time.Now().Add(-time.Minute)
	}

	_, err := f.uc.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestAuthenticateAfterLogout(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, "uid-1")

	session, err := f.uc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	require.NoError(t, f.uc.Logout(context.Background(), session.ID))

	_, err = f.uc.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestAuthorizeAdminCachesFlagOnSession(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, "uid-1")

	// Not yet an admin.
	_, err := f.uc.AuthorizeAdmin(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Grant arrives mid-session: the next check finds the record and
	// caches the flag on the session document.
	_, err = f.admins.Create(context.Background(), &domain.Admin{UserID: "uid-1", Active: true})
	require.NoError(t, err)

	session, err := f.uc.AuthorizeAdmin(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, session.IsAdmin)

	stored := f.sessions.sessions[session.ID]
	assert.True(t, stored.IsAdmin)
}

func TestAuthorizeAdminStickyAfterRevocation(t *testing.T) {
	f := newFixture(t)
	f.admins.admins["admin-1"] = &domain.Admin{ID: "admin-1", UserID: "uid-1", Active: true}
	token := f.login(t, "uid-1")

	session, err := f.uc.AuthorizeAdmin(context.Background(), token)
	require.NoError(t, err)
	require.True(t, session.IsAdmin)

	// Revoke the grant. The cached flag keeps the live session elevated
	// until logout.
	require.NoError(t, f.admins.SetActive(context.Background(), "admin-1", false))

	session, err = f.uc.AuthorizeAdmin(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, session.IsAdmin)

	// A fresh login resolves the revoked status.
	freshToken := f.login(t, "uid-1")
	_, err = f.uc.AuthorizeAdmin(context.Background(), freshToken)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUploadProfilePictureReplacesOld(t *testing.T) {
	f := newFixture(t)
	f.users.users["uid-1"] = &domain.User{
		ID:             "uid-1",
		Email:          "u@example.com",
		ProfilePicture: "https://storage.googleapis.com/test-bucket/profile_photos/old",
	}

	url, err := f.uc.UploadProfilePicture(context.Background(), "uid-1", "avatar.png", nil)
	require.NoError(t, err)
	assert.Contains(t, url, "/profile_photos/")

	assert.Contains(t, f.storage.deleted, "https://storage.googleapis.com/test-bucket/profile_photos/old")
	assert.Equal(t, url, f.users.users["uid-1"].ProfilePicture)
}

func TestChangePasswordValidation(t *testing.T) {
	f := newFixture(t)
	f.users.users["uid-1"] = &domain.User{ID: "uid-1"}

	err := f.uc.ChangePassword(context.Background(), "uid-1", "", "newpass")
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = f.uc.ChangePassword(context.Background(), "uid-1", "oldpass", "newpass")
	assert.NoError(t, err)

	err = f.uc.ChangePassword(context.Background(), "ghost", "oldpass", "newpass")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestDeleteAccountCascades(t *testing.T) {
	f := newFixture(t)
	f.users.users["uid-1"] = &domain.User{
		ID:             "uid-1",
		Email:          "u@example.com",
		ProfilePicture: "https://storage.googleapis.com/test-bucket/profile_photos/pic",
	}
	f.identity.accounts["uid-1"] = "u@example.com"
	f.tasks.tasks["t1"] = &taskdomain.Task{
		ID:       "t1",
		UserID:   "uid-1",
		ImageURL: "https://storage.googleapis.com/test-bucket/task_images/img1",
	}
	f.tasks.tasks["t2"] = &taskdomain.Task{ID: "t2", UserID: "uid-1"}
	f.tasks.tasks["t3"] = &taskdomain.Task{ID: "t3", UserID: "other"}

	token := f.login(t, "uid-1")
	session, err := f.uc.Authenticate(context.Background(), token)
	require.NoError(t, err)

	require.NoError(t, f.uc.DeleteAccount(context.Background(), session, "secret123"))

	// Owned tasks, their images, the profile picture, the user document,
	// the identity account and the session are all gone.
	assert.NotContains(t, f.tasks.tasks, "t1")
	assert.NotContains(t, f.tasks.tasks, "t2")
	assert.Contains(t, f.tasks.tasks, "t3")
	assert.Contains(t, f.storage.deleted, "https://storage.googleapis.com/test-bucket/task_images/img1")
	assert.Contains(t, f.storage.deleted, "https://storage.googleapis.com/test-bucket/profile_photos/pic")
	assert.NotContains(t, f.users.users, "uid-1")
	assert.Contains(t, f.identity.deleted, "uid-1")
	assert.NotContains(t, f.sessions.sessions, session.ID)
}

func TestDeleteAccountRequiresPassword(t *testing.T) {
	f := newFixture(t)
	session := &domain.Session{ID: "s", UserID: "uid-1"}

	err := f.uc.DeleteAccount(context.Background(), session, "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSetLegacyAdminFlag(t *testing.T) {
	f := newFixture(t)
	f.users.users["uid-1"] = &domain.User{ID: "uid-1", Email: "u@example.com"}

	user, err := f.uc.SetLegacyAdminFlag(context.Background(), "uid-1", true)
	require.NoError(t, err)
	assert.True(t, user.LegacyAdmin)

	_, err = f.uc.SetLegacyAdminFlag(context.Background(), "ghost", true)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUpdateUserRoleGrantRevokeReactivate(t *testing.T) {
	f := newFixture(t)
	f.users.users["uid-1"] = &domain.User{ID: "uid-1", Email: "u@example.com"}

	// Grant creates a record attributed to the granting admin.
	require.NoError(t, f.uc.UpdateUserRole(context.Background(), "admin-user", "uid-1", true))
	granted, _ := f.admins.FindActiveByUserID(context.Background(), "uid-1")
	require.NotNil(t, granted)
	assert.Equal(t, "admin-user", granted.GrantedBy)

	// Revoke deactivates it without deleting.
	require.NoError(t, f.uc.UpdateUserRole(context.Background(), "admin-user", "uid-1", false))
	active, _ := f.admins.FindActiveByUserID(context.Background(), "uid-1")
	assert.Nil(t, active)
	record, _ := f.admins.FindAnyByUserID(context.Background(), "uid-1")
	require.NotNil(t, record)
	assert.False(t, record.Active)

	// Re-grant reactivates the existing record instead of creating a
	// second one.
	require.NoError(t, f.uc.UpdateUserRole(context.Background(), "admin-user", "uid-1", true))
	assert.Len(t, f.admins.admins, 1)
	active, _ = f.admins.FindActiveByUserID(context.Background(), "uid-1")
	assert.NotNil(t, active)
}

func TestUpdateUserRoleGrantIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.users.users["uid-1"] = &domain.User{ID: "uid-1"}

	require.NoError(t, f.uc.UpdateUserRole(context.Background(), "a", "uid-1", true))
	require.NoError(t, f.uc.UpdateUserRole(context.Background(), "a", "uid-1", true))
	assert.Len(t, f.admins.admins, 1)
}

func TestUpdateUserRoleUnknownUser(t *testing.T) {
	f := newFixture(t)

	err := f.uc.UpdateUserRole(context.Background(), "a", "ghost", true)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestDeleteUserRejectsSelf(t *testing.T) {
	f := newFixture(t)
	f.users.users["uid-1"] = &domain.User{ID: "uid-1"}

	err := f.uc.DeleteUser(context.Background(), "uid-1", "uid-1")
	assert.ErrorIs(t, err, domain.ErrValidation)

	// uid-1 still exists.
	assert.Contains(t, f.users.users, "uid-1")
}

func TestDeleteUserCascadesForOther(t *testing.T) {
	f := newFixture(t)
	f.users.users["uid-2"] = &domain.User{ID: "uid-2", Email: "other@example.com"}
	f.identity.accounts["uid-2"] = "other@example.com"
	f.tasks.tasks["t1"] = &taskdomain.Task{ID: "t1", UserID: "uid-2"}

	require.NoError(t, f.uc.DeleteUser(context.Background(), "uid-1", "uid-2"))
	assert.NotContains(t, f.users.users, "uid-2")
	assert.NotContains(t, f.tasks.tasks, "t1")
	assert.Contains(t, f.identity.deleted, "uid-2")
}

func TestListUsers(t *testing.T) {
	f := newFixture(t)
	f.users.users["uid-1"] = &domain.User{ID: "uid-1", Email: "a@example.com"}
	f.users.users["uid-2"] = &domain.User{ID: "uid-2", Email: "b@example.com"}

	users, err := f.uc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
