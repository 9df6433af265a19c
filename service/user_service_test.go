package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-bank-ledger/model"
	"go-bank-ledger/repository"
	"go-bank-ledger/repository/memory"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUserServiceForTest(t *testing.T) (*UserService, *AuthService) {
	t.Helper()
	users := memory.NewUserRepository()
	auth := NewAuthService(users, "test-secret", time.Hour)
	auth.bcryptCost = bcrypt.MinCost
	return NewUserService(users, auth), auth
}

func registerRequest(username, email string) model.RegisterRequest {
	return model.RegisterRequest{
		Username:  username,
		Email:     email,
		Password:  "password-123",
		FirstName: "Test",
		LastName:  "User",
		Phone:     "5550100",
	}
}

func TestUserService_Register(t *testing.T) {
	svc, auth := newUserServiceForTest(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerRequest("alice", "alice@bank.test"))
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, string(model.RoleCustomer), user.Role)
	assert.Equal(t, model.UserStatusActive, user.Status)
	assert.True(t, CheckPasswordHash("password-123", user.PasswordHash))

	_, err = svc.Register(ctx, registerRequest("alice", "other@bank.test"))
	assert.ErrorIs(t, err, ErrUsernameTaken)
	_, err = svc.Register(ctx, registerRequest("alice2", "alice@bank.test"))
	assert.ErrorIs(t, err, ErrEmailTaken)

	resp, err := auth.Login(ctx, "alice", "password-123")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestUserService_CreateUserByAdmin(t *testing.T) {
	svc, _ := newUserServiceForTest(t)
	ctx := context.Background()

	admin, err := svc.CreateUser(ctx, model.CreateUserRequest{RegisterRequest: registerRequest("root", "root@bank.test"), Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, string(model.RoleAdmin), admin.Role)

	customer, err := svc.CreateUser(ctx, model.CreateUserRequest{RegisterRequest: registerRequest("erin", "erin@bank.test"), Role: "CUSTOMER"})
	require.NoError(t, err)
	assert.Equal(t, string(model.RoleCustomer), customer.Role)

	_, err = svc.CreateUser(ctx, model.CreateUserRequest{RegisterRequest: registerRequest("mallory", "m@bank.test"), Role: "superuser"})
	assert.ErrorIs(t, err, ErrInvalidRole)

	admins, err := svc.ListByRole(ctx, "admin")
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "root", admins[0].Username)
	customers, err := svc.ListByRole(ctx, "CUSTOMER")
	require.NoError(t, err)
	assert.Len(t, customers, 1)
	_, err = svc.ListByRole(ctx, "auditor")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestUserService_EnsureAdmin(t *testing.T) {
	svc, auth := newUserServiceForTest(t)
	ctx := context.Background()

	admin, created, err := svc.EnsureAdmin(ctx, "admin", "admin@bank.test", "bootstrap-pass")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, string(model.RoleAdmin), admin.Role)

	again, created, err := svc.EnsureAdmin(ctx, "admin", "admin@bank.test", "another-pass")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, admin.ID, again.ID)

	_, err = auth.Login(ctx, "admin", "bootstrap-pass")
	assert.NoError(t, err)
	_, err = auth.Login(ctx, "admin", "another-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_UpdateProfile(t *testing.T) {
	svc, _ := newUserServiceForTest(t)
	ctx := context.Background()
	user, err := svc.Register(ctx, registerRequest("frank", "frank@bank.test"))
	require.NoError(t, err)
	_, err = svc.Register(ctx, registerRequest("grace", "grace@bank.test"))
	require.NoError(t, err)

	city, email := " Chennai ", "frank@new.bank.test"
	updated, err := svc.UpdateProfile(ctx, user.ID, model.UpdateUserRequest{City: &city, Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "Chennai", updated.City)
	assert.Equal(t, email, updated.Email)
	assert.Equal(t, "Test", updated.FirstName)

	ok, err := svc.EmailExists(ctx, email)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = svc.EmailExists(ctx, "frank@bank.test")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = svc.UsernameExists(ctx, "grace")
	require.NoError(t, err)
	assert.True(t, ok)

	taken := "grace@bank.test"
	_, err = svc.UpdateProfile(ctx, user.ID, model.UpdateUserRequest{Email: &taken})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.UpdateProfile(ctx, user.ID, model.UpdateUserRequest{Email: &email})
	assert.NoError(t, err, "keeping the current email is not a conflict")

	_, err = svc.UpdateProfile(ctx, 999, model.UpdateUserRequest{City: &city})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_Lifecycle(t *testing.T) {
	svc, auth := newUserServiceForTest(t)
	ctx := context.Background()
	user, err := svc.Register(ctx, registerRequest("carol", "carol@bank.test"))
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(ctx, user.ID, "inactive"))
	got, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.UserStatusInactive, got.Status)
	_, err = auth.Login(ctx, "carol", "password-123")
	assert.ErrorIs(t, err, ErrUserInactive)

	assert.ErrorIs(t, svc.UpdateStatus(ctx, user.ID, "SUSPENDED"), ErrInvalidStatus)
	require.NoError(t, svc.UpdateStatus(ctx, user.ID, "ACTIVE"))

	require.NoError(t, svc.UpdatePassword(ctx, user.ID, "new-password-1"))
	_, err = auth.Login(ctx, "carol", "password-123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Login(ctx, "carol", "new-password-1")
	assert.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, user.ID))
	_, err = svc.Get(ctx, user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, user.ID), ErrUserNotFound)
	assert.ErrorIs(t, svc.UpdatePassword(ctx, user.ID, "whatever-123"), ErrUserNotFound)
}

func TestUserService_StorageFailures(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewUserRepository(db)
	svc := NewUserService(repo, NewAuthService(repo, "test-secret", time.Hour))

	mock.ExpectQuery(`SELECT EXISTS`).WillReturnError(errors.New("connection reset"))
	_, err = svc.Register(context.Background(), registerRequest("dave", "dave@bank.test"))
	assert.ErrorIs(t, err, ErrStorage)

	mock.ExpectQuery(`FROM users`).WillReturnError(errors.New("connection reset"))
	_, err = svc.List(context.Background())
	assert.ErrorIs(t, err, ErrStorage)
	assert.NoError(t, mock.ExpectationsWereMet())
}
