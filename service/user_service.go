package service

import (
	"context"
	"errors"
	"strings"

	"go-bank-ledger/logger"
	"go-bank-ledger/model"
	"go-bank-ledger/repository"

	"github.com/sirupsen/logrus"
)

// UserService handles user-related business logic.
type UserService struct {
	userRepo repository.IUserRepository
	auth     *AuthService
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.IUserRepository, auth *AuthService) *UserService {
	return &UserService{userRepo: userRepo, auth: auth}
}

// Register creates an ACTIVE customer. Self-service sign-up never grants ADMIN.
func (s *UserService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	return s.create(ctx, req, model.RoleCustomer)
}

// CreateUser is the admin path for creating users of either role.
func (s *UserService) CreateUser(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	role := model.Role(strings.ToUpper(strings.TrimSpace(req.Role)))
	if role != model.RoleAdmin && role != model.RoleCustomer {
		return nil, ErrInvalidRole
	}
	return s.create(ctx, req.RegisterRequest, role)
}

// EnsureAdmin seeds the bootstrap administrator. An existing user with the
// same username is left untouched and created is false.
func (s *UserService) EnsureAdmin(ctx context.Context, username, email, password string) (user *model.User, created bool, err error) {
	existing, err := s.userRepo.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		if existing.Role != string(model.RoleAdmin) {
			logger.Log.WithField("username", username).Warn("Bootstrap admin username belongs to a non-admin user")
		}
		return existing, false, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, false, storageErr("get bootstrap admin", err)
	}

	user, err = s.create(ctx, model.RegisterRequest{
		Username:  username,
		Email:     email,
		Password:  password,
		FirstName: "System",
		LastName:  "Administrator",
	}, model.RoleAdmin)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (s *UserService) create(ctx context.Context, req model.RegisterRequest, role model.Role) (*model.User, error) {
	log := logger.Log.WithFields(logrus.Fields{"username": req.Username, "email": req.Email, "role": role})

	taken, err := s.userRepo.UsernameExists(ctx, req.Username)
	if err != nil {
		return nil, storageErr("check username", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}
	taken, err = s.userRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, storageErr("check email", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Role:         string(role),
		Status:       model.UserStatusActive,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		// A concurrent registration won the unique index.
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrUsernameTaken
		}
		return nil, storageErr("create user", err)
	}

	log.WithField("user_id", user.ID).Info("User created")
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, storageErr("get user", err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		return nil, storageErr("list users", err)
	}
	return users, nil
}

// ListByRole accepts ADMIN or CUSTOMER in any case.
func (s *UserService) ListByRole(ctx context.Context, role string) ([]*model.User, error) {
	role = strings.ToUpper(strings.TrimSpace(role))
	if role != string(model.RoleAdmin) && role != string(model.RoleCustomer) {
		return nil, ErrInvalidRole
	}
	users, err := s.userRepo.ListUsersByRole(ctx, role)
	if err != nil {
		return nil, storageErr("list users by role", err)
	}
	return users, nil
}

func (s *UserService) UsernameExists(ctx context.Context, username string) (bool, error) {
	exists, err := s.userRepo.UsernameExists(ctx, username)
	if err != nil {
		return false, storageErr("check username", err)
	}
	return exists, nil
}

func (s *UserService) EmailExists(ctx context.Context, email string) (bool, error) {
	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return false, storageErr("check email", err)
	}
	return exists, nil
}

// UpdateProfile applies the non-nil fields of req. Username, role and status
// are not editable here.
func (s *UserService) UpdateProfile(ctx context.Context, id int64, req model.UpdateUserRequest) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		taken, err := s.userRepo.EmailExists(ctx, *req.Email)
		if err != nil {
			return nil, storageErr("check email", err)
		}
		if taken {
			return nil, ErrEmailTaken
		}
	}

	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&user.FirstName, req.FirstName)
	set(&user.LastName, req.LastName)
	set(&user.Email, req.Email)
	set(&user.Phone, req.Phone)
	set(&user.AddressLine1, req.AddressLine1)
	set(&user.AddressLine2, req.AddressLine2)
	set(&user.City, req.City)
	set(&user.State, req.State)
	set(&user.PostalCode, req.PostalCode)

	if err := s.userRepo.UpdateUserProfile(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, s.translate("update user profile", err)
	}
	logger.Log.WithField("user_id", id).Info("User profile updated")
	return user, nil
}

// UpdateStatus accepts ACTIVE or INACTIVE in any case.
func (s *UserService) UpdateStatus(ctx context.Context, id int64, status string) error {
	status = strings.ToUpper(strings.TrimSpace(status))
	if status != model.UserStatusActive && status != model.UserStatusInactive {
		return ErrInvalidStatus
	}
	return s.translate("update user status", s.userRepo.UpdateUserStatus(ctx, id, status))
}

func (s *UserService) UpdatePassword(ctx context.Context, id int64, password string) error {
	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return err
	}
	return s.translate("update user password", s.userRepo.UpdateUserPassword(ctx, id, hash))
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.translate("delete user", s.userRepo.DeleteUser(ctx, id))
}

func (s *UserService) translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrUserNotFound
	default:
		return storageErr(op, err)
	}
}
