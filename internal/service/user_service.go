package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"docvault/internal/auth"
	"docvault/internal/cache"
	apperrors "docvault/internal/errors"
	"docvault/internal/model"
	"docvault/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// CreateUserInput carries an admin-created account. An empty Role means user.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     model.Role
}

// UpdateUserInput is the admin update surface. Nil fields are left unchanged.
type UpdateUserInput struct {
	Name     *string
	Role     *model.Role
	IsActive *bool
}

// UpdateSelfInput is what a caller may change on their own account.
type UpdateSelfInput struct {
	Name     *string
	Password *string
}

// UserService exposes user administration.
type UserService interface {
	CreateUser(ctx context.Context, in CreateUserInput) (*model.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, caller model.Identity, id uuid.UUID, in UpdateUserInput) (*model.User, error)
	DeleteUser(ctx context.Context, caller model.Identity, id uuid.UUID) error
	UpdateSelf(ctx context.Context, caller model.Identity, in UpdateSelfInput) (*model.User, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id)
}

func (s *userService) CreateUser(ctx context.Context, in CreateUserInput) (*model.User, error) {
	role := in.Role
	if role == "" {
		role = model.RoleUser
	}
	if !role.Valid() {
		return nil, apperrors.Validation("Invalid input", apperrors.FieldError{
			Field: "role", Tag: "oneof", Message: "role must be admin or user",
		})
	}

	email := NormalizeEmail(in.Email)
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrUserAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal("Error creating user", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperrors.Internal("Error creating user", err)
	}

	user := &model.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrUserAlreadyExists
		}
		return nil, apperrors.Internal("Error creating user", err)
	}
	return user, nil
}

// GetUser reads through the cache. The cached copy never carries the password hash.
func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	_ = s.cache.SetJSON(ctx, s.cacheKey(id), user, userCacheTTL)
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal("Error retrieving users", err)
	}
	return users, nil
}

func (s *userService) UpdateUser(ctx context.Context, caller model.Identity, id uuid.UUID, in UpdateUserInput) (*model.User, error) {
	if caller.ID == id {
		demoting := in.Role != nil && *in.Role != model.RoleAdmin
		deactivating := in.IsActive != nil && !*in.IsActive
		if demoting || deactivating {
			return nil, apperrors.ErrSelfModification
		}
	}
	if in.Role != nil && !in.Role.Valid() {
		return nil, apperrors.Validation("Invalid input", apperrors.FieldError{
			Field: "role", Tag: "oneof", Message: "role must be admin or user",
		})
	}

	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, apperrors.Internal("Error updating user", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, caller model.Identity, id uuid.UUID) error {
	if caller.ID == id {
		return apperrors.ErrSelfModification
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.Internal("Error deleting user", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

// UpdateSelf changes the caller's name or password. A new password is rehashed.
func (s *userService) UpdateSelf(ctx context.Context, caller model.Identity, in UpdateSelfInput) (*model.User, error) {
	user, err := s.load(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Password != nil && !auth.CheckPassword(user.PasswordHash, *in.Password) {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, apperrors.Internal("Error updating user", err)
		}
		user.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, apperrors.Internal("Error updating user", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(user.ID))
	return user, nil
}

func (s *userService) load(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Internal("Error retrieving user", err)
	}
	return user, nil
}
