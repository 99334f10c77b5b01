package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"expensedesk/internal/domain"
	"expensedesk/internal/form"
	"expensedesk/internal/port"
)

const bcryptCost = 12

// CreateUserInput is the DTO for provisioning an account.
type CreateUserInput struct {
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=8"`
	FullName string          `json:"full_name" binding:"required"`
	Role     domain.UserRole `json:"role" binding:"required"`
}

// UpdateUserInput is the DTO for changing an account. Password resets the
// sign-in password when set.
type UpdateUserInput struct {
	FullName *string          `json:"full_name"`
	Role     *domain.UserRole `json:"role"`
	IsActive *bool            `json:"is_active"`
	Password *string          `json:"password" binding:"omitempty,min=8"`
}

// UserService manages faculty and admin accounts.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]domain.User, int, error)
	// Update applies input to userID on behalf of actorID. An actor cannot
	// deactivate or demote their own account.
	Update(ctx context.Context, actorID, userID uuid.UUID, input UpdateUserInput) (*domain.User, error)
}

// ProfileSeeder prepares the profile form of a newly created account.
type ProfileSeeder func(ctx context.Context, user *domain.User)

type userService struct {
	repo port.UserRepository
	seed ProfileSeeder
}

// NewUserService creates a UserService. seed may be nil.
func NewUserService(repo port.UserRepository, seed ProfileSeeder) UserService {
	return &userService{repo: repo, seed: seed}
}

// SeedProfileDraft writes the account's name and email into its profile
// draft, so the first visit to the profile page opens pre-filled in editing
// mode. Accounts that already hold profile state are left alone.
func SeedProfileDraft(forms *form.Registry, storeFor func(uuid.UUID) port.SessionStore) (ProfileSeeder, error) {
	schema, err := forms.Get(domain.FormProfile)
	if err != nil {
		return nil, fmt.Errorf("service.SeedProfileDraft: %w", err)
	}
	return func(ctx context.Context, user *domain.User) {
		store := storeFor(user.ID)
		if store.Load(ctx, schema.CanonicalKey) != nil || store.Load(ctx, schema.DraftKey) != nil {
			return
		}
		rec := schema.Default()
		rec.Set("name", user.FullName)
		rec.Set("email", user.Email)
		store.Save(ctx, schema.DraftKey, rec)
		slog.DebugContext(ctx, "userService.seed: profile draft written", "user_id", user.ID)
	}, nil
}

func (s *userService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if !domain.ValidRoles[input.Role] {
		return nil, &domain.ValidationError{Field: "role", Reason: "role must be admin or faculty"}
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		FullName:     strings.TrimSpace(input.FullName),
		Role:         input.Role,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "userService.Create: account created", "user_id", user.ID, "role", user.Role)

	if s.seed != nil {
		s.seed(ctx, user)
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *userService) List(ctx context.Context, offset, limit int) ([]domain.User, int, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *userService) Update(ctx context.Context, actorID, userID uuid.UUID, input UpdateUserInput) (*domain.User, error) {
	if input.Role != nil && !domain.ValidRoles[*input.Role] {
		return nil, &domain.ValidationError{Field: "role", Reason: "role must be admin or faculty"}
	}
	if actorID == userID {
		if (input.IsActive != nil && !*input.IsActive) || (input.Role != nil && *input.Role != domain.RoleAdmin) {
			return nil, domain.ErrSelfLockout
		}
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if input.FullName != nil {
		user.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.Password != nil {
		if user.PasswordHash, err = hashPassword(*input.Password); err != nil {
			return nil, err
		}
		slog.InfoContext(ctx, "userService.Update: password reset", "user_id", userID, "actor_id", actorID)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}
