package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sportsmeet/manager/internal/dto"
	"github.com/sportsmeet/manager/internal/model"
	"github.com/sportsmeet/manager/internal/repository"
	"github.com/sportsmeet/manager/pkg/apperror"
)

type UserAdminService interface {
	List(ctx context.Context, filter dto.UserFilter, page dto.Pagination) ([]*model.User, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	Create(ctx context.Context, input dto.CreateUserInput) (*model.User, error)
	Update(ctx context.Context, id uuid.UUID, input dto.UpdateUserInput) (*model.User, *model.User, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) (*model.User, error)
	Bulk(ctx context.Context, actorID uuid.UUID, input dto.BulkUserInput) (int64, error)
}

type userAdminService struct {
	repo      repository.UserRepository
	sanitizer *bluemonday.Policy
}

func NewUserAdminService(repo repository.UserRepository) UserAdminService {
	return &userAdminService{
		repo:      repo,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *userAdminService) List(ctx context.Context, filter dto.UserFilter, page dto.Pagination) ([]*model.User, int64, error) {
	return s.repo.List(ctx, filter, page)
}

func (s *userAdminService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *userAdminService) Create(ctx context.Context, input dto.CreateUserInput) (*model.User, error) {
	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := s.repo.FindByUsername(ctx, input.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Role:         input.Role,
		FirstName:    strings.TrimSpace(s.sanitizer.Sanitize(input.FirstName)),
		LastName:     strings.TrimSpace(s.sanitizer.Sanitize(input.LastName)),
		Phone:        strings.TrimSpace(s.sanitizer.Sanitize(input.Phone)),
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Update returns the previous and the updated row so the caller can record
// a before/after snapshot.
func (s *userAdminService) Update(ctx context.Context, id uuid.UUID, input dto.UpdateUserInput) (*model.User, *model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	before := *user

	if input.Username != user.Username {
		if _, err := s.repo.FindByUsername(ctx, input.Username); err == nil {
			return nil, nil, ErrUsernameTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, err
		}
		user.Username = input.Username
	}

	if input.Email != user.Email {
		if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
			return nil, nil, ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, err
		}
		user.Email = input.Email
	}

	if input.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hashedPassword)
	}

	user.Role = input.Role
	user.FirstName = strings.TrimSpace(s.sanitizer.Sanitize(input.FirstName))
	user.LastName = strings.TrimSpace(s.sanitizer.Sanitize(input.LastName))
	user.Phone = strings.TrimSpace(s.sanitizer.Sanitize(input.Phone))
	user.IsActive = input.IsActive

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, nil, err
	}

	return &before, user, nil
}

// Delete refuses to remove the acting admin's own account.
func (s *userAdminService) Delete(ctx context.Context, actorID, id uuid.UUID) (*model.User, error) {
	if actorID == id {
		return nil, apperror.ErrSelfTarget
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}

	return user, nil
}

// Bulk applies one operation across the id list. The acting admin's own id is
// always excluded from the target set.
func (s *userAdminService) Bulk(ctx context.Context, actorID uuid.UUID, input dto.BulkUserInput) (int64, error) {
	ids := make([]uuid.UUID, 0, len(input.UserIDs))
	for _, raw := range input.UserIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		if id == actorID {
			continue
		}
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return 0, nil
	}

	switch input.Action {
	case "activate":
		return s.repo.BulkSetActive(ctx, ids, true)
	case "deactivate":
		return s.repo.BulkSetActive(ctx, ids, false)
	case "delete":
		return s.repo.BulkDelete(ctx, ids)
	default:
		return 0, fmt.Errorf("unknown bulk action %q", input.Action)
	}
}
