package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"starconnect-back/internal/apperrors"
	"starconnect-back/internal/model"
	"starconnect-back/internal/repository"
)

type ProfileCrisisRepository interface {
	SelectByUser(ctx context.Context, ext repository.RepoExtension, userID uuid.UUID) (*model.CrisisMode, error)
}

type UserService struct {
	userRepo   UserRepository
	crisisRepo ProfileCrisisRepository
}

func NewUserService(userRepo UserRepository, crisisRepo ProfileCrisisRepository) *UserService {
	return &UserService{
		userRepo:   userRepo,
		crisisRepo: crisisRepo,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.SelectUserByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to select user: %w", err)
	}

	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, upd *model.ProfileUpdateRequest) (*model.User, error) {
	user, err := s.userRepo.UpdateProfile(ctx, nil, id, upd)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}

// GetPublicProfile serves the anonymous creator page. Private profiles stay
// hidden, and an active crisis mode replaces the regular bio fields.
func (s *UserService) GetPublicProfile(ctx context.Context, username string) (*model.PublicProfile, *model.CrisisStatus, error) {
	user, err := s.userRepo.SelectUserByUsername(ctx, nil, username)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to select user: %w", err)
	}

	if !user.IsPublic {
		return nil, nil, apperrors.ErrProfileIsPrivate
	}

	crisis := &model.CrisisStatus{}

	cm, err := s.crisisRepo.SelectByUser(ctx, nil, user.ID)
	if err != nil && !errors.Is(err, apperrors.ErrCrisisModeDoesNotExist) {
		return nil, nil, fmt.Errorf("failed to select crisis mode: %w", err)
	}

	if cm != nil && cm.IsActive {
		crisis.IsActive = true
		crisis.Title = cm.Title
		crisis.Message = cm.Message
	}

	return user.PublicProfile(), crisis, nil
}
