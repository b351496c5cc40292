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

type CrisisRepository interface {
	UpsertTemplate(ctx context.Context, ext repository.RepoExtension, userID uuid.UUID, title, message string) (*model.CrisisMode, error)
	SetActive(ctx context.Context, ext repository.RepoExtension, userID uuid.UUID, active bool) (*model.CrisisMode, error)
	SelectByUser(ctx context.Context, ext repository.RepoExtension, userID uuid.UUID) (*model.CrisisMode, error)
}

type CrisisService struct {
	crisisRepo CrisisRepository
}

func NewCrisisService(crisisRepo CrisisRepository) *CrisisService {
	return &CrisisService{crisisRepo: crisisRepo}
}

func (s *CrisisService) SaveTemplate(ctx context.Context, userID uuid.UUID, req *model.CrisisTemplateRequest) (*model.CrisisMode, error) {
	cm, err := s.crisisRepo.UpsertTemplate(ctx, nil, userID, req.Title, req.Message)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert template: %w", err)
	}

	return cm, nil
}

func (s *CrisisService) Activate(ctx context.Context, userID uuid.UUID) (*model.CrisisMode, error) {
	cm, err := s.crisisRepo.SetActive(ctx, nil, userID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to activate crisis mode: %w", err)
	}

	return cm, nil
}

func (s *CrisisService) Deactivate(ctx context.Context, userID uuid.UUID) (*model.CrisisMode, error) {
	cm, err := s.crisisRepo.SetActive(ctx, nil, userID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to deactivate crisis mode: %w", err)
	}

	return cm, nil
}

func (s *CrisisService) Get(ctx context.Context, userID uuid.UUID) (*model.CrisisMode, error) {
	cm, err := s.crisisRepo.SelectByUser(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrCrisisModeDoesNotExist) {
			return &model.CrisisMode{UserID: userID}, nil
		}

		return nil, fmt.Errorf("failed to select crisis mode: %w", err)
	}

	return cm, nil
}
