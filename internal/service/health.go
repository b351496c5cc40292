package service

import (
	"context"
)

type HealthRepository interface {
	IsOK(ctx context.Context) (bool, error)
}

type HealthService struct {
	healthRepo HealthRepository
}

func NewHealthService(healthRepo HealthRepository) *HealthService {
	return &HealthService{
		healthRepo: healthRepo,
	}
}

func (s *HealthService) IsOK(ctx context.Context) (bool, error) {
	return s.healthRepo.IsOK(ctx)
}
