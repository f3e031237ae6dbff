package service

import (
	"context"

	"github.com/moimo-team/moaclass-back/core/errors"
	"github.com/moimo-team/moaclass-back/modules/interest/entity"
	"github.com/moimo-team/moaclass-back/modules/interest/repository"
)

type InterestService struct {
	repo repository.InterestRepositoryInterface
}

func NewInterestService(repo repository.InterestRepositoryInterface) *InterestService {
	return &InterestService{repo: repo}
}

func (s *InterestService) List(ctx context.Context) ([]entity.Interest, *errors.AppError) {
	interests, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list interests", err)
	}
	return interests, nil
}
