package repository

import (
	"context"

	"github.com/moimo-team/moaclass-back/core/database"
	"github.com/moimo-team/moaclass-back/core/logger"
	"github.com/moimo-team/moaclass-back/modules/interest/entity"
)

type InterestRepository struct {
	DB database.Database
}

func NewInterestRepository(db database.Database) *InterestRepository {
	return &InterestRepository{DB: db}
}

type InterestRepositoryInterface interface {
	List(ctx context.Context) ([]entity.Interest, error)
}

func (r *InterestRepository) List(ctx context.Context) ([]entity.Interest, error) {
	query := `SELECT id, name, created_at, updated_at FROM interests ORDER BY created_at ASC`

	var interests []entity.Interest
	if err := r.DB.SelectContext(ctx, &interests, query); err != nil {
		logger.Error("InterestRepository:List", err)
		return nil, err
	}
	return interests, nil
}
