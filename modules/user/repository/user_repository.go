package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/moimo-team/moaclass-back/core/database"
	"github.com/moimo-team/moaclass-back/core/logger"
	"github.com/moimo-team/moaclass-back/modules/user/entity"
)

type UserRepository struct {
	DB database.Database
}

func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{DB: db}
}

type UserRepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetInterestsByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]entity.UserInterestRow, error)
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `SELECT id, nickname, email, bio, image_url, created_at, updated_at FROM users WHERE id = $1`

	var user entity.User
	if err := r.DB.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("UserRepository:GetByID", err)
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetInterestsByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]entity.UserInterestRow, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT ui.user_id, i.id AS interest_id, i.name AS interest_name
		FROM user_interests ui
		JOIN interests i ON i.id = ui.interest_id
		WHERE ui.user_id IN (?)
		ORDER BY i.name
	`, userIDs)
	if err != nil {
		return nil, err
	}
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	var rows []entity.UserInterestRow
	if err := r.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		logger.Error("UserRepository:GetInterestsByUserIDs", err)
		return nil, err
	}
	return rows, nil
}
