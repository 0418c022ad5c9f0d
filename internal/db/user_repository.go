package db

import (
	"context"

	"github.com/terraincognita07/habitdiary/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

func (repo *UserRepository) FindByExternalID(ctx context.Context, externalID string) (models.User, bool, error) {
	var user models.User
	result := repo.database.WithContext(ctx).Where("external_id = ?", externalID).Limit(1).Find(&user)
	if result.Error != nil {
		return models.User{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.User{}, false, nil
	}
	return user, true, nil
}

func (repo *UserRepository) Create(ctx context.Context, user *models.User) error {
	return normalizeWriteError(repo.database.WithContext(ctx).Create(user).Error)
}
