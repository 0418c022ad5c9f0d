package db

import (
	"context"

	"github.com/terraincognita07/habitdiary/internal/models"
	"gorm.io/gorm"
)

type HabitRepository struct {
	database *gorm.DB
}

func NewHabitRepository(database *gorm.DB) *HabitRepository {
	return &HabitRepository{database: database}
}

func (repo *HabitRepository) FindByUser(ctx context.Context, userID uint) (models.Habit, bool, error) {
	habit := models.Habit{}
	result := repo.database.WithContext(ctx).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&habit)
	if result.Error != nil {
		return models.Habit{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Habit{}, false, nil
	}
	return habit, true, nil
}

func (repo *HabitRepository) Create(ctx context.Context, habit *models.Habit) error {
	return normalizeWriteError(repo.database.WithContext(ctx).Create(habit).Error)
}

func (repo *HabitRepository) Save(ctx context.Context, habit *models.Habit) error {
	return repo.database.WithContext(ctx).Save(habit).Error
}

func (repo *HabitRepository) DeleteByUser(ctx context.Context, userID uint) (bool, error) {
	result := repo.database.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Habit{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
