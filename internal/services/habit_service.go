package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/terraincognita07/habitdiary/internal/models"
	"gorm.io/gorm"
)

const MaxHabitNameLength = 100

type HabitRepository interface {
	FindByUser(ctx context.Context, userID uint) (models.Habit, bool, error)
	Create(ctx context.Context, habit *models.Habit) error
	Save(ctx context.Context, habit *models.Habit) error
	DeleteByUser(ctx context.Context, userID uint) (bool, error)
}

type HabitInput struct {
	Name                     string
	SupplementaryDescription *string
}

type HabitService struct {
	habits HabitRepository
	now    func() time.Time
}

func NewHabitService(habits HabitRepository) *HabitService {
	return &HabitService{habits: habits, now: time.Now}
}

// Get returns nil when the user has not registered a habit.
func (service *HabitService) Get(ctx context.Context, userID uint) (*models.Habit, error) {
	habit, found, err := service.habits.FindByUser(ctx, userID)
	if err != nil {
		return nil, storeFailure("load habit", err)
	}
	if !found {
		return nil, nil
	}
	return &habit, nil
}

func (service *HabitService) Create(ctx context.Context, userID uint, input HabitInput) (models.Habit, error) {
	normalized, err := normalizeHabitInput(input)
	if err != nil {
		return models.Habit{}, err
	}

	existing, err := service.Get(ctx, userID)
	if err != nil {
		return models.Habit{}, err
	}
	if existing != nil {
		return models.Habit{}, ErrHabitExists
	}

	now := service.now()
	habit := models.Habit{
		ID:                       uuid.NewString(),
		UserID:                   userID,
		Name:                     normalized.Name,
		SupplementaryDescription: normalized.SupplementaryDescription,
		CreatedAt:                now,
		UpdatedAt:                now,
	}
	if err := service.habits.Create(ctx, &habit); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Habit{}, ErrHabitExists
		}
		return models.Habit{}, storeFailure("create habit", err)
	}
	return habit, nil
}

func (service *HabitService) Update(ctx context.Context, userID uint, input HabitInput) (models.Habit, error) {
	normalized, err := normalizeHabitInput(input)
	if err != nil {
		return models.Habit{}, err
	}

	habit, err := service.Get(ctx, userID)
	if err != nil {
		return models.Habit{}, err
	}
	if habit == nil {
		return models.Habit{}, ErrHabitNotFound
	}

	habit.Name = normalized.Name
	habit.SupplementaryDescription = normalized.SupplementaryDescription
	habit.UpdatedAt = service.now()
	if err := service.habits.Save(ctx, habit); err != nil {
		return models.Habit{}, storeFailure("update habit", err)
	}
	return *habit, nil
}

func (service *HabitService) Delete(ctx context.Context, userID uint) error {
	deleted, err := service.habits.DeleteByUser(ctx, userID)
	if err != nil {
		return storeFailure("delete habit", err)
	}
	if !deleted {
		return ErrHabitNotFound
	}
	return nil
}

func normalizeHabitInput(input HabitInput) (HabitInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return input, ErrHabitNameRequired
	}
	if utf8.RuneCountInString(input.Name) > MaxHabitNameLength {
		return input, ErrHabitNameTooLong
	}
	if input.SupplementaryDescription != nil {
		description := strings.TrimSpace(*input.SupplementaryDescription)
		if description == "" {
			input.SupplementaryDescription = nil
		} else {
			input.SupplementaryDescription = &description
		}
	}
	return input, nil
}
