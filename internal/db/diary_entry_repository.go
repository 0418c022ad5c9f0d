package db

import (
	"context"

	"github.com/terraincognita07/habitdiary/internal/models"
	"gorm.io/gorm"
)

type DiaryEntryRepository struct {
	database *gorm.DB
}

func NewDiaryEntryRepository(database *gorm.DB) *DiaryEntryRepository {
	return &DiaryEntryRepository{database: database}
}

func orderedPraises(tx *gorm.DB) *gorm.DB {
	return tx.Order("position ASC, id ASC")
}

// FindByUserAndDayRange returns the user's entry whose day key falls in
// [startKey, endKey). Day keys are YYYY-MM-DD so lexical order is date order.
func (repo *DiaryEntryRepository) FindByUserAndDayRange(ctx context.Context, userID uint, startKey string, endKey string) (models.DiaryEntry, bool, error) {
	entry := models.DiaryEntry{}
	result := repo.database.WithContext(ctx).
		Select("id", "user_id", "day", "reflection", "additional_notes", "created_at", "updated_at").
		Where("user_id = ? AND day >= ? AND day < ?", userID, startKey, endKey).
		Order("day DESC, id DESC").
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.DiaryEntry{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.DiaryEntry{}, false, nil
	}
	return entry, true, nil
}

func (repo *DiaryEntryRepository) ListByUserDayRange(ctx context.Context, userID uint, startKey string, endKey string) ([]models.DiaryEntry, error) {
	entries := make([]models.DiaryEntry, 0)
	if err := repo.database.WithContext(ctx).
		Where("user_id = ? AND day >= ? AND day < ?", userID, startKey, endKey).
		Order("day ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *DiaryEntryRepository) ListByUser(ctx context.Context, userID uint) ([]models.DiaryEntry, error) {
	entries := make([]models.DiaryEntry, 0)
	if err := repo.database.WithContext(ctx).
		Preload("Praises", orderedPraises).
		Where("user_id = ?", userID).
		Order("day DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *DiaryEntryRepository) FindByIDForUser(ctx context.Context, userID uint, entryID string) (models.DiaryEntry, bool, error) {
	entry := models.DiaryEntry{}
	result := repo.database.WithContext(ctx).
		Preload("Praises", orderedPraises).
		Where("id = ? AND user_id = ?", entryID, userID).
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.DiaryEntry{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.DiaryEntry{}, false, nil
	}
	return entry, true, nil
}

// CreateWithPraises inserts the entry and its praises in one transaction.
// A concurrent insert for the same (user, day) surfaces as an error wrapping
// gorm.ErrDuplicatedKey and leaves nothing behind.
func (repo *DiaryEntryRepository) CreateWithPraises(ctx context.Context, entry *models.DiaryEntry) error {
	err := repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Praises").Create(entry).Error; err != nil {
			return err
		}
		if len(entry.Praises) == 0 {
			return nil
		}
		for index := range entry.Praises {
			entry.Praises[index].EntryID = entry.ID
		}
		return tx.Create(&entry.Praises).Error
	})
	return normalizeWriteError(err)
}

// UpdateForUser writes reflection and notes of an entry owned by userID and,
// when replacePraises is set, swaps its praise list. It reports false when
// no entry with that id belongs to the user.
func (repo *DiaryEntryRepository) UpdateForUser(ctx context.Context, userID uint, entry *models.DiaryEntry, replacePraises bool) (bool, error) {
	updated := false
	err := repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.DiaryEntry{}).
			Where("id = ? AND user_id = ?", entry.ID, userID).
			Updates(map[string]any{
				"reflection":       entry.Reflection,
				"additional_notes": entry.AdditionalNotes,
				"updated_at":       entry.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		updated = true

		if !replacePraises {
			return nil
		}
		if err := tx.Where("entry_id = ?", entry.ID).Delete(&models.Praise{}).Error; err != nil {
			return err
		}
		if len(entry.Praises) == 0 {
			return nil
		}
		for index := range entry.Praises {
			entry.Praises[index].EntryID = entry.ID
		}
		return tx.Create(&entry.Praises).Error
	})
	if err != nil {
		return false, err
	}
	return updated, nil
}

func (repo *DiaryEntryRepository) DeleteForUser(ctx context.Context, userID uint, entryID string) (bool, error) {
	deleted := false
	err := repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := tx.Model(&models.DiaryEntry{}).Select("id").Where("id = ? AND user_id = ?", entryID, userID)
		if err := tx.Where("entry_id IN (?)", owned).Delete(&models.Praise{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ? AND user_id = ?", entryID, userID).Delete(&models.DiaryEntry{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
