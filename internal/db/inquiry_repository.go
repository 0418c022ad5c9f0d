package db

import (
	"context"
	"time"

	"github.com/terraincognita07/habitdiary/internal/models"
	"gorm.io/gorm"
)

type InquiryRepository struct {
	database *gorm.DB
}

func NewInquiryRepository(database *gorm.DB) *InquiryRepository {
	return &InquiryRepository{database: database}
}

func (repo *InquiryRepository) Create(ctx context.Context, inquiry *models.Inquiry) error {
	return repo.database.WithContext(ctx).Create(inquiry).Error
}

func (repo *InquiryRepository) CountBySubmitterSince(ctx context.Context, submitterHash string, since time.Time) (int64, error) {
	var count int64
	if err := repo.database.WithContext(ctx).
		Model(&models.Inquiry{}).
		Where("submitter_hash = ? AND created_at >= ?", submitterHash, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
