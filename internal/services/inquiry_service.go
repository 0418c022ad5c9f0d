package services

import (
	"context"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/terraincognita07/habitdiary/internal/models"
)

const (
	MaxInquiryNameLength    = 100
	MaxInquiryMessageLength = 4000
	MaxInquiriesPerDay      = 5
)

type InquiryRepository interface {
	Create(ctx context.Context, inquiry *models.Inquiry) error
	CountBySubmitterSince(ctx context.Context, submitterHash string, since time.Time) (int64, error)
}

type SubmitterHasher interface {
	Hash(value string) string
}

type InquiryInput struct {
	Name    string
	Email   string
	Message string
}

type InquiryService struct {
	inquiries InquiryRepository
	hasher    SubmitterHasher
	now       func() time.Time
}

func NewInquiryService(inquiries InquiryRepository, hasher SubmitterHasher) *InquiryService {
	return &InquiryService{inquiries: inquiries, hasher: hasher, now: time.Now}
}

func (service *InquiryService) Submit(ctx context.Context, input InquiryInput, clientIP string) (models.Inquiry, error) {
	normalized, err := normalizeInquiryInput(input)
	if err != nil {
		return models.Inquiry{}, err
	}

	now := service.now()
	submitter := service.hasher.Hash(clientIP)
	recent, err := service.inquiries.CountBySubmitterSince(ctx, submitter, now.Add(-24*time.Hour))
	if err != nil {
		return models.Inquiry{}, storeFailure("count inquiries", err)
	}
	if recent >= MaxInquiriesPerDay {
		return models.Inquiry{}, ErrInquiryQuotaExceeded
	}

	inquiry := models.Inquiry{
		Name:          normalized.Name,
		Email:         normalized.Email,
		Message:       normalized.Message,
		SubmitterHash: submitter,
		CreatedAt:     now,
	}
	if err := service.inquiries.Create(ctx, &inquiry); err != nil {
		return models.Inquiry{}, storeFailure("create inquiry", err)
	}
	return inquiry, nil
}

func normalizeInquiryInput(input InquiryInput) (InquiryInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Message = strings.TrimSpace(input.Message)

	if input.Name == "" || utf8.RuneCountInString(input.Name) > MaxInquiryNameLength {
		return input, ErrInvalidInquiry
	}
	if input.Message == "" || utf8.RuneCountInString(input.Message) > MaxInquiryMessageLength {
		return input, ErrInvalidInquiry
	}
	address, err := mail.ParseAddress(input.Email)
	if err != nil || address.Address != input.Email {
		return input, ErrInvalidInquiry
	}
	return input, nil
}
