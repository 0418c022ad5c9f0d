package api

import (
	"github.com/terraincognita07/habitdiary/internal/db"
	"github.com/terraincognita07/habitdiary/internal/services"
	"gorm.io/gorm"
)

func (handler *Handler) withDependencies(database *gorm.DB) *Handler {
	handler.repositories = db.NewRepositories(database)
	handler.identityService = services.NewIdentityService(handler.tokens, handler.repositories.Users)
	handler.diaryService = services.NewDiaryService(
		handler.repositories.DiaryEntries,
		handler.repositories.Habits,
		handler.calendarCache,
		handler.location,
	)
	handler.diaryService.SetClock(handler.clock)
	handler.diaryService.SetLogger(handler.logger)
	handler.habitService = services.NewHabitService(handler.repositories.Habits)
	handler.inquiryService = services.NewInquiryService(handler.repositories.Inquiries, handler.hasher)
	return handler
}
