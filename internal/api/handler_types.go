package api

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/terraincognita07/habitdiary/internal/db"
	"github.com/terraincognita07/habitdiary/internal/metrics"
	"github.com/terraincognita07/habitdiary/internal/security"
	"github.com/terraincognita07/habitdiary/internal/services"
	"gorm.io/gorm"
)

type Handler struct {
	db              *gorm.DB
	location        *time.Location
	logger          *log.Logger
	metrics         *metrics.Metrics
	tokens          *security.TokenAuthority
	hasher          *security.KeyedHasher
	calendarCache   services.CalendarCache
	clock           func() time.Time
	repositories    *db.Repositories
	identityService *services.IdentityService
	diaryService    *services.DiaryService
	habitService    *services.HabitService
	inquiryService  *services.InquiryService
	publicLimiter   *attemptLimiter
}

// HandlerOptions configures NewHandler. Only SecretKey is required.
type HandlerOptions struct {
	SecretKey   string
	TokenIssuer string
	Location    *time.Location
	Logger      *log.Logger
	Metrics     *metrics.Metrics
	Cache       services.CalendarCache
	Clock       func() time.Time
}
