package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/terraincognita07/habitdiary/internal/models"
	"gorm.io/gorm"
)

type DiaryEntryRepository interface {
	FindByUserAndDayRange(ctx context.Context, userID uint, startKey string, endKey string) (models.DiaryEntry, bool, error)
	ListByUserDayRange(ctx context.Context, userID uint, startKey string, endKey string) ([]models.DiaryEntry, error)
	ListByUser(ctx context.Context, userID uint) ([]models.DiaryEntry, error)
	FindByIDForUser(ctx context.Context, userID uint, entryID string) (models.DiaryEntry, bool, error)
	CreateWithPraises(ctx context.Context, entry *models.DiaryEntry) error
	UpdateForUser(ctx context.Context, userID uint, entry *models.DiaryEntry, replacePraises bool) (bool, error)
	DeleteForUser(ctx context.Context, userID uint, entryID string) (bool, error)
}

type HabitLookup interface {
	FindByUser(ctx context.Context, userID uint) (models.Habit, bool, error)
}

// CalendarCache stores serialized month projections under versioned keys.
// Writes bump the month version, so a snapshot built from a read that
// overlapped a write lands under a version nobody reads again.
// Implementations own the expiry policy. A failing cache is treated as a miss.
type CalendarCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Version(ctx context.Context, key string) (int64, error)
	Bump(ctx context.Context, key string) (int64, error)
}

type Admission struct {
	Exists  bool   `json:"exists"`
	EntryID string `json:"entry_id,omitempty"`
}

type CalendarView struct {
	Year    int             `json:"year"`
	Month   int             `json:"month"`
	Habit   *models.Habit   `json:"habit"`
	Entries []CalendarEntry `json:"entries"`
	Cells   []CalendarCell  `json:"calendar_cells"`
}

type calendarSnapshot struct {
	Entries []CalendarEntry `json:"entries"`
	Cells   []CalendarCell  `json:"cells"`
}

type DiaryService struct {
	entries  DiaryEntryRepository
	habits   HabitLookup
	cache    CalendarCache
	location *time.Location
	logger   *log.Logger
	now      func() time.Time
	newID    func() string
}

func NewDiaryService(entries DiaryEntryRepository, habits HabitLookup, cache CalendarCache, location *time.Location) *DiaryService {
	if location == nil {
		location = time.UTC
	}
	return &DiaryService{
		entries:  entries,
		habits:   habits,
		cache:    cache,
		location: location,
		logger:   log.New(io.Discard),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (service *DiaryService) SetClock(now func() time.Time) {
	if now != nil {
		service.now = now
	}
}

func (service *DiaryService) SetLogger(logger *log.Logger) {
	if logger != nil {
		service.logger = logger
	}
}

func (service *DiaryService) Today() time.Time {
	return DateAtLocation(service.now(), service.location)
}

func (service *DiaryService) CheckExisting(ctx context.Context, userID uint, day time.Time) (Admission, error) {
	startKey, endKey := DayKeyRange(day, service.location)
	entry, found, err := service.entries.FindByUserAndDayRange(ctx, userID, startKey, endKey)
	if err != nil {
		return Admission{}, storeFailure("check existing entry", err)
	}
	if !found {
		return Admission{}, nil
	}
	return Admission{Exists: true, EntryID: entry.ID}, nil
}

// CreateEntry admits at most one entry per user and calendar day. The
// pre-check only spares a write. The unique index on (user_id, day) decides
// races, and its violation is reported like a pre-check hit.
func (service *DiaryService) CreateEntry(ctx context.Context, userID uint, day time.Time, input DiaryEntryInput) (models.DiaryEntry, error) {
	normalized, err := NormalizeDiaryEntryInput(input)
	if err != nil {
		return models.DiaryEntry{}, err
	}

	dayKey := DayKey(day, service.location)
	if dayKey > DayKey(service.now(), service.location) {
		return models.DiaryEntry{}, ErrFutureDate
	}

	admission, err := service.CheckExisting(ctx, userID, day)
	if err != nil {
		return models.DiaryEntry{}, err
	}
	if admission.Exists {
		return models.DiaryEntry{}, &DuplicateEntryError{EntryID: admission.EntryID}
	}

	entry := models.DiaryEntry{
		ID:              service.newID(),
		UserID:          userID,
		Day:             dayKey,
		Reflection:      normalized.Reflection,
		AdditionalNotes: normalized.AdditionalNotes,
		Praises:         service.buildPraises(normalized.Praises),
	}
	if err := service.entries.CreateWithPraises(ctx, &entry); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.DiaryEntry{}, service.resolveDuplicate(ctx, userID, day, err)
		}
		return models.DiaryEntry{}, storeFailure("create entry", err)
	}

	service.invalidateMonth(ctx, userID, dayKey)
	return entry, nil
}

func (service *DiaryService) resolveDuplicate(ctx context.Context, userID uint, day time.Time, cause error) error {
	admission, err := service.CheckExisting(ctx, userID, day)
	if err != nil {
		return err
	}
	if !admission.Exists {
		return storeFailure("create entry", cause)
	}
	return &DuplicateEntryError{EntryID: admission.EntryID}
}

func (service *DiaryService) GetEntry(ctx context.Context, userID uint, entryID string) (models.DiaryEntry, error) {
	entry, found, err := service.entries.FindByIDForUser(ctx, userID, entryID)
	if err != nil {
		return models.DiaryEntry{}, storeFailure("load entry", err)
	}
	if !found {
		return models.DiaryEntry{}, ErrEntryNotFound
	}
	return entry, nil
}

func (service *DiaryService) UpdateEntry(ctx context.Context, userID uint, entryID string, update DiaryEntryUpdate) (models.DiaryEntry, error) {
	entry, err := service.GetEntry(ctx, userID, entryID)
	if err != nil {
		return models.DiaryEntry{}, err
	}

	if update.Reflection != nil {
		reflection, err := NormalizeReflection(*update.Reflection)
		if err != nil {
			return models.DiaryEntry{}, err
		}
		entry.Reflection = reflection
	}
	if update.AdditionalNotes != nil {
		entry.AdditionalNotes = TrimEntryNotes(*update.AdditionalNotes)
	}
	replacePraises := update.Praises != nil
	if replacePraises {
		praises, err := NormalizePraises(update.Praises)
		if err != nil {
			return models.DiaryEntry{}, err
		}
		entry.Praises = service.buildPraises(praises)
	}
	entry.UpdatedAt = service.now()

	updated, err := service.entries.UpdateForUser(ctx, userID, &entry, replacePraises)
	if err != nil {
		return models.DiaryEntry{}, storeFailure("update entry", err)
	}
	if !updated {
		return models.DiaryEntry{}, ErrEntryNotFound
	}

	service.invalidateMonth(ctx, userID, entry.Day)
	return service.GetEntry(ctx, userID, entryID)
}

func (service *DiaryService) DeleteEntry(ctx context.Context, userID uint, entryID string) error {
	entry, err := service.GetEntry(ctx, userID, entryID)
	if err != nil {
		return err
	}

	deleted, err := service.entries.DeleteForUser(ctx, userID, entryID)
	if err != nil {
		return storeFailure("delete entry", err)
	}
	if !deleted {
		return ErrEntryNotFound
	}

	service.invalidateMonth(ctx, userID, entry.Day)
	return nil
}

func (service *DiaryService) ListHistory(ctx context.Context, userID uint) ([]models.DiaryEntry, error) {
	entries, err := service.entries.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeFailure("list entries", err)
	}
	return entries, nil
}

// Calendar returns the month grid together with the user's habit, which is
// nil when none has been registered yet.
func (service *DiaryService) Calendar(ctx context.Context, userID uint, year int, month int) (CalendarView, error) {
	if year < 1 || year > 9999 || month < 1 || month > 12 {
		return CalendarView{}, ErrInvalidMonth
	}

	view := CalendarView{Year: year, Month: month}

	habit, found, err := service.habits.FindByUser(ctx, userID)
	if err != nil {
		return CalendarView{}, storeFailure("load habit", err)
	}
	if found {
		view.Habit = &habit
	}

	snapshot, err := service.monthSnapshot(ctx, userID, year, time.Month(month))
	if err != nil {
		return CalendarView{}, err
	}
	view.Entries = snapshot.Entries
	view.Cells = snapshot.Cells
	return view, nil
}

func (service *DiaryService) monthSnapshot(ctx context.Context, userID uint, year int, month time.Month) (calendarSnapshot, error) {
	key, cacheable := service.snapshotKey(ctx, userID, year, month)
	if cacheable {
		if cached, ok := service.cachedSnapshot(ctx, key); ok {
			return cached, nil
		}
	}

	startKey, endKey := MonthKeyRange(year, month)
	entries, err := service.entries.ListByUserDayRange(ctx, userID, startKey, endKey)
	if err != nil {
		return calendarSnapshot{}, storeFailure("list month entries", err)
	}

	snapshot := calendarSnapshot{
		Entries: make([]CalendarEntry, 0, len(entries)),
		Cells:   BuildCalendarGrid(year, month, entries),
	}
	for _, entry := range entries {
		snapshot.Entries = append(snapshot.Entries, NewCalendarEntry(entry))
	}

	if cacheable {
		if payload, err := json.Marshal(snapshot); err == nil {
			_ = service.cache.Set(ctx, key, payload)
		}
	}
	return snapshot, nil
}

// snapshotKey resolves the month version before the store is read. Without a
// version the month is served uncached.
func (service *DiaryService) snapshotKey(ctx context.Context, userID uint, year int, month time.Month) (string, bool) {
	if service.cache == nil {
		return "", false
	}
	version, err := service.cache.Version(ctx, CalendarVersionKey(userID, year, month))
	if err != nil {
		return "", false
	}
	return CalendarCacheKey(userID, year, month, version), true
}

func (service *DiaryService) cachedSnapshot(ctx context.Context, key string) (calendarSnapshot, bool) {
	payload, found, err := service.cache.Get(ctx, key)
	if err != nil || !found {
		return calendarSnapshot{}, false
	}
	var snapshot calendarSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil || len(snapshot.Cells) != CalendarGridCells {
		return calendarSnapshot{}, false
	}
	return snapshot, true
}

func (service *DiaryService) invalidateMonth(ctx context.Context, userID uint, dayKey string) {
	if service.cache == nil {
		return
	}
	day, err := time.Parse(DayLayout, dayKey)
	if err != nil {
		return
	}

	// The write is committed; a cancelled request must not skip the bump.
	ctx = context.WithoutCancel(ctx)
	versionKey := CalendarVersionKey(userID, day.Year(), day.Month())
	for attempt := 1; attempt <= invalidationAttempts; attempt++ {
		if _, err = service.cache.Bump(ctx, versionKey); err == nil {
			return
		}
	}
	service.logger.Error("calendar cache invalidation failed", "key", versionKey, "attempts", invalidationAttempts, "err", err)
}

func (service *DiaryService) buildPraises(texts []string) []models.Praise {
	praises := make([]models.Praise, 0, len(texts))
	for index, text := range texts {
		praises = append(praises, models.Praise{
			ID:       service.newID(),
			Position: index,
			Text:     text,
		})
	}
	return praises
}

const invalidationAttempts = 2

func CalendarVersionKey(userID uint, year int, month time.Month) string {
	return fmt.Sprintf("calendar:%d:%04d-%02d:version", userID, year, int(month))
}

func CalendarCacheKey(userID uint, year int, month time.Month, version int64) string {
	return fmt.Sprintf("calendar:%d:%04d-%02d:v%d", userID, year, int(month), version)
}
