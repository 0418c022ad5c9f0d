package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/terraincognita07/habitdiary/internal/models"
	"gorm.io/gorm"
)

type diaryEntryRepositoryStub struct {
	mu           sync.Mutex
	entries      map[string]models.DiaryEntry
	findErr      error
	createErr    error
	beforeCreate func(stub *diaryEntryRepositoryStub)
	afterList    func()
	findCalls    int
	createCalls  int
	listCalls    int
}

func newDiaryEntryRepositoryStub() *diaryEntryRepositoryStub {
	return &diaryEntryRepositoryStub{entries: make(map[string]models.DiaryEntry)}
}

func (stub *diaryEntryRepositoryStub) seed(entry models.DiaryEntry) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	stub.entries[entry.ID] = entry
}

func (stub *diaryEntryRepositoryStub) count(userID uint, day string) int {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	matched := 0
	for _, entry := range stub.entries {
		if entry.UserID == userID && entry.Day == day {
			matched++
		}
	}
	return matched
}

func (stub *diaryEntryRepositoryStub) FindByUserAndDayRange(_ context.Context, userID uint, startKey string, endKey string) (models.DiaryEntry, bool, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	stub.findCalls++
	if stub.findErr != nil {
		return models.DiaryEntry{}, false, stub.findErr
	}
	for _, entry := range stub.entries {
		if entry.UserID == userID && entry.Day >= startKey && entry.Day < endKey {
			return entry, true, nil
		}
	}
	return models.DiaryEntry{}, false, nil
}

func (stub *diaryEntryRepositoryStub) ListByUserDayRange(_ context.Context, userID uint, startKey string, endKey string) ([]models.DiaryEntry, error) {
	stub.mu.Lock()
	stub.listCalls++
	entries := make([]models.DiaryEntry, 0)
	for _, entry := range stub.entries {
		if entry.UserID == userID && entry.Day >= startKey && entry.Day < endKey {
			entries = append(entries, entry)
		}
	}
	afterList := stub.afterList
	stub.afterList = nil
	stub.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].Day < entries[j].Day })
	if afterList != nil {
		afterList()
	}
	return entries, nil
}

func (stub *diaryEntryRepositoryStub) ListByUser(_ context.Context, userID uint) ([]models.DiaryEntry, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	entries := make([]models.DiaryEntry, 0)
	for _, entry := range stub.entries {
		if entry.UserID == userID {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Day > entries[j].Day })
	return entries, nil
}

func (stub *diaryEntryRepositoryStub) FindByIDForUser(_ context.Context, userID uint, entryID string) (models.DiaryEntry, bool, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	entry, ok := stub.entries[entryID]
	if !ok || entry.UserID != userID {
		return models.DiaryEntry{}, false, nil
	}
	return entry, true, nil
}

func (stub *diaryEntryRepositoryStub) CreateWithPraises(_ context.Context, entry *models.DiaryEntry) error {
	if stub.beforeCreate != nil {
		stub.beforeCreate(stub)
	}

	stub.mu.Lock()
	defer stub.mu.Unlock()
	stub.createCalls++
	if stub.createErr != nil {
		return stub.createErr
	}
	for _, existing := range stub.entries {
		if existing.UserID == entry.UserID && existing.Day == entry.Day {
			return fmt.Errorf("insert diary entry: %w", gorm.ErrDuplicatedKey)
		}
	}
	for index := range entry.Praises {
		entry.Praises[index].EntryID = entry.ID
	}
	stub.entries[entry.ID] = *entry
	return nil
}

func (stub *diaryEntryRepositoryStub) UpdateForUser(_ context.Context, userID uint, entry *models.DiaryEntry, replacePraises bool) (bool, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	stored, ok := stub.entries[entry.ID]
	if !ok || stored.UserID != userID {
		return false, nil
	}
	stored.Reflection = entry.Reflection
	stored.AdditionalNotes = entry.AdditionalNotes
	stored.UpdatedAt = entry.UpdatedAt
	if replacePraises {
		stored.Praises = append([]models.Praise(nil), entry.Praises...)
	}
	stub.entries[entry.ID] = stored
	return true, nil
}

func (stub *diaryEntryRepositoryStub) DeleteForUser(_ context.Context, userID uint, entryID string) (bool, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	stored, ok := stub.entries[entryID]
	if !ok || stored.UserID != userID {
		return false, nil
	}
	delete(stub.entries, entryID)
	return true, nil
}

type habitRepositoryStub struct {
	mu      sync.Mutex
	habits  map[uint]models.Habit
	findErr error
}

func newHabitRepositoryStub() *habitRepositoryStub {
	return &habitRepositoryStub{habits: make(map[uint]models.Habit)}
}

func (stub *habitRepositoryStub) FindByUser(_ context.Context, userID uint) (models.Habit, bool, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	if stub.findErr != nil {
		return models.Habit{}, false, stub.findErr
	}
	habit, ok := stub.habits[userID]
	return habit, ok, nil
}

func (stub *habitRepositoryStub) Create(_ context.Context, habit *models.Habit) error {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	if _, exists := stub.habits[habit.UserID]; exists {
		return gorm.ErrDuplicatedKey
	}
	stub.habits[habit.UserID] = *habit
	return nil
}

func (stub *habitRepositoryStub) Save(_ context.Context, habit *models.Habit) error {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	stub.habits[habit.UserID] = *habit
	return nil
}

func (stub *habitRepositoryStub) DeleteByUser(_ context.Context, userID uint) (bool, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	if _, exists := stub.habits[userID]; !exists {
		return false, nil
	}
	delete(stub.habits, userID)
	return true, nil
}

type calendarCacheStub struct {
	mu       sync.Mutex
	values   map[string][]byte
	versions map[string]int64
	getErr   error
	bumpErr  error
	gets     int
	sets     int
	bumps    []string
}

func newCalendarCacheStub() *calendarCacheStub {
	return &calendarCacheStub{values: make(map[string][]byte), versions: make(map[string]int64)}
}

func (stub *calendarCacheStub) Get(_ context.Context, key string) ([]byte, bool, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	stub.gets++
	if stub.getErr != nil {
		return nil, false, stub.getErr
	}
	value, ok := stub.values[key]
	return value, ok, nil
}

func (stub *calendarCacheStub) Set(_ context.Context, key string, value []byte) error {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	stub.sets++
	stub.values[key] = value
	return nil
}

func (stub *calendarCacheStub) Version(_ context.Context, key string) (int64, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	return stub.versions[key], nil
}

func (stub *calendarCacheStub) Bump(_ context.Context, key string) (int64, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	stub.bumps = append(stub.bumps, key)
	if stub.bumpErr != nil {
		return 0, stub.bumpErr
	}
	stub.versions[key]++
	return stub.versions[key], nil
}

var fixedNow = time.Date(2024, time.March, 10, 15, 30, 0, 0, time.UTC)

func newTestDiaryService(entries *diaryEntryRepositoryStub, habits *habitRepositoryStub, cache CalendarCache) *DiaryService {
	service := NewDiaryService(entries, habits, cache, time.UTC)
	service.SetClock(func() time.Time { return fixedNow })
	var mu sync.Mutex
	counter := 0
	service.newID = func() string {
		mu.Lock()
		defer mu.Unlock()
		counter++
		return fmt.Sprintf("id-%03d", counter)
	}
	return service
}

func validInput() DiaryEntryInput {
	return DiaryEntryInput{
		Reflection: models.ReflectionGood,
		Praises:    []string{"woke up early", "went for a run", "read a chapter"},
	}
}

func day(value string) time.Time {
	parsed, err := time.ParseInLocation(DayLayout, value, time.UTC)
	if err != nil {
		panic(err)
	}
	return parsed
}
