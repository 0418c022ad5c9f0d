package db

import (
	"context"
	"errors"
	"testing"

	"github.com/terraincognita07/habitdiary/internal/models"
	"gorm.io/gorm"
)

func newTestEntry(id string, userID uint, day string, praises ...string) *models.DiaryEntry {
	entry := &models.DiaryEntry{
		ID:         id,
		UserID:     userID,
		Day:        day,
		Reflection: models.ReflectionGood,
	}
	for index, text := range praises {
		entry.Praises = append(entry.Praises, models.Praise{
			ID:       id + "-p" + string(rune('a'+index)),
			Position: index,
			Text:     text,
		})
	}
	return entry
}

func TestDiaryEntryRepositoryRejectsSecondEntryForSameDay(t *testing.T) {
	database := openTestDatabase(t)
	user := createTestUser(t, database, "subject-1")
	repo := NewDiaryEntryRepository(database)
	ctx := context.Background()

	if err := repo.CreateWithPraises(ctx, newTestEntry("entry-1", user.ID, "2024-02-10", "a", "b", "c")); err != nil {
		t.Fatalf("create first entry: %v", err)
	}

	err := repo.CreateWithPraises(ctx, newTestEntry("entry-2", user.ID, "2024-02-10", "d", "e", "f"))
	if err == nil {
		t.Fatal("expected unique violation for second entry on the same day")
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) || !IsUniqueViolation(err) {
		t.Fatalf("expected duplicated key error, got %v", err)
	}

	var praiseCount int64
	if err := database.Model(&models.Praise{}).Where("entry_id = ?", "entry-2").Count(&praiseCount).Error; err != nil {
		t.Fatalf("count praises: %v", err)
	}
	if praiseCount != 0 {
		t.Fatalf("expected rejected entry to leave no praises, got %d", praiseCount)
	}
}

func TestDiaryEntryRepositoryAllowsSameDayForDifferentUsers(t *testing.T) {
	database := openTestDatabase(t)
	first := createTestUser(t, database, "subject-1")
	second := createTestUser(t, database, "subject-2")
	repo := NewDiaryEntryRepository(database)
	ctx := context.Background()

	if err := repo.CreateWithPraises(ctx, newTestEntry("entry-1", first.ID, "2024-02-10")); err != nil {
		t.Fatalf("create first user entry: %v", err)
	}
	if err := repo.CreateWithPraises(ctx, newTestEntry("entry-2", second.ID, "2024-02-10")); err != nil {
		t.Fatalf("create second user entry: %v", err)
	}
}

func TestDiaryEntryRepositoryFindByUserAndDayRange(t *testing.T) {
	database := openTestDatabase(t)
	user := createTestUser(t, database, "subject-1")
	repo := NewDiaryEntryRepository(database)
	ctx := context.Background()

	if err := repo.CreateWithPraises(ctx, newTestEntry("entry-1", user.ID, "2024-02-10")); err != nil {
		t.Fatalf("create entry: %v", err)
	}

	entry, found, err := repo.FindByUserAndDayRange(ctx, user.ID, "2024-02-10", "2024-02-11")
	if err != nil {
		t.Fatalf("find entry: %v", err)
	}
	if !found || entry.ID != "entry-1" {
		t.Fatalf("expected entry-1, got found=%t id=%q", found, entry.ID)
	}

	_, found, err = repo.FindByUserAndDayRange(ctx, user.ID, "2024-02-11", "2024-02-12")
	if err != nil {
		t.Fatalf("find next day: %v", err)
	}
	if found {
		t.Fatal("expected half-open range to exclude the previous day")
	}
}

func TestDiaryEntryRepositoryListByUserDayRangeCoversMonth(t *testing.T) {
	database := openTestDatabase(t)
	user := createTestUser(t, database, "subject-1")
	repo := NewDiaryEntryRepository(database)
	ctx := context.Background()

	for index, day := range []string{"2024-01-31", "2024-02-01", "2024-02-29", "2024-03-01"} {
		id := "entry-" + string(rune('a'+index))
		if err := repo.CreateWithPraises(ctx, newTestEntry(id, user.ID, day)); err != nil {
			t.Fatalf("create %s: %v", day, err)
		}
	}

	entries, err := repo.ListByUserDayRange(ctx, user.ID, "2024-02-01", "2024-03-01")
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries in February, got %d", len(entries))
	}
	if entries[0].Day != "2024-02-01" || entries[1].Day != "2024-02-29" {
		t.Fatalf("unexpected days: %s, %s", entries[0].Day, entries[1].Day)
	}
}

func TestDiaryEntryRepositoryUpdateForUserRespectsOwnership(t *testing.T) {
	database := openTestDatabase(t)
	owner := createTestUser(t, database, "owner")
	stranger := createTestUser(t, database, "stranger")
	repo := NewDiaryEntryRepository(database)
	ctx := context.Background()

	entry := newTestEntry("entry-1", owner.ID, "2024-02-10", "a", "b", "c")
	if err := repo.CreateWithPraises(ctx, entry); err != nil {
		t.Fatalf("create entry: %v", err)
	}

	change := newTestEntry("entry-1", owner.ID, "2024-02-10", "x", "y", "z", "w")
	change.Reflection = models.ReflectionVeryGood

	updated, err := repo.UpdateForUser(ctx, stranger.ID, change, true)
	if err != nil {
		t.Fatalf("update as stranger: %v", err)
	}
	if updated {
		t.Fatal("expected stranger update to report no match")
	}

	updated, err = repo.UpdateForUser(ctx, owner.ID, change, true)
	if err != nil {
		t.Fatalf("update as owner: %v", err)
	}
	if !updated {
		t.Fatal("expected owner update to succeed")
	}

	stored, found, err := repo.FindByIDForUser(ctx, owner.ID, "entry-1")
	if err != nil || !found {
		t.Fatalf("reload entry: found=%t err=%v", found, err)
	}
	if stored.Reflection != models.ReflectionVeryGood {
		t.Fatalf("expected reflection to change, got %q", stored.Reflection)
	}
	if len(stored.Praises) != 4 || stored.Praises[0].Text != "x" || stored.Praises[3].Text != "w" {
		t.Fatalf("unexpected praises after replace: %#v", stored.Praises)
	}
}

func TestDiaryEntryRepositoryDeleteForUserRemovesPraises(t *testing.T) {
	database := openTestDatabase(t)
	owner := createTestUser(t, database, "owner")
	stranger := createTestUser(t, database, "stranger")
	repo := NewDiaryEntryRepository(database)
	ctx := context.Background()

	if err := repo.CreateWithPraises(ctx, newTestEntry("entry-1", owner.ID, "2024-02-10", "a", "b", "c")); err != nil {
		t.Fatalf("create entry: %v", err)
	}

	deleted, err := repo.DeleteForUser(ctx, stranger.ID, "entry-1")
	if err != nil {
		t.Fatalf("delete as stranger: %v", err)
	}
	if deleted {
		t.Fatal("expected stranger delete to report no match")
	}

	var praiseCount int64
	database.Model(&models.Praise{}).Where("entry_id = ?", "entry-1").Count(&praiseCount)
	if praiseCount != 3 {
		t.Fatalf("expected praises to survive stranger delete, got %d", praiseCount)
	}

	deleted, err = repo.DeleteForUser(ctx, owner.ID, "entry-1")
	if err != nil {
		t.Fatalf("delete as owner: %v", err)
	}
	if !deleted {
		t.Fatal("expected owner delete to succeed")
	}

	database.Model(&models.Praise{}).Where("entry_id = ?", "entry-1").Count(&praiseCount)
	if praiseCount != 0 {
		t.Fatalf("expected praises to be removed, got %d", praiseCount)
	}

	if err := repo.CreateWithPraises(ctx, newTestEntry("entry-2", owner.ID, "2024-02-10")); err != nil {
		t.Fatalf("expected the day to be free after delete: %v", err)
	}
}

func TestDiaryEntryRepositoryListByUserNewestFirst(t *testing.T) {
	database := openTestDatabase(t)
	user := createTestUser(t, database, "subject-1")
	repo := NewDiaryEntryRepository(database)
	ctx := context.Background()

	for index, day := range []string{"2024-02-01", "2024-02-03", "2024-02-02"} {
		id := "entry-" + string(rune('a'+index))
		if err := repo.CreateWithPraises(ctx, newTestEntry(id, user.ID, day, "p1", "p2", "p3")); err != nil {
			t.Fatalf("create %s: %v", day, err)
		}
	}

	entries, err := repo.ListByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Day != "2024-02-03" || entries[2].Day != "2024-02-01" {
		t.Fatalf("expected newest first, got %s..%s", entries[0].Day, entries[2].Day)
	}
	if len(entries[0].Praises) != 3 || entries[0].Praises[0].Text != "p1" {
		t.Fatalf("expected praises preloaded in position order, got %#v", entries[0].Praises)
	}
}
