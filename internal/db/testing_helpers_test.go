package db

import (
	"path/filepath"
	"testing"

	"github.com/terraincognita07/habitdiary/internal/models"
	"gorm.io/gorm"
)

func openTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "habitdiary-test.db")
	database, err := OpenSQLite(databasePath, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if err := Close(database); err != nil {
			t.Errorf("close sqlite: %v", err)
		}
	})
	return database
}

func createTestUser(t *testing.T, database *gorm.DB, externalID string) models.User {
	t.Helper()

	user := models.User{ExternalID: externalID}
	if err := database.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", externalID, err)
	}
	return user
}
