package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/habitdiary/internal/cache"
	"github.com/terraincognita07/habitdiary/internal/db"
	"github.com/terraincognita07/habitdiary/internal/metrics"
	"github.com/terraincognita07/habitdiary/internal/models"
	"github.com/terraincognita07/habitdiary/internal/services"
	"gorm.io/gorm"
)

const testSecretKey = "test-secret-key-with-at-least-32-characters"

var testNow = time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC)

type testApp struct {
	app      *fiber.App
	handler  *Handler
	database *gorm.DB
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return newTestAppWithLocation(t, time.UTC)
}

func newTestAppWithLocation(t *testing.T, location *time.Location) *testApp {
	t.Helper()
	return newTestAppOnDatabase(t, openTestDatabase(t), location, cache.NewMemory(64, time.Minute))
}

func openTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "habitdiary-api-test.db")
	database, err := db.OpenSQLite(databasePath, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close(database)
	})
	return database
}

// newTestAppOnDatabase builds one server instance. Several instances may share
// a database to stand in for replicas.
func newTestAppOnDatabase(t *testing.T, database *gorm.DB, location *time.Location, calendarCache services.CalendarCache) *testApp {
	t.Helper()

	handler, err := NewHandler(database, HandlerOptions{
		SecretKey: testSecretKey,
		Location:  location,
		Metrics:   metrics.New(),
		Cache:     calendarCache,
		Clock:     func() time.Time { return testNow },
	})
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	app := fiber.New()
	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return &testApp{app: app, handler: handler, database: database}
}

func (env *testApp) mintToken(t *testing.T, subject string) string {
	t.Helper()

	token, err := env.handler.Tokens().Mint(subject, time.Hour)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return "Bearer " + token
}

// signup registers subject and returns a ready Authorization header value.
func (env *testApp) signup(t *testing.T, subject string) string {
	t.Helper()

	authorization := env.mintToken(t, subject)
	response := env.request(t, http.MethodPost, "/api/signup", authorization, nil)
	defer response.Body.Close()
	if response.StatusCode != fiber.StatusCreated {
		t.Fatalf("signup %s: expected 201, got %d", subject, response.StatusCode)
	}
	return authorization
}

func (env *testApp) request(t *testing.T, method string, path string, authorization string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if authorization != "" {
		request.Header.Set("Authorization", authorization)
	}

	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return response
}

func (env *testApp) createEntry(t *testing.T, authorization string, date string) models.DiaryEntry {
	t.Helper()

	response := env.request(t, http.MethodPost, "/api/dashboard/records", authorization, entryBody(date))
	defer response.Body.Close()
	if response.StatusCode != fiber.StatusCreated {
		t.Fatalf("create entry %s: expected 201, got %d", date, response.StatusCode)
	}
	var entry models.DiaryEntry
	decodeJSON(t, response.Body, &entry)
	return entry
}

func entryBody(date string) map[string]any {
	return map[string]any{
		"date":             date,
		"reflection":       "GOOD",
		"additional_notes": "walked after lunch",
		"praises": []map[string]string{
			{"text": "woke up on time"},
			{"text": "stretched"},
			{"text": "kept the streak"},
		},
	}
}

func decodeJSON(t *testing.T, body io.Reader, target any) {
	t.Helper()

	raw, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		t.Fatalf("decode response body %q: %v", string(raw), err)
	}
}

func readAPIError(t *testing.T, body io.Reader) string {
	t.Helper()

	payload := map[string]any{}
	decodeJSON(t, body, &payload)
	message, _ := payload["error"].(string)
	return message
}
