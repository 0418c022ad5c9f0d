package api

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestHealthPingsDatabase(t *testing.T) {
	env := newTestApp(t)

	response := env.request(t, http.MethodGet, "/healthz", "", nil)
	defer response.Body.Close()
	if response.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", response.StatusCode)
	}

	payload := map[string]string{}
	decodeJSON(t, response.Body, &payload)
	if payload["status"] != "ok" {
		t.Fatalf("unexpected payload %#v", payload)
	}
}

func TestHealthReportsClosedDatabase(t *testing.T) {
	env := newTestApp(t)
	sqlDB, err := env.database.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		t.Fatalf("close sql db: %v", err)
	}

	response := env.request(t, http.MethodGet, "/healthz", "", nil)
	defer response.Body.Close()
	if response.StatusCode != fiber.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", response.StatusCode)
	}
}

func TestUnknownRouteReturnsJSONNotFound(t *testing.T) {
	env := newTestApp(t)

	response := env.request(t, http.MethodGet, "/nope", "", nil)
	defer response.Body.Close()
	if response.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", response.StatusCode)
	}
	if got := readAPIError(t, response.Body); got != "not found" {
		t.Fatalf("unexpected error %q", got)
	}
}

func TestNewHandlerRejectsWeakSecret(t *testing.T) {
	env := newTestApp(t)

	if _, err := NewHandler(env.database, HandlerOptions{SecretKey: "short"}); err == nil {
		t.Fatal("expected weak secret to be rejected")
	}
	if _, err := NewHandler(nil, HandlerOptions{SecretKey: testSecretKey}); err == nil {
		t.Fatal("expected nil database to be rejected")
	}
}
