package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/terraincognita07/cyclemark/internal/db"
	"github.com/terraincognita07/cyclemark/internal/services"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecretKey  = "test-secret-key-with-enough-entropy-0123456789"
	testPassphrase = "correct horse battery staple"
)

var testNow = time.Date(2024, time.February, 15, 10, 0, 0, 0, time.UTC)

type testApp struct {
	app     *fiber.App
	handler *Handler
	store   services.PeriodRecordStore
}

func newTestApp(t *testing.T) testApp {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "cyclemark-api-test.db"), nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return newTestAppWithStore(t, db.NewRepositories(database).PeriodRecords)
}

func newTestAppWithStore(t *testing.T, store services.PeriodRecordStore) testApp {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassphrase), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash passphrase: %v", err)
	}
	logger, _ := test.NewNullLogger()

	handler, err := NewHandler(store, HandlerOptions{
		SecretKey:           testSecretKey,
		OwnerPassphraseHash: string(hash),
		Location:            time.UTC,
		Calculator:          services.NewCycleCalculator(14, 4),
		Logger:              logger,
	})
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}
	handler.now = func() time.Time { return testNow }

	return testApp{app: NewApp(handler, io.Discard), handler: handler, store: store}
}

func (env testApp) token(t *testing.T) string {
	t.Helper()
	token, err := IssueOwnerToken([]byte(testSecretKey), time.Hour, testNow)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func (env testApp) request(t *testing.T, method string, path string, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	t.Cleanup(func() {
		_ = response.Body.Close()
	})
	return response
}

func (env testApp) click(t *testing.T, token string, day string) ClickView {
	t.Helper()
	response := env.request(t, http.MethodPost, "/api/days/"+day+"/click", token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("click %s: expected status 200, got %d", day, response.StatusCode)
	}
	return decodeJSON[ClickView](t, response.Body)
}

func decodeJSON[T any](t *testing.T, body io.Reader) T {
	t.Helper()

	var payload T
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return payload
}

func readAPIError(t *testing.T, body io.Reader) string {
	t.Helper()
	payload := decodeJSON[map[string]any](t, body)
	message, _ := payload["error"].(string)
	return message
}

func assertStatus(t *testing.T, response *http.Response, want int) {
	t.Helper()
	if response.StatusCode != want {
		raw, _ := io.ReadAll(response.Body)
		t.Fatalf("expected status %d, got %d: %s", want, response.StatusCode, strings.TrimSpace(string(raw)))
	}
}

// failingStore breaks MaxGroupID so writes cannot be planned.
type failingStore struct {
	services.PeriodRecordStore
}

func (failingStore) MaxGroupID(context.Context) (int64, error) {
	return 0, errors.New("database is locked")
}
