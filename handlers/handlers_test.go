package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"achievements/database"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	InitHandlers(db)

	app := fiber.New()
	RegisterRoutes(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}

	var parsed map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("%s %s: invalid JSON response: %v", method, path, err)
	}
	return resp, parsed
}

func createUserHTTP(t *testing.T, app *fiber.App, username, language string) uint {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/user", map[string]interface{}{
		"username": username,
		"language": language,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create user %q: status %d, body %v", username, resp.StatusCode, body)
	}
	return uint(body["id"].(float64))
}

func createAchievementHTTP(t *testing.T, app *fiber.App, score int, translations []map[string]string) uint {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/achievement", map[string]interface{}{
		"score":        score,
		"translations": translations,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create achievement: status %d, body %v", resp.StatusCode, body)
	}
	return uint(body["id"].(float64))
}

func grantHTTP(t *testing.T, app *fiber.App, userID, achievementID uint, grantedAt *time.Time) {
	t.Helper()
	payload := map[string]interface{}{
		"user_id":        userID,
		"achievement_id": achievementID,
	}
	if grantedAt != nil {
		payload["granted_at"] = grantedAt.Format(time.RFC3339)
	}
	resp, body := doJSON(t, app, http.MethodPost, "/achievement/grant", payload)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("grant: status %d, body %v", resp.StatusCode, body)
	}
}

func TestCreateUserEndpoint(t *testing.T) {
	app := newTestApp(t)

	id := createUserHTTP(t, app, "alice", "en")
	if id == 0 {
		t.Fatalf("expected non-zero user id")
	}

	// Duplicate username -> 409
	resp, body := doJSON(t, app, http.MethodPost, "/user", map[string]interface{}{
		"username": "alice",
		"language": "ru",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate username: status %d, body %v", resp.StatusCode, body)
	}

	// The "all" selector is not a storable language -> 400
	resp, _ = doJSON(t, app, http.MethodPost, "/user", map[string]interface{}{
		"username": "bob",
		"language": "all",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("language=all: status %d, want 400", resp.StatusCode)
	}

	// Unknown language -> 400
	resp, _ = doJSON(t, app, http.MethodPost, "/user", map[string]interface{}{
		"username": "bob",
		"language": "fr",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("language=fr: status %d, want 400", resp.StatusCode)
	}
}

func TestCreateAchievementValidation(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/achievement", map[string]interface{}{
		"score": 0,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("score=0: status %d, want 400", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, http.MethodPost, "/achievement", map[string]interface{}{
		"score": 10,
		"translations": []map[string]string{
			{"language": "all", "title": "x", "description": "y"},
		},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("translation language=all: status %d, want 400", resp.StatusCode)
	}
}

func TestGetAchievementShaping(t *testing.T) {
	app := newTestApp(t)

	id := createAchievementHTTP(t, app, 10, []map[string]string{
		{"language": "en", "title": "Winner", "description": "Win a game"},
	})

	// Concrete language with a translation
	resp, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/achievement/%d?language=en", id), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get en: status %d, body %v", resp.StatusCode, body)
	}
	achievement := body["achievement"].(map[string]interface{})
	translation, ok := achievement["translation"].(map[string]interface{})
	if !ok || translation["title"] != "Winner" {
		t.Fatalf("en view: translation = %v", achievement["translation"])
	}

	// Missing translation is null, not an error
	resp, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/achievement/%d?language=ru", id), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get ru: status %d, body %v", resp.StatusCode, body)
	}
	achievement = body["achievement"].(map[string]interface{})
	if achievement["translation"] != nil {
		t.Fatalf("ru view: translation = %v, want null", achievement["translation"])
	}

	// "all" view lists only present translations
	resp, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/achievement/%d", id), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get all: status %d, body %v", resp.StatusCode, body)
	}
	achievement = body["achievement"].(map[string]interface{})
	translations := achievement["translations"].([]interface{})
	if len(translations) != 1 {
		t.Fatalf("all view: %d translations, want 1", len(translations))
	}

	// Unknown language -> 400
	resp, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/achievement/%d?language=de", id), nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("language=de: status %d, want 400", resp.StatusCode)
	}

	// Unknown id -> 404
	resp, _ = doJSON(t, app, http.MethodGet, "/achievement/9999", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown id: status %d, want 404", resp.StatusCode)
	}
}

func TestTranslateEndpointUpserts(t *testing.T) {
	app := newTestApp(t)

	id := createAchievementHTTP(t, app, 10, nil)

	for _, title := range []string{"First", "Second"} {
		resp, body := doJSON(t, app, http.MethodPut, fmt.Sprintf("/achievement/translate/%d", id), map[string]string{
			"language":    "en",
			"title":       title,
			"description": "d",
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("translate: status %d, body %v", resp.StatusCode, body)
		}
	}

	_, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/achievement/%d?language=en", id), nil)
	achievement := body["achievement"].(map[string]interface{})
	translation := achievement["translation"].(map[string]interface{})
	if translation["title"] != "Second" {
		t.Fatalf("title = %v, want Second", translation["title"])
	}

	// Unknown achievement -> 404
	resp, _ := doJSON(t, app, http.MethodPut, "/achievement/translate/9999", map[string]string{
		"language": "en", "title": "x", "description": "y",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown achievement: status %d, want 404", resp.StatusCode)
	}
}

func TestGrantUpdatesTotalScore(t *testing.T) {
	app := newTestApp(t)

	userID := createUserHTTP(t, app, "alice", "en")
	a1 := createAchievementHTTP(t, app, 10, nil)
	a2 := createAchievementHTTP(t, app, 15, nil)

	grantHTTP(t, app, userID, a1, nil)
	grantHTTP(t, app, userID, a2, nil)

	resp, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/user/%d", userID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get user: status %d, body %v", resp.StatusCode, body)
	}
	if body["total_score"].(float64) != 25 {
		t.Fatalf("total_score = %v, want 25", body["total_score"])
	}
	achievements := body["achievements"].([]interface{})
	if len(achievements) != 2 {
		t.Fatalf("achievements = %d, want 2", len(achievements))
	}

	// Granting to an unknown user is a 404 and writes nothing
	resp, _ = doJSON(t, app, http.MethodPost, "/achievement/grant", map[string]interface{}{
		"user_id":        9999,
		"achievement_id": a1,
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown user grant: status %d, want 404", resp.StatusCode)
	}
}

func TestUserAchievementsEndpoint(t *testing.T) {
	app := newTestApp(t)

	userID := createUserHTTP(t, app, "boris", "ru")
	id := createAchievementHTTP(t, app, 10, []map[string]string{
		{"language": "en", "title": "Winner", "description": "Win"},
		{"language": "ru", "title": "Победитель", "description": "Победа"},
	})
	grantHTTP(t, app, userID, id, nil)

	resp, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/achievements/%d", userID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("user achievements: status %d, body %v", resp.StatusCode, body)
	}
	achievements := body["achievements"].([]interface{})
	if len(achievements) != 1 {
		t.Fatalf("achievements = %d, want 1", len(achievements))
	}
	translation := achievements[0].(map[string]interface{})["translation"].(map[string]interface{})
	if translation["language"] != "ru" || translation["title"] != "Победитель" {
		t.Fatalf("expected ru localization, got %v", translation)
	}
}

func TestStatisticsEndpoints(t *testing.T) {
	app := newTestApp(t)

	// Empty store -> 404s
	for _, path := range []string{
		"/statistics/max_achievements",
		"/statistics/max_score",
		"/statistics/max_diff",
		"/statistics/min_diff",
	} {
		resp, _ := doJSON(t, app, http.MethodGet, path, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("%s on empty store: status %d, want 404", path, resp.StatusCode)
		}
	}

	alice := createUserHTTP(t, app, "alice", "en")
	bob := createUserHTTP(t, app, "bob", "en")
	carol := createUserHTTP(t, app, "carol", "en")

	five := createAchievementHTTP(t, app, 5, nil)
	twenty := createAchievementHTTP(t, app, 20, nil)

	grantHTTP(t, app, alice, five, nil)
	grantHTTP(t, app, bob, five, nil)
	grantHTTP(t, app, carol, twenty, nil)

	resp, body := doJSON(t, app, http.MethodGet, "/statistics/max_score", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("max_score: status %d, body %v", resp.StatusCode, body)
	}
	user := body["user"].(map[string]interface{})
	if user["id"].(float64) != float64(carol) {
		t.Fatalf("max_score user = %v, want %d", user["id"], carol)
	}

	resp, body = doJSON(t, app, http.MethodGet, "/statistics/max_achievements", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("max_achievements: status %d, body %v", resp.StatusCode, body)
	}
	if body["count"].(float64) != 1 {
		t.Fatalf("max_achievements count = %v, want 1", body["count"])
	}

	_, body = doJSON(t, app, http.MethodGet, "/statistics/min_diff", nil)
	users := body["users"].([]interface{})
	first := users[0].(map[string]interface{})
	second := users[1].(map[string]interface{})
	if first["id"].(float64) != float64(alice) || second["id"].(float64) != float64(bob) {
		t.Fatalf("min_diff pair = %v/%v, want %d/%d", first["id"], second["id"], alice, bob)
	}

	_, body = doJSON(t, app, http.MethodGet, "/statistics/max_diff", nil)
	users = body["users"].([]interface{})
	first = users[0].(map[string]interface{})
	second = users[1].(map[string]interface{})
	if first["id"].(float64) != float64(carol) || second["id"].(float64) != float64(alice) {
		t.Fatalf("max_diff pair = %v/%v, want %d/%d", first["id"], second["id"], carol, alice)
	}
}

func TestStreakEndpoint(t *testing.T) {
	app := newTestApp(t)

	userID := createUserHTTP(t, app, "steady", "en")
	id := createAchievementHTTP(t, app, 1, nil)

	now := time.Now().UTC()
	for i := 0; i < 7; i++ {
		when := now.AddDate(0, 0, -i)
		grantHTTP(t, app, userID, id, &when)
	}

	resp, body := doJSON(t, app, http.MethodGet, "/statistics/streak?days=7&limit=10", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("streak: status %d, body %v", resp.StatusCode, body)
	}
	users := body["users"].([]interface{})
	if len(users) != 1 {
		t.Fatalf("streak users = %d, want 1", len(users))
	}
	if users[0].(map[string]interface{})["id"].(float64) != float64(userID) {
		t.Fatalf("streak user = %v, want %d", users[0], userID)
	}
}
