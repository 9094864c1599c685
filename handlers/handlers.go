// handlers/handlers.go - Shared handler wiring and response shaping
package handlers

import (
	"errors"
	"time"

	"achievements/models"
	"achievements/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var (
	achievementService *services.AchievementService
	statsService       *services.StatsService
)

// InitHandlers wires the handler package to its services.
func InitHandlers(db *gorm.DB) {
	if db == nil {
		panic("Database not initialized before InitHandlers")
	}
	achievementService = services.NewAchievementService(db)
	statsService = services.NewStatsService(db)
}

// ================== RESPONSE SHAPES ==================

type translationPayload struct {
	Language    models.Language `json:"language"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
}

// achievementResponse is the single-language view: the translation field is
// null when the achievement has no translation for the requested language.
type achievementResponse struct {
	ID          uint                `json:"id"`
	Score       int                 `json:"score"`
	GrantedAt   *time.Time          `json:"granted_at,omitempty"`
	Translation *translationPayload `json:"translation"`
}

// achievementFullResponse is the "all" view: one entry per language the
// achievement is actually translated into, English before Russian.
type achievementFullResponse struct {
	ID           uint                 `json:"id"`
	Score        int                  `json:"score"`
	GrantedAt    *time.Time           `json:"granted_at,omitempty"`
	Translations []translationPayload `json:"translations"`
}

type userStatsResponse struct {
	ID           uint                  `json:"id"`
	Username     string                `json:"username"`
	Language     models.Language       `json:"language"`
	TotalScore   int                   `json:"total_score"`
	Achievements []achievementResponse `json:"achievements"`
}

func shapeTranslation(tl *models.AchievementTranslation) *translationPayload {
	if tl == nil {
		return nil
	}
	return &translationPayload{
		Language:    tl.Language,
		Title:       tl.Title,
		Description: tl.Description,
	}
}

func shapeAchievement(la services.LocalizedAchievement, language models.Language) interface{} {
	if language.IsConcrete() {
		return shapeLocalized(la)
	}

	translations := make([]translationPayload, 0, len(la.Slots))
	for _, slot := range la.Slots {
		if slot != nil {
			translations = append(translations, *shapeTranslation(slot))
		}
	}
	return achievementFullResponse{
		ID:           la.Achievement.ID,
		Score:        la.Achievement.Score,
		GrantedAt:    la.GrantedAt,
		Translations: translations,
	}
}

// shapeLocalized shapes an achievement already localized to one language.
func shapeLocalized(la services.LocalizedAchievement) achievementResponse {
	resp := achievementResponse{
		ID:        la.Achievement.ID,
		Score:     la.Achievement.Score,
		GrantedAt: la.GrantedAt,
	}
	if len(la.Slots) > 0 {
		resp.Translation = shapeTranslation(la.Slots[0])
	}
	return resp
}

// shapeUserStats builds the user payload used by the statistics endpoints.
// When withAchievements is false the achievements field stays null.
func shapeUserStats(user models.User, withAchievements bool) (userStatsResponse, error) {
	resp := userStatsResponse{
		ID:         user.ID,
		Username:   user.Username,
		Language:   user.Language,
		TotalScore: user.TotalScore,
	}
	if !withAchievements {
		return resp, nil
	}

	achievements, err := achievementService.UserAchievements(user.ID)
	if err != nil {
		return resp, err
	}
	resp.Achievements = make([]achievementResponse, 0, len(achievements))
	for _, la := range achievements {
		resp.Achievements = append(resp.Achievements, shapeLocalized(la))
	}
	return resp, nil
}

// ================== ERROR MAPPING ==================

// serviceError maps service-layer errors onto HTTP statuses.
func serviceError(c *fiber.Ctx, err error) error {
	var status int
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrAchievementNotFound),
		errors.Is(err, services.ErrNoUsers),
		errors.Is(err, services.ErrNotEnoughUsers):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrUsernameTaken):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrUsernameRequired),
		errors.Is(err, services.ErrInvalidScore),
		errors.Is(err, services.ErrConcreteLanguage):
		status = fiber.StatusBadRequest
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Internal server error",
		})
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}

// languageQuery reads the optional ?language= selector, defaulting to "all".
func languageQuery(c *fiber.Ctx) (models.Language, error) {
	raw := c.Query("language")
	if raw == "" {
		return models.LangAll, nil
	}
	return models.ParseLanguage(raw)
}
