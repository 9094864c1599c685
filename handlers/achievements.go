// handlers/achievements.go
package handlers

import (
	"time"

	"achievements/models"

	"github.com/gofiber/fiber/v2"
)

type CreateAchievementRequest struct {
	Score        int                  `json:"score"`
	Translations []translationPayload `json:"translations"`
}

type GrantRequest struct {
	UserID        uint       `json:"user_id"`
	AchievementID uint       `json:"achievement_id"`
	GrantedAt     *time.Time `json:"granted_at"`
}

// CreateAchievement creates an achievement with optional initial translations
// POST /achievement
func CreateAchievement(c *fiber.Ctx) error {
	var req CreateAchievementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	translations := make([]models.AchievementTranslation, 0, len(req.Translations))
	for _, tl := range req.Translations {
		language, err := models.ParseLanguage(string(tl.Language))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
			})
		}
		translations = append(translations, models.AchievementTranslation{
			Language:    language,
			Title:       tl.Title,
			Description: tl.Description,
		})
	}

	achievement, err := achievementService.CreateAchievement(req.Score, translations)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"id":      achievement.ID,
		"score":   achievement.Score,
	})
}

// GetAchievement returns one achievement with its translation(s)
// GET /achievement/:id?language=en|ru|all
func GetAchievement(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid achievement id",
		})
	}

	language, err := languageQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	achievement, err := achievementService.GetAchievement(uint(id), language)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"achievement": shapeAchievement(*achievement, language),
	})
}

// ListAchievements returns all achievements with their translation(s)
// GET /achievement?language=en|ru|all
func ListAchievements(c *fiber.Ctx) error {
	language, err := languageQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	achievements, err := achievementService.ListAchievements(language)
	if err != nil {
		return serviceError(c, err)
	}

	shaped := make([]interface{}, 0, len(achievements))
	for _, la := range achievements {
		shaped = append(shaped, shapeAchievement(la, language))
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"achievements": shaped,
	})
}

// TranslateAchievement upserts the translation for one language
// PUT /achievement/translate/:id
func TranslateAchievement(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid achievement id",
		})
	}

	var req translationPayload
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	language, err := models.ParseLanguage(string(req.Language))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	if err := achievementService.TranslateAchievement(uint(id), language, req.Title, req.Description); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// GrantAchievement awards an achievement to a user and refreshes the user's
// total score before responding
// POST /achievement/grant
func GrantAchievement(c *fiber.Ctx) error {
	var req GrantRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if req.UserID == 0 || req.AchievementID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "user_id and achievement_id are required",
		})
	}

	if err := achievementService.Grant(req.UserID, req.AchievementID, req.GrantedAt); err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true})
}

// GetUserAchievements lists a user's achievements localized to the user's
// own language, one entry per grant
// GET /achievements/:user_id
func GetUserAchievements(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("user_id")
	if err != nil || userID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid user id",
		})
	}

	achievements, err := achievementService.UserAchievements(uint(userID))
	if err != nil {
		return serviceError(c, err)
	}

	shaped := make([]achievementResponse, 0, len(achievements))
	for _, la := range achievements {
		shaped = append(shaped, shapeLocalized(la))
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"achievements": shaped,
	})
}
