// handlers/users.go
package handlers

import (
	"achievements/models"

	"github.com/gofiber/fiber/v2"
)

type CreateUserRequest struct {
	Username string `json:"username"`
	Language string `json:"language"`
}

// CreateUser registers a new user
// POST /user
func CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	language, err := models.ParseLanguage(req.Language)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	user, err := achievementService.CreateUser(req.Username, language)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"id":      user.ID,
	})
}

// GetUser returns a user with their total score and localized achievements
// GET /user/:id
func GetUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid user id",
		})
	}

	user, err := achievementService.GetUser(uint(id))
	if err != nil {
		return serviceError(c, err)
	}

	stats, err := shapeUserStats(*user, true)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"id":           stats.ID,
		"username":     stats.Username,
		"language":     stats.Language,
		"total_score":  stats.TotalScore,
		"achievements": stats.Achievements,
	})
}
