// handlers/router.go - Route registration
package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes attaches every endpoint to the app.
func RegisterRoutes(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
		})
	})

	// User routes
	app.Post("/user", CreateUser)
	app.Get("/user/:id", GetUser)

	// Achievement routes
	app.Post("/achievement", CreateAchievement)
	app.Get("/achievement", ListAchievements)
	app.Get("/achievement/:id", GetAchievement)
	app.Put("/achievement/translate/:id", TranslateAchievement)
	app.Post("/achievement/grant", GrantAchievement)
	app.Get("/achievements/:user_id", GetUserAchievements)

	// Statistics routes
	stats := app.Group("/statistics")
	stats.Get("/max_achievements", GetMaxAchievements)
	stats.Get("/max_score", GetMaxScore)
	stats.Get("/max_diff", GetMaxScoreDiff)
	stats.Get("/min_diff", GetMinScoreDiff)
	stats.Get("/streak", GetStreak)
}
