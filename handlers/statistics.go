// handlers/statistics.go
package handlers

import (
	"achievements/models"
	"achievements/services"

	"github.com/gofiber/fiber/v2"
)

// GetMaxAchievements returns the user holding the most grants and the count
// GET /statistics/max_achievements
func GetMaxAchievements(c *fiber.Ctx) error {
	user, count, err := statsService.MaxAchievements()
	if err != nil {
		return serviceError(c, err)
	}

	stats, err := shapeUserStats(*user, true)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    stats,
		"count":   count,
	})
}

// GetMaxScore returns the user with the greatest total score
// GET /statistics/max_score
func GetMaxScore(c *fiber.Ctx) error {
	user, err := statsService.MaxScore()
	if err != nil {
		return serviceError(c, err)
	}

	stats, err := shapeUserStats(*user, true)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    stats,
	})
}

// GetMaxScoreDiff returns the pair of users with the greatest score
// difference, highest scorer first
// GET /statistics/max_diff
func GetMaxScoreDiff(c *fiber.Ctx) error {
	users, err := statsService.MaxScoreDiff()
	if err != nil {
		return serviceError(c, err)
	}
	return pairResponse(c, users, true)
}

// GetMinScoreDiff returns the pair of users with the smallest score
// difference, lower scorer first
// GET /statistics/min_diff
func GetMinScoreDiff(c *fiber.Ctx) error {
	users, err := statsService.MinScoreDiff()
	if err != nil {
		return serviceError(c, err)
	}
	return pairResponse(c, users, false)
}

// GetStreak returns users with a grant on each of the last `days` calendar
// days ending today
// GET /statistics/streak?limit=10&days=7
func GetStreak(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", services.DefaultStreakLimit)
	days := c.QueryInt("days", services.DefaultStreakDays)

	users, err := statsService.Streak(days, limit)
	if err != nil {
		return serviceError(c, err)
	}

	shaped := make([]userStatsResponse, 0, len(users))
	for _, user := range users {
		stats, err := shapeUserStats(user, true)
		if err != nil {
			return serviceError(c, err)
		}
		shaped = append(shaped, stats)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"users":   shaped,
	})
}

func pairResponse(c *fiber.Ctx, users []models.User, withAchievements bool) error {
	shaped := make([]userStatsResponse, 0, len(users))
	for _, user := range users {
		stats, err := shapeUserStats(user, withAchievements)
		if err != nil {
			return serviceError(c, err)
		}
		shaped = append(shaped, stats)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"users":   shaped,
	})
}
