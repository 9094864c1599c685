// database/migrate.go - Database Migration Runner
package database

import (
	"log"

	"achievements/models"

	"gorm.io/gorm"
)

// Migrate runs all database migrations against the given connection.
func Migrate(db *gorm.DB) error {
	log.Println("🔄 Running database migrations...")

	if err := db.AutoMigrate(
		&models.User{},
		&models.Achievement{},
		&models.AchievementTranslation{},
		&models.UserAchievement{},
	); err != nil {
		return err
	}

	createIndexes(db)

	log.Println("✅ All migrations completed successfully")
	return nil
}

// createIndexes creates indexes the statistics queries depend on
func createIndexes(db *gorm.DB) {
	// User indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_total_score ON users(total_score DESC)")

	// Grant indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_user_achievements_user ON user_achievements(user_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_user_achievements_achievement ON user_achievements(achievement_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_user_achievements_granted ON user_achievements(granted_at DESC)")
}
