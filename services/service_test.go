package services

import (
	"path/filepath"
	"testing"
	"time"

	"achievements/database"
	"achievements/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func createTestUser(t *testing.T, svc *AchievementService, username string) *models.User {
	t.Helper()
	user, err := svc.CreateUser(username, models.LangEN)
	if err != nil {
		t.Fatalf("CreateUser(%q) failed: %v", username, err)
	}
	return user
}

func createTestAchievement(t *testing.T, svc *AchievementService, score int) *models.Achievement {
	t.Helper()
	achievement, err := svc.CreateAchievement(score, nil)
	if err != nil {
		t.Fatalf("CreateAchievement(%d) failed: %v", score, err)
	}
	return achievement
}

func grantAt(t *testing.T, svc *AchievementService, userID, achievementID uint, when time.Time) {
	t.Helper()
	if err := svc.Grant(userID, achievementID, &when); err != nil {
		t.Fatalf("Grant(%d, %d) failed: %v", userID, achievementID, err)
	}
}
