// models/achievement.go
package models

import "time"

// Achievement is immutable after creation; no operation changes its score.
type Achievement struct {
	ID    uint `gorm:"primaryKey" json:"id"`
	Score int  `gorm:"not null;check:score > 0" json:"score"`

	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Translations []AchievementTranslation `gorm:"foreignKey:AchievementID" json:"-"`
}

// AchievementTranslation holds the localized title and description of an
// achievement for one concrete language. (achievement_id, language) is the
// natural key, so writing the same pair twice updates the row in place.
type AchievementTranslation struct {
	AchievementID uint     `gorm:"primaryKey;autoIncrement:false" json:"achievement_id"`
	Language      Language `gorm:"primaryKey;type:varchar(4)" json:"language"`
	Title         string   `gorm:"not null" json:"title"`
	Description   string   `gorm:"not null" json:"description"`
}

// UserAchievement records one grant of an achievement to a user. The same
// achievement may be granted to the same user more than once; each row
// contributes its achievement's score to the user's total independently.
type UserAchievement struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	AchievementID uint      `gorm:"not null;index" json:"achievement_id"`
	GrantedAt     time.Time `gorm:"not null;index" json:"granted_at"`

	// Relationships
	User        User        `gorm:"foreignKey:UserID" json:"-"`
	Achievement Achievement `gorm:"foreignKey:AchievementID" json:"-"`
}
