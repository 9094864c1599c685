// models/user.go
package models

import (
	"time"
)

type User struct {
	ID       uint     `gorm:"primaryKey" json:"id"`
	Username string   `gorm:"uniqueIndex;not null" json:"username"`
	Language Language `gorm:"type:varchar(4);not null" json:"language"`

	// TotalScore is derived: it always equals the sum of achievement scores
	// over this user's grant rows and is only written by the grant operation.
	TotalScore int `gorm:"not null;default:0" json:"total_score"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Grants []UserAchievement `gorm:"foreignKey:UserID" json:"-"`
}
