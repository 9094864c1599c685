// services/stats_service.go - Read-only statistics over the full data set
package services

import (
	"errors"
	"time"

	"achievements/models"

	"gorm.io/gorm"
)

var (
	ErrNoUsers        = errors.New("no users recorded yet")
	ErrNotEnoughUsers = errors.New("at least two users are required")
)

const (
	DefaultStreakDays  = 7
	DefaultStreakLimit = 10
)

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// MaxAchievements returns the user with the most grant rows and the count.
// Ties are broken by lowest user id.
func (s *StatsService) MaxAchievements() (*models.User, int64, error) {
	var top struct {
		UserID uint
		Cnt    int64
	}

	err := s.db.Model(&models.UserAchievement{}).
		Select("user_id, COUNT(*) AS cnt").
		Group("user_id").
		Order("cnt DESC, user_id ASC").
		Limit(1).
		Scan(&top).Error
	if err != nil {
		return nil, 0, err
	}
	if top.UserID == 0 {
		return nil, 0, ErrNoUsers
	}

	var user models.User
	if err := s.db.First(&user, top.UserID).Error; err != nil {
		return nil, 0, err
	}
	return &user, top.Cnt, nil
}

// MaxScore returns the user with the greatest total score. Ties are broken
// by lowest user id.
func (s *StatsService) MaxScore() (*models.User, error) {
	var user models.User
	err := s.db.Order("total_score DESC, id ASC").First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoUsers
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// MaxScoreDiff returns the pair of users with the greatest score difference:
// the global extremes of the score-sorted user list, highest scorer first.
func (s *StatsService) MaxScoreDiff() ([]models.User, error) {
	if err := s.requireUsers(2); err != nil {
		return nil, err
	}

	var highest, lowest models.User
	if err := s.db.Order("total_score DESC, id ASC").First(&highest).Error; err != nil {
		return nil, err
	}
	if err := s.db.Order("total_score ASC, id ASC").First(&lowest).Error; err != nil {
		return nil, err
	}
	return []models.User{highest, lowest}, nil
}

// MinScoreDiff returns the pair of users with the smallest score difference.
// In a score-sorted list the closest pair is always adjacent, so this scans
// adjacent pairs and short-circuits on a zero difference. Lower scorer first.
func (s *StatsService) MinScoreDiff() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("total_score ASC, id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	if len(users) < 2 {
		return nil, ErrNotEnoughUsers
	}

	best := 0
	bestDiff := users[1].TotalScore - users[0].TotalScore
	for i := 1; i+1 < len(users) && bestDiff != 0; i++ {
		if diff := users[i+1].TotalScore - users[i].TotalScore; diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	return []models.User{users[best], users[best+1]}, nil
}

// Streak returns users who received at least one grant on each of the most
// recent `days` consecutive calendar days ending today. Users are scanned in
// ascending id order; `limit` caps the number of qualifying users returned.
func (s *StatsService) Streak(days, limit int) ([]models.User, error) {
	if days <= 0 {
		days = DefaultStreakDays
	}
	if limit <= 0 {
		limit = DefaultStreakLimit
	}

	var users []models.User
	if err := s.db.Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}

	qualifying := make([]models.User, 0, limit)
	for _, user := range users {
		ok, err := s.hasStreak(user.ID, days)
		if err != nil {
			return nil, err
		}
		if ok {
			qualifying = append(qualifying, user)
			if len(qualifying) >= limit {
				break
			}
		}
	}
	return qualifying, nil
}

// hasStreak walks the user's grants newest-first, matching an expected date
// that starts at today and steps back one day per matched date. Several
// grants on the same day count once; the first hole ends the walk.
func (s *StatsService) hasStreak(userID uint, days int) (bool, error) {
	var grants []models.UserAchievement
	err := s.db.Where("user_id = ?", userID).Order("granted_at DESC").Find(&grants).Error
	if err != nil {
		return false, err
	}

	expected := calendarDay(time.Now().UTC())
	matched := 0
	for _, grant := range grants {
		day := calendarDay(grant.GrantedAt.UTC())
		switch {
		case day.Equal(expected):
			matched++
			if matched >= days {
				return true, nil
			}
			expected = expected.AddDate(0, 0, -1)
		case day.Before(expected):
			// hole in the streak
			return false, nil
		default:
			// another grant on an already-matched day
		}
	}
	return false, nil
}

func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *StatsService) requireUsers(n int64) error {
	var count int64
	if err := s.db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNoUsers
	}
	if count < n {
		return ErrNotEnoughUsers
	}
	return nil
}
