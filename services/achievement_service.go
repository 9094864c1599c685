// services/achievement_service.go - Users, achievements, translations, grants
package services

import (
	"errors"
	"strings"
	"time"

	"achievements/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrAchievementNotFound = errors.New("achievement not found")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrUsernameRequired    = errors.New("username is required")
	ErrInvalidScore        = errors.New("achievement score must be positive")
	ErrConcreteLanguage    = errors.New("a concrete language (en or ru) is required")
)

type AchievementService struct {
	db *gorm.DB
}

func NewAchievementService(db *gorm.DB) *AchievementService {
	return &AchievementService{db: db}
}

// LocalizedAchievement pairs an achievement with its translation slots for
// a requested language: one slot for a concrete language, one per supported
// language (en first, then ru) for the "all" selector. Absent translations
// stay nil - a missing translation is a valid state, not an error.
type LocalizedAchievement struct {
	Achievement models.Achievement
	GrantedAt   *time.Time
	Slots       []*models.AchievementTranslation
}

// ================== USERS ==================

// CreateUser registers a new user. The "all" selector is never stored, so
// the language must be concrete.
func (s *AchievementService) CreateUser(username string, language models.Language) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if !language.IsConcrete() {
		return nil, ErrConcreteLanguage
	}

	user := &models.User{
		Username: username,
		Language: language,
	}

	if err := s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *AchievementService) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ================== ACHIEVEMENTS ==================

// CreateAchievement creates an achievement and its initial translations in
// one transaction. Translations are optional at creation time.
func (s *AchievementService) CreateAchievement(score int, translations []models.AchievementTranslation) (*models.Achievement, error) {
	if score <= 0 {
		return nil, ErrInvalidScore
	}
	for _, tl := range translations {
		if !tl.Language.IsConcrete() {
			return nil, ErrConcreteLanguage
		}
	}

	achievement := &models.Achievement{Score: score}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(achievement).Error; err != nil {
			return err
		}
		for _, tl := range translations {
			tl.AchievementID = achievement.ID
			if err := upsertTranslation(tx, tl); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return achievement, nil
}

func (s *AchievementService) GetAchievement(id uint, language models.Language) (*LocalizedAchievement, error) {
	var achievement models.Achievement
	if err := s.db.First(&achievement, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAchievementNotFound
		}
		return nil, err
	}

	slots, err := s.translationSlots(id, language)
	if err != nil {
		return nil, err
	}
	return &LocalizedAchievement{Achievement: achievement, Slots: slots}, nil
}

// ListAchievements returns every achievement with translation slots for the
// requested language.
func (s *AchievementService) ListAchievements(language models.Language) ([]LocalizedAchievement, error) {
	var achievements []models.Achievement
	if err := s.db.Order("id ASC").Find(&achievements).Error; err != nil {
		return nil, err
	}

	result := make([]LocalizedAchievement, 0, len(achievements))
	for _, a := range achievements {
		slots, err := s.translationSlots(a.ID, language)
		if err != nil {
			return nil, err
		}
		result = append(result, LocalizedAchievement{Achievement: a, Slots: slots})
	}
	return result, nil
}

// TranslateAchievement is an idempotent upsert keyed by (id, language):
// it creates the translation row if absent, otherwise overwrites it.
func (s *AchievementService) TranslateAchievement(id uint, language models.Language, title, description string) error {
	if !language.IsConcrete() {
		return ErrConcreteLanguage
	}

	var achievement models.Achievement
	if err := s.db.First(&achievement, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAchievementNotFound
		}
		return err
	}

	return upsertTranslation(s.db, models.AchievementTranslation{
		AchievementID: id,
		Language:      language,
		Title:         title,
		Description:   description,
	})
}

func upsertTranslation(tx *gorm.DB, tl models.AchievementTranslation) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "achievement_id"}, {Name: "language"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "description"}),
	}).Create(&tl).Error
}

// translationSlots returns the translation rows for one achievement. For a
// concrete language the result has a single slot; for the "all" selector it
// has one slot per supported language, English first.
func (s *AchievementService) translationSlots(achievementID uint, language models.Language) ([]*models.AchievementTranslation, error) {
	languages := models.SupportedLanguages
	if language.IsConcrete() {
		languages = []models.Language{language}
	}

	slots := make([]*models.AchievementTranslation, 0, len(languages))
	for _, lang := range languages {
		var tl models.AchievementTranslation
		err := s.db.Where("achievement_id = ? AND language = ?", achievementID, lang).First(&tl).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			slots = append(slots, nil)
			continue
		}
		if err != nil {
			return nil, err
		}
		slots = append(slots, &tl)
	}
	return slots, nil
}

// ================== GRANTS ==================

// Grant records that an achievement was awarded to a user and recomputes the
// user's total score before returning. The insert and the recomputation run
// in one transaction, and the recomputation is a single aggregate UPDATE, so
// concurrent grants to the same user cannot lose each other's score.
func (s *AchievementService) Grant(userID, achievementID uint, grantedAt *time.Time) error {
	when := time.Now().UTC()
	if grantedAt != nil {
		when = grantedAt.UTC()
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		var achievement models.Achievement
		if err := tx.First(&achievement, achievementID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAchievementNotFound
			}
			return err
		}

		grant := models.UserAchievement{
			UserID:        userID,
			AchievementID: achievementID,
			GrantedAt:     when,
		}
		if err := tx.Create(&grant).Error; err != nil {
			return err
		}

		return recomputeTotalScore(tx, userID)
	})
}

// recomputeTotalScore persists the join-sum of the user's grants as the new
// total score. Runs as one atomic statement against the store.
func recomputeTotalScore(tx *gorm.DB, userID uint) error {
	return tx.Exec(`
		UPDATE users SET total_score = (
			SELECT COALESCE(SUM(a.score), 0)
			FROM user_achievements ua
			JOIN achievements a ON a.id = ua.achievement_id
			WHERE ua.user_id = users.id
		)
		WHERE id = ?
	`, userID).Error
}

// UserAchievements lists a user's granted achievements localized to the
// user's own language, one entry per grant row, most recent first.
func (s *AchievementService) UserAchievements(userID uint) ([]LocalizedAchievement, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	var grants []models.UserAchievement
	if err := s.db.Where("user_id = ?", userID).Order("granted_at DESC, id DESC").Find(&grants).Error; err != nil {
		return nil, err
	}

	result := make([]LocalizedAchievement, 0, len(grants))
	for _, g := range grants {
		la, err := s.GetAchievement(g.AchievementID, user.Language)
		if err != nil {
			return nil, err
		}
		grantedAt := g.GrantedAt
		la.GrantedAt = &grantedAt
		result = append(result, *la)
	}
	return result, nil
}
