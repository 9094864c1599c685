// cmd/achievement-importer - Seeds achievements and translations from a JSON file
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"achievements/database"
	"achievements/models"
	"achievements/services"

	"github.com/joho/godotenv"
)

type seedTranslation struct {
	Language    string `json:"language"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type seedAchievement struct {
	Score        int               `json:"score"`
	Translations []seedTranslation `json:"translations"`
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: achievement-importer <achievements.json>")
		os.Exit(1)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("Failed to read %s: %v", os.Args[1], err)
	}

	var seeds []seedAchievement
	if err := json.Unmarshal(data, &seeds); err != nil {
		log.Fatalf("Failed to parse %s: %v", os.Args[1], err)
	}

	database.InitDB()
	defer database.CloseDB()

	svc := services.NewAchievementService(database.GetDB())

	imported := 0
	for i, seed := range seeds {
		translations := make([]models.AchievementTranslation, 0, len(seed.Translations))
		for _, tl := range seed.Translations {
			language, err := models.ParseLanguage(tl.Language)
			if err != nil {
				log.Fatalf("Entry %d: %v", i, err)
			}
			translations = append(translations, models.AchievementTranslation{
				Language:    language,
				Title:       tl.Title,
				Description: tl.Description,
			})
		}

		achievement, err := svc.CreateAchievement(seed.Score, translations)
		if err != nil {
			log.Fatalf("Entry %d: failed to create achievement: %v", i, err)
		}
		imported++
		log.Printf("Imported achievement %d (score %d, %d translations)",
			achievement.ID, achievement.Score, len(translations))
	}

	log.Printf("✅ Imported %d achievements", imported)
}
