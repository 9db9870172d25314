package dto

import "github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models"

// AchievementTemplateResponse describes an obtainable badge and whether the
// caller already earned it
type AchievementTemplateResponse struct {
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Type        models.AchievementType `json:"type"`
	Rarity      models.Rarity          `json:"rarity"`
	Points      int                    `json:"points"`
	Icon        string                 `json:"icon"`
	Metric      string                 `json:"metric"`
	Min         int                    `json:"min"`
	Earned      bool                   `json:"earned"`
}

// CheckAchievementsResponse lists what an evaluation newly granted
type CheckAchievementsResponse struct {
	NewAchievements []models.Achievement `json:"newAchievements"`
	Count           int                  `json:"count"`
}
