package services

import "github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models"

// Metrics an achievement can be conditioned on
const (
	MetricSkillsCount          = "skills_count"
	MetricCareerInterestsCount = "career_interests_count"
	MetricSocialLinksCount     = "social_links_count"
	MetricCompletedCourses     = "completed_courses"
	MetricEnrolledCourses      = "enrolled_courses"
	MetricProjectsCount        = "projects_count"
	MetricLevel                = "level"
	MetricPoints               = "points"
	MetricProfileComplete      = "profile_complete"
)

// AchievementTemplate is an obtainable badge. It is granted once its metric
// reaches Min.
type AchievementTemplate struct {
	Title       string
	Description string
	Type        models.AchievementType
	Rarity      models.Rarity
	Points      int
	Icon        string
	Metric      string
	Min         int
}

// Matches reports whether the snapshot satisfies the template
func (t AchievementTemplate) Matches(snapshot map[string]int) bool {
	return MatchesCriteria(snapshot, t.Metric, t.Min)
}

// MatchesCriteria evaluates a {metric, min} predicate. Unknown metrics never match.
func MatchesCriteria(snapshot map[string]int, metric string, min int) bool {
	v, ok := snapshot[metric]
	return ok && v >= min
}

// AchievementTemplates is the badge catalogue, evaluated in order
var AchievementTemplates = []AchievementTemplate{
	{Title: "Profile Pioneer", Description: "Complete your profile", Type: models.AchievementProfile, Rarity: models.RarityCommon, Points: 25, Icon: "user-check", Metric: MetricProfileComplete, Min: 1},
	{Title: "Skill Collector", Description: "List at least five skills", Type: models.AchievementProfile, Rarity: models.RarityCommon, Points: 20, Icon: "layers", Metric: MetricSkillsCount, Min: 5},
	{Title: "Explorer", Description: "Add three career interests", Type: models.AchievementProfile, Rarity: models.RarityCommon, Points: 15, Icon: "compass", Metric: MetricCareerInterestsCount, Min: 3},
	{Title: "Networker", Description: "Link LinkedIn, GitHub and a portfolio", Type: models.AchievementProfile, Rarity: models.RarityRare, Points: 30, Icon: "link", Metric: MetricSocialLinksCount, Min: 3},
	{Title: "First Steps", Description: "Enroll in your first course", Type: models.AchievementLearning, Rarity: models.RarityCommon, Points: 10, Icon: "play", Metric: MetricEnrolledCourses, Min: 1},
	{Title: "Course Finisher", Description: "Complete a course", Type: models.AchievementLearning, Rarity: models.RarityCommon, Points: 50, Icon: "check-circle", Metric: MetricCompletedCourses, Min: 1},
	{Title: "Dedicated Learner", Description: "Complete five courses", Type: models.AchievementLearning, Rarity: models.RarityRare, Points: 100, Icon: "book-open", Metric: MetricCompletedCourses, Min: 5},
	{Title: "Knowledge Master", Description: "Complete ten courses", Type: models.AchievementLearning, Rarity: models.RarityEpic, Points: 200, Icon: "award", Metric: MetricCompletedCourses, Min: 10},
	{Title: "Builder", Description: "Publish your first project", Type: models.AchievementPortfolio, Rarity: models.RarityCommon, Points: 30, Icon: "code", Metric: MetricProjectsCount, Min: 1},
	{Title: "Portfolio Pro", Description: "Publish five projects", Type: models.AchievementPortfolio, Rarity: models.RarityRare, Points: 75, Icon: "briefcase", Metric: MetricProjectsCount, Min: 5},
	{Title: "Rising Star", Description: "Reach level 3", Type: models.AchievementLevel, Rarity: models.RarityRare, Points: 50, Icon: "star", Metric: MetricLevel, Min: 3},
	{Title: "XP Hunter", Description: "Collect 2000 points", Type: models.AchievementLevel, Rarity: models.RarityEpic, Points: 100, Icon: "zap", Metric: MetricPoints, Min: 2000},
	{Title: "Elite", Description: "Reach level 10", Type: models.AchievementLevel, Rarity: models.RarityLegendary, Points: 250, Icon: "crown", Metric: MetricLevel, Min: 10},
}
