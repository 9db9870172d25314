package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models"
	appRepos "github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/repositories"
	appServices "github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/services"
)

// CourseSeeder inserts catalogue courses idempotently
type CourseSeeder interface {
	CreateIfMissing(ctx context.Context, c *appModels.Course) (bool, error)
}

// DefaultCourses is the built-in catalogue. Categories match the career quiz
// so every recommendation has at least one course behind it.
func DefaultCourses() []appModels.Course {
	course := func(title, description string, level appModels.CourseLevel, category string, xp int, url string) appModels.Course {
		return appModels.Course{
			Title:       title,
			Description: description,
			Level:       level,
			Category:    category,
			XPReward:    xp,
			URL:         url,
			IsActive:    true,
		}
	}

	return []appModels.Course{
		course("HTML & CSS Foundations", "Structure and style your first web pages.", appModels.CourseLevelBeginner, appServices.CategoryWeb, 100, "https://developer.mozilla.org/en-US/docs/Learn"),
		course("Modern JavaScript", "Language features, the DOM and async code.", appModels.CourseLevelIntermediate, appServices.CategoryWeb, 200, "https://javascript.info"),
		course("Full-Stack Web Apps", "Build and deploy an app with an API and a database.", appModels.CourseLevelAdvanced, appServices.CategoryWeb, 400, "https://fullstackopen.com"),
		course("Python for Data Analysis", "pandas, plotting and cleaning real datasets.", appModels.CourseLevelBeginner, appServices.CategoryData, 150, "https://www.kaggle.com/learn/pandas"),
		course("Machine Learning Basics", "Supervised learning from regression to trees.", appModels.CourseLevelIntermediate, appServices.CategoryData, 300, "https://www.kaggle.com/learn/intro-to-machine-learning"),
		course("Mobile Apps with Flutter", "Cross-platform apps from one codebase.", appModels.CourseLevelBeginner, appServices.CategoryMobile, 150, "https://docs.flutter.dev/get-started"),
		course("Linux & Git Essentials", "The shell, permissions and version control.", appModels.CourseLevelBeginner, appServices.CategoryCloud, 100, "https://missing.csail.mit.edu"),
		course("Containers and Kubernetes", "Package services and run them on a cluster.", appModels.CourseLevelAdvanced, appServices.CategoryCloud, 400, "https://kubernetes.io/docs/tutorials/"),
		course("Security Fundamentals", "Threat models, the OWASP Top 10 and secure defaults.", appModels.CourseLevelBeginner, appServices.CategorySecurity, 150, "https://owasp.org/www-project-top-ten/"),
		course("UI/UX Design Principles", "User research, wireframes and usability testing.", appModels.CourseLevelBeginner, appServices.CategoryDesign, 100, "https://www.interaction-design.org"),
	}
}

// SeedCourses inserts every missing catalogue course. Errors are collected so
// one bad row does not stop the rest.
func SeedCourses(ctx context.Context, seeder CourseSeeder, courses []appModels.Course, lgr zerolog.Logger) (int, error) {
	var finalErr error
	inserted := 0
	for i := range courses {
		created, err := seeder.CreateIfMissing(ctx, &courses[i])
		if err != nil {
			lgr.Error().Err(err).Str("title", courses[i].Title).Msg("Error seeding course")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if created {
			inserted++
		}
	}
	return inserted, finalErr
}

// CreateDefaultData creates the default course catalogue if it doesn't exist
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (course catalogue)...")

	inserted, err := SeedCourses(ctx, appRepos.NewCourseRepository(dbPool), DefaultCourses(), lgr)

	lgr.Info().Int("inserted", inserted).Msg("Default data check/creation finished.")
	return err
}
