package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models/dto"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/repositories"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/apperrors"
)

// QuizService scores the career quiz and recommends courses
type QuizService interface {
	Questions() []models.QuizQuestion
	Submit(ctx context.Context, userID int64, answers map[string]string) (*dto.QuizSubmitResponse, error)
	Latest(ctx context.Context, userID int64) (*models.QuizResult, error)
}

type quizServiceImpl struct {
	quizRepo   repositories.IQuizRepository
	courseRepo repositories.ICourseRepository
	questions  []models.QuizQuestion
	logger     zerolog.Logger
}

// NewQuizService creates a new QuizService over the built-in question bank
func NewQuizService(quizRepo repositories.IQuizRepository, courseRepo repositories.ICourseRepository, logger zerolog.Logger) QuizService {
	return &quizServiceImpl{
		quizRepo:   quizRepo,
		courseRepo: courseRepo,
		questions:  QuizQuestions,
		logger:     logger.With().Str("service", "quiz").Logger(),
	}
}

func (s *quizServiceImpl) Questions() []models.QuizQuestion {
	return s.questions
}

// ScoreQuiz sums category points over the answers. Every question must be
// answered with one of its options. The recommendation is the highest
// scoring category, ties broken by name.
func ScoreQuiz(questions []models.QuizQuestion, answers map[string]string) (map[string]int, string, error) {
	known := make(map[string]struct{}, len(questions))
	scores := map[string]int{}

	for _, q := range questions {
		known[q.ID] = struct{}{}
		for _, opt := range q.Options {
			for _, c := range opt.Categories {
				if _, ok := scores[c]; !ok {
					scores[c] = 0
				}
			}
		}

		chosen, ok := answers[q.ID]
		if !ok {
			return nil, "", apperrors.NewValidationError("answers", fmt.Sprintf("question %s is not answered", q.ID))
		}
		var option *models.QuizOption
		for i := range q.Options {
			if q.Options[i].ID == chosen {
				option = &q.Options[i]
				break
			}
		}
		if option == nil {
			return nil, "", apperrors.NewValidationError("answers", fmt.Sprintf("unknown option %q for question %s", chosen, q.ID))
		}
		for _, c := range option.Categories {
			scores[c]++
		}
	}

	for id := range answers {
		if _, ok := known[id]; !ok {
			return nil, "", apperrors.NewValidationError("answers", fmt.Sprintf("unknown question %s", id))
		}
	}

	categories := make([]string, 0, len(scores))
	for c := range scores {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	best := ""
	for _, c := range categories {
		if best == "" || scores[c] > scores[best] {
			best = c
		}
	}
	return scores, best, nil
}

// Submit scores the answers, stores the result and returns matching courses
func (s *quizServiceImpl) Submit(ctx context.Context, userID int64, answers map[string]string) (*dto.QuizSubmitResponse, error) {
	scores, category, err := ScoreQuiz(s.questions, answers)
	if err != nil {
		return nil, err
	}

	result := &models.QuizResult{
		UserID:              userID,
		Answers:             answers,
		Scores:              scores,
		RecommendedCategory: category,
		CreatedAt:           time.Now().UTC(),
	}
	if err := s.quizRepo.Insert(ctx, result); err != nil {
		return nil, fmt.Errorf("error saving quiz result: %w", err)
	}

	courses, err := s.courseRepo.List(ctx, models.CourseFilter{Category: category})
	if err != nil {
		return nil, fmt.Errorf("error loading recommended courses: %w", err)
	}
	recommended := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		recommended = append(recommended, dto.FromCourse(&courses[i], nil))
	}

	s.logger.Info().Int64("userID", userID).Str("category", category).Msg("Quiz submitted")
	return &dto.QuizSubmitResponse{Result: *result, RecommendedCourses: recommended}, nil
}

// Latest returns the newest stored result of the user
func (s *quizServiceImpl) Latest(ctx context.Context, userID int64) (*models.QuizResult, error) {
	return s.quizRepo.Latest(ctx, userID)
}
