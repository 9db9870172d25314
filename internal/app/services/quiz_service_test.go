package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/apperrors"
)

func answersAll(option string) map[string]string {
	answers := map[string]string{}
	for _, q := range QuizQuestions {
		answers[q.ID] = option
	}
	return answers
}

func TestScoreQuiz(t *testing.T) {
	scores, best, err := ScoreQuiz(QuizQuestions, answersAll("b"))
	if err != nil {
		t.Fatalf("ScoreQuiz: %v", err)
	}
	if best != CategoryData {
		t.Errorf("recommended = %q, want %q", best, CategoryData)
	}
	if scores[CategoryData] != 3 || scores[CategorySecurity] != 2 || scores[CategoryCloud] != 1 {
		t.Errorf("scores = %v", scores)
	}
	// categories nobody picked are still reported
	if v, ok := scores[CategoryDesign]; !ok || v != 0 {
		t.Errorf("design score = %d, present = %v", v, ok)
	}
}

func TestScoreQuiz_TieBrokenByName(t *testing.T) {
	questions := []models.QuizQuestion{{
		ID:      "only",
		Options: []models.QuizOption{{ID: "x", Categories: []string{"Zeta", "Alpha"}}},
	}}

	_, best, err := ScoreQuiz(questions, map[string]string{"only": "x"})
	if err != nil {
		t.Fatalf("ScoreQuiz: %v", err)
	}
	if best != "Alpha" {
		t.Errorf("recommended = %q, want Alpha", best)
	}
}

func TestScoreQuiz_RejectsBadAnswers(t *testing.T) {
	missing := answersAll("a")
	delete(missing, "q3")

	unknownOption := answersAll("a")
	unknownOption["q1"] = "z"

	unknownQuestion := answersAll("a")
	unknownQuestion["q99"] = "a"

	for name, answers := range map[string]map[string]string{
		"missing answer":   missing,
		"unknown option":   unknownOption,
		"unknown question": unknownQuestion,
	} {
		if _, _, err := ScoreQuiz(QuizQuestions, answers); !errors.Is(err, apperrors.ErrValidationFailed) {
			t.Errorf("%s: err = %v", name, err)
		}
	}
}

func TestSubmitQuiz(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := f.db.seedUser(models.RoleStudent, models.Profile{})
	pandas := f.db.seedCourse(models.Course{Title: "Intro to Pandas", Level: models.CourseLevelBeginner, Category: CategoryData, IsActive: true})
	seedGoCourse(f, 100)

	if _, err := f.quiz.Latest(ctx, userID); !errors.Is(err, apperrors.ErrQuizResultNotFound) {
		t.Errorf("Latest before submitting: err = %v", err)
	}

	resp, err := f.quiz.Submit(ctx, userID, answersAll("b"))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if resp.Result.RecommendedCategory != CategoryData {
		t.Errorf("category = %q", resp.Result.RecommendedCategory)
	}
	if len(resp.RecommendedCourses) != 1 || resp.RecommendedCourses[0].ID != pandas {
		t.Errorf("recommended courses = %+v", resp.RecommendedCourses)
	}

	latest, err := f.quiz.Latest(ctx, userID)
	if err != nil || latest.RecommendedCategory != CategoryData {
		t.Errorf("Latest = %+v, %v", latest, err)
	}

	if _, err := f.quiz.Submit(ctx, userID, map[string]string{"q1": "a"}); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("partial answers: err = %v", err)
	}
}
