package dto

import "github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models"

// QuizSubmitRequest maps question ids to chosen option ids
type QuizSubmitRequest struct {
	Answers map[string]string `json:"answers" binding:"required,min=1"`
}

// QuizSubmitResponse is the scored quiz with matching courses
type QuizSubmitResponse struct {
	Result             models.QuizResult `json:"result"`
	RecommendedCourses []CourseResponse  `json:"recommendedCourses"`
}
