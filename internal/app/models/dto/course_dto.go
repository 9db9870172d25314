package dto

import (
	"time"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models"
)

// CourseFilterQuery binds the optional course list filters
type CourseFilterQuery struct {
	Level    string `form:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
	Category string `form:"category" binding:"omitempty,max=100"`
}

// UpdateProgressRequest carries the requested progress. Out of range values
// are clamped, not rejected.
type UpdateProgressRequest struct {
	Progress *int `json:"progress" binding:"required"`
}

// CourseResponse is a catalogue course with the caller's enrollment state
type CourseResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Level       string     `json:"level"`
	Category    string     `json:"category"`
	XPReward    int        `json:"xpReward"`
	URL         string     `json:"url"`
	IsEnrolled  bool       `json:"isEnrolled"`
	Progress    int        `json:"progress"`
	IsCompleted bool       `json:"isCompleted"`
	EnrolledAt  *time.Time `json:"enrolledAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// CompleteCourseResponse reports the XP awarded by a completion
type CompleteCourseResponse struct {
	Course          CourseResponse       `json:"course"`
	PointsAwarded   int                  `json:"pointsAwarded"`
	TotalPoints     int                  `json:"totalPoints"`
	Level           int                  `json:"level"`
	LeveledUp       bool                 `json:"leveledUp"`
	NewAchievements []models.Achievement `json:"newAchievements"`
}

// FromCourse converts a course and an optional enrollment
func FromCourse(c *models.Course, enrollment *models.UserCourse) CourseResponse {
	resp := CourseResponse{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Level:       string(c.Level),
		Category:    c.Category,
		XPReward:    c.XPReward,
		URL:         c.URL,
	}
	if enrollment != nil {
		enrolledAt := enrollment.EnrolledAt
		resp.IsEnrolled = true
		resp.Progress = enrollment.Progress
		resp.IsCompleted = enrollment.IsCompleted
		resp.EnrolledAt = &enrolledAt
		resp.CompletedAt = enrollment.CompletedAt
	}
	return resp
}

// FromEnrollment converts an enrollment joined with its course
func FromEnrollment(uc *models.UserCourse) CourseResponse {
	if uc.Course == nil {
		return FromCourse(&models.Course{ID: uc.CourseID}, uc)
	}
	return FromCourse(uc.Course, uc)
}
