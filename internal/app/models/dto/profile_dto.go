package dto

import (
	"time"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models"
)

// UpdateProfileRequest is a partial profile update; nil fields stay unchanged
type UpdateProfileRequest struct {
	FullName        *string   `json:"fullName" binding:"omitempty,min=2,max=100"`
	University      *string   `json:"university" binding:"omitempty,max=200"`
	Year            *int      `json:"year" binding:"omitempty,min=1,max=10"`
	Major           *string   `json:"major" binding:"omitempty,max=200"`
	Skills          *[]string `json:"skills" binding:"omitempty,max=100,dive,max=50"`
	CareerInterests *[]string `json:"careerInterests" binding:"omitempty,max=50,dive,max=100"`
	LinkedInURL     *string   `json:"linkedinUrl" binding:"omitempty,url"`
	GithubURL       *string   `json:"githubUrl" binding:"omitempty,url"`
	PortfolioURL    *string   `json:"portfolioUrl" binding:"omitempty,url"`
	Company         *string   `json:"company" binding:"omitempty,max=200"`
	Position        *string   `json:"position" binding:"omitempty,max=200"`
	Industry        *string   `json:"industry" binding:"omitempty,max=200"`
	Experience      *int      `json:"experience" binding:"omitempty,min=0,max=60"`
	Bio             *string   `json:"bio" binding:"omitempty,max=2000"`
}

// ProfileResponse is the owner's view of a profile
type ProfileResponse struct {
	UserID          int64     `json:"userId"`
	FullName        string    `json:"fullName,omitempty"`
	Email           string    `json:"email,omitempty"`
	Role            string    `json:"role,omitempty"`
	University      *string   `json:"university,omitempty"`
	Year            *int      `json:"year,omitempty"`
	Major           *string   `json:"major,omitempty"`
	Skills          []string  `json:"skills"`
	CareerInterests []string  `json:"careerInterests"`
	LinkedInURL     *string   `json:"linkedinUrl,omitempty"`
	GithubURL       *string   `json:"githubUrl,omitempty"`
	PortfolioURL    *string   `json:"portfolioUrl,omitempty"`
	Company         *string   `json:"company,omitempty"`
	Position        *string   `json:"position,omitempty"`
	Industry        *string   `json:"industry,omitempty"`
	Experience      *int      `json:"experience,omitempty"`
	Bio             *string   `json:"bio,omitempty"`
	Points          int       `json:"points"`
	Level           int       `json:"level"`
	IsComplete      bool      `json:"isComplete"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// UpdateProfileResponse reports the saved profile and any rewards it earned
type UpdateProfileResponse struct {
	Profile         ProfileResponse      `json:"profile"`
	BonusAwarded    int                  `json:"bonusAwarded"`
	NewAchievements []models.Achievement `json:"newAchievements"`
}

// PublicProfileResponse omits contact data and private fields
type PublicProfileResponse struct {
	UserID            int64     `json:"userId"`
	FullName          string    `json:"fullName"`
	Role              string    `json:"role"`
	University        *string   `json:"university,omitempty"`
	Major             *string   `json:"major,omitempty"`
	Skills            []string  `json:"skills"`
	CareerInterests   []string  `json:"careerInterests"`
	LinkedInURL       *string   `json:"linkedinUrl,omitempty"`
	GithubURL         *string   `json:"githubUrl,omitempty"`
	PortfolioURL      *string   `json:"portfolioUrl,omitempty"`
	Company           *string   `json:"company,omitempty"`
	Position          *string   `json:"position,omitempty"`
	Industry          *string   `json:"industry,omitempty"`
	Bio               *string   `json:"bio,omitempty"`
	Points            int       `json:"points"`
	Level             int       `json:"level"`
	ProjectsCount     int       `json:"projectsCount"`
	AchievementsCount int       `json:"achievementsCount"`
	MemberSince       time.Time `json:"memberSince"`
}

// TalentResponse is one student returned by a talent search
type TalentResponse struct {
	UserID     int64    `json:"userId"`
	FullName   string   `json:"fullName"`
	University *string  `json:"university,omitempty"`
	Major      *string  `json:"major,omitempty"`
	Skills     []string `json:"skills"`
	Points     int      `json:"points"`
	Level      int      `json:"level"`
}

// FromProfile converts a profile and its owner into the owner's view
func FromProfile(user *models.User, p *models.Profile) ProfileResponse {
	resp := ProfileResponse{
		UserID:          p.UserID,
		University:      p.University,
		Year:            p.Year,
		Major:           p.Major,
		Skills:          nonNil(p.Skills),
		CareerInterests: nonNil(p.CareerInterests),
		LinkedInURL:     p.LinkedInURL,
		GithubURL:       p.GithubURL,
		PortfolioURL:    p.PortfolioURL,
		Company:         p.Company,
		Position:        p.Position,
		Industry:        p.Industry,
		Experience:      p.Experience,
		Bio:             p.Bio,
		Points:          p.Points,
		Level:           p.Level,
		UpdatedAt:       p.UpdatedAt,
	}
	if user != nil {
		resp.FullName = user.FullName
		resp.Email = user.Email
		resp.Role = string(user.RoleType)
		resp.IsComplete = p.IsComplete(user.RoleType)
	}
	return resp
}

// FromPublicProfile builds the public view; counts are filled by the caller
func FromPublicProfile(user *models.User, p *models.Profile) PublicProfileResponse {
	return PublicProfileResponse{
		UserID:          user.ID,
		FullName:        user.FullName,
		Role:            string(user.RoleType),
		University:      p.University,
		Major:           p.Major,
		Skills:          nonNil(p.Skills),
		CareerInterests: nonNil(p.CareerInterests),
		LinkedInURL:     p.LinkedInURL,
		GithubURL:       p.GithubURL,
		PortfolioURL:    p.PortfolioURL,
		Company:         p.Company,
		Position:        p.Position,
		Industry:        p.Industry,
		Bio:             p.Bio,
		Points:          p.Points,
		Level:           p.Level,
		MemberSince:     user.CreatedAt,
	}
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
