package models

import (
	"strings"
	"time"
)

// Profile is the one-to-one extension of a User holding student, expert and
// gamification data ('profiles' table)
type Profile struct {
	ID     int64 `json:"id" db:"id"`
	UserID int64 `json:"userId" db:"user_id"`

	// Student fields
	University      *string  `json:"university,omitempty" db:"university"`
	Year            *int     `json:"year,omitempty" db:"year"`
	Major           *string  `json:"major,omitempty" db:"major"`
	Skills          []string `json:"skills" db:"skills"`
	CareerInterests []string `json:"careerInterests" db:"career_interests"`
	LinkedInURL     *string  `json:"linkedinUrl,omitempty" db:"linkedin_url"`
	GithubURL       *string  `json:"githubUrl,omitempty" db:"github_url"`
	PortfolioURL    *string  `json:"portfolioUrl,omitempty" db:"portfolio_url"`

	// Industry expert fields
	Company    *string `json:"company,omitempty" db:"company"`
	Position   *string `json:"position,omitempty" db:"position"`
	Industry   *string `json:"industry,omitempty" db:"industry"`
	Experience *int    `json:"experience,omitempty" db:"experience"`
	Bio        *string `json:"bio,omitempty" db:"bio"`

	// Gamification
	Points              int  `json:"points" db:"points"`
	Level               int  `json:"level" db:"level"`
	ProfileBonusAwarded bool `json:"-" db:"profile_bonus_awarded"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// SocialLinksCount returns how many social links are filled in
func (p *Profile) SocialLinksCount() int {
	n := 0
	for _, link := range []*string{p.LinkedInURL, p.GithubURL, p.PortfolioURL} {
		if hasText(link) {
			n++
		}
	}
	return n
}

// IsComplete reports whether the role specific core fields are all filled in.
// Students need university, major and at least one skill; industry experts
// need company, position and a bio.
func (p *Profile) IsComplete(role RoleType) bool {
	if role == RoleIndustryExpert {
		return hasText(p.Company) && hasText(p.Position) && hasText(p.Bio)
	}
	return hasText(p.University) && hasText(p.Major) && len(p.Skills) > 0
}

func hasText(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

// LeaderboardEntry is one ranked row of the leaderboard
type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	UserID     int64   `json:"userId"`
	FullName   string  `json:"fullName"`
	Role       string  `json:"role"`
	University *string `json:"university,omitempty"`
	Major      *string `json:"major,omitempty"`
	Points     int     `json:"points"`
	Level      int     `json:"level"`
}

// PointsAward is the result of adding points to a profile
type PointsAward struct {
	UserID        int64 `json:"userId"`
	PointsAdded   int   `json:"pointsAdded"`
	TotalPoints   int   `json:"totalPoints"`
	PreviousLevel int   `json:"previousLevel"`
	Level         int   `json:"level"`
}

// LeveledUp reports whether the award moved the profile to a higher level
func (a PointsAward) LeveledUp() bool {
	return a.Level > a.PreviousLevel
}

// UserProfile pairs a user with their profile for joined queries
type UserProfile struct {
	User    User
	Profile Profile
}
