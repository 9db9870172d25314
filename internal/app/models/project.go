package models

import "time"

// Project is a user-owned portfolio entry ('projects' table).
// ImageURLs is persisted as JSON text.
type Project struct {
	ID           int64     `json:"id" db:"id"`
	UserID       int64     `json:"userId" db:"user_id"`
	Title        string    `json:"title" db:"title"`
	Description  string    `json:"description" db:"description"`
	GithubURL    *string   `json:"githubUrl,omitempty" db:"github_url"`
	LiveURL      *string   `json:"liveUrl,omitempty" db:"live_url"`
	Technologies []string  `json:"technologies" db:"technologies"`
	ImageURLs    []string  `json:"imageUrls" db:"image_urls"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
