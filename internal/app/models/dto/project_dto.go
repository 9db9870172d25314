package dto

// CreateProjectRequest represents the request to create a portfolio project
type CreateProjectRequest struct {
	Title        string   `json:"title" binding:"required,max=200"`
	Description  string   `json:"description" binding:"max=5000"`
	GithubURL    *string  `json:"githubUrl" binding:"omitempty,url"`
	LiveURL      *string  `json:"liveUrl" binding:"omitempty,url"`
	Technologies []string `json:"technologies" binding:"omitempty,max=30,dive,max=50"`
	ImageURLs    []string `json:"imageUrls" binding:"omitempty,max=10,dive,url"`
}

// UpdateProjectRequest is a partial project update; nil fields stay unchanged
type UpdateProjectRequest struct {
	Title        *string   `json:"title" binding:"omitempty,min=1,max=200"`
	Description  *string   `json:"description" binding:"omitempty,max=5000"`
	GithubURL    *string   `json:"githubUrl" binding:"omitempty,url"`
	LiveURL      *string   `json:"liveUrl" binding:"omitempty,url"`
	Technologies *[]string `json:"technologies" binding:"omitempty,max=30,dive,max=50"`
	ImageURLs    *[]string `json:"imageUrls" binding:"omitempty,max=10,dive,url"`
}

// ProjectSearchQuery binds the project search parameters
type ProjectSearchQuery struct {
	Query string `form:"q" binding:"required,min=1,max=200"`
}
