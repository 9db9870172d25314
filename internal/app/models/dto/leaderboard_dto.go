package dto

import "github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models"

// LeaderboardResponse is one page of the ranking
type LeaderboardResponse struct {
	Entries    []models.LeaderboardEntry `json:"entries"`
	Pagination PaginationInfo            `json:"pagination"`
}

// MyRankResponse is the caller's position in the ranking
type MyRankResponse struct {
	UserID            int64 `json:"userId"`
	Rank              int   `json:"rank"`
	TotalParticipants int64 `json:"totalParticipants"`
	Points            int   `json:"points"`
	Level             int   `json:"level"`
}
