package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models/dto"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/services"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/middleware"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/helpers"
)

// LeaderboardController serves the points ranking
type LeaderboardController struct {
	leaderboardService services.LeaderboardService
	logger             zerolog.Logger
}

// NewLeaderboardController creates a new LeaderboardController
func NewLeaderboardController(leaderboardService services.LeaderboardService, logger zerolog.Logger) *LeaderboardController {
	return &LeaderboardController{
		leaderboardService: leaderboardService,
		logger:             logger,
	}
}

// GetLeaderboard godoc
// @Summary Get the leaderboard
// @Tags leaderboard
// @Produce json
// @Param page query int false "Page (1-based)"
// @Param pageSize query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.LeaderboardResponse}
// @Router /leaderboard [get]
func (c *LeaderboardController) GetLeaderboard(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.leaderboardService.GetLeaderboard(ctx.Request.Context(), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(resp, "Leaderboard retrieved"))
}

// GetMyRank godoc
// @Summary Get my rank
// @Tags leaderboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.MyRankResponse}
// @Router /leaderboard/my-rank [get]
func (c *LeaderboardController) GetMyRank(ctx *gin.Context) {
	resp, err := c.leaderboardService.GetMyRank(ctx.Request.Context(), middleware.UserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(resp, "Rank retrieved"))
}
