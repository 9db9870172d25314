package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models/dto"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/services"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/middleware"
)

// AchievementController serves earned badges and the badge catalogue
type AchievementController struct {
	achievementService services.AchievementService
	logger             zerolog.Logger
}

// NewAchievementController creates a new AchievementController
func NewAchievementController(achievementService services.AchievementService, logger zerolog.Logger) *AchievementController {
	return &AchievementController{
		achievementService: achievementService,
		logger:             logger,
	}
}

// ListMine godoc
// @Summary List my achievements
// @Tags achievements
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Achievement}
// @Router /achievements/me [get]
func (c *AchievementController) ListMine(ctx *gin.Context) {
	achievements, err := c.achievementService.ListMine(ctx.Request.Context(), middleware.UserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(achievements, "Achievements retrieved"))
}

// ListTemplates godoc
// @Summary List achievement templates
// @Description Every badge with whether the caller has earned it
// @Tags achievements
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.AchievementTemplateResponse}
// @Router /achievements/templates [get]
func (c *AchievementController) ListTemplates(ctx *gin.Context) {
	templates, err := c.achievementService.ListTemplates(ctx.Request.Context(), middleware.UserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(templates, "Templates retrieved"))
}

// Check godoc
// @Summary Evaluate achievements now
// @Tags achievements
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CheckAchievementsResponse}
// @Router /achievements/check [post]
func (c *AchievementController) Check(ctx *gin.Context) {
	granted, err := c.achievementService.Evaluate(ctx.Request.Context(), middleware.UserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.CheckAchievementsResponse{
		NewAchievements: granted,
		Count:           len(granted),
	}, "Achievements evaluated"))
}
