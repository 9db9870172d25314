package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models/dto"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/services"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/middleware"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/helpers"
)

// ProfileController serves profiles, the activity feed and talent search
type ProfileController struct {
	profileService services.ProfileService
	projectService services.ProjectService
	logger         zerolog.Logger
}

// NewProfileController creates a new ProfileController
func NewProfileController(profileService services.ProfileService, projectService services.ProjectService, logger zerolog.Logger) *ProfileController {
	return &ProfileController{
		profileService: profileService,
		projectService: projectService,
		logger:         logger,
	}
}

// GetMyProfile godoc
// @Summary Get my profile
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse}
// @Router /profiles/me [get]
func (c *ProfileController) GetMyProfile(ctx *gin.Context) {
	resp, err := c.profileService.GetMyProfile(ctx.Request.Context(), middleware.UserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(resp, "Profile retrieved"))
}

// UpdateMyProfile godoc
// @Summary Update my profile
// @Description Partial update. Omitted fields are unchanged. Completing the profile for the first time awards a one-time bonus.
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.APIResponse{data=dto.UpdateProfileResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Router /profiles/me [put]
func (c *ProfileController) UpdateMyProfile(ctx *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	resp, err := c.profileService.UpdateMyProfile(ctx.Request.Context(), middleware.UserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(resp, "Profile updated"))
}

// GetMyActivity godoc
// @Summary Get my activity feed
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum entries (default 20, max 100)"
// @Success 200 {object} dto.APIResponse{data=[]models.Activity}
// @Router /profiles/me/activity [get]
func (c *ProfileController) GetMyActivity(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.Query("limit"))

	activities, err := c.profileService.GetActivity(ctx.Request.Context(), middleware.UserID(ctx), limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(activities, "Activity retrieved"))
}

// GetPublicProfile godoc
// @Summary Get a public profile
// @Tags profiles
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.PublicProfileResponse}
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /profiles/{id}/public [get]
func (c *ProfileController) GetPublicProfile(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.profileService.GetPublicProfile(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(resp, "Profile retrieved"))
}

// GetUserProjects lists the public projects of a user
// @Summary List a user's projects
// @Tags profiles
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Project}
// @Router /profiles/{id}/projects [get]
func (c *ProfileController) GetUserProjects(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	projects, err := c.projectService.ListByUser(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(projects, "Projects retrieved"))
}

// SearchTalent godoc
// @Summary Search students by skill
// @Description Industry experts only. Ordered by points.
// @Tags talent
// @Produce json
// @Security BearerAuth
// @Param skill query string true "Skill"
// @Param page query int false "Page (1-based)"
// @Param pageSize query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Failure 403 {object} dto.ErrorResponse "Not an industry expert"
// @Router /talent [get]
func (c *ProfileController) SearchTalent(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	talents, pagination, err := c.profileService.SearchTalent(ctx.Request.Context(), ctx.Query("skill"), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.PaginatedResponse{
		Items:      talents,
		Pagination: pagination,
	}, "Talent retrieved"))
}
