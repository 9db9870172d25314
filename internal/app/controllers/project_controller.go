package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models/dto"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/services"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/middleware"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/apperrors"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/filestorage"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/helpers"
)

// ProjectController handles portfolio projects
type ProjectController struct {
	projectService services.ProjectService
	images         filestorage.ImageStore
	logger         zerolog.Logger
}

// NewProjectController creates a new ProjectController. images may be nil,
// in which case uploads answer 503.
func NewProjectController(projectService services.ProjectService, images filestorage.ImageStore, logger zerolog.Logger) *ProjectController {
	return &ProjectController{
		projectService: projectService,
		images:         images,
		logger:         logger,
	}
}

// ListMine godoc
// @Summary List my projects
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Project}
// @Router /projects/me [get]
func (c *ProjectController) ListMine(ctx *gin.Context) {
	projects, err := c.projectService.ListMine(ctx.Request.Context(), middleware.UserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(projects, "Projects retrieved"))
}

// Get godoc
// @Summary Get a project
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} dto.APIResponse{data=models.Project}
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /projects/{id} [get]
func (c *ProjectController) Get(ctx *gin.Context) {
	projectID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	project, err := c.projectService.Get(ctx.Request.Context(), projectID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(project, "Project retrieved"))
}

// Create godoc
// @Summary Create a project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateProjectRequest true "Project"
// @Success 201 {object} dto.APIResponse{data=models.Project}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Router /projects [post]
func (c *ProjectController) Create(ctx *gin.Context) {
	var req dto.CreateProjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	project, err := c.projectService.Create(ctx.Request.Context(), middleware.UserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(project, "Project created"))
}

// Update godoc
// @Summary Update a project
// @Description Owner only. Omitted fields are unchanged.
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param request body dto.UpdateProjectRequest true "Project fields"
// @Success 200 {object} dto.APIResponse{data=models.Project}
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /projects/{id} [put]
func (c *ProjectController) Update(ctx *gin.Context) {
	projectID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	project, err := c.projectService.Update(ctx.Request.Context(), middleware.UserID(ctx), projectID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(project, "Project updated"))
}

// Delete godoc
// @Summary Delete a project
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /projects/{id} [delete]
func (c *ProjectController) Delete(ctx *gin.Context) {
	projectID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.projectService.Delete(ctx.Request.Context(), middleware.UserID(ctx), projectID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(nil, "Project deleted"))
}

// Search godoc
// @Summary Search public projects
// @Tags projects
// @Produce json
// @Param q query string true "Search text"
// @Param page query int false "Page (1-based)"
// @Param pageSize query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Failure 400 {object} dto.ErrorResponse "Missing query"
// @Router /projects/search [get]
func (c *ProjectController) Search(ctx *gin.Context) {
	var query dto.ProjectSearchQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		bindError(ctx, err)
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	projects, pagination, err := c.projectService.Search(ctx.Request.Context(), query.Query, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.PaginatedResponse{
		Items:      projects,
		Pagination: pagination,
	}, "Projects retrieved"))
}

// UploadImage godoc
// @Summary Upload a project image
// @Description Multipart upload in the "image" field. jpg, png, gif or webp.
// @Tags projects
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param image formData file true "Image"
// @Success 201 {object} dto.APIResponse{data=models.Project}
// @Failure 400 {object} dto.ErrorResponse "Missing, unsupported or oversized image"
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Router /projects/{id}/images [post]
func (c *ProjectController) UploadImage(ctx *gin.Context) {
	if c.images == nil {
		middleware.HandleAPIError(ctx, apperrors.ErrServiceUnavailable)
		return
	}

	projectID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	userID := middleware.UserID(ctx)

	// nothing is written to disk for a project the caller cannot change
	if err := c.projectService.CheckImageUpload(ctx.Request.Context(), userID, projectID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("image", "image file is required"))
		return
	}

	imageURL, err := c.images.Save(fileHeader, "projects/"+strconv.FormatInt(projectID, 10))
	if err != nil {
		if errors.Is(err, filestorage.ErrUnsupportedType) || errors.Is(err, filestorage.ErrFileTooLarge) {
			middleware.HandleAPIError(ctx, apperrors.NewValidationError("image", err.Error()))
			return
		}
		c.logger.Error().Err(err).Int64("projectID", projectID).Msg("Failed to store project image")
		middleware.HandleAPIError(ctx, err)
		return
	}

	project, err := c.projectService.AddImage(ctx.Request.Context(), userID, projectID, imageURL)
	if err != nil {
		if delErr := c.images.Delete(imageURL); delErr != nil {
			c.logger.Warn().Err(delErr).Str("url", imageURL).Msg("Failed to remove orphaned image")
		}
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(project, "Image uploaded"))
}
