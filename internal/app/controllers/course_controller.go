package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models/dto"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/services"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/middleware"
)

// CourseController handles the course catalogue and enrollments
type CourseController struct {
	courseService services.CourseService
	logger        zerolog.Logger
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService, logger zerolog.Logger) *CourseController {
	return &CourseController{
		courseService: courseService,
		logger:        logger,
	}
}

// ListCourses godoc
// @Summary List active courses
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param level query string false "beginner, intermediate or advanced"
// @Param category query string false "Category"
// @Success 200 {object} dto.APIResponse{data=[]dto.CourseResponse}
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	var query dto.CourseFilterQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		bindError(ctx, err)
		return
	}

	courses, err := c.courseService.ListCourses(ctx.Request.Context(), middleware.UserID(ctx), models.CourseFilter{
		Level:    query.Level,
		Category: query.Category,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(courses, "Courses retrieved"))
}

// MyCourses godoc
// @Summary List my enrolled courses
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.CourseResponse}
// @Router /courses/me [get]
func (c *CourseController) MyCourses(ctx *gin.Context) {
	courses, err := c.courseService.MyCourses(ctx.Request.Context(), middleware.UserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(courses, "Courses retrieved"))
}

// GetCourse godoc
// @Summary Get a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse}
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	course, err := c.courseService.GetCourse(ctx.Request.Context(), middleware.UserID(ctx), courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(course, "Course retrieved"))
}

// Enroll godoc
// @Summary Enroll in a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 201 {object} dto.APIResponse{data=dto.CourseResponse}
// @Failure 404 {object} dto.ErrorResponse "Course not found or inactive"
// @Failure 409 {object} dto.ErrorResponse "Already enrolled"
// @Router /courses/{id}/enroll [post]
func (c *CourseController) Enroll(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	course, err := c.courseService.Enroll(ctx.Request.Context(), middleware.UserID(ctx), courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(course, "Enrolled successfully"))
}

// UpdateProgress godoc
// @Summary Update course progress
// @Description Progress is clamped to 0..100
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.UpdateProgressRequest true "Progress"
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse}
// @Failure 404 {object} dto.ErrorResponse "Not enrolled"
// @Router /courses/{id}/progress [put]
func (c *CourseController) UpdateProgress(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	course, err := c.courseService.UpdateProgress(ctx.Request.Context(), middleware.UserID(ctx), courseID, *req.Progress)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(course, "Progress updated"))
}

// Complete godoc
// @Summary Complete a course
// @Description Awards the course XP once and evaluates achievements
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.CompleteCourseResponse}
// @Failure 404 {object} dto.ErrorResponse "Not enrolled"
// @Failure 409 {object} dto.ErrorResponse "Already completed"
// @Router /courses/{id}/complete [post]
func (c *CourseController) Complete(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.courseService.Complete(ctx.Request.Context(), middleware.UserID(ctx), courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Int64("userID", middleware.UserID(ctx)).
		Int64("courseID", courseID).
		Msg("Course completed")
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(resp, "Course completed"))
}
