package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models/dto"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/services"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/middleware"
)

// QuizController serves the career quiz
type QuizController struct {
	quizService services.QuizService
	logger      zerolog.Logger
}

// NewQuizController creates a new QuizController
func NewQuizController(quizService services.QuizService, logger zerolog.Logger) *QuizController {
	return &QuizController{
		quizService: quizService,
		logger:      logger,
	}
}

// Questions godoc
// @Summary List quiz questions
// @Tags quiz
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.QuizQuestion}
// @Router /quiz/questions [get]
func (c *QuizController) Questions(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(c.quizService.Questions(), "Questions retrieved"))
}

// Submit godoc
// @Summary Submit quiz answers
// @Description Scores the answers per category and recommends matching courses
// @Tags quiz
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.QuizSubmitRequest true "Answers"
// @Success 200 {object} dto.APIResponse{data=dto.QuizSubmitResponse}
// @Failure 400 {object} dto.ErrorResponse "Unknown question or option"
// @Router /quiz/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	var req dto.QuizSubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	resp, err := c.quizService.Submit(ctx.Request.Context(), middleware.UserID(ctx), req.Answers)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(resp, "Quiz submitted"))
}

// Latest godoc
// @Summary Latest quiz result
// @Tags quiz
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.QuizResult}
// @Failure 404 {object} dto.ErrorResponse "No result yet"
// @Router /quiz/results/latest [get]
func (c *QuizController) Latest(ctx *gin.Context) {
	result, err := c.quizService.Latest(ctx.Request.Context(), middleware.UserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(result, "Quiz result retrieved"))
}
