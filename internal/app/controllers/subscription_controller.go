package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models/dto"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/services"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/middleware"
)

// SubscriptionController handles newsletter style email subscriptions
type SubscriptionController struct {
	subscriptionService services.SubscriptionService
	logger              zerolog.Logger
}

// NewSubscriptionController creates a new SubscriptionController
func NewSubscriptionController(subscriptionService services.SubscriptionService, logger zerolog.Logger) *SubscriptionController {
	return &SubscriptionController{
		subscriptionService: subscriptionService,
		logger:              logger,
	}
}

// Subscribe godoc
// @Summary Subscribe an email
// @Description Re-subscribing an inactive entry reactivates it
// @Tags subscription
// @Accept json
// @Produce json
// @Param request body dto.SubscribeRequest true "Subscription"
// @Success 200 {object} dto.APIResponse{data=models.Subscription}
// @Failure 409 {object} dto.ErrorResponse "Already subscribed"
// @Router /subscription/subscribe [post]
func (c *SubscriptionController) Subscribe(ctx *gin.Context) {
	var req dto.SubscribeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	sub, err := c.subscriptionService.Subscribe(ctx.Request.Context(), req.Email, req.FullName, req.ServiceType)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(sub, "Subscribed successfully"))
}

// Unsubscribe godoc
// @Summary Unsubscribe an email
// @Tags subscription
// @Accept json
// @Produce json
// @Param request body dto.UnsubscribeRequest true "Subscription"
// @Success 200 {object} dto.APIResponse{data=models.Subscription}
// @Failure 404 {object} dto.ErrorResponse "No active subscription"
// @Router /subscription/unsubscribe [post]
func (c *SubscriptionController) Unsubscribe(ctx *gin.Context) {
	var req dto.UnsubscribeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	sub, err := c.subscriptionService.Unsubscribe(ctx.Request.Context(), req.Email, req.ServiceType)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(sub, "Unsubscribed successfully"))
}

// Status godoc
// @Summary Subscription status
// @Tags subscription
// @Produce json
// @Param email query string true "Email"
// @Param serviceType query string false "Service type"
// @Success 200 {object} dto.APIResponse{data=models.Subscription}
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /subscription/status [get]
func (c *SubscriptionController) Status(ctx *gin.Context) {
	var query dto.SubscriptionStatusQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		bindError(ctx, err)
		return
	}

	sub, err := c.subscriptionService.Status(ctx.Request.Context(), query.Email, query.ServiceType)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(sub, "Subscription retrieved"))
}
