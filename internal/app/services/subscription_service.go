package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/repositories"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/apperrors"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/email"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/helpers"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/metrics"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/validation"
)

// SubscriptionService manages email list entries independent of accounts
type SubscriptionService interface {
	Subscribe(ctx context.Context, emailAddr string, fullName *string, serviceType string) (*models.Subscription, error)
	Unsubscribe(ctx context.Context, emailAddr, serviceType string) (*models.Subscription, error)
	Status(ctx context.Context, emailAddr, serviceType string) (*models.Subscription, error)
}

type subscriptionServiceImpl struct {
	repo         repositories.ISubscriptionRepository
	emailService email.EmailService
	logger       zerolog.Logger
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(repo repositories.ISubscriptionRepository, emailService email.EmailService, logger zerolog.Logger) SubscriptionService {
	return &subscriptionServiceImpl{
		repo:         repo,
		emailService: emailService,
		logger:       logger.With().Str("service", "subscription").Logger(),
	}
}

func normalizeSubscriptionKey(emailAddr, serviceType string) (string, string, error) {
	emailAddr = helpers.NormalizeEmail(emailAddr)
	if err := validation.ValidateEmail(emailAddr); err != nil {
		return "", "", err
	}
	serviceType = strings.ToLower(strings.TrimSpace(serviceType))
	if serviceType == "" {
		serviceType = models.DefaultServiceType
	}
	return emailAddr, serviceType, nil
}

// Subscribe creates, or reactivates, the entry for (email, service type).
// An already active entry is a conflict.
func (s *subscriptionServiceImpl) Subscribe(ctx context.Context, emailAddr string, fullName *string, serviceType string) (*models.Subscription, error) {
	emailAddr, serviceType, err := normalizeSubscriptionKey(emailAddr, serviceType)
	if err != nil {
		return nil, err
	}
	fullName = helpers.TrimmedOrNil(fullName)

	existing, err := s.repo.Get(ctx, emailAddr, serviceType)
	if err != nil && !errors.Is(err, apperrors.ErrSubscriptionNotFound) {
		return nil, err
	}

	var sub *models.Subscription
	action := "subscribe"
	switch {
	case existing != nil && existing.IsActive():
		return nil, apperrors.ErrAlreadySubscribed
	case existing != nil:
		if sub, err = s.repo.Reactivate(ctx, existing.ID, fullName); err != nil {
			return nil, err
		}
		action = "resubscribe"
	default:
		sub = &models.Subscription{Email: emailAddr, FullName: fullName, ServiceType: serviceType}
		if err := s.repo.Create(ctx, sub); err != nil {
			return nil, err
		}
	}

	metrics.SubscriptionChanges.WithLabelValues(action).Inc()
	s.logger.Info().Str("email", emailAddr).Str("serviceType", serviceType).Str("action", action).Msg("Subscription activated")

	name := ""
	if sub.FullName != nil {
		name = *sub.FullName
	}
	if err := s.emailService.SendSubscriptionConfirmation(sub.Email, name, sub.ServiceType); err != nil {
		s.logger.Warn().Err(err).Str("email", emailAddr).Msg("Failed to send subscription confirmation")
	}
	return sub, nil
}

// Unsubscribe deactivates an active entry; missing or inactive entries are not found
func (s *subscriptionServiceImpl) Unsubscribe(ctx context.Context, emailAddr, serviceType string) (*models.Subscription, error) {
	emailAddr, serviceType, err := normalizeSubscriptionKey(emailAddr, serviceType)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.Get(ctx, emailAddr, serviceType)
	if err != nil {
		return nil, err
	}
	if !existing.IsActive() {
		return nil, apperrors.ErrSubscriptionNotFound
	}

	sub, err := s.repo.Deactivate(ctx, existing.ID)
	if err != nil {
		return nil, err
	}

	metrics.SubscriptionChanges.WithLabelValues("unsubscribe").Inc()
	s.logger.Info().Str("email", emailAddr).Str("serviceType", serviceType).Msg("Subscription deactivated")

	if err := s.emailService.SendUnsubscribeConfirmation(sub.Email, sub.ServiceType); err != nil {
		s.logger.Warn().Err(err).Str("email", emailAddr).Msg("Failed to send unsubscribe confirmation")
	}
	return sub, nil
}

// Status returns the entry for (email, service type)
func (s *subscriptionServiceImpl) Status(ctx context.Context, emailAddr, serviceType string) (*models.Subscription, error) {
	emailAddr, serviceType, err := normalizeSubscriptionKey(emailAddr, serviceType)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, emailAddr, serviceType)
}
