package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/apperrors"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/dberrors"
)

// ISubscriptionRepository defines email list persistence
type ISubscriptionRepository interface {
	Get(ctx context.Context, email, serviceType string) (*models.Subscription, error)
	Create(ctx context.Context, sub *models.Subscription) error
	// Reactivate turns an inactive row active again, keeping its id
	Reactivate(ctx context.Context, id int64, fullName *string) (*models.Subscription, error)
	Deactivate(ctx context.Context, id int64) (*models.Subscription, error)
}

// SubscriptionRepository handles the subscriptions table
type SubscriptionRepository struct {
	db *pgxpool.Pool
}

// NewSubscriptionRepository creates a new SubscriptionRepository
func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

const subscriptionColumns = `id, email, full_name, service_type, status, subscribed_at, unsubscribed_at, created_at, updated_at`

func scanSubscription(row pgx.Row) (*models.Subscription, error) {
	s := &models.Subscription{}
	err := row.Scan(&s.ID, &s.Email, &s.FullName, &s.ServiceType, &s.Status,
		&s.SubscribedAt, &s.UnsubscribedAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Get finds the entry for an (email, service type) pair
func (r *SubscriptionRepository) Get(ctx context.Context, email, serviceType string) (*models.Subscription, error) {
	s, err := scanSubscription(r.db.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE email = $1 AND service_type = $2`,
		email, serviceType))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("error getting subscription: %w", err)
	}
	return s, nil
}

// Create inserts an active entry. A concurrent insert of the same pair maps
// to ErrAlreadySubscribed.
func (r *SubscriptionRepository) Create(ctx context.Context, s *models.Subscription) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO subscriptions (email, full_name, service_type, status, subscribed_at)
		VALUES ($1, $2, $3, 'active', NOW())
		RETURNING `+subscriptionColumns,
		s.Email, s.FullName, s.ServiceType,
	).Scan(&s.ID, &s.Email, &s.FullName, &s.ServiceType, &s.Status,
		&s.SubscribedAt, &s.UnsubscribedAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAlreadySubscribed
		}
		return fmt.Errorf("error creating subscription: %w", err)
	}
	return nil
}

// Reactivate re-enables an inactive entry. The name is only replaced when a
// new one is given.
func (r *SubscriptionRepository) Reactivate(ctx context.Context, id int64, fullName *string) (*models.Subscription, error) {
	s, err := scanSubscription(r.db.QueryRow(ctx, `
		UPDATE subscriptions SET
			status = 'active',
			subscribed_at = NOW(),
			unsubscribed_at = NULL,
			full_name = COALESCE($2, full_name),
			updated_at = NOW()
		WHERE id = $1 AND status = 'inactive'
		RETURNING `+subscriptionColumns,
		id, fullName))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrAlreadySubscribed
		}
		return nil, fmt.Errorf("error reactivating subscription: %w", err)
	}
	return s, nil
}

// Deactivate marks an active entry inactive
func (r *SubscriptionRepository) Deactivate(ctx context.Context, id int64) (*models.Subscription, error) {
	s, err := scanSubscription(r.db.QueryRow(ctx, `
		UPDATE subscriptions SET
			status = 'inactive',
			unsubscribed_at = NOW(),
			updated_at = NOW()
		WHERE id = $1 AND status = 'active'
		RETURNING `+subscriptionColumns, id))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("error deactivating subscription: %w", err)
	}
	return s, nil
}
