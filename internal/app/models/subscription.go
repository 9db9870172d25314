package models

import "time"

// SubscriptionStatus is the state of an email list entry
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionInactive SubscriptionStatus = "inactive"
)

// DefaultServiceType is used when a subscribe request omits the service
const DefaultServiceType = "newsletter"

// Subscription is a standalone email list entry keyed by (email, service type)
type Subscription struct {
	ID             int64              `json:"id" db:"id"`
	Email          string             `json:"email" db:"email"`
	FullName       *string            `json:"fullName,omitempty" db:"full_name"`
	ServiceType    string             `json:"serviceType" db:"service_type"`
	Status         SubscriptionStatus `json:"status" db:"status"`
	SubscribedAt   time.Time          `json:"subscribedAt" db:"subscribed_at"`
	UnsubscribedAt *time.Time         `json:"unsubscribedAt,omitempty" db:"unsubscribed_at"`
	CreatedAt      time.Time          `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time          `json:"updatedAt" db:"updated_at"`
}

// IsActive reports whether the entry currently receives mail
func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionActive
}
