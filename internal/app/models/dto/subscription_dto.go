package dto

// SubscribeRequest subscribes an email to a service, newsletter by default
type SubscribeRequest struct {
	Email       string  `json:"email" binding:"required,email"`
	FullName    *string `json:"fullName" binding:"omitempty,max=100"`
	ServiceType string  `json:"serviceType" binding:"omitempty,max=50"`
}

// UnsubscribeRequest deactivates a subscription
type UnsubscribeRequest struct {
	Email       string `json:"email" binding:"required,email"`
	ServiceType string `json:"serviceType" binding:"omitempty,max=50"`
}

// SubscriptionStatusQuery binds the status lookup parameters
type SubscriptionStatusQuery struct {
	Email       string `form:"email" binding:"required,email"`
	ServiceType string `form:"serviceType" binding:"omitempty,max=50"`
}
