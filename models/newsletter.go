package models

import "time"

type SubscriptionStatus string

const (
	SubscriptionActive       SubscriptionStatus = "active"
	SubscriptionUnsubscribed SubscriptionStatus = "unsubscribed"
)

type NewsletterSubscriber struct {
	ID                 uint               `json:"id" gorm:"primarykey"`
	Email              string             `json:"email" gorm:"uniqueIndex;not null"`
	SubscriptionStatus SubscriptionStatus `json:"subscription_status" gorm:"type:varchar(16);not null"`
	SubscribedAt       time.Time          `json:"subscribed_at"`
	Source             string             `json:"source"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

type NewsletterStats struct {
	Total        int64 `json:"total"`
	Active       int64 `json:"active"`
	Unsubscribed int64 `json:"unsubscribed"`
	RecentCount  int64 `json:"recent_count"`
}

// SubscribeOutcome tells the caller which transition a subscribe call took.
type SubscribeOutcome string

const (
	OutcomeSubscribed        SubscribeOutcome = "subscribed"
	OutcomeAlreadySubscribed SubscribeOutcome = "already_subscribed"
	OutcomeReactivated       SubscribeOutcome = "reactivated"
)

type SubscribeResult struct {
	Subscriber NewsletterSubscriber `json:"subscriber"`
	Outcome    SubscribeOutcome     `json:"outcome"`
}
