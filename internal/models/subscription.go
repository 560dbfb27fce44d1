package models

import "time"

// DefaultPlanID is the plan users are lazily enrolled in when they start a
// session without an active subscription.
const DefaultPlanID = 1

// SubscriptionPlan defines a monthly fee and the discount applied to
// session pricing.
type SubscriptionPlan struct {
	ID           int64   `db:"plan_id" json:"plan_id"`
	Name         string  `db:"plan_name" json:"plan_name"`
	Description  string  `db:"plan_description" json:"plan_description"`
	MonthlyFee   float64 `db:"monthly_fee" json:"monthly_fee"`
	DiscountRate float64 `db:"discount_rate" json:"discount_rate"`
}

// UserSubscription enrolls a user in a plan. A nil EndDate means open-ended.
type UserSubscription struct {
	ID        int64      `db:"user_subscription_id" json:"user_subscription_id"`
	UserID    int64      `db:"user_id" json:"user_id"`
	PlanID    int64      `db:"plan_id" json:"plan_id"`
	StartDate time.Time  `db:"start_date" json:"start_date"`
	EndDate   *time.Time `db:"end_date" json:"end_date,omitempty"`
}

// SubscriptionDetail joins the subscription with its plan for API responses.
type SubscriptionDetail struct {
	UserSubscription
	PlanName     string  `db:"plan_name" json:"plan_name"`
	Description  string  `db:"plan_description" json:"plan_description"`
	MonthlyFee   float64 `db:"monthly_fee" json:"monthly_fee"`
	DiscountRate float64 `db:"discount_rate" json:"discount_rate"`
}
