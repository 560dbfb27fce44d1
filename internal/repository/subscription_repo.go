package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"chargehub/internal/models"
)

// SubscriptionRepository handles plans and user subscriptions.
type SubscriptionRepository struct{}

// NewSubscriptionRepository returns repository.
func NewSubscriptionRepository() *SubscriptionRepository {
	return &SubscriptionRepository{}
}

// ActiveIDByUser returns the user's current subscription id, newest first.
func (r *SubscriptionRepository) ActiveIDByUser(ctx context.Context, q Querier, userID int64) (int64, error) {
	const query = `
		SELECT user_subscription_id
		FROM user_subscription
		WHERE user_id = $1
		  AND (end_date IS NULL OR end_date >= CURRENT_DATE)
		ORDER BY start_date DESC
		LIMIT 1
	`
	var id int64
	if err := q.QueryRowContext(ctx, query, userID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return id, nil
}

// CreateDefault enrolls the user in the default plan starting today.
func (r *SubscriptionRepository) CreateDefault(ctx context.Context, q Querier, userID int64, start time.Time) (int64, error) {
	const query = `
		INSERT INTO user_subscription (user_id, plan_id, start_date)
		VALUES ($1, $2, $3)
		RETURNING user_subscription_id
	`
	var id int64
	err := q.QueryRowContext(ctx, query, userID, models.DefaultPlanID, start).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ListPlans returns all plans ordered by monthly fee.
func (r *SubscriptionRepository) ListPlans(ctx context.Context, q Querier) ([]models.SubscriptionPlan, error) {
	const query = `
		SELECT plan_id, plan_name, plan_description, monthly_fee, discount_rate
		FROM subscription_plan
		ORDER BY monthly_fee
	`
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []models.SubscriptionPlan
	for rows.Next() {
		var p models.SubscriptionPlan
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.MonthlyFee, &p.DiscountRate); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return plans, nil
}

// ActiveDetailByUser returns the user's active subscription joined with plan.
func (r *SubscriptionRepository) ActiveDetailByUser(ctx context.Context, q Querier, userID int64) (*models.SubscriptionDetail, error) {
	const query = `
		SELECT us.user_subscription_id, us.user_id, us.plan_id, us.start_date, us.end_date,
		       sp.plan_name, sp.plan_description, sp.monthly_fee, sp.discount_rate
		FROM user_subscription us
		JOIN subscription_plan sp ON us.plan_id = sp.plan_id
		WHERE us.user_id = $1
		  AND (us.end_date IS NULL OR us.end_date >= CURRENT_DATE)
		ORDER BY us.start_date DESC
		LIMIT 1
	`
	var d models.SubscriptionDetail
	err := q.QueryRowContext(ctx, query, userID).Scan(
		&d.ID,
		&d.UserID,
		&d.PlanID,
		&d.StartDate,
		&d.EndDate,
		&d.PlanName,
		&d.Description,
		&d.MonthlyFee,
		&d.DiscountRate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}
