package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"chargehub/internal/models"
	"chargehub/internal/repository"
)

type subscriptionStore interface {
	ActiveIDByUser(ctx context.Context, q repository.Querier, userID int64) (int64, error)
	CreateDefault(ctx context.Context, q repository.Querier, userID int64, start time.Time) (int64, error)
	ListPlans(ctx context.Context, q repository.Querier) ([]models.SubscriptionPlan, error)
	ActiveDetailByUser(ctx context.Context, q repository.Querier, userID int64) (*models.SubscriptionDetail, error)
}

// SubscriptionService owns plan lookups and the single place where users get
// lazily enrolled in the default plan.
type SubscriptionService struct {
	db     repository.Querier
	subs   subscriptionStore
	logger *zap.Logger
}

// NewSubscriptionService builds service.
func NewSubscriptionService(db repository.Querier, subs subscriptionStore, logger *zap.Logger) *SubscriptionService {
	return &SubscriptionService{db: db, subs: subs, logger: logger}
}

// EnsureActive returns the user's active subscription id, enrolling them in
// the default plan when they have none. Runs against the caller's querier so
// it participates in workflow transactions.
func (s *SubscriptionService) EnsureActive(ctx context.Context, q repository.Querier, userID int64, now time.Time) (int64, error) {
	id, err := s.subs.ActiveIDByUser(ctx, q, userID)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return 0, err
	}

	id, err = s.subs.CreateDefault(ctx, q, userID, now)
	if err != nil {
		return 0, err
	}
	s.logger.Info("enrolled user in default plan",
		zap.Int64("user_id", userID),
		zap.Int64("user_subscription_id", id),
	)
	return id, nil
}

// Plans returns all subscription plans ordered by monthly fee.
func (s *SubscriptionService) Plans(ctx context.Context) ([]models.SubscriptionPlan, error) {
	return s.subs.ListPlans(ctx, s.db)
}

// ActiveForUser returns the user's current subscription with plan details.
func (s *SubscriptionService) ActiveForUser(ctx context.Context, userID int64) (*models.SubscriptionDetail, error) {
	detail, err := s.subs.ActiveDetailByUser(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("active subscription for user %d: %w", userID, ErrNotFound)
		}
		return nil, err
	}
	return detail, nil
}
