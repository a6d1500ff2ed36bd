package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dafibh/mierunbo/mierunbo-backend/internal/domain"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/websocket"
)

// SubscriptionAdvancer rolls overdue billing dates forward
type SubscriptionAdvancer interface {
	AdvanceDue(ctx context.Context, today domain.Date) ([]domain.Subscription, error)
}

// RenewalResult reports one renewal pass
type RenewalResult struct {
	Today   domain.Date           `json:"today"`
	Renewed []domain.Subscription `json:"renewed"`
}

// RenewalService keeps cached next billing dates current
type RenewalService struct {
	subscriptions SubscriptionAdvancer
	publisher     websocket.EventPublisher
	logger        zerolog.Logger
}

// NewRenewalService creates a new RenewalService. A nil publisher disables change events.
func NewRenewalService(subscriptions SubscriptionAdvancer, publisher websocket.EventPublisher, logger zerolog.Logger) *RenewalService {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	return &RenewalService{
		subscriptions: subscriptions,
		publisher:     publisher,
		logger:        logger.With().Str("component", "renewal_service").Logger(),
	}
}

// AdvanceDue moves every overdue subscription to its next billing date on or after today and
// publishes a subscription.renewed event for each. Renewing never records an expense; the
// subscription already counts toward every month through the monthly total.
func (s *RenewalService) AdvanceDue(ctx context.Context, today domain.Date) (*RenewalResult, error) {
	renewed, err := s.subscriptions.AdvanceDue(ctx, today)

	// The in-memory dates move even when persisting fails, so readers already see them
	s.publishRenewed(renewed)
	result := &RenewalResult{Today: today, Renewed: renewed}
	if err != nil {
		return result, fmt.Errorf("failed to persist renewals: %w", err)
	}
	return result, nil
}

func (s *RenewalService) publishRenewed(renewed []domain.Subscription) {
	for _, sub := range renewed {
		s.logger.Debug().
			Str("subscription_id", sub.ID).
			Str("next_billing_date", sub.NextBillingDate.String()).
			Msg("Subscription renewed")
		s.publisher.Publish(websocket.SubscriptionRenewed(sub))
	}
}
