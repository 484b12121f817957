package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
	"go.uber.org/zap"

	"nightline/passhub/internal/config"
	"nightline/passhub/pkg/crypto"
)

// ErrInvalidSignature marks webhook payloads that fail verification.
// Handlers map it to 400; nothing is mutated for such events.
var ErrInvalidSignature = fmt.Errorf("invalid webhook signature")

type stripeBridge struct {
	sc            *client.API
	webhookSecret string
	successURL    string
	cancelURL     string
	logger        *zap.Logger
}

func NewStripeBridge(cfg config.StripeConfig, logger *zap.Logger) Bridge {
	sc := &client.API{}
	sc.Init(cfg.SecretKey, nil)
	return &stripeBridge{
		sc:            sc,
		webhookSecret: cfg.WebhookSecret,
		successURL:    cfg.SuccessURL,
		cancelURL:     cfg.CancelURL,
		logger:        logger,
	}
}

func (b *stripeBridge) CreateCheckoutSession(ctx context.Context, priceID, userID, groupType string) (*CheckoutSession, error) {
	groupID, err := crypto.NewGroupID(groupType)
	if err != nil {
		return nil, fmt.Errorf("mint group id: %w", err)
	}

	price, err := b.sc.Prices.Get(priceID, &stripe.PriceParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return nil, fmt.Errorf("retrieve price %s: %w", priceID, err)
	}

	lineItem := &stripe.CheckoutSessionLineItemParams{
		Price: stripe.String(priceID),
	}
	// Metered prices reject an explicit quantity.
	metered := price.Recurring != nil && price.Recurring.UsageType == stripe.PriceRecurringUsageTypeMetered
	if !metered {
		lineItem.Quantity = stripe.Int64(1)
	}

	mode := stripe.CheckoutSessionModePayment
	if price.Recurring != nil {
		mode = stripe.CheckoutSessionModeSubscription
	}

	params := &stripe.CheckoutSessionParams{
		Params:     stripe.Params{Context: ctx},
		Mode:       stripe.String(string(mode)),
		LineItems:  []*stripe.CheckoutSessionLineItemParams{lineItem},
		SuccessURL: stripe.String(b.successURL),
		CancelURL:  stripe.String(b.cancelURL),
	}
	params.AddMetadata("userId", userID)
	params.AddMetadata("groupId", groupID)
	params.AddMetadata("groupType", groupType)

	session, err := b.sc.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	return &CheckoutSession{URL: session.URL, GroupID: groupID}, nil
}

func (b *stripeBridge) VerifyWebhook(payload []byte, sigHeader string) (*CheckoutCompleted, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, b.webhookSecret)
	if err != nil {
		return nil, ErrInvalidSignature
	}

	if event.Type != "checkout.session.completed" {
		b.logger.Debug("ignoring webhook event", zap.String("type", string(event.Type)))
		return nil, nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}

	completed := &CheckoutCompleted{
		EventID:   event.ID,
		UserID:    session.Metadata["userId"],
		GroupID:   session.Metadata["groupId"],
		GroupType: session.Metadata["groupType"],
	}
	if session.Customer != nil {
		completed.StripeCustomerID = session.Customer.ID
	}
	if session.CustomerDetails != nil {
		completed.Email = session.CustomerDetails.Email
	}
	return completed, nil
}

func (b *stripeBridge) CancelActiveSubscriptions(ctx context.Context, customerID string) ([]Cancellation, error) {
	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String(string(stripe.SubscriptionStatusActive)),
	}
	params.Context = ctx

	var results []Cancellation
	iter := b.sc.Subscriptions.List(params)
	for iter.Next() {
		sub := iter.Subscription()
		_, err := b.sc.Subscriptions.Cancel(sub.ID, &stripe.SubscriptionCancelParams{
			Params: stripe.Params{Context: ctx},
		})
		if err != nil {
			b.logger.Warn("subscription cancel failed",
				zap.String("subscription_id", sub.ID),
				zap.Error(err))
			results = append(results, Cancellation{SubscriptionID: sub.ID, Error: err.Error()})
			continue
		}
		results = append(results, Cancellation{SubscriptionID: sub.ID, Canceled: true})
	}
	if err := iter.Err(); err != nil {
		return results, fmt.Errorf("list subscriptions for %s: %w", customerID, err)
	}
	return results, nil
}

func (b *stripeBridge) ListPlans(ctx context.Context) ([]PlanListing, error) {
	params := &stripe.PriceListParams{
		Active: stripe.Bool(true),
	}
	params.Context = ctx
	params.AddExpand("data.product")

	var plans []PlanListing
	iter := b.sc.Prices.List(params)
	for iter.Next() {
		price := iter.Price()
		listing := PlanListing{
			ID:       price.ID,
			Amount:   fmt.Sprintf("%.2f", float64(price.UnitAmount)/100),
			Currency: strings.ToUpper(string(price.Currency)),
			Active:   price.Active,
		}
		if price.Product != nil {
			listing.Name = price.Product.Name
			listing.Description = price.Product.Description
		}
		if price.Recurring != nil {
			listing.Interval = string(price.Recurring.Interval)
		}
		plans = append(plans, listing)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list prices: %w", err)
	}
	return plans, nil
}
