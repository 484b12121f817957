package billing

import "context"

// CheckoutSession is what the client needs to send a rider to payment.
type CheckoutSession struct {
	URL     string `json:"url"`
	GroupID string `json:"groupId"`
}

// CheckoutCompleted is the digest of a verified checkout webhook event.
type CheckoutCompleted struct {
	EventID          string
	UserID           string
	GroupID          string
	GroupType        string
	StripeCustomerID string
	Email            string
}

// Cancellation records the outcome of one subscription cancellation.
// One failed cancellation never aborts its siblings.
type Cancellation struct {
	SubscriptionID string `json:"subscriptionId"`
	Canceled       bool   `json:"canceled"`
	Error          string `json:"error,omitempty"`
}

// PlanListing is one purchasable price as shown in the app.
type PlanListing struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Interval    string `json:"interval"`
	Active      bool   `json:"active"`
}

// Bridge is the billing-provider seam. Services depend on it so tests
// can substitute a fake.
type Bridge interface {
	// CreateCheckoutSession mints a fresh group id for the plan instance
	// and opens a checkout session carrying {userId, groupId, groupType}
	// as metadata.
	CreateCheckoutSession(ctx context.Context, priceID, userID, groupType string) (*CheckoutSession, error)

	// VerifyWebhook checks the event signature and, for completed
	// checkouts, extracts the session digest. Returns (nil, nil) for
	// event types the system ignores.
	VerifyWebhook(payload []byte, sigHeader string) (*CheckoutCompleted, error)

	// CancelActiveSubscriptions hard-cancels every active subscription
	// of a customer, collecting per-subscription outcomes.
	CancelActiveSubscriptions(ctx context.Context, customerID string) ([]Cancellation, error)

	// ListPlans returns the active prices with product details.
	ListPlans(ctx context.Context) ([]PlanListing, error)
}
