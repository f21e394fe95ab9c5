package subscription

const (
	EventInvoicePaid         = "invoice.paid"
	EventInvoiceFailed       = "invoice.payment_failed"
	EventSubscriptionDeleted = "subscription.deleted"
)

// Event is the normalized shape of a payment-processor webhook payload. Only
// the fields the reconciler acts on are decoded.
type Event struct {
	Type            string `json:"type" binding:"required"`
	SubscriptionRef string `json:"subscription_ref" binding:"required"`
}

type SweepResponse struct {
	TransitionedCount int `json:"transitioned_count"`
}
