package billing

import (
	"github.com/rthompsontouch/agencyops/internal/domain"
)

// MapStatus translates a processor subscription status into the local
// vocabulary. Applied uniformly everywhere a processor status is consumed.
// Unknown statuses map to active rather than failing, so a new processor
// status never breaks reads; unpaid collapses into canceled because an
// unpaid subscription must not be billed against.
func MapStatus(status string) domain.SubscriptionStatus {
	switch status {
	case "active":
		return domain.SubscriptionActive
	case "trialing":
		return domain.SubscriptionTrialing
	case "past_due":
		return domain.SubscriptionPastDue
	case "incomplete", "incomplete_expired":
		return domain.SubscriptionIncomplete
	case "canceled", "unpaid":
		return domain.SubscriptionCanceled
	default:
		return domain.SubscriptionActive
	}
}
