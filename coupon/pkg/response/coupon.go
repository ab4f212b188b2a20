package response

import "github.com/stylora/marketplace/pricing"

// Coupon is the wire form consumed by the cart service's coupon client, so
// the embedded pricing.Coupon field names are part of the contract.
type Coupon struct {
	pricing.Coupon
	UsageCount int32 `json:"usage_count"`
}
