package response

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stylora/marketplace/pricing"
)

// Cart is the priced view of a user's cart. Breakdown carries the totals,
// savings, shipping fee and any coupon discount for the current lines.
type Cart struct {
	Lines     []pricing.CartLine `json:"lines"`
	Breakdown pricing.Breakdown  `json:"breakdown"`
}

type WishlistItem struct {
	ID           uuid.UUID       `json:"id"`
	ProductId    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ImageUrl     string          `json:"image_url"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	Mrp          decimal.Decimal `json:"mrp"`
}
