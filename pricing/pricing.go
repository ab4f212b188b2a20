// Package pricing computes cart totals, shipping fees and coupon discounts.
// An Engine is built per request from the persisted cart lines and the
// applied coupon code; it never talks to storage except through the
// CouponDirectory lookup it is given.
package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// CartLine is one product selection in a user's cart. Two lines with the
// same ProductID, Size and Color are the same selection and must be merged.
type CartLine struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	SellerID       uuid.UUID       `json:"seller_id"`
	Size           string          `json:"size,omitempty"`
	Color          string          `json:"color,omitempty"`
	Quantity       int32           `json:"quantity"`
	SellingPrice   decimal.Decimal `json:"selling_price"`
	Mrp            decimal.Decimal `json:"mrp"`
	ShippingCharge decimal.Decimal `json:"shipping_charge"`
	DeliveryDays   int32           `json:"delivery_days"`
}

func (l CartLine) SameSelection(o CartLine) bool {
	return l.ProductID == o.ProductID && l.Size == o.Size && l.Color == o.Color
}

// Coupon is a discount rule. MaxDiscount only applies to percentage coupons.
// A nil BrandID means the coupon applies to the whole cart; otherwise only
// to lines whose SellerID matches.
type Coupon struct {
	Code          string           `json:"code"`
	DiscountType  DiscountType     `json:"discount_type"`
	DiscountValue decimal.Decimal  `json:"discount_value"`
	MaxDiscount   *decimal.Decimal `json:"max_discount,omitempty"`
	MinOrderValue *decimal.Decimal `json:"min_order_value,omitempty"`
	BrandID       *uuid.UUID       `json:"brand_id,omitempty"`
	ExpiryDate    time.Time        `json:"expiry_date"`
}

// CouponDirectory looks up a coupon by its canonical upper-case code.
// Implementations return internal/errors.ErrCouponNotFound when absent.
type CouponDirectory interface {
	FindCouponByCode(c context.Context, code string) (Coupon, error)
}

// Breakdown is the full price computation for a cart. MaxDeliveryDays is
// nil for an empty cart.
type Breakdown struct {
	Subtotal          decimal.Decimal `json:"subtotal"`
	MrpTotal          decimal.Decimal `json:"mrp_total"`
	Savings           decimal.Decimal `json:"savings"`
	SavingsPercentage int64           `json:"savings_percentage"`
	ShippingFee       decimal.Decimal `json:"shipping_fee"`
	CouponDiscount    decimal.Decimal `json:"coupon_discount"`
	FinalAmount       decimal.Decimal `json:"final_amount"`
	CouponCode        string          `json:"coupon_code,omitempty"`
	MaxDeliveryDays   *int32          `json:"max_delivery_days,omitempty"`
}
