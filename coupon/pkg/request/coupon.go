package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InsertCoupon struct {
	Code          string           `json:"code"            validate:"required"`
	DiscountType  string           `json:"discount_type"   validate:"required,oneof=percentage fixed"`
	DiscountValue decimal.Decimal  `json:"discount_value"  validate:"required"`
	MaxDiscount   *decimal.Decimal `json:"max_discount"`
	MinOrderValue *decimal.Decimal `json:"min_order_value"`
	BrandId       *uuid.UUID       `json:"brand_id"`
	ExpiryDate    time.Time        `json:"expiry_date"     validate:"required"`
}
