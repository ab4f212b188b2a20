package repository

import (
	"github.com/google/uuid"

	"github.com/stylora/marketplace/pricing"
)

func (r FindCartLinesByUserIdRow) CartLine() pricing.CartLine {
	return pricing.CartLine{
		ID:             r.ID,
		ProductID:      r.ProductID,
		SellerID:       r.SellerID,
		Size:           r.Size,
		Color:          r.Color,
		Quantity:       r.Quantity,
		SellingPrice:   DecimalFromNumeric(r.SellingPrice),
		Mrp:            DecimalFromNumeric(r.Mrp),
		ShippingCharge: DecimalFromNumeric(r.ShippingCharge),
		DeliveryDays:   r.DeliveryDays,
	}
}

func CartLines(rows []FindCartLinesByUserIdRow) []pricing.CartLine {
	lines := make([]pricing.CartLine, len(rows))
	for i, row := range rows {
		lines[i] = row.CartLine()
	}
	return lines
}

func (c Coupon) Pricing() pricing.Coupon {
	coupon := pricing.Coupon{
		Code:          c.Code,
		DiscountType:  pricing.DiscountType(c.DiscountType),
		DiscountValue: DecimalFromNumeric(c.DiscountValue),
		MaxDiscount:   DecimalPtrFromNumeric(c.MaxDiscount),
		MinOrderValue: DecimalPtrFromNumeric(c.MinOrderValue),
		ExpiryDate:    c.ExpiryDate.Time,
	}
	if c.BrandID.Valid {
		brand := c.BrandID.UUID
		coupon.BrandID = &brand
	}
	return coupon
}

func NullUUIDFromPtr(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
