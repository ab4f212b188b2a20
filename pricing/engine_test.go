package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	inErrors "github.com/stylora/marketplace/internal/errors"
)

type fakeDirectory struct {
	coupons map[string]Coupon
}

func (f fakeDirectory) FindCouponByCode(_ context.Context, code string) (Coupon, error) {
	coupon, ok := f.coupons[code]
	if !ok {
		return Coupon{}, inErrors.ErrCouponNotFound
	}
	return coupon, nil
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal { return &d }

func line(seller uuid.UUID, selling, mrp, shipping int64, qty, deliveryDays int32) CartLine {
	return CartLine{
		ID:             uuid.New(),
		ProductID:      uuid.New(),
		SellerID:       seller,
		Quantity:       qty,
		SellingPrice:   decimal.NewFromInt(selling),
		Mrp:            decimal.NewFromInt(mrp),
		ShippingCharge: decimal.NewFromInt(shipping),
		DeliveryDays:   deliveryDays,
	}
}

func newTestEngine(coupons map[string]Coupon, lines ...CartLine) *Engine {
	engine := NewEngine(uuid.New(), fakeDirectory{coupons: coupons})
	engine.SetLines(context.Background(), lines)
	return engine
}

func TestBreakdownEndToEnd(t *testing.T) {
	sellerA, sellerB := uuid.New(), uuid.New()
	engine := newTestEngine(nil,
		line(sellerA, 200, 250, 40, 2, 3),
		line(sellerB, 500, 500, 60, 1, 7),
	)

	breakdown := engine.Breakdown()

	assert.True(t, decimal.NewFromInt(900).Equal(breakdown.Subtotal))
	assert.True(t, decimal.NewFromInt(1000).Equal(breakdown.MrpTotal))
	assert.True(t, decimal.NewFromInt(100).Equal(breakdown.Savings))
	assert.EqualValues(t, 10, breakdown.SavingsPercentage)
	assert.True(t, decimal.NewFromInt(100).Equal(breakdown.ShippingFee))
	assert.True(t, breakdown.CouponDiscount.IsZero())
	assert.True(t, decimal.NewFromInt(1000).Equal(breakdown.FinalAmount))
	if assert.NotNil(t, breakdown.MaxDeliveryDays) {
		assert.EqualValues(t, 7, *breakdown.MaxDeliveryDays)
	}
}

func TestEmptyCart(t *testing.T) {
	engine := newTestEngine(nil)

	assert.True(t, engine.Subtotal().IsZero())
	assert.True(t, engine.Savings().IsZero())
	assert.EqualValues(t, 0, engine.SavingsPercentage())
	assert.True(t, engine.ShippingFee().IsZero())
	_, ok := engine.MaxDeliveryDays()
	assert.False(t, ok)
}

func TestSavingsClampsNegativeLines(t *testing.T) {
	seller := uuid.New()
	engine := newTestEngine(nil,
		line(seller, 300, 200, 0, 1, 1),
		line(seller, 100, 150, 0, 2, 1),
	)

	assert.True(t, decimal.NewFromInt(100).Equal(engine.Savings()))
	assert.False(t, engine.Savings().IsNegative())
}

func TestShippingFeeIsPerSellerMax(t *testing.T) {
	sellerA, sellerB := uuid.New(), uuid.New()
	engine := newTestEngine(nil,
		line(sellerA, 100, 100, 50, 1, 2),
		line(sellerA, 100, 100, 80, 1, 2),
		line(sellerB, 100, 100, 30, 1, 2),
	)

	assert.True(t, decimal.NewFromInt(110).Equal(engine.ShippingFee()))
}

func TestApplyCouponValidation(t *testing.T) {
	seller := uuid.New()
	otherBrand := uuid.New()
	coupons := map[string]Coupon{
		"SAVE10": {
			Code:          "SAVE10",
			DiscountType:  DiscountPercentage,
			DiscountValue: decimal.NewFromInt(10),
			ExpiryDate:    time.Now().Add(24 * time.Hour),
		},
		"EXPIRED": {
			Code:          "EXPIRED",
			DiscountType:  DiscountPercentage,
			DiscountValue: decimal.NewFromInt(10),
			ExpiryDate:    time.Now().Add(-time.Hour),
		},
		"BRANDONLY": {
			Code:          "BRANDONLY",
			DiscountType:  DiscountFixed,
			DiscountValue: decimal.NewFromInt(50),
			BrandID:       &otherBrand,
			ExpiryDate:    time.Now().Add(24 * time.Hour),
		},
		"MIN500": {
			Code:          "MIN500",
			DiscountType:  DiscountFixed,
			DiscountValue: decimal.NewFromInt(50),
			MinOrderValue: decimalPtr(decimal.NewFromInt(500)),
			ExpiryDate:    time.Now().Add(24 * time.Hour),
		},
	}

	tests := []struct {
		name        string
		code        string
		expectedErr error
	}{
		{name: "empty code is rejected", code: "", expectedErr: inErrors.ErrEmptyCouponCode},
		{name: "unknown code is rejected", code: "NOPE", expectedErr: inErrors.ErrCouponNotFound},
		{name: "expired coupon is rejected", code: "EXPIRED", expectedErr: inErrors.ErrCouponExpired},
		{name: "brand coupon without matching lines is rejected", code: "BRANDONLY", expectedErr: inErrors.ErrCouponBrandMismatch},
		{name: "coupon below minimum order value is rejected", code: "MIN500", expectedErr: inErrors.ErrBelowMinOrderValue},
		{name: "valid coupon is applied", code: "SAVE10", expectedErr: nil},
		{name: "code is canonicalized to upper case", code: " save10 ", expectedErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(coupons, line(seller, 499, 499, 0, 1, 1))

			_, err := engine.ApplyCoupon(context.Background(), tt.code)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				_, applied := engine.AppliedCoupon()
				assert.False(t, applied)
				assert.True(t, engine.CouponDiscount().IsZero())
				return
			}
			assert.NoError(t, err)
			applied, ok := engine.AppliedCoupon()
			assert.True(t, ok)
			assert.EqualValues(t, "SAVE10", applied.Code)
		})
	}
}

func TestApplyCouponRequiresUser(t *testing.T) {
	engine := NewEngine(uuid.Nil, fakeDirectory{})
	engine.SetLines(context.Background(), []CartLine{line(uuid.New(), 100, 100, 0, 1, 1)})

	_, err := engine.ApplyCoupon(context.Background(), "SAVE10")

	assert.ErrorIs(t, err, inErrors.ErrEmptySubject)
}

func TestApplyCouponFailureClearsPreviousCoupon(t *testing.T) {
	seller := uuid.New()
	coupons := map[string]Coupon{
		"SAVE10": {
			Code:          "SAVE10",
			DiscountType:  DiscountPercentage,
			DiscountValue: decimal.NewFromInt(10),
			ExpiryDate:    time.Now().Add(24 * time.Hour),
		},
	}
	engine := newTestEngine(coupons, line(seller, 1000, 1000, 0, 1, 1))

	_, err := engine.ApplyCoupon(context.Background(), "SAVE10")
	assert.NoError(t, err)

	_, err = engine.ApplyCoupon(context.Background(), "NOPE")
	assert.ErrorIs(t, err, inErrors.ErrCouponNotFound)
	_, applied := engine.AppliedCoupon()
	assert.False(t, applied)
	assert.True(t, engine.CouponDiscount().IsZero())
}

func TestPercentageDiscountIsCapped(t *testing.T) {
	seller := uuid.New()
	coupons := map[string]Coupon{
		"SAVE20": {
			Code:          "SAVE20",
			DiscountType:  DiscountPercentage,
			DiscountValue: decimal.NewFromInt(20),
			MaxDiscount:   decimalPtr(decimal.NewFromInt(100)),
			ExpiryDate:    time.Now().Add(24 * time.Hour),
		},
	}
	engine := newTestEngine(coupons, line(seller, 1000, 1000, 0, 1, 1))

	_, err := engine.ApplyCoupon(context.Background(), "SAVE20")

	assert.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(engine.CouponDiscount()))
}

func TestFixedDiscountCannotExceedApplicableTotal(t *testing.T) {
	seller := uuid.New()
	coupons := map[string]Coupon{
		"FLAT500": {
			Code:          "FLAT500",
			DiscountType:  DiscountFixed,
			DiscountValue: decimal.NewFromInt(500),
			ExpiryDate:    time.Now().Add(24 * time.Hour),
		},
	}
	engine := newTestEngine(coupons, line(seller, 300, 300, 0, 1, 1))

	_, err := engine.ApplyCoupon(context.Background(), "FLAT500")

	assert.NoError(t, err)
	assert.True(t, decimal.NewFromInt(300).Equal(engine.CouponDiscount()))
	assert.False(t, engine.FinalAmount().IsNegative())
}

func TestBrandRestrictedDiscountScope(t *testing.T) {
	sellerA, sellerB := uuid.New(), uuid.New()
	coupons := map[string]Coupon{
		"BRANDA10": {
			Code:          "BRANDA10",
			DiscountType:  DiscountPercentage,
			DiscountValue: decimal.NewFromInt(10),
			BrandID:       &sellerA,
			ExpiryDate:    time.Now().Add(24 * time.Hour),
		},
	}
	engine := newTestEngine(coupons,
		line(sellerA, 400, 400, 0, 1, 1),
		line(sellerB, 600, 600, 0, 1, 1),
	)

	_, err := engine.ApplyCoupon(context.Background(), "BRANDA10")

	assert.NoError(t, err)
	assert.True(t, decimal.NewFromInt(40).Equal(engine.CouponDiscount()))
}

func TestBrandRestrictedMinimumUsesBrandSubtotal(t *testing.T) {
	sellerA, sellerB := uuid.New(), uuid.New()
	coupons := map[string]Coupon{
		"BRANDA": {
			Code:          "BRANDA",
			DiscountType:  DiscountFixed,
			DiscountValue: decimal.NewFromInt(50),
			BrandID:       &sellerA,
			MinOrderValue: decimalPtr(decimal.NewFromInt(500)),
			ExpiryDate:    time.Now().Add(24 * time.Hour),
		},
	}
	// full cart is over the minimum but the brand subset is not
	engine := newTestEngine(coupons,
		line(sellerA, 400, 400, 0, 1, 1),
		line(sellerB, 600, 600, 0, 1, 1),
	)

	_, err := engine.ApplyCoupon(context.Background(), "BRANDA")

	assert.ErrorIs(t, err, inErrors.ErrBelowMinOrderValue)
}

func TestRemoveCouponIsIdempotent(t *testing.T) {
	engine := newTestEngine(nil, line(uuid.New(), 100, 100, 0, 1, 1))

	engine.RemoveCoupon()
	engine.RemoveCoupon()

	_, applied := engine.AppliedCoupon()
	assert.False(t, applied)
	assert.True(t, engine.CouponDiscount().IsZero())
}

func TestMutationRevalidatesAppliedCoupon(t *testing.T) {
	sellerA, sellerB := uuid.New(), uuid.New()
	brandLine := line(sellerA, 400, 400, 0, 1, 1)
	coupons := map[string]Coupon{
		"BRANDA10": {
			Code:          "BRANDA10",
			DiscountType:  DiscountPercentage,
			DiscountValue: decimal.NewFromInt(10),
			BrandID:       &sellerA,
			ExpiryDate:    time.Now().Add(24 * time.Hour),
		},
	}
	engine := newTestEngine(coupons, brandLine, line(sellerB, 600, 600, 0, 1, 1))

	_, err := engine.ApplyCoupon(context.Background(), "BRANDA10")
	assert.NoError(t, err)
	assert.True(t, decimal.NewFromInt(40).Equal(engine.CouponDiscount()))

	engine.RemoveLine(context.Background(), brandLine.ID)

	_, applied := engine.AppliedCoupon()
	assert.False(t, applied)
	assert.True(t, engine.CouponDiscount().IsZero())
}

func TestMutationKeepsStillValidCoupon(t *testing.T) {
	seller := uuid.New()
	kept := line(seller, 400, 400, 0, 1, 1)
	removed := line(seller, 100, 100, 0, 1, 1)
	coupons := map[string]Coupon{
		"SAVE10": {
			Code:          "SAVE10",
			DiscountType:  DiscountPercentage,
			DiscountValue: decimal.NewFromInt(10),
			ExpiryDate:    time.Now().Add(24 * time.Hour),
		},
	}
	engine := newTestEngine(coupons, kept, removed)

	_, err := engine.ApplyCoupon(context.Background(), "SAVE10")
	assert.NoError(t, err)

	engine.RemoveLine(context.Background(), removed.ID)

	applied, ok := engine.AppliedCoupon()
	assert.True(t, ok)
	assert.EqualValues(t, "SAVE10", applied.Code)
	assert.True(t, decimal.NewFromInt(40).Equal(engine.CouponDiscount()))
}

func TestAddLineMergesSameSelection(t *testing.T) {
	seller := uuid.New()
	first := line(seller, 100, 120, 10, 1, 2)
	first.Size = "M"
	first.Color = "black"
	duplicate := first
	duplicate.ID = uuid.New()
	duplicate.Quantity = 2

	engine := newTestEngine(nil, first)
	engine.AddLine(context.Background(), duplicate)

	assert.Len(t, engine.Lines(), 1)
	assert.EqualValues(t, 3, engine.Lines()[0].Quantity)
	assert.True(t, decimal.NewFromInt(300).Equal(engine.Subtotal()))
}

func TestExpiryUsesInjectedClock(t *testing.T) {
	seller := uuid.New()
	expiry := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	coupons := map[string]Coupon{
		"MARCH": {
			Code:          "MARCH",
			DiscountType:  DiscountFixed,
			DiscountValue: decimal.NewFromInt(10),
			ExpiryDate:    expiry,
		},
	}
	engine := newTestEngine(coupons, line(seller, 100, 100, 0, 1, 1))
	engine.now = func() time.Time { return expiry.Add(-time.Minute) }

	_, err := engine.ApplyCoupon(context.Background(), "MARCH")
	assert.NoError(t, err)

	engine.now = func() time.Time { return expiry.Add(time.Minute) }
	_, err = engine.ApplyCoupon(context.Background(), "MARCH")
	assert.ErrorIs(t, err, inErrors.ErrCouponExpired)
}
