package pricing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	inErrors "github.com/stylora/marketplace/internal/errors"
	"github.com/stylora/marketplace/internal/log"
)

var oneHundred = decimal.NewFromInt(100)

// Engine owns the cart lines and the zero-or-one applied coupon for a
// single user. It is single-actor: callers must not share one Engine
// across goroutines.
type Engine struct {
	directory CouponDirectory
	now       func() time.Time
	userID    uuid.UUID
	lines     []CartLine
	applied   *Coupon
}

func NewEngine(userID uuid.UUID, directory CouponDirectory) *Engine {
	return &Engine{
		directory: directory,
		now:       time.Now,
		userID:    userID,
	}
}

func (e *Engine) Lines() []CartLine {
	return e.lines
}

func (e *Engine) AppliedCoupon() (Coupon, bool) {
	if e.applied == nil {
		return Coupon{}, false
	}
	return *e.applied, true
}

func (e *Engine) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.lines {
		total = total.Add(l.SellingPrice.Mul(decimal.NewFromInt32(l.Quantity)))
	}
	return total
}

func (e *Engine) MrpTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.lines {
		total = total.Add(l.Mrp.Mul(decimal.NewFromInt32(l.Quantity)))
	}
	return total
}

// Savings clamps each line at zero so a catalog anomaly where the selling
// price exceeds the mrp cannot reduce the aggregate.
func (e *Engine) Savings() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.lines {
		diff := l.Mrp.Sub(l.SellingPrice)
		if diff.IsNegative() {
			continue
		}
		total = total.Add(diff.Mul(decimal.NewFromInt32(l.Quantity)))
	}
	return total
}

func (e *Engine) SavingsPercentage() int64 {
	mrpTotal := e.MrpTotal()
	if !mrpTotal.IsPositive() {
		return 0
	}
	return e.Savings().Div(mrpTotal).Mul(oneHundred).Round(0).IntPart()
}

// ShippingFee charges one shipment per seller: each seller group
// contributes the maximum shipping charge among its lines, not the sum.
func (e *Engine) ShippingFee() decimal.Decimal {
	maxBySeller := map[uuid.UUID]decimal.Decimal{}
	for _, l := range e.lines {
		current, ok := maxBySeller[l.SellerID]
		if !ok || l.ShippingCharge.GreaterThan(current) {
			maxBySeller[l.SellerID] = l.ShippingCharge
		}
	}
	total := decimal.Zero
	for _, fee := range maxBySeller {
		total = total.Add(fee)
	}
	return total
}

// MaxDeliveryDays returns the slowest line's estimate, since the order
// ships once all items are ready. ok is false for an empty cart.
func (e *Engine) MaxDeliveryDays() (days int32, ok bool) {
	for _, l := range e.lines {
		if !ok || l.DeliveryDays > days {
			days = l.DeliveryDays
			ok = true
		}
	}
	return days, ok
}

// ApplyCoupon validates the code against the current cart and stores the
// coupon on success. Every failure clears any previously applied coupon
// and returns one of the sentinel coupon errors, so a cart is never
// priced against a coupon that no longer validates.
func (e *Engine) ApplyCoupon(c context.Context, code string) (Coupon, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Engine ApplyCoupon").
		Str(log.KeyCouponCode, code).
		Logger()

	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		e.applied = nil
		return Coupon{}, inErrors.ErrEmptyCouponCode
	}
	if e.userID == uuid.Nil {
		e.applied = nil
		return Coupon{}, inErrors.ErrEmptySubject
	}

	coupon, err := e.directory.FindCouponByCode(c, code)
	if err != nil {
		e.applied = nil
		err = fmt.Errorf("failed finding coupon by code=%s with error=%w", code, err)
		logger.Info().Err(err).Msg(err.Error())
		return Coupon{}, err
	}

	if e.now().After(coupon.ExpiryDate) {
		e.applied = nil
		logger.Info().
			Time("expiryDate", coupon.ExpiryDate).
			Msg(inErrors.ErrCouponExpired.Error())
		return Coupon{}, inErrors.ErrCouponExpired
	}

	if coupon.BrandID != nil && len(e.brandLines(*coupon.BrandID)) == 0 {
		e.applied = nil
		logger.Info().
			Str(log.KeySellerID, coupon.BrandID.String()).
			Msg(inErrors.ErrCouponBrandMismatch.Error())
		return Coupon{}, inErrors.ErrCouponBrandMismatch
	}

	applicable := e.applicableTotal(coupon)
	if coupon.MinOrderValue != nil && applicable.LessThan(*coupon.MinOrderValue) {
		e.applied = nil
		logger.Info().
			Str("applicableTotal", applicable.String()).
			Str("minOrderValue", coupon.MinOrderValue.String()).
			Msg(inErrors.ErrBelowMinOrderValue.Error())
		return Coupon{}, inErrors.ErrBelowMinOrderValue
	}

	e.applied = &coupon
	logger.Info().Msgf("applied coupon=%s", coupon.Code)
	return coupon, nil
}

// CouponDiscount is zero without an applied coupon. Percentage discounts
// are computed over the applicable total, rounded to the nearest currency
// unit and clamped to MaxDiscount; a fixed discount can never exceed what
// it is discounting.
func (e *Engine) CouponDiscount() decimal.Decimal {
	if e.applied == nil {
		return decimal.Zero
	}
	applicable := e.applicableTotal(*e.applied)
	switch e.applied.DiscountType {
	case DiscountPercentage:
		discount := applicable.Mul(e.applied.DiscountValue).Div(oneHundred).Round(0)
		if e.applied.MaxDiscount != nil && discount.GreaterThan(*e.applied.MaxDiscount) {
			discount = *e.applied.MaxDiscount
		}
		return discount
	case DiscountFixed:
		return decimal.Min(e.applied.DiscountValue, applicable)
	}
	return decimal.Zero
}

// FinalAmount guards composition errors: CouponDiscount already clamps,
// but an over-large discount must still never produce a negative total.
func (e *Engine) FinalAmount() decimal.Decimal {
	final := e.Subtotal().Add(e.ShippingFee()).Sub(e.CouponDiscount())
	if final.IsNegative() {
		return decimal.Zero
	}
	return final
}

// RemoveCoupon is idempotent.
func (e *Engine) RemoveCoupon() {
	e.applied = nil
}

func (e *Engine) Breakdown() Breakdown {
	breakdown := Breakdown{
		Subtotal:          e.Subtotal(),
		MrpTotal:          e.MrpTotal(),
		Savings:           e.Savings(),
		SavingsPercentage: e.SavingsPercentage(),
		ShippingFee:       e.ShippingFee(),
		CouponDiscount:    e.CouponDiscount(),
		FinalAmount:       e.FinalAmount(),
	}
	if e.applied != nil {
		breakdown.CouponCode = e.applied.Code
	}
	if days, ok := e.MaxDeliveryDays(); ok {
		breakdown.MaxDeliveryDays = &days
	}
	return breakdown
}

// SetLines replaces the cart contents, merging duplicate selections, then
// revalidates the applied coupon against the new contents.
func (e *Engine) SetLines(c context.Context, lines []CartLine) {
	merged := make([]CartLine, 0, len(lines))
	for _, line := range lines {
		found := false
		for i := range merged {
			if merged[i].SameSelection(line) {
				merged[i].Quantity += line.Quantity
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, line)
		}
	}
	e.lines = merged
	e.revalidateCoupon(c)
}

// AddLine merges into an existing line with the same selection instead of
// duplicating it, then revalidates the applied coupon.
func (e *Engine) AddLine(c context.Context, line CartLine) {
	for i := range e.lines {
		if e.lines[i].SameSelection(line) {
			e.lines[i].Quantity += line.Quantity
			e.revalidateCoupon(c)
			return
		}
	}
	e.lines = append(e.lines, line)
	e.revalidateCoupon(c)
}

func (e *Engine) RemoveLine(c context.Context, id uuid.UUID) {
	lines := e.lines[:0]
	for _, l := range e.lines {
		if l.ID != id {
			lines = append(lines, l)
		}
	}
	e.lines = lines
	e.revalidateCoupon(c)
}

func (e *Engine) UpdateQuantity(c context.Context, id uuid.UUID, quantity int32) {
	for i := range e.lines {
		if e.lines[i].ID == id {
			e.lines[i].Quantity = quantity
			break
		}
	}
	e.revalidateCoupon(c)
}

func (e *Engine) brandLines(brand uuid.UUID) []CartLine {
	lines := []CartLine{}
	for _, l := range e.lines {
		if l.SellerID == brand {
			lines = append(lines, l)
		}
	}
	return lines
}

// applicableTotal is what a coupon discounts: the full subtotal, or only
// the brand-restricted subset.
func (e *Engine) applicableTotal(coupon Coupon) decimal.Decimal {
	if coupon.BrandID == nil {
		return e.Subtotal()
	}
	total := decimal.Zero
	for _, l := range e.brandLines(*coupon.BrandID) {
		total = total.Add(l.SellingPrice.Mul(decimal.NewFromInt32(l.Quantity)))
	}
	return total
}

// revalidateCoupon runs after every mutation so the applied coupon is
// always validated against the cart it will price. Validation failures
// silently clear it.
func (e *Engine) revalidateCoupon(c context.Context) {
	if e.applied == nil {
		return
	}
	_, err := e.ApplyCoupon(c, e.applied.Code)
	if err != nil {
		zerolog.Ctx(c).
			Info().
			Str(log.KeyTag, "Engine revalidateCoupon").
			Err(err).
			Msg("cleared applied coupon after cart mutation")
	}
}
