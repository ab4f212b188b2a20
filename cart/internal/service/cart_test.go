package service

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/stylora/marketplace/cart/internal/cache"
	"github.com/stylora/marketplace/cart/pkg/request"
	inErrors "github.com/stylora/marketplace/internal/errors"
	"github.com/stylora/marketplace/pricing"
)

var (
	linenShirtId  = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	crewSocksId   = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	denimJacketId = uuid.MustParse("33333333-3333-3333-3333-333333333333")
)

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func testDirectory() staticDirectory {
	return staticDirectory{
		"SAVE10": {
			Code:          "SAVE10",
			DiscountType:  pricing.DiscountPercentage,
			DiscountValue: decimal.NewFromInt(10),
			ExpiryDate:    time.Now().Add(24 * time.Hour),
		},
		"BIGSPENDER": {
			Code:          "BIGSPENDER",
			DiscountType:  pricing.DiscountFixed,
			DiscountValue: decimal.NewFromInt(500),
			MinOrderValue: decimalPtr(decimal.NewFromInt(4000)),
			ExpiryDate:    time.Now().Add(24 * time.Hour),
		},
	}
}

func TestInsertCartItemMergesSameSelection(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, cartService := setup(t, testDirectory())(
		c,
		filepath.Join("seed", "products.seed.sql"),
	)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	userId := uuid.New()
	_, err := cartService.InsertCartItem(c, userId, request.InsertCartItem{
		ProductId: linenShirtId,
		Quantity:  1,
		Size:      "M",
		Color:     "Black",
	})
	assert.NoError(t, err)

	cart, err := cartService.InsertCartItem(c, userId, request.InsertCartItem{
		ProductId: linenShirtId,
		Quantity:  2,
		Size:      "M",
		Color:     "Black",
	})
	assert.NoError(t, err)
	assert.Len(t, cart.Lines, 1)
	assert.EqualValues(t, 3, cart.Lines[0].Quantity)
	assert.True(t, decimal.NewFromInt(5997).Equal(cart.Breakdown.Subtotal))

	cart, err = cartService.InsertCartItem(c, userId, request.InsertCartItem{
		ProductId: linenShirtId,
		Quantity:  1,
		Size:      "L",
		Color:     "Black",
	})
	assert.NoError(t, err)
	assert.Len(t, cart.Lines, 2)
}

func TestInsertCartItemUnknownProduct(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, cartService := setup(t, testDirectory())(
		c,
		filepath.Join("seed", "products.seed.sql"),
	)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	_, err := cartService.InsertCartItem(c, uuid.New(), request.InsertCartItem{
		ProductId: uuid.New(),
		Quantity:  1,
	})
	assert.ErrorIs(t, err, inErrors.ErrProductNotFound)
}

func TestShippingFeeChargesOnePerSeller(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, cartService := setup(t, testDirectory())(
		c,
		filepath.Join("seed", "products.seed.sql"),
	)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	userId := uuid.New()
	_, err := cartService.InsertCartItem(c, userId, request.InsertCartItem{
		ProductId: linenShirtId,
		Quantity:  1,
		Size:      "M",
	})
	assert.NoError(t, err)
	_, err = cartService.InsertCartItem(c, userId, request.InsertCartItem{
		ProductId: crewSocksId,
		Quantity:  1,
	})
	assert.NoError(t, err)
	cart, err := cartService.InsertCartItem(c, userId, request.InsertCartItem{
		ProductId: denimJacketId,
		Quantity:  1,
		Size:      "L",
		Color:     "Blue",
	})
	assert.NoError(t, err)

	// 99 for the shirt seller (max of 99 and 49) plus 199 for the jacket
	// seller.
	assert.True(t, decimal.NewFromInt(298).Equal(cart.Breakdown.ShippingFee))
}

func TestUpdateCartItemQuantityZeroRemovesLine(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, cartService := setup(t, testDirectory())(
		c,
		filepath.Join("seed", "products.seed.sql"),
	)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	userId := uuid.New()
	cart, err := cartService.InsertCartItem(c, userId, request.InsertCartItem{
		ProductId: crewSocksId,
		Quantity:  2,
	})
	assert.NoError(t, err)
	assert.Len(t, cart.Lines, 1)

	cart, err = cartService.UpdateCartItemQuantity(
		c,
		userId,
		cart.Lines[0].ID,
		request.UpdateCartItemQuantity{Quantity: 0},
	)
	assert.NoError(t, err)
	assert.Empty(t, cart.Lines)
	assert.True(t, cart.Breakdown.FinalAmount.IsZero())
}

func TestRemoveCartItemNotFound(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, cartService := setup(t, testDirectory())(
		c,
		filepath.Join("seed", "products.seed.sql"),
	)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	_, err := cartService.RemoveCartItem(c, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, inErrors.ErrCartItemNotFound)
}

func TestApplyCouponPercentage(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, cartService := setup(t, testDirectory())(
		c,
		filepath.Join("seed", "products.seed.sql"),
	)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	userId := uuid.New()
	_, err := cartService.InsertCartItem(c, userId, request.InsertCartItem{
		ProductId: linenShirtId,
		Quantity:  1,
		Size:      "M",
	})
	assert.NoError(t, err)

	cart, err := cartService.ApplyCoupon(c, userId, request.ApplyCoupon{Code: "save10"})
	assert.NoError(t, err)
	assert.Equal(t, "SAVE10", cart.Breakdown.CouponCode)
	assert.True(t, decimal.NewFromInt(200).Equal(cart.Breakdown.CouponDiscount))
	// 1999 + 99 shipping - 200 discount
	assert.True(t, decimal.NewFromInt(1898).Equal(cart.Breakdown.FinalAmount))

	code, err := redisClient.Get(c, fmt.Sprintf(cache.KEY_APPLIED_COUPON, userId.String())).Result()
	assert.NoError(t, err)
	assert.Equal(t, "SAVE10", code)
}

func TestApplyCouponUnknownCode(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, cartService := setup(t, testDirectory())(
		c,
		filepath.Join("seed", "products.seed.sql"),
	)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	userId := uuid.New()
	_, err := cartService.InsertCartItem(c, userId, request.InsertCartItem{
		ProductId: linenShirtId,
		Quantity:  1,
		Size:      "M",
	})
	assert.NoError(t, err)

	_, err = cartService.ApplyCoupon(c, userId, request.ApplyCoupon{Code: "NOPE"})
	assert.ErrorIs(t, err, inErrors.ErrCouponNotFound)

	err = redisClient.Get(c, fmt.Sprintf(cache.KEY_APPLIED_COUPON, userId.String())).Err()
	assert.ErrorIs(t, err, redis.Nil)
}

func TestCouponDroppedWhenCartFallsBelowMinOrderValue(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, cartService := setup(t, testDirectory())(
		c,
		filepath.Join("seed", "products.seed.sql"),
	)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	userId := uuid.New()
	_, err := cartService.InsertCartItem(c, userId, request.InsertCartItem{
		ProductId: denimJacketId,
		Quantity:  1,
		Size:      "L",
		Color:     "Blue",
	})
	assert.NoError(t, err)
	socksCart, err := cartService.InsertCartItem(c, userId, request.InsertCartItem{
		ProductId: crewSocksId,
		Quantity:  1,
	})
	assert.NoError(t, err)

	cart, err := cartService.ApplyCoupon(c, userId, request.ApplyCoupon{Code: "BIGSPENDER"})
	assert.NoError(t, err)
	assert.True(t, decimal.NewFromInt(500).Equal(cart.Breakdown.CouponDiscount))

	var jacketLineId uuid.UUID
	for _, line := range socksCart.Lines {
		if line.ProductID == denimJacketId {
			jacketLineId = line.ID
		}
	}
	cart, err = cartService.RemoveCartItem(c, userId, jacketLineId)
	assert.NoError(t, err)
	assert.Empty(t, cart.Breakdown.CouponCode)
	assert.True(t, cart.Breakdown.CouponDiscount.IsZero())

	err = redisClient.Get(c, fmt.Sprintf(cache.KEY_APPLIED_COUPON, userId.String())).Err()
	assert.ErrorIs(t, err, redis.Nil)
}

func TestRemoveCouponIsIdempotent(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, cartService := setup(t, testDirectory())(
		c,
		filepath.Join("seed", "products.seed.sql"),
	)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	userId := uuid.New()
	cart, err := cartService.RemoveCoupon(c, userId)
	assert.NoError(t, err)
	assert.Empty(t, cart.Breakdown.CouponCode)

	cart, err = cartService.RemoveCoupon(c, userId)
	assert.NoError(t, err)
	assert.Empty(t, cart.Breakdown.CouponCode)
}

func TestClearCart(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, cartService := setup(t, testDirectory())(
		c,
		filepath.Join("seed", "products.seed.sql"),
	)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	userId := uuid.New()
	_, err := cartService.InsertCartItem(c, userId, request.InsertCartItem{
		ProductId: linenShirtId,
		Quantity:  1,
		Size:      "S",
	})
	assert.NoError(t, err)
	_, err = cartService.ApplyCoupon(c, userId, request.ApplyCoupon{Code: "SAVE10"})
	assert.NoError(t, err)

	err = cartService.ClearCart(c, userId)
	assert.NoError(t, err)

	cart, err := cartService.FindCart(c, userId)
	assert.NoError(t, err)
	assert.Empty(t, cart.Lines)
	assert.Empty(t, cart.Breakdown.CouponCode)
	assert.Nil(t, cart.Breakdown.MaxDeliveryDays)
}
