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

	"github.com/stylora/marketplace/checkout/internal/cache"
	"github.com/stylora/marketplace/checkout/pkg/request"
	inErrors "github.com/stylora/marketplace/internal/errors"
	"github.com/stylora/marketplace/internal/repository"
	"github.com/stylora/marketplace/pricing"
)

var (
	linenShirtId  = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	denimJacketId = uuid.MustParse("33333333-3333-3333-3333-333333333333")
)

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func testDirectory() *staticDirectory {
	return newStaticDirectory(map[string]pricing.Coupon{
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
	})
}

func TestCheckoutEmptyCart(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, checkoutService := setup(t, testDirectory())(
		c,
		filepath.Join("seed", "products.seed.sql"),
	)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	_, err := checkoutService.Checkout(c, uuid.New(), request.Checkout{
		ShippingAddress: "12 Marine Drive, Mumbai",
		PhoneNumber:     "+919800000000",
		PaymentMethod:   "cod",
	})
	assert.ErrorIs(t, err, inErrors.ErrEmptyCart)
}

func TestCheckoutPlacesOrderAndEmptiesCart(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, queries, checkoutService := setup(t, testDirectory())(
		c,
		filepath.Join("seed", "products.seed.sql"),
	)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	userId := uuid.New()
	_, err := queries.UpsertCartItem(c, repository.UpsertCartItemParams{
		ID:        uuid.New(),
		UserID:    userId,
		ProductID: linenShirtId,
		Quantity:  2,
		Size:      "M",
		Color:     "White",
	})
	assert.NoError(t, err)
	_, err = queries.UpsertCartItem(c, repository.UpsertCartItemParams{
		ID:        uuid.New(),
		UserID:    userId,
		ProductID: denimJacketId,
		Quantity:  1,
		Size:      "L",
		Color:     "Blue",
	})
	assert.NoError(t, err)

	order, err := checkoutService.Checkout(c, userId, request.Checkout{
		ShippingAddress: "12 Marine Drive, Mumbai",
		PhoneNumber:     "+919800000000",
		PaymentMethod:   "cod",
	})
	assert.NoError(t, err)
	assert.Equal(t, "placed", order.Status)
	assert.Equal(t, "pending", order.PaymentStatus)
	assert.Len(t, order.Items, 2)
	// 2 x 1999 + 4999 subtotal, 99 + 199 shipping, no coupon.
	assert.True(t, decimal.NewFromInt(8997).Equal(order.Subtotal))
	assert.True(t, decimal.NewFromInt(298).Equal(order.ShippingFee))
	assert.True(t, order.DiscountAmount.IsZero())
	assert.True(t, decimal.NewFromInt(9295).Equal(order.TotalAmount))
	assert.Empty(t, order.CouponCode)
	assert.NotNil(t, order.EstimatedDeliveryDate)

	rows, err := queries.FindCartLinesByUserId(c, userId)
	assert.NoError(t, err)
	assert.Empty(t, rows)

	err = redisClient.Get(c, fmt.Sprintf(cache.KEY_CART_LINES, userId.String())).Err()
	assert.ErrorIs(t, err, redis.Nil)
}

func TestCheckoutNonCodIsPaid(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, queries, checkoutService := setup(t, testDirectory())(
		c,
		filepath.Join("seed", "products.seed.sql"),
	)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	userId := uuid.New()
	_, err := queries.UpsertCartItem(c, repository.UpsertCartItemParams{
		ID:        uuid.New(),
		UserID:    userId,
		ProductID: linenShirtId,
		Quantity:  1,
		Size:      "S",
		Color:     "Black",
	})
	assert.NoError(t, err)

	order, err := checkoutService.Checkout(c, userId, request.Checkout{
		ShippingAddress: "12 Marine Drive, Mumbai",
		PhoneNumber:     "+919800000000",
		PaymentMethod:   "upi",
		TransactionId:   "txn-0001",
	})
	assert.NoError(t, err)
	assert.Equal(t, "paid", order.PaymentStatus)
}

func TestCheckoutAppliesCouponAndRecordsRedemption(t *testing.T) {
	c := context.Background()
	directory := testDirectory()
	redisClient, pool, pgContainer, redisContainer, queries, checkoutService := setup(t, directory)(
		c,
		filepath.Join("seed", "products.seed.sql"),
	)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	userId := uuid.New()
	_, err := queries.UpsertCartItem(c, repository.UpsertCartItemParams{
		ID:        uuid.New(),
		UserID:    userId,
		ProductID: linenShirtId,
		Quantity:  2,
		Size:      "M",
		Color:     "White",
	})
	assert.NoError(t, err)
	_, err = queries.UpsertCartItem(c, repository.UpsertCartItemParams{
		ID:        uuid.New(),
		UserID:    userId,
		ProductID: denimJacketId,
		Quantity:  1,
		Size:      "L",
		Color:     "Blue",
	})
	assert.NoError(t, err)

	couponKey := fmt.Sprintf(cache.KEY_APPLIED_COUPON, userId.String())
	err = redisClient.Set(c, couponKey, "SAVE10", 0).Err()
	assert.NoError(t, err)

	order, err := checkoutService.Checkout(c, userId, request.Checkout{
		ShippingAddress: "12 Marine Drive, Mumbai",
		PhoneNumber:     "+919800000000",
		PaymentMethod:   "cod",
	})
	assert.NoError(t, err)
	// 2 x 1999 + 4999 subtotal, 99 + 199 shipping, 10% off rounds to 900.
	assert.Equal(t, "SAVE10", order.CouponCode)
	assert.True(t, decimal.NewFromInt(8997).Equal(order.Subtotal))
	assert.True(t, decimal.NewFromInt(900).Equal(order.DiscountAmount))
	assert.True(t, decimal.NewFromInt(8395).Equal(order.TotalAmount))

	row, err := queries.FindOrderById(c, repository.FindOrderByIdParams{
		ID:     order.ID,
		UserID: userId,
	})
	assert.NoError(t, err)
	assert.True(t, row.CouponCode.Valid)
	assert.Equal(t, "SAVE10", row.CouponCode.String)
	assert.True(t, decimal.NewFromInt(900).Equal(repository.DecimalFromNumeric(row.CouponDiscount)))

	err = redisClient.Get(c, couponKey).Err()
	assert.ErrorIs(t, err, redis.Nil)

	assert.Eventually(t, func() bool {
		return directory.redemptions("SAVE10") == 1
	}, 5*time.Second, 50*time.Millisecond)
}

func TestCheckoutDropsStaleCoupon(t *testing.T) {
	c := context.Background()
	directory := testDirectory()
	redisClient, pool, pgContainer, redisContainer, queries, checkoutService := setup(t, directory)(
		c,
		filepath.Join("seed", "products.seed.sql"),
	)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	userId := uuid.New()
	_, err := queries.UpsertCartItem(c, repository.UpsertCartItemParams{
		ID:        uuid.New(),
		UserID:    userId,
		ProductID: linenShirtId,
		Quantity:  1,
		Size:      "S",
		Color:     "Black",
	})
	assert.NoError(t, err)

	// The cart is below BIGSPENDER's minimum order value so the stored
	// coupon no longer validates at checkout time.
	couponKey := fmt.Sprintf(cache.KEY_APPLIED_COUPON, userId.String())
	err = redisClient.Set(c, couponKey, "BIGSPENDER", 0).Err()
	assert.NoError(t, err)

	order, err := checkoutService.Checkout(c, userId, request.Checkout{
		ShippingAddress: "12 Marine Drive, Mumbai",
		PhoneNumber:     "+919800000000",
		PaymentMethod:   "cod",
	})
	assert.NoError(t, err)
	assert.Empty(t, order.CouponCode)
	assert.True(t, order.DiscountAmount.IsZero())
	assert.Equal(t, 0, directory.redemptions("BIGSPENDER"))
}

func TestFindOrderById(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, queries, checkoutService := setup(t, testDirectory())(
		c,
		filepath.Join("seed", "products.seed.sql"),
	)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	userId := uuid.New()
	_, err := queries.UpsertCartItem(c, repository.UpsertCartItemParams{
		ID:        uuid.New(),
		UserID:    userId,
		ProductID: denimJacketId,
		Quantity:  1,
		Size:      "M",
		Color:     "Blue",
	})
	assert.NoError(t, err)

	placed, err := checkoutService.Checkout(c, userId, request.Checkout{
		ShippingAddress: "BTM Layout, Bengaluru",
		PhoneNumber:     "+919800000001",
		PaymentMethod:   "card",
	})
	assert.NoError(t, err)

	found, err := checkoutService.FindOrderById(c, userId, placed.ID)
	assert.NoError(t, err)
	assert.Equal(t, placed.ID, found.ID)
	assert.Len(t, found.Items, 1)
	assert.Equal(t, denimJacketId, found.Items[0].ProductId)

	// Another user cannot see the order.
	_, err = checkoutService.FindOrderById(c, uuid.New(), placed.ID)
	assert.ErrorIs(t, err, inErrors.ErrOrderNotFound)
}

func TestFindOrders(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, queries, checkoutService := setup(t, testDirectory())(
		c,
		filepath.Join("seed", "products.seed.sql"),
	)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	userId := uuid.New()
	orders, err := checkoutService.FindOrders(c, userId)
	assert.NoError(t, err)
	assert.Empty(t, orders)

	_, err = queries.UpsertCartItem(c, repository.UpsertCartItemParams{
		ID:        uuid.New(),
		UserID:    userId,
		ProductID: linenShirtId,
		Quantity:  1,
		Size:      "L",
		Color:     "White",
	})
	assert.NoError(t, err)
	_, err = checkoutService.Checkout(c, userId, request.Checkout{
		ShippingAddress: "Sector 62, Noida",
		PhoneNumber:     "+919800000002",
		PaymentMethod:   "cod",
	})
	assert.NoError(t, err)

	orders, err = checkoutService.FindOrders(c, userId)
	assert.NoError(t, err)
	assert.Len(t, orders, 1)
}
