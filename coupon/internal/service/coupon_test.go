package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/stylora/marketplace/coupon/internal/cache"
	"github.com/stylora/marketplace/coupon/pkg/request"
	inErrors "github.com/stylora/marketplace/internal/errors"
	"github.com/stylora/marketplace/pricing"
)

func TestInsertCouponCanonicalizesCode(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, couponService := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	inserted, err := couponService.InsertCoupon(c, request.InsertCoupon{
		Code:          "  welcome100 ",
		DiscountType:  string(pricing.DiscountFixed),
		DiscountValue: decimal.NewFromInt(100),
		ExpiryDate:    time.Now().Add(48 * time.Hour),
	})
	assert.NoError(t, err)
	assert.Equal(t, "WELCOME100", inserted.Code)

	found, err := couponService.FindCouponByCode(c, "Welcome100")
	assert.NoError(t, err)
	assert.Equal(t, "WELCOME100", found.Code)
	assert.Equal(t, pricing.DiscountFixed, found.DiscountType)
	assert.True(t, decimal.NewFromInt(100).Equal(found.DiscountValue))
	assert.EqualValues(t, 0, found.UsageCount)
}

func TestFindCouponByCodeNotFound(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, couponService := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	_, err := couponService.FindCouponByCode(c, "MISSING")
	assert.ErrorIs(t, err, inErrors.ErrCouponNotFound)
}

func TestFindCouponByCodeCachesResult(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, couponService := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	_, err := couponService.InsertCoupon(c, request.InsertCoupon{
		Code:          "SAVE10",
		DiscountType:  string(pricing.DiscountPercentage),
		DiscountValue: decimal.NewFromInt(10),
		ExpiryDate:    time.Now().Add(48 * time.Hour),
	})
	assert.NoError(t, err)

	cacheKey := fmt.Sprintf(cache.KEY_COUPONS, "SAVE10")
	err = redisClient.Get(c, cacheKey).Err()
	assert.ErrorIs(t, err, redis.Nil)

	_, err = couponService.FindCouponByCode(c, "SAVE10")
	assert.NoError(t, err)

	err = redisClient.Get(c, cacheKey).Err()
	assert.NoError(t, err)
}

func TestIncrementUsage(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, couponService := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	_, err := couponService.InsertCoupon(c, request.InsertCoupon{
		Code:          "FESTIVE",
		DiscountType:  string(pricing.DiscountFixed),
		DiscountValue: decimal.NewFromInt(250),
		ExpiryDate:    time.Now().Add(48 * time.Hour),
	})
	assert.NoError(t, err)

	err = couponService.IncrementUsage(c, "festive")
	assert.NoError(t, err)

	found, err := couponService.FindCouponByCode(c, "FESTIVE")
	assert.NoError(t, err)
	assert.EqualValues(t, 1, found.UsageCount)
}

func TestIncrementUsageUnknownCode(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, couponService := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	err := couponService.IncrementUsage(c, "MISSING")
	assert.ErrorIs(t, err, inErrors.ErrCouponNotFound)
}
