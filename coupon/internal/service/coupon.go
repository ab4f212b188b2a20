package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/stylora/marketplace/coupon/internal/cache"
	"github.com/stylora/marketplace/coupon/internal/otel"
	"github.com/stylora/marketplace/coupon/pkg/request"
	"github.com/stylora/marketplace/coupon/pkg/response"
	inErrors "github.com/stylora/marketplace/internal/errors"
	"github.com/stylora/marketplace/internal/log"
	inOtel "github.com/stylora/marketplace/internal/otel"
	"github.com/stylora/marketplace/internal/repository"
)

type CouponService struct {
	queries *repository.Queries
	cache   *redis.Client
}

func NewCouponService(queries *repository.Queries, cache *redis.Client) CouponService {
	return CouponService{queries: queries, cache: cache}
}

// InsertCoupon stores a coupon under its canonical upper-case code.
func (s CouponService) InsertCoupon(
	c context.Context,
	param request.InsertCoupon,
) (response.Coupon, error) {
	c, span := otel.Tracer.Start(c, "CouponService InsertCoupon")
	defer span.End()

	code := canonicalCode(param.Code)

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CouponService InsertCoupon").
		Str(log.KeyCouponCode, code).
		Str(log.KeyProcess, "inserting coupon").
		Logger()

	logger.Info().Msgf("inserting couponCode=%s", code)
	coupon, err := s.queries.InsertCoupon(c, repository.InsertCouponParams{
		Code:          code,
		DiscountType:  param.DiscountType,
		DiscountValue: repository.NumericFromDecimal(param.DiscountValue),
		MaxDiscount:   repository.NumericFromDecimalPtr(param.MaxDiscount),
		MinOrderValue: repository.NumericFromDecimalPtr(param.MinOrderValue),
		BrandID:       repository.NullUUIDFromPtr(param.BrandId),
		ExpiryDate:    pgtype.Timestamptz{Time: param.ExpiryDate, Valid: true},
	})
	if err != nil {
		err = fmt.Errorf("failed inserting couponCode=%s with error=%w", code, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Coupon{}, err
	}
	logger.Info().Msgf("inserted couponCode=%s", code)

	return response.Coupon{Coupon: coupon.Pricing(), UsageCount: coupon.UsageCount}, nil
}

// FindCouponByCode resolves a coupon through the cache, falling back to the
// database on a miss. Unknown codes map to ErrCouponNotFound.
func (s CouponService) FindCouponByCode(
	c context.Context,
	code string,
) (response.Coupon, error) {
	c, span := otel.Tracer.Start(c, "CouponService FindCouponByCode")
	defer span.End()

	code = canonicalCode(code)
	cacheKey := fmt.Sprintf(cache.KEY_COUPONS, code)

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CouponService FindCouponByCode").
		Str(log.KeyCouponCode, code).
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding coupon in cache").Logger()
	logger.Info().Msg("finding coupon in cache")
	jsonString, err := s.cache.Get(c, cacheKey).Result()
	if err != nil {
		err = fmt.Errorf("failed finding coupon in cache with error=%w", err)
		logger.Info().Err(err).Msg(err.Error())

		logger = logger.With().Str(log.KeyProcess, "finding coupon in db").Logger()
		logger.Info().Msg("finding coupon in db")
		couponDb, err := s.queries.FindCouponByCode(c, code)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				err = inErrors.ErrCouponNotFound
				logger.Info().Err(err).Msgf("couponCode=%s not found", code)
				return response.Coupon{}, err
			}
			err = fmt.Errorf("failed finding couponCode=%s with error=%w", code, err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Coupon{}, err
		}
		coupon := response.Coupon{Coupon: couponDb.Pricing(), UsageCount: couponDb.UsageCount}
		logger.Info().Msg("found coupon in db")

		logger = logger.With().Str(log.KeyProcess, "inserting coupon to cache").Logger()
		logger.Info().Msg("inserting coupon to cache")
		jsonCoupon, err := json.Marshal(coupon)
		if err != nil {
			err = fmt.Errorf("failed marshaling coupon with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Coupon{}, err
		}
		err = s.cache.Set(c, cacheKey, jsonCoupon, time.Hour*1).Err()
		if err != nil {
			err = fmt.Errorf("failed inserting coupon to cache with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Coupon{}, err
		}
		logger.Info().Msg("inserted coupon to cache")

		return coupon, nil
	}
	logger.Info().Msg("found coupon in cache")

	logger = logger.With().Str(log.KeyProcess, "unmarshaling cache").Logger()
	logger.Info().Msg("unmarshaling cache")
	coupon := response.Coupon{}
	err = json.Unmarshal([]byte(jsonString), &coupon)
	if err != nil {
		err = fmt.Errorf("failed unmarshaling cache with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Coupon{}, err
	}
	logger.Info().Msg("unmarshaled cache")

	return coupon, nil
}

// IncrementUsage records a redemption after checkout. The cached coupon is
// dropped so the next read sees the new usage count.
func (s CouponService) IncrementUsage(c context.Context, code string) error {
	c, span := otel.Tracer.Start(c, "CouponService IncrementUsage")
	defer span.End()

	code = canonicalCode(code)
	cacheKey := fmt.Sprintf(cache.KEY_COUPONS, code)

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CouponService IncrementUsage").
		Str(log.KeyCouponCode, code).
		Str(log.KeyCacheKey, cacheKey).
		Str(log.KeyProcess, "incrementing coupon usage").
		Logger()

	logger.Info().Msgf("incrementing usage for couponCode=%s", code)
	updated, err := s.queries.IncrementCouponUsage(c, code)
	if err != nil {
		err = fmt.Errorf("failed incrementing usage for couponCode=%s with error=%w", code, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if updated == 0 {
		err = fmt.Errorf(
			"failed incrementing usage for couponCode=%s with error=%w",
			code,
			inErrors.ErrCouponNotFound,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msgf("incremented usage for couponCode=%s", code)

	logger = logger.With().Str(log.KeyProcess, "deleting coupon cache").Logger()
	logger.Info().Msg("deleting coupon cache")
	err = s.cache.Del(c, cacheKey).Err()
	if err != nil {
		err = fmt.Errorf("failed deleting coupon cache with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("deleted coupon cache")

	return nil
}

func canonicalCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
