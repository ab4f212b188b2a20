package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/stylora/marketplace/cart/internal/cache"
	"github.com/stylora/marketplace/cart/internal/otel"
	"github.com/stylora/marketplace/cart/pkg/request"
	"github.com/stylora/marketplace/cart/pkg/response"
	inErrors "github.com/stylora/marketplace/internal/errors"
	"github.com/stylora/marketplace/internal/log"
	inOtel "github.com/stylora/marketplace/internal/otel"
	"github.com/stylora/marketplace/internal/repository"
	"github.com/stylora/marketplace/pricing"
)

type CartService struct {
	queries *repository.Queries
	cache   *redis.Client
	coupons pricing.CouponDirectory
}

func NewCartService(
	queries *repository.Queries,
	cache *redis.Client,
	coupons pricing.CouponDirectory,
) CartService {
	return CartService{queries: queries, cache: cache, coupons: coupons}
}

// FindCart loads the user's cart lines, reapplies the stored coupon and
// returns the priced cart. A stored coupon that no longer validates is
// removed rather than surfaced as an error.
func (s CartService) FindCart(c context.Context, userID uuid.UUID) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService FindCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService FindCart").
		Str(log.KeyUserID, userID.String()).
		Logger()

	c = logger.WithContext(c)
	engine, err := s.priceCart(c, userID)
	if err != nil {
		err = fmt.Errorf("failed pricing cart for userId=%s with error=%w", userID.String(), err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}

	return response.Cart{Lines: engine.Lines(), Breakdown: engine.Breakdown()}, nil
}

// InsertCartItem adds a product selection to the cart. An existing line with
// the same product, size and color absorbs the quantity instead of creating
// a duplicate line.
func (s CartService) InsertCartItem(
	c context.Context,
	userID uuid.UUID,
	param request.InsertCartItem,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService InsertCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService InsertCartItem").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyProductID, param.ProductId.String()).
		Int32(log.KeyQuantity, param.Quantity).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding product").Logger()
	logger.Info().Msgf("finding productId=%s", param.ProductId.String())
	_, err := s.queries.FindProductById(c, param.ProductId)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrProductNotFound
		}
		err = fmt.Errorf("failed finding productId=%s with error=%w", param.ProductId.String(), err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msgf("found productId=%s", param.ProductId.String())

	logger = logger.With().Str(log.KeyProcess, "upserting cart item").Logger()
	logger.Info().Msg("upserting cart item")
	item, err := s.queries.UpsertCartItem(c, repository.UpsertCartItemParams{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: param.ProductId,
		Quantity:  param.Quantity,
		Size:      param.Size,
		Color:     param.Color,
	})
	if err != nil {
		err = fmt.Errorf("failed upserting cart item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger = logger.With().Str(log.KeyCartItemID, item.ID.String()).Logger()
	logger.Info().Msg("upserted cart item")

	c = logger.WithContext(c)
	return s.repriceAfterMutation(c, userID)
}

// UpdateCartItemQuantity sets the quantity of a cart line. Quantity zero
// removes the line.
func (s CartService) UpdateCartItemQuantity(
	c context.Context,
	userID uuid.UUID,
	cartItemID uuid.UUID,
	param request.UpdateCartItemQuantity,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService UpdateCartItemQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService UpdateCartItemQuantity").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyCartItemID, cartItemID.String()).
		Int32(log.KeyQuantity, param.Quantity).
		Logger()

	if param.Quantity == 0 {
		logger.Info().Msg("quantity is zero, removing cart item")
		c = logger.WithContext(c)
		return s.RemoveCartItem(c, userID, cartItemID)
	}

	logger = logger.With().Str(log.KeyProcess, "updating cart item quantity").Logger()
	logger.Info().Msg("updating cart item quantity")
	_, err := s.queries.UpdateCartItemQuantity(c, repository.UpdateCartItemQuantityParams{
		ID:       cartItemID,
		UserID:   userID,
		Quantity: param.Quantity,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrCartItemNotFound
		}
		err = fmt.Errorf(
			"failed updating cartItemId=%s with error=%w",
			cartItemID.String(),
			err,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("updated cart item quantity")

	c = logger.WithContext(c)
	return s.repriceAfterMutation(c, userID)
}

func (s CartService) RemoveCartItem(
	c context.Context,
	userID uuid.UUID,
	cartItemID uuid.UUID,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService RemoveCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService RemoveCartItem").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyCartItemID, cartItemID.String()).
		Str(log.KeyProcess, "deleting cart item").
		Logger()

	logger.Info().Msg("deleting cart item")
	deleted, err := s.queries.DeleteCartItem(c, repository.DeleteCartItemParams{
		ID:     cartItemID,
		UserID: userID,
	})
	if err != nil {
		err = fmt.Errorf("failed deleting cartItemId=%s with error=%w", cartItemID.String(), err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	if deleted == 0 {
		err = fmt.Errorf(
			"failed deleting cartItemId=%s with error=%w",
			cartItemID.String(),
			inErrors.ErrCartItemNotFound,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("deleted cart item")

	c = logger.WithContext(c)
	return s.repriceAfterMutation(c, userID)
}

// ClearCart empties the cart and forgets any applied coupon.
func (s CartService) ClearCart(c context.Context, userID uuid.UUID) error {
	c, span := otel.Tracer.Start(c, "CartService ClearCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService ClearCart").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyProcess, "deleting cart items").
		Logger()

	logger.Info().Msg("deleting cart items")
	err := s.queries.DeleteCartItemsByUserId(c, userID)
	if err != nil {
		err = fmt.Errorf("failed deleting cart items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("deleted cart items")

	logger = logger.With().Str(log.KeyProcess, "deleting cart cache").Logger()
	logger.Info().Msg("deleting cart cache")
	linesKey := fmt.Sprintf(cache.KEY_CART_LINES, userID.String())
	couponKey := fmt.Sprintf(cache.KEY_APPLIED_COUPON, userID.String())
	err = s.cache.Del(c, linesKey, couponKey).Err()
	if err != nil {
		err = fmt.Errorf("failed deleting cart cache with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("deleted cart cache")

	return nil
}

// ApplyCoupon validates code against the current cart and stores it for the
// user when it passes. On any validation failure the stored coupon is
// cleared before the error is returned.
func (s CartService) ApplyCoupon(
	c context.Context,
	userID uuid.UUID,
	param request.ApplyCoupon,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService ApplyCoupon")
	defer span.End()

	couponKey := fmt.Sprintf(cache.KEY_APPLIED_COUPON, userID.String())

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService ApplyCoupon").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyCouponCode, param.Code).
		Str(log.KeyCacheKey, couponKey).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding cart lines").Logger()
	c = logger.WithContext(c)
	lines, err := s.findCartLines(c, userID)
	if err != nil {
		err = fmt.Errorf("failed finding cart lines with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "applying coupon").Logger()
	logger.Info().Msgf("applying couponCode=%s", param.Code)
	engine := pricing.NewEngine(userID, s.coupons)
	engine.SetLines(c, lines)
	coupon, err := engine.ApplyCoupon(c, param.Code)
	if err != nil {
		newErr := s.cache.Del(c, couponKey).Err()
		if newErr != nil {
			err = errors.Join(err, newErr)
		}
		err = fmt.Errorf("failed applying couponCode=%s with error=%w", param.Code, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msgf("applied couponCode=%s", coupon.Code)

	logger = logger.With().Str(log.KeyProcess, "storing applied coupon").Logger()
	logger.Info().Msg("storing applied coupon")
	err = s.cache.Set(c, couponKey, coupon.Code, 0).Err()
	if err != nil {
		err = fmt.Errorf("failed storing applied coupon with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("stored applied coupon")

	return response.Cart{Lines: engine.Lines(), Breakdown: engine.Breakdown()}, nil
}

// RemoveCoupon clears the applied coupon. Removing when none is applied is
// not an error.
func (s CartService) RemoveCoupon(c context.Context, userID uuid.UUID) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService RemoveCoupon")
	defer span.End()

	couponKey := fmt.Sprintf(cache.KEY_APPLIED_COUPON, userID.String())

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService RemoveCoupon").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyCacheKey, couponKey).
		Str(log.KeyProcess, "deleting applied coupon").
		Logger()

	logger.Info().Msg("deleting applied coupon")
	err := s.cache.Del(c, couponKey).Err()
	if err != nil {
		err = fmt.Errorf("failed deleting applied coupon with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("deleted applied coupon")

	c = logger.WithContext(c)
	return s.FindCart(c, userID)
}

// findCartLines reads the user's lines through the cache, falling back to
// the cart and product tables on a miss.
func (s CartService) findCartLines(
	c context.Context,
	userID uuid.UUID,
) ([]pricing.CartLine, error) {
	c, span := otel.Tracer.Start(c, "CartService findCartLines")
	defer span.End()

	linesKey := fmt.Sprintf(cache.KEY_CART_LINES, userID.String())

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService findCartLines").
		Str(log.KeyCacheKey, linesKey).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding cart lines in cache").Logger()
	logger.Info().Msg("finding cart lines in cache")
	jsonString, err := s.cache.Get(c, linesKey).Result()
	if err != nil {
		err = fmt.Errorf("failed finding cart lines in cache with error=%w", err)
		logger.Info().Err(err).Msg(err.Error())

		logger = logger.With().Str(log.KeyProcess, "finding cart lines in db").Logger()
		logger.Info().Msg("finding cart lines in db")
		rows, err := s.queries.FindCartLinesByUserId(c, userID)
		if err != nil {
			err = fmt.Errorf("failed finding cart lines in db with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		lines := repository.CartLines(rows)
		logger.Info().Msgf("found %d cart lines in db", len(lines))

		logger = logger.With().Str(log.KeyProcess, "inserting cart lines to cache").Logger()
		logger.Info().Msg("inserting cart lines to cache")
		jsonLines, err := json.Marshal(lines)
		if err != nil {
			err = fmt.Errorf("failed marshaling cart lines with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		err = s.cache.Set(c, linesKey, jsonLines, time.Hour*1).Err()
		if err != nil {
			err = fmt.Errorf("failed inserting cart lines to cache with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		logger.Info().Msg("inserted cart lines to cache")

		return lines, nil
	}
	logger.Info().Msg("found cart lines in cache")

	logger = logger.With().Str(log.KeyProcess, "unmarshaling cache").Logger()
	logger.Info().Msg("unmarshaling cache")
	var lines []pricing.CartLine
	err = json.Unmarshal([]byte(jsonString), &lines)
	if err != nil {
		err = fmt.Errorf("failed unmarshaling cache with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("unmarshaled cache")

	return lines, nil
}

// priceCart builds the engine from fresh lines and the stored coupon code.
// A stored coupon that fails validation against the current lines is
// dropped, not surfaced.
func (s CartService) priceCart(c context.Context, userID uuid.UUID) (*pricing.Engine, error) {
	c, span := otel.Tracer.Start(c, "CartService priceCart")
	defer span.End()

	couponKey := fmt.Sprintf(cache.KEY_APPLIED_COUPON, userID.String())

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService priceCart").
		Str(log.KeyCacheKey, couponKey).
		Logger()

	c = logger.WithContext(c)
	lines, err := s.findCartLines(c, userID)
	if err != nil {
		err = fmt.Errorf("failed finding cart lines with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	engine := pricing.NewEngine(userID, s.coupons)
	engine.SetLines(c, lines)

	logger = logger.With().Str(log.KeyProcess, "finding applied coupon").Logger()
	logger.Info().Msg("finding applied coupon")
	code, err := s.cache.Get(c, couponKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			err = fmt.Errorf("failed finding applied coupon with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		logger.Info().Msg("no applied coupon")
		return engine, nil
	}
	logger = logger.With().Str(log.KeyCouponCode, code).Logger()
	logger.Info().Msgf("found applied couponCode=%s", code)

	logger = logger.With().Str(log.KeyProcess, "revalidating applied coupon").Logger()
	logger.Info().Msg("revalidating applied coupon")
	_, err = engine.ApplyCoupon(c, code)
	if err != nil {
		if !inErrors.IsCouponRejection(err) {
			err = fmt.Errorf("failed revalidating couponCode=%s with error=%w", code, err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		logger.Info().Err(err).Msgf("couponCode=%s no longer valid, removing", code)
		newErr := s.cache.Del(c, couponKey).Err()
		if newErr != nil {
			newErr = fmt.Errorf("failed removing stale coupon with error=%w", newErr)
			inOtel.RecordError(newErr, span)
			logger.Error().Err(newErr).Msg(newErr.Error())
			return nil, newErr
		}
		return engine, nil
	}
	logger.Info().Msg("revalidated applied coupon")

	return engine, nil
}

// repriceAfterMutation invalidates the cached lines and returns the freshly
// priced cart so every mutation response reflects the new totals.
func (s CartService) repriceAfterMutation(
	c context.Context,
	userID uuid.UUID,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService repriceAfterMutation")
	defer span.End()

	linesKey := fmt.Sprintf(cache.KEY_CART_LINES, userID.String())

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService repriceAfterMutation").
		Str(log.KeyCacheKey, linesKey).
		Str(log.KeyProcess, "deleting cart lines cache").
		Logger()

	logger.Info().Msg("deleting cart lines cache")
	err := s.cache.Del(c, linesKey).Err()
	if err != nil {
		err = fmt.Errorf("failed deleting cart lines cache with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("deleted cart lines cache")

	c = logger.WithContext(c)
	engine, err := s.priceCart(c, userID)
	if err != nil {
		err = fmt.Errorf("failed pricing cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}

	return response.Cart{Lines: engine.Lines(), Breakdown: engine.Breakdown()}, nil
}
