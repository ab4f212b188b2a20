package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/stylora/marketplace/checkout/internal/cache"
	"github.com/stylora/marketplace/checkout/internal/otel"
	"github.com/stylora/marketplace/checkout/pkg/request"
	"github.com/stylora/marketplace/checkout/pkg/response"
	inErrors "github.com/stylora/marketplace/internal/errors"
	"github.com/stylora/marketplace/internal/log"
	inOtel "github.com/stylora/marketplace/internal/otel"
	"github.com/stylora/marketplace/internal/repository"
	"github.com/stylora/marketplace/pricing"
)

// CouponDirectory is the coupon service surface checkout needs: code lookup
// for checkout-time revalidation plus redemption counting once the order is
// committed. client.CouponClient is the production implementation.
type CouponDirectory interface {
	pricing.CouponDirectory
	RecordRedemption(c context.Context, code string) error
}

type CheckoutService struct {
	pool    *pgxpool.Pool
	queries *repository.Queries
	cache   *redis.Client
	coupons CouponDirectory
}

func NewCheckoutService(
	pool *pgxpool.Pool,
	queries *repository.Queries,
	cache *redis.Client,
	coupons CouponDirectory,
) CheckoutService {
	return CheckoutService{pool: pool, queries: queries, cache: cache, coupons: coupons}
}

// Checkout reprices the cart from current catalog data, places the order in
// one transaction and empties the cart. A stored coupon that no longer
// validates is dropped so the order is placed without a discount.
func (s CheckoutService) Checkout(
	c context.Context,
	userID uuid.UUID,
	param request.Checkout,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "CheckoutService Checkout")
	defer span.End()

	linesKey := fmt.Sprintf(cache.KEY_CART_LINES, userID.String())
	couponKey := fmt.Sprintf(cache.KEY_APPLIED_COUPON, userID.String())

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutService Checkout").
		Str(log.KeyUserID, userID.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding cart lines").Logger()
	logger.Info().Msg("finding cart lines")
	rows, err := s.queries.FindCartLinesByUserId(c, userID)
	if err != nil {
		err = fmt.Errorf("failed finding cart lines with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	lines := repository.CartLines(rows)
	if len(lines) == 0 {
		err = fmt.Errorf("failed checking out with error=%w", inErrors.ErrEmptyCart)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger = logger.With().Int(log.KeyCartLines, len(lines)).Logger()
	logger.Info().Msgf("found %d cart lines", len(lines))

	logger = logger.With().Str(log.KeyProcess, "pricing cart").Logger()
	logger.Info().Msg("pricing cart")
	engine := pricing.NewEngine(userID, s.coupons)
	engine.SetLines(c, lines)
	code, err := s.cache.Get(c, couponKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		err = fmt.Errorf("failed finding applied coupon with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	if code != "" {
		logger = logger.With().Str(log.KeyCouponCode, code).Logger()
		logger.Info().Msgf("revalidating couponCode=%s", code)
		_, err = engine.ApplyCoupon(c, code)
		if err != nil {
			if !inErrors.IsCouponRejection(err) {
				err = fmt.Errorf("failed revalidating couponCode=%s with error=%w", code, err)
				inOtel.RecordError(err, span)
				logger.Error().Err(err).Msg(err.Error())
				return response.Order{}, err
			}
			logger.Info().Err(err).Msgf("couponCode=%s no longer valid, placing order without it", code)
		}
	}
	breakdown := engine.Breakdown()
	logger = logger.With().Any(log.KeyBreakdown, breakdown).Logger()
	logger.Info().Msg("priced cart")

	logger = logger.With().Str(log.KeyProcess, "initializing transaction").Logger()
	logger.Info().Msg("initializing transaction")
	tx, err := s.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("initialized transaction")
	defer func(lg zerolog.Logger) {
		l := lg.With().Str(log.KeyProcess, "rolling back transaction").Logger()
		rollbackErr := tx.Rollback(c)
		if rollbackErr != nil {
			if errors.Is(rollbackErr, pgx.ErrTxClosed) {
				return
			}
			rollbackErr = fmt.Errorf("failed rolling back transaction with error=%w", rollbackErr)
			inOtel.RecordError(rollbackErr, span)
			l.Error().Err(rollbackErr).Msg(rollbackErr.Error())
			return
		}
		l.Info().Msg("rolled back transaction")
	}(logger)

	orderID := uuid.New()
	logger = logger.With().Str(log.KeyOrderID, orderID.String()).Logger()

	couponCode := pgtype.Text{}
	couponDiscount := pgtype.Numeric{}
	if breakdown.CouponCode != "" {
		couponCode = pgtype.Text{String: breakdown.CouponCode, Valid: true}
		couponDiscount = repository.NumericFromDecimal(breakdown.CouponDiscount)
	}
	estimatedDelivery := pgtype.Timestamptz{}
	if breakdown.MaxDeliveryDays != nil {
		estimatedDelivery = pgtype.Timestamptz{
			Time:  time.Now().AddDate(0, 0, int(*breakdown.MaxDeliveryDays)),
			Valid: true,
		}
	}
	transactionID := pgtype.Text{}
	if param.TransactionId != "" {
		transactionID = pgtype.Text{String: param.TransactionId, Valid: true}
	}
	paymentStatus := "pending"
	if param.PaymentMethod != "cod" {
		paymentStatus = "paid"
	}

	logger = logger.With().Str(log.KeyProcess, "inserting order").Logger()
	logger.Info().Msg("inserting order")
	order, err := s.queries.WithTx(tx).InsertOrder(c, repository.InsertOrderParams{
		ID:                    orderID,
		UserID:                userID,
		Status:                "placed",
		Subtotal:              repository.NumericFromDecimal(breakdown.Subtotal),
		ShippingFee:           repository.NumericFromDecimal(breakdown.ShippingFee),
		DiscountAmount:        repository.NumericFromDecimal(breakdown.CouponDiscount),
		TotalAmount:           repository.NumericFromDecimal(breakdown.FinalAmount),
		CouponCode:            couponCode,
		CouponDiscount:        couponDiscount,
		ShippingAddress:       param.ShippingAddress,
		PhoneNumber:           param.PhoneNumber,
		PaymentMethod:         param.PaymentMethod,
		PaymentStatus:         paymentStatus,
		TransactionID:         transactionID,
		EstimatedDeliveryDate: estimatedDelivery,
	})
	if err != nil {
		err = fmt.Errorf("failed inserting order with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("inserted order")

	logger = logger.With().Str(log.KeyProcess, "inserting order items").Logger()
	logger.Info().Msg("inserting order items")
	args := make([]repository.InsertOrderItemsParams, len(engine.Lines()))
	for i, line := range engine.Lines() {
		args[i] = repository.InsertOrderItemsParams{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: line.ProductID,
			SellerID:  line.SellerID,
			Quantity:  line.Quantity,
			Price:     repository.NumericFromDecimal(line.SellingPrice),
			Size:      line.Size,
			Color:     line.Color,
		}
	}
	insertedCount, err := s.queries.WithTx(tx).InsertOrderItems(c, args)
	if err != nil {
		err = fmt.Errorf("failed inserting order items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msgf("inserted %d order items", insertedCount)

	logger = logger.With().Str(log.KeyProcess, "emptying cart").Logger()
	logger.Info().Msg("emptying cart")
	err = s.queries.WithTx(tx).DeleteCartItemsByUserId(c, userID)
	if err != nil {
		err = fmt.Errorf("failed emptying cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("emptied cart")

	logger = logger.With().Str(log.KeyProcess, "committing transaction").Logger()
	logger.Info().Msg("committing transaction")
	err = tx.Commit(c)
	if err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("committed transaction")

	logger = logger.With().Str(log.KeyProcess, "deleting cart cache").Logger()
	logger.Info().Msg("deleting cart cache")
	err = s.cache.Del(c, linesKey, couponKey).Err()
	if err != nil {
		err = fmt.Errorf("failed deleting cart cache with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}

	if breakdown.CouponCode != "" {
		logger = logger.With().Str(log.KeyProcess, "recording coupon redemption").Logger()
		logger.Info().Msgf("recording redemption for couponCode=%s", breakdown.CouponCode)
		redemptionCtx, cancel := context.WithTimeout(
			context.WithoutCancel(logger.WithContext(c)),
			10*time.Second,
		)
		go func() {
			defer cancel()
			if err := s.coupons.RecordRedemption(redemptionCtx, breakdown.CouponCode); err != nil {
				logger.Error().Err(err).Msgf(
					"failed recording redemption for couponCode=%s orderId=%s",
					breakdown.CouponCode,
					orderID.String(),
				)
			}
		}()
	}

	items, err := s.queries.FindOrderItemsByOrderId(c, orderID)
	if err != nil {
		err = fmt.Errorf("failed finding order items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}

	return response.NewOrder(order, items), nil
}

func (s CheckoutService) FindOrders(
	c context.Context,
	userID uuid.UUID,
) ([]response.Order, error) {
	c, span := otel.Tracer.Start(c, "CheckoutService FindOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutService FindOrders").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyProcess, "finding orders").
		Logger()

	logger.Info().Msg("finding orders")
	ordersDb, err := s.queries.FindOrdersByUserId(c, userID)
	if err != nil {
		err = fmt.Errorf("failed finding orders with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msgf("found %d orders", len(ordersDb))

	orders := make([]response.Order, len(ordersDb))
	for i, order := range ordersDb {
		orders[i] = response.NewOrder(order, nil)
	}
	return orders, nil
}

func (s CheckoutService) FindOrderById(
	c context.Context,
	userID uuid.UUID,
	orderID uuid.UUID,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "CheckoutService FindOrderById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutService FindOrderById").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyOrderID, orderID.String()).
		Str(log.KeyProcess, "finding order").
		Logger()

	logger.Info().Msgf("finding orderId=%s", orderID.String())
	order, err := s.queries.FindOrderById(c, repository.FindOrderByIdParams{
		ID:     orderID,
		UserID: userID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrOrderNotFound
		}
		err = fmt.Errorf("failed finding orderId=%s with error=%w", orderID.String(), err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msgf("found orderId=%s", orderID.String())

	logger = logger.With().Str(log.KeyProcess, "finding order items").Logger()
	logger.Info().Msg("finding order items")
	items, err := s.queries.FindOrderItemsByOrderId(c, orderID)
	if err != nil {
		err = fmt.Errorf("failed finding order items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msgf("found %d order items", len(items))

	return response.NewOrder(order, items), nil
}
