package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/stylora/marketplace/cart/internal/otel"
	"github.com/stylora/marketplace/internal"
	"github.com/stylora/marketplace/internal/constants"
	inErrors "github.com/stylora/marketplace/internal/errors"
	inHttp "github.com/stylora/marketplace/internal/http"
	"github.com/stylora/marketplace/internal/log"
	inOtel "github.com/stylora/marketplace/internal/otel"
	"github.com/stylora/marketplace/pricing"
)

// CouponClient resolves coupon codes over HTTP against the coupon service.
// It satisfies pricing.CouponDirectory so the cart service never touches
// the coupons table directly.
type CouponClient struct {
	baseURL string
}

func NewCouponClient() CouponClient {
	return CouponClient{baseURL: inHttp.COUPON_BASE_URL}
}

func (t CouponClient) FindCouponByCode(
	c context.Context,
	code string,
) (pricing.Coupon, error) {
	c, span := otel.Tracer.Start(c, "CouponClient FindCouponByCode")
	defer span.End()

	c, cancel := context.WithTimeout(c, 10*time.Second)
	defer cancel()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CouponClient FindCouponByCode").
		Str(log.KeyCouponCode, code).
		Logger()

	logger = logger.With().
		Str(log.KeyProcess, fmt.Sprintf("finding coupon code=%s in %s", code, constants.APP_COUPON_SERVICE)).
		Logger()
	logger.Info().Msgf("finding coupon code=%s", code)
	req, err := http.NewRequestWithContext(c, http.MethodGet, t.baseURL+"/"+code, nil)
	if err != nil {
		err = fmt.Errorf("failed creating request for couponCode=%s with error=%w", code, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return pricing.Coupon{}, err
	}
	req.Header.Add(inHttp.HeaderRequestID, log.RequestIDFromContext(c))
	if token, tokenErr := internal.JwtTokenFromContext(c); tokenErr == nil {
		req.Header.Add("Authorization", "Bearer "+token.Raw)
	}
	resp, err := otelhttp.DefaultClient.Do(req)
	if err != nil {
		err = fmt.Errorf("failed finding couponCode=%s with error=%w", code, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return pricing.Coupon{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		err = inErrors.ErrCouponNotFound
		logger.Info().Err(err).Msgf("couponCode=%s not found", code)
		return pricing.Coupon{}, err
	}
	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf(
			"coupon service returned status code=%d for couponCode=%s",
			resp.StatusCode,
			code,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return pricing.Coupon{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "decoding coupon response").Logger()
	logger.Info().Msg("decoding coupon response")
	respBody := struct {
		Data struct {
			Coupon pricing.Coupon `json:"coupon"`
		} `json:"data"`
	}{}
	err = json.NewDecoder(resp.Body).Decode(&respBody)
	if err != nil {
		err = fmt.Errorf("failed decoding coupon response with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return pricing.Coupon{}, err
	}
	logger.Info().Msgf("found coupon code=%s", code)

	return respBody.Data.Coupon, nil
}
