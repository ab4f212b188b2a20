package controller

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/stylora/marketplace/coupon/internal/otel"
	"github.com/stylora/marketplace/coupon/internal/service"
	"github.com/stylora/marketplace/coupon/pkg/request"
	inHttp "github.com/stylora/marketplace/internal/http"
	"github.com/stylora/marketplace/internal/log"
	inOtel "github.com/stylora/marketplace/internal/otel"
)

type CouponController struct {
	service *service.CouponService
}

func AttachCouponController(mux *mux.Router, service *service.CouponService) {
	controller := CouponController{service: service}

	router := mux.PathPrefix("/coupons").Subrouter()
	router.HandleFunc("", controller.InsertCoupon).Methods(http.MethodPost)
	router.HandleFunc("/{code}", controller.FindCouponByCode).Methods(http.MethodGet)
	router.HandleFunc("/{code}/redemptions", controller.InsertRedemption).
		Methods(http.MethodPost)
}

func (t CouponController) InsertCoupon(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CouponController InsertCoupon")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CouponController InsertCoupon").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.InsertCoupon{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(log.KeyCouponCode, reqBody.Code).Logger()
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating requestbody").Logger()
	logger.Info().Msg("validating request body")
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().Str(log.KeyProcess, "inserting coupon").Logger()
	logger.Info().Msg("inserting coupon")
	c = logger.WithContext(c)
	coupon, err := t.service.InsertCoupon(c, reqBody)
	if err != nil {
		err = fmt.Errorf("failed inserting couponCode=%s with error=%w", reqBody.Code, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": inHttp.StatusCodeFromError(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("inserted coupon")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusCreated,
		"message":    fmt.Sprintf("inserted couponCode=%s", coupon.Code),
		"data": map[string]interface{}{
			"coupon": coupon,
		},
	})
}

func (t CouponController) FindCouponByCode(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CouponController FindCouponByCode")
	defer span.End()

	pathValues := mux.Vars(r)
	code := pathValues["code"]

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CouponController FindCouponByCode").
		Str(log.KeyCouponCode, code).
		Str(log.KeyProcess, "finding coupon").
		Logger()

	logger.Info().Msgf("finding couponCode=%s", code)
	c = logger.WithContext(c)
	coupon, err := t.service.FindCouponByCode(c, code)
	if err != nil {
		err = fmt.Errorf("failed finding couponCode=%s with error=%w", code, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": inHttp.StatusCodeFromError(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msgf("found couponCode=%s", coupon.Code)

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("couponCode=%s found", coupon.Code),
		"data": map[string]interface{}{
			"coupon": coupon,
		},
	})
}

func (t CouponController) InsertRedemption(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CouponController InsertRedemption")
	defer span.End()

	pathValues := mux.Vars(r)
	code := pathValues["code"]

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CouponController InsertRedemption").
		Str(log.KeyCouponCode, code).
		Str(log.KeyProcess, "incrementing coupon usage").
		Logger()

	logger.Info().Msgf("incrementing usage for couponCode=%s", code)
	c = logger.WithContext(c)
	err := t.service.IncrementUsage(c, code)
	if err != nil {
		err = fmt.Errorf("failed incrementing usage for couponCode=%s with error=%w", code, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": inHttp.StatusCodeFromError(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msgf("incremented usage for couponCode=%s", code)

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("incremented usage for couponCode=%s", code),
	})
}
