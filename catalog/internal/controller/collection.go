package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/stylora/marketplace/catalog/internal/otel"
	"github.com/stylora/marketplace/catalog/internal/service"
	"github.com/stylora/marketplace/catalog/pkg/request"
	inHttp "github.com/stylora/marketplace/internal/http"
	"github.com/stylora/marketplace/internal/log"
	inOtel "github.com/stylora/marketplace/internal/otel"
)

type CollectionController struct {
	service *service.CollectionService
}

func AttachCollectionController(mux *mux.Router, service *service.CollectionService) {
	controller := CollectionController{service: service}

	router := mux.PathPrefix("/collections").Subrouter()
	router.HandleFunc("", controller.InsertCollection).Methods(http.MethodPost)
	router.HandleFunc("", controller.FindCollections).Methods(http.MethodGet)
	router.HandleFunc("/{collectionId}", controller.DeleteCollection).Methods(http.MethodDelete)
	router.HandleFunc("/{collectionId}/products", controller.FindProductsByCollection).
		Methods(http.MethodGet)
	router.HandleFunc("/{collectionId}/products", controller.InsertCollectionProduct).
		Methods(http.MethodPost)
	router.HandleFunc("/{collectionId}/products/{productId}", controller.DeleteCollectionProduct).
		Methods(http.MethodDelete)
}

func (t CollectionController) InsertCollection(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CollectionController InsertCollection")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CollectionController InsertCollection").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.Collection{}
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

	logger = logger.With().Str(log.KeyProcess, "inserting collection").Logger()
	logger.Info().Msg("inserting collection")
	c = logger.WithContext(c)
	collection, err := t.service.InsertCollection(c, reqBody)
	if err != nil {
		err = fmt.Errorf("failed inserting collection with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": inHttp.StatusCodeFromError(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("inserted collection")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusCreated,
		"message":    fmt.Sprintf("inserted collectionId=%s", collection.ID.String()),
		"data": map[string]interface{}{
			"collection": collection,
		},
	})
}

func (t CollectionController) FindCollections(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CollectionController FindCollections")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CollectionController FindCollections").
		Str(log.KeyProcess, "parsing query filters").
		Logger()

	logger.Info().Msg("parsing query filters")
	var featured *bool
	if raw := r.URL.Query().Get("featured"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			err = fmt.Errorf("failed parsing featured=%s with error=%w", raw, err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
				"status":     "failed",
				"statusCode": http.StatusBadRequest,
				"message":    err.Error(),
			})
			return
		}
		featured = &parsed
	}
	logger.Info().Msg("parsed query filters")

	logger = logger.With().Str(log.KeyProcess, "finding collections").Logger()
	logger.Info().Msg("finding collections")
	c = logger.WithContext(c)
	collections, err := t.service.FindCollections(c, featured)
	if err != nil {
		err = fmt.Errorf("failed finding collections with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": inHttp.StatusCodeFromError(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msgf("found %d collections", len(collections))

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "collections found",
		"data": map[string]interface{}{
			"collections": collections,
		},
	})
}

func (t CollectionController) FindProductsByCollection(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CollectionController FindProductsByCollection")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CollectionController FindProductsByCollection").
		Str(log.KeyProcess, "validating collectionId").
		Logger()

	logger.Info().Msg("validating collectionId is valid uuid")
	pathValues := mux.Vars(r)
	collectionId, err := uuid.Parse(pathValues["collectionId"])
	if err != nil {
		err = fmt.Errorf(
			"failed validating collectionId=%s with error=%w",
			pathValues["collectionId"],
			err,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(log.KeyCollectionID, collectionId.String()).Logger()
	logger.Info().Msgf("valid collectionId=%s", collectionId.String())

	logger = logger.With().Str(log.KeyProcess, "finding collection products").Logger()
	logger.Info().Msg("finding collection products")
	c = logger.WithContext(c)
	products, err := t.service.FindProductsByCollection(c, collectionId)
	if err != nil {
		err = fmt.Errorf(
			"failed finding products in collectionId=%s with error=%w",
			collectionId.String(),
			err,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": inHttp.StatusCodeFromError(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msgf("found %d products", len(products))

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("products in collectionId=%s found", collectionId.String()),
		"data": map[string]interface{}{
			"products": products,
		},
	})
}

func (t CollectionController) InsertCollectionProduct(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CollectionController InsertCollectionProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CollectionController InsertCollectionProduct").
		Str(log.KeyProcess, "validating collectionId").
		Logger()

	logger.Info().Msg("validating collectionId is valid uuid")
	pathValues := mux.Vars(r)
	collectionId, err := uuid.Parse(pathValues["collectionId"])
	if err != nil {
		err = fmt.Errorf(
			"failed validating collectionId=%s with error=%w",
			pathValues["collectionId"],
			err,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(log.KeyCollectionID, collectionId.String()).Logger()
	logger.Info().Msgf("valid collectionId=%s", collectionId.String())

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.CollectionProduct{}
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

	logger = logger.With().Str(log.KeyProcess, "inserting collection product").Logger()
	logger.Info().Msgf("inserting productId=%s into collection", reqBody.ProductId.String())
	c = logger.WithContext(c)
	err = t.service.InsertCollectionProduct(c, collectionId, reqBody.ProductId)
	if err != nil {
		err = fmt.Errorf(
			"failed inserting productId=%s into collectionId=%s with error=%w",
			reqBody.ProductId.String(),
			collectionId.String(),
			err,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": inHttp.StatusCodeFromError(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("inserted collection product")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusCreated,
		"message": fmt.Sprintf(
			"inserted productId=%s into collectionId=%s",
			reqBody.ProductId.String(),
			collectionId.String(),
		),
	})
}

func (t CollectionController) DeleteCollectionProduct(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CollectionController DeleteCollectionProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CollectionController DeleteCollectionProduct").
		Str(log.KeyProcess, "validating path values").
		Logger()

	logger.Info().Msg("validating collectionId and productId are valid uuid")
	pathValues := mux.Vars(r)
	collectionId, err := uuid.Parse(pathValues["collectionId"])
	if err != nil {
		err = fmt.Errorf(
			"failed validating collectionId=%s with error=%w",
			pathValues["collectionId"],
			err,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	productId, err := uuid.Parse(pathValues["productId"])
	if err != nil {
		err = fmt.Errorf("failed validating productId=%s with error=%w", pathValues["productId"], err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().
		Str(log.KeyCollectionID, collectionId.String()).
		Str(log.KeyProductID, productId.String()).
		Logger()
	logger.Info().Msg("valid collectionId and productId")

	logger = logger.With().Str(log.KeyProcess, "deleting collection product").Logger()
	logger.Info().Msg("deleting collection product")
	c = logger.WithContext(c)
	err = t.service.DeleteCollectionProduct(c, collectionId, productId)
	if err != nil {
		err = fmt.Errorf(
			"failed deleting productId=%s from collectionId=%s with error=%w",
			productId.String(),
			collectionId.String(),
			err,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": inHttp.StatusCodeFromError(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("deleted collection product")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message": fmt.Sprintf(
			"deleted productId=%s from collectionId=%s",
			productId.String(),
			collectionId.String(),
		),
	})
}

func (t CollectionController) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CollectionController DeleteCollection")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CollectionController DeleteCollection").
		Str(log.KeyProcess, "validating collectionId").
		Logger()

	logger.Info().Msg("validating collectionId is valid uuid")
	pathValues := mux.Vars(r)
	collectionId, err := uuid.Parse(pathValues["collectionId"])
	if err != nil {
		err = fmt.Errorf(
			"failed validating collectionId=%s with error=%w",
			pathValues["collectionId"],
			err,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(log.KeyCollectionID, collectionId.String()).Logger()
	logger.Info().Msgf("valid collectionId=%s", collectionId.String())

	logger = logger.With().Str(log.KeyProcess, "deleting collection").Logger()
	logger.Info().Msg("deleting collection")
	c = logger.WithContext(c)
	err = t.service.DeleteCollection(c, collectionId)
	if err != nil {
		err = fmt.Errorf("failed deleting collectionId=%s with error=%w", collectionId.String(), err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": inHttp.StatusCodeFromError(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("deleted collection")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("deleted collectionId=%s", collectionId.String()),
	})
}
