package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/stylora/marketplace/catalog/internal/cache"
	"github.com/stylora/marketplace/catalog/internal/otel"
	"github.com/stylora/marketplace/catalog/pkg/request"
	"github.com/stylora/marketplace/catalog/pkg/response"
	"github.com/stylora/marketplace/internal/log"
	inOtel "github.com/stylora/marketplace/internal/otel"
	"github.com/stylora/marketplace/internal/repository"
)

type CollectionService struct {
	queries *repository.Queries
	cache   *redis.Client
}

func NewCollectionService(queries *repository.Queries, cache *redis.Client) CollectionService {
	return CollectionService{queries: queries, cache: cache}
}

func (s CollectionService) InsertCollection(
	c context.Context,
	param request.Collection,
) (response.Collection, error) {
	c, span := otel.Tracer.Start(c, "CollectionService InsertCollection")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CollectionService InsertCollection").
		Str(log.KeyProcess, "inserting collection").
		Logger()

	logger.Info().Msgf("inserting collection name=%s", param.Name)
	collection, err := s.queries.InsertCollection(c, repository.InsertCollectionParams{
		ID:          uuid.New(),
		Name:        param.Name,
		Description: param.Description,
		ImageURL:    param.ImageUrl,
		Featured:    param.Featured,
	})
	if err != nil {
		err = fmt.Errorf("failed inserting collection with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Collection{}, err
	}
	logger = logger.With().Str(log.KeyCollectionID, collection.ID.String()).Logger()
	logger.Info().Msgf("inserted collectionId=%s", collection.ID.String())

	logger = logger.With().Str(log.KeyProcess, "deleting featured collections cache").Logger()
	logger.Info().Msg("deleting featured collections cache")
	err = s.cache.Del(c, cache.KEY_COLLECTIONS).Err()
	if err != nil {
		err = fmt.Errorf("failed deleting featured collections cache with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Collection{}, err
	}
	logger.Info().Msg("deleted featured collections cache")

	return response.NewCollection(collection), nil
}

// FindCollections lists collections, optionally only the featured ones. The
// featured listing is the storefront home page so it reads through the cache.
func (s CollectionService) FindCollections(
	c context.Context,
	featured *bool,
) ([]response.Collection, error) {
	c, span := otel.Tracer.Start(c, "CollectionService FindCollections")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CollectionService FindCollections").
		Logger()

	onlyFeatured := featured != nil && *featured
	if onlyFeatured {
		logger = logger.With().
			Str(log.KeyCacheKey, cache.KEY_COLLECTIONS).
			Str(log.KeyProcess, "finding featured collections in cache").
			Logger()
		logger.Info().Msg("finding featured collections in cache")
		jsonString, err := s.cache.Get(c, cache.KEY_COLLECTIONS).Result()
		if err == nil {
			logger.Info().Msg("found featured collections in cache")
			var cached []response.Collection
			err = json.Unmarshal([]byte(jsonString), &cached)
			if err != nil {
				err = fmt.Errorf("failed unmarshaling cache with error=%w", err)
				inOtel.RecordError(err, span)
				logger.Error().Err(err).Msg(err.Error())
				return nil, err
			}
			return cached, nil
		}
		err = fmt.Errorf("failed finding featured collections in cache with error=%w", err)
		logger.Info().Err(err).Msg(err.Error())
	}

	logger = logger.With().Str(log.KeyProcess, "finding collections").Logger()
	logger.Info().Msg("finding collections")
	collections, err := s.queries.FindCollections(c, featured)
	if err != nil {
		err = fmt.Errorf("failed finding collections with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msgf("found %d collections", len(collections))
	resp := response.NewCollections(collections)

	if onlyFeatured {
		logger = logger.With().Str(log.KeyProcess, "inserting featured collections to cache").Logger()
		logger.Info().Msg("inserting featured collections to cache")
		jsonCollections, err := json.Marshal(resp)
		if err != nil {
			err = fmt.Errorf("failed marshaling collections with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		err = s.cache.Set(c, cache.KEY_COLLECTIONS, jsonCollections, time.Hour*1).Err()
		if err != nil {
			err = fmt.Errorf("failed inserting featured collections to cache with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		logger.Info().Msg("inserted featured collections to cache")
	}

	return resp, nil
}

func (s CollectionService) FindProductsByCollection(
	c context.Context,
	collectionID uuid.UUID,
) ([]response.Product, error) {
	c, span := otel.Tracer.Start(c, "CollectionService FindProductsByCollection")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CollectionService FindProductsByCollection").
		Str(log.KeyCollectionID, collectionID.String()).
		Str(log.KeyProcess, "finding collection products").
		Logger()

	logger.Info().Msgf("finding products in collectionId=%s", collectionID.String())
	products, err := s.queries.FindProductsByCollection(c, collectionID)
	if err != nil {
		err = fmt.Errorf(
			"failed finding products in collectionId=%s with error=%w",
			collectionID.String(),
			err,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msgf("found %d products in collectionId=%s", len(products), collectionID.String())

	return response.NewProducts(products), nil
}

// InsertCollectionProduct is idempotent; adding a product twice is not an
// error.
func (s CollectionService) InsertCollectionProduct(
	c context.Context,
	collectionID uuid.UUID,
	productID uuid.UUID,
) error {
	c, span := otel.Tracer.Start(c, "CollectionService InsertCollectionProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CollectionService InsertCollectionProduct").
		Str(log.KeyCollectionID, collectionID.String()).
		Str(log.KeyProductID, productID.String()).
		Str(log.KeyProcess, "inserting collection product").
		Logger()

	logger.Info().Msg("inserting collection product")
	err := s.queries.InsertCollectionProduct(c, repository.CollectionProductParams{
		CollectionID: collectionID,
		ProductID:    productID,
	})
	if err != nil {
		err = fmt.Errorf("failed inserting collection product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("inserted collection product")

	return nil
}

func (s CollectionService) DeleteCollectionProduct(
	c context.Context,
	collectionID uuid.UUID,
	productID uuid.UUID,
) error {
	c, span := otel.Tracer.Start(c, "CollectionService DeleteCollectionProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CollectionService DeleteCollectionProduct").
		Str(log.KeyCollectionID, collectionID.String()).
		Str(log.KeyProductID, productID.String()).
		Str(log.KeyProcess, "deleting collection product").
		Logger()

	logger.Info().Msg("deleting collection product")
	_, err := s.queries.DeleteCollectionProduct(c, repository.CollectionProductParams{
		CollectionID: collectionID,
		ProductID:    productID,
	})
	if err != nil {
		err = fmt.Errorf("failed deleting collection product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("deleted collection product")

	return nil
}

func (s CollectionService) DeleteCollection(c context.Context, collectionID uuid.UUID) error {
	c, span := otel.Tracer.Start(c, "CollectionService DeleteCollection")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CollectionService DeleteCollection").
		Str(log.KeyCollectionID, collectionID.String()).
		Str(log.KeyProcess, "deleting collection").
		Logger()

	logger.Info().Msgf("deleting collectionId=%s", collectionID.String())
	_, err := s.queries.DeleteCollection(c, collectionID)
	if err != nil {
		err = fmt.Errorf(
			"failed deleting collectionId=%s with error=%w",
			collectionID.String(),
			err,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msgf("deleted collectionId=%s", collectionID.String())

	logger = logger.With().Str(log.KeyProcess, "deleting featured collections cache").Logger()
	logger.Info().Msg("deleting featured collections cache")
	err = s.cache.Del(c, cache.KEY_COLLECTIONS).Err()
	if err != nil {
		err = fmt.Errorf("failed deleting featured collections cache with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("deleted featured collections cache")

	return nil
}
