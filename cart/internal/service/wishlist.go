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
	"github.com/stylora/marketplace/cart/pkg/response"
	inErrors "github.com/stylora/marketplace/internal/errors"
	"github.com/stylora/marketplace/internal/log"
	inOtel "github.com/stylora/marketplace/internal/otel"
	"github.com/stylora/marketplace/internal/repository"
)

type WishlistService struct {
	queries *repository.Queries
	cache   *redis.Client
}

func NewWishlistService(queries *repository.Queries, cache *redis.Client) WishlistService {
	return WishlistService{queries: queries, cache: cache}
}

func (s WishlistService) FindWishlist(
	c context.Context,
	userID uuid.UUID,
) ([]response.WishlistItem, error) {
	c, span := otel.Tracer.Start(c, "WishlistService FindWishlist")
	defer span.End()

	cacheKey := fmt.Sprintf(cache.KEY_WISHLIST, userID.String())

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "WishlistService FindWishlist").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding wishlist in cache").Logger()
	logger.Info().Msg("finding wishlist in cache")
	jsonString, err := s.cache.Get(c, cacheKey).Result()
	if err != nil {
		err = fmt.Errorf("failed finding wishlist in cache with error=%w", err)
		logger.Info().Err(err).Msg(err.Error())

		logger = logger.With().Str(log.KeyProcess, "finding wishlist in db").Logger()
		logger.Info().Msg("finding wishlist in db")
		rows, err := s.queries.FindWishlistByUserId(c, userID)
		if err != nil {
			err = fmt.Errorf("failed finding wishlist in db with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		items := wishlistItems(rows)
		logger.Info().Msgf("found %d wishlist items in db", len(items))

		logger = logger.With().Str(log.KeyProcess, "inserting wishlist to cache").Logger()
		logger.Info().Msg("inserting wishlist to cache")
		jsonItems, err := json.Marshal(items)
		if err != nil {
			err = fmt.Errorf("failed marshaling wishlist with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		err = s.cache.Set(c, cacheKey, jsonItems, time.Hour*1).Err()
		if err != nil {
			err = fmt.Errorf("failed inserting wishlist to cache with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		logger.Info().Msg("inserted wishlist to cache")

		return items, nil
	}
	logger.Info().Msg("found wishlist in cache")

	logger = logger.With().Str(log.KeyProcess, "unmarshaling cache").Logger()
	logger.Info().Msg("unmarshaling cache")
	var items []response.WishlistItem
	err = json.Unmarshal([]byte(jsonString), &items)
	if err != nil {
		err = fmt.Errorf("failed unmarshaling cache with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("unmarshaled cache")

	return items, nil
}

// InsertWishlistItem adds a product to the wishlist. Adding a product that
// is already wishlisted is not an error.
func (s WishlistService) InsertWishlistItem(
	c context.Context,
	userID uuid.UUID,
	productID uuid.UUID,
) ([]response.WishlistItem, error) {
	c, span := otel.Tracer.Start(c, "WishlistService InsertWishlistItem")
	defer span.End()

	cacheKey := fmt.Sprintf(cache.KEY_WISHLIST, userID.String())

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "WishlistService InsertWishlistItem").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyProductID, productID.String()).
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding product").Logger()
	logger.Info().Msgf("finding productId=%s", productID.String())
	_, err := s.queries.FindProductById(c, productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrProductNotFound
		}
		err = fmt.Errorf("failed finding productId=%s with error=%w", productID.String(), err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msgf("found productId=%s", productID.String())

	logger = logger.With().Str(log.KeyProcess, "inserting wishlist item").Logger()
	logger.Info().Msg("inserting wishlist item")
	item, err := s.queries.InsertWishlistItem(c, repository.InsertWishlistItemParams{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
	})
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		err = fmt.Errorf("failed inserting wishlist item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		logger.Info().Msg("product already wishlisted")
	} else {
		logger = logger.With().Str(log.KeyWishlistItemID, item.ID.String()).Logger()
		logger.Info().Msg("inserted wishlist item")
	}

	logger = logger.With().Str(log.KeyProcess, "deleting wishlist cache").Logger()
	logger.Info().Msg("deleting wishlist cache")
	err = s.cache.Del(c, cacheKey).Err()
	if err != nil {
		err = fmt.Errorf("failed deleting wishlist cache with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("deleted wishlist cache")

	c = logger.WithContext(c)
	return s.FindWishlist(c, userID)
}

func (s WishlistService) RemoveWishlistItem(
	c context.Context,
	userID uuid.UUID,
	wishlistItemID uuid.UUID,
) error {
	c, span := otel.Tracer.Start(c, "WishlistService RemoveWishlistItem")
	defer span.End()

	cacheKey := fmt.Sprintf(cache.KEY_WISHLIST, userID.String())

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "WishlistService RemoveWishlistItem").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyWishlistItemID, wishlistItemID.String()).
		Str(log.KeyCacheKey, cacheKey).
		Str(log.KeyProcess, "deleting wishlist item").
		Logger()

	logger.Info().Msg("deleting wishlist item")
	deleted, err := s.queries.DeleteWishlistItem(c, repository.DeleteWishlistItemParams{
		ID:     wishlistItemID,
		UserID: userID,
	})
	if err != nil {
		err = fmt.Errorf(
			"failed deleting wishlistItemId=%s with error=%w",
			wishlistItemID.String(),
			err,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if deleted == 0 {
		err = fmt.Errorf(
			"failed deleting wishlistItemId=%s with error=%w",
			wishlistItemID.String(),
			inErrors.ErrWishlistItemNotFound,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("deleted wishlist item")

	logger = logger.With().Str(log.KeyProcess, "deleting wishlist cache").Logger()
	logger.Info().Msg("deleting wishlist cache")
	err = s.cache.Del(c, cacheKey).Err()
	if err != nil {
		err = fmt.Errorf("failed deleting wishlist cache with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("deleted wishlist cache")

	return nil
}

func wishlistItems(rows []repository.FindWishlistByUserIdRow) []response.WishlistItem {
	items := make([]response.WishlistItem, len(rows))
	for i, row := range rows {
		items[i] = response.WishlistItem{
			ID:           row.ID,
			ProductId:    row.ProductID,
			ProductName:  row.ProductName,
			ImageUrl:     row.ImageURL,
			SellingPrice: repository.DecimalFromNumeric(row.SellingPrice),
			Mrp:          repository.DecimalFromNumeric(row.Mrp),
		}
	}
	return items
}
