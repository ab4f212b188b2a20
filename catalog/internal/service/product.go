package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/stylora/marketplace/catalog/internal/cache"
	"github.com/stylora/marketplace/catalog/internal/otel"
	"github.com/stylora/marketplace/catalog/pkg/request"
	"github.com/stylora/marketplace/catalog/pkg/response"
	inErrors "github.com/stylora/marketplace/internal/errors"
	"github.com/stylora/marketplace/internal/log"
	inOtel "github.com/stylora/marketplace/internal/otel"
	"github.com/stylora/marketplace/internal/repository"
)

type ProductService struct {
	queries *repository.Queries
	cache   *redis.Client
}

func NewProductService(queries *repository.Queries, cache *redis.Client) ProductService {
	return ProductService{queries: queries, cache: cache}
}

func (s ProductService) InsertProduct(
	c context.Context,
	sellerID uuid.UUID,
	param request.Product,
) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService InsertProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService InsertProduct").
		Str(log.KeySellerID, sellerID.String()).
		Str(log.KeyProcess, "inserting product").
		Logger()

	logger.Info().Msgf("inserting product name=%s", param.Name)
	product, err := s.queries.InsertProduct(c, repository.InsertProductParams{
		ID:             uuid.New(),
		SellerID:       sellerID,
		Name:           param.Name,
		Description:    param.Description,
		Category:       param.Category,
		ImageURL:       param.ImageUrl,
		SellingPrice:   repository.NumericFromDecimal(param.SellingPrice),
		Mrp:            repository.NumericFromDecimal(param.Mrp),
		ShippingCharge: repository.NumericFromDecimal(param.ShippingCharge),
		DeliveryDays:   param.DeliveryDays,
		Sizes:          param.Sizes,
		Colors:         param.Colors,
	})
	if err != nil {
		err = fmt.Errorf("failed inserting product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger = logger.With().Str(log.KeyProductID, product.ID.String()).Logger()
	logger.Info().Msgf("inserted productId=%s", product.ID.String())

	return response.NewProduct(product), nil
}

func (s ProductService) UpdateProduct(
	c context.Context,
	sellerID uuid.UUID,
	productID uuid.UUID,
	param request.Product,
) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService UpdateProduct")
	defer span.End()

	cacheKey := fmt.Sprintf(cache.KEY_PRODUCTS, productID.String())

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService UpdateProduct").
		Str(log.KeySellerID, sellerID.String()).
		Str(log.KeyProductID, productID.String()).
		Str(log.KeyCacheKey, cacheKey).
		Str(log.KeyProcess, "updating product").
		Logger()

	logger.Info().Msgf("updating productId=%s", productID.String())
	product, err := s.queries.UpdateProduct(c, repository.UpdateProductParams{
		ID:             productID,
		SellerID:       sellerID,
		Name:           param.Name,
		Description:    param.Description,
		Category:       param.Category,
		ImageURL:       param.ImageUrl,
		SellingPrice:   repository.NumericFromDecimal(param.SellingPrice),
		Mrp:            repository.NumericFromDecimal(param.Mrp),
		ShippingCharge: repository.NumericFromDecimal(param.ShippingCharge),
		DeliveryDays:   param.DeliveryDays,
		Sizes:          param.Sizes,
		Colors:         param.Colors,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrProductNotFound
		}
		err = fmt.Errorf("failed updating productId=%s with error=%w", productID.String(), err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Info().Msgf("updated productId=%s", productID.String())

	logger = logger.With().Str(log.KeyProcess, "deleting product cache").Logger()
	logger.Info().Msg("deleting product cache")
	err = s.cache.Del(c, cacheKey).Err()
	if err != nil {
		err = fmt.Errorf("failed deleting product cache with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Info().Msg("deleted product cache")

	return response.NewProduct(product), nil
}

// FindProductById reads through the cache, falling back to the database on
// a miss.
func (s ProductService) FindProductById(
	c context.Context,
	productID uuid.UUID,
) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProductById")
	defer span.End()

	cacheKey := fmt.Sprintf(cache.KEY_PRODUCTS, productID.String())

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService FindProductById").
		Str(log.KeyProductID, productID.String()).
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding product in cache").Logger()
	logger.Info().Msg("finding product in cache")
	jsonString, err := s.cache.Get(c, cacheKey).Result()
	if err != nil {
		err = fmt.Errorf("failed finding product in cache with error=%w", err)
		logger.Info().Err(err).Msg(err.Error())

		logger = logger.With().Str(log.KeyProcess, "finding product in db").Logger()
		logger.Info().Msg("finding product in db")
		productDb, err := s.queries.FindProductById(c, productID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				err = inErrors.ErrProductNotFound
				logger.Info().Err(err).Msgf("productId=%s not found", productID.String())
				return response.Product{}, err
			}
			err = fmt.Errorf("failed finding productId=%s with error=%w", productID.String(), err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Product{}, err
		}
		product := response.NewProduct(productDb)
		logger.Info().Msg("found product in db")

		logger = logger.With().Str(log.KeyProcess, "inserting product to cache").Logger()
		logger.Info().Msg("inserting product to cache")
		jsonProduct, err := json.Marshal(product)
		if err != nil {
			err = fmt.Errorf("failed marshaling product with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Product{}, err
		}
		err = s.cache.Set(c, cacheKey, jsonProduct, time.Hour*1).Err()
		if err != nil {
			err = fmt.Errorf("failed inserting product to cache with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Product{}, err
		}
		logger.Info().Msg("inserted product to cache")

		return product, nil
	}
	logger.Info().Msg("found product in cache")

	logger = logger.With().Str(log.KeyProcess, "unmarshaling cache").Logger()
	logger.Info().Msg("unmarshaling cache")
	product := response.Product{}
	err = json.Unmarshal([]byte(jsonString), &product)
	if err != nil {
		err = fmt.Errorf("failed unmarshaling cache with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Info().Msg("unmarshaled cache")

	return product, nil
}

func (s ProductService) FindProducts(
	c context.Context,
	param request.FindProducts,
) ([]response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService FindProducts").
		Str(log.KeyProcess, "finding products").
		Logger()

	category := pgtype.Text{}
	if param.Category != "" {
		category = pgtype.Text{String: param.Category, Valid: true}
	}

	logger.Info().Msg("finding products")
	products, err := s.queries.FindProducts(c, repository.FindProductsParams{
		SellerID: repository.NullUUIDFromPtr(param.SellerId),
		Category: category,
		MinPrice: repository.NumericFromDecimalPtr(param.MinPrice),
		MaxPrice: repository.NumericFromDecimalPtr(param.MaxPrice),
	})
	if err != nil {
		err = fmt.Errorf("failed finding products with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msgf("found %d products", len(products))

	return response.NewProducts(products), nil
}

func (s ProductService) DeleteProduct(
	c context.Context,
	sellerID uuid.UUID,
	productID uuid.UUID,
) error {
	c, span := otel.Tracer.Start(c, "ProductService DeleteProduct")
	defer span.End()

	cacheKey := fmt.Sprintf(cache.KEY_PRODUCTS, productID.String())

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService DeleteProduct").
		Str(log.KeySellerID, sellerID.String()).
		Str(log.KeyProductID, productID.String()).
		Str(log.KeyCacheKey, cacheKey).
		Str(log.KeyProcess, "deleting product").
		Logger()

	logger.Info().Msgf("deleting productId=%s", productID.String())
	deleted, err := s.queries.DeleteProduct(c, repository.DeleteProductParams{
		ID:       productID,
		SellerID: sellerID,
	})
	if err != nil {
		err = fmt.Errorf("failed deleting productId=%s with error=%w", productID.String(), err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if deleted == 0 {
		err = fmt.Errorf(
			"failed deleting productId=%s with error=%w",
			productID.String(),
			inErrors.ErrProductNotFound,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msgf("deleted productId=%s", productID.String())

	logger = logger.With().Str(log.KeyProcess, "deleting product cache").Logger()
	logger.Info().Msg("deleting product cache")
	err = s.cache.Del(c, cacheKey).Err()
	if err != nil {
		err = fmt.Errorf("failed deleting product cache with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("deleted product cache")

	return nil
}
