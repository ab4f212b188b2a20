package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	inErrors "github.com/stylora/marketplace/internal/errors"
	"github.com/stylora/marketplace/internal/repository"
	"github.com/stylora/marketplace/pricing"
)

type (
	setupFunc    func(context.Context, ...string) (*redis.Client, *pgxpool.Pool, *postgres.PostgresContainer, *testRedis.RedisContainer, *repository.Queries, *CheckoutService)
	teardownFunc func(*redis.Client, *pgxpool.Pool, *postgres.PostgresContainer, *testRedis.RedisContainer)
)

// staticDirectory serves coupons from memory and counts redemptions so
// checkout tests do not need a running coupon service. Redemption is
// recorded from a goroutine so the counter is guarded.
type staticDirectory struct {
	mu       sync.Mutex
	coupons  map[string]pricing.Coupon
	redeemed map[string]int
}

func newStaticDirectory(coupons map[string]pricing.Coupon) *staticDirectory {
	return &staticDirectory{coupons: coupons, redeemed: map[string]int{}}
}

func (d *staticDirectory) FindCouponByCode(c context.Context, code string) (pricing.Coupon, error) {
	coupon, ok := d.coupons[code]
	if !ok {
		return pricing.Coupon{}, inErrors.ErrCouponNotFound
	}
	return coupon, nil
}

func (d *staticDirectory) RecordRedemption(c context.Context, code string) error {
	if _, ok := d.coupons[code]; !ok {
		return inErrors.ErrCouponNotFound
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.redeemed[code]++
	return nil
}

func (d *staticDirectory) redemptions(code string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.redeemed[code]
}

func setup(t *testing.T, directory CouponDirectory) setupFunc {
	return func(c context.Context, seedPaths ...string) (*redis.Client, *pgxpool.Pool, *postgres.PostgresContainer, *testRedis.RedisContainer, *repository.Queries, *CheckoutService) {
		pgContainer, err := postgres.Run(
			c,
			"postgres:16.6-alpine3.21",
			testcontainers.WithEnv(map[string]string{
				"POSTGRES_DB":       "postgres",
				"POSTGRES_PASSWORD": "postgres",
				"POSTGRES_PORT":     "5432",
				"POSTGRES_USER":     "postgres",
			}),
			postgres.WithUsername("postgres"),
			postgres.WithPassword("postgres"),
			postgres.WithDatabase("postgres"),
			postgres.BasicWaitStrategies(),
			postgres.WithInitScripts(
				append(
					[]string{
						filepath.Join("..", "..", "..", "migrations", "20250301094512_create_table_products.up.sql"),
						filepath.Join("..", "..", "..", "migrations", "20250301094733_create_table_cart_items.up.sql"),
						filepath.Join("..", "..", "..", "migrations", "20250301095342_create_table_orders.up.sql"),
					},
					seedPaths...)...,
			),
		)
		if err != nil {
			t.Fatalf("failed running postgres container with error: %s", err)
		}

		pgConnStr, err := pgContainer.ConnectionString(c)
		if err != nil {
			t.Fatalf("failed getting postgres connection string with error: %s", err)
		}

		pgConfig, err := pgxpool.ParseConfig(pgConnStr)
		if err != nil {
			t.Fatalf("failed parsing pgconfig with error: %s", err)
		}

		pool, err := pgxpool.NewWithConfig(c, pgConfig)
		if err != nil {
			t.Fatalf("failed creating postgres pool with error: %s", err)
		}

		if err = pool.Ping(c); err != nil {
			t.Fatalf("failed ping postgres pool with error: %s", err)
		}

		redisContainer, err := testRedis.Run(
			c,
			"redis:7.4.2-alpine3.21",
			testRedis.WithLogLevel(testRedis.LogLevelVerbose),
		)
		if err != nil {
			t.Fatalf("failed running redis container with error: %s", err)
		}

		redisConnStr, err := redisContainer.ConnectionString(c)
		if err != nil {
			t.Fatalf("failed getting redis connection string with error: %s", err)
		}

		redisOpt, err := redis.ParseURL(redisConnStr)
		if err != nil {
			t.Fatalf("failed parsing redis connection string with error: %s", err)
		}

		redisClient := redis.NewClient(redisOpt)
		if err = redisClient.Ping(c).Err(); err != nil {
			t.Fatalf("failed ping redis client with error: %s", err)
		}

		queries := repository.New(pool)
		checkoutService := NewCheckoutService(pool, queries, redisClient, directory)
		return redisClient, pool, pgContainer, redisContainer, queries, &checkoutService
	}
}

func teardown(t *testing.T) teardownFunc {
	return func(redisClient *redis.Client, pool *pgxpool.Pool, pgContainer *postgres.PostgresContainer, redisContainer *testRedis.RedisContainer) {
		redisClient.Close()
		pool.Close()
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
		if err := testcontainers.TerminateContainer(redisContainer); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	}
}
