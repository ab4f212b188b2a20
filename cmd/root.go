package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	cartCmd "github.com/stylora/marketplace/cart/cmd"
	catalogCmd "github.com/stylora/marketplace/catalog/cmd"
	checkoutCmd "github.com/stylora/marketplace/checkout/cmd"
	couponCmd "github.com/stylora/marketplace/coupon/cmd"
	"github.com/stylora/marketplace/internal/constants"
	"github.com/stylora/marketplace/internal/log"
)

func Start() {
	logger := log.Get("/var/log/marketplace.log", os.Getenv("APP_ENV")).
		With().
		Str(log.KeyAppName, constants.APP_MAIN_MARKETPLACE).
		Str(log.KeyTag, "main Start").
		Logger()

	logger.Info().Msg("adding listener for SIGINT and SIGTERM")
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info().Msg("added listener for SIGINT and SIGTERM")

	c = logger.WithContext(c)

	rootCmd := &cobra.Command{}
	commands := []*cobra.Command{
		{
			Use:   "cart",
			Short: "Run cart service",
			Run: func(cmd *cobra.Command, args []string) {
				cartCmd.RunCartService(cmd.Context())
			},
		},
		{
			Use:   "catalog",
			Short: "Run catalog service",
			Run: func(cmd *cobra.Command, args []string) {
				catalogCmd.RunCatalogService(cmd.Context())
			},
		},
		{
			Use:   "checkout",
			Short: "Run checkout service",
			Run: func(cmd *cobra.Command, args []string) {
				checkoutCmd.RunCheckoutService(cmd.Context())
			},
		},
		{
			Use:   "coupon",
			Short: "Run coupon service",
			Run: func(cmd *cobra.Command, args []string) {
				couponCmd.RunCouponService(cmd.Context())
			},
		},
	}
	rootCmd.AddCommand(commands...)
	if err := rootCmd.ExecuteContext(c); err != nil {
		logger.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}
