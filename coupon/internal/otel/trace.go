package otel

import (
	"go.opentelemetry.io/otel"

	"github.com/stylora/marketplace/internal/constants"
)

var Tracer = otel.Tracer(constants.APP_COUPON_SERVICE)
