package constants

const (
	APP_CART_SERVICE     = "cart-service"
	APP_CATALOG_SERVICE  = "catalog-service"
	APP_CHECKOUT_SERVICE = "checkout-service"
	APP_COUPON_SERVICE   = "coupon-service"
	APP_MAIN_MARKETPLACE = "main marketplace"
	APP_AUTH_ISSUER      = "auth-service"
	AUDIENCE_USER        = "audience-user"
)
