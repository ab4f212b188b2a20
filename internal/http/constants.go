package http

const (
	HeaderContentType = "Content-Type"
	HeaderRequestID   = "X-Request-Id"
	HeaderValueJson   = "application/json"
)

const (
	CATALOG_BASE_URL  = "http://catalog-service:8080/products"
	CART_BASE_URL     = "http://cart-service:8080/carts"
	CHECKOUT_BASE_URL = "http://checkout-service:8080/checkouts"
	COUPON_BASE_URL   = "http://coupon-service:8080/coupons"
)
