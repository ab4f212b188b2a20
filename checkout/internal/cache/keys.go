package cache

// Cart state lives in the shared redis instance under the cart service's
// key formats; checkout clears it after an order is placed.
const (
	KEY_CART_LINES     = "carts:lines:%s"
	KEY_APPLIED_COUPON = "carts:coupon:%s"
)
