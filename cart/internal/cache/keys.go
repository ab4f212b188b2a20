package cache

const (
	KEY_CART_LINES     = "carts:lines:%s"
	KEY_APPLIED_COUPON = "carts:coupon:%s"
	KEY_WISHLIST       = "wishlists:%s"
)
