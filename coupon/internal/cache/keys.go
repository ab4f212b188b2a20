package cache

const KEY_COUPONS = "coupons:%s"
