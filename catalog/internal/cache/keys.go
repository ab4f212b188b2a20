package cache

const (
	KEY_PRODUCTS    = "products:%s"
	KEY_COLLECTIONS = "collections:featured"
)
