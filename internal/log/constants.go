package log

const (
	KeyAppName        = "app"
	KeyRequestID      = "requestId"
	KeyProcess        = "process"
	KeyToken          = "token"
	KeyTag            = "tag"
	KeyRequest        = "request"
	KeyRequestBody    = "requestBody"
	KeyRequestHeader  = "requestHeader"
	KeyRequestHost    = "host"
	KeyRequestIp      = "requesterIP"
	KeyRequestMethod  = "requestMethod"
	KeyRequestURI     = "requestURI"
	KeyRequestURL     = "requestURL"
	KeyConfig         = "config"
	KeyTraceID        = "traceId"
	KeySpanID         = "spanId"
	KeyDbURL          = "dbUrl"
	KeyCacheKey       = "cacheKey"
	KeyUserID         = "userId"
	KeySellerID       = "sellerId"
	KeyProductID      = "productId"
	KeyCartItemID     = "cartItemId"
	KeyWishlistItemID = "wishlistItemId"
	KeyCollectionID   = "collectionId"
	KeyOrderID        = "orderId"
	KeyCouponCode     = "couponCode"
	KeyQuantity       = "quantity"
	KeyCartLines      = "cartLines"
	KeyBreakdown      = "breakdown"
	KeyOrders         = "orders"
	KeyCoupon         = "coupon"
	KeyProduct        = "product"
)
