package log

const (
	KeyAppName       = "app"
	KeyRequestID     = "requestId"
	KeyProcess       = "process"
	KeyTag           = "tag"
	KeyConfig        = "config"
	KeyToken         = "token"
	KeyEmail         = "email"
	KeyUserID        = "userId"
	KeyBookID        = "bookId"
	KeyOrderID       = "orderId"
	KeyOrderNumber   = "orderNumber"
	KeyOrderOrigin   = "orderOrigin"
	KeyQuantity      = "quantity"
	KeySubtotal      = "subtotal"
	KeyShippingCost  = "shippingCost"
	KeyTotalAmount   = "totalAmount"
	KeyTotalItems    = "totalItems"
	KeyCart          = "cart"
	KeyCartItems     = "cartItems"
	KeyStorageKey    = "storageKey"
	KeyQuery         = "query"
	KeyPage          = "page"
	KeyPageSize      = "pageSize"
	KeyPathValues    = "pathValues"
	KeyTraceID       = "traceId"
	KeySpanID        = "spanId"
	KeyRequest       = "request"
	KeyHeader        = "header"
	KeyBody          = "body"
	KeyRequestBody   = "requestBody"
	KeyRequestHeader = "requestHeader"
	KeyRequestHost   = "host"
	KeyRequestIp     = "requesterIP"
	KeyRequestMethod = "requestMethod"
	KeyRequestURI    = "requestURI"
	KeyRequestURL    = "requestURL"
)
