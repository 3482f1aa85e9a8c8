package constants

const (
	APP_MAIN_BOOKSTORE = "main bookstore"
	APP_STOREFRONT     = "storefront"
	AUDIENCE_USER      = "audience-user"
)

const (
	// Records owned by the storefront in durable client storage.
	STORAGE_KEY_CART    = "cart"
	STORAGE_KEY_ORDERS  = "orders"
	STORAGE_KEY_SESSION = "session"
	STORAGE_KEY_USERS   = "users"
)
