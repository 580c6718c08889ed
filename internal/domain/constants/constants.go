// Package constants contains configuration-level identifiers shared across layers.
package constants

// Environments.
const (
	EnvDevelop    = "develop"
	EnvProduction = "production"
)

// Storage providers.
const (
	StorageProviderMemory   = "memory"
	StorageProviderPostgres = "postgres"
	StorageProviderRedis    = "redis"
	StorageProviderBlob     = "blob"
)

// Event relay providers for cross-instance invalidation.
const (
	RelayProviderNone   = ""
	RelayProviderRedis  = "redis"
	RelayProviderGoogle = "google"
)

// Store keys. Each key holds one JSON document.
const (
	KeyProducts         = "products"
	KeyCartPrefix       = "cart/"
	KeyOrders           = "orders"
	KeyCategories       = "categories"
	KeyUsers            = "users"
	KeyConversations    = "conversations"
	KeyCustomerMessages = "customerMessages"
	KeyPageContents     = "pageContents"
	KeyEsewaQRCode      = "esewaQrCode"
	KeyThemeCSS         = "themeCss"
	KeyPasswordResets   = "passwordResets"
	KeyOwnerDevices     = "ownerDevices"
)

// Request headers.
const (
	HeaderCartID   = "X-Cart-Id"
	HeaderOwnerPIN = "X-Owner-Pin"
)
