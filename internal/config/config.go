package config

const (
	DefaultTimeZone = "UTC"

	// Storage namespace keys for the two persisted collections
	CasesStorageKey    = "clientPortal.cases.v2"
	MessagesStorageKey = "clientPortal.messages.v2"

	DefaultStoreBackend = "memory"
	DefaultStoreDir     = "./data"
	DefaultKVTable      = "portal_kv"

	DateFormat     = "2006-01-02"
	DateTimeFormat = "2006-01-02 15:04:05"

	// Snapshot export of every client's cases
	DefaultSnapshotSchedule = "0 2 * * *"
	DefaultSnapshotFolder   = "./exports"

	DefaultPortalPort     = 8080
	DefaultSessionTimeout = 480 // minutes
	DefaultPageSize       = 10
	MaxUploadBytes        = 20 << 20

	RecentItemsLimit = 5
	TrendMonths      = 6
)
