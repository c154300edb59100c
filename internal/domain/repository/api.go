package repository

// StoreAPI describes the full set of marketplace API capabilities.
type StoreAPI interface {
	OrderFetcher
	OrderMutator
	OrderPlacer
	Catalog
	NotificationSource
}
