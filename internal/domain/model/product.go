package model

import "github.com/shopspring/decimal"

// ProductType distinguishes physical records from digital goods.
type ProductType string

const (
	ProductTypeVinyl        ProductType = "VINYL"
	ProductTypeDigitalAlbum ProductType = "DIGITAL_ALBUM"
	ProductTypeSong         ProductType = "SONG"
)

// Physical reports whether the product has to be shipped.
func (t ProductType) Physical() bool {
	return t == ProductTypeVinyl
}

// Product is the catalog snapshot the storefront works with.
type Product struct {
	ID            int64
	AlbumTitle    string
	SongTitle     string
	ArtistName    string
	Type          ProductType
	Price         decimal.Decimal
	StockQuantity int
	ProviderName  string
}

// DisplayName returns the title shown to customers.
func (p Product) DisplayName() string {
	if p.SongTitle != "" {
		return p.SongTitle
	}
	return p.AlbumTitle
}
