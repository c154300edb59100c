package usecase

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/vinylstore/internal/domain/model"
)

type cartDocument struct {
	Items []cartLine `json:"items"`
}

type cartLine struct {
	Product  cartProduct `json:"product"`
	Quantity int         `json:"quantity"`
}

type cartProduct struct {
	ID            int64           `json:"id"`
	AlbumTitle    string          `json:"albumTitle,omitempty"`
	SongTitle     string          `json:"songTitle,omitempty"`
	ArtistName    string          `json:"artistName,omitempty"`
	ProductType   string          `json:"productType"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	ProviderName  string          `json:"providerName,omitempty"`
}

func encodeCart(cart model.Cart) ([]byte, error) {
	doc := cartDocument{Items: make([]cartLine, 0, len(cart.Items))}
	for _, item := range cart.Items {
		p := item.Product
		doc.Items = append(doc.Items, cartLine{
			Quantity: item.Quantity,
			Product: cartProduct{
				ID:            p.ID,
				AlbumTitle:    p.AlbumTitle,
				SongTitle:     p.SongTitle,
				ArtistName:    p.ArtistName,
				ProductType:   string(p.Type),
				Price:         p.Price,
				StockQuantity: p.StockQuantity,
				ProviderName:  p.ProviderName,
			},
		})
	}
	return json.Marshal(doc)
}

// decodeCart parses a persisted cart and repairs lines that break cart invariants.
// It returns the number of dropped lines.
func decodeCart(raw []byte) (model.Cart, int, error) {
	var doc cartDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return model.Cart{}, 0, fmt.Errorf("decode cart: %w", err)
	}

	var (
		cart    model.Cart
		dropped int
		seen    = make(map[int64]struct{}, len(doc.Items))
	)
	for _, line := range doc.Items {
		if line.Quantity < 1 {
			dropped++
			continue
		}
		if _, dup := seen[line.Product.ID]; dup {
			dropped++
			continue
		}
		seen[line.Product.ID] = struct{}{}
		p := line.Product
		cart.Items = append(cart.Items, model.CartItem{
			Quantity: line.Quantity,
			Product: model.Product{
				ID:            p.ID,
				AlbumTitle:    p.AlbumTitle,
				SongTitle:     p.SongTitle,
				ArtistName:    p.ArtistName,
				Type:          model.ProductType(p.ProductType),
				Price:         p.Price,
				StockQuantity: p.StockQuantity,
				ProviderName:  p.ProviderName,
			},
		})
	}
	return cart, dropped, nil
}
