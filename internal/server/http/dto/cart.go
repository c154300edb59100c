package dto

// ProductResponse is a catalog snapshot.
type ProductResponse struct {
	ID            int64  `json:"id"`
	AlbumTitle    string `json:"albumTitle,omitempty"`
	SongTitle     string `json:"songTitle,omitempty"`
	ArtistName    string `json:"artistName,omitempty"`
	ProductType   string `json:"productType"`
	Price         string `json:"price"`
	StockQuantity int    `json:"stockQuantity"`
	ProviderName  string `json:"providerName,omitempty"`
}

type CartItemResponse struct {
	Product  ProductResponse `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal string          `json:"subtotal"`
}

// CartResponse is the cart view with derived values.
type CartResponse struct {
	Items     []CartItemResponse `json:"items"`
	ItemCount int                `json:"itemCount"`
	Total     string             `json:"total"`
}

// NoticeResponse describes the outcome of a cart mutation.
type NoticeResponse struct {
	Kind      string `json:"kind"`
	ProductID int64  `json:"productId,omitempty"`
	Name      string `json:"name,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
}

type CartMutationResponse struct {
	Notice *NoticeResponse `json:"notice,omitempty"`
	Cart   CartResponse    `json:"cart"`
}

type InCartResponse struct {
	ProductID int64 `json:"productId"`
	InCart    bool  `json:"inCart"`
}

// AddItemRequest adds a product to the cart. Quantity defaults to 1.
type AddItemRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  *int  `json:"quantity"`
}

// UpdateQuantityRequest sets a line quantity; values below 1 remove the line.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type CheckoutRequest struct {
	PaymentMethod   string `json:"paymentMethod"`
	ShippingAddress string `json:"shippingAddress"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Available *int   `json:"available,omitempty"`
}
