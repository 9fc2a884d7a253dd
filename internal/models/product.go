package models

// Product is a catalog record as served by the backend.
type Product struct {
	ID            string   `json:"_id"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Category      string   `json:"category,omitempty"`
	Price         float64  `json:"price"`
	DiscountPrice float64  `json:"discountprice,omitempty"`
	Quantity      int      `json:"quantity"`
	Images        []string `json:"image,omitempty"`
	Bestseller    bool     `json:"bestseller,omitempty"`
	Status        string   `json:"status,omitempty"`
}

// EffectivePrice is the price a shopper pays for one unit.
func (p Product) EffectivePrice() float64 {
	if p.DiscountPrice > 0 && p.DiscountPrice < p.Price {
		return p.DiscountPrice
	}
	return p.Price
}

// DealProduct is a product bundled in a deal. Quantity is per bundle.
type DealProduct struct {
	ID       string  `json:"_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Deal is a bundled multi-product offer.
type Deal struct {
	ID          string        `json:"_id"`
	Name        string        `json:"dealName"`
	Description string        `json:"dealDescription,omitempty"`
	Products    []DealProduct `json:"dealProducts"`
	Images      []string      `json:"dealImages,omitempty"`
	DealTotal   float64       `json:"dealTotal,omitempty"`
	FinalPrice  float64       `json:"dealFinalPrice,omitempty"`
	Status      string        `json:"status,omitempty"`
}

// ProductListResponse is the envelope of GET /api/product/list.
type ProductListResponse struct {
	Success  bool      `json:"success"`
	Products []Product `json:"products"`
	Message  string    `json:"message,omitempty"`
}

// DealListResponse is the envelope of GET /api/deal/list.
type DealListResponse struct {
	Success bool   `json:"success"`
	Deals   []Deal `json:"deals"`
	Message string `json:"message,omitempty"`
}
