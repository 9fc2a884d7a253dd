package cart

import (
	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

// Line is one rendered cart line.
type Line struct {
	Kind            models.ItemKind `json:"kind"`
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Image           string          `json:"image,omitempty"`
	Available       bool            `json:"available"`
	UnitPrice       float64         `json:"unitPrice"`
	OriginalPrice   float64         `json:"originalPrice,omitempty"`
	Quantity        int             `json:"quantity"`
	DisplayQuantity int             `json:"displayQuantity"`
	MaxQuantity     int             `json:"maxQuantity"`
	LineTotal       float64         `json:"lineTotal"`
	Stock           StockInfo       `json:"stock"`
	StockMessage    string          `json:"stockMessage,omitempty"`
}

// Totals is the CartTotal block.
type Totals struct {
	ItemCount   int     `json:"itemCount"`
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"deliveryFee"`
	Total       float64 `json:"total"`
}

// View is the cart page view model.
type View struct {
	Lines       []Line `json:"lines"`
	Totals      Totals `json:"totals"`
	Empty       bool   `json:"empty"`
	CanCheckout bool   `json:"canCheckout"`
	Blocked     bool   `json:"blocked"`
}

// CheckoutError is nil when the checkout gate is open.
func (v *View) CheckoutError() error {
	if v.Empty {
		return ErrEmptyCart
	}
	if v.Blocked {
		return ErrCheckoutBlocked
	}
	return nil
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// BuildView derives the cart page from a cart and a catalog snapshot.
func BuildView(c *models.Cart, inv *Inventory, deliveryFee decimal.Decimal) *View {
	items := c.Items()
	v := &View{Lines: make([]Line, 0, len(items))}

	subtotal := decimal.Zero
	for _, it := range items {
		line := buildLine(inv, it)
		v.Lines = append(v.Lines, line)
		if line.Stock.IsOutOfStock {
			v.Blocked = true
		}
		v.Totals.ItemCount += line.DisplayQuantity
		subtotal = subtotal.Add(inv.UnitPrice(it.Kind, it.ID).Mul(decimal.NewFromInt(int64(line.DisplayQuantity))))
	}

	v.Empty = len(v.Lines) == 0
	fee := decimal.Zero
	if !v.Empty {
		fee = deliveryFee
	}
	v.Totals.Subtotal = money(subtotal)
	v.Totals.DeliveryFee = money(fee)
	v.Totals.Total = money(subtotal.Add(fee))
	v.CanCheckout = v.CheckoutError() == nil
	return v
}

func buildLine(inv *Inventory, it models.CartItem) Line {
	stock := inv.Stock(it.Kind, it.ID, it.Quantity)
	display := DisplayQuantity(it.Quantity, stock)
	unit := inv.UnitPrice(it.Kind, it.ID)

	line := Line{
		Kind:            it.Kind,
		ID:              it.ID,
		Name:            "Unavailable item",
		Available:       inv.Has(it.Kind, it.ID),
		UnitPrice:       money(unit),
		Quantity:        it.Quantity,
		DisplayQuantity: display,
		MaxQuantity:     max(0, stock.Limit()),
		LineTotal:       money(unit.Mul(decimal.NewFromInt(int64(display)))),
		Stock:           stock,
		StockMessage:    stock.Message(),
	}

	switch it.Kind {
	case models.KindDeal:
		if d, ok := inv.Deal(it.ID); ok {
			line.Name = d.Name
			line.Image = first(d.Images)
			pricing := DealPricing(d)
			if pricing.Discount.IsPositive() {
				line.OriginalPrice = money(pricing.Total)
			}
		}
	default:
		if p, ok := inv.Product(it.ID); ok {
			line.Name = p.Name
			line.Image = first(p.Images)
			if p.EffectivePrice() < p.Price {
				line.OriginalPrice = money(decimal.NewFromFloat(p.Price))
			}
		}
	}
	return line
}

func first(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

// BundledItem is a product inside a deal as shown in the details modal.
type BundledItem struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Price    float64   `json:"price"`
	Quantity int       `json:"quantity"`
	Stock    StockInfo `json:"stock"`
}

// Details is the details modal of a cart line.
type Details struct {
	Kind           models.ItemKind `json:"kind"`
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Images         []string        `json:"images,omitempty"`
	Price          float64         `json:"price"`
	OriginalPrice  float64         `json:"originalPrice,omitempty"`
	Discount       float64         `json:"discount,omitempty"`
	SavingsPercent int64           `json:"savingsPercent,omitempty"`
	Stock          StockInfo       `json:"stock"`
	Items          []BundledItem   `json:"items,omitempty"`
}

// BuildDetails returns the modal contents for kind/id.
func BuildDetails(inv *Inventory, kind models.ItemKind, id string) (*Details, error) {
	if kind == models.KindDeal {
		d, ok := inv.Deal(id)
		if !ok {
			return nil, ErrUnknownItem
		}
		pricing := DealPricing(d)
		out := &Details{
			Kind:           kind,
			ID:             d.ID,
			Name:           d.Name,
			Description:    d.Description,
			Images:         d.Images,
			Price:          money(pricing.FinalPrice),
			Discount:       money(pricing.Discount),
			SavingsPercent: pricing.SavingsPercent,
			Stock:          inv.CheckDealStock(d.ID, 1),
			Items:          make([]BundledItem, 0, len(d.Products)),
		}
		if pricing.Discount.IsPositive() {
			out.OriginalPrice = money(pricing.Total)
		}
		for _, bp := range d.Products {
			perBundle := max(bp.Quantity, 1)
			out.Items = append(out.Items, BundledItem{
				ID:       bp.ID,
				Name:     bp.Name,
				Price:    bp.Price,
				Quantity: perBundle,
				Stock:    inv.CheckStock(bp.ID, perBundle),
			})
		}
		return out, nil
	}

	p, ok := inv.Product(id)
	if !ok {
		return nil, ErrUnknownItem
	}
	out := &Details{
		Kind:        kind,
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Images:      p.Images,
		Price:       p.EffectivePrice(),
		Stock:       inv.CheckStock(p.ID, 1),
	}
	if p.EffectivePrice() < p.Price {
		out.OriginalPrice = p.Price
		out.Discount = money(decimal.NewFromFloat(p.Price).Sub(decimal.NewFromFloat(p.EffectivePrice())))
	}
	return out, nil
}
