package cart

import (
	"strconv"

	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

const (
	// MaxQuantity is the most units of one line a shopper may hold.
	MaxQuantity = 50
	// DealStockCeiling caps the availability advertised for a deal.
	DealStockCeiling = 99
	// LowStockThreshold triggers the "only N left" message.
	LowStockThreshold = 5
)

// StockInfo describes how a requested quantity relates to available stock.
type StockInfo struct {
	InStock      bool `json:"inStock"`
	Available    int  `json:"available"`
	Requested    int  `json:"requested"`
	IsOutOfStock bool `json:"isOutOfStock"`
}

func newStockInfo(available, requested int) StockInfo {
	if available < 0 {
		available = 0
	}
	return StockInfo{
		InStock:      available > 0 && available >= requested,
		Available:    available,
		Requested:    requested,
		IsOutOfStock: available == 0,
	}
}

// Limit is the highest quantity the quantity control accepts.
func (s StockInfo) Limit() int {
	return min(MaxQuantity, s.Available)
}

// Message is the stock notice shown next to a line.
func (s StockInfo) Message() string {
	switch {
	case s.IsOutOfStock:
		return "Out of stock"
	case !s.InStock:
		return "Only " + strconv.Itoa(s.Available) + " available"
	case s.Available <= LowStockThreshold:
		return "Only " + strconv.Itoa(s.Available) + " left in stock"
	default:
		return ""
	}
}

// Inventory is a snapshot of the catalog a cart is checked against.
type Inventory struct {
	products map[string]models.Product
	deals    map[string]models.Deal
}

func NewInventory(products []models.Product, deals []models.Deal) *Inventory {
	inv := &Inventory{
		products: make(map[string]models.Product, len(products)),
		deals:    make(map[string]models.Deal, len(deals)),
	}
	for _, p := range products {
		inv.products[p.ID] = p
	}
	for _, d := range deals {
		inv.deals[d.ID] = d
	}
	return inv
}

func (inv *Inventory) Product(id string) (models.Product, bool) {
	p, ok := inv.products[id]
	return p, ok
}

func (inv *Inventory) Deal(id string) (models.Deal, bool) {
	d, ok := inv.deals[id]
	return d, ok
}

// Has reports whether the catalog knows the item.
func (inv *Inventory) Has(kind models.ItemKind, id string) bool {
	if kind == models.KindDeal {
		_, ok := inv.deals[id]
		return ok
	}
	_, ok := inv.products[id]
	return ok
}

// CheckStock reports stock for a product. Unknown products are out of stock.
func (inv *Inventory) CheckStock(productID string, requested int) StockInfo {
	p, ok := inv.products[productID]
	if !ok {
		return newStockInfo(0, requested)
	}
	return newStockInfo(p.Quantity, requested)
}

// CheckDealStock reports stock for a deal. A deal is out of stock when any
// bundled product is. Otherwise its availability is the number of complete
// bundles the bundled stock allows, capped at DealStockCeiling.
func (inv *Inventory) CheckDealStock(dealID string, requested int) StockInfo {
	d, ok := inv.deals[dealID]
	if !ok {
		return newStockInfo(0, requested)
	}

	available := DealStockCeiling
	for _, bp := range d.Products {
		p, ok := inv.products[bp.ID]
		if !ok || p.Quantity <= 0 {
			return newStockInfo(0, requested)
		}
		perBundle := max(bp.Quantity, 1)
		available = min(available, p.Quantity/perBundle)
	}
	return newStockInfo(available, requested)
}

// Stock dispatches on kind.
func (inv *Inventory) Stock(kind models.ItemKind, id string, requested int) StockInfo {
	if kind == models.KindDeal {
		return inv.CheckDealStock(id, requested)
	}
	return inv.CheckStock(id, requested)
}

// ClampQuantity bounds n into [1, min(MaxQuantity, available)]. It returns
// ErrOutOfStock when that range is empty.
func ClampQuantity(n int, stock StockInfo) (int, error) {
	limit := stock.Limit()
	if limit < 1 {
		return 0, ErrOutOfStock
	}
	return max(1, min(n, limit)), nil
}

// DisplayQuantity is what the quantity control shows for a stored quantity.
func DisplayQuantity(quantity int, stock StockInfo) int {
	return max(0, min(quantity, stock.Limit()))
}

// Pricing is the computed price breakdown of a deal.
type Pricing struct {
	Total          decimal.Decimal
	FinalPrice     decimal.Decimal
	Discount       decimal.Decimal
	SavingsPercent int64
}

// DealPricing computes total, final price and savings of a deal. The bundled
// sum is used when the backend omits dealTotal, and the total when it omits
// dealFinalPrice.
func DealPricing(d models.Deal) Pricing {
	total := decimal.NewFromFloat(d.DealTotal)
	if !total.IsPositive() {
		total = decimal.Zero
		for _, bp := range d.Products {
			total = total.Add(decimal.NewFromFloat(bp.Price).Mul(decimal.NewFromInt(int64(max(bp.Quantity, 1)))))
		}
	}

	final := decimal.NewFromFloat(d.FinalPrice)
	if !final.IsPositive() {
		final = total
	}

	discount := total.Sub(final)
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	var pct int64
	if total.IsPositive() {
		pct = discount.Div(total).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	}
	return Pricing{Total: total, FinalPrice: final, Discount: discount, SavingsPercent: pct}
}

// UnitPrice is the price of one unit of kind/id, zero when unknown.
func (inv *Inventory) UnitPrice(kind models.ItemKind, id string) decimal.Decimal {
	if kind == models.KindDeal {
		d, ok := inv.deals[id]
		if !ok {
			return decimal.Zero
		}
		return DealPricing(d).FinalPrice
	}
	p, ok := inv.products[id]
	if !ok {
		return decimal.Zero
	}
	return decimal.NewFromFloat(p.EffectivePrice())
}
