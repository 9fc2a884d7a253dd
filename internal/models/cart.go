package models

import (
	"sort"
	"time"
)

// ItemKind distinguishes catalog products from deals in a cart.
type ItemKind string

const (
	KindProduct ItemKind = "product"
	KindDeal    ItemKind = "deal"
)

func (k ItemKind) Valid() bool {
	return k == KindProduct || k == KindDeal
}

// CartItem is one line of a cart.
type CartItem struct {
	Kind     ItemKind `json:"kind" bson:"kind"`
	ID       string   `json:"id" bson:"id"`
	Quantity int      `json:"quantity" bson:"quantity"`
}

// Cart is the persisted shop context of one session. Quantities are keyed
// by product id and deal id.
type Cart struct {
	SessionID string         `json:"session_id" bson:"_id"`
	Products  map[string]int `json:"products" bson:"products"`
	Deals     map[string]int `json:"deals" bson:"deals"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" bson:"updated_at"`
}

// NewCart returns an empty cart for sessionID.
func NewCart(sessionID string) *Cart {
	now := time.Now().UTC()
	return &Cart{
		SessionID: sessionID,
		Products:  make(map[string]int),
		Deals:     make(map[string]int),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c *Cart) lines(kind ItemKind) map[string]int {
	if kind == KindDeal {
		if c.Deals == nil {
			c.Deals = make(map[string]int)
		}
		return c.Deals
	}
	if c.Products == nil {
		c.Products = make(map[string]int)
	}
	return c.Products
}

// Quantity returns the quantity held for id, zero when absent.
func (c *Cart) Quantity(kind ItemKind, id string) int {
	return c.lines(kind)[id]
}

// Set stores qty for id; qty <= 0 removes the line.
func (c *Cart) Set(kind ItemKind, id string, qty int) {
	m := c.lines(kind)
	if qty <= 0 {
		delete(m, id)
		return
	}
	m[id] = qty
}

// Items flattens the cart, products first, each kind ordered by id.
func (c *Cart) Items() []CartItem {
	out := make([]CartItem, 0, len(c.Products)+len(c.Deals))
	for id, q := range c.Products {
		out = append(out, CartItem{Kind: KindProduct, ID: id, Quantity: q})
	}
	for id, q := range c.Deals {
		out = append(out, CartItem{Kind: KindDeal, ID: id, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind == KindProduct
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (c *Cart) IsEmpty() bool {
	return len(c.Products) == 0 && len(c.Deals) == 0
}
