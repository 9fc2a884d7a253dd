package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"storefront/internal/models"
	"storefront/internal/repository"
)

var (
	ErrOutOfStock      = errors.New("item is out of stock")
	ErrUnknownItem     = errors.New("item is not in the catalog")
	ErrInvalidKind     = errors.New("item kind must be product or deal")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrCheckoutBlocked = errors.New("cart has out of stock items")
)

// CheckoutPath is where a shopper goes once the checkout gate opens.
const CheckoutPath = "/place-order"

// Catalog supplies the products and deals carts are priced against.
type Catalog interface {
	Products(ctx context.Context) ([]models.Product, error)
	Deals(ctx context.Context) ([]models.Deal, error)
}

// Service is the shop context: it owns each session's cart and derives the
// stock-aware view of it.
type Service struct {
	carts       repository.CartRepository
	catalog     Catalog
	deliveryFee decimal.Decimal
	log         *zap.Logger
	locks       *sessionLocks
}

func NewService(carts repository.CartRepository, catalog Catalog, deliveryFee decimal.Decimal, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		carts:       carts,
		catalog:     catalog,
		deliveryFee: deliveryFee,
		log:         log.Named("cart"),
		locks:       newSessionLocks(),
	}
}

// Inventory fetches products and deals concurrently.
func (s *Service) Inventory(ctx context.Context) (*Inventory, error) {
	var (
		products []models.Product
		deals    []models.Deal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.catalog.Products(gctx)
		if err != nil {
			return fmt.Errorf("load products: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		deals, err = s.catalog.Deals(gctx)
		if err != nil {
			return fmt.Errorf("load deals: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return NewInventory(products, deals), nil
}

func (s *Service) load(ctx context.Context, sessionID string) (*models.Cart, error) {
	c, err := s.carts.Get(ctx, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.NewCart(sessionID), nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// mutate runs fn against the session's cart and saves the result.
func (s *Service) mutate(ctx context.Context, sessionID string, fn func(*models.Cart) error) (*models.Cart, error) {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// View returns the cart of sessionID with stock info and totals.
func (s *Service) View(ctx context.Context, sessionID string) (*View, error) {
	inv, err := s.Inventory(ctx)
	if err != nil {
		return nil, err
	}
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return BuildView(c, inv, s.deliveryFee), nil
}

// Add increases the quantity of kind/id by n (at least one), clamped to
// what stock allows.
func (s *Service) Add(ctx context.Context, sessionID string, kind models.ItemKind, id string, n int) (*View, error) {
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}
	if n <= 0 {
		n = 1
	}
	inv, err := s.Inventory(ctx)
	if err != nil {
		return nil, err
	}
	if !inv.Has(kind, id) {
		return nil, ErrUnknownItem
	}

	c, err := s.mutate(ctx, sessionID, func(c *models.Cart) error {
		want := min(c.Quantity(kind, id), MaxQuantity) + min(n, MaxQuantity)
		q, err := ClampQuantity(want, inv.Stock(kind, id, want))
		if err != nil {
			return err
		}
		c.Set(kind, id, q)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("item added", zap.String("session", sessionID), zap.String("kind", string(kind)), zap.String("id", id))
	return BuildView(c, inv, s.deliveryFee), nil
}

// UpdateQuantity sets kind/id to n. Zero or less removes the line; any other
// value is clamped to [1, min(MaxQuantity, available)]. When stock allows no
// unit at all the line is left as it is and ErrOutOfStock is returned.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID string, kind models.ItemKind, id string, n int) (*View, error) {
	if n <= 0 {
		if err := s.Remove(ctx, sessionID, kind, id); err != nil {
			return nil, err
		}
		return s.View(ctx, sessionID)
	}
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}
	inv, err := s.Inventory(ctx)
	if err != nil {
		return nil, err
	}

	c, err := s.mutate(ctx, sessionID, func(c *models.Cart) error {
		if !inv.Has(kind, id) {
			return ErrUnknownItem
		}
		q, err := ClampQuantity(n, inv.Stock(kind, id, n))
		if err != nil {
			return err
		}
		c.Set(kind, id, q)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return BuildView(c, inv, s.deliveryFee), nil
}

// Remove drops kind/id from the cart. It does not need the catalog, so it
// works while the backend is down.
func (s *Service) Remove(ctx context.Context, sessionID string, kind models.ItemKind, id string) error {
	if !kind.Valid() {
		return ErrInvalidKind
	}
	_, err := s.mutate(ctx, sessionID, func(c *models.Cart) error {
		c.Set(kind, id, 0)
		return nil
	})
	return err
}

// Clear empties the cart of sessionID.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	unlock := s.locks.lock(sessionID)
	defer unlock()
	err := s.carts.Delete(ctx, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return err
}

// Checkout applies the checkout gate and returns where to go next.
func (s *Service) Checkout(ctx context.Context, sessionID string) (string, error) {
	v, err := s.View(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if err := v.CheckoutError(); err != nil {
		s.log.Info("checkout blocked", zap.String("session", sessionID), zap.Error(err))
		return "", err
	}
	return CheckoutPath, nil
}

// Details returns what the details modal shows for kind/id.
func (s *Service) Details(ctx context.Context, kind models.ItemKind, id string) (*Details, error) {
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}
	inv, err := s.Inventory(ctx)
	if err != nil {
		return nil, err
	}
	return BuildDetails(inv, kind, id)
}
