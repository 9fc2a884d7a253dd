package repository

import (
	"context"
	"errors"

	"storefront/internal/models"
)

// ErrNotFound is returned when no cart exists for a session.
var ErrNotFound = errors.New("cart not found")

// CartRepository persists the shop context of each session.
type CartRepository interface {
	Get(ctx context.Context, sessionID string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Delete(ctx context.Context, sessionID string) error
}
