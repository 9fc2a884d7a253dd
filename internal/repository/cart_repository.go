package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

// MongoCarts stores one document per session, keyed by the session id.
type MongoCarts struct {
	collection *mongo.Collection
}

func NewMongoCarts(collection *mongo.Collection) *MongoCarts {
	return &MongoCarts{
		collection: collection,
	}
}

var _ CartRepository = (*MongoCarts)(nil)

// Get loads the cart of sessionID.
func (r *MongoCarts) Get(ctx context.Context, sessionID string) (*models.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var cart models.Cart
	err := r.collection.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find cart: %w", err)
	}
	if cart.Products == nil {
		cart.Products = make(map[string]int)
	}
	if cart.Deals == nil {
		cart.Deals = make(map[string]int)
	}
	return &cart, nil
}

// Save upserts the whole cart document.
func (r *MongoCarts) Save(ctx context.Context, cart *models.Cart) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cart.UpdatedAt = time.Now().UTC()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = cart.UpdatedAt
	}

	_, err := r.collection.ReplaceOne(
		ctx,
		bson.M{"_id": cart.SessionID},
		cart,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// Delete removes the cart of sessionID.
func (r *MongoCarts) Delete(ctx context.Context, sessionID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": sessionID})
	if err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
