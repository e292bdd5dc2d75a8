package cart

import (
	"context"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
)

// Store is the quantity-level persistence surface shared by the guest
// and member cart backends. Implementations never persist a quantity
// at or below zero; SetQuantity with qty <= 0 removes the line.
type Store interface {
	Quantities(ctx context.Context, owner Owner) (map[uuid.UUID]int, error)
	AddQuantity(ctx context.Context, owner Owner, productID uuid.UUID, delta int) (int, error)
	SetQuantity(ctx context.Context, owner Owner, productID uuid.UUID, qty int) error
	Remove(ctx context.Context, owner Owner, productID uuid.UUID) error
	Clear(ctx context.Context, owner Owner) error
}

type productCatalog interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

type cacheKeys interface {
	CartCacheKey(owner string) string
}
