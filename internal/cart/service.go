package cart

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backend/internal/cache"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/pricing"
)

const cacheView = "cart"

// Line is a display-ready cart row with the product snapshot resolved.
type Line struct {
	ProductID       uuid.UUID `json:"product_id"`
	Title           string    `json:"title"`
	UnitPrice       int64     `json:"unit_price"`
	DiscountPercent int       `json:"discount_percent"`
	Quantity        int       `json:"quantity"`
	LineTotal       int64     `json:"line_total"`
}

// View is the full cart projection returned to callers.
type View struct {
	Lines []Line `json:"lines"`
	Total int64  `json:"total"`
}

// Summary feeds the header widget: line count plus payable total.
type Summary struct {
	LineCount int   `json:"line_count"`
	Total     int64 `json:"total"`
}

// Service is the single cart API. It dispatches to the guest or member
// store based on the owner identity and keeps the read cache honest on
// every mutation.
type Service interface {
	Add(ctx context.Context, owner Owner, productID uuid.UUID, quantity int) error
	Remove(ctx context.Context, owner Owner, productID uuid.UUID) error
	Adjust(ctx context.Context, owner Owner, productID uuid.UUID, delta int) error
	List(ctx context.Context, owner Owner) (*View, error)
	Summary(ctx context.Context, owner Owner) (*Summary, error)
	MergeOnLogin(ctx context.Context, sessionToken string, accountID uuid.UUID) error
	Clear(ctx context.Context, owner Owner) error
}

type service struct {
	members Store
	guests  Store
	catalog productCatalog
	cache   *cache.Cache
	keys    cacheKeys
	ttl     time.Duration
	logg    *logger.Logger
}

// NewService builds the cart facade backed by both stores.
func NewService(members, guests Store, catalog productCatalog, readCache *cache.Cache, keys cacheKeys, ttl time.Duration, logg *logger.Logger) (Service, error) {
	if members == nil {
		return nil, fmt.Errorf("member store required")
	}
	if guests == nil {
		return nil, fmt.Errorf("guest store required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("product catalog required")
	}
	if readCache == nil {
		return nil, fmt.Errorf("read cache required")
	}
	if keys == nil {
		return nil, fmt.Errorf("cache key builder required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		members: members,
		guests:  guests,
		catalog: catalog,
		cache:   readCache,
		keys:    keys,
		ttl:     ttl,
		logg:    logg,
	}, nil
}

// Add puts quantity units of the product in the cart. A requested
// quantity of zero or less is floored to one. Existing lines sum.
func (s *service) Add(ctx context.Context, owner Owner, productID uuid.UUID, quantity int) error {
	store, err := s.storeFor(owner)
	if err != nil {
		return err
	}
	if quantity <= 0 {
		quantity = 1
	}

	if _, err := s.catalog.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logg.Warn(ctx, fmt.Sprintf("add to cart for unknown product %s", productID))
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if _, err := store.AddQuantity(ctx, owner, productID, quantity); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart line")
	}
	s.invalidate(ctx, owner)
	return nil
}

// Remove deletes the line unconditionally; absent lines are a no-op.
func (s *service) Remove(ctx context.Context, owner Owner, productID uuid.UUID) error {
	store, err := s.storeFor(owner)
	if err != nil {
		return err
	}
	if err := store.Remove(ctx, owner, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
	}
	s.invalidate(ctx, owner)
	return nil
}

// Adjust changes a line quantity by delta; results at or below zero
// remove the line.
func (s *service) Adjust(ctx context.Context, owner Owner, productID uuid.UUID, delta int) error {
	store, err := s.storeFor(owner)
	if err != nil {
		return err
	}
	if _, err := store.AddQuantity(ctx, owner, productID, delta); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust cart line")
	}
	s.invalidate(ctx, owner)
	return nil
}

// List returns the owner's cart with product snapshots resolved,
// served from cache when fresh.
func (s *service) List(ctx context.Context, owner Owner) (*View, error) {
	store, err := s.storeFor(owner)
	if err != nil {
		return nil, err
	}

	key := s.keys.CartCacheKey(owner.Key())
	var cached View
	if s.cache.GetJSON(ctx, cacheView, key, &cached) {
		return &cached, nil
	}

	view, err := s.buildView(ctx, store, owner)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, key, view, s.ttl)
	return view, nil
}

// Summary returns the header-widget projection for the owner's cart.
func (s *service) Summary(ctx context.Context, owner Owner) (*Summary, error) {
	view, err := s.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	return &Summary{LineCount: len(view.Lines), Total: view.Total}, nil
}

// MergeOnLogin folds the guest cart into the member cart, summing
// quantities for shared products, then clears the guest cart. An empty
// guest cart is a no-op, which makes repeated invocation idempotent.
func (s *service) MergeOnLogin(ctx context.Context, sessionToken string, accountID uuid.UUID) error {
	if sessionToken == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session token is required")
	}
	if accountID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "account id is required")
	}

	guest := GuestOwner(sessionToken)
	member := MemberOwner(accountID)

	quantities, err := s.guests.Quantities(ctx, guest)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read guest cart")
	}
	if len(quantities) == 0 {
		return nil
	}

	// Deterministic order keeps retries after a mid-merge failure
	// from interleaving differently.
	ids := make([]uuid.UUID, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	for _, productID := range ids {
		if _, err := s.members.AddQuantity(ctx, member, productID, quantities[productID]); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "merge cart line")
		}
	}

	if err := s.guests.Clear(ctx, guest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear guest cart")
	}

	s.invalidate(ctx, guest)
	s.invalidate(ctx, member)
	return nil
}

// Clear drops every line for the owner.
func (s *service) Clear(ctx context.Context, owner Owner) error {
	store, err := s.storeFor(owner)
	if err != nil {
		return err
	}
	if err := store.Clear(ctx, owner); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	s.invalidate(ctx, owner)
	return nil
}

func (s *service) storeFor(owner Owner) (Store, error) {
	if !owner.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart owner must be a member or a guest session")
	}
	if owner.IsMember() {
		return s.members, nil
	}
	return s.guests, nil
}

func (s *service) buildView(ctx context.Context, store Store, owner Owner) (*View, error) {
	quantities, err := store.Quantities(ctx, owner)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read cart")
	}

	ids := make([]uuid.UUID, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	products, err := s.catalog.ListByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart products")
	}

	view := &View{Lines: make([]Line, 0, len(products))}
	for _, product := range products {
		qty, ok := quantities[product.ID]
		if !ok {
			continue
		}
		unit := pricing.DiscountedUnitPrice(product.Price, product.DiscountPercent)
		line := Line{
			ProductID:       product.ID,
			Title:           product.Title,
			UnitPrice:       unit,
			DiscountPercent: product.DiscountPercent,
			Quantity:        qty,
			LineTotal:       unit * int64(qty),
		}
		view.Lines = append(view.Lines, line)
		view.Total += line.LineTotal
	}
	return view, nil
}

func (s *service) invalidate(ctx context.Context, owner Owner) {
	s.cache.Invalidate(ctx, s.keys.CartCacheKey(owner.Key()))
}
