package cart

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type guestBackend interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HSet(ctx context.Context, key string, pairs ...any) error
	HIncrBy(ctx context.Context, key, field string, delta int64) (int64, error)
	HDel(ctx context.Context, key string, fields ...string) error
	Del(ctx context.Context, keys ...string) error
	Expire(ctx context.Context, key string, ttl time.Duration) error
	GuestCartKey(sessionToken string) string
}

// GuestStore keeps an anonymous cart as a redis hash of
// product-id → quantity, expiring with the session.
type GuestStore struct {
	backend guestBackend
	ttl     time.Duration
}

// NewGuestStore constructs a guest cart store over the redis backend.
func NewGuestStore(backend guestBackend, ttl time.Duration) (*GuestStore, error) {
	if backend == nil {
		return nil, fmt.Errorf("guest cart backend required")
	}
	return &GuestStore{backend: backend, ttl: ttl}, nil
}

// Quantities returns the product→quantity map for the session.
func (s *GuestStore) Quantities(ctx context.Context, owner Owner) (map[uuid.UUID]int, error) {
	key, err := s.key(owner)
	if err != nil {
		return nil, err
	}
	fields, err := s.backend.HGetAll(ctx, key)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]int, len(fields))
	for field, raw := range fields {
		productID, err := uuid.Parse(field)
		if err != nil {
			continue
		}
		qty, err := strconv.Atoi(raw)
		if err != nil || qty <= 0 {
			continue
		}
		out[productID] = qty
	}
	return out, nil
}

// AddQuantity adds delta to the hash field, removing it when the result
// drops to zero or below.
func (s *GuestStore) AddQuantity(ctx context.Context, owner Owner, productID uuid.UUID, delta int) (int, error) {
	key, err := s.key(owner)
	if err != nil {
		return 0, err
	}
	next, err := s.backend.HIncrBy(ctx, key, productID.String(), int64(delta))
	if err != nil {
		return 0, err
	}
	if next <= 0 {
		if err := s.backend.HDel(ctx, key, productID.String()); err != nil {
			return 0, err
		}
		return 0, nil
	}
	s.touch(ctx, key)
	return int(next), nil
}

// SetQuantity overwrites the hash field; qty <= 0 removes it.
func (s *GuestStore) SetQuantity(ctx context.Context, owner Owner, productID uuid.UUID, qty int) error {
	key, err := s.key(owner)
	if err != nil {
		return err
	}
	if qty <= 0 {
		return s.backend.HDel(ctx, key, productID.String())
	}
	if err := s.backend.HSet(ctx, key, productID.String(), qty); err != nil {
		return err
	}
	s.touch(ctx, key)
	return nil
}

// Remove deletes the hash field; absent fields are not an error.
func (s *GuestStore) Remove(ctx context.Context, owner Owner, productID uuid.UUID) error {
	key, err := s.key(owner)
	if err != nil {
		return err
	}
	return s.backend.HDel(ctx, key, productID.String())
}

// Clear drops the whole hash.
func (s *GuestStore) Clear(ctx context.Context, owner Owner) error {
	key, err := s.key(owner)
	if err != nil {
		return err
	}
	return s.backend.Del(ctx, key)
}

func (s *GuestStore) key(owner Owner) (string, error) {
	if owner.IsMember() || owner.SessionToken == "" {
		return "", fmt.Errorf("guest store requires a session owner")
	}
	return s.backend.GuestCartKey(owner.SessionToken), nil
}

func (s *GuestStore) touch(ctx context.Context, key string) {
	if s.ttl <= 0 {
		return
	}
	// Sliding expiry; a failed EXPIRE just means the session cart
	// falls back to the server default eviction.
	_ = s.backend.Expire(ctx, key, s.ttl)
}
