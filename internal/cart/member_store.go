package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
)

// MemberStore persists member cart lines as rows, one per
// account/product pair.
type MemberStore struct {
	db *gorm.DB
}

// NewMemberStore constructs a member cart store bound to the provided DB.
func NewMemberStore(db *gorm.DB) *MemberStore {
	return &MemberStore{db: db}
}

// WithTx binds the store to a transaction.
func (s *MemberStore) WithTx(tx *gorm.DB) *MemberStore {
	if tx == nil {
		return s
	}
	return &MemberStore{db: tx}
}

// Quantities returns the product→quantity map for the account.
func (s *MemberStore) Quantities(ctx context.Context, owner Owner) (map[uuid.UUID]int, error) {
	if !owner.IsMember() {
		return nil, fmt.Errorf("member store requires an account owner")
	}
	var lines []models.CartLine
	if err := s.db.WithContext(ctx).
		Where("account_id = ?", owner.AccountID).
		Find(&lines).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]int, len(lines))
	for _, line := range lines {
		out[line.ProductID] = line.Quantity
	}
	return out, nil
}

// AddQuantity adds delta to the line, creating it when absent. The
// resulting quantity is returned; results at or below zero remove the
// line and report zero.
func (s *MemberStore) AddQuantity(ctx context.Context, owner Owner, productID uuid.UUID, delta int) (int, error) {
	if !owner.IsMember() {
		return 0, fmt.Errorf("member store requires an account owner")
	}

	var line models.CartLine
	err := s.db.WithContext(ctx).
		Where("account_id = ? AND product_id = ?", owner.AccountID, productID).
		First(&line).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if delta <= 0 {
			return 0, nil
		}
		line = models.CartLine{
			ID:        uuid.New(),
			AccountID: owner.AccountID,
			ProductID: productID,
			Quantity:  delta,
		}
		if err := s.db.WithContext(ctx).Create(&line).Error; err != nil {
			return 0, err
		}
		return delta, nil
	case err != nil:
		return 0, err
	}

	next := line.Quantity + delta
	if next <= 0 {
		if err := s.Remove(ctx, owner, productID); err != nil {
			return 0, err
		}
		return 0, nil
	}
	if err := s.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("id = ?", line.ID).
		Update("quantity", next).Error; err != nil {
		return 0, err
	}
	return next, nil
}

// SetQuantity overwrites the line quantity; qty <= 0 removes the line.
func (s *MemberStore) SetQuantity(ctx context.Context, owner Owner, productID uuid.UUID, qty int) error {
	if !owner.IsMember() {
		return fmt.Errorf("member store requires an account owner")
	}
	if qty <= 0 {
		return s.Remove(ctx, owner, productID)
	}

	var line models.CartLine
	err := s.db.WithContext(ctx).
		Where("account_id = ? AND product_id = ?", owner.AccountID, productID).
		First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		line = models.CartLine{
			ID:        uuid.New(),
			AccountID: owner.AccountID,
			ProductID: productID,
			Quantity:  qty,
		}
		return s.db.WithContext(ctx).Create(&line).Error
	}
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("id = ?", line.ID).
		Update("quantity", qty).Error
}

// Remove deletes the line; absent lines are not an error.
func (s *MemberStore) Remove(ctx context.Context, owner Owner, productID uuid.UUID) error {
	if !owner.IsMember() {
		return fmt.Errorf("member store requires an account owner")
	}
	return s.db.WithContext(ctx).
		Where("account_id = ? AND product_id = ?", owner.AccountID, productID).
		Delete(&models.CartLine{}).Error
}

// Clear deletes every line owned by the account.
func (s *MemberStore) Clear(ctx context.Context, owner Owner) error {
	if !owner.IsMember() {
		return fmt.Errorf("member store requires an account owner")
	}
	return s.db.WithContext(ctx).
		Where("account_id = ?", owner.AccountID).
		Delete(&models.CartLine{}).Error
}
