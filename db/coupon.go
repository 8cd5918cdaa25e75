package db

import (
	"time"

	"github.com/go-pg/pg"
)

// DiscountType determines how a coupon discounts an order
type DiscountType string

// Discount types
const (
	DiscountPercentage   DiscountType = "percentage"
	DiscountFixedAmount  DiscountType = "fixed_amount"
	DiscountFreeShipping DiscountType = "free_shipping"
)

// Coupon is a discount code. The usage counters are bumped inside the
// order-creation transaction so they can never drift from the orders that
// used the coupon.
type Coupon struct {
	Timestamps

	ID                   int64        `json:"id"`
	Code                 string       `json:"code"`
	DiscountType         DiscountType `json:"discount_type"`
	DiscountValue        int64        `json:"discount_value"`
	IsActive             bool         `json:"is_active"`
	ValidFrom            time.Time    `json:"valid_from"`
	ValidUntil           time.Time    `json:"valid_until"`
	UsageLimit           *int64       `json:"usage_limit,omitempty"`
	UsedCount            int64        `json:"used_count" sql:"type:,notnull"`
	MinOrderAmount       int64        `json:"min_order_amount"`
	MinQuantity          int64        `json:"min_quantity"`
	AllowedUserIDs       []int64      `json:"allowed_user_ids" pg:",array"`
	ApplicableProductIDs []int64      `json:"applicable_product_ids" pg:",array"`
	ExcludedProductIDs   []int64      `json:"excluded_product_ids" pg:",array"`
	TotalDiscountGiven   int64        `json:"total_discount_given" sql:"type:,notnull"`
	TotalOrdersAffected  int64        `json:"total_orders_affected" sql:"type:,notnull"`
}

// IsValid reports whether the coupon can be applied at all right now
func (coupon Coupon) IsValid(now time.Time) bool {
	if !coupon.IsActive {
		return false
	}
	if now.Before(coupon.ValidFrom) || now.After(coupon.ValidUntil) {
		return false
	}
	if coupon.UsageLimit != nil && coupon.UsedCount >= *coupon.UsageLimit {
		return false
	}
	return true
}

// CanBeUsedBy layers the per-user and per-order gates on top of IsValid
func (coupon Coupon) CanBeUsedBy(userID int64, orderAmount int64, items []OrderItem, now time.Time) bool {
	if !coupon.IsValid(now) {
		return false
	}
	if len(coupon.AllowedUserIDs) > 0 && !containsID(coupon.AllowedUserIDs, userID) {
		return false
	}
	if orderAmount < coupon.MinOrderAmount {
		return false
	}

	var totalQuantity int64
	for _, item := range items {
		totalQuantity += item.Quantity
	}
	if totalQuantity < coupon.MinQuantity {
		return false
	}

	if len(coupon.ApplicableProductIDs) > 0 {
		applicable := false
		for _, item := range items {
			if containsID(coupon.ApplicableProductIDs, item.ProductID) {
				applicable = true
				break
			}
		}
		if !applicable {
			return false
		}
	}
	for _, item := range items {
		if containsID(coupon.ExcludedProductIDs, item.ProductID) {
			return false
		}
	}

	return true
}

// ComputeDiscount returns the discount amount for the order. Free shipping
// discounts nothing here; the shipping charge is zeroed separately.
func (coupon Coupon) ComputeDiscount(orderAmount int64, items []OrderItem) int64 {
	switch coupon.DiscountType {
	case DiscountPercentage:
		return orderAmount * coupon.DiscountValue / 100
	case DiscountFixedAmount:
		if coupon.DiscountValue > orderAmount {
			return orderAmount
		}
		return coupon.DiscountValue
	case DiscountFreeShipping:
		return 0
	}
	return 0
}

// CouponByCode finds a coupon by its code
func (c *Client) CouponByCode(code string) (*Coupon, error) {
	coupon := new(Coupon)
	err := c.Model(coupon).
		Where("LOWER(code) = LOWER(?)", code).
		Where("deleted_at IS NULL").
		First()
	if err == pg.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return coupon, nil
}

func couponByCodeInTx(tx *pg.Tx, code string) (*Coupon, error) {
	coupon := new(Coupon)
	err := tx.Model(coupon).
		Where("LOWER(code) = LOWER(?)", code).
		Where("deleted_at IS NULL").
		For("UPDATE").
		First()
	if err == pg.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return coupon, nil
}

// recordCouponUsageInTx bumps the usage counters inside the order-creation
// transaction. The usage_limit predicate makes the final slot race-safe.
func recordCouponUsageInTx(tx *pg.Tx, couponID int64, discount int64) error {
	result, err := tx.Model((*Coupon)(nil)).
		Where("id = ?", couponID).
		Where("usage_limit IS NULL OR used_count < usage_limit").
		Set("used_count = used_count + 1").
		Set("total_discount_given = total_discount_given + ?", discount).
		Set("total_orders_affected = total_orders_affected + 1").
		Update()
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrAlreadyProcessed
	}
	return nil
}

func containsID(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
