package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/Reshigan/SalesSync-sub013/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// TierValueType discriminates how a tier or bundle discount value is applied.
type TierValueType string

const (
	TierValuePercentage TierValueType = "percentage"
	TierValueFixed      TierValueType = "fixed"
)

// PercentageDiscountRules configures a percentage_discount promotion.
type PercentageDiscountRules struct {
	DiscountPercentage decimal.Decimal  `json:"discount_percentage"`
	MaxDiscountAmount  *decimal.Decimal `json:"max_discount_amount,omitempty"`
}

// FixedDiscountRules configures a fixed_discount promotion.
type FixedDiscountRules struct {
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

// BuyXGetYRules configures a buy_x_get_y promotion. When ApplicableProducts is
// non-empty, line items outside the allowlist are skipped.
type BuyXGetYRules struct {
	BuyQuantity        int         `json:"buy_quantity"`
	GetQuantity        int         `json:"get_quantity"`
	MaxFreeItems       *int        `json:"max_free_items,omitempty"`
	ApplicableProducts []uuid.UUID `json:"applicable_products,omitempty"`
}

// DiscountTier is one rung of a tiered_discount ladder.
type DiscountTier struct {
	MinQuantity   int              `json:"min_quantity"`
	DiscountType  TierValueType    `json:"discount_type"`
	DiscountValue decimal.Decimal  `json:"discount_value"`
	MaxDiscount   *decimal.Decimal `json:"max_discount,omitempty"`
}

// TieredDiscountRules configures a tiered_discount promotion.
type TieredDiscountRules struct {
	Tiers []DiscountTier `json:"tier_rules"`
}

// BundleValue is the discount applied when a bundle matches.
type BundleValue struct {
	Type  TierValueType   `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// BundleDiscountRules configures a bundle_discount promotion. The discount only
// triggers when every bundle product is present in the order.
type BundleDiscountRules struct {
	BundleProducts []uuid.UUID `json:"bundle_products"`
	Discount       BundleValue `json:"bundle_discount"`
}

// DiscountRules is the tagged union of per-type promotion configuration. Exactly
// one variant must be set, and it must match the promotion's type.
type DiscountRules struct {
	Percentage *PercentageDiscountRules `json:"percentage_discount,omitempty"`
	Fixed      *FixedDiscountRules      `json:"fixed_discount,omitempty"`
	BuyXGetY   *BuyXGetYRules           `json:"buy_x_get_y,omitempty"`
	Tiered     *TieredDiscountRules     `json:"tiered_discount,omitempty"`
	Bundle     *BundleDiscountRules     `json:"bundle_discount,omitempty"`
}

// Validate checks the union against the declared promotion type.
func (r DiscountRules) Validate(promotionType enums.PromotionType) error {
	var err error

	if set := r.variantCount(); set != 1 {
		return fmt.Errorf("discount_rules must carry exactly one variant, got %d", set)
	}

	switch promotionType {
	case enums.PromotionTypePercentageDiscount:
		if r.Percentage == nil {
			return fmt.Errorf("discount_rules variant does not match promotion type %s", promotionType)
		}
		if r.Percentage.DiscountPercentage.LessThanOrEqual(decimal.Zero) {
			err = multierr.Append(err, fmt.Errorf("discount_percentage must be positive"))
		}
		if r.Percentage.DiscountPercentage.GreaterThan(decimal.NewFromInt(100)) {
			err = multierr.Append(err, fmt.Errorf("discount_percentage cannot exceed 100"))
		}
		if r.Percentage.MaxDiscountAmount != nil && r.Percentage.MaxDiscountAmount.LessThanOrEqual(decimal.Zero) {
			err = multierr.Append(err, fmt.Errorf("max_discount_amount must be positive"))
		}
	case enums.PromotionTypeFixedDiscount:
		if r.Fixed == nil {
			return fmt.Errorf("discount_rules variant does not match promotion type %s", promotionType)
		}
		if r.Fixed.DiscountAmount.LessThanOrEqual(decimal.Zero) {
			err = multierr.Append(err, fmt.Errorf("discount_amount must be positive"))
		}
	case enums.PromotionTypeBuyXGetY:
		if r.BuyXGetY == nil {
			return fmt.Errorf("discount_rules variant does not match promotion type %s", promotionType)
		}
		if r.BuyXGetY.BuyQuantity < 1 {
			err = multierr.Append(err, fmt.Errorf("buy_quantity must be at least 1"))
		}
		if r.BuyXGetY.GetQuantity < 1 {
			err = multierr.Append(err, fmt.Errorf("get_quantity must be at least 1"))
		}
		if r.BuyXGetY.MaxFreeItems != nil && *r.BuyXGetY.MaxFreeItems < 1 {
			err = multierr.Append(err, fmt.Errorf("max_free_items must be at least 1"))
		}
	case enums.PromotionTypeTieredDiscount:
		if r.Tiered == nil {
			return fmt.Errorf("discount_rules variant does not match promotion type %s", promotionType)
		}
		if len(r.Tiered.Tiers) == 0 {
			err = multierr.Append(err, fmt.Errorf("tier_rules must contain at least one tier"))
		}
		for i, tier := range r.Tiered.Tiers {
			if tier.MinQuantity < 1 {
				err = multierr.Append(err, fmt.Errorf("tier %d: min_quantity must be at least 1", i))
			}
			if tier.DiscountType != TierValuePercentage && tier.DiscountType != TierValueFixed {
				err = multierr.Append(err, fmt.Errorf("tier %d: invalid discount_type %q", i, tier.DiscountType))
			}
			if tier.DiscountValue.LessThanOrEqual(decimal.Zero) {
				err = multierr.Append(err, fmt.Errorf("tier %d: discount_value must be positive", i))
			}
		}
	case enums.PromotionTypeBundleDiscount:
		if r.Bundle == nil {
			return fmt.Errorf("discount_rules variant does not match promotion type %s", promotionType)
		}
		if len(r.Bundle.BundleProducts) == 0 {
			err = multierr.Append(err, fmt.Errorf("bundle_products must contain at least one product"))
		}
		if r.Bundle.Discount.Type != TierValuePercentage && r.Bundle.Discount.Type != TierValueFixed {
			err = multierr.Append(err, fmt.Errorf("invalid bundle discount type %q", r.Bundle.Discount.Type))
		}
		if r.Bundle.Discount.Value.LessThanOrEqual(decimal.Zero) {
			err = multierr.Append(err, fmt.Errorf("bundle discount value must be positive"))
		}
	default:
		return fmt.Errorf("unknown promotion type %q", promotionType)
	}

	return err
}

func (r DiscountRules) variantCount() int {
	count := 0
	if r.Percentage != nil {
		count++
	}
	if r.Fixed != nil {
		count++
	}
	if r.BuyXGetY != nil {
		count++
	}
	if r.Tiered != nil {
		count++
	}
	if r.Bundle != nil {
		count++
	}
	return count
}

// Value implements driver.Valuer, serializing the union as JSONB.
func (r DiscountRules) Value() (driver.Value, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal discount rules: %w", err)
	}
	return string(payload), nil
}

// Scan implements sql.Scanner for the jsonb column.
func (r *DiscountRules) Scan(src any) error {
	if src == nil {
		*r = DiscountRules{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	default:
		return fmt.Errorf("DiscountRules: unsupported Scan type %T", src)
	}
}
