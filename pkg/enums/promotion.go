package enums

import "fmt"

// PromotionType selects which discount calculation a promotion runs.
type PromotionType string

const (
	PromotionTypePercentageDiscount PromotionType = "percentage_discount"
	PromotionTypeFixedDiscount      PromotionType = "fixed_discount"
	PromotionTypeBuyXGetY           PromotionType = "buy_x_get_y"
	PromotionTypeTieredDiscount     PromotionType = "tiered_discount"
	PromotionTypeBundleDiscount     PromotionType = "bundle_discount"
)

var validPromotionTypes = []PromotionType{
	PromotionTypePercentageDiscount,
	PromotionTypeFixedDiscount,
	PromotionTypeBuyXGetY,
	PromotionTypeTieredDiscount,
	PromotionTypeBundleDiscount,
}

var promotionCodePrefixes = map[PromotionType]string{
	PromotionTypePercentageDiscount: "PCT",
	PromotionTypeFixedDiscount:      "FIX",
	PromotionTypeBuyXGetY:           "BXG",
	PromotionTypeTieredDiscount:     "TIR",
	PromotionTypeBundleDiscount:     "BND",
}

// String implements fmt.Stringer.
func (t PromotionType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known PromotionType.
func (t PromotionType) IsValid() bool {
	for _, candidate := range validPromotionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// CodePrefix returns the prefix used when generating promotion codes for this type.
func (t PromotionType) CodePrefix() string {
	if prefix, ok := promotionCodePrefixes[t]; ok {
		return prefix
	}
	return "PRM"
}

// ParsePromotionType converts raw input into a PromotionType.
func ParsePromotionType(value string) (PromotionType, error) {
	for _, candidate := range validPromotionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid promotion type %q", value)
}

// PromotionStatus tracks a promotion through its lifecycle.
type PromotionStatus string

const (
	PromotionStatusDraft    PromotionStatus = "draft"
	PromotionStatusActive   PromotionStatus = "active"
	PromotionStatusPaused   PromotionStatus = "paused"
	PromotionStatusExpired  PromotionStatus = "expired"
	PromotionStatusArchived PromotionStatus = "archived"
)

var validPromotionStatuses = []PromotionStatus{
	PromotionStatusDraft,
	PromotionStatusActive,
	PromotionStatusPaused,
	PromotionStatusExpired,
	PromotionStatusArchived,
}

// String implements fmt.Stringer.
func (s PromotionStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known PromotionStatus.
func (s PromotionStatus) IsValid() bool {
	for _, candidate := range validPromotionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParsePromotionStatus converts raw input into a PromotionStatus.
func ParsePromotionStatus(value string) (PromotionStatus, error) {
	for _, candidate := range validPromotionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid promotion status %q", value)
}

// PromotionTriggerType names the automation hooks a promotion can register.
type PromotionTriggerType string

const (
	PromotionTriggerManual             PromotionTriggerType = "manual"
	PromotionTriggerDateRange          PromotionTriggerType = "date_range"
	PromotionTriggerInventoryLevel     PromotionTriggerType = "inventory_level"
	PromotionTriggerCustomerSegment    PromotionTriggerType = "customer_segment"
	PromotionTriggerOrderValue         PromotionTriggerType = "order_value"
	PromotionTriggerProductPerformance PromotionTriggerType = "product_performance"
)

var validPromotionTriggerTypes = []PromotionTriggerType{
	PromotionTriggerManual,
	PromotionTriggerDateRange,
	PromotionTriggerInventoryLevel,
	PromotionTriggerCustomerSegment,
	PromotionTriggerOrderValue,
	PromotionTriggerProductPerformance,
}

// String implements fmt.Stringer.
func (t PromotionTriggerType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known PromotionTriggerType.
func (t PromotionTriggerType) IsValid() bool {
	for _, candidate := range validPromotionTriggerTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParsePromotionTriggerType converts raw input into a PromotionTriggerType.
func ParsePromotionTriggerType(value string) (PromotionTriggerType, error) {
	for _, candidate := range validPromotionTriggerTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid promotion trigger type %q", value)
}
