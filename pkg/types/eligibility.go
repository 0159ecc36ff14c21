package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// EligibilityCriteria gates whether a promotion applies to a given order. Empty
// fields mean the corresponding check is skipped.
type EligibilityCriteria struct {
	CustomerSegments   []string         `json:"customer_segments,omitempty"`
	MinOrderValue      *decimal.Decimal `json:"min_order_value,omitempty"`
	MaxUsesPerCustomer *int             `json:"max_uses_per_customer,omitempty"`
}

// Value implements driver.Valuer, serializing the criteria as JSONB.
func (e EligibilityCriteria) Value() (driver.Value, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal eligibility criteria: %w", err)
	}
	return string(payload), nil
}

// Scan implements sql.Scanner for the jsonb column.
func (e *EligibilityCriteria) Scan(src any) error {
	if src == nil {
		*e = EligibilityCriteria{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, e)
	case string:
		return json.Unmarshal([]byte(v), e)
	default:
		return fmt.Errorf("EligibilityCriteria: unsupported Scan type %T", src)
	}
}
