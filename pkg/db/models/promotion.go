package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/Reshigan/SalesSync-sub013/pkg/db/types"
	"github.com/Reshigan/SalesSync-sub013/pkg/enums"
	"github.com/Reshigan/SalesSync-sub013/pkg/types"
)

// Promotion is the canonical promotion record. Discount configuration and
// eligibility gates live in jsonb columns typed as unions on the Go side.
type Promotion struct {
	ID                  uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PromotionCode       string                    `gorm:"column:promotion_code;not null;uniqueIndex"`
	PromotionName       string                    `gorm:"column:promotion_name;not null"`
	PromotionType       enums.PromotionType       `gorm:"column:promotion_type;not null"`
	Description         *string                   `gorm:"column:description"`
	StartDate           time.Time                 `gorm:"column:start_date;type:date;not null"`
	EndDate             time.Time                 `gorm:"column:end_date;type:date;not null"`
	Status              enums.PromotionStatus     `gorm:"column:status;not null;default:draft"`
	Priority            int                       `gorm:"column:priority;not null;default:1"`
	BudgetAllocated     decimal.Decimal           `gorm:"column:budget_allocated;type:numeric(14,2);not null;default:0"`
	UsageLimit          *int                      `gorm:"column:usage_limit"`
	UsageCount          int                       `gorm:"column:usage_count;not null;default:0"`
	DiscountRules       types.DiscountRules       `gorm:"column:discount_rules;type:jsonb;not null"`
	EligibilityCriteria types.EligibilityCriteria `gorm:"column:eligibility_criteria;type:jsonb;not null"`
	TargetProducts      dbtypes.UUIDArray         `gorm:"column:target_products;type:uuid[];not null;default:'{}'"`
	TargetCustomers     dbtypes.UUIDArray         `gorm:"column:target_customers;type:uuid[];not null;default:'{}'"`
	CreatedBy           uuid.UUID                 `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt           time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}

func (Promotion) TableName() string { return "promotions" }

// PromotionRule is an auxiliary condition/action pair attached to a promotion.
type PromotionRule struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PromotionID uuid.UUID       `gorm:"column:promotion_id;type:uuid;not null;index"`
	RuleName    string          `gorm:"column:rule_name;not null"`
	RuleType    string          `gorm:"column:rule_type;not null"`
	Conditions  json.RawMessage `gorm:"column:conditions;type:jsonb"`
	Actions     json.RawMessage `gorm:"column:actions;type:jsonb"`
	Priority    int             `gorm:"column:priority;not null;default:1"`
	IsActive    bool            `gorm:"column:is_active;not null;default:true"`
	CreatedBy   uuid.UUID       `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (PromotionRule) TableName() string { return "promotion_rules" }

// PromotionABTestVariant holds one arm of a promotion experiment.
type PromotionABTestVariant struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PromotionID       uuid.UUID       `gorm:"column:promotion_id;type:uuid;not null;index"`
	VariantName       string          `gorm:"column:variant_name;not null"`
	VariantConfig     json.RawMessage `gorm:"column:variant_config;type:jsonb"`
	TrafficAllocation decimal.Decimal `gorm:"column:traffic_allocation;type:numeric(5,2);not null"`
	ConversionRate    decimal.Decimal `gorm:"column:conversion_rate;type:numeric(7,4);not null;default:0"`
	RevenueImpact     decimal.Decimal `gorm:"column:revenue_impact;type:numeric(14,2);not null;default:0"`
	IsActive          bool            `gorm:"column:is_active;not null;default:true"`
	CreatedBy         uuid.UUID       `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (PromotionABTestVariant) TableName() string { return "promotion_ab_test_variants" }

// PromotionTrigger is an automated activation rule for a promotion.
type PromotionTrigger struct {
	ID                uuid.UUID                  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PromotionID       uuid.UUID                  `gorm:"column:promotion_id;type:uuid;not null;index"`
	TriggerType       enums.PromotionTriggerType `gorm:"column:trigger_type;not null"`
	TriggerConditions json.RawMessage            `gorm:"column:trigger_conditions;type:jsonb"`
	TriggerActions    json.RawMessage            `gorm:"column:trigger_actions;type:jsonb"`
	IsActive          bool                       `gorm:"column:is_active;not null;default:true"`
	CreatedBy         uuid.UUID                  `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt         time.Time                  `gorm:"column:created_at;autoCreateTime"`
}

func (PromotionTrigger) TableName() string { return "promotion_triggers" }

// PromotionUsageLog records each successful application of a promotion. It is
// the source for per-customer caps and analytics.
type PromotionUsageLog struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PromotionID       uuid.UUID       `gorm:"column:promotion_id;type:uuid;not null;index"`
	CustomerID        uuid.UUID       `gorm:"column:customer_id;type:uuid;not null;index"`
	DiscountAmount    decimal.Decimal `gorm:"column:discount_amount;type:numeric(14,2);not null"`
	DiscountBreakdown json.RawMessage `gorm:"column:discount_breakdown;type:jsonb"`
	UsedAt            time.Time       `gorm:"column:used_at;not null"`
}

func (PromotionUsageLog) TableName() string { return "promotion_usage_log" }
