package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/Reshigan/SalesSync-sub013/pkg/enums"
)

// Campaign is a trade marketing campaign of any type. Type-specific details
// hang off CoopCampaignDetail and MerchandisingDetail.
type Campaign struct {
	ID                uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CampaignCode      string               `gorm:"column:campaign_code;not null;uniqueIndex"`
	CampaignName      string               `gorm:"column:campaign_name;not null"`
	CampaignType      enums.CampaignType   `gorm:"column:campaign_type;not null"`
	Description       *string              `gorm:"column:description"`
	StartDate         time.Time            `gorm:"column:start_date;type:date;not null"`
	EndDate           time.Time            `gorm:"column:end_date;type:date;not null"`
	Status            enums.CampaignStatus `gorm:"column:status;not null;default:draft"`
	BudgetAllocated   decimal.Decimal      `gorm:"column:budget_allocated;type:numeric(14,2);not null"`
	BudgetSpent       decimal.Decimal      `gorm:"column:budget_spent;type:numeric(14,2);not null;default:0"`
	TargetAudience    json.RawMessage      `gorm:"column:target_audience;type:jsonb"`
	Objectives        pq.StringArray       `gorm:"column:objectives;type:text[];not null;default:'{}'"`
	SuccessMetrics    json.RawMessage      `gorm:"column:success_metrics;type:jsonb"`
	BrandID           uuid.UUID            `gorm:"column:brand_id;type:uuid;not null"`
	CampaignManagerID uuid.UUID            `gorm:"column:campaign_manager_id;type:uuid;not null"`
	ApprovalRequired  bool                 `gorm:"column:approval_required;not null;default:true"`
	CreatedBy         uuid.UUID            `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt         time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (Campaign) TableName() string { return "trade_marketing_campaigns" }

// CampaignActivity is one unit of work inside a campaign plan.
type CampaignActivity struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CampaignID      uuid.UUID            `gorm:"column:campaign_id;type:uuid;not null;index"`
	ActivityName    string               `gorm:"column:activity_name;not null"`
	ActivityType    string               `gorm:"column:activity_type;not null"`
	Description     *string              `gorm:"column:description"`
	StartDate       time.Time            `gorm:"column:start_date;type:date;not null"`
	EndDate         time.Time            `gorm:"column:end_date;type:date;not null"`
	BudgetAllocated decimal.Decimal      `gorm:"column:budget_allocated;type:numeric(14,2);not null;default:0"`
	Status          enums.ActivityStatus `gorm:"column:status;not null;default:planned"`
	AssignedTo      *uuid.UUID           `gorm:"column:assigned_to;type:uuid"`
	Deliverables    json.RawMessage      `gorm:"column:deliverables;type:jsonb"`
	SuccessCriteria json.RawMessage      `gorm:"column:success_criteria;type:jsonb"`
	CreatedBy       uuid.UUID            `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
}

func (CampaignActivity) TableName() string { return "campaign_activities" }

// CampaignBudgetAllocation is a per-category envelope within a campaign
// budget. SpentAmount only moves through the conditional debit in the repo, so
// spent never exceeds allocated.
type CampaignBudgetAllocation struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CampaignID       uuid.UUID       `gorm:"column:campaign_id;type:uuid;not null;index:idx_budget_campaign_category,unique"`
	Category         string          `gorm:"column:category;not null;index:idx_budget_campaign_category,unique"`
	AllocatedAmount  decimal.Decimal `gorm:"column:allocated_amount;type:numeric(14,2);not null"`
	SpentAmount      decimal.Decimal `gorm:"column:spent_amount;type:numeric(14,2);not null;default:0"`
	Description      *string         `gorm:"column:description"`
	ApprovalRequired bool            `gorm:"column:approval_required;not null;default:false"`
	CreatedBy        uuid.UUID       `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (CampaignBudgetAllocation) TableName() string { return "campaign_budget_allocations" }

// TradeSpend is one ledger entry of trade spend against a campaign category.
type TradeSpend struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CampaignID     uuid.UUID            `gorm:"column:campaign_id;type:uuid;not null;index"`
	ActivityID     *uuid.UUID           `gorm:"column:activity_id;type:uuid"`
	Category       string               `gorm:"column:category;not null"`
	Subcategory    *string              `gorm:"column:subcategory"`
	Amount         decimal.Decimal      `gorm:"column:amount;type:numeric(14,2);not null"`
	Currency       string               `gorm:"column:currency;not null;default:ZAR"`
	SpendDate      time.Time            `gorm:"column:spend_date;not null"`
	VendorName     string               `gorm:"column:vendor_name;not null"`
	InvoiceNumber  *string              `gorm:"column:invoice_number"`
	Description    string               `gorm:"column:description;not null"`
	ApprovalStatus enums.ApprovalStatus `gorm:"column:approval_status;not null;default:pending"`
	ApprovedBy     *uuid.UUID           `gorm:"column:approved_by;type:uuid"`
	ApprovedAt     *time.Time           `gorm:"column:approved_at"`
	CreatedBy      uuid.UUID            `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
}

func (TradeSpend) TableName() string { return "trade_spend_tracking" }

// CampaignWorkflowState is one row per stage a campaign has entered.
type CampaignWorkflowState struct {
	ID            uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CampaignID    uuid.UUID                 `gorm:"column:campaign_id;type:uuid;not null;index"`
	WorkflowStage string                    `gorm:"column:workflow_stage;not null"`
	StageStatus   enums.WorkflowStageStatus `gorm:"column:stage_status;not null"`
	EnteredAt     time.Time                 `gorm:"column:entered_at;not null"`
	CompletedAt   *time.Time                `gorm:"column:completed_at"`
	CreatedAt     time.Time                 `gorm:"column:created_at;autoCreateTime"`
}

func (CampaignWorkflowState) TableName() string { return "campaign_workflow_states" }

// CampaignPartnerAssociation links an external partner to a campaign.
type CampaignPartnerAssociation struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CampaignID      uuid.UUID `gorm:"column:campaign_id;type:uuid;not null;index"`
	PartnerID       uuid.UUID `gorm:"column:partner_id;type:uuid;not null"`
	AssociationType string    `gorm:"column:association_type;not null;default:primary"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (CampaignPartnerAssociation) TableName() string { return "campaign_partner_associations" }
