package enums

import "fmt"

// CampaignType selects the trade-marketing campaign template.
type CampaignType string

const (
	CampaignTypeTradePromotion  CampaignType = "trade_promotion"
	CampaignTypeCoopAdvertising CampaignType = "co_op_advertising"
	CampaignTypeMerchandising   CampaignType = "merchandising"
	CampaignTypeTradeShow       CampaignType = "trade_show"
)

var validCampaignTypes = []CampaignType{
	CampaignTypeTradePromotion,
	CampaignTypeCoopAdvertising,
	CampaignTypeMerchandising,
	CampaignTypeTradeShow,
}

var campaignCodePrefixes = map[CampaignType]string{
	CampaignTypeTradePromotion:  "TP",
	CampaignTypeCoopAdvertising: "CA",
	CampaignTypeMerchandising:   "MD",
	CampaignTypeTradeShow:       "TS",
}

// Each campaign type walks a fixed, linear stage list. Only the first stage is
// created at campaign setup; AdvanceWorkflow moves through the rest.
var campaignWorkflowStages = map[CampaignType][]string{
	CampaignTypeTradePromotion:  {"planning", "approval", "execution", "monitoring", "evaluation"},
	CampaignTypeCoopAdvertising: {"partner_agreement", "creative_development", "media_booking", "execution", "reporting"},
	CampaignTypeMerchandising:   {"planning", "material_production", "distribution", "installation", "monitoring"},
	CampaignTypeTradeShow:       {"registration", "preparation", "execution", "follow_up", "analysis"},
}

// String implements fmt.Stringer.
func (t CampaignType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known CampaignType.
func (t CampaignType) IsValid() bool {
	for _, candidate := range validCampaignTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// CodePrefix returns the prefix used when generating campaign codes for this type.
func (t CampaignType) CodePrefix() string {
	if prefix, ok := campaignCodePrefixes[t]; ok {
		return prefix
	}
	return "TM"
}

// WorkflowStages returns the ordered stage names for this campaign type.
func (t CampaignType) WorkflowStages() []string {
	if stages, ok := campaignWorkflowStages[t]; ok {
		return stages
	}
	return []string{"planning", "execution", "evaluation"}
}

// ParseCampaignType converts raw input into a CampaignType.
func ParseCampaignType(value string) (CampaignType, error) {
	for _, candidate := range validCampaignTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid campaign type %q", value)
}

// CampaignStatus tracks a campaign through its lifecycle.
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusCompleted CampaignStatus = "completed"
	CampaignStatusCancelled CampaignStatus = "cancelled"
)

var validCampaignStatuses = []CampaignStatus{
	CampaignStatusDraft,
	CampaignStatusActive,
	CampaignStatusCompleted,
	CampaignStatusCancelled,
}

// String implements fmt.Stringer.
func (s CampaignStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CampaignStatus.
func (s CampaignStatus) IsValid() bool {
	for _, candidate := range validCampaignStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ApprovalStatus tracks spend ledger entries through approval.
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

var validApprovalStatuses = []ApprovalStatus{
	ApprovalStatusPending,
	ApprovalStatusApproved,
	ApprovalStatusRejected,
}

// String implements fmt.Stringer.
func (s ApprovalStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ApprovalStatus.
func (s ApprovalStatus) IsValid() bool {
	for _, candidate := range validApprovalStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ActivityStatus tracks individual campaign activities.
type ActivityStatus string

const (
	ActivityStatusPlanned    ActivityStatus = "planned"
	ActivityStatusInProgress ActivityStatus = "in_progress"
	ActivityStatusCompleted  ActivityStatus = "completed"
	ActivityStatusCancelled  ActivityStatus = "cancelled"
)

var validActivityStatuses = []ActivityStatus{
	ActivityStatusPlanned,
	ActivityStatusInProgress,
	ActivityStatusCompleted,
	ActivityStatusCancelled,
}

// String implements fmt.Stringer.
func (s ActivityStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ActivityStatus.
func (s ActivityStatus) IsValid() bool {
	for _, candidate := range validActivityStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// WorkflowStageStatus tracks the state of a campaign workflow stage row.
type WorkflowStageStatus string

const (
	WorkflowStageInProgress WorkflowStageStatus = "in_progress"
	WorkflowStageCompleted  WorkflowStageStatus = "completed"
)

// String implements fmt.Stringer.
func (s WorkflowStageStatus) String() string {
	return string(s)
}
