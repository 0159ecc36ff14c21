package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CoopCampaignDetail carries the co-op advertising specifics of a campaign.
type CoopCampaignDetail struct {
	ID                         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CampaignID                 uuid.UUID       `gorm:"column:campaign_id;type:uuid;not null;uniqueIndex"`
	PartnerID                  uuid.UUID       `gorm:"column:partner_id;type:uuid;not null"`
	PartnerContributionPercent decimal.Decimal `gorm:"column:partner_contribution_percent;type:numeric(5,2);not null"`
	PartnerContributionAmount  decimal.Decimal `gorm:"column:partner_contribution_amount;type:numeric(14,2);not null"`
	MediaChannels              json.RawMessage `gorm:"column:media_channels;type:jsonb"`
	CreativeAssets             json.RawMessage `gorm:"column:creative_assets;type:jsonb"`
	ApprovalWorkflow           json.RawMessage `gorm:"column:approval_workflow;type:jsonb"`
	PerformanceMetrics         json.RawMessage `gorm:"column:performance_metrics;type:jsonb"`
	CreatedBy                  uuid.UUID       `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt                  time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (CoopCampaignDetail) TableName() string { return "coop_advertising_campaigns" }

// MediaBooking is a reserved media slot belonging to a co-op campaign.
type MediaBooking struct {
	ID                     uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CampaignID             uuid.UUID       `gorm:"column:campaign_id;type:uuid;not null;index"`
	MediaType              string          `gorm:"column:media_type;not null"`
	MediaChannel           string          `gorm:"column:media_channel;not null"`
	BookingDate            time.Time       `gorm:"column:booking_date;type:date;not null"`
	StartDate              time.Time       `gorm:"column:start_date;type:date;not null"`
	EndDate                time.Time       `gorm:"column:end_date;type:date;not null"`
	Cost                   decimal.Decimal `gorm:"column:cost;type:numeric(14,2);not null"`
	ImpressionsTarget      *int64          `gorm:"column:impressions_target"`
	ReachTarget            *int64          `gorm:"column:reach_target"`
	FrequencyTarget        *float64        `gorm:"column:frequency_target;type:numeric(7,2)"`
	CreativeSpecifications json.RawMessage `gorm:"column:creative_specifications;type:jsonb"`
	BookingStatus          string          `gorm:"column:booking_status;not null;default:booked"`
	CreatedBy              uuid.UUID       `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt              time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (MediaBooking) TableName() string { return "media_bookings" }
