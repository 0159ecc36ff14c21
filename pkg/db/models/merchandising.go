package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MerchandisingDetail carries the in-store display specifics of a campaign.
type MerchandisingDetail struct {
	ID                       uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CampaignID               uuid.UUID       `gorm:"column:campaign_id;type:uuid;not null;uniqueIndex"`
	DisplayType              string          `gorm:"column:display_type;not null"`
	MaterialRequirements     json.RawMessage `gorm:"column:material_requirements;type:jsonb"`
	InstallationInstructions *string         `gorm:"column:installation_instructions"`
	StoreLocations           json.RawMessage `gorm:"column:store_locations;type:jsonb"`
	ExecutionTimeline        json.RawMessage `gorm:"column:execution_timeline;type:jsonb"`
	ComplianceRequirements   json.RawMessage `gorm:"column:compliance_requirements;type:jsonb"`
	PerformanceTracking      json.RawMessage `gorm:"column:performance_tracking;type:jsonb"`
	CreatedBy                uuid.UUID       `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt                time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (MerchandisingDetail) TableName() string { return "merchandising_campaigns" }

// StoreExecution records the rollout of a merchandising campaign in one store.
type StoreExecution struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CampaignID         uuid.UUID       `gorm:"column:campaign_id;type:uuid;not null;index"`
	StoreID            uuid.UUID       `gorm:"column:store_id;type:uuid;not null"`
	ExecutionDate      time.Time       `gorm:"column:execution_date;type:date;not null"`
	ExecutionStatus    string          `gorm:"column:execution_status;not null;default:planned"`
	MaterialsUsed      json.RawMessage `gorm:"column:materials_used;type:jsonb"`
	InstallationPhotos json.RawMessage `gorm:"column:installation_photos;type:jsonb"`
	ComplianceScore    decimal.Decimal `gorm:"column:compliance_score;type:numeric(5,2);not null;default:0"`
	ExecutionNotes     *string         `gorm:"column:execution_notes"`
	ExecutedBy         *uuid.UUID      `gorm:"column:executed_by;type:uuid"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (StoreExecution) TableName() string { return "store_executions" }
