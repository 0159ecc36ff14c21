package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer is the slice of the customer record the promotion and campaign
// services read. The master record is owned by another service.
type Customer struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerName    string    `gorm:"column:customer_name;not null"`
	CustomerSegment string    `gorm:"column:customer_segment;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Customer) TableName() string { return "customers" }

// Order is the slice of the order record used for revenue attribution.
type Order struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID  uuid.UUID       `gorm:"column:customer_id;type:uuid;not null;index"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:numeric(14,2);not null"`
	OrderDate   time.Time       `gorm:"column:order_date;not null;index"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (Order) TableName() string { return "orders" }

// OrderCampaignAttribution links an order to the campaign credited for it.
type OrderCampaignAttribution struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	CampaignID   uuid.UUID `gorm:"column:campaign_id;type:uuid;not null;index"`
	AttributedAt time.Time `gorm:"column:attributed_at;autoCreateTime"`
}

func (OrderCampaignAttribution) TableName() string { return "order_campaign_attribution" }

// Brand is the slice of the brand master used on campaign dashboards.
type Brand struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Brand) TableName() string { return "brands" }

// User is the slice of the user master used to resolve manager names.
type User struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	FirstName string    `gorm:"column:first_name;not null"`
	LastName  string    `gorm:"column:last_name;not null"`
	Email     string    `gorm:"column:email;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (User) TableName() string { return "users" }
