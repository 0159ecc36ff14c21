package trademarketing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Reshigan/SalesSync-sub013/pkg/db/models"
)

// Repository exposes campaign persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a campaign repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CampaignDetails is a campaign joined with its display names.
type CampaignDetails struct {
	models.Campaign
	BrandName   string `json:"brand_name"`
	ManagerName string `json:"manager_name"`
}

// BudgetStatus reports one category envelope of a campaign budget.
type BudgetStatus struct {
	Category           string          `json:"category"`
	AllocatedAmount    decimal.Decimal `json:"allocated_amount"`
	SpentAmount        decimal.Decimal `json:"spent_amount"`
	UtilizationPercent decimal.Decimal `json:"utilization_percent"`
}

// ActivityStatusCount is the activity rollup for a campaign.
type ActivityStatusCount struct {
	Status      string          `json:"status"`
	Count       int64           `json:"count"`
	TotalBudget decimal.Decimal `json:"total_budget"`
}

// RevenueAttribution aggregates orders credited to a campaign.
type RevenueAttribution struct {
	TotalRevenue      decimal.Decimal
	OrdersAttributed  int64
	CustomersReached  int64
	AverageOrderValue decimal.Decimal
}

// CampaignGraph bundles a campaign with the child rows created alongside it.
type CampaignGraph struct {
	Campaign    *models.Campaign
	Activities  []models.CampaignActivity
	Allocations []models.CampaignBudgetAllocation
	Workflow    *models.CampaignWorkflowState
	Partners    []models.CampaignPartnerAssociation
}

// CreateCampaign inserts a campaign with its activities, budget envelopes,
// initial workflow state, and partner associations in one transaction.
func (r *Repository) CreateCampaign(ctx context.Context, graph CampaignGraph) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return createCampaignGraph(tx, graph)
	})
}

// CreateCoopCampaign inserts the campaign graph together with its co-op
// detail row and media bookings. A failure anywhere rolls back the whole
// creation so no campaign can exist without its co-op record.
func (r *Repository) CreateCoopCampaign(ctx context.Context, graph CampaignGraph, detail *models.CoopCampaignDetail, bookings []models.MediaBooking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := createCampaignGraph(tx, graph); err != nil {
			return err
		}
		detail.CampaignID = graph.Campaign.ID
		if err := tx.Create(detail).Error; err != nil {
			return err
		}
		for i := range bookings {
			bookings[i].CampaignID = graph.Campaign.ID
		}
		if len(bookings) > 0 {
			if err := tx.Create(&bookings).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// CreateMerchandisingCampaign inserts the campaign graph together with its
// merchandising detail row and store executions in one transaction.
func (r *Repository) CreateMerchandisingCampaign(ctx context.Context, graph CampaignGraph, detail *models.MerchandisingDetail, executions []models.StoreExecution) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := createCampaignGraph(tx, graph); err != nil {
			return err
		}
		detail.CampaignID = graph.Campaign.ID
		if err := tx.Create(detail).Error; err != nil {
			return err
		}
		for i := range executions {
			executions[i].CampaignID = graph.Campaign.ID
		}
		if len(executions) > 0 {
			if err := tx.Create(&executions).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func createCampaignGraph(tx *gorm.DB, graph CampaignGraph) error {
	if err := tx.Create(graph.Campaign).Error; err != nil {
		return err
	}
	for i := range graph.Activities {
		graph.Activities[i].CampaignID = graph.Campaign.ID
	}
	if len(graph.Activities) > 0 {
		if err := tx.Create(&graph.Activities).Error; err != nil {
			return err
		}
	}
	for i := range graph.Allocations {
		graph.Allocations[i].CampaignID = graph.Campaign.ID
	}
	if len(graph.Allocations) > 0 {
		if err := tx.Create(&graph.Allocations).Error; err != nil {
			return err
		}
	}
	if graph.Workflow != nil {
		graph.Workflow.CampaignID = graph.Campaign.ID
		if err := tx.Create(graph.Workflow).Error; err != nil {
			return err
		}
	}
	for i := range graph.Partners {
		graph.Partners[i].CampaignID = graph.Campaign.ID
	}
	if len(graph.Partners) > 0 {
		if err := tx.Create(&graph.Partners).Error; err != nil {
			return err
		}
	}
	return nil
}

// FindCampaignByID returns a single campaign.
func (r *Repository) FindCampaignByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := r.db.WithContext(ctx).First(&campaign, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

// CampaignDetails resolves a campaign together with its brand and manager names.
func (r *Repository) CampaignDetails(ctx context.Context, id uuid.UUID) (*CampaignDetails, error) {
	campaign, err := r.FindCampaignByID(ctx, id)
	if err != nil {
		return nil, err
	}

	details := &CampaignDetails{Campaign: *campaign}

	var brand models.Brand
	if err := r.db.WithContext(ctx).First(&brand, "id = ?", campaign.BrandID).Error; err == nil {
		details.BrandName = brand.Name
	}

	var manager models.User
	if err := r.db.WithContext(ctx).First(&manager, "id = ?", campaign.CampaignManagerID).Error; err == nil {
		details.ManagerName = manager.FirstName + " " + manager.LastName
	}

	return details, nil
}

// BudgetAvailability returns the allocation for a campaign category. The
// boolean reports whether the category exists.
func (r *Repository) BudgetAvailability(ctx context.Context, campaignID uuid.UUID, category string) (*models.CampaignBudgetAllocation, bool, error) {
	var allocation models.CampaignBudgetAllocation
	err := r.db.WithContext(ctx).
		Where("campaign_id = ? AND category = ?", campaignID, category).
		First(&allocation).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &allocation, true, nil
}

// RecordSpend debits the category envelope and writes the ledger entry in one
// transaction. The debit carries its own availability condition, so two
// concurrent spends can never jointly overrun the envelope. Returns false when
// the remaining budget cannot cover the amount.
func (r *Repository) RecordSpend(ctx context.Context, spend *models.TradeSpend) (bool, error) {
	recorded := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CampaignBudgetAllocation{}).
			Where("campaign_id = ? AND category = ?", spend.CampaignID, spend.Category).
			Where("allocated_amount - spent_amount >= CAST(? AS NUMERIC)", spend.Amount).
			UpdateColumn("spent_amount", gorm.Expr("spent_amount + ?", spend.Amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		recorded = true

		if err := tx.Create(spend).Error; err != nil {
			return err
		}

		return tx.Model(&models.Campaign{}).
			Where("id = ?", spend.CampaignID).
			UpdateColumn("budget_spent", gorm.Expr("budget_spent + ?", spend.Amount)).Error
	})
	if err != nil {
		return false, err
	}
	return recorded, nil
}

// BudgetUtilization lists the category envelopes of a campaign, largest first.
func (r *Repository) BudgetUtilization(ctx context.Context, campaignID uuid.UUID) ([]BudgetStatus, error) {
	var allocations []models.CampaignBudgetAllocation
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("allocated_amount DESC").
		Find(&allocations).Error
	if err != nil {
		return nil, err
	}

	statuses := make([]BudgetStatus, len(allocations))
	for i, allocation := range allocations {
		status := BudgetStatus{
			Category:        allocation.Category,
			AllocatedAmount: allocation.AllocatedAmount,
			SpentAmount:     allocation.SpentAmount,
		}
		if allocation.AllocatedAmount.IsPositive() {
			status.UtilizationPercent = allocation.SpentAmount.
				Div(allocation.AllocatedAmount).
				Mul(decimal.NewFromInt(100)).
				Round(2)
		}
		statuses[i] = status
	}
	return statuses, nil
}

// ActivityStatusCounts rolls up campaign activities by status.
func (r *Repository) ActivityStatusCounts(ctx context.Context, campaignID uuid.UUID) ([]ActivityStatusCount, error) {
	var rows []ActivityStatusCount
	err := r.db.WithContext(ctx).Model(&models.CampaignActivity{}).
		Select(
			"status",
			"COUNT(*) AS count",
			"COALESCE(SUM(budget_allocated), 0) AS total_budget",
		).
		Where("campaign_id = ?", campaignID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// RecentSpend returns the latest ledger entries for a campaign.
func (r *Repository) RecentSpend(ctx context.Context, campaignID uuid.UUID, limit int) ([]models.TradeSpend, error) {
	var rows []models.TradeSpend
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("spend_date DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TotalApprovedSpend sums the approved ledger entries for a campaign.
func (r *Repository) TotalApprovedSpend(ctx context.Context, campaignID uuid.UUID) (decimal.Decimal, error) {
	var row struct {
		TotalSpend decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&models.TradeSpend{}).
		Select("COALESCE(SUM(amount), 0) AS total_spend").
		Where("campaign_id = ? AND approval_status = ?", campaignID, "approved").
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.TotalSpend, nil
}

// AttributedRevenue aggregates orders credited to a campaign.
func (r *Repository) AttributedRevenue(ctx context.Context, campaignID uuid.UUID) (*RevenueAttribution, error) {
	var row struct {
		TotalRevenue      decimal.Decimal
		OrdersAttributed  int64
		CustomersReached  int64
		AverageOrderValue decimal.Decimal
	}
	err := r.db.WithContext(ctx).Table("orders").
		Select(
			"COALESCE(SUM(orders.total_amount), 0) AS total_revenue",
			"COUNT(DISTINCT oca.order_id) AS orders_attributed",
			"COUNT(DISTINCT orders.customer_id) AS customers_reached",
			"COALESCE(AVG(orders.total_amount), 0) AS average_order_value",
		).
		Joins("JOIN order_campaign_attribution oca ON oca.order_id = orders.id").
		Where("oca.campaign_id = ?", campaignID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &RevenueAttribution{
		TotalRevenue:      row.TotalRevenue,
		OrdersAttributed:  row.OrdersAttributed,
		CustomersReached:  row.CustomersReached,
		AverageOrderValue: row.AverageOrderValue.Round(2),
	}, nil
}

// LatestWorkflowState returns the most recently entered stage of a campaign.
func (r *Repository) LatestWorkflowState(ctx context.Context, campaignID uuid.UUID) (*models.CampaignWorkflowState, error) {
	var state models.CampaignWorkflowState
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("entered_at DESC").
		First(&state).Error
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// AdvanceWorkflow completes the current stage and enters the next one in one
// transaction.
func (r *Repository) AdvanceWorkflow(ctx context.Context, currentID uuid.UUID, next *models.CampaignWorkflowState, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.CampaignWorkflowState{}).
			Where("id = ?", currentID).
			Updates(map[string]any{
				"stage_status": "completed",
				"completed_at": at,
			}).Error
		if err != nil {
			return err
		}
		return tx.Create(next).Error
	})
}
