package trademarketing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Reshigan/SalesSync-sub013/pkg/db/models"
	"github.com/Reshigan/SalesSync-sub013/pkg/enums"
)

func setupCampaignTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS trade_marketing_campaigns (
  id TEXT PRIMARY KEY,
  campaign_code TEXT NOT NULL UNIQUE,
  campaign_name TEXT NOT NULL,
  campaign_type TEXT NOT NULL,
  description TEXT,
  start_date DATETIME NOT NULL,
  end_date DATETIME NOT NULL,
  status TEXT NOT NULL DEFAULT 'draft',
  budget_allocated NUMERIC NOT NULL,
  budget_spent NUMERIC NOT NULL DEFAULT 0,
  target_audience TEXT,
  objectives TEXT NOT NULL DEFAULT '{}',
  success_metrics TEXT,
  brand_id TEXT NOT NULL,
  campaign_manager_id TEXT NOT NULL,
  approval_required INTEGER NOT NULL DEFAULT 1,
  created_by TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS campaign_activities (
  id TEXT PRIMARY KEY,
  campaign_id TEXT NOT NULL,
  activity_name TEXT NOT NULL,
  activity_type TEXT NOT NULL,
  description TEXT,
  start_date DATETIME NOT NULL,
  end_date DATETIME NOT NULL,
  budget_allocated NUMERIC NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'planned',
  assigned_to TEXT,
  deliverables TEXT,
  success_criteria TEXT,
  created_by TEXT NOT NULL,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS campaign_budget_allocations (
  id TEXT PRIMARY KEY,
  campaign_id TEXT NOT NULL,
  category TEXT NOT NULL,
  allocated_amount NUMERIC NOT NULL,
  spent_amount NUMERIC NOT NULL DEFAULT 0,
  description TEXT,
  approval_required INTEGER NOT NULL DEFAULT 0,
  created_by TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (campaign_id, category)
);`, `
CREATE TABLE IF NOT EXISTS trade_spend_tracking (
  id TEXT PRIMARY KEY,
  campaign_id TEXT NOT NULL,
  activity_id TEXT,
  category TEXT NOT NULL,
  subcategory TEXT,
  amount NUMERIC NOT NULL,
  currency TEXT NOT NULL DEFAULT 'ZAR',
  spend_date DATETIME NOT NULL,
  vendor_name TEXT NOT NULL,
  invoice_number TEXT,
  description TEXT NOT NULL,
  approval_status TEXT NOT NULL DEFAULT 'pending',
  approved_by TEXT,
  approved_at DATETIME,
  created_by TEXT NOT NULL,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS campaign_workflow_states (
  id TEXT PRIMARY KEY,
  campaign_id TEXT NOT NULL,
  workflow_stage TEXT NOT NULL,
  stage_status TEXT NOT NULL,
  entered_at DATETIME NOT NULL,
  completed_at DATETIME,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS campaign_partner_associations (
  id TEXT PRIMARY KEY,
  campaign_id TEXT NOT NULL,
  partner_id TEXT NOT NULL,
  association_type TEXT NOT NULL DEFAULT 'primary',
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS coop_advertising_campaigns (
  id TEXT PRIMARY KEY,
  campaign_id TEXT NOT NULL UNIQUE,
  partner_id TEXT NOT NULL,
  partner_contribution_percent NUMERIC NOT NULL,
  partner_contribution_amount NUMERIC NOT NULL,
  media_channels TEXT,
  creative_assets TEXT,
  approval_workflow TEXT,
  performance_metrics TEXT,
  created_by TEXT NOT NULL,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS media_bookings (
  id TEXT PRIMARY KEY,
  campaign_id TEXT NOT NULL,
  media_type TEXT NOT NULL,
  media_channel TEXT NOT NULL,
  booking_date DATETIME NOT NULL,
  start_date DATETIME NOT NULL,
  end_date DATETIME NOT NULL,
  cost NUMERIC NOT NULL,
  impressions_target INTEGER,
  reach_target INTEGER,
  frequency_target NUMERIC,
  creative_specifications TEXT,
  booking_status TEXT NOT NULL DEFAULT 'booked',
  created_by TEXT NOT NULL,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS merchandising_campaigns (
  id TEXT PRIMARY KEY,
  campaign_id TEXT NOT NULL UNIQUE,
  display_type TEXT NOT NULL,
  material_requirements TEXT,
  installation_instructions TEXT,
  store_locations TEXT,
  execution_timeline TEXT,
  compliance_requirements TEXT,
  performance_tracking TEXT,
  created_by TEXT NOT NULL,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS store_executions (
  id TEXT PRIMARY KEY,
  campaign_id TEXT NOT NULL,
  store_id TEXT NOT NULL,
  execution_date DATETIME NOT NULL,
  execution_status TEXT NOT NULL DEFAULT 'planned',
  materials_used TEXT,
  installation_photos TEXT,
  compliance_score NUMERIC NOT NULL DEFAULT 0,
  execution_notes TEXT,
  executed_by TEXT,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  total_amount NUMERIC NOT NULL,
  order_date DATETIME NOT NULL,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS order_campaign_attribution (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  campaign_id TEXT NOT NULL,
  attributed_at DATETIME,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS brands (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  email TEXT NOT NULL,
  created_at DATETIME
);`}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}

	t.Cleanup(func() {
		tables := []string{
			"order_campaign_attribution", "orders",
			"store_executions", "merchandising_campaigns",
			"media_bookings", "coop_advertising_campaigns",
			"campaign_partner_associations", "campaign_workflow_states",
			"trade_spend_tracking", "campaign_budget_allocations",
			"campaign_activities", "trade_marketing_campaigns",
			"brands", "users",
		}
		for _, table := range tables {
			db.Exec("DELETE FROM " + table)
		}
	})
	return db
}

func newCampaign(t *testing.T, db *gorm.DB, code string) *models.Campaign {
	t.Helper()

	campaign := &models.Campaign{
		ID:                uuid.New(),
		CampaignCode:      code,
		CampaignName:      "Test Campaign",
		CampaignType:      enums.CampaignTypeTradePromotion,
		StartDate:         time.Now().Add(-24 * time.Hour),
		EndDate:           time.Now().Add(30 * 24 * time.Hour),
		Status:            enums.CampaignStatusActive,
		BudgetAllocated:   dec("10000"),
		Objectives:        pq.StringArray{"grow volume"},
		BrandID:           uuid.New(),
		CampaignManagerID: uuid.New(),
		ApprovalRequired:  true,
		CreatedBy:         uuid.New(),
	}
	require.NoError(t, db.Create(campaign).Error)
	return campaign
}

func newAllocation(t *testing.T, db *gorm.DB, campaignID uuid.UUID, category, allocated string) *models.CampaignBudgetAllocation {
	t.Helper()

	allocation := &models.CampaignBudgetAllocation{
		ID:              uuid.New(),
		CampaignID:      campaignID,
		Category:        category,
		AllocatedAmount: dec(allocated),
		CreatedBy:       uuid.New(),
	}
	require.NoError(t, db.Create(allocation).Error)
	return allocation
}

func newSpend(campaignID uuid.UUID, category, amount string) *models.TradeSpend {
	return &models.TradeSpend{
		ID:             uuid.New(),
		CampaignID:     campaignID,
		Category:       category,
		Amount:         dec(amount),
		Currency:       "ZAR",
		SpendDate:      time.Now(),
		VendorName:     "Acme Media",
		Description:    "test spend",
		ApprovalStatus: enums.ApprovalStatusApproved,
		CreatedBy:      uuid.New(),
	}
}

func newCampaignGraph(code string, campaignType enums.CampaignType) CampaignGraph {
	campaign := &models.Campaign{
		ID:                uuid.New(),
		CampaignCode:      code,
		CampaignName:      "Launch Wave",
		CampaignType:      campaignType,
		StartDate:         time.Now(),
		EndDate:           time.Now().Add(30 * 24 * time.Hour),
		Status:            enums.CampaignStatusDraft,
		BudgetAllocated:   dec("50000"),
		Objectives:        pq.StringArray{"grow volume"},
		BrandID:           uuid.New(),
		CampaignManagerID: uuid.New(),
		CreatedBy:         uuid.New(),
	}
	return CampaignGraph{
		Campaign: campaign,
		Activities: []models.CampaignActivity{
			{ID: uuid.New(), ActivityName: "Kickoff", ActivityType: "event", StartDate: campaign.StartDate, EndDate: campaign.EndDate, Status: enums.ActivityStatusPlanned, CreatedBy: campaign.CreatedBy},
		},
		Allocations: []models.CampaignBudgetAllocation{
			{ID: uuid.New(), Category: "media", AllocatedAmount: dec("30000"), CreatedBy: campaign.CreatedBy},
			{ID: uuid.New(), Category: "events", AllocatedAmount: dec("20000"), CreatedBy: campaign.CreatedBy},
		},
		Workflow: &models.CampaignWorkflowState{
			ID:            uuid.New(),
			WorkflowStage: campaignType.WorkflowStages()[0],
			StageStatus:   enums.WorkflowStageInProgress,
			EnteredAt:     time.Now(),
		},
		Partners: []models.CampaignPartnerAssociation{
			{ID: uuid.New(), PartnerID: uuid.New(), AssociationType: "primary"},
		},
	}
}

func TestRepositoryCreateCampaignTransaction(t *testing.T) {
	db := setupCampaignTestDB(t)
	repo := NewRepository(db)

	graph := newCampaignGraph("TP2509001", enums.CampaignTypeTradePromotion)
	require.NoError(t, repo.CreateCampaign(context.Background(), graph))

	campaign := graph.Campaign
	loaded, err := repo.FindCampaignByID(context.Background(), campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, "TP2509001", loaded.CampaignCode)

	var allocationCount int64
	require.NoError(t, db.Model(&models.CampaignBudgetAllocation{}).Where("campaign_id = ?", campaign.ID).Count(&allocationCount).Error)
	assert.Equal(t, int64(2), allocationCount)

	state, err := repo.LatestWorkflowState(context.Background(), campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, "planning", state.WorkflowStage)
}

func TestRepositoryRecordSpendGuardsEnvelope(t *testing.T) {
	db := setupCampaignTestDB(t)
	repo := NewRepository(db)

	campaign := newCampaign(t, db, "TP2509010")
	newAllocation(t, db, campaign.ID, "media", "1000")

	recorded, err := repo.RecordSpend(context.Background(), newSpend(campaign.ID, "media", "600"))
	require.NoError(t, err)
	assert.True(t, recorded)

	// Exact boundary: remaining 400 covers 400.
	recorded, err = repo.RecordSpend(context.Background(), newSpend(campaign.ID, "media", "400"))
	require.NoError(t, err)
	assert.True(t, recorded)

	// Envelope exhausted: the debit must refuse and write no ledger entry.
	recorded, err = repo.RecordSpend(context.Background(), newSpend(campaign.ID, "media", "0.01"))
	require.NoError(t, err)
	assert.False(t, recorded)

	allocation, found, err := repo.BudgetAvailability(context.Background(), campaign.ID, "media")
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, allocation.SpentAmount.Equal(dec("1000")), "got %s", allocation.SpentAmount)

	var ledgerCount int64
	require.NoError(t, db.Model(&models.TradeSpend{}).Where("campaign_id = ?", campaign.ID).Count(&ledgerCount).Error)
	assert.Equal(t, int64(2), ledgerCount)

	loaded, err := repo.FindCampaignByID(context.Background(), campaign.ID)
	require.NoError(t, err)
	assert.True(t, loaded.BudgetSpent.Equal(dec("1000")), "got %s", loaded.BudgetSpent)
}

func TestRepositoryRecordSpendUnknownCategory(t *testing.T) {
	db := setupCampaignTestDB(t)
	repo := NewRepository(db)

	campaign := newCampaign(t, db, "TP2509011")

	recorded, err := repo.RecordSpend(context.Background(), newSpend(campaign.ID, "events", "10"))
	require.NoError(t, err)
	assert.False(t, recorded)
}

func TestRepositoryBudgetAvailabilityMissingCategory(t *testing.T) {
	db := setupCampaignTestDB(t)
	repo := NewRepository(db)

	campaign := newCampaign(t, db, "TP2509012")

	_, found, err := repo.BudgetAvailability(context.Background(), campaign.ID, "media")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRepositoryBudgetUtilization(t *testing.T) {
	db := setupCampaignTestDB(t)
	repo := NewRepository(db)

	campaign := newCampaign(t, db, "TP2509020")
	newAllocation(t, db, campaign.ID, "events", "2000")
	media := newAllocation(t, db, campaign.ID, "media", "8000")
	require.NoError(t, db.Model(media).UpdateColumn("spent_amount", dec("2000")).Error)

	statuses, err := repo.BudgetUtilization(context.Background(), campaign.ID)
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	// Largest envelope first.
	assert.Equal(t, "media", statuses[0].Category)
	assert.True(t, statuses[0].UtilizationPercent.Equal(dec("25")), "got %s", statuses[0].UtilizationPercent)
	assert.True(t, statuses[1].UtilizationPercent.IsZero())
}

func TestRepositoryTotalApprovedSpend(t *testing.T) {
	db := setupCampaignTestDB(t)
	repo := NewRepository(db)

	campaign := newCampaign(t, db, "TP2509030")
	newAllocation(t, db, campaign.ID, "media", "10000")

	approved := newSpend(campaign.ID, "media", "1500")
	require.NoError(t, db.Create(approved).Error)

	pending := newSpend(campaign.ID, "media", "999")
	pending.ApprovalStatus = enums.ApprovalStatusPending
	require.NoError(t, db.Create(pending).Error)

	total, err := repo.TotalApprovedSpend(context.Background(), campaign.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("1500")), "got %s", total)
}

func TestRepositoryAttributedRevenue(t *testing.T) {
	db := setupCampaignTestDB(t)
	repo := NewRepository(db)

	campaign := newCampaign(t, db, "TP2509040")
	customer := uuid.New()

	first := &models.Order{ID: uuid.New(), CustomerID: customer, TotalAmount: dec("400"), OrderDate: time.Now()}
	second := &models.Order{ID: uuid.New(), CustomerID: uuid.New(), TotalAmount: dec("600"), OrderDate: time.Now()}
	unattributed := &models.Order{ID: uuid.New(), CustomerID: customer, TotalAmount: dec("5000"), OrderDate: time.Now()}
	require.NoError(t, db.Create(first).Error)
	require.NoError(t, db.Create(second).Error)
	require.NoError(t, db.Create(unattributed).Error)

	for _, order := range []*models.Order{first, second} {
		attribution := &models.OrderCampaignAttribution{ID: uuid.New(), OrderID: order.ID, CampaignID: campaign.ID}
		require.NoError(t, db.Create(attribution).Error)
	}

	revenue, err := repo.AttributedRevenue(context.Background(), campaign.ID)
	require.NoError(t, err)
	assert.True(t, revenue.TotalRevenue.Equal(dec("1000")), "got %s", revenue.TotalRevenue)
	assert.Equal(t, int64(2), revenue.OrdersAttributed)
	assert.Equal(t, int64(2), revenue.CustomersReached)
	assert.True(t, revenue.AverageOrderValue.Equal(dec("500")), "got %s", revenue.AverageOrderValue)
}

func TestRepositoryActivityStatusCounts(t *testing.T) {
	db := setupCampaignTestDB(t)
	repo := NewRepository(db)

	campaign := newCampaign(t, db, "TP2509050")
	statuses := []enums.ActivityStatus{
		enums.ActivityStatusCompleted,
		enums.ActivityStatusCompleted,
		enums.ActivityStatusPlanned,
	}
	for _, status := range statuses {
		activity := &models.CampaignActivity{
			ID:              uuid.New(),
			CampaignID:      campaign.ID,
			ActivityName:    "Activity",
			ActivityType:    "event",
			StartDate:       time.Now(),
			EndDate:         time.Now().Add(24 * time.Hour),
			BudgetAllocated: dec("100"),
			Status:          status,
			CreatedBy:       campaign.CreatedBy,
		}
		require.NoError(t, db.Create(activity).Error)
	}

	rows, err := repo.ActivityStatusCounts(context.Background(), campaign.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byStatus := map[string]ActivityStatusCount{}
	for _, row := range rows {
		byStatus[row.Status] = row
	}
	assert.Equal(t, int64(2), byStatus["completed"].Count)
	assert.Equal(t, int64(1), byStatus["planned"].Count)
}

func TestRepositoryAdvanceWorkflow(t *testing.T) {
	db := setupCampaignTestDB(t)
	repo := NewRepository(db)

	campaign := newCampaign(t, db, "TP2509060")
	current := &models.CampaignWorkflowState{
		ID:            uuid.New(),
		CampaignID:    campaign.ID,
		WorkflowStage: "planning",
		StageStatus:   enums.WorkflowStageInProgress,
		EnteredAt:     time.Now().Add(-time.Hour),
	}
	require.NoError(t, db.Create(current).Error)

	at := time.Now()
	next := &models.CampaignWorkflowState{
		ID:            uuid.New(),
		CampaignID:    campaign.ID,
		WorkflowStage: "approval",
		StageStatus:   enums.WorkflowStageInProgress,
		EnteredAt:     at,
	}
	require.NoError(t, repo.AdvanceWorkflow(context.Background(), current.ID, next, at))

	latest, err := repo.LatestWorkflowState(context.Background(), campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, "approval", latest.WorkflowStage)

	var completed models.CampaignWorkflowState
	require.NoError(t, db.First(&completed, "id = ?", current.ID).Error)
	assert.Equal(t, enums.WorkflowStageCompleted, completed.StageStatus)
	assert.NotNil(t, completed.CompletedAt)
}

func TestRepositoryCreateCoopCampaign(t *testing.T) {
	db := setupCampaignTestDB(t)
	repo := NewRepository(db)

	graph := newCampaignGraph("CA2509001", enums.CampaignTypeCoopAdvertising)
	detail := &models.CoopCampaignDetail{
		ID:                         uuid.New(),
		PartnerID:                  uuid.New(),
		PartnerContributionPercent: dec("50"),
		PartnerContributionAmount:  dec("5000"),
		CreatedBy:                  graph.Campaign.CreatedBy,
	}
	bookings := []models.MediaBooking{
		{ID: uuid.New(), MediaType: "digital", MediaChannel: "social", BookingDate: time.Now(), StartDate: time.Now(), EndDate: time.Now().Add(7 * 24 * time.Hour), Cost: dec("2000"), BookingStatus: "booked", CreatedBy: graph.Campaign.CreatedBy},
	}

	require.NoError(t, repo.CreateCoopCampaign(context.Background(), graph, detail, bookings))

	var loaded models.CoopCampaignDetail
	require.NoError(t, db.First(&loaded, "campaign_id = ?", graph.Campaign.ID).Error)
	assert.Equal(t, detail.PartnerID, loaded.PartnerID)

	var bookingCount int64
	require.NoError(t, db.Model(&models.MediaBooking{}).Where("campaign_id = ?", graph.Campaign.ID).Count(&bookingCount).Error)
	assert.Equal(t, int64(1), bookingCount)
}

func TestRepositoryCreateCoopCampaignRollsBackOnDetailFailure(t *testing.T) {
	db := setupCampaignTestDB(t)
	repo := NewRepository(db)

	graph := newCampaignGraph("CA2509002", enums.CampaignTypeCoopAdvertising)
	detail := &models.CoopCampaignDetail{
		ID:                         uuid.New(),
		PartnerID:                  uuid.New(),
		PartnerContributionPercent: dec("50"),
		PartnerContributionAmount:  dec("5000"),
		CreatedBy:                  graph.Campaign.CreatedBy,
	}

	// Make the detail insert fail after the campaign insert succeeded.
	require.NoError(t, db.Exec("DROP TABLE coop_advertising_campaigns").Error)

	err := repo.CreateCoopCampaign(context.Background(), graph, detail, nil)
	require.Error(t, err)

	var campaignCount int64
	require.NoError(t, db.Model(&models.Campaign{}).Where("id = ?", graph.Campaign.ID).Count(&campaignCount).Error)
	assert.Zero(t, campaignCount, "campaign must not survive a failed co-op detail insert")

	var workflowCount int64
	require.NoError(t, db.Model(&models.CampaignWorkflowState{}).Where("campaign_id = ?", graph.Campaign.ID).Count(&workflowCount).Error)
	assert.Zero(t, workflowCount)
}

func TestRepositoryCreateMerchandisingCampaign(t *testing.T) {
	db := setupCampaignTestDB(t)
	repo := NewRepository(db)

	graph := newCampaignGraph("MD2509001", enums.CampaignTypeMerchandising)
	detail := &models.MerchandisingDetail{
		ID:          uuid.New(),
		DisplayType: "end_cap",
		CreatedBy:   graph.Campaign.CreatedBy,
	}
	executions := []models.StoreExecution{
		{ID: uuid.New(), StoreID: uuid.New(), ExecutionDate: time.Now(), ExecutionStatus: "planned"},
	}

	require.NoError(t, repo.CreateMerchandisingCampaign(context.Background(), graph, detail, executions))

	var loaded models.MerchandisingDetail
	require.NoError(t, db.First(&loaded, "campaign_id = ?", graph.Campaign.ID).Error)
	assert.Equal(t, "end_cap", loaded.DisplayType)

	var execCount int64
	require.NoError(t, db.Model(&models.StoreExecution{}).Where("campaign_id = ?", graph.Campaign.ID).Count(&execCount).Error)
	assert.Equal(t, int64(1), execCount)
}

func TestRepositoryCreateMerchandisingCampaignRollsBackOnDetailFailure(t *testing.T) {
	db := setupCampaignTestDB(t)
	repo := NewRepository(db)

	graph := newCampaignGraph("MD2509002", enums.CampaignTypeMerchandising)
	detail := &models.MerchandisingDetail{
		ID:          uuid.New(),
		DisplayType: "end_cap",
		CreatedBy:   graph.Campaign.CreatedBy,
	}

	require.NoError(t, db.Exec("DROP TABLE merchandising_campaigns").Error)

	err := repo.CreateMerchandisingCampaign(context.Background(), graph, detail, nil)
	require.Error(t, err)

	var campaignCount int64
	require.NoError(t, db.Model(&models.Campaign{}).Where("id = ?", graph.Campaign.ID).Count(&campaignCount).Error)
	assert.Zero(t, campaignCount, "campaign must not survive a failed merchandising detail insert")
}
