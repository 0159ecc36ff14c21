package trademarketing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/Reshigan/SalesSync-sub013/pkg/db/models"
	"github.com/Reshigan/SalesSync-sub013/pkg/enums"
	pkgerrors "github.com/Reshigan/SalesSync-sub013/pkg/errors"
	"github.com/Reshigan/SalesSync-sub013/pkg/metrics"
)

const recentSpendLimit = 10

var oneHundred = decimal.NewFromInt(100)

type campaignsRepository interface {
	CreateCampaign(ctx context.Context, graph CampaignGraph) error
	CreateCoopCampaign(ctx context.Context, graph CampaignGraph, detail *models.CoopCampaignDetail, bookings []models.MediaBooking) error
	CreateMerchandisingCampaign(ctx context.Context, graph CampaignGraph, detail *models.MerchandisingDetail, executions []models.StoreExecution) error
	FindCampaignByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error)
	CampaignDetails(ctx context.Context, id uuid.UUID) (*CampaignDetails, error)
	BudgetAvailability(ctx context.Context, campaignID uuid.UUID, category string) (*models.CampaignBudgetAllocation, bool, error)
	RecordSpend(ctx context.Context, spend *models.TradeSpend) (bool, error)
	BudgetUtilization(ctx context.Context, campaignID uuid.UUID) ([]BudgetStatus, error)
	ActivityStatusCounts(ctx context.Context, campaignID uuid.UUID) ([]ActivityStatusCount, error)
	RecentSpend(ctx context.Context, campaignID uuid.UUID, limit int) ([]models.TradeSpend, error)
	TotalApprovedSpend(ctx context.Context, campaignID uuid.UUID) (decimal.Decimal, error)
	AttributedRevenue(ctx context.Context, campaignID uuid.UUID) (*RevenueAttribution, error)
	LatestWorkflowState(ctx context.Context, campaignID uuid.UUID) (*models.CampaignWorkflowState, error)
	AdvanceWorkflow(ctx context.Context, currentID uuid.UUID, next *models.CampaignWorkflowState, at time.Time) error
}

type sequencer interface {
	NextSequence(ctx context.Context, name string, ttl time.Duration) (int64, error)
}

type cacheStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	CacheKey(parts ...string) string
}

// Service exposes trade marketing campaign management.
type Service interface {
	CreateCampaign(ctx context.Context, userID uuid.UUID, input CreateCampaignInput) (*CreateCampaignResult, error)
	TrackTradeSpend(ctx context.Context, userID uuid.UUID, input TrackSpendInput) (*TrackSpendResult, error)
	CreateCoopCampaign(ctx context.Context, userID uuid.UUID, input CreateCoopCampaignInput) (*CreateCampaignResult, error)
	CreateMerchandisingCampaign(ctx context.Context, userID uuid.UUID, input CreateMerchandisingCampaignInput) (*CreateCampaignResult, error)
	CalculateCampaignROI(ctx context.Context, campaignID uuid.UUID) (*ROIReport, error)
	GetCampaignDashboard(ctx context.Context, campaignID uuid.UUID) (*Dashboard, error)
	AdvanceWorkflow(ctx context.Context, campaignID uuid.UUID) (*WorkflowPosition, error)
}

type service struct {
	repo        campaignsRepository
	seq         sequencer
	cache       cacheStore
	campaignTTL time.Duration
	roiTTL      time.Duration
	sequenceTTL time.Duration
	metrics     *metrics.CampaignMetrics
	now         func() time.Time
}

// NewService builds a trade marketing service backed by the provided
// repository and Redis helpers. Metrics may be nil.
func NewService(repo campaignsRepository, seq sequencer, cache cacheStore, campaignTTL, roiTTL, sequenceTTL time.Duration, campaignMetrics *metrics.CampaignMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("campaign repository required")
	}
	if seq == nil {
		return nil, fmt.Errorf("sequencer required")
	}
	if cache == nil {
		return nil, fmt.Errorf("cache store required")
	}
	if campaignTTL <= 0 || roiTTL <= 0 || sequenceTTL <= 0 {
		return nil, fmt.Errorf("cache ttls must be positive")
	}
	return &service{
		repo:        repo,
		seq:         seq,
		cache:       cache,
		campaignTTL: campaignTTL,
		roiTTL:      roiTTL,
		sequenceTTL: sequenceTTL,
		metrics:     campaignMetrics,
		now:         time.Now,
	}, nil
}

// ActivityInput describes one planned campaign activity.
type ActivityInput struct {
	ActivityName    string          `json:"activity_name"`
	ActivityType    string          `json:"activity_type"`
	Description     *string         `json:"description"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         time.Time       `json:"end_date"`
	BudgetAllocated decimal.Decimal `json:"budget_allocated"`
	AssignedTo      *uuid.UUID      `json:"assigned_to"`
	Deliverables    json.RawMessage `json:"deliverables"`
	SuccessCriteria json.RawMessage `json:"success_criteria"`
}

// AllocationInput describes one category envelope of the campaign budget.
type AllocationInput struct {
	Category         string          `json:"category"`
	AllocatedAmount  decimal.Decimal `json:"allocated_amount"`
	Description      *string         `json:"description"`
	ApprovalRequired bool            `json:"approval_required"`
}

// CreateCampaignInput holds everything needed to create a campaign.
type CreateCampaignInput struct {
	CampaignName      string
	CampaignType      enums.CampaignType
	Description       *string
	StartDate         time.Time
	EndDate           time.Time
	BudgetAllocated   decimal.Decimal
	BrandID           uuid.UUID
	CampaignManagerID uuid.UUID
	TargetAudience    json.RawMessage
	Objectives        []string
	SuccessMetrics    json.RawMessage
	ApprovalRequired  *bool
	Activities        []ActivityInput
	BudgetBreakdown   []AllocationInput
	PartnerIDs        []uuid.UUID
}

// CreateCampaignResult is returned after a successful creation.
type CreateCampaignResult struct {
	CampaignID   uuid.UUID `json:"campaign_id"`
	CampaignCode string    `json:"campaign_code"`
}

// MediaBookingInput describes one media slot to reserve for a co-op campaign.
type MediaBookingInput struct {
	MediaType              string          `json:"media_type"`
	MediaChannel           string          `json:"media_channel"`
	BookingDate            time.Time       `json:"booking_date"`
	StartDate              time.Time       `json:"start_date"`
	EndDate                time.Time       `json:"end_date"`
	Cost                   decimal.Decimal `json:"cost"`
	ImpressionsTarget      *int64          `json:"impressions_target"`
	ReachTarget            *int64          `json:"reach_target"`
	FrequencyTarget        *float64        `json:"frequency_target"`
	CreativeSpecifications json.RawMessage `json:"creative_specifications"`
}

// CreateCoopCampaignInput extends campaign creation with co-op advertising
// specifics.
type CreateCoopCampaignInput struct {
	CreateCampaignInput
	PartnerID                  uuid.UUID           `json:"partner_id"`
	PartnerContributionPercent decimal.Decimal     `json:"partner_contribution_percent"`
	PartnerContributionAmount  decimal.Decimal     `json:"partner_contribution_amount"`
	MediaChannels              json.RawMessage     `json:"media_channels"`
	CreativeAssets             json.RawMessage     `json:"creative_assets"`
	ApprovalWorkflow           json.RawMessage     `json:"approval_workflow"`
	PerformanceMetrics         json.RawMessage     `json:"performance_metrics"`
	MediaBookings              []MediaBookingInput `json:"media_bookings"`
}

// StoreExecutionInput describes one planned store rollout.
type StoreExecutionInput struct {
	StoreID        uuid.UUID       `json:"store_id"`
	ExecutionDate  time.Time       `json:"execution_date"`
	MaterialsUsed  json.RawMessage `json:"materials_used"`
	ExecutionNotes *string         `json:"execution_notes"`
	ExecutedBy     *uuid.UUID      `json:"executed_by"`
}

// CreateMerchandisingCampaignInput extends campaign creation with in-store
// display specifics.
type CreateMerchandisingCampaignInput struct {
	CreateCampaignInput
	DisplayType              string                `json:"display_type"`
	MaterialRequirements     json.RawMessage       `json:"material_requirements"`
	InstallationInstructions *string               `json:"installation_instructions"`
	StoreLocations           json.RawMessage       `json:"store_locations"`
	ExecutionTimeline        json.RawMessage       `json:"execution_timeline"`
	ComplianceRequirements   json.RawMessage       `json:"compliance_requirements"`
	PerformanceTracking      json.RawMessage       `json:"performance_tracking"`
	StoreExecutions          []StoreExecutionInput `json:"store_executions"`
}

// TrackSpendInput is one trade spend ledger entry.
type TrackSpendInput struct {
	CampaignID       uuid.UUID
	ActivityID       *uuid.UUID
	Category         string
	Subcategory      *string
	Amount           decimal.Decimal
	Currency         string
	SpendDate        *time.Time
	VendorName       string
	InvoiceNumber    *string
	Description      string
	ApprovalRequired bool
}

// TrackSpendResult is returned after a spend entry is accepted.
type TrackSpendResult struct {
	SpendID         uuid.UUID       `json:"spend_id"`
	RemainingBudget decimal.Decimal `json:"remaining_budget"`
}

// ROIReport summarizes campaign return on investment.
type ROIReport struct {
	CampaignID        uuid.UUID       `json:"campaign_id"`
	TotalSpend        decimal.Decimal `json:"total_spend"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	ROIPercentage     decimal.Decimal `json:"roi_percentage"`
	ROAS              decimal.Decimal `json:"roas"`
	OrdersAttributed  int64           `json:"orders_attributed"`
	CustomersReached  int64           `json:"customers_reached"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	CostPerOrder      decimal.Decimal `json:"cost_per_order"`
	CalculatedAt      time.Time       `json:"calculated_at"`
}

// PerformanceSummary is the headline block of a campaign dashboard.
type PerformanceSummary struct {
	BudgetUtilizationPercent decimal.Decimal `json:"budget_utilization_percent"`
	DaysRemaining            int             `json:"days_remaining"`
	CompletionPercent        int             `json:"completion_percent"`
}

// Dashboard is the full campaign performance view.
type Dashboard struct {
	Campaign          *CampaignDetails      `json:"campaign"`
	BudgetUtilization []BudgetStatus        `json:"budget_utilization"`
	ActivityStatus    []ActivityStatusCount `json:"activity_status"`
	RecentSpend       []models.TradeSpend   `json:"recent_spend"`
	ROIMetrics        *ROIReport            `json:"roi_metrics"`
	Performance       PerformanceSummary    `json:"performance_summary"`
}

// WorkflowPosition reports where a campaign sits in its stage list.
type WorkflowPosition struct {
	CampaignID   uuid.UUID `json:"campaign_id"`
	CurrentStage string    `json:"current_stage"`
	StageStatus  string    `json:"stage_status"`
	EnteredAt    time.Time `json:"entered_at"`
	FinalStage   bool      `json:"final_stage"`
}

func (s *service) CreateCampaign(ctx context.Context, userID uuid.UUID, input CreateCampaignInput) (*CreateCampaignResult, error) {
	graph, err := s.buildCampaignGraph(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateCampaign(ctx, graph); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create campaign")
	}

	s.cacheCampaign(ctx, graph.Campaign)

	return &CreateCampaignResult{
		CampaignID:   graph.Campaign.ID,
		CampaignCode: graph.Campaign.CampaignCode,
	}, nil
}

// buildCampaignGraph validates the input and assembles the campaign row with
// its activities, budget envelopes, first workflow stage, and partner links.
// Nothing is persisted here; callers hand the graph to the repository so the
// whole creation commits in one transaction.
func (s *service) buildCampaignGraph(ctx context.Context, userID uuid.UUID, input CreateCampaignInput) (CampaignGraph, error) {
	if userID == uuid.Nil {
		return CampaignGraph{}, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	if err := validateCampaignInput(input); err != nil {
		return CampaignGraph{}, err
	}

	code, err := s.generateCode(ctx, input.CampaignType)
	if err != nil {
		return CampaignGraph{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "generate campaign code")
	}

	approvalRequired := true
	if input.ApprovalRequired != nil {
		approvalRequired = *input.ApprovalRequired
	}

	campaign := &models.Campaign{
		ID:                uuid.New(),
		CampaignCode:      code,
		CampaignName:      strings.TrimSpace(input.CampaignName),
		CampaignType:      input.CampaignType,
		Description:       input.Description,
		StartDate:         input.StartDate,
		EndDate:           input.EndDate,
		Status:            enums.CampaignStatusDraft,
		BudgetAllocated:   input.BudgetAllocated,
		BudgetSpent:       decimal.Zero,
		TargetAudience:    input.TargetAudience,
		Objectives:        pq.StringArray(input.Objectives),
		SuccessMetrics:    input.SuccessMetrics,
		BrandID:           input.BrandID,
		CampaignManagerID: input.CampaignManagerID,
		ApprovalRequired:  approvalRequired,
		CreatedBy:         userID,
	}

	activities := make([]models.CampaignActivity, len(input.Activities))
	for i, activity := range input.Activities {
		activities[i] = models.CampaignActivity{
			ID:              uuid.New(),
			ActivityName:    activity.ActivityName,
			ActivityType:    activity.ActivityType,
			Description:     activity.Description,
			StartDate:       activity.StartDate,
			EndDate:         activity.EndDate,
			BudgetAllocated: activity.BudgetAllocated,
			Status:          enums.ActivityStatusPlanned,
			AssignedTo:      activity.AssignedTo,
			Deliverables:    activity.Deliverables,
			SuccessCriteria: activity.SuccessCriteria,
			CreatedBy:       userID,
		}
	}

	allocations := make([]models.CampaignBudgetAllocation, len(input.BudgetBreakdown))
	for i, allocation := range input.BudgetBreakdown {
		allocations[i] = models.CampaignBudgetAllocation{
			ID:               uuid.New(),
			Category:         allocation.Category,
			AllocatedAmount:  allocation.AllocatedAmount,
			SpentAmount:      decimal.Zero,
			Description:      allocation.Description,
			ApprovalRequired: allocation.ApprovalRequired,
			CreatedBy:        userID,
		}
	}

	stages := input.CampaignType.WorkflowStages()
	workflow := &models.CampaignWorkflowState{
		ID:            uuid.New(),
		WorkflowStage: stages[0],
		StageStatus:   enums.WorkflowStageInProgress,
		EnteredAt:     s.now(),
	}

	partners := make([]models.CampaignPartnerAssociation, len(input.PartnerIDs))
	for i, partnerID := range input.PartnerIDs {
		partners[i] = models.CampaignPartnerAssociation{
			ID:              uuid.New(),
			PartnerID:       partnerID,
			AssociationType: "primary",
		}
	}

	return CampaignGraph{
		Campaign:    campaign,
		Activities:  activities,
		Allocations: allocations,
		Workflow:    workflow,
		Partners:    partners,
	}, nil
}

func (s *service) TrackTradeSpend(ctx context.Context, userID uuid.UUID, input TrackSpendInput) (*TrackSpendResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	if err := validateSpendInput(input); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindCampaignByID(ctx, input.CampaignID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "campaign not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup campaign")
	}

	allocation, found, err := s.repo.BudgetAvailability(ctx, input.CampaignID, input.Category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check budget availability")
	}
	if !found {
		s.metrics.IncSpendRejected("category_not_found")
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "budget category not found")
	}
	available := allocation.AllocatedAmount.Sub(allocation.SpentAmount)

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = "ZAR"
	}
	spendDate := s.now()
	if input.SpendDate != nil {
		spendDate = *input.SpendDate
	}

	spend := &models.TradeSpend{
		ID:            uuid.New(),
		CampaignID:    input.CampaignID,
		ActivityID:    input.ActivityID,
		Category:      input.Category,
		Subcategory:   input.Subcategory,
		Amount:        input.Amount,
		Currency:      currency,
		SpendDate:     spendDate,
		VendorName:    strings.TrimSpace(input.VendorName),
		InvoiceNumber: input.InvoiceNumber,
		Description:   strings.TrimSpace(input.Description),
		CreatedBy:     userID,
	}
	if input.ApprovalRequired {
		spend.ApprovalStatus = enums.ApprovalStatusPending
	} else {
		now := s.now()
		spend.ApprovalStatus = enums.ApprovalStatusApproved
		spend.ApprovedBy = &userID
		spend.ApprovedAt = &now
	}

	recorded, err := s.repo.RecordSpend(ctx, spend)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record trade spend")
	}
	if !recorded {
		s.metrics.IncSpendRejected("insufficient_budget")
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("Insufficient budget. Available: %s, Required: %s", available, input.Amount))
	}

	s.metrics.IncSpendRecorded(input.Category)
	s.metrics.AddSpendAmount(input.Category, input.Amount.InexactFloat64())

	return &TrackSpendResult{
		SpendID:         spend.ID,
		RemainingBudget: available.Sub(input.Amount),
	}, nil
}

func (s *service) CreateCoopCampaign(ctx context.Context, userID uuid.UUID, input CreateCoopCampaignInput) (*CreateCampaignResult, error) {
	if input.PartnerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "partner_id is required")
	}

	input.CampaignType = enums.CampaignTypeCoopAdvertising
	graph, err := s.buildCampaignGraph(ctx, userID, input.CreateCampaignInput)
	if err != nil {
		return nil, err
	}

	detail := &models.CoopCampaignDetail{
		ID:                         uuid.New(),
		PartnerID:                  input.PartnerID,
		PartnerContributionPercent: input.PartnerContributionPercent,
		PartnerContributionAmount:  input.PartnerContributionAmount,
		MediaChannels:              input.MediaChannels,
		CreativeAssets:             input.CreativeAssets,
		ApprovalWorkflow:           input.ApprovalWorkflow,
		PerformanceMetrics:         input.PerformanceMetrics,
		CreatedBy:                  userID,
	}

	bookings := make([]models.MediaBooking, len(input.MediaBookings))
	for i, booking := range input.MediaBookings {
		bookings[i] = models.MediaBooking{
			ID:                     uuid.New(),
			MediaType:              booking.MediaType,
			MediaChannel:           booking.MediaChannel,
			BookingDate:            booking.BookingDate,
			StartDate:              booking.StartDate,
			EndDate:                booking.EndDate,
			Cost:                   booking.Cost,
			ImpressionsTarget:      booking.ImpressionsTarget,
			ReachTarget:            booking.ReachTarget,
			FrequencyTarget:        booking.FrequencyTarget,
			CreativeSpecifications: booking.CreativeSpecifications,
			BookingStatus:          "booked",
			CreatedBy:              userID,
		}
	}

	if err := s.repo.CreateCoopCampaign(ctx, graph, detail, bookings); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create co-op campaign")
	}

	s.cacheCampaign(ctx, graph.Campaign)

	return &CreateCampaignResult{
		CampaignID:   graph.Campaign.ID,
		CampaignCode: graph.Campaign.CampaignCode,
	}, nil
}

func (s *service) CreateMerchandisingCampaign(ctx context.Context, userID uuid.UUID, input CreateMerchandisingCampaignInput) (*CreateCampaignResult, error) {
	if strings.TrimSpace(input.DisplayType) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "display_type is required")
	}

	input.CampaignType = enums.CampaignTypeMerchandising
	graph, err := s.buildCampaignGraph(ctx, userID, input.CreateCampaignInput)
	if err != nil {
		return nil, err
	}

	detail := &models.MerchandisingDetail{
		ID:                       uuid.New(),
		DisplayType:              strings.TrimSpace(input.DisplayType),
		MaterialRequirements:     input.MaterialRequirements,
		InstallationInstructions: input.InstallationInstructions,
		StoreLocations:           input.StoreLocations,
		ExecutionTimeline:        input.ExecutionTimeline,
		ComplianceRequirements:   input.ComplianceRequirements,
		PerformanceTracking:      input.PerformanceTracking,
		CreatedBy:                userID,
	}

	executions := make([]models.StoreExecution, len(input.StoreExecutions))
	for i, execution := range input.StoreExecutions {
		executions[i] = models.StoreExecution{
			ID:              uuid.New(),
			StoreID:         execution.StoreID,
			ExecutionDate:   execution.ExecutionDate,
			ExecutionStatus: "planned",
			MaterialsUsed:   execution.MaterialsUsed,
			ComplianceScore: decimal.Zero,
			ExecutionNotes:  execution.ExecutionNotes,
			ExecutedBy:      execution.ExecutedBy,
		}
	}

	if err := s.repo.CreateMerchandisingCampaign(ctx, graph, detail, executions); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create merchandising campaign")
	}

	s.cacheCampaign(ctx, graph.Campaign)

	return &CreateCampaignResult{
		CampaignID:   graph.Campaign.ID,
		CampaignCode: graph.Campaign.CampaignCode,
	}, nil
}

func (s *service) CalculateCampaignROI(ctx context.Context, campaignID uuid.UUID) (*ROIReport, error) {
	if campaignID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "campaign id is required")
	}

	cacheKey := s.cache.CacheKey("campaign_roi", campaignID.String())
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != "" {
		var report ROIReport
		if err := json.Unmarshal([]byte(cached), &report); err == nil {
			return &report, nil
		}
	}

	if _, err := s.repo.FindCampaignByID(ctx, campaignID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "campaign not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup campaign")
	}

	totalSpend, err := s.repo.TotalApprovedSpend(ctx, campaignID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate campaign spend")
	}

	attribution, err := s.repo.AttributedRevenue(ctx, campaignID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate attributed revenue")
	}

	roi := decimal.Zero
	roas := decimal.Zero
	costPerOrder := decimal.Zero
	if totalSpend.IsPositive() {
		roi = attribution.TotalRevenue.Sub(totalSpend).Div(totalSpend).Mul(oneHundred).Round(2)
		roas = attribution.TotalRevenue.Div(totalSpend).Round(2)
	}
	if attribution.OrdersAttributed > 0 {
		costPerOrder = totalSpend.Div(decimal.NewFromInt(attribution.OrdersAttributed)).Round(2)
	}

	report := &ROIReport{
		CampaignID:        campaignID,
		TotalSpend:        totalSpend,
		TotalRevenue:      attribution.TotalRevenue,
		ROIPercentage:     roi,
		ROAS:              roas,
		OrdersAttributed:  attribution.OrdersAttributed,
		CustomersReached:  attribution.CustomersReached,
		AverageOrderValue: attribution.AverageOrderValue,
		CostPerOrder:      costPerOrder,
		CalculatedAt:      s.now(),
	}

	if payload, err := json.Marshal(report); err == nil {
		_ = s.cache.Set(ctx, cacheKey, payload, s.roiTTL)
	}

	return report, nil
}

func (s *service) GetCampaignDashboard(ctx context.Context, campaignID uuid.UUID) (*Dashboard, error) {
	if campaignID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "campaign id is required")
	}

	details, err := s.repo.CampaignDetails(ctx, campaignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "campaign not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup campaign")
	}

	budget, err := s.repo.BudgetUtilization(ctx, campaignID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate budget utilization")
	}

	activities, err := s.repo.ActivityStatusCounts(ctx, campaignID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate activity status")
	}

	recent, err := s.repo.RecentSpend(ctx, campaignID, recentSpendLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recent spend")
	}

	roi, err := s.CalculateCampaignROI(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	utilization := decimal.Zero
	if details.BudgetAllocated.IsPositive() {
		utilization = details.BudgetSpent.Div(details.BudgetAllocated).Mul(oneHundred).Round(2)
	}

	daysRemaining := int(details.EndDate.Sub(s.now()).Hours() / 24)
	if details.EndDate.Sub(s.now()) > 0 && details.EndDate.Sub(s.now())%(24*time.Hour) != 0 {
		daysRemaining++
	}

	return &Dashboard{
		Campaign:          details,
		BudgetUtilization: budget,
		ActivityStatus:    activities,
		RecentSpend:       recent,
		ROIMetrics:        roi,
		Performance: PerformanceSummary{
			BudgetUtilizationPercent: utilization,
			DaysRemaining:            daysRemaining,
			CompletionPercent:        completionPercent(activities),
		},
	}, nil
}

func (s *service) AdvanceWorkflow(ctx context.Context, campaignID uuid.UUID) (*WorkflowPosition, error) {
	if campaignID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "campaign id is required")
	}

	campaign, err := s.repo.FindCampaignByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "campaign not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup campaign")
	}

	current, err := s.repo.LatestWorkflowState(ctx, campaignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "campaign has no workflow state")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup workflow state")
	}

	stages := campaign.CampaignType.WorkflowStages()
	currentIndex := -1
	for i, stage := range stages {
		if stage == current.WorkflowStage {
			currentIndex = i
			break
		}
	}
	if currentIndex == -1 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "campaign is in an unknown workflow stage")
	}
	if currentIndex == len(stages)-1 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "campaign workflow already at final stage")
	}

	at := s.now()
	next := &models.CampaignWorkflowState{
		ID:            uuid.New(),
		CampaignID:    campaignID,
		WorkflowStage: stages[currentIndex+1],
		StageStatus:   enums.WorkflowStageInProgress,
		EnteredAt:     at,
	}

	if err := s.repo.AdvanceWorkflow(ctx, current.ID, next, at); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "advance workflow")
	}

	return &WorkflowPosition{
		CampaignID:   campaignID,
		CurrentStage: next.WorkflowStage,
		StageStatus:  next.StageStatus.String(),
		EnteredAt:    next.EnteredAt,
		FinalStage:   currentIndex+1 == len(stages)-1,
	}, nil
}

func completionPercent(activities []ActivityStatusCount) int {
	var total, completed int64
	for _, activity := range activities {
		total += activity.Count
		if activity.Status == enums.ActivityStatusCompleted.String() {
			completed = activity.Count
		}
	}
	if total == 0 {
		return 0
	}
	return int((completed*100 + total/2) / total)
}

// generateCode builds codes like TP2509001: type prefix, two-digit year,
// two-digit month, then a three-digit per-month sequence from Redis.
func (s *service) generateCode(ctx context.Context, campaignType enums.CampaignType) (string, error) {
	now := s.now()
	yymm := now.Format("0601")
	name := fmt.Sprintf("campaign:%s:%s", campaignType, yymm)
	seq, err := s.seq.NextSequence(ctx, name, s.sequenceTTL)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s%03d", campaignType.CodePrefix(), yymm, seq), nil
}

func (s *service) cacheCampaign(ctx context.Context, campaign *models.Campaign) {
	payload, err := json.Marshal(campaign)
	if err != nil {
		return
	}
	// Cache writes are best effort; a miss just falls back to the database.
	_ = s.cache.Set(ctx, s.cache.CacheKey("campaign", campaign.ID.String()), payload, s.campaignTTL)
}

func validateCampaignInput(input CreateCampaignInput) error {
	var errs error

	name := strings.TrimSpace(input.CampaignName)
	if len(name) < 3 || len(name) > 255 {
		errs = multierr.Append(errs, fmt.Errorf("campaign_name must be 3-255 characters"))
	}
	if !input.CampaignType.IsValid() {
		errs = multierr.Append(errs, fmt.Errorf("invalid campaign_type"))
	}
	if input.Description != nil && len(*input.Description) > 1000 {
		errs = multierr.Append(errs, fmt.Errorf("description too long"))
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		errs = multierr.Append(errs, fmt.Errorf("start_date and end_date are required"))
	} else if !input.EndDate.After(input.StartDate) {
		errs = multierr.Append(errs, fmt.Errorf("end_date must be after start_date"))
	}
	if input.BudgetAllocated.IsNegative() {
		errs = multierr.Append(errs, fmt.Errorf("budget_allocated cannot be negative"))
	}
	if input.BrandID == uuid.Nil {
		errs = multierr.Append(errs, fmt.Errorf("brand_id is required"))
	}
	if input.CampaignManagerID == uuid.Nil {
		errs = multierr.Append(errs, fmt.Errorf("campaign_manager_id is required"))
	}
	if len(input.TargetAudience) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("target_audience is required"))
	}
	if len(input.Objectives) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("objectives are required"))
	}
	if len(input.SuccessMetrics) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("success_metrics are required"))
	}
	for i, allocation := range input.BudgetBreakdown {
		if strings.TrimSpace(allocation.Category) == "" {
			errs = multierr.Append(errs, fmt.Errorf("budget_breakdown[%d]: category is required", i))
		}
		if allocation.AllocatedAmount.LessThanOrEqual(decimal.Zero) {
			errs = multierr.Append(errs, fmt.Errorf("budget_breakdown[%d]: allocated_amount must be positive", i))
		}
	}

	return validationError(errs)
}

func validateSpendInput(input TrackSpendInput) error {
	var errs error

	if input.CampaignID == uuid.Nil {
		errs = multierr.Append(errs, fmt.Errorf("campaign_id is required"))
	}
	if strings.TrimSpace(input.Category) == "" {
		errs = multierr.Append(errs, fmt.Errorf("category is required"))
	}
	if input.Amount.LessThan(decimal.NewFromFloat(0.01)) {
		errs = multierr.Append(errs, fmt.Errorf("amount must be at least 0.01"))
	}
	if input.Currency != "" && len(input.Currency) != 3 {
		errs = multierr.Append(errs, fmt.Errorf("currency must be a 3-letter code"))
	}
	vendor := strings.TrimSpace(input.VendorName)
	if vendor == "" || len(vendor) > 255 {
		errs = multierr.Append(errs, fmt.Errorf("vendor_name is required and must be at most 255 characters"))
	}
	description := strings.TrimSpace(input.Description)
	if description == "" || len(description) > 500 {
		errs = multierr.Append(errs, fmt.Errorf("description is required and must be at most 500 characters"))
	}

	return validationError(errs)
}

func validationError(errs error) error {
	if errs == nil {
		return nil
	}
	details := make([]string, 0)
	for _, e := range multierr.Errors(errs) {
		details = append(details, e.Error())
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "campaign validation failed").WithDetails(details)
}
