package controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Reshigan/SalesSync-sub013/api/responses"
	"github.com/Reshigan/SalesSync-sub013/api/validators"
	"github.com/Reshigan/SalesSync-sub013/internal/trademarketing"
	"github.com/Reshigan/SalesSync-sub013/pkg/enums"
	pkgerrors "github.com/Reshigan/SalesSync-sub013/pkg/errors"
	"github.com/Reshigan/SalesSync-sub013/pkg/logger"
)

type campaignCreateRequest struct {
	CampaignName      string                          `json:"campaign_name" validate:"required,min=3,max=255"`
	CampaignType      string                          `json:"campaign_type" validate:"required"`
	Description       *string                         `json:"description" validate:"omitempty,max=1000"`
	StartDate         time.Time                       `json:"start_date" validate:"required"`
	EndDate           time.Time                       `json:"end_date" validate:"required"`
	BudgetAllocated   decimal.Decimal                 `json:"budget_allocated"`
	BrandID           uuid.UUID                       `json:"brand_id" validate:"required"`
	CampaignManagerID uuid.UUID                       `json:"campaign_manager_id" validate:"required"`
	TargetAudience    json.RawMessage                 `json:"target_audience" validate:"required"`
	Objectives        []string                        `json:"objectives" validate:"required,min=1"`
	SuccessMetrics    json.RawMessage                 `json:"success_metrics" validate:"required"`
	ApprovalRequired  *bool                           `json:"approval_required"`
	Activities        []trademarketing.ActivityInput  `json:"activities"`
	BudgetBreakdown   []trademarketing.AllocationInput `json:"budget_breakdown"`
	PartnerIDs        []uuid.UUID                     `json:"partner_ids"`
}

func (r campaignCreateRequest) toInput() (trademarketing.CreateCampaignInput, error) {
	campaignType, err := enums.ParseCampaignType(strings.TrimSpace(r.CampaignType))
	if err != nil {
		return trademarketing.CreateCampaignInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid campaign type")
	}

	return trademarketing.CreateCampaignInput{
		CampaignName:      strings.TrimSpace(r.CampaignName),
		CampaignType:      campaignType,
		Description:       r.Description,
		StartDate:         r.StartDate,
		EndDate:           r.EndDate,
		BudgetAllocated:   r.BudgetAllocated,
		BrandID:           r.BrandID,
		CampaignManagerID: r.CampaignManagerID,
		TargetAudience:    r.TargetAudience,
		Objectives:        r.Objectives,
		SuccessMetrics:    r.SuccessMetrics,
		ApprovalRequired:  r.ApprovalRequired,
		Activities:        r.Activities,
		BudgetBreakdown:   r.BudgetBreakdown,
		PartnerIDs:        r.PartnerIDs,
	}, nil
}

// CampaignCreate handles creating a trade marketing campaign of any type.
func CampaignCreate(svc trademarketing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "campaign service unavailable"))
			return
		}

		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload campaignCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreateCampaign(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

type coopCampaignCreateRequest struct {
	campaignCreateRequest
	PartnerID                  uuid.UUID                           `json:"partner_id" validate:"required"`
	PartnerContributionPercent decimal.Decimal                     `json:"partner_contribution_percent"`
	PartnerContributionAmount  decimal.Decimal                     `json:"partner_contribution_amount"`
	MediaChannels              json.RawMessage                     `json:"media_channels"`
	CreativeAssets             json.RawMessage                     `json:"creative_assets"`
	ApprovalWorkflow           json.RawMessage                     `json:"approval_workflow"`
	PerformanceMetrics         json.RawMessage                     `json:"performance_metrics"`
	MediaBookings              []trademarketing.MediaBookingInput  `json:"media_bookings"`
}

// CoopCampaignCreate creates a co-op advertising campaign with media bookings.
func CoopCampaignCreate(svc trademarketing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "campaign service unavailable"))
			return
		}

		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload coopCampaignCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload.CampaignType = enums.CampaignTypeCoopAdvertising.String()
		base, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreateCoopCampaign(r.Context(), userID, trademarketing.CreateCoopCampaignInput{
			CreateCampaignInput:        base,
			PartnerID:                  payload.PartnerID,
			PartnerContributionPercent: payload.PartnerContributionPercent,
			PartnerContributionAmount:  payload.PartnerContributionAmount,
			MediaChannels:              payload.MediaChannels,
			CreativeAssets:             payload.CreativeAssets,
			ApprovalWorkflow:           payload.ApprovalWorkflow,
			PerformanceMetrics:         payload.PerformanceMetrics,
			MediaBookings:              payload.MediaBookings,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

type merchandisingCampaignCreateRequest struct {
	campaignCreateRequest
	DisplayType              string                                `json:"display_type" validate:"required"`
	MaterialRequirements     json.RawMessage                       `json:"material_requirements"`
	InstallationInstructions *string                               `json:"installation_instructions"`
	StoreLocations           json.RawMessage                       `json:"store_locations"`
	ExecutionTimeline        json.RawMessage                       `json:"execution_timeline"`
	ComplianceRequirements   json.RawMessage                       `json:"compliance_requirements"`
	PerformanceTracking      json.RawMessage                       `json:"performance_tracking"`
	StoreExecutions          []trademarketing.StoreExecutionInput  `json:"store_executions"`
}

// MerchandisingCampaignCreate creates a merchandising campaign with store rollouts.
func MerchandisingCampaignCreate(svc trademarketing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "campaign service unavailable"))
			return
		}

		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload merchandisingCampaignCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload.CampaignType = enums.CampaignTypeMerchandising.String()
		base, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreateMerchandisingCampaign(r.Context(), userID, trademarketing.CreateMerchandisingCampaignInput{
			CreateCampaignInput:      base,
			DisplayType:              payload.DisplayType,
			MaterialRequirements:     payload.MaterialRequirements,
			InstallationInstructions: payload.InstallationInstructions,
			StoreLocations:           payload.StoreLocations,
			ExecutionTimeline:        payload.ExecutionTimeline,
			ComplianceRequirements:   payload.ComplianceRequirements,
			PerformanceTracking:      payload.PerformanceTracking,
			StoreExecutions:          payload.StoreExecutions,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

type spendTrackRequest struct {
	ActivityID       *uuid.UUID      `json:"activity_id"`
	Category         string          `json:"category" validate:"required"`
	Subcategory      *string         `json:"subcategory"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency" validate:"omitempty,len=3"`
	SpendDate        *time.Time      `json:"spend_date"`
	VendorName       string          `json:"vendor_name" validate:"required,max=255"`
	InvoiceNumber    *string         `json:"invoice_number"`
	Description      string          `json:"description" validate:"required,max=500"`
	ApprovalRequired bool            `json:"approval_required"`
}

// CampaignSpendTrack records a trade spend entry against a campaign budget category.
func CampaignSpendTrack(svc trademarketing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "campaign service unavailable"))
			return
		}

		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		campaignID, err := uuid.Parse(chi.URLParam(r, "campaignId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid campaign id"))
			return
		}

		var payload spendTrackRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.TrackTradeSpend(r.Context(), userID, trademarketing.TrackSpendInput{
			CampaignID:       campaignID,
			ActivityID:       payload.ActivityID,
			Category:         strings.TrimSpace(payload.Category),
			Subcategory:      payload.Subcategory,
			Amount:           payload.Amount,
			Currency:         payload.Currency,
			SpendDate:        payload.SpendDate,
			VendorName:       payload.VendorName,
			InvoiceNumber:    payload.InvoiceNumber,
			Description:      payload.Description,
			ApprovalRequired: payload.ApprovalRequired,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// CampaignROI returns the return-on-investment report for a campaign.
func CampaignROI(svc trademarketing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "campaign service unavailable"))
			return
		}

		campaignID, err := uuid.Parse(chi.URLParam(r, "campaignId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid campaign id"))
			return
		}

		report, err := svc.CalculateCampaignROI(r.Context(), campaignID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}

// CampaignDashboard returns the full campaign performance view.
func CampaignDashboard(svc trademarketing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "campaign service unavailable"))
			return
		}

		campaignID, err := uuid.Parse(chi.URLParam(r, "campaignId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid campaign id"))
			return
		}

		dashboard, err := svc.GetCampaignDashboard(r.Context(), campaignID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dashboard)
	}
}

// CampaignWorkflowAdvance completes the current stage and enters the next one.
func CampaignWorkflowAdvance(svc trademarketing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "campaign service unavailable"))
			return
		}

		campaignID, err := uuid.Parse(chi.URLParam(r, "campaignId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid campaign id"))
			return
		}

		position, err := svc.AdvanceWorkflow(r.Context(), campaignID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, position)
	}
}
