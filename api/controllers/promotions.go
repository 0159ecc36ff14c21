package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Reshigan/SalesSync-sub013/api/middleware"
	"github.com/Reshigan/SalesSync-sub013/api/responses"
	"github.com/Reshigan/SalesSync-sub013/api/validators"
	"github.com/Reshigan/SalesSync-sub013/internal/promotion"
	"github.com/Reshigan/SalesSync-sub013/pkg/enums"
	pkgerrors "github.com/Reshigan/SalesSync-sub013/pkg/errors"
	"github.com/Reshigan/SalesSync-sub013/pkg/logger"
	"github.com/Reshigan/SalesSync-sub013/pkg/types"
)

const defaultAnalyticsWindow = 30 * 24 * time.Hour

type promotionCreateRequest struct {
	PromotionName       string                    `json:"promotion_name" validate:"required,min=3,max=255"`
	PromotionType       string                    `json:"promotion_type" validate:"required"`
	Description         *string                   `json:"description" validate:"omitempty,max=1000"`
	StartDate           time.Time                 `json:"start_date" validate:"required"`
	EndDate             time.Time                 `json:"end_date" validate:"required"`
	Priority            int                       `json:"priority"`
	BudgetAllocated     decimal.Decimal           `json:"budget_allocated"`
	UsageLimit          *int                      `json:"usage_limit"`
	DiscountRules       types.DiscountRules       `json:"discount_rules"`
	EligibilityCriteria types.EligibilityCriteria `json:"eligibility_criteria"`
	TargetProducts      []uuid.UUID               `json:"target_products"`
	TargetCustomers     []uuid.UUID               `json:"target_customers"`
	Rules               []promotion.RuleInput     `json:"rules"`
	ABTestVariants      []promotion.VariantInput  `json:"ab_test_variants"`
	Triggers            []promotion.TriggerInput  `json:"triggers"`
}

func (r promotionCreateRequest) toInput() (promotion.CreatePromotionInput, error) {
	promotionType, err := enums.ParsePromotionType(strings.TrimSpace(r.PromotionType))
	if err != nil {
		return promotion.CreatePromotionInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid promotion type")
	}

	return promotion.CreatePromotionInput{
		PromotionName:       strings.TrimSpace(r.PromotionName),
		PromotionType:       promotionType,
		Description:         r.Description,
		StartDate:           r.StartDate,
		EndDate:             r.EndDate,
		Priority:            r.Priority,
		BudgetAllocated:     r.BudgetAllocated,
		UsageLimit:          r.UsageLimit,
		DiscountRules:       r.DiscountRules,
		EligibilityCriteria: r.EligibilityCriteria,
		TargetProducts:      r.TargetProducts,
		TargetCustomers:     r.TargetCustomers,
		Rules:               r.Rules,
		ABTestVariants:      r.ABTestVariants,
		Triggers:            r.Triggers,
	}, nil
}

// PromotionCreate handles creating a promotion with its rules, variants, and triggers.
func PromotionCreate(svc promotion.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotion service unavailable"))
			return
		}

		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload promotionCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreatePromotion(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

type orderItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type promotionApplyRequest struct {
	PromotionCode string             `json:"promotion_code" validate:"required"`
	CustomerID    uuid.UUID          `json:"customer_id" validate:"required"`
	Items         []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
}

// PromotionApply validates a code against an order and consumes one use.
func PromotionApply(svc promotion.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotion service unavailable"))
			return
		}

		var payload promotionApplyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]promotion.OrderItem, len(payload.Items))
		for i, item := range payload.Items {
			items[i] = promotion.OrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			}
		}

		applied, err := svc.ApplyPromotion(r.Context(), promotion.ApplyPromotionInput{
			PromotionCode: payload.PromotionCode,
			CustomerID:    payload.CustomerID,
			Items:         items,
			Subtotal:      payload.Subtotal,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, applied)
	}
}

// PromotionAnalytics returns the usage and ROI report for a date range.
func PromotionAnalytics(svc promotion.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotion service unavailable"))
			return
		}

		promotionID, err := uuid.Parse(chi.URLParam(r, "promotionId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid promotion id"))
			return
		}

		now := time.Now()
		from, err := validators.ParseQueryDate(r, "from", now.Add(-defaultAnalyticsWindow))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := validators.ParseQueryDate(r, "to", now)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.GetPromotionAnalytics(r.Context(), promotionID, from, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}

// PromotionList returns a cursor-paginated promotion page.
func PromotionList(svc promotion.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotion service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListPromotions(r.Context(), promotion.ListParams{
			Status: strings.TrimSpace(r.URL.Query().Get("status")),
			Type:   strings.TrimSpace(r.URL.Query().Get("type")),
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			Limit:  limit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func actorID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return userID, nil
}
