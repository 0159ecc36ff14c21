package promotion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/Reshigan/SalesSync-sub013/pkg/db/models"
	dbtypes "github.com/Reshigan/SalesSync-sub013/pkg/db/types"
	"github.com/Reshigan/SalesSync-sub013/pkg/enums"
	pkgerrors "github.com/Reshigan/SalesSync-sub013/pkg/errors"
	"github.com/Reshigan/SalesSync-sub013/pkg/metrics"
	pkgpagination "github.com/Reshigan/SalesSync-sub013/pkg/pagination"
	"github.com/Reshigan/SalesSync-sub013/pkg/types"
)

type promotionsRepository interface {
	Create(ctx context.Context, promo *models.Promotion, rules []models.PromotionRule, variants []models.PromotionABTestVariant, triggers []models.PromotionTrigger) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Promotion, error)
	FindActiveByCode(ctx context.Context, code string, day time.Time) (*models.Promotion, error)
	List(ctx context.Context, opts listQuery) ([]models.Promotion, error)
	ConsumeUsage(ctx context.Context, promotionID uuid.UUID, usage *models.PromotionUsageLog) (bool, error)
	CountCustomerUsage(ctx context.Context, promotionID, customerID uuid.UUID) (int64, error)
	UsageMetrics(ctx context.Context, promotionID uuid.UUID, from, to time.Time) (*UsageMetrics, error)
	AttributedRevenue(ctx context.Context, promotionID uuid.UUID, from, to time.Time) (decimal.Decimal, int64, error)
	DailyTrend(ctx context.Context, promotionID uuid.UUID, from, to time.Time) ([]DailyUsage, error)
}

type customersRepository interface {
	SegmentByID(ctx context.Context, id uuid.UUID) (string, error)
}

type sequencer interface {
	NextSequence(ctx context.Context, name string, ttl time.Duration) (int64, error)
}

type cacheStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(parts ...string) string
}

// Service exposes promotion creation, application, analytics, and listing.
type Service interface {
	CreatePromotion(ctx context.Context, userID uuid.UUID, input CreatePromotionInput) (*CreatePromotionResult, error)
	ApplyPromotion(ctx context.Context, input ApplyPromotionInput) (*AppliedPromotion, error)
	GetPromotionAnalytics(ctx context.Context, promotionID uuid.UUID, from, to time.Time) (*Analytics, error)
	ListPromotions(ctx context.Context, params ListParams) (*ListResult, error)
}

type service struct {
	repo        promotionsRepository
	customers   customersRepository
	seq         sequencer
	cache       cacheStore
	cacheTTL    time.Duration
	sequenceTTL time.Duration
	metrics     *metrics.PromotionMetrics
	now         func() time.Time
}

// NewService builds a promotion service backed by the provided repositories
// and Redis helpers. Metrics may be nil.
func NewService(repo promotionsRepository, customers customersRepository, seq sequencer, cache cacheStore, cacheTTL, sequenceTTL time.Duration, promMetrics *metrics.PromotionMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("promotion repository required")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if seq == nil {
		return nil, fmt.Errorf("sequencer required")
	}
	if cache == nil {
		return nil, fmt.Errorf("cache store required")
	}
	if cacheTTL <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive")
	}
	if sequenceTTL <= 0 {
		return nil, fmt.Errorf("sequence ttl must be positive")
	}
	return &service{
		repo:        repo,
		customers:   customers,
		seq:         seq,
		cache:       cache,
		cacheTTL:    cacheTTL,
		sequenceTTL: sequenceTTL,
		metrics:     promMetrics,
		now:         time.Now,
	}, nil
}

// RuleInput describes an auxiliary rule attached at creation time.
type RuleInput struct {
	RuleName   string          `json:"rule_name"`
	RuleType   string          `json:"rule_type"`
	Conditions json.RawMessage `json:"conditions"`
	Actions    json.RawMessage `json:"actions"`
	Priority   int             `json:"priority"`
}

// VariantInput describes one experiment arm attached at creation time.
type VariantInput struct {
	VariantName       string          `json:"variant_name"`
	VariantConfig     json.RawMessage `json:"variant_config"`
	TrafficAllocation decimal.Decimal `json:"traffic_allocation"`
}

// TriggerInput describes an automated activation rule.
type TriggerInput struct {
	TriggerType       enums.PromotionTriggerType `json:"trigger_type"`
	TriggerConditions json.RawMessage            `json:"trigger_conditions"`
	TriggerActions    json.RawMessage            `json:"trigger_actions"`
}

// CreatePromotionInput holds everything needed to create a promotion.
type CreatePromotionInput struct {
	PromotionName       string
	PromotionType       enums.PromotionType
	Description         *string
	StartDate           time.Time
	EndDate             time.Time
	Priority            int
	BudgetAllocated     decimal.Decimal
	UsageLimit          *int
	DiscountRules       types.DiscountRules
	EligibilityCriteria types.EligibilityCriteria
	TargetProducts      []uuid.UUID
	TargetCustomers     []uuid.UUID
	Rules               []RuleInput
	ABTestVariants      []VariantInput
	Triggers            []TriggerInput
}

// CreatePromotionResult is returned after a successful creation.
type CreatePromotionResult struct {
	PromotionID   uuid.UUID `json:"promotion_id"`
	PromotionCode string    `json:"promotion_code"`
}

// ApplyPromotionInput is the order context a code is applied against.
type ApplyPromotionInput struct {
	PromotionCode string
	CustomerID    uuid.UUID
	Items         []OrderItem
	Subtotal      decimal.Decimal
}

// AppliedPromotion is the outcome of a successful application.
type AppliedPromotion struct {
	PromotionID       uuid.UUID        `json:"promotion_id"`
	PromotionCode     string           `json:"promotion_code"`
	PromotionName     string           `json:"promotion_name"`
	DiscountAmount    decimal.Decimal  `json:"discount_amount"`
	DiscountBreakdown []BreakdownEntry `json:"discount_breakdown"`
	AppliedAt         time.Time        `json:"applied_at"`
}

// AnalyticsMetrics is the aggregate block of a promotion analytics report.
type AnalyticsMetrics struct {
	TotalUses           int64           `json:"total_uses"`
	TotalDiscountGiven  decimal.Decimal `json:"total_discount_given"`
	UniqueCustomers     int64           `json:"unique_customers"`
	AverageDiscount     decimal.Decimal `json:"average_discount"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	OrdersWithPromotion int64           `json:"orders_with_promotion"`
	ROIPercentage       decimal.Decimal `json:"roi_percentage"`
}

// Analytics is a promotion performance report over a date range.
type Analytics struct {
	PromotionID  uuid.UUID        `json:"promotion_id"`
	From         time.Time        `json:"from"`
	To           time.Time        `json:"to"`
	Metrics      AnalyticsMetrics `json:"metrics"`
	DailyTrend   []DailyUsage     `json:"daily_trend"`
	CalculatedAt time.Time        `json:"calculated_at"`
}

// ListParams filters and paginates the promotion list.
type ListParams struct {
	Status string
	Type   string
	Cursor string
	Limit  int
}

// ListResult is one page of promotions.
type ListResult struct {
	Items  []models.Promotion `json:"items"`
	Cursor string             `json:"cursor,omitempty"`
}

func (s *service) CreatePromotion(ctx context.Context, userID uuid.UUID, input CreatePromotionInput) (*CreatePromotionResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	code, err := s.generateCode(ctx, input.PromotionType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "generate promotion code")
	}

	priority := input.Priority
	if priority == 0 {
		priority = 1
	}

	promo := &models.Promotion{
		ID:                  uuid.New(),
		PromotionCode:       code,
		PromotionName:       strings.TrimSpace(input.PromotionName),
		PromotionType:       input.PromotionType,
		Description:         input.Description,
		StartDate:           input.StartDate,
		EndDate:             input.EndDate,
		Status:              enums.PromotionStatusDraft,
		Priority:            priority,
		BudgetAllocated:     input.BudgetAllocated,
		UsageLimit:          input.UsageLimit,
		UsageCount:          0,
		DiscountRules:       input.DiscountRules,
		EligibilityCriteria: input.EligibilityCriteria,
		TargetProducts:      dbtypes.UUIDArray(input.TargetProducts),
		TargetCustomers:     dbtypes.UUIDArray(input.TargetCustomers),
		CreatedBy:           userID,
	}

	rules := make([]models.PromotionRule, len(input.Rules))
	for i, rule := range input.Rules {
		rulePriority := rule.Priority
		if rulePriority == 0 {
			rulePriority = 1
		}
		rules[i] = models.PromotionRule{
			ID:         uuid.New(),
			RuleName:   rule.RuleName,
			RuleType:   rule.RuleType,
			Conditions: rule.Conditions,
			Actions:    rule.Actions,
			Priority:   rulePriority,
			IsActive:   true,
			CreatedBy:  userID,
		}
	}

	variants := make([]models.PromotionABTestVariant, len(input.ABTestVariants))
	for i, variant := range input.ABTestVariants {
		variants[i] = models.PromotionABTestVariant{
			ID:                uuid.New(),
			VariantName:       variant.VariantName,
			VariantConfig:     variant.VariantConfig,
			TrafficAllocation: variant.TrafficAllocation,
			IsActive:          true,
			CreatedBy:         userID,
		}
	}

	triggers := make([]models.PromotionTrigger, len(input.Triggers))
	for i, trigger := range input.Triggers {
		triggers[i] = models.PromotionTrigger{
			ID:                uuid.New(),
			TriggerType:       trigger.TriggerType,
			TriggerConditions: trigger.TriggerConditions,
			TriggerActions:    trigger.TriggerActions,
			IsActive:          true,
			CreatedBy:         userID,
		}
	}

	if err := s.repo.Create(ctx, promo, rules, variants, triggers); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create promotion")
	}

	s.cachePromotion(ctx, promo)

	return &CreatePromotionResult{
		PromotionID:   promo.ID,
		PromotionCode: promo.PromotionCode,
	}, nil
}

func (s *service) ApplyPromotion(ctx context.Context, input ApplyPromotionInput) (*AppliedPromotion, error) {
	if strings.TrimSpace(input.PromotionCode) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promotion_code is required")
	}
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer_id is required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order items are required")
	}
	for i, item := range input.Items {
		if item.ProductID == uuid.Nil || item.Quantity < 1 || item.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("order item %d is invalid", i))
		}
	}

	subtotal := input.Subtotal
	if subtotal.IsZero() {
		for _, item := range input.Items {
			subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
	}

	promo, err := s.repo.FindActiveByCode(ctx, strings.TrimSpace(input.PromotionCode), s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.IncRejected("invalid_code")
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invalid or expired promotion code")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup promotion")
	}

	if err := s.checkEligibility(ctx, promo, input.CustomerID, input.Items); err != nil {
		return nil, err
	}

	calc, err := CalculateDiscount(promo.PromotionType, promo.DiscountRules, input.Items, subtotal)
	if err != nil {
		return nil, err
	}

	breakdown, err := json.Marshal(calc.Breakdown)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode discount breakdown")
	}

	appliedAt := s.now()
	usage := &models.PromotionUsageLog{
		ID:                uuid.New(),
		CustomerID:        input.CustomerID,
		DiscountAmount:    calc.TotalDiscount,
		DiscountBreakdown: breakdown,
		UsedAt:            appliedAt,
	}

	consumed, err := s.repo.ConsumeUsage(ctx, promo.ID, usage)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "consume promotion usage")
	}
	if !consumed {
		s.metrics.IncRejected("usage_limit_exhausted")
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "promotion usage limit reached")
	}

	s.metrics.IncApplied(promo.PromotionType.String())

	return &AppliedPromotion{
		PromotionID:       promo.ID,
		PromotionCode:     promo.PromotionCode,
		PromotionName:     promo.PromotionName,
		DiscountAmount:    calc.TotalDiscount,
		DiscountBreakdown: calc.Breakdown,
		AppliedAt:         appliedAt,
	}, nil
}

// checkEligibility runs the gates in a fixed order so callers always see the
// first failing reason: segment, minimum order value, target products, then
// per-customer cap.
func (s *service) checkEligibility(ctx context.Context, promo *models.Promotion, customerID uuid.UUID, items []OrderItem) error {
	criteria := promo.EligibilityCriteria

	if len(criteria.CustomerSegments) > 0 {
		segment, err := s.customers.SegmentByID(ctx, customerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				s.metrics.IncRejected("customer_not_found")
				return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup customer segment")
		}
		eligible := false
		for _, candidate := range criteria.CustomerSegments {
			if candidate == segment {
				eligible = true
				break
			}
		}
		if !eligible {
			s.metrics.IncRejected("segment_not_eligible")
			return pkgerrors.New(pkgerrors.CodeConflict, "customer segment not eligible")
		}
	}

	if criteria.MinOrderValue != nil {
		orderValue := decimal.Zero
		for _, item := range items {
			orderValue = orderValue.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		if orderValue.LessThan(*criteria.MinOrderValue) {
			s.metrics.IncRejected("min_order_value")
			return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("minimum order value of %s not met", criteria.MinOrderValue))
		}
	}

	if len(promo.TargetProducts) > 0 {
		found := false
		for _, item := range items {
			if promo.TargetProducts.Contains(item.ProductID) {
				found = true
				break
			}
		}
		if !found {
			s.metrics.IncRejected("no_eligible_products")
			return pkgerrors.New(pkgerrors.CodeConflict, "no eligible products in order")
		}
	}

	if criteria.MaxUsesPerCustomer != nil {
		count, err := s.repo.CountCustomerUsage(ctx, promo.ID, customerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count customer usage")
		}
		if count >= int64(*criteria.MaxUsesPerCustomer) {
			s.metrics.IncRejected("customer_usage_limit")
			return pkgerrors.New(pkgerrors.CodeConflict, "customer usage limit exceeded")
		}
	}

	return nil
}

func (s *service) GetPromotionAnalytics(ctx context.Context, promotionID uuid.UUID, from, to time.Time) (*Analytics, error) {
	if promotionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promotion id is required")
	}
	if !to.After(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date range is invalid")
	}

	if _, err := s.repo.FindByID(ctx, promotionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "promotion not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup promotion")
	}

	usage, err := s.repo.UsageMetrics(ctx, promotionID, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate promotion usage")
	}

	revenue, ordersAttributed, err := s.repo.AttributedRevenue(ctx, promotionID, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate attributed revenue")
	}

	trend, err := s.repo.DailyTrend(ctx, promotionID, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate daily trend")
	}

	roi := decimal.Zero
	if usage.TotalDiscountGiven.IsPositive() {
		roi = revenue.Sub(usage.TotalDiscountGiven).
			Div(usage.TotalDiscountGiven).
			Mul(oneHundred).
			Round(2)
	}

	return &Analytics{
		PromotionID: promotionID,
		From:        from,
		To:          to,
		Metrics: AnalyticsMetrics{
			TotalUses:           usage.TotalUses,
			TotalDiscountGiven:  usage.TotalDiscountGiven,
			UniqueCustomers:     usage.UniqueCustomers,
			AverageDiscount:     usage.AverageDiscount,
			TotalRevenue:        revenue,
			OrdersWithPromotion: ordersAttributed,
			ROIPercentage:       roi,
		},
		DailyTrend:   trend,
		CalculatedAt: s.now(),
	}, nil
}

func (s *service) ListPromotions(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.Status != "" && !enums.PromotionStatus(params.Status).IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	if params.Type != "" {
		if _, err := enums.ParsePromotionType(params.Type); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid type filter")
		}
	}

	limit := pkgpagination.NormalizeLimit(params.Limit)
	query := listQuery{
		status: params.Status,
		kind:   params.Type,
		limit:  pkgpagination.LimitWithBuffer(params.Limit),
	}
	if params.Cursor != "" {
		cursor, err := pkgpagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.cursor = cursor
	}

	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list promotions")
	}

	nextCursor := ""
	if len(rows) > limit {
		nextCursor = pkgpagination.EncodeCursor(pkgpagination.Cursor{
			CreatedAt: rows[limit].CreatedAt,
			ID:        rows[limit].ID,
		})
		rows = rows[:limit]
	}

	return &ListResult{
		Items:  rows,
		Cursor: nextCursor,
	}, nil
}

// generateCode builds codes like PCT2509001: type prefix, two-digit year,
// two-digit month, then a three-digit per-month sequence from Redis.
func (s *service) generateCode(ctx context.Context, promotionType enums.PromotionType) (string, error) {
	now := s.now()
	yymm := now.Format("0601")
	name := fmt.Sprintf("promotion:%s:%s", promotionType, yymm)
	seq, err := s.seq.NextSequence(ctx, name, s.sequenceTTL)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s%03d", promotionType.CodePrefix(), yymm, seq), nil
}

func (s *service) cachePromotion(ctx context.Context, promo *models.Promotion) {
	payload, err := json.Marshal(promo)
	if err != nil {
		return
	}
	// Cache writes are best effort; a miss just falls back to the database.
	_ = s.cache.Set(ctx, s.cache.CacheKey("promotion", promo.ID.String()), payload, s.cacheTTL)
}

func validateCreateInput(input CreatePromotionInput) error {
	var errs error

	name := strings.TrimSpace(input.PromotionName)
	if len(name) < 3 || len(name) > 255 {
		errs = multierr.Append(errs, fmt.Errorf("promotion_name must be 3-255 characters"))
	}
	if !input.PromotionType.IsValid() {
		errs = multierr.Append(errs, fmt.Errorf("invalid promotion_type"))
	}
	if input.Description != nil && len(*input.Description) > 1000 {
		errs = multierr.Append(errs, fmt.Errorf("description too long"))
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		errs = multierr.Append(errs, fmt.Errorf("start_date and end_date are required"))
	} else if !input.EndDate.After(input.StartDate) {
		errs = multierr.Append(errs, fmt.Errorf("end_date must be after start_date"))
	}
	if input.Priority < 0 || input.Priority > 10 {
		errs = multierr.Append(errs, fmt.Errorf("priority must be between 1 and 10"))
	}
	if input.BudgetAllocated.IsNegative() {
		errs = multierr.Append(errs, fmt.Errorf("budget_allocated cannot be negative"))
	}
	if input.UsageLimit != nil && *input.UsageLimit < 1 {
		errs = multierr.Append(errs, fmt.Errorf("usage_limit must be at least 1"))
	}
	if input.PromotionType.IsValid() {
		if err := input.DiscountRules.Validate(input.PromotionType); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	if errs != nil {
		details := make([]string, 0)
		for _, e := range multierr.Errors(errs) {
			details = append(details, e.Error())
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "promotion validation failed").WithDetails(details)
	}
	return nil
}
