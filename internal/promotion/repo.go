package promotion

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Reshigan/SalesSync-sub013/pkg/db/models"
	"github.com/Reshigan/SalesSync-sub013/pkg/pagination"
)

// Repository exposes promotion persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a promotion repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type listQuery struct {
	status string
	kind   string
	cursor *pagination.Cursor
	limit  int
}

// UsageMetrics aggregates the usage log for a promotion over a window.
type UsageMetrics struct {
	TotalUses          int64           `json:"total_uses"`
	TotalDiscountGiven decimal.Decimal `json:"total_discount_given"`
	UniqueCustomers    int64           `json:"unique_customers"`
	AverageDiscount    decimal.Decimal `json:"average_discount"`
}

// DailyUsage is one day of promotion usage.
type DailyUsage struct {
	UsageDate     string          `json:"usage_date"`
	DailyUses     int64           `json:"daily_uses"`
	DailyDiscount decimal.Decimal `json:"daily_discount"`
}

// Create inserts the promotion together with its rules, variants, and triggers
// in one transaction.
func (r *Repository) Create(ctx context.Context, promo *models.Promotion, rules []models.PromotionRule, variants []models.PromotionABTestVariant, triggers []models.PromotionTrigger) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(promo).Error; err != nil {
			return err
		}
		for i := range rules {
			rules[i].PromotionID = promo.ID
		}
		if len(rules) > 0 {
			if err := tx.Create(&rules).Error; err != nil {
				return err
			}
		}
		for i := range variants {
			variants[i].PromotionID = promo.ID
		}
		if len(variants) > 0 {
			if err := tx.Create(&variants).Error; err != nil {
				return err
			}
		}
		for i := range triggers {
			triggers[i].PromotionID = promo.ID
		}
		if len(triggers) > 0 {
			if err := tx.Create(&triggers).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID returns a single promotion.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	var promo models.Promotion
	if err := r.db.WithContext(ctx).First(&promo, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &promo, nil
}

// FindActiveByCode returns the promotion for a code if it is active, inside its
// date window, and not globally exhausted on the given day.
func (r *Repository) FindActiveByCode(ctx context.Context, code string, day time.Time) (*models.Promotion, error) {
	var promo models.Promotion
	err := r.db.WithContext(ctx).
		Where("promotion_code = ?", code).
		Where("status = ?", "active").
		Where("start_date <= ?", day).
		Where("end_date >= ?", day).
		Where("usage_limit IS NULL OR usage_count < usage_limit").
		First(&promo).Error
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

// List returns promotions using cursor pagination with optional status and
// type filters.
func (r *Repository) List(ctx context.Context, opts listQuery) ([]models.Promotion, error) {
	query := r.db.WithContext(ctx).Model(&models.Promotion{})

	if opts.status != "" {
		query = query.Where("status = ?", opts.status)
	}
	if opts.kind != "" {
		query = query.Where("promotion_type = ?", opts.kind)
	}
	if opts.cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", opts.cursor.CreatedAt, opts.cursor.CreatedAt, opts.cursor.ID)
	}

	query = query.Order("created_at DESC").Order("id DESC").Limit(opts.limit)

	var rows []models.Promotion
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ConsumeUsage increments the promotion usage counter and logs the usage in
// one transaction. The increment is guarded by the usage limit inside the
// UPDATE itself, so two concurrent applications can never both take the last
// slot. Returns false when the limit is already exhausted.
func (r *Repository) ConsumeUsage(ctx context.Context, promotionID uuid.UUID, usage *models.PromotionUsageLog) (bool, error) {
	consumed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Promotion{}).
			Where("id = ?", promotionID).
			Where("usage_limit IS NULL OR usage_count < usage_limit").
			UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		consumed = true

		usage.PromotionID = promotionID
		return tx.Create(usage).Error
	})
	if err != nil {
		return false, err
	}
	return consumed, nil
}

// CountCustomerUsage returns how many times a customer has used a promotion.
func (r *Repository) CountCustomerUsage(ctx context.Context, promotionID, customerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PromotionUsageLog{}).
		Where("promotion_id = ? AND customer_id = ?", promotionID, customerID).
		Count(&count).Error
	return count, err
}

// UsageMetrics aggregates the usage log over the window.
func (r *Repository) UsageMetrics(ctx context.Context, promotionID uuid.UUID, from, to time.Time) (*UsageMetrics, error) {
	var row struct {
		TotalUses          int64
		TotalDiscountGiven decimal.Decimal
		UniqueCustomers    int64
		AverageDiscount    decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&models.PromotionUsageLog{}).
		Select(
			"COUNT(*) AS total_uses",
			"COALESCE(SUM(discount_amount), 0) AS total_discount_given",
			"COUNT(DISTINCT customer_id) AS unique_customers",
			"COALESCE(AVG(discount_amount), 0) AS average_discount",
		).
		Where("promotion_id = ? AND used_at BETWEEN ? AND ?", promotionID, from, to).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &UsageMetrics{
		TotalUses:          row.TotalUses,
		TotalDiscountGiven: row.TotalDiscountGiven,
		UniqueCustomers:    row.UniqueCustomers,
		AverageDiscount:    row.AverageDiscount.Round(2),
	}, nil
}

// usageWindow is how long after a promotion use an order still counts as
// influenced revenue.
const usageWindow = 30 * 24 * time.Hour

// AttributedRevenue sums orders placed by customers within the attribution
// window after they used the promotion.
func (r *Repository) AttributedRevenue(ctx context.Context, promotionID uuid.UUID, from, to time.Time) (decimal.Decimal, int64, error) {
	var usages []models.PromotionUsageLog
	err := r.db.WithContext(ctx).
		Where("promotion_id = ?", promotionID).
		Find(&usages).Error
	if err != nil {
		return decimal.Zero, 0, err
	}
	if len(usages) == 0 {
		return decimal.Zero, 0, nil
	}

	customerIDs := make([]uuid.UUID, 0, len(usages))
	for _, usage := range usages {
		customerIDs = append(customerIDs, usage.CustomerID)
	}

	var orders []models.Order
	err = r.db.WithContext(ctx).
		Where("customer_id IN ?", customerIDs).
		Where("order_date BETWEEN ? AND ?", from, to).
		Find(&orders).Error
	if err != nil {
		return decimal.Zero, 0, err
	}

	total := decimal.Zero
	var attributed int64
	for _, order := range orders {
		for _, usage := range usages {
			if usage.CustomerID != order.CustomerID {
				continue
			}
			if order.OrderDate.Before(usage.UsedAt) || order.OrderDate.After(usage.UsedAt.Add(usageWindow)) {
				continue
			}
			total = total.Add(order.TotalAmount)
			attributed++
			break
		}
	}
	return total, attributed, nil
}

// DailyTrend groups usage by calendar day.
func (r *Repository) DailyTrend(ctx context.Context, promotionID uuid.UUID, from, to time.Time) ([]DailyUsage, error) {
	var rows []DailyUsage
	err := r.db.WithContext(ctx).Model(&models.PromotionUsageLog{}).
		Select(
			"DATE(used_at) AS usage_date",
			"COUNT(*) AS daily_uses",
			"COALESCE(SUM(discount_amount), 0) AS daily_discount",
		).
		Where("promotion_id = ? AND used_at BETWEEN ? AND ?", promotionID, from, to).
		Group("DATE(used_at)").
		Order("usage_date").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CustomerRepository reads the customer slice needed for eligibility checks.
type CustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository constructs a customer repository.
func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// SegmentByID returns the customer's segment.
func (r *CustomerRepository) SegmentByID(ctx context.Context, id uuid.UUID) (string, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).Select("customer_segment").First(&customer, "id = ?", id).Error; err != nil {
		return "", err
	}
	return customer.CustomerSegment, nil
}
