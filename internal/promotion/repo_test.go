package promotion

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Reshigan/SalesSync-sub013/pkg/db/models"
	"github.com/Reshigan/SalesSync-sub013/pkg/enums"
	"github.com/Reshigan/SalesSync-sub013/pkg/types"
)

func setupPromotionTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	promotions := `
CREATE TABLE IF NOT EXISTS promotions (
  id TEXT PRIMARY KEY,
  promotion_code TEXT NOT NULL UNIQUE,
  promotion_name TEXT NOT NULL,
  promotion_type TEXT NOT NULL,
  description TEXT,
  start_date DATETIME NOT NULL,
  end_date DATETIME NOT NULL,
  status TEXT NOT NULL DEFAULT 'draft',
  priority INTEGER NOT NULL DEFAULT 1,
  budget_allocated NUMERIC NOT NULL DEFAULT 0,
  usage_limit INTEGER,
  usage_count INTEGER NOT NULL DEFAULT 0,
  discount_rules TEXT NOT NULL,
  eligibility_criteria TEXT NOT NULL,
  target_products TEXT NOT NULL DEFAULT '{}',
  target_customers TEXT NOT NULL DEFAULT '{}',
  created_by TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	usageLog := `
CREATE TABLE IF NOT EXISTS promotion_usage_log (
  id TEXT PRIMARY KEY,
  promotion_id TEXT NOT NULL,
  customer_id TEXT NOT NULL,
  discount_amount NUMERIC NOT NULL,
  discount_breakdown TEXT,
  used_at DATETIME NOT NULL
);`
	rules := `
CREATE TABLE IF NOT EXISTS promotion_rules (
  id TEXT PRIMARY KEY,
  promotion_id TEXT NOT NULL,
  rule_name TEXT NOT NULL,
  rule_type TEXT NOT NULL,
  conditions TEXT,
  actions TEXT,
  priority INTEGER NOT NULL DEFAULT 1,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_by TEXT NOT NULL,
  created_at DATETIME
);`
	customers := `
CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  customer_name TEXT NOT NULL,
  customer_segment TEXT NOT NULL,
  created_at DATETIME
);`
	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  total_amount NUMERIC NOT NULL,
  order_date DATETIME NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(promotions).Error)
	require.NoError(t, db.Exec(usageLog).Error)
	require.NoError(t, db.Exec(rules).Error)
	require.NoError(t, db.Exec(customers).Error)
	require.NoError(t, db.Exec(orders).Error)

	t.Cleanup(func() {
		db.Exec("DELETE FROM promotion_usage_log")
		db.Exec("DELETE FROM promotion_rules")
		db.Exec("DELETE FROM promotions")
		db.Exec("DELETE FROM customers")
		db.Exec("DELETE FROM orders")
	})
	return db
}

func newPromotion(t *testing.T, db *gorm.DB, code string, usageLimit *int) *models.Promotion {
	t.Helper()

	promo := &models.Promotion{
		ID:            uuid.New(),
		PromotionCode: code,
		PromotionName: "Test Promotion",
		PromotionType: enums.PromotionTypePercentageDiscount,
		StartDate:     time.Now().Add(-24 * time.Hour),
		EndDate:       time.Now().Add(24 * time.Hour),
		Status:        enums.PromotionStatusActive,
		Priority:      1,
		UsageLimit:    usageLimit,
		DiscountRules: types.DiscountRules{
			Percentage: &types.PercentageDiscountRules{DiscountPercentage: dec("10")},
		},
		CreatedBy: uuid.New(),
	}
	require.NoError(t, db.Create(promo).Error)
	return promo
}

func newUsage(customerID uuid.UUID, usedAt time.Time) *models.PromotionUsageLog {
	return &models.PromotionUsageLog{
		ID:             uuid.New(),
		CustomerID:     customerID,
		DiscountAmount: dec("25"),
		UsedAt:         usedAt,
	}
}

func TestRepositoryCreateWithRules(t *testing.T) {
	db := setupPromotionTestDB(t)
	repo := NewRepository(db)

	promo := &models.Promotion{
		ID:            uuid.New(),
		PromotionCode: "PCT2509001",
		PromotionName: "Bundle Week",
		PromotionType: enums.PromotionTypePercentageDiscount,
		StartDate:     time.Now(),
		EndDate:       time.Now().Add(48 * time.Hour),
		Status:        enums.PromotionStatusDraft,
		Priority:      1,
		DiscountRules: types.DiscountRules{
			Percentage: &types.PercentageDiscountRules{DiscountPercentage: dec("5")},
		},
		CreatedBy: uuid.New(),
	}
	rules := []models.PromotionRule{
		{ID: uuid.New(), RuleName: "first", RuleType: "custom", Priority: 1, IsActive: true, CreatedBy: promo.CreatedBy},
	}

	require.NoError(t, repo.Create(context.Background(), promo, rules, nil, nil))

	loaded, err := repo.FindByID(context.Background(), promo.ID)
	require.NoError(t, err)
	assert.Equal(t, "PCT2509001", loaded.PromotionCode)
	require.NotNil(t, loaded.DiscountRules.Percentage)
	assert.True(t, loaded.DiscountRules.Percentage.DiscountPercentage.Equal(dec("5")))

	var ruleCount int64
	require.NoError(t, db.Model(&models.PromotionRule{}).Where("promotion_id = ?", promo.ID).Count(&ruleCount).Error)
	assert.Equal(t, int64(1), ruleCount)
}

func TestRepositoryFindActiveByCode(t *testing.T) {
	db := setupPromotionTestDB(t)
	repo := NewRepository(db)

	active := newPromotion(t, db, "PCT2509010", nil)

	expired := newPromotion(t, db, "PCT2508001", nil)
	require.NoError(t, db.Model(expired).UpdateColumn("end_date", time.Now().Add(-48*time.Hour)).Error)

	draft := newPromotion(t, db, "PCT2509011", nil)
	require.NoError(t, db.Model(draft).UpdateColumn("status", "draft").Error)

	found, err := repo.FindActiveByCode(context.Background(), "PCT2509010", time.Now())
	require.NoError(t, err)
	assert.Equal(t, active.ID, found.ID)

	_, err = repo.FindActiveByCode(context.Background(), "PCT2508001", time.Now())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.FindActiveByCode(context.Background(), "PCT2509011", time.Now())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryFindActiveByCodeSkipsExhausted(t *testing.T) {
	db := setupPromotionTestDB(t)
	repo := NewRepository(db)

	limit := 1
	promo := newPromotion(t, db, "PCT2509020", &limit)
	require.NoError(t, db.Model(promo).UpdateColumn("usage_count", 1).Error)

	_, err := repo.FindActiveByCode(context.Background(), "PCT2509020", time.Now())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryConsumeUsageGuardsLimit(t *testing.T) {
	db := setupPromotionTestDB(t)
	repo := NewRepository(db)

	limit := 2
	promo := newPromotion(t, db, "PCT2509030", &limit)
	customerID := uuid.New()

	consumed, err := repo.ConsumeUsage(context.Background(), promo.ID, newUsage(customerID, time.Now()))
	require.NoError(t, err)
	assert.True(t, consumed)

	consumed, err = repo.ConsumeUsage(context.Background(), promo.ID, newUsage(customerID, time.Now()))
	require.NoError(t, err)
	assert.True(t, consumed)

	// Limit reached: increment must be refused and no usage row written.
	consumed, err = repo.ConsumeUsage(context.Background(), promo.ID, newUsage(customerID, time.Now()))
	require.NoError(t, err)
	assert.False(t, consumed)

	loaded, err := repo.FindByID(context.Background(), promo.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.UsageCount)

	count, err := repo.CountCustomerUsage(context.Background(), promo.ID, customerID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestRepositoryConsumeUsageUnlimited(t *testing.T) {
	db := setupPromotionTestDB(t)
	repo := NewRepository(db)

	promo := newPromotion(t, db, "PCT2509040", nil)

	for i := 0; i < 5; i++ {
		consumed, err := repo.ConsumeUsage(context.Background(), promo.ID, newUsage(uuid.New(), time.Now()))
		require.NoError(t, err)
		assert.True(t, consumed)
	}

	loaded, err := repo.FindByID(context.Background(), promo.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, loaded.UsageCount)
}

func TestRepositoryUsageMetricsAndTrend(t *testing.T) {
	db := setupPromotionTestDB(t)
	repo := NewRepository(db)

	promo := newPromotion(t, db, "PCT2509050", nil)
	customer := uuid.New()
	base := time.Date(2025, time.September, 10, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		usage := newUsage(customer, base.Add(time.Duration(i)*24*time.Hour))
		usage.PromotionID = promo.ID
		require.NoError(t, db.Create(usage).Error)
	}

	metrics, err := repo.UsageMetrics(context.Background(), promo.ID, base.Add(-time.Hour), base.Add(5*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(3), metrics.TotalUses)
	assert.Equal(t, int64(1), metrics.UniqueCustomers)
	assert.True(t, metrics.TotalDiscountGiven.Equal(dec("75")), "got %s", metrics.TotalDiscountGiven)
	assert.True(t, metrics.AverageDiscount.Equal(dec("25")), "got %s", metrics.AverageDiscount)

	trend, err := repo.DailyTrend(context.Background(), promo.ID, base.Add(-time.Hour), base.Add(5*24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, trend, 3)
}

func TestRepositoryAttributedRevenueWindow(t *testing.T) {
	db := setupPromotionTestDB(t)
	repo := NewRepository(db)

	promo := newPromotion(t, db, "PCT2509060", nil)
	customer := uuid.New()
	usedAt := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)

	usage := newUsage(customer, usedAt)
	usage.PromotionID = promo.ID
	require.NoError(t, db.Create(usage).Error)

	inWindow := &models.Order{ID: uuid.New(), CustomerID: customer, TotalAmount: dec("400"), OrderDate: usedAt.Add(10 * 24 * time.Hour)}
	outOfWindow := &models.Order{ID: uuid.New(), CustomerID: customer, TotalAmount: dec("900"), OrderDate: usedAt.Add(45 * 24 * time.Hour)}
	otherCustomer := &models.Order{ID: uuid.New(), CustomerID: uuid.New(), TotalAmount: dec("100"), OrderDate: usedAt.Add(5 * 24 * time.Hour)}
	require.NoError(t, db.Create(inWindow).Error)
	require.NoError(t, db.Create(outOfWindow).Error)
	require.NoError(t, db.Create(otherCustomer).Error)

	revenue, orders, err := repo.AttributedRevenue(context.Background(), promo.ID, usedAt.Add(-time.Hour), usedAt.Add(60*24*time.Hour))
	require.NoError(t, err)
	assert.True(t, revenue.Equal(dec("400")), "got %s", revenue)
	assert.Equal(t, int64(1), orders)
}

func TestRepositoryListFiltersAndOrders(t *testing.T) {
	db := setupPromotionTestDB(t)
	repo := NewRepository(db)

	first := newPromotion(t, db, "PCT2509070", nil)
	require.NoError(t, db.Model(first).UpdateColumn("created_at", time.Now().Add(-2*time.Hour)).Error)
	second := newPromotion(t, db, "PCT2509071", nil)
	require.NoError(t, db.Model(second).UpdateColumn("created_at", time.Now().Add(-time.Hour)).Error)
	draft := newPromotion(t, db, "PCT2509072", nil)
	require.NoError(t, db.Model(draft).UpdateColumn("status", "draft").Error)

	rows, err := repo.List(context.Background(), listQuery{status: "active", limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, second.ID, rows[0].ID)
	assert.Equal(t, first.ID, rows[1].ID)
}

func TestCustomerRepositorySegment(t *testing.T) {
	db := setupPromotionTestDB(t)
	repo := NewCustomerRepository(db)

	customer := &models.Customer{ID: uuid.New(), CustomerName: "Umlazi Spaza", CustomerSegment: "gold"}
	require.NoError(t, db.Create(customer).Error)

	segment, err := repo.SegmentByID(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "gold", segment)

	_, err = repo.SegmentByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
