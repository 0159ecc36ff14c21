package promotion

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Reshigan/SalesSync-sub013/pkg/enums"
	"github.com/Reshigan/SalesSync-sub013/pkg/types"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func decPtr(value string) *decimal.Decimal {
	d := dec(value)
	return &d
}

func TestCalculatePercentageDiscount(t *testing.T) {
	rules := types.DiscountRules{
		Percentage: &types.PercentageDiscountRules{DiscountPercentage: dec("10")},
	}

	calc, err := CalculateDiscount(enums.PromotionTypePercentageDiscount, rules, nil, dec("1000"))
	require.NoError(t, err)
	assert.True(t, calc.TotalDiscount.Equal(dec("100")), "got %s", calc.TotalDiscount)
	require.Len(t, calc.Breakdown, 1)
	assert.Equal(t, "percentage", calc.Breakdown[0].Type)
}

func TestCalculatePercentageDiscountCappedAtMax(t *testing.T) {
	rules := types.DiscountRules{
		Percentage: &types.PercentageDiscountRules{
			DiscountPercentage: dec("10"),
			MaxDiscountAmount:  decPtr("50"),
		},
	}

	calc, err := CalculateDiscount(enums.PromotionTypePercentageDiscount, rules, nil, dec("1000"))
	require.NoError(t, err)
	assert.True(t, calc.TotalDiscount.Equal(dec("50")), "got %s", calc.TotalDiscount)
}

func TestCalculateFixedDiscountClampedToSubtotal(t *testing.T) {
	rules := types.DiscountRules{
		Fixed: &types.FixedDiscountRules{DiscountAmount: dec("150")},
	}

	calc, err := CalculateDiscount(enums.PromotionTypeFixedDiscount, rules, nil, dec("100"))
	require.NoError(t, err)
	assert.True(t, calc.TotalDiscount.Equal(dec("100")), "got %s", calc.TotalDiscount)

	calc, err = CalculateDiscount(enums.PromotionTypeFixedDiscount, rules, nil, dec("500"))
	require.NoError(t, err)
	assert.True(t, calc.TotalDiscount.Equal(dec("150")), "got %s", calc.TotalDiscount)
}

func TestCalculateBuyXGetYDiscount(t *testing.T) {
	productID := uuid.New()
	rules := types.DiscountRules{
		BuyXGetY: &types.BuyXGetYRules{BuyQuantity: 2, GetQuantity: 1},
	}
	items := []OrderItem{
		{ProductID: productID, Quantity: 5, UnitPrice: dec("20")},
	}

	// floor(5/2)*1 = 2 free units at 20 each
	calc, err := CalculateDiscount(enums.PromotionTypeBuyXGetY, rules, items, dec("100"))
	require.NoError(t, err)
	assert.True(t, calc.TotalDiscount.Equal(dec("40")), "got %s", calc.TotalDiscount)
	require.Len(t, calc.Breakdown[0].FreeItems, 1)
	assert.Equal(t, 2, calc.Breakdown[0].FreeItems[0].FreeQuantity)
}

func TestCalculateBuyXGetYMaxFreeItems(t *testing.T) {
	maxFree := 1
	rules := types.DiscountRules{
		BuyXGetY: &types.BuyXGetYRules{BuyQuantity: 2, GetQuantity: 1, MaxFreeItems: &maxFree},
	}
	items := []OrderItem{
		{ProductID: uuid.New(), Quantity: 10, UnitPrice: dec("20")},
	}

	calc, err := CalculateDiscount(enums.PromotionTypeBuyXGetY, rules, items, dec("200"))
	require.NoError(t, err)
	assert.True(t, calc.TotalDiscount.Equal(dec("20")), "got %s", calc.TotalDiscount)
}

func TestCalculateBuyXGetYSkipsNonApplicableProducts(t *testing.T) {
	eligible := uuid.New()
	rules := types.DiscountRules{
		BuyXGetY: &types.BuyXGetYRules{
			BuyQuantity:        2,
			GetQuantity:        1,
			ApplicableProducts: []uuid.UUID{eligible},
		},
	}
	items := []OrderItem{
		{ProductID: eligible, Quantity: 4, UnitPrice: dec("10")},
		{ProductID: uuid.New(), Quantity: 4, UnitPrice: dec("100")},
	}

	calc, err := CalculateDiscount(enums.PromotionTypeBuyXGetY, rules, items, dec("440"))
	require.NoError(t, err)
	assert.True(t, calc.TotalDiscount.Equal(dec("20")), "got %s", calc.TotalDiscount)
}

func TestCalculateTieredDiscountPicksHighestQualifyingTier(t *testing.T) {
	rules := types.DiscountRules{
		Tiered: &types.TieredDiscountRules{
			Tiers: []types.DiscountTier{
				{MinQuantity: 10, DiscountType: types.TierValuePercentage, DiscountValue: dec("5")},
				{MinQuantity: 50, DiscountType: types.TierValuePercentage, DiscountValue: dec("10")},
				{MinQuantity: 100, DiscountType: types.TierValuePercentage, DiscountValue: dec("15")},
			},
		},
	}
	items := []OrderItem{
		{ProductID: uuid.New(), Quantity: 60, UnitPrice: dec("10")},
	}

	calc, err := CalculateDiscount(enums.PromotionTypeTieredDiscount, rules, items, dec("600"))
	require.NoError(t, err)
	assert.True(t, calc.TotalDiscount.Equal(dec("60")), "got %s", calc.TotalDiscount)
	require.NotNil(t, calc.Breakdown[0].TierApplied)
	assert.Equal(t, 50, calc.Breakdown[0].TierApplied.MinQuantity)
}

func TestCalculateTieredDiscountBelowLowestTier(t *testing.T) {
	rules := types.DiscountRules{
		Tiered: &types.TieredDiscountRules{
			Tiers: []types.DiscountTier{
				{MinQuantity: 10, DiscountType: types.TierValueFixed, DiscountValue: dec("25")},
			},
		},
	}
	items := []OrderItem{
		{ProductID: uuid.New(), Quantity: 3, UnitPrice: dec("10")},
	}

	calc, err := CalculateDiscount(enums.PromotionTypeTieredDiscount, rules, items, dec("30"))
	require.NoError(t, err)
	assert.True(t, calc.TotalDiscount.IsZero(), "got %s", calc.TotalDiscount)
	assert.Nil(t, calc.Breakdown[0].TierApplied)
}

func TestCalculateTieredDiscountMaxCap(t *testing.T) {
	rules := types.DiscountRules{
		Tiered: &types.TieredDiscountRules{
			Tiers: []types.DiscountTier{
				{MinQuantity: 10, DiscountType: types.TierValuePercentage, DiscountValue: dec("20"), MaxDiscount: decPtr("15")},
			},
		},
	}
	items := []OrderItem{
		{ProductID: uuid.New(), Quantity: 10, UnitPrice: dec("10")},
	}

	calc, err := CalculateDiscount(enums.PromotionTypeTieredDiscount, rules, items, dec("100"))
	require.NoError(t, err)
	assert.True(t, calc.TotalDiscount.Equal(dec("15")), "got %s", calc.TotalDiscount)
}

func TestCalculateBundleDiscountRequiresAllProducts(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	rules := types.DiscountRules{
		Bundle: &types.BundleDiscountRules{
			BundleProducts: []uuid.UUID{first, second},
			Discount:       types.BundleValue{Type: types.TierValuePercentage, Value: dec("20")},
		},
	}

	// Only one bundle product present: no discount.
	calc, err := CalculateDiscount(enums.PromotionTypeBundleDiscount, rules, []OrderItem{
		{ProductID: first, Quantity: 1, UnitPrice: dec("100")},
	}, dec("100"))
	require.NoError(t, err)
	assert.True(t, calc.TotalDiscount.IsZero())

	// Both present: 20% of the bundle value (100 + 50).
	calc, err = CalculateDiscount(enums.PromotionTypeBundleDiscount, rules, []OrderItem{
		{ProductID: first, Quantity: 1, UnitPrice: dec("100")},
		{ProductID: second, Quantity: 1, UnitPrice: dec("50")},
	}, dec("150"))
	require.NoError(t, err)
	assert.True(t, calc.TotalDiscount.Equal(dec("30")), "got %s", calc.TotalDiscount)
	require.Len(t, calc.Breakdown[0].Bundles, 1)
}

func TestCalculateDiscountRoundsToTwoPlaces(t *testing.T) {
	rules := types.DiscountRules{
		Percentage: &types.PercentageDiscountRules{DiscountPercentage: dec("33.33")},
	}

	calc, err := CalculateDiscount(enums.PromotionTypePercentageDiscount, rules, nil, dec("99.99"))
	require.NoError(t, err)
	assert.Equal(t, int32(-2), calc.TotalDiscount.Exponent())
	assert.True(t, calc.TotalDiscount.Equal(dec("33.33")), "got %s", calc.TotalDiscount)
}

func TestCalculateDiscountMissingVariant(t *testing.T) {
	_, err := CalculateDiscount(enums.PromotionTypePercentageDiscount, types.DiscountRules{}, nil, dec("100"))
	require.Error(t, err)
}
