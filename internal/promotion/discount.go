package promotion

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Reshigan/SalesSync-sub013/pkg/enums"
	pkgerrors "github.com/Reshigan/SalesSync-sub013/pkg/errors"
	"github.com/Reshigan/SalesSync-sub013/pkg/types"
)

var oneHundred = decimal.NewFromInt(100)

// OrderItem is one line of the order a promotion is applied against.
type OrderItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// FreeItem reports the goods given away by a buy-x-get-y application.
type FreeItem struct {
	ProductID      uuid.UUID       `json:"product_id"`
	FreeQuantity   int             `json:"free_quantity"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

// AppliedBundle reports one matched bundle.
type AppliedBundle struct {
	Products       []uuid.UUID     `json:"products"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

// BreakdownEntry explains one component of the computed discount.
type BreakdownEntry struct {
	Type        string              `json:"type"`
	Description string              `json:"description"`
	Amount      decimal.Decimal     `json:"amount"`
	FreeItems   []FreeItem          `json:"free_items,omitempty"`
	TierApplied *types.DiscountTier `json:"tier_applied,omitempty"`
	Bundles     []AppliedBundle     `json:"bundles_applied,omitempty"`
}

// Calculation is the result of running a promotion against an order.
type Calculation struct {
	TotalDiscount decimal.Decimal  `json:"total_discount"`
	Breakdown     []BreakdownEntry `json:"breakdown"`
	PromotionType string           `json:"promotion_type"`
}

// CalculateDiscount dispatches on promotion type and returns the discount with
// its breakdown. The total is rounded to two decimal places.
func CalculateDiscount(promotionType enums.PromotionType, rules types.DiscountRules, items []OrderItem, subtotal decimal.Decimal) (*Calculation, error) {
	var (
		total decimal.Decimal
		entry BreakdownEntry
	)

	switch promotionType {
	case enums.PromotionTypePercentageDiscount:
		if rules.Percentage == nil {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "promotion missing percentage rules")
		}
		total = percentageDiscount(subtotal, *rules.Percentage)
		entry = BreakdownEntry{
			Type:        "percentage",
			Description: fmt.Sprintf("%s%% discount", rules.Percentage.DiscountPercentage),
			Amount:      total,
		}

	case enums.PromotionTypeFixedDiscount:
		if rules.Fixed == nil {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "promotion missing fixed rules")
		}
		total = decimal.Min(subtotal, rules.Fixed.DiscountAmount)
		entry = BreakdownEntry{
			Type:        "fixed",
			Description: fmt.Sprintf("Fixed discount of %s", rules.Fixed.DiscountAmount),
			Amount:      total,
		}

	case enums.PromotionTypeBuyXGetY:
		if rules.BuyXGetY == nil {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "promotion missing buy_x_get_y rules")
		}
		amount, freeItems := buyXGetYDiscount(items, *rules.BuyXGetY)
		total = amount
		entry = BreakdownEntry{
			Type:        "buy_x_get_y",
			Description: fmt.Sprintf("Buy %d get %d free", rules.BuyXGetY.BuyQuantity, rules.BuyXGetY.GetQuantity),
			Amount:      total,
			FreeItems:   freeItems,
		}

	case enums.PromotionTypeTieredDiscount:
		if rules.Tiered == nil {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "promotion missing tiered rules")
		}
		amount, tier := tieredDiscount(items, *rules.Tiered)
		total = amount
		entry = BreakdownEntry{
			Type:        "tiered",
			Description: "Quantity-based tiered discount",
			Amount:      total,
			TierApplied: tier,
		}

	case enums.PromotionTypeBundleDiscount:
		if rules.Bundle == nil {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "promotion missing bundle rules")
		}
		amount, bundles := bundleDiscount(items, *rules.Bundle)
		total = amount
		entry = BreakdownEntry{
			Type:        "bundle",
			Description: "Bundle discount",
			Amount:      total,
			Bundles:     bundles,
		}

	default:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "unknown promotion type")
	}

	total = total.Round(2)
	entry.Amount = total

	return &Calculation{
		TotalDiscount: total,
		Breakdown:     []BreakdownEntry{entry},
		PromotionType: promotionType.String(),
	}, nil
}

func percentageDiscount(subtotal decimal.Decimal, rules types.PercentageDiscountRules) decimal.Decimal {
	amount := subtotal.Mul(rules.DiscountPercentage).Div(oneHundred)
	if rules.MaxDiscountAmount != nil {
		amount = decimal.Min(amount, *rules.MaxDiscountAmount)
	}
	return amount
}

func buyXGetYDiscount(items []OrderItem, rules types.BuyXGetYRules) (decimal.Decimal, []FreeItem) {
	total := decimal.Zero
	var freeItems []FreeItem

	allowed := make(map[uuid.UUID]bool, len(rules.ApplicableProducts))
	for _, id := range rules.ApplicableProducts {
		allowed[id] = true
	}

	for _, item := range items {
		if len(rules.ApplicableProducts) > 0 && !allowed[item.ProductID] {
			continue
		}

		freeQuantity := (item.Quantity / rules.BuyQuantity) * rules.GetQuantity
		if rules.MaxFreeItems != nil && freeQuantity > *rules.MaxFreeItems {
			freeQuantity = *rules.MaxFreeItems
		}
		if freeQuantity <= 0 {
			continue
		}

		itemDiscount := item.UnitPrice.Mul(decimal.NewFromInt(int64(freeQuantity)))
		total = total.Add(itemDiscount)
		freeItems = append(freeItems, FreeItem{
			ProductID:      item.ProductID,
			FreeQuantity:   freeQuantity,
			DiscountAmount: itemDiscount,
		})
	}

	return total, freeItems
}

func tieredDiscount(items []OrderItem, rules types.TieredDiscountRules) (decimal.Decimal, *types.DiscountTier) {
	totalQuantity := 0
	subtotal := decimal.Zero
	for _, item := range items {
		totalQuantity += item.Quantity
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	tiers := make([]types.DiscountTier, len(rules.Tiers))
	copy(tiers, rules.Tiers)
	sort.Slice(tiers, func(i, j int) bool {
		return tiers[i].MinQuantity > tiers[j].MinQuantity
	})

	var applied *types.DiscountTier
	for i := range tiers {
		if totalQuantity >= tiers[i].MinQuantity {
			applied = &tiers[i]
			break
		}
	}
	if applied == nil {
		return decimal.Zero, nil
	}

	var amount decimal.Decimal
	switch applied.DiscountType {
	case types.TierValuePercentage:
		amount = subtotal.Mul(applied.DiscountValue).Div(oneHundred)
	case types.TierValueFixed:
		amount = applied.DiscountValue
	}
	if applied.MaxDiscount != nil {
		amount = decimal.Min(amount, *applied.MaxDiscount)
	}

	return amount, applied
}

func bundleDiscount(items []OrderItem, rules types.BundleDiscountRules) (decimal.Decimal, []AppliedBundle) {
	byProduct := make(map[uuid.UUID]OrderItem, len(items))
	for _, item := range items {
		byProduct[item.ProductID] = item
	}

	for _, productID := range rules.BundleProducts {
		if _, ok := byProduct[productID]; !ok {
			return decimal.Zero, nil
		}
	}

	bundleValue := decimal.Zero
	for _, productID := range rules.BundleProducts {
		item := byProduct[productID]
		bundleValue = bundleValue.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	var amount decimal.Decimal
	switch rules.Discount.Type {
	case types.TierValuePercentage:
		amount = bundleValue.Mul(rules.Discount.Value).Div(oneHundred)
	case types.TierValueFixed:
		amount = rules.Discount.Value
	}

	return amount, []AppliedBundle{{
		Products:       rules.BundleProducts,
		DiscountAmount: amount,
	}}
}
