package pricing

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/greenbasket-io/greenbasket-backend/pkg/db/models"
	"github.com/greenbasket-io/greenbasket-backend/pkg/errors"
)

// Quote is the effective price of a product at a point in time. When a
// promotion applies, OriginalDisplayPrice carries the pre-sale display string
// so the storefront can strike it through.
type Quote struct {
	UnitPriceCents       int
	DisplayPrice         string
	OriginalDisplayPrice *string
	OnSale               bool
}

// Resolve computes the purchasable price for a product. The default variant is
// the one with the lowest position; an active promotion overrides its price.
func Resolve(product *models.Product, promo *models.Promotion, now time.Time) (*Quote, error) {
	if product == nil {
		return nil, errors.New(errors.CodeItemNotFound, "product is required")
	}
	variant := defaultVariant(product)
	if variant == nil {
		return nil, errors.New(errors.CodeNoPrice, fmt.Sprintf("product %s has no priced variant", product.ID))
	}
	if variant.PriceCents < 0 {
		return nil, errors.New(errors.CodeValidation, fmt.Sprintf("product %s has a negative variant price", product.ID))
	}

	quote := &Quote{
		UnitPriceCents: variant.PriceCents,
		DisplayPrice:   displayOrFormat(variant.PriceDisplay, variant.PriceCents),
	}

	if promo != nil && promo.ProductID == product.ID && promo.ActiveAt(now) {
		if promo.SalePriceCents < 0 {
			return nil, errors.New(errors.CodeValidation, fmt.Sprintf("promotion %s has a negative sale price", promo.ID))
		}
		original := quote.DisplayPrice
		quote.UnitPriceCents = promo.SalePriceCents
		quote.DisplayPrice = displayOrFormat(promo.SalePriceDisplay, promo.SalePriceCents)
		quote.OriginalDisplayPrice = &original
		quote.OnSale = true
	}

	return quote, nil
}

func defaultVariant(product *models.Product) *models.ProductVariant {
	if len(product.Variants) == 0 {
		return nil
	}
	variants := make([]models.ProductVariant, len(product.Variants))
	copy(variants, product.Variants)
	sort.SliceStable(variants, func(i, j int) bool {
		return variants[i].Position < variants[j].Position
	})
	return &variants[0]
}

// displayOrFormat prefers the merchandised display string and falls back to
// formatting the cent amount.
func displayOrFormat(display string, cents int) string {
	if display != "" {
		return display
	}
	return FormatCents(cents)
}

// FormatCents renders a cent amount as a dollar display string, e.g. 499 -> "$4.99".
func FormatCents(cents int) string {
	amount := decimal.NewFromInt(int64(cents)).Div(decimal.NewFromInt(100))
	return "$" + amount.StringFixed(2)
}
