package pricing

import (
	"github.com/shopspring/decimal"
)

// Policy holds the markup multipliers applied when a recipe or meal is
// created. Sums and margins are computed with decimal arithmetic; money is
// rounded to 2 decimal places only at the edges, never mid-sum.
type Policy struct {
	recipeMarkup decimal.Decimal
	mealMarkup   decimal.Decimal
}

var (
	defaultRecipeMarkup = decimal.NewFromInt(3)
	defaultMealMarkup   = decimal.RequireFromString("2.5")

	hundred = decimal.NewFromInt(100)
)

func NewPolicy(recipeMarkup, mealMarkup decimal.Decimal) Policy {
	if recipeMarkup.LessThanOrEqual(decimal.Zero) {
		recipeMarkup = defaultRecipeMarkup
	}
	if mealMarkup.LessThanOrEqual(decimal.Zero) {
		mealMarkup = defaultMealMarkup
	}
	return Policy{recipeMarkup: recipeMarkup, mealMarkup: mealMarkup}
}

func DefaultPolicy() Policy {
	return Policy{recipeMarkup: defaultRecipeMarkup, mealMarkup: defaultMealMarkup}
}

// RecipeSellingPrice prices a freshly created recipe from its total cost.
func (p Policy) RecipeSellingPrice(totalCost decimal.Decimal) decimal.Decimal {
	return totalCost.Mul(p.recipeMarkup).Round(2)
}

// MealSellingPrice prices a freshly created meal from its total cost. The
// meal multiplier is configured independently of the recipe one.
func (p Policy) MealSellingPrice(totalCost decimal.Decimal) decimal.Decimal {
	return totalCost.Mul(p.mealMarkup).Round(2)
}

// ProfitMargin returns (sellingPrice - totalCost) / sellingPrice * 100
// rounded to 2 decimal places. A zero total cost means the margin is
// reported as 0 rather than dividing by zero; margins may be negative and
// are informational only, never enforced.
func ProfitMargin(sellingPrice, totalCost decimal.Decimal) decimal.Decimal {
	if totalCost.IsZero() || sellingPrice.IsZero() {
		return decimal.Zero
	}
	return sellingPrice.Sub(totalCost).Div(sellingPrice).Mul(hundred).Round(2)
}

// LineCost is quantity x unit cost rounded to money precision. Quantities
// carry 3 decimal places.
func LineCost(quantity, unitCost decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitCost).Round(2)
}
