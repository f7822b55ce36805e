package cache

// Key namespace. Every key carries the owning restaurant id: detail keys
// so a cached read can never cross tenants, list and stats keys so one
// tenant's write never evicts another's entries.

func RecipeDetailKey(restaurantID, id string) string {
	return "recipe:detail:" + restaurantID + ":" + id
}

func RecipeListKey(restaurantID string) string { return "recipe:list:" + restaurantID }

func RecipeStatsKey(restaurantID string) string { return "recipe:stats:" + restaurantID }

func MealDetailKey(restaurantID, id string) string {
	return "meal:detail:" + restaurantID + ":" + id
}

func MealListKey(restaurantID string) string { return "meal:list:" + restaurantID }

func MenuDetailKey(restaurantID, id string) string {
	return "menu:detail:" + restaurantID + ":" + id
}

func MenuStatsKey(restaurantID, id string) string {
	return "menu:stats:" + restaurantID + ":" + id
}

func ActiveMenusKey(restaurantID string) string { return "menu:active:" + restaurantID }

func ItemDetailKey(restaurantID, id string) string {
	return "item:detail:" + restaurantID + ":" + id
}

func LowStockKey(restaurantID string) string { return "item:lowstock:" + restaurantID }
