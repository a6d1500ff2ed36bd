package domain

// CategoryKey identifies an expense category
type CategoryKey string

const (
	CategoryFood          CategoryKey = "food"
	CategoryTransport     CategoryKey = "transport"
	CategoryUtilities     CategoryKey = "utilities"
	CategoryEntertainment CategoryKey = "entertainment"
	CategoryShopping      CategoryKey = "shopping"
	CategorySubscription  CategoryKey = "subscription"
	CategoryCommunication CategoryKey = "communication"
	CategoryHealth        CategoryKey = "health"
	CategoryOther         CategoryKey = "other"
)

// Category is static reference data for a CategoryKey
type Category struct {
	ID     string      `json:"id"`
	Key    CategoryKey `json:"key"`
	Name   string      `json:"name"`
	Icon   string      `json:"icon"`
	Budget int64       `json:"budget"`
}

// catalog order is the display order
var catalog = []Category{
	{ID: "1", Key: CategoryFood, Name: "食費", Icon: "🍽️", Budget: 50000},
	{ID: "2", Key: CategoryTransport, Name: "交通費", Icon: "🚃", Budget: 15000},
	{ID: "3", Key: CategoryUtilities, Name: "光熱費", Icon: "💡", Budget: 15000},
	{ID: "4", Key: CategoryEntertainment, Name: "娯楽", Icon: "🎮", Budget: 20000},
	{ID: "5", Key: CategoryShopping, Name: "買い物", Icon: "🛍️", Budget: 30000},
	{ID: "6", Key: CategorySubscription, Name: "サブスク", Icon: "📱", Budget: 10000},
	{ID: "7", Key: CategoryCommunication, Name: "通信費", Icon: "📶", Budget: 10000},
	{ID: "8", Key: CategoryHealth, Name: "医療", Icon: "🏥", Budget: 10000},
	{ID: "9", Key: CategoryOther, Name: "その他", Icon: "📝", Budget: 20000},
}

// Categories returns the catalog in display order
func Categories() []Category {
	out := make([]Category, len(catalog))
	copy(out, catalog)
	return out
}

// LookupCategory returns the catalog entry for key
func LookupCategory(key CategoryKey) (Category, bool) {
	for _, c := range catalog {
		if c.Key == key {
			return c, true
		}
	}
	return Category{}, false
}

// CategoryKeys returns every key in display order
func CategoryKeys() []CategoryKey {
	keys := make([]CategoryKey, len(catalog))
	for i, c := range catalog {
		keys[i] = c.Key
	}
	return keys
}

// IsValid reports whether k is part of the catalog
func (k CategoryKey) IsValid() bool {
	_, ok := LookupCategory(k)
	return ok
}

// DisplayName returns the category's display name, or the raw key if unknown
func (k CategoryKey) DisplayName() string {
	if c, ok := LookupCategory(k); ok {
		return c.Name
	}
	return string(k)
}

// DefaultCategoryBudgets returns each category's default budget
func DefaultCategoryBudgets() map[CategoryKey]int64 {
	budgets := make(map[CategoryKey]int64, len(catalog))
	for _, c := range catalog {
		budgets[c.Key] = c.Budget
	}
	return budgets
}

// DefaultTotalBudget is the sum of all category defaults
func DefaultTotalBudget() int64 {
	var total int64
	for _, c := range catalog {
		total += c.Budget
	}
	return total
}
