package domain

// SubscriptionPreset is a well-known service offered as a quick-add template
type SubscriptionPreset struct {
	Name          string       `json:"name"`
	Icon          string       `json:"icon"`
	DefaultAmount int64        `json:"defaultAmount,omitempty"`
	BillingCycle  BillingCycle `json:"billingCycle"`
	Category      CategoryKey  `json:"category"`
}

var presets = []SubscriptionPreset{
	{Name: "Netflix", Icon: "🎬", DefaultAmount: 1490, BillingCycle: BillingMonthly, Category: CategorySubscription},
	{Name: "Amazon Prime", Icon: "📦", DefaultAmount: 600, BillingCycle: BillingMonthly, Category: CategorySubscription},
	{Name: "Spotify", Icon: "🎵", DefaultAmount: 980, BillingCycle: BillingMonthly, Category: CategorySubscription},
	{Name: "Apple Music", Icon: "🍎", DefaultAmount: 1080, BillingCycle: BillingMonthly, Category: CategorySubscription},
	{Name: "YouTube Premium", Icon: "▶️", DefaultAmount: 1280, BillingCycle: BillingMonthly, Category: CategorySubscription},
	{Name: "Disney+", Icon: "🏰", DefaultAmount: 990, BillingCycle: BillingMonthly, Category: CategorySubscription},
	{Name: "Adobe CC", Icon: "🎨", DefaultAmount: 6480, BillingCycle: BillingMonthly, Category: CategorySubscription},
	{Name: "Microsoft 365", Icon: "💼", DefaultAmount: 1284, BillingCycle: BillingMonthly, Category: CategorySubscription},
	{Name: "iCloud+", Icon: "☁️", DefaultAmount: 130, BillingCycle: BillingMonthly, Category: CategorySubscription},
	{Name: "Nintendo Online", Icon: "🎮", DefaultAmount: 306, BillingCycle: BillingMonthly, Category: CategorySubscription},
}

// SubscriptionPresets returns the quick-add templates
func SubscriptionPresets() []SubscriptionPreset {
	out := make([]SubscriptionPreset, len(presets))
	copy(out, presets)
	return out
}
