package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name     string
		frame    string
		expected Filter
		wantErr  bool
	}{
		{"empty object", `{}`, Filter{}, false},
		{"entities only", `{"entities":["budget","expense"]}`, Filter{Entities: []EntityType{EntityTypeBudget, EntityTypeExpense}}, false},
		{"month only", `{"month":"2024-06"}`, Filter{Month: "2024-06"}, false},
		{"unknown entity", `{"entities":["loan"]}`, Filter{}, true},
		{"bad month", `{"month":"2024-6"}`, Filter{}, true},
		{"not json", `subscribe me`, Filter{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseFilter([]byte(tt.frame))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, f)
		})
	}
}

func TestFilter_Matches(t *testing.T) {
	juneExpense := ExpenseCreated(map[string]string{"id": "e1"}).ForMonth("2024-06")
	julyBudget := BudgetUpdated(map[string]string{"month": "2024-07"}).ForMonth("2024-07")
	renewal := SubscriptionRenewed(map[string]string{"id": "s1"})
	ack := FeedSubscribed(Filter{})

	tests := []struct {
		name   string
		filter Filter
		event  Event
		want   bool
	}{
		{"zero filter passes expense", Filter{}, juneExpense, true},
		{"zero filter passes renewal", Filter{}, renewal, true},
		{"entity match", Filter{Entities: []EntityType{EntityTypeExpense}}, juneExpense, true},
		{"entity mismatch", Filter{Entities: []EntityType{EntityTypeBudget}}, juneExpense, false},
		{"month match", Filter{Month: "2024-06"}, juneExpense, true},
		{"month mismatch", Filter{Month: "2024-06"}, julyBudget, false},
		{"unscoped event reaches month filter", Filter{Month: "2024-06"}, renewal, true},
		{"entity and month", Filter{Entities: []EntityType{EntityTypeBudget}, Month: "2024-07"}, julyBudget, true},
		{"feed replies always pass", Filter{Entities: []EntityType{EntityTypeBudget}, Month: "2024-07"}, ack, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(tt.event))
		})
	}
}
