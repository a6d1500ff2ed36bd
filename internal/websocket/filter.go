package websocket

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/dafibh/mierunbo/mierunbo-backend/internal/domain"
)

var knownEntities = []EntityType{EntityTypeExpense, EntityTypeSubscription, EntityTypeBudget}

// Filter narrows the change feed for one client. Clients set it by sending
// {"entities":["budget","expense"],"month":"2024-06"} over the socket.
// The zero Filter receives every event.
type Filter struct {
	Entities []EntityType `json:"entities,omitempty"`
	Month    string       `json:"month,omitempty"`
}

// ParseFilter decodes and validates an inbound filter frame
func ParseFilter(data []byte) (Filter, error) {
	var f Filter
	if err := json.Unmarshal(data, &f); err != nil {
		return Filter{}, fmt.Errorf("invalid filter frame: %w", err)
	}

	if err := f.Validate(); err != nil {
		return Filter{}, err
	}
	return f, nil
}

// Validate checks entity names and the month format
func (f Filter) Validate() error {
	for _, entity := range f.Entities {
		if !slices.Contains(knownEntities, entity) {
			return fmt.Errorf("unknown entity %q", entity)
		}
	}
	if f.Month != "" {
		if _, err := domain.ParseMonth(f.Month); err != nil {
			return err
		}
	}
	return nil
}

// Matches reports whether the event passes the filter. Events without a month,
// such as subscription changes, reach every month scope.
func (f Filter) Matches(event Event) bool {
	if event.Entity == EntityTypeFeed {
		return true
	}
	if len(f.Entities) > 0 && !slices.Contains(f.Entities, event.Entity) {
		return false
	}
	if f.Month != "" && event.Month != "" && f.Month != event.Month {
		return false
	}
	return true
}
