package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents what happened to the entity
type EventType string

const (
	EventTypeCreated   EventType = "created"
	EventTypeUpdated   EventType = "updated"
	EventTypeDeleted   EventType = "deleted"
	EventTypePaused    EventType = "paused"
	EventTypeResumed   EventType = "resumed"
	EventTypeCancelled EventType = "cancelled"
	EventTypeRenewed   EventType = "renewed"

	// Replies to a client's filter frame
	EventTypeSubscribed EventType = "subscribed"
	EventTypeRejected   EventType = "rejected"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeExpense      EntityType = "expense"
	EntityTypeSubscription EntityType = "subscription"
	EntityTypeBudget       EntityType = "budget"
	EntityTypeFeed         EntityType = "feed"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, month?, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`            // Combined type e.g. "expense.created"
	Entity    EntityType  `json:"entity"`          // Entity type e.g. "expense"
	Month     string      `json:"month,omitempty"` // YYYY-MM the change belongs to, if any
	Payload   interface{} `json:"payload"`         // Full entity data
	Timestamp time.Time   `json:"timestamp"`       // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ForMonth scopes the event to a YYYY-MM month
func (e Event) ForMonth(month string) Event {
	e.Month = month
	return e
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ExpenseCreated creates an expense.created event
func ExpenseCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeExpense, payload)
}

// ExpenseUpdated creates an expense.updated event
func ExpenseUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeExpense, payload)
}

// ExpenseDeleted creates an expense.deleted event
func ExpenseDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeExpense, payload)
}

// SubscriptionCreated creates a subscription.created event
func SubscriptionCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeSubscription, payload)
}

// SubscriptionUpdated creates a subscription.updated event
func SubscriptionUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeSubscription, payload)
}

// SubscriptionDeleted creates a subscription.deleted event
func SubscriptionDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeSubscription, payload)
}

// SubscriptionPaused creates a subscription.paused event
func SubscriptionPaused(payload interface{}) Event {
	return NewEvent(EventTypePaused, EntityTypeSubscription, payload)
}

// SubscriptionResumed creates a subscription.resumed event
func SubscriptionResumed(payload interface{}) Event {
	return NewEvent(EventTypeResumed, EntityTypeSubscription, payload)
}

// SubscriptionCancelled creates a subscription.cancelled event
func SubscriptionCancelled(payload interface{}) Event {
	return NewEvent(EventTypeCancelled, EntityTypeSubscription, payload)
}

// SubscriptionRenewed creates a subscription.renewed event
func SubscriptionRenewed(payload interface{}) Event {
	return NewEvent(EventTypeRenewed, EntityTypeSubscription, payload)
}

// BudgetUpdated creates a budget.updated event
func BudgetUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeBudget, payload)
}

// FeedSubscribed acknowledges the filter a client is now receiving with
func FeedSubscribed(filter Filter) Event {
	return NewEvent(EventTypeSubscribed, EntityTypeFeed, filter)
}

// FeedRejected tells a client its filter frame was not accepted
func FeedRejected(reason string) Event {
	return NewEvent(EventTypeRejected, EntityTypeFeed, map[string]string{"error": reason})
}
