package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent represents something that happened in the ledger
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
	LocationID() uuid.UUID
}

// BaseDomainEvent provides common fields for all domain events
type BaseDomainEvent struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	AggID      uuid.UUID `json:"aggregate_id"`
	AggType    string    `json:"aggregate_type"`
	LocIDValue uuid.UUID `json:"location_id"`
}

// NewBaseDomainEvent creates a base event with a fresh ID and timestamp
func NewBaseDomainEvent(eventType, aggType string, aggID, locationID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:         uuid.New(),
		Type:       eventType,
		Timestamp:  time.Now(),
		AggID:      aggID,
		AggType:    aggType,
		LocIDValue: locationID,
	}
}

// EventID returns the unique event identifier
func (e *BaseDomainEvent) EventID() uuid.UUID { return e.ID }

// EventType returns the type of the event
func (e *BaseDomainEvent) EventType() string { return e.Type }

// OccurredAt returns when the event occurred
func (e *BaseDomainEvent) OccurredAt() time.Time { return e.Timestamp }

// AggregateID returns the ID of the aggregate that produced this event
func (e *BaseDomainEvent) AggregateID() uuid.UUID { return e.AggID }

// AggregateType returns the type of the aggregate
func (e *BaseDomainEvent) AggregateType() string { return e.AggType }

// LocationID returns the location scope of the event
func (e *BaseDomainEvent) LocationID() uuid.UUID { return e.LocIDValue }
