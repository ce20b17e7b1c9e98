package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot provides optimistic-lock versioning and domain event
// collection for aggregate roots.
type AggregateRoot struct {
	BaseEntity
	Version      int           `gorm:"not null;default:1"`
	domainEvents []DomainEvent `gorm:"-"`

	// persistedVersion is the version the backing row held when the
	// aggregate was read. An operation may bump Version more than once
	// (a full destruction reduces and then retires), so the optimistic
	// predicate must compare against the version actually persisted,
	// not Version-1.
	persistedVersion int `gorm:"-"`
}

// NewAggregateRoot creates a new aggregate root with version 1
func NewAggregateRoot() AggregateRoot {
	return AggregateRoot{
		BaseEntity:       NewBaseEntity(),
		Version:          1,
		persistedVersion: 1,
	}
}

// IncrementVersion bumps the version for optimistic locking
func (a *AggregateRoot) IncrementVersion() {
	a.Version++
}

// MarkPersisted records the current version as the one held by the
// backing row. Repositories call this after every read and after every
// successful write.
func (a *AggregateRoot) MarkPersisted() {
	a.persistedVersion = a.Version
}

// PersistedVersion returns the version the backing row held when the
// aggregate was last read or written
func (a *AggregateRoot) PersistedVersion() int {
	return a.persistedVersion
}

// AddDomainEvent queues a domain event for publication after commit
func (a *AggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *AggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents drops the pending domain events
func (a *AggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// LocationAggregateRoot is an aggregate root scoped to a licensed
// location. Every row that participates in a ledger operation carries
// the location scope, and repository queries must always filter on it;
// a miss outside the caller's scope is reported as not found, never as
// forbidden, so cross-location existence is not revealed.
type LocationAggregateRoot struct {
	AggregateRoot
	LocationID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// NewLocationAggregateRoot creates a location-scoped aggregate root
func NewLocationAggregateRoot(locationID uuid.UUID) LocationAggregateRoot {
	return LocationAggregateRoot{
		AggregateRoot: NewAggregateRoot(),
		LocationID:    locationID,
	}
}
