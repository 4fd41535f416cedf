package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries identity and timestamps.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity assigns a fresh ID and stamps both timestamps with now.
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// Touch records a modification.
func (e *BaseEntity) Touch() { e.UpdatedAt = time.Now() }

// AggregateRoot exposes the events raised since the aggregate was loaded.
type AggregateRoot interface {
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot adds a version counter and pending events. The version
// is bumped on every mutation but writes are last-write-wins.
type BaseAggregateRoot struct {
	BaseEntity
	Version int
	pending []DomainEvent
}

// NewBaseAggregateRoot starts at version 1.
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(), Version: 1}
}

func (a *BaseAggregateRoot) IncrementVersion() { a.Version++ }

// AddDomainEvent queues event until the aggregate has been saved.
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.pending = append(a.pending, event)
}

func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent { return a.pending }

func (a *BaseAggregateRoot) ClearDomainEvents() { a.pending = nil }

// OwnedAggregateRoot belongs to one account. Repositories scope every
// lookup of an owned aggregate by UserID.
type OwnedAggregateRoot struct {
	BaseAggregateRoot
	UserID uuid.UUID
}

func NewOwnedAggregateRoot(userID uuid.UUID) OwnedAggregateRoot {
	return OwnedAggregateRoot{BaseAggregateRoot: NewBaseAggregateRoot(), UserID: userID}
}

// BelongsTo reports whether userID owns the aggregate.
func (o *OwnedAggregateRoot) BelongsTo(userID uuid.UUID) bool { return o.UserID == userID }
