package store

import (
	"context"
	"errors"

	"github.com/emrgen/linker/internal/model"
)

var (
	// ErrDuplicate is returned when a record with the same natural key exists.
	ErrDuplicate = errors.New("record already exists")
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")
)

// Store backs the fake linker backend.
type Store interface {
	EntityStore
	PropertyStore
	LinkStore
	Transaction(ctx context.Context, f func(tx Store) error) error
	Migrate() error
}

type EntityStore interface {
	// CreateEntity creates a new entity, assigning an id when empty.
	CreateEntity(ctx context.Context, entity *model.Entity) error
	// GetEntity retrieves an entity by ID.
	GetEntity(ctx context.Context, id string) (*model.Entity, error)
	// ListEntities retrieves all entities in creation order.
	ListEntities(ctx context.Context) ([]*model.Entity, error)
}

type PropertyStore interface {
	// CreateProperty creates a new property, assigning an id when empty.
	CreateProperty(ctx context.Context, property *model.Property) error
	// GetProperty retrieves a property by ID.
	GetProperty(ctx context.Context, id string) (*model.Property, error)
	// ListProperties retrieves all properties in creation order.
	ListProperties(ctx context.Context) ([]*model.Property, error)
}

type LinkStore interface {
	// CreateLink links an existing entity to an existing property.
	CreateLink(ctx context.Context, link *model.Link) error
	// ListLinks retrieves all links in creation order.
	ListLinks(ctx context.Context) ([]*model.Link, error)
	// ListNamedLinks retrieves all links joined with the entity and property names.
	ListNamedLinks(ctx context.Context) ([]*model.NamedLink, error)
}
