package store

import (
	"context"
	"errors"

	"github.com/emrgen/linker/internal/model"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db: db,
	}
}

var _ Store = (*GormStore)(nil)

type GormStore struct {
	db *gorm.DB
}

func (g *GormStore) CreateEntity(ctx context.Context, entity *model.Entity) error {
	if entity.ID == "" {
		entity.ID = uuid.New().String()
	}
	return translate(g.db.WithContext(ctx).Create(entity).Error)
}

func (g *GormStore) GetEntity(ctx context.Context, id string) (*model.Entity, error) {
	var entity model.Entity
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		return nil, translate(err)
	}
	return &entity, nil
}

func (g *GormStore) ListEntities(ctx context.Context) ([]*model.Entity, error) {
	entities := make([]*model.Entity, 0)
	err := g.db.WithContext(ctx).Order("created_at").Find(&entities).Error
	return entities, err
}

func (g *GormStore) CreateProperty(ctx context.Context, property *model.Property) error {
	if property.ID == "" {
		property.ID = uuid.New().String()
	}
	return translate(g.db.WithContext(ctx).Create(property).Error)
}

func (g *GormStore) GetProperty(ctx context.Context, id string) (*model.Property, error) {
	var property model.Property
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&property).Error
	if err != nil {
		return nil, translate(err)
	}
	return &property, nil
}

func (g *GormStore) ListProperties(ctx context.Context) ([]*model.Property, error) {
	properties := make([]*model.Property, 0)
	err := g.db.WithContext(ctx).Order("created_at").Find(&properties).Error
	return properties, err
}

// CreateLink creates a link after checking both sides exist.
// NOTE: should run in a transaction
func (g *GormStore) CreateLink(ctx context.Context, link *model.Link) error {
	if _, err := g.GetEntity(ctx, link.EntityID); err != nil {
		return err
	}
	if _, err := g.GetProperty(ctx, link.PropertyID); err != nil {
		return err
	}

	if link.ID == "" {
		link.ID = uuid.New().String()
	}

	logrus.Debugf("linking entity %s to property %s", link.EntityID, link.PropertyID)

	return translate(g.db.WithContext(ctx).Create(link).Error)
}

func (g *GormStore) ListLinks(ctx context.Context) ([]*model.Link, error) {
	links := make([]*model.Link, 0)
	err := g.db.WithContext(ctx).Order("created_at").Find(&links).Error
	return links, err
}

// ListNamedLinks builds the named_link view.
func (g *GormStore) ListNamedLinks(ctx context.Context) ([]*model.NamedLink, error) {
	links := make([]*model.NamedLink, 0)
	err := g.db.WithContext(ctx).
		Table("links").
		Select("links.id, links.entity_id, entities.name AS entity_name, links.property_id, properties.name AS property_name").
		Joins("JOIN entities ON entities.id = links.entity_id").
		Joins("JOIN properties ON properties.id = links.property_id").
		Order("links.created_at").
		Scan(&links).Error
	return links, err
}

func (g *GormStore) Migrate() error {
	return model.Migrate(g.db)
}

func (g *GormStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(&GormStore{db: tx})
	})
}

// translate maps gorm errors onto the store errors. The db must be opened
// with TranslateError for duplicates to be recognised.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	default:
		return err
	}
}
