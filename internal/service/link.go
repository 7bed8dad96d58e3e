package service

import (
	"context"
	"errors"

	"github.com/emrgen/linker/internal/api"
	"github.com/emrgen/linker/internal/model"
	"github.com/emrgen/linker/internal/view"
)

// LinkList lists the raw link resource and appends the link the backend
// returns when one is added.
type LinkList struct {
	*view.ListModel[model.Link, model.LinkKey]
}

func NewLinkList(backend Backend, opts Options) *LinkList {
	return &LinkList{
		ListModel: view.New(view.Options[model.Link, model.LinkKey]{
			Name:  api.ResourceLink,
			Fetch: backend.ListLinks,
			Create: func(ctx context.Context, l model.Link) (model.Link, error) {
				return backend.AddLink(ctx, l.EntityID, l.PropertyID)
			},
			Key:      model.Link.Key,
			ValidKey: model.LinkKey.Valid,
			ID:       func(l model.Link) string { return l.ID },
			Fields: func(l model.Link) []string {
				return []string{l.EntityID, l.PropertyID}
			},
			CreateMode: view.CreateFromResponse,
			SelectMode: opts.SelectMode,
			Logger:     opts.Logger,
		}),
	}
}

// CanAddLink reports whether the entity and property can be linked: both are
// selected and no link between them is listed.
func (l *LinkList) CanAddLink(entity *model.Entity, property *model.Property) bool {
	if entity == nil || property == nil {
		return false
	}
	return l.CanCreate(model.LinkKey{EntityID: entity.ID, PropertyID: property.ID})
}

// AddLink links the entity to the property.
func (l *LinkList) AddLink(ctx context.Context, entity *model.Entity, property *model.Property) (model.Link, error) {
	if entity == nil || property == nil {
		return model.Link{}, ErrMissingSelection
	}

	link, err := l.Create(ctx, model.Link{EntityID: entity.ID, PropertyID: property.ID})
	if errors.Is(err, view.ErrCannotCreate) {
		return link, ErrLinkExists
	}
	return link, err
}

// IsReferenced reports whether the selected entity or property is one side of
// the link. Either may be nil.
func IsReferenced(key model.LinkKey, entity *model.Entity, property *model.Property) bool {
	if entity != nil && key.EntityID == entity.ID {
		return true
	}
	return property != nil && key.PropertyID == property.ID
}
