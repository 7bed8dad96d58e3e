package service

import (
	"context"
	"errors"

	"github.com/emrgen/linker/internal/api"
	"github.com/emrgen/linker/internal/model"
	"github.com/emrgen/linker/internal/view"
)

// NamedLinkList is the links screen. It lists the named_link view, which the
// backend does not refresh right away after a link is added, so added links
// are built locally from the selected entity and property, without an id.
type NamedLinkList struct {
	*view.ListModel[model.NamedLink, model.LinkKey]
}

func NewNamedLinkList(backend Backend, opts Options) *NamedLinkList {
	return &NamedLinkList{
		ListModel: view.New(view.Options[model.NamedLink, model.LinkKey]{
			Name:  api.ResourceNamedLink,
			Fetch: backend.ListNamedLinks,
			Create: func(ctx context.Context, n model.NamedLink) (model.NamedLink, error) {
				link, err := backend.AddLink(ctx, n.EntityID, n.PropertyID)
				if err != nil {
					return model.NamedLink{}, err
				}
				n.ID = link.ID
				return n, nil
			},
			Key:      model.NamedLink.Key,
			ValidKey: model.LinkKey.Valid,
			ID:       func(n model.NamedLink) string { return n.ID },
			Fields: func(n model.NamedLink) []string {
				return []string{n.EntityName, n.PropertyName}
			},
			Synthesize: func(n model.NamedLink) model.NamedLink {
				n.ID = ""
				return n
			},
			CreateMode: view.CreateSynthesized,
			SelectMode: opts.SelectMode,
			Logger:     opts.Logger,
		}),
	}
}

// CanAddLink reports whether the entity and property can be linked.
func (l *NamedLinkList) CanAddLink(entity *model.Entity, property *model.Property) bool {
	if entity == nil || property == nil {
		return false
	}
	return l.CanCreate(model.LinkKey{EntityID: entity.ID, PropertyID: property.ID})
}

// AddLink links the entity to the property and appends the named link the
// view will show once the backend catches up.
func (l *NamedLinkList) AddLink(ctx context.Context, entity *model.Entity, property *model.Property) (model.NamedLink, error) {
	if entity == nil || property == nil {
		return model.NamedLink{}, ErrMissingSelection
	}

	link, err := l.Create(ctx, model.NewNamedLink(*entity, *property))
	if errors.Is(err, view.ErrCannotCreate) {
		return link, ErrLinkExists
	}
	return link, err
}
