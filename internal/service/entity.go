package service

import (
	"context"
	"strings"

	"github.com/emrgen/linker/internal/api"
	"github.com/emrgen/linker/internal/model"
	"github.com/emrgen/linker/internal/view"
)

// EntityList is the entities screen. Entities are unique by name.
type EntityList struct {
	*view.ListModel[model.Entity, string]
}

func NewEntityList(backend Backend, opts Options) *EntityList {
	return &EntityList{
		ListModel: view.New(view.Options[model.Entity, string]{
			Name:  api.ResourceEntity,
			Fetch: backend.ListEntities,
			Create: func(ctx context.Context, e model.Entity) (model.Entity, error) {
				return backend.AddEntity(ctx, e.Name)
			},
			Key:        func(e model.Entity) string { return e.Name },
			ID:         func(e model.Entity) string { return e.ID },
			Fields:     func(e model.Entity) []string { return []string{e.Name} },
			SelectMode: opts.SelectMode,
			Logger:     opts.Logger,
		}),
	}
}

// CanAdd reports whether an entity named name can be added.
func (l *EntityList) CanAdd(name string) bool {
	return l.CanCreate(strings.TrimSpace(name))
}

// Add creates an entity and appends the one returned by the backend.
func (l *EntityList) Add(ctx context.Context, name string) (model.Entity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Entity{}, ErrEmptyName
	}
	return l.Create(ctx, model.Entity{Name: name})
}

// SelectedEntity returns the selected entity or nil.
func (l *EntityList) SelectedEntity() *model.Entity {
	e, ok := l.Selected()
	if !ok {
		return nil
	}
	return &e
}
