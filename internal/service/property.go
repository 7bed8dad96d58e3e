package service

import (
	"context"
	"strings"

	"github.com/emrgen/linker/internal/api"
	"github.com/emrgen/linker/internal/model"
	"github.com/emrgen/linker/internal/view"
)

// PropertyList is the properties screen. Properties are unique by name.
type PropertyList struct {
	*view.ListModel[model.Property, string]
}

func NewPropertyList(backend Backend, opts Options) *PropertyList {
	return &PropertyList{
		ListModel: view.New(view.Options[model.Property, string]{
			Name:  api.ResourceProperty,
			Fetch: backend.ListProperties,
			Create: func(ctx context.Context, p model.Property) (model.Property, error) {
				return backend.AddProperty(ctx, p.Name)
			},
			Key:        func(p model.Property) string { return p.Name },
			ID:         func(p model.Property) string { return p.ID },
			Fields:     func(p model.Property) []string { return []string{p.Name} },
			SelectMode: opts.SelectMode,
			Logger:     opts.Logger,
		}),
	}
}

func (l *PropertyList) CanAdd(name string) bool {
	return l.CanCreate(strings.TrimSpace(name))
}

// Add creates a property and appends the one returned by the backend.
func (l *PropertyList) Add(ctx context.Context, name string) (model.Property, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Property{}, ErrEmptyName
	}
	return l.Create(ctx, model.Property{Name: name})
}

// SelectedProperty returns the selected property or nil.
func (l *PropertyList) SelectedProperty() *model.Property {
	p, ok := l.Selected()
	if !ok {
		return nil
	}
	return &p
}
