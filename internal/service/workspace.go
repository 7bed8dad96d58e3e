package service

import (
	"context"
	"errors"
	"sync"

	"github.com/emrgen/linker/internal/model"
)

// Workspace puts the three screens side by side: the entity and property
// selections feed the links screen.
type Workspace struct {
	Entities   *EntityList
	Properties *PropertyList
	Links      *NamedLinkList
}

func NewWorkspace(backend Backend, opts Options) *Workspace {
	return &Workspace{
		Entities:   NewEntityList(backend, opts),
		Properties: NewPropertyList(backend, opts),
		Links:      NewNamedLinkList(backend, opts),
	}
}

// Load loads the three lists concurrently. A list that fails to load stays
// as it was, the others are still loaded; the errors are joined.
func (w *Workspace) Load(ctx context.Context) error {
	loaders := []func(context.Context) error{
		w.Entities.Load,
		w.Properties.Load,
		w.Links.Load,
	}

	errs := make([]error, len(loaders))
	var wg sync.WaitGroup
	for i, load := range loaders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = load(ctx)
		}()
	}
	wg.Wait()

	return errors.Join(errs...)
}

func (w *Workspace) SelectedEntity() *model.Entity {
	return w.Entities.SelectedEntity()
}

func (w *Workspace) SelectedProperty() *model.Property {
	return w.Properties.SelectedProperty()
}

// CanAddLink reports whether the selected entity and property can be linked.
func (w *Workspace) CanAddLink() bool {
	return w.Links.CanAddLink(w.SelectedEntity(), w.SelectedProperty())
}

// AddLink links the selected entity and property.
func (w *Workspace) AddLink(ctx context.Context) (model.NamedLink, error) {
	return w.Links.AddLink(ctx, w.SelectedEntity(), w.SelectedProperty())
}

// IsReferenced reports whether the selected entity or property is a side of the link.
func (w *Workspace) IsReferenced(link model.NamedLink) bool {
	return IsReferenced(link.Key(), w.SelectedEntity(), w.SelectedProperty())
}
