package linker

import (
	"context"
	"io"

	"github.com/emrgen/linker/internal/api"
	"github.com/emrgen/linker/internal/config"
	"github.com/emrgen/linker/internal/model"
)

type (
	Entity    = model.Entity
	Property  = model.Property
	Link      = model.Link
	NamedLink = model.NamedLink
)

type Client interface {
	io.Closer
	ListEntities(ctx context.Context) ([]Entity, error)
	ListProperties(ctx context.Context) ([]Property, error)
	ListLinks(ctx context.Context) ([]Link, error)
	ListNamedLinks(ctx context.Context) ([]NamedLink, error)
	AddEntity(ctx context.Context, name string) (Entity, error)
	AddProperty(ctx context.Context, name string) (Property, error)
	AddLink(ctx context.Context, entityID, propertyID string) (Link, error)
}

var _ Client = (*api.Client)(nil)

// NewClient creates a REST client for the endpoint of cfg.
func NewClient(cfg *config.Config, opts ...api.Option) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return api.NewClient(cfg, opts...), nil
}
