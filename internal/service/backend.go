package service

import (
	"context"

	"github.com/emrgen/linker/internal/config"
	"github.com/emrgen/linker/internal/model"
	"github.com/emrgen/linker/internal/view"
	"github.com/sirupsen/logrus"
)

// Backend is the part of the REST client the lists depend on.
type Backend interface {
	ListEntities(ctx context.Context) ([]model.Entity, error)
	ListProperties(ctx context.Context) ([]model.Property, error)
	ListLinks(ctx context.Context) ([]model.Link, error)
	ListNamedLinks(ctx context.Context) ([]model.NamedLink, error)
	AddEntity(ctx context.Context, name string) (model.Entity, error)
	AddProperty(ctx context.Context, name string) (model.Property, error)
	AddLink(ctx context.Context, entityID, propertyID string) (model.Link, error)
}

// Options are shared by every list.
type Options struct {
	SelectMode view.SelectMode
	Logger     logrus.FieldLogger
}

// OptionsFromConfig maps the config document onto list options.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{SelectMode: view.SelectSet}
	if cfg.SelectMode == config.SelectModeToggle {
		opts.SelectMode = view.SelectToggle
	}
	return opts
}
