package api

import (
	"context"
	"fmt"

	"github.com/emrgen/linker/internal/model"
)

const (
	ResourceEntity    = "entity"
	ResourceProperty  = "property"
	ResourceLink      = "link"
	ResourceNamedLink = "named_link"
)

// ListEntities gets the entity records.
func (c *Client) ListEntities(ctx context.Context) ([]model.Entity, error) {
	return list[model.Entity](ctx, c, ResourceEntity)
}

// ListProperties gets the property records.
func (c *Client) ListProperties(ctx context.Context) ([]model.Property, error) {
	return list[model.Property](ctx, c, ResourceProperty)
}

// ListLinks gets the link records.
func (c *Client) ListLinks(ctx context.Context) ([]model.Link, error) {
	return list[model.Link](ctx, c, ResourceLink)
}

// ListNamedLinks gets the named_link view, links with the entity and property names.
func (c *Client) ListNamedLinks(ctx context.Context) ([]model.NamedLink, error) {
	return list[model.NamedLink](ctx, c, ResourceNamedLink)
}

// AddLink links an entity to a property and returns the created link.
func (c *Client) AddLink(ctx context.Context, entityID, propertyID string) (model.Link, error) {
	req := model.AddLinkRequest{EntityID: entityID, PropertyID: propertyID}
	return create[model.Link](ctx, c, ResourceLink, req)
}

// AddEntity creates an entity by name.
func (c *Client) AddEntity(ctx context.Context, name string) (model.Entity, error) {
	return create[model.Entity](ctx, c, ResourceEntity, model.AddNamedRequest{Name: name})
}

// AddProperty creates a property by name.
func (c *Client) AddProperty(ctx context.Context, name string) (model.Property, error) {
	return create[model.Property](ctx, c, ResourceProperty, model.AddNamedRequest{Name: name})
}

func list[T any](ctx context.Context, c *Client, resource string) ([]T, error) {
	body, err := c.Get(ctx, resource)
	if err != nil {
		return nil, err
	}

	records, err := model.DecodeList[T](resource, body)
	if err != nil {
		return nil, err
	}

	c.log.Debugf("%s records: %d", resource, len(records))

	return records, nil
}

func create[T any](ctx context.Context, c *Client, resource string, req any) (T, error) {
	var zero T
	if err := model.Validate(req); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	body, err := c.Post(ctx, resource, req)
	if err != nil {
		return zero, err
	}

	return model.DecodeOne[T](resource, body)
}
