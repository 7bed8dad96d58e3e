package service

import (
	"context"
	"testing"

	"github.com/emrgen/linker/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkList_AddLink(t *testing.T) {
	client, b := newTestClient(t)
	entities, properties := b.Seed(t, []string{"car", "bike"}, []string{"color"})
	b.Link(t, entities[1].ID, properties[0].ID)

	links := NewLinkList(client, Options{})
	require.NoError(t, links.Load(context.TODO()))
	require.Equal(t, 1, links.Len())

	car, bike, color := &entities[0], &entities[1], &properties[0]

	assert.False(t, links.CanAddLink(nil, color))
	assert.False(t, links.CanAddLink(bike, color))
	assert.True(t, links.CanAddLink(car, color))

	_, err := links.AddLink(context.TODO(), car, nil)
	assert.ErrorIs(t, err, ErrMissingSelection)

	link, err := links.AddLink(context.TODO(), car, color)
	require.NoError(t, err)
	assert.NotEmpty(t, link.ID)
	assert.Equal(t, model.LinkKey{EntityID: car.ID, PropertyID: color.ID}, link.Key())

	found, ok := links.Find(link.ID)
	assert.True(t, ok)
	assert.Equal(t, link, found)

	_, err = links.AddLink(context.TODO(), car, color)
	assert.ErrorIs(t, err, ErrLinkExists)
	assert.Equal(t, 2, links.Len())
}

func TestIsReferenced(t *testing.T) {
	car := &model.Entity{ID: "e1", Name: "car"}
	color := &model.Property{ID: "p1", Name: "color"}

	tests := []struct {
		name     string
		key      model.LinkKey
		entity   *model.Entity
		property *model.Property
		want     bool
	}{
		{name: "nothing selected", key: model.LinkKey{EntityID: "e1", PropertyID: "p1"}},
		{name: "entity side", key: model.LinkKey{EntityID: "e1", PropertyID: "p2"}, entity: car, want: true},
		{name: "property side", key: model.LinkKey{EntityID: "e2", PropertyID: "p1"}, property: color, want: true},
		{name: "both sides", key: model.LinkKey{EntityID: "e1", PropertyID: "p1"}, entity: car, property: color, want: true},
		{name: "neither side", key: model.LinkKey{EntityID: "e2", PropertyID: "p2"}, entity: car, property: color},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsReferenced(tt.key, tt.entity, tt.property))
		})
	}
}
