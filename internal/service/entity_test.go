package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/emrgen/linker/internal/api"
	"github.com/emrgen/linker/internal/tester"
	"github.com/emrgen/linker/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*api.Client, *tester.Backend) {
	t.Helper()
	b := tester.NewBackend(t)
	return api.NewClient(b.Config()), b
}

func TestEntityList_Add(t *testing.T) {
	client, b := newTestClient(t)
	b.Seed(t, []string{"car"}, nil)

	entities := NewEntityList(client, Options{})
	require.NoError(t, entities.Load(context.TODO()))

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "new name", input: "bike", want: "bike"},
		{name: "trimmed", input: "  truck ", want: "truck"},
		{name: "empty", input: "   ", wantErr: ErrEmptyName},
		{name: "listed already", input: "car", wantErr: view.ErrCannotCreate},
		{name: "listed after trim", input: " bike", wantErr: view.ErrCannotCreate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantErr == nil, entities.CanAdd(tt.input))

			got, err := entities.Add(context.TODO(), tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, tt.want, got.Name)
		})
	}

	assert.Equal(t, 3, entities.Len())

	// the backend agrees with the local list
	listed, err := client.ListEntities(context.TODO())
	require.NoError(t, err)
	assert.Len(t, listed, 3)
}

func TestEntityList_AddBeforeLoad(t *testing.T) {
	client, b := newTestClient(t)
	b.Seed(t, []string{"car"}, nil)

	entities := NewEntityList(client, Options{})
	assert.True(t, entities.CanAdd("car"))

	_, err := entities.Add(context.TODO(), "car")
	assert.True(t, api.IsStatus(err, http.StatusConflict))
	assert.Equal(t, 0, entities.Len())
}

func TestEntityList_SelectedEntity(t *testing.T) {
	client, b := newTestClient(t)
	seeded, _ := b.Seed(t, []string{"car", "bike"}, nil)

	entities := NewEntityList(client, Options{SelectMode: view.SelectToggle})
	require.NoError(t, entities.Load(context.TODO()))
	assert.Nil(t, entities.SelectedEntity())

	require.NoError(t, entities.Select(seeded[1].ID))
	require.NotNil(t, entities.SelectedEntity())
	assert.Equal(t, seeded[1], *entities.SelectedEntity())

	require.NoError(t, entities.Select(seeded[1].ID))
	assert.Nil(t, entities.SelectedEntity())
}

func TestPropertyList_Add(t *testing.T) {
	client, b := newTestClient(t)
	_, seeded := b.Seed(t, nil, []string{"color"})

	properties := NewPropertyList(client, Options{})
	require.NoError(t, properties.Load(context.TODO()))
	assert.Equal(t, seeded, properties.Records())

	_, err := properties.Add(context.TODO(), "color")
	assert.ErrorIs(t, err, view.ErrCannotCreate)

	size, err := properties.Add(context.TODO(), "size")
	require.NoError(t, err)
	assert.Equal(t, "size", size.Name)

	properties.SetQuery("SI")
	visible := properties.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "size", visible[0].Name)

	require.NoError(t, properties.Select(size.ID))
	require.NotNil(t, properties.SelectedProperty())
	assert.Equal(t, size.ID, properties.SelectedProperty().ID)
}
