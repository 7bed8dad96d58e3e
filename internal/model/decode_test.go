package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeList(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    []Link
		fields  []string
		wantErr bool
	}{
		{
			name: "links without id",
			body: `[{"entity_id":"E1","property_id":"P1"}]`,
			want: []Link{{EntityID: "E1", PropertyID: "P1"}},
		},
		{
			name: "null body",
			body: `null`,
			want: []Link{},
		},
		{
			name:    "missing property id",
			body:    `[{"id":"1","entity_id":"E1","property_id":"P1"},{"id":"2","entity_id":"E2"}]`,
			fields:  []string{"property_id"},
			wantErr: true,
		},
		{
			name:    "mismatched type",
			body:    `[{"entity_id":42,"property_id":"P1"}]`,
			wantErr: true,
		},
		{
			name:    "not an array",
			body:    `{"message":"oops"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeList[Link]("link", []byte(tt.body))
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}

			var decodeErr *DecodeError
			require.True(t, errors.As(err, &decodeErr))
			assert.Equal(t, "link", decodeErr.Resource)
			if tt.fields != nil {
				assert.Equal(t, tt.fields, decodeErr.Fields)
			}
		})
	}
}

func TestDecodeList_ReportsIndex(t *testing.T) {
	_, err := DecodeList[NamedLink]("named_link", []byte(`[
		{"id":"1","entity_id":"E1","entity_name":"a","property_id":"P1","property_name":"b"},
		{"id":"2","entity_id":"E2","property_id":"P2","property_name":"c"}
	]`))

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, 1, decodeErr.Index)
	assert.Equal(t, []string{"entity_name"}, decodeErr.Fields)
	assert.Contains(t, err.Error(), "named_link[1]")
}

func TestDecodeOne(t *testing.T) {
	got, err := DecodeOne[Entity]("entity", []byte(`{"id":"E1","name":"car"}`))
	require.NoError(t, err)
	assert.Equal(t, Entity{ID: "E1", Name: "car"}, got)

	_, err = DecodeOne[Entity]("entity", []byte(`{"id":"E1"}`))
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, -1, decodeErr.Index)
	assert.Equal(t, []string{"name"}, decodeErr.Fields)
}

func TestNewNamedLink(t *testing.T) {
	got := NewNamedLink(Entity{ID: "E1", Name: "car"}, Property{ID: "P1", Name: "color"})
	assert.Equal(t, NamedLink{EntityID: "E1", EntityName: "car", PropertyID: "P1", PropertyName: "color"}, got)
	assert.Equal(t, LinkKey{EntityID: "E1", PropertyID: "P1"}, got.Key())
	assert.True(t, got.Key().Valid())
	assert.False(t, LinkKey{EntityID: "E1"}.Valid())
}
