package api_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/emrgen/linker/internal/api"
	"github.com/emrgen/linker/internal/model"
	"github.com/emrgen/linker/internal/tester"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder keeps the headers of every request sent through it and counts
// how often idle connections are closed.
type recorder struct {
	mu      sync.Mutex
	headers []http.Header
	closed  int
}

func (r *recorder) RoundTrip(req *http.Request) (*http.Response, error) {
	r.mu.Lock()
	r.headers = append(r.headers, req.Header.Clone())
	r.mu.Unlock()
	return http.DefaultTransport.RoundTrip(req)
}

func (r *recorder) CloseIdleConnections() {
	r.mu.Lock()
	r.closed++
	r.mu.Unlock()
}

func TestClient_ListAndAdd(t *testing.T) {
	b := tester.NewBackend(t)
	client := api.NewClient(b.Config())
	ctx := context.TODO()

	entities, err := client.ListEntities(ctx)
	require.NoError(t, err)
	assert.Empty(t, entities)

	car, err := client.AddEntity(ctx, "car")
	require.NoError(t, err)
	color, err := client.AddProperty(ctx, "color")
	require.NoError(t, err)

	link, err := client.AddLink(ctx, car.ID, color.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, link.ID)

	entities, err = client.ListEntities(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Entity{car}, entities)

	properties, err := client.ListProperties(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Property{color}, properties)

	links, err := client.ListLinks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Link{link}, links)

	named, err := client.ListNamedLinks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.NamedLink{{
		ID:           link.ID,
		EntityID:     car.ID,
		EntityName:   "car",
		PropertyID:   color.ID,
		PropertyName: "color",
	}}, named)
}

func TestClient_Errors(t *testing.T) {
	b := tester.NewBackend(t)
	entities, properties := b.Seed(t, []string{"car"}, []string{"color"})
	client := api.NewClient(b.Config())
	ctx := context.TODO()

	tests := []struct {
		name    string
		call    func() error
		status  int
		message string
	}{
		{
			name: "duplicate entity",
			call: func() error {
				_, err := client.AddEntity(ctx, "car")
				return err
			},
			status:  http.StatusConflict,
			message: "record already exists",
		},
		{
			name: "unknown property",
			call: func() error {
				_, err := client.AddLink(ctx, entities[0].ID, uuid.New().String())
				return err
			},
			status:  http.StatusNotFound,
			message: "record not found",
		},
		{
			name: "server error",
			call: func() error {
				b.Handler.Fail(api.ResourceProperty, http.StatusInternalServerError, "disk full")
				defer b.Handler.Heal()
				_, err := client.ListProperties(ctx)
				return err
			},
			status:  http.StatusInternalServerError,
			message: "disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()

			var reqErr *api.RequestError
			require.True(t, errors.As(err, &reqErr), "got %v", err)
			assert.Equal(t, tt.status, reqErr.Status)
			assert.Equal(t, tt.message, reqErr.Message)
			assert.True(t, api.IsStatus(err, tt.status))
			assert.Contains(t, err.Error(), tt.message)
		})
	}

	_, err := client.AddLink(ctx, "", properties[0].ID)
	assert.ErrorIs(t, err, api.ErrInvalidRequest)
}

func TestClient_DecodeError(t *testing.T) {
	b := tester.NewBackend(t)
	client := api.NewClient(b.Config())

	// a 200 carrying an object where a list is expected
	b.Handler.Fail(api.ResourceNamedLink, http.StatusOK, "not a list")

	_, err := client.ListNamedLinks(context.TODO())
	var decErr *model.DecodeError
	require.True(t, errors.As(err, &decErr), "got %v", err)
	assert.Equal(t, api.ResourceNamedLink, decErr.Resource)
}

func TestClient_Unreachable(t *testing.T) {
	b := tester.NewBackend(t)
	cfg := b.Config()
	b.Close()

	_, err := api.NewClient(cfg).ListEntities(context.TODO())
	var reqErr *api.RequestError
	require.True(t, errors.As(err, &reqErr), "got %v", err)
	assert.Equal(t, 0, reqErr.Status)
	assert.Equal(t, "/entity", reqErr.Path)
}

func TestClient_Breaker(t *testing.T) {
	b := tester.NewBackend(t)
	b.Seed(t, []string{"car"}, nil)

	cfg := b.Config()
	cfg.Breaker.Enabled = true
	cfg.Breaker.MinRequests = 2
	cfg.Breaker.FailureThreshold = 0.5
	client := api.NewClient(cfg)
	ctx := context.TODO()

	// rejected requests do not count as failures
	for i := 0; i < 2; i++ {
		_, err := client.AddEntity(ctx, "car")
		assert.True(t, api.IsStatus(err, http.StatusConflict))
	}

	b.Handler.Fail(api.ResourceEntity, http.StatusBadGateway, "upstream down")
	for i := 0; i < 2; i++ {
		_, err := client.ListEntities(ctx)
		assert.True(t, api.IsStatus(err, http.StatusBadGateway))
	}

	b.Handler.Heal()
	_, err := client.ListEntities(ctx)
	assert.ErrorIs(t, err, api.ErrCircuitOpen)
}

func TestClient_RequestID(t *testing.T) {
	b := tester.NewBackend(t)
	rec := &recorder{}
	client := api.NewClient(b.Config(), api.WithHTTPClient(&http.Client{Transport: rec}))

	_, err := client.ListEntities(context.TODO())
	require.NoError(t, err)
	_, err = client.AddEntity(context.TODO(), "car")
	require.NoError(t, err)

	require.Len(t, rec.headers, 2)
	first := rec.headers[0].Get("X-Request-Id")
	second := rec.headers[1].Get("X-Request-Id")
	assert.NoError(t, uuid.Validate(first))
	assert.NotEqual(t, first, second)
	assert.Equal(t, "application/json", rec.headers[1].Get("Content-Type"))
}

func TestClient_Close(t *testing.T) {
	b := tester.NewBackend(t)
	rec := &recorder{}
	client := api.NewClient(b.Config(), api.WithHTTPClient(&http.Client{Transport: rec}))

	_, err := client.ListEntities(context.TODO())
	require.NoError(t, err)

	require.NoError(t, client.Close())
	assert.Equal(t, 1, rec.closed)

	// the client stays usable, the next request dials again
	_, err = client.ListEntities(context.TODO())
	assert.NoError(t, err)
}
