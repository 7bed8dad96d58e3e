package tester

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/emrgen/linker/internal/config"
	"github.com/emrgen/linker/internal/model"
	"github.com/emrgen/linker/internal/server"
	"github.com/emrgen/linker/internal/store"
)

// TestStore returns a migrated store over a private in memory db.
func TestStore(t testing.TB) *store.GormStore {
	t.Helper()

	db, err := store.Open(store.MemoryDSN())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	// the in memory db lives as long as its connection, keep exactly one
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	s := store.NewGormStore(db)
	if err := s.Migrate(); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return s
}

// Backend is a running fake linker backend.
type Backend struct {
	*httptest.Server
	Handler *server.Handler
	Store   *store.GormStore
}

// NewBackend starts a fake backend that is closed when the test ends.
func NewBackend(t testing.TB) *Backend {
	t.Helper()

	s := TestStore(t)
	h := server.NewHandler(s)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return &Backend{Server: srv, Handler: h, Store: s}
}

// Config returns a client config pointing at the backend, with the circuit
// breaker off so failure tests do not trip it.
func (b *Backend) Config() *config.Config {
	cfg := config.Default()
	cfg.Endpoint = b.URL
	cfg.Breaker.Enabled = false
	return cfg
}

// Seed creates entities and properties by name, in order.
func (b *Backend) Seed(t testing.TB, entities, properties []string) ([]model.Entity, []model.Property) {
	t.Helper()

	ctx := context.Background()
	seededEntities := make([]model.Entity, 0, len(entities))
	for _, name := range entities {
		e := &model.Entity{Name: name}
		if err := b.Store.CreateEntity(ctx, e); err != nil {
			t.Fatalf("seed entity %s: %v", name, err)
		}
		seededEntities = append(seededEntities, model.Entity{ID: e.ID, Name: e.Name})
	}

	seededProperties := make([]model.Property, 0, len(properties))
	for _, name := range properties {
		p := &model.Property{Name: name}
		if err := b.Store.CreateProperty(ctx, p); err != nil {
			t.Fatalf("seed property %s: %v", name, err)
		}
		seededProperties = append(seededProperties, model.Property{ID: p.ID, Name: p.Name})
	}

	return seededEntities, seededProperties
}

// Link links an entity to a property directly in the store.
func (b *Backend) Link(t testing.TB, entityID, propertyID string) model.Link {
	t.Helper()

	l := &model.Link{EntityID: entityID, PropertyID: propertyID}
	if err := b.Store.CreateLink(context.Background(), l); err != nil {
		t.Fatalf("seed link: %v", err)
	}
	return model.Link{ID: l.ID, EntityID: l.EntityID, PropertyID: l.PropertyID}
}
