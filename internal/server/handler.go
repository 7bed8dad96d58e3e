package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/emrgen/linker/internal/model"
	"github.com/emrgen/linker/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

type errorBody struct {
	Message string `json:"message"`
}

type fault struct {
	status  int
	message string
}

// Handler serves the linker REST api over a store. Faults can be injected
// per resource to exercise client error handling.
type Handler struct {
	router chi.Router
	store  store.Store

	mu     sync.Mutex
	faults map[string]fault
}

var _ http.Handler = (*Handler)(nil)

func NewHandler(s store.Store) *Handler {
	h := &Handler{
		store:  s,
		faults: make(map[string]fault),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestTimeMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(h.faultMiddleware)

	r.Get("/entity", h.listEntities)
	r.Post("/entity", h.createEntity)
	r.Get("/property", h.listProperties)
	r.Post("/property", h.createProperty)
	r.Get("/link", h.listLinks)
	r.Post("/link", h.createLink)
	r.Get("/named_link", h.listNamedLinks)

	h.router = r
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// Fail makes every request to resource answer with status and message until Heal is called.
func (h *Handler) Fail(resource string, status int, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.faults["/"+resource] = fault{status: status, message: message}
}

// Heal removes all injected faults.
func (h *Handler) Heal() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.faults = make(map[string]fault)
}

func (h *Handler) faultMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		f, ok := h.faults[r.URL.Path]
		h.mu.Unlock()

		if ok {
			writeError(w, f.status, f.message)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (h *Handler) listEntities(w http.ResponseWriter, r *http.Request) {
	entities, err := h.store.ListEntities(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entities)
}

func (h *Handler) createEntity(w http.ResponseWriter, r *http.Request) {
	var req model.AddNamedRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	entity := &model.Entity{Name: req.Name}
	if err := h.store.CreateEntity(r.Context(), entity); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entity)
}

func (h *Handler) listProperties(w http.ResponseWriter, r *http.Request) {
	properties, err := h.store.ListProperties(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, properties)
}

func (h *Handler) createProperty(w http.ResponseWriter, r *http.Request) {
	var req model.AddNamedRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	property := &model.Property{Name: req.Name}
	if err := h.store.CreateProperty(r.Context(), property); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, property)
}

func (h *Handler) listLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.store.ListLinks(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, links)
}

func (h *Handler) createLink(w http.ResponseWriter, r *http.Request) {
	var req model.AddLinkRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	link := &model.Link{EntityID: req.EntityID, PropertyID: req.PropertyID}
	err := h.store.Transaction(r.Context(), func(tx store.Store) error {
		return tx.CreateLink(r.Context(), link)
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

func (h *Handler) listNamedLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.store.ListNamedLinks(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, links)
}

func decodeRequest(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body: "+err.Error())
		return false
	}
	if err := model.Validate(v); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrDuplicate):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		logrus.Errorf("store error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("error writing response: %v", err)
	}
}
