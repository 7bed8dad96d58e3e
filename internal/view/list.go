package view

import (
	"context"
	"slices"
	"strings"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sirupsen/logrus"
)

// CreateMode decides what gets appended after a successful create.
type CreateMode int

const (
	// CreateFromResponse appends the record returned by the backend.
	CreateFromResponse CreateMode = iota
	// CreateSynthesized appends a record built locally from the candidate,
	// used when the backend answers before the listed view reflects the change.
	CreateSynthesized
)

// SelectMode decides what selecting the already selected record does.
type SelectMode int

const (
	// SelectSet keeps the record selected.
	SelectSet SelectMode = iota
	// SelectToggle clears the selection.
	SelectToggle
)

func (m SelectMode) String() string {
	if m == SelectToggle {
		return "toggle"
	}
	return "set"
}

// Options configure a ListModel. Fetch, Key, ID and Fields are required.
type Options[R any, K comparable] struct {
	// Name is used in log lines.
	Name string
	// Fetch reads the whole collection from the backend.
	Fetch func(ctx context.Context) ([]R, error)
	// Create sends a create request for the candidate. Optional.
	Create func(ctx context.Context, candidate R) (R, error)
	// Key returns the natural key, unique within the list.
	Key func(R) K
	// ValidKey reports whether a key is complete enough to create a record.
	// Defaults to rejecting the zero key.
	ValidKey func(K) bool
	// ID returns the server assigned id, empty for records not confirmed yet.
	ID func(R) string
	// Fields returns the display fields the query is matched against.
	Fields func(R) []string
	// Synthesize turns a candidate into the locally appended record.
	// Required with CreateSynthesized.
	Synthesize func(R) R
	CreateMode CreateMode
	SelectMode SelectMode
	Logger     logrus.FieldLogger
}

// ListModel holds a collection fetched from the backend together with a
// free text query and at most one selected record.
//
// Every state change happens under one lock and bumps the version, so a fetch
// that resolves after local creates merges with them instead of dropping them.
type ListModel[R any, K comparable] struct {
	opts Options[R, K]
	log  logrus.FieldLogger

	mu      sync.Mutex
	records []R
	// version at which a record was appended locally, by key
	addedAt  map[K]uint64
	pending  mapset.Set[K]
	selected K
	hasSel   bool
	query    string
	loaded   bool
	version  uint64

	// version at which the last applied fetch started
	loadedFrom uint64
}

// New creates an empty, not yet loaded list. It panics when a required option is missing.
func New[R any, K comparable](opts Options[R, K]) *ListModel[R, K] {
	if opts.Fetch == nil || opts.Key == nil || opts.ID == nil || opts.Fields == nil {
		panic("view: Fetch, Key, ID and Fields are required")
	}
	if opts.CreateMode == CreateSynthesized && opts.Synthesize == nil {
		panic("view: Synthesize is required with CreateSynthesized")
	}
	if opts.ValidKey == nil {
		opts.ValidKey = func(k K) bool {
			var zero K
			return k != zero
		}
	}

	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	if opts.Name != "" {
		log = log.WithField("list", opts.Name)
	}

	return &ListModel[R, K]{
		opts:    opts,
		log:     log,
		records: make([]R, 0),
		addedAt: make(map[K]uint64),
		pending: mapset.NewThreadUnsafeSet[K](),
	}
}

// Load fetches the collection and replaces the local one. Records created
// locally while the fetch was in flight are kept when the fetch misses them.
// A fetch that resolves after one started at the same or a later version
// was applied is dropped.
// On failure the records stay as they were and the error is logged and returned.
func (l *ListModel[R, K]) Load(ctx context.Context) error {
	l.mu.Lock()
	start := l.version
	l.mu.Unlock()

	fetched, err := l.opts.Fetch(ctx)
	if err != nil {
		l.log.Errorf("load failed: %v", err)
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// a fetch that started no later than the one already applied is no newer than the list
	if l.loaded && start <= l.loadedFrom {
		l.log.Debugf("dropping stale load started at version %d", start)
		return nil
	}

	keys := mapset.NewThreadUnsafeSet[K]()
	records := make([]R, 0, len(fetched))
	for _, r := range fetched {
		k := l.opts.Key(r)
		if !keys.Add(k) {
			l.log.Warnf("dropping duplicate record %v", k)
			continue
		}
		records = append(records, r)
	}

	if l.version != start {
		for _, r := range l.records {
			k := l.opts.Key(r)
			if at, ok := l.addedAt[k]; ok && at > start && !keys.Contains(k) {
				records = append(records, r)
			}
		}
	}

	// confirmed or dropped records are no longer local additions
	for k := range l.addedAt {
		if keys.Contains(k) || l.indexByKey(records, k) < 0 {
			delete(l.addedAt, k)
		}
	}

	l.records = records
	l.loaded = true
	l.loadedFrom = start
	l.version++
	l.dropStaleSelection()

	l.log.Debugf("loaded %d records", len(records))

	return nil
}

// SetQuery replaces the filter query. It does not refetch.
func (l *ListModel[R, K]) SetQuery(query string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.query = query
}

func (l *ListModel[R, K]) Query() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.query
}

// Visible returns the records matching the query, in list order. A record
// matches when the query is empty or is a case-insensitive substring of one
// of its display fields. Computed on every call.
func (l *ListModel[R, K]) Visible() []R {
	l.mu.Lock()
	query := l.query
	records := slices.Clone(l.records)
	l.mu.Unlock()

	if query == "" {
		return records
	}

	needle := strings.ToLower(query)
	visible := make([]R, 0, len(records))
	for _, r := range records {
		if l.matches(r, needle) {
			visible = append(visible, r)
		}
	}

	return visible
}

func (l *ListModel[R, K]) matches(r R, needle string) bool {
	for _, field := range l.opts.Fields(r) {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// Select selects the record with the given id. An unknown or empty id clears
// the selection and returns ErrRecordNotFound.
func (l *ListModel[R, K]) Select(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := -1
	if id != "" {
		idx = l.indexByID(id)
	}
	if idx < 0 {
		l.hasSel = false
		return ErrRecordNotFound
	}

	k := l.opts.Key(l.records[idx])
	if l.opts.SelectMode == SelectToggle && l.hasSel && l.selected == k {
		l.hasSel = false
		return nil
	}

	l.selected = k
	l.hasSel = true

	return nil
}

// Selected returns the selected record.
func (l *ListModel[R, K]) Selected() (R, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var zero R
	if !l.hasSel {
		return zero, false
	}

	idx := l.indexByKey(l.records, l.selected)
	if idx < 0 {
		return zero, false
	}

	return l.records[idx], true
}

// IsSelected reports whether the record with the given key is selected.
func (l *ListModel[R, K]) IsSelected(k K) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasSel && l.selected == k
}

func (l *ListModel[R, K]) Deselect() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hasSel = false
}

// CanCreate reports whether a record with key k may be created: the key is
// complete, no record has it and no create for it is in flight.
func (l *ListModel[R, K]) CanCreate(k K) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.canCreate(k)
}

func (l *ListModel[R, K]) canCreate(k K) bool {
	return l.opts.ValidKey(k) && l.indexByKey(l.records, k) < 0 && !l.pending.Contains(k)
}

// Create sends a create request for candidate and appends the result. When
// CanCreate is false it returns ErrCannotCreate and leaves the list alone.
// A failed request applies no change.
func (l *ListModel[R, K]) Create(ctx context.Context, candidate R) (R, error) {
	var zero R
	if l.opts.Create == nil {
		return zero, ErrCreateUnsupported
	}

	k := l.opts.Key(candidate)

	l.mu.Lock()
	if !l.canCreate(k) {
		l.mu.Unlock()
		return zero, ErrCannotCreate
	}
	l.pending.Add(k)
	l.mu.Unlock()

	created, err := l.opts.Create(ctx, candidate)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending.Remove(k)

	if err != nil {
		l.log.Errorf("create %v failed: %v", k, err)
		return zero, err
	}

	record := created
	if l.opts.CreateMode == CreateSynthesized {
		record = l.opts.Synthesize(candidate)
	}

	rk := l.opts.Key(record)
	if l.indexByKey(l.records, rk) >= 0 {
		// a load brought it in while the request was in flight
		l.log.Debugf("created %v is already listed", rk)
		return record, nil
	}

	l.records = append(l.records, record)
	l.version++
	l.addedAt[rk] = l.version

	l.log.Debugf("created %v", rk)

	return record, nil
}

// Remove removes the record with the given id if it is the selected one and
// clears the selection. The backend is not called.
func (l *ListModel[R, K]) Remove(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.indexByID(id)
	if idx < 0 {
		return ErrRecordNotFound
	}

	k := l.opts.Key(l.records[idx])
	if !l.hasSel || l.selected != k {
		return ErrNotSelected
	}

	l.records = slices.Delete(l.records, idx, idx+1)
	delete(l.addedAt, k)
	l.hasSel = false
	l.version++

	return nil
}

// Records returns a copy of the whole collection.
func (l *ListModel[R, K]) Records() []R {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.records)
}

func (l *ListModel[R, K]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Loaded reports whether a fetch has succeeded at least once.
func (l *ListModel[R, K]) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}

// Version increases on every change to the collection.
func (l *ListModel[R, K]) Version() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.version
}

// Contains reports whether a record with key k is listed.
func (l *ListModel[R, K]) Contains(k K) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.indexByKey(l.records, k) >= 0
}

// Find returns the record with the given id.
func (l *ListModel[R, K]) Find(id string) (R, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var zero R
	if id == "" {
		return zero, false
	}
	idx := l.indexByID(id)
	if idx < 0 {
		return zero, false
	}
	return l.records[idx], true
}

func (l *ListModel[R, K]) indexByID(id string) int {
	return slices.IndexFunc(l.records, func(r R) bool {
		return l.opts.ID(r) == id
	})
}

func (l *ListModel[R, K]) indexByKey(records []R, k K) int {
	return slices.IndexFunc(records, func(r R) bool {
		return l.opts.Key(r) == k
	})
}

func (l *ListModel[R, K]) dropStaleSelection() {
	if l.hasSel && l.indexByKey(l.records, l.selected) < 0 {
		l.hasSel = false
	}
}
