// Package inmemory implements the graph ports over maps. Identifier counters are atomic and
// every map is guarded by one lock, so a Graph can be shared across goroutines.
package inmemory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"orkg-backend/backend/internal/graph"
	"orkg-backend/backend/internal/ids"
	"orkg-backend/backend/internal/paging"
)

type storedStatement struct {
	id         ids.StatementID
	subject    ids.ThingID
	predicate  ids.ThingID
	object     ids.ThingID
	createdAt  time.Time
	createdBy  ids.ContributorID
	modifiable bool
}

// Graph holds all nodes and statements
type Graph struct {
	mu sync.RWMutex

	resources  map[ids.ThingID]graph.Resource
	predicates map[ids.ThingID]graph.Predicate
	classes    map[ids.ThingID]graph.Class
	literals   map[ids.ThingID]graph.Literal
	statements map[ids.StatementID]storedStatement

	// insertion order keeps listings deterministic before sorting
	resourceOrder  []ids.ThingID
	statementOrder []ids.StatementID

	resourceSeq  atomic.Int64
	predicateSeq atomic.Int64
	classSeq     atomic.Int64
	literalSeq   atomic.Int64
	statementSeq atomic.Int64
}

func NewGraph() *Graph {
	return &Graph{
		resources:  make(map[ids.ThingID]graph.Resource),
		predicates: make(map[ids.ThingID]graph.Predicate),
		classes:    make(map[ids.ThingID]graph.Class),
		literals:   make(map[ids.ThingID]graph.Literal),
		statements: make(map[ids.StatementID]storedStatement),
	}
}

func (g *Graph) Resources() *ResourceRepository   { return &ResourceRepository{g: g} }
func (g *Graph) Predicates() *PredicateRepository { return &PredicateRepository{g: g} }
func (g *Graph) Classes() *ClassRepository        { return &ClassRepository{g: g} }
func (g *Graph) Literals() *LiteralRepository     { return &LiteralRepository{g: g} }
func (g *Graph) Things() *ThingRepository         { return &ThingRepository{g: g} }
func (g *Graph) Statements() *StatementRepository { return &StatementRepository{g: g} }

// thingLocked must be called with g.mu held
func (g *Graph) thingLocked(id ids.ThingID) (graph.Thing, bool) {
	if r, ok := g.resources[id]; ok {
		return r, true
	}
	if p, ok := g.predicates[id]; ok {
		return p, true
	}
	if c, ok := g.classes[id]; ok {
		return c, true
	}
	if l, ok := g.literals[id]; ok {
		return l, true
	}
	return nil, false
}

// nextThingID draws from seq until the id is free in every node map
func (g *Graph) nextThingID(prefix string, seq *atomic.Int64) ids.ThingID {
	for {
		id := ids.MustThingID(fmt.Sprintf("%s%d", prefix, seq.Add(1)))
		g.mu.RLock()
		_, taken := g.thingLocked(id)
		g.mu.RUnlock()
		if !taken {
			return id
		}
	}
}

// ============================================================================
// Node repositories
// ============================================================================

type ThingRepository struct{ g *Graph }

func (r *ThingRepository) FindByID(_ context.Context, id ids.ThingID) (graph.Thing, bool, error) {
	r.g.mu.RLock()
	defer r.g.mu.RUnlock()
	t, ok := r.g.thingLocked(id)
	return t, ok, nil
}

type ResourceRepository struct{ g *Graph }

var resourceSortKeys = paging.SortKeys[graph.Resource]{
	"id":         paging.ByString(func(r graph.Resource) string { return r.ID.String() }),
	"label":      paging.ByString(func(r graph.Resource) string { return r.Label }),
	"created_at": paging.ByTime(func(r graph.Resource) *time.Time { return &r.CreatedAt }),
	"created_by": paging.ByString(func(r graph.Resource) string { return r.CreatedBy.String() }),
	"visibility": paging.ByString(func(r graph.Resource) string { return string(r.Visibility) }),
}

func (r *ResourceRepository) NextIdentity(context.Context) (ids.ThingID, error) {
	return r.g.nextThingID("R", &r.g.resourceSeq), nil
}

func (r *ResourceRepository) Save(_ context.Context, res graph.Resource) error {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	if _, exists := r.g.resources[res.ID]; !exists {
		r.g.resourceOrder = append(r.g.resourceOrder, res.ID)
	}
	res.Classes = slices.Clone(res.Classes)
	r.g.resources[res.ID] = res
	return nil
}

func (r *ResourceRepository) FindByID(_ context.Context, id ids.ThingID) (graph.Resource, bool, error) {
	r.g.mu.RLock()
	defer r.g.mu.RUnlock()
	res, ok := r.g.resources[id]
	return res, ok, nil
}

func (r *ResourceRepository) Exists(_ context.Context, id ids.ThingID) (bool, error) {
	r.g.mu.RLock()
	defer r.g.mu.RUnlock()
	_, ok := r.g.resources[id]
	return ok, nil
}

// FindAll filters, then sorts by the requested order or by creation time, then pages.
func (r *ResourceRepository) FindAll(_ context.Context, filter graph.ResourceFilter, req paging.Request) (paging.Page[graph.Resource], error) {
	r.g.mu.RLock()
	matched := make([]graph.Resource, 0)
	for _, id := range r.g.resourceOrder {
		if res := r.g.resources[id]; filter.Matches(res) {
			matched = append(matched, res)
		}
	}
	r.g.mu.RUnlock()

	if len(req.Sort) == 0 {
		req.Sort = []paging.Order{{Property: "created_at", Direction: paging.Asc}}
	}
	return paging.Paged(matched, req, resourceSortKeys)
}

type PredicateRepository struct{ g *Graph }

func (r *PredicateRepository) NextIdentity(context.Context) (ids.ThingID, error) {
	return r.g.nextThingID("P", &r.g.predicateSeq), nil
}

func (r *PredicateRepository) Save(_ context.Context, p graph.Predicate) error {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	r.g.predicates[p.ID] = p
	return nil
}

func (r *PredicateRepository) FindByID(_ context.Context, id ids.ThingID) (graph.Predicate, bool, error) {
	r.g.mu.RLock()
	defer r.g.mu.RUnlock()
	p, ok := r.g.predicates[id]
	return p, ok, nil
}

func (r *PredicateRepository) Exists(_ context.Context, id ids.ThingID) (bool, error) {
	r.g.mu.RLock()
	defer r.g.mu.RUnlock()
	_, ok := r.g.predicates[id]
	return ok, nil
}

type ClassRepository struct{ g *Graph }

func (r *ClassRepository) NextIdentity(context.Context) (ids.ThingID, error) {
	return r.g.nextThingID("C", &r.g.classSeq), nil
}

func (r *ClassRepository) Save(_ context.Context, c graph.Class) error {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	r.g.classes[c.ID] = c
	return nil
}

func (r *ClassRepository) FindByID(_ context.Context, id ids.ThingID) (graph.Class, bool, error) {
	r.g.mu.RLock()
	defer r.g.mu.RUnlock()
	c, ok := r.g.classes[id]
	return c, ok, nil
}

func (r *ClassRepository) Exists(_ context.Context, id ids.ThingID) (bool, error) {
	r.g.mu.RLock()
	defer r.g.mu.RUnlock()
	_, ok := r.g.classes[id]
	return ok, nil
}

type LiteralRepository struct{ g *Graph }

func (r *LiteralRepository) NextIdentity(context.Context) (ids.ThingID, error) {
	return r.g.nextThingID("L", &r.g.literalSeq), nil
}

func (r *LiteralRepository) Save(_ context.Context, l graph.Literal) error {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	r.g.literals[l.ID] = l
	return nil
}

func (r *LiteralRepository) FindByID(_ context.Context, id ids.ThingID) (graph.Literal, bool, error) {
	r.g.mu.RLock()
	defer r.g.mu.RUnlock()
	l, ok := r.g.literals[id]
	return l, ok, nil
}

func (r *LiteralRepository) Exists(_ context.Context, id ids.ThingID) (bool, error) {
	r.g.mu.RLock()
	defer r.g.mu.RUnlock()
	_, ok := r.g.literals[id]
	return ok, nil
}

// ============================================================================
// Statements
// ============================================================================

type StatementRepository struct{ g *Graph }

var statementSortKeys = paging.SortKeys[graph.GeneralStatement]{
	"id":            paging.ByString(func(s graph.GeneralStatement) string { return s.ID.String() }),
	"created_at":    paging.ByTime(func(s graph.GeneralStatement) *time.Time { return &s.CreatedAt }),
	"created_by":    paging.ByString(func(s graph.GeneralStatement) string { return s.CreatedBy.String() }),
	"subject.label": paging.ByString(func(s graph.GeneralStatement) string { return s.Subject.ThingLabel() }),
	"object.label":  paging.ByString(func(s graph.GeneralStatement) string { return s.Object.ThingLabel() }),
}

func (r *StatementRepository) NextIdentity(context.Context) (ids.StatementID, error) {
	for {
		id := ids.MustStatementID(fmt.Sprintf("S%d", r.g.statementSeq.Add(1)))
		r.g.mu.RLock()
		_, taken := r.g.statements[id]
		r.g.mu.RUnlock()
		if !taken {
			return id, nil
		}
	}
}

func (r *StatementRepository) Save(_ context.Context, s graph.GeneralStatement) error {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	if _, exists := r.g.statements[s.ID]; !exists {
		r.g.statementOrder = append(r.g.statementOrder, s.ID)
	}
	r.g.statements[s.ID] = storedStatement{
		id:         s.ID,
		subject:    s.Subject.ThingID(),
		predicate:  s.Predicate.ID,
		object:     s.Object.ThingID(),
		createdAt:  s.CreatedAt,
		createdBy:  s.CreatedBy,
		modifiable: s.Modifiable,
	}
	return nil
}

// resolveLocked rebuilds a statement from the current nodes; false when an endpoint is gone.
func (r *StatementRepository) resolveLocked(s storedStatement) (graph.GeneralStatement, bool) {
	subject, ok := r.g.thingLocked(s.subject)
	if !ok {
		return graph.GeneralStatement{}, false
	}
	predicate, ok := r.g.predicates[s.predicate]
	if !ok {
		return graph.GeneralStatement{}, false
	}
	object, ok := r.g.thingLocked(s.object)
	if !ok {
		return graph.GeneralStatement{}, false
	}
	return graph.GeneralStatement{
		ID:         s.id,
		Subject:    subject,
		Predicate:  predicate,
		Object:     object,
		CreatedAt:  s.createdAt,
		CreatedBy:  s.createdBy,
		Modifiable: s.modifiable,
	}, true
}

func (r *StatementRepository) FindByID(_ context.Context, id ids.StatementID) (graph.GeneralStatement, bool, error) {
	r.g.mu.RLock()
	defer r.g.mu.RUnlock()
	stored, ok := r.g.statements[id]
	if !ok {
		return graph.GeneralStatement{}, false, nil
	}
	st, ok := r.resolveLocked(stored)
	return st, ok, nil
}

func (r *StatementRepository) matching(filter graph.StatementFilter) []graph.GeneralStatement {
	r.g.mu.RLock()
	defer r.g.mu.RUnlock()
	out := make([]graph.GeneralStatement, 0)
	for _, id := range r.g.statementOrder {
		st, ok := r.resolveLocked(r.g.statements[id])
		if ok && filter.Matches(st) {
			out = append(out, st)
		}
	}
	return out
}

func (r *StatementRepository) FindAll(_ context.Context, filter graph.StatementFilter, req paging.Request) (paging.Page[graph.GeneralStatement], error) {
	if len(req.Sort) == 0 {
		req.Sort = []paging.Order{{Property: "created_at", Direction: paging.Asc}}
	}
	return paging.Paged(r.matching(filter), req, statementSortKeys)
}

func (r *StatementRepository) Count(_ context.Context, filter graph.StatementFilter) (int64, error) {
	return int64(len(r.matching(filter))), nil
}

func (r *StatementRepository) Delete(_ context.Context, id ids.StatementID) error {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	delete(r.g.statements, id)
	r.g.statementOrder = slices.DeleteFunc(r.g.statementOrder, func(s ids.StatementID) bool { return s == id })
	return nil
}

// compile-time port checks
var (
	_ graph.ResourceRepository  = (*ResourceRepository)(nil)
	_ graph.PredicateRepository = (*PredicateRepository)(nil)
	_ graph.ClassRepository     = (*ClassRepository)(nil)
	_ graph.LiteralRepository   = (*LiteralRepository)(nil)
	_ graph.ThingRepository     = (*ThingRepository)(nil)
	_ graph.StatementRepository = (*StatementRepository)(nil)
)
