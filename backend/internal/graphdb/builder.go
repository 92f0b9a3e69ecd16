package graphdb

import (
	"context"
	"maps"
	"slices"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"orkg-backend/backend/internal/paging"
)

// Builder assembles a read query clause by clause. Values only enter through Param and
// sort properties resolve through a whitelist, so caller input never reaches the text.
type Builder struct {
	clauses []string
	params  map[string]any
	err     error
}

func NewBuilder() *Builder {
	return &Builder{params: make(map[string]any)}
}

func (b *Builder) add(clause string) *Builder {
	b.clauses = append(b.clauses, clause)
	return b
}

func (b *Builder) Match(pattern string) *Builder {
	return b.add("MATCH " + pattern)
}

func (b *Builder) OptionalMatch(pattern string) *Builder {
	return b.add("OPTIONAL MATCH " + pattern)
}

// Where AND-joins the non-empty conditions. Nothing is emitted when all are empty.
func (b *Builder) Where(conditions ...string) *Builder {
	parts := make([]string, 0, len(conditions))
	for _, c := range conditions {
		if strings.TrimSpace(c) != "" {
			parts = append(parts, c)
		}
	}
	if len(parts) == 0 {
		return b
	}
	return b.add("WHERE " + strings.Join(parts, " AND "))
}

func (b *Builder) With(expr string) *Builder {
	return b.add("WITH " + expr)
}

func (b *Builder) Unwind(expr string) *Builder {
	return b.add("UNWIND " + expr)
}

func (b *Builder) Return(expr string) *Builder {
	return b.add("RETURN " + expr)
}

// OrderBy maps each order through allowed, from sort property to Cypher expression.
// Without orders the fallback expressions are used verbatim. An unknown property
// fails the build.
func (b *Builder) OrderBy(orders []paging.Order, allowed map[string]string, fallback ...string) *Builder {
	exprs := make([]string, 0, len(orders))
	for _, o := range orders {
		expr, ok := allowed[o.Property]
		if !ok {
			if b.err == nil {
				b.err = paging.NewUnknownSortingProperty(o.Property)
			}
			return b
		}
		dir := "ASC"
		if o.Direction == paging.Desc {
			dir = "DESC"
		}
		exprs = append(exprs, expr+" "+dir)
	}
	if len(exprs) == 0 {
		exprs = fallback
	}
	if len(exprs) == 0 {
		return b
	}
	return b.add("ORDER BY " + strings.Join(exprs, ", "))
}

// ThenBy appends expr as the last ascending sort key unless the ordering already sorts
// by it. Paging with SKIP and LIMIT needs a total order, or ties may move between pages.
func (b *Builder) ThenBy(expr string) *Builder {
	if expr == "" || b.err != nil {
		return b
	}
	last := len(b.clauses) - 1
	if last < 0 || !strings.HasPrefix(b.clauses[last], "ORDER BY ") {
		return b.add("ORDER BY " + expr + " ASC")
	}
	for _, key := range strings.Split(strings.TrimPrefix(b.clauses[last], "ORDER BY "), ", ") {
		if strings.Fields(key)[0] == expr {
			return b
		}
	}
	b.clauses[last] += ", " + expr + " ASC"
	return b
}

// SkipLimit pages the result. An unsized request returns everything past the offset.
func (b *Builder) SkipLimit(req paging.Request) *Builder {
	b.Param("skip", req.Offset())
	if req.Size <= 0 {
		return b.add("SKIP $skip")
	}
	b.Param("limit", int64(req.Size))
	return b.add("SKIP $skip LIMIT $limit")
}

func (b *Builder) Param(name string, value any) *Builder {
	b.params[name] = value
	return b
}

func (b *Builder) Clone() *Builder {
	return &Builder{clauses: slices.Clone(b.clauses), params: maps.Clone(b.params), err: b.err}
}

func (b *Builder) Build(operation string) (Query, error) {
	if b.err != nil {
		return Query{}, b.err
	}
	return Query{
		Operation: operation,
		Text:      strings.Join(b.clauses, "\n"),
		Params:    maps.Clone(b.params),
	}, nil
}

// when returns cond if ok, else an empty condition that Where drops
func when(ok bool, cond string) string {
	if ok {
		return cond
	}
	return ""
}

// pagedQuery pairs one base query with the content and count projections run over it.
// unique names a key that tells every row apart; it closes each ordering.
type pagedQuery[T any] struct {
	operation string
	base      *Builder
	content   string
	count     string
	sortable  map[string]string
	fallback  []string
	unique    string
	decode    func(*neo4j.Record) (T, error)
}

// runPaged executes the content query and its count query and assembles the page
func runPaged[T any](ctx context.Context, exec Executor, q pagedQuery[T], req paging.Request) (paging.Page[T], error) {
	contentQuery, err := q.base.Clone().
		Return(q.content).
		OrderBy(req.Sort, q.sortable, q.fallback...).
		ThenBy(q.unique).
		SkipLimit(req).
		Build(q.operation)
	if err != nil {
		return paging.Page[T]{}, err
	}
	countQuery, err := q.base.Clone().Return(q.count + " AS total").Build(q.operation + ".count")
	if err != nil {
		return paging.Page[T]{}, err
	}

	records, err := exec.Read(ctx, contentQuery)
	if err != nil {
		return paging.Page[T]{}, err
	}
	content := make([]T, 0, len(records))
	for _, record := range records {
		item, err := q.decode(record)
		if err != nil {
			return paging.Page[T]{}, err
		}
		content = append(content, item)
	}

	countRecords, err := exec.Read(ctx, countQuery)
	if err != nil {
		return paging.Page[T]{}, err
	}
	var total int64
	if len(countRecords) > 0 {
		total = getInt64FromRecord(countRecords[0], "total")
	}
	return paging.New(content, req, total), nil
}
