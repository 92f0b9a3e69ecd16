package graphdb

import (
	"context"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// fakeExecutor records every query and answers from per-operation queues.
// An exhausted queue answers with no records.
type fakeExecutor struct {
	mu        sync.Mutex
	queries   []Query
	writes    []Query
	responses map[string][][]*neo4j.Record
	errs      map[string]error
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{
		responses: make(map[string][][]*neo4j.Record),
		errs:      make(map[string]error),
	}
}

func (f *fakeExecutor) respond(operation string, records ...*neo4j.Record) *fakeExecutor {
	f.responses[operation] = append(f.responses[operation], records)
	return f
}

func (f *fakeExecutor) fail(operation string, err error) *fakeExecutor {
	f.errs[operation] = err
	return f
}

func (f *fakeExecutor) Read(_ context.Context, q Query) ([]*neo4j.Record, error) {
	return f.run(q, false)
}

func (f *fakeExecutor) Write(_ context.Context, q Query) ([]*neo4j.Record, error) {
	return f.run(q, true)
}

func (f *fakeExecutor) run(q Query, write bool) ([]*neo4j.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if write {
		f.writes = append(f.writes, q)
	}
	if err, ok := f.errs[q.Operation]; ok {
		return nil, err
	}
	queue := f.responses[q.Operation]
	if len(queue) == 0 {
		return nil, nil
	}
	f.responses[q.Operation] = queue[1:]
	return queue[0], nil
}

func (f *fakeExecutor) operations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ops := make([]string, len(f.queries))
	for i, q := range f.queries {
		ops[i] = q.Operation
	}
	return ops
}

func (f *fakeExecutor) query(operation string) (Query, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, q := range f.queries {
		if q.Operation == operation {
			return q, true
		}
	}
	return Query{}, false
}

// record builds a record from alternating keys and values
func record(kv ...any) *neo4j.Record {
	r := &neo4j.Record{}
	for i := 0; i+1 < len(kv); i += 2 {
		r.Keys = append(r.Keys, kv[i].(string))
		r.Values = append(r.Values, kv[i+1])
	}
	return r
}

func countRecord(total int64) *neo4j.Record {
	return record("total", total)
}

func resourceNode(id, label string, classes ...string) neo4j.Node {
	cs := make([]any, len(classes))
	for i, c := range classes {
		cs[i] = c
	}
	return neo4j.Node{
		ElementId: "4:test:" + id,
		Labels:    []string{"Thing", "Resource"},
		Props: map[string]any{
			"id":      id,
			"label":   label,
			"classes": cs,
		},
	}
}

func predicateNode(id, label string) neo4j.Node {
	return neo4j.Node{
		ElementId: "4:test:" + id,
		Labels:    []string{"Thing", "Predicate"},
		Props:     map[string]any{"id": id, "label": label},
	}
}
