package paging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceSource serves pages from an in-memory slice and counts fetches.
type sliceSource struct {
	items   []int
	fetches []int
}

func (s *sliceSource) fetch(_ context.Context, req Request) (Page[int], error) {
	start := int(req.Offset())
	if start > len(s.items) {
		start = len(s.items)
	}
	end := start + req.Size
	if end > len(s.items) {
		end = len(s.items)
	}
	s.fetches = append(s.fetches, end-start)
	return New(s.items[start:end], req, int64(len(s.items))), nil
}

func sequence(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestForEach_VisitsEveryElementOnce(t *testing.T) {
	const n = 53
	for _, chunk := range []int{1, 7, n} {
		t.Run(fmt.Sprintf("chunk=%d", chunk), func(t *testing.T) {
			src := &sliceSource{items: sequence(n)}
			seen := make(map[int]int)
			chunks := 0

			err := ForEach(context.Background(), src.fetch,
				func(v int) error { seen[v]++; return nil },
				func(Page[int]) error { chunks++; return nil },
				chunk)

			require.NoError(t, err)
			assert.Len(t, seen, n)
			for v, count := range seen {
				assert.Equal(t, 1, count, "element %d", v)
			}
			assert.Equal(t, len(src.fetches), chunks)
		})
	}
}

func TestForEach_ChunkedExport(t *testing.T) {
	src := &sliceSource{items: sequence(250)}
	visited := 0

	err := ForEach(context.Background(), src.fetch, func(int) error { visited++; return nil }, nil, 100)

	require.NoError(t, err)
	assert.Equal(t, []int{100, 100, 50}, src.fetches)
	assert.Equal(t, 250, visited)
}

func TestForEach_EmptySourceFetchesOnce(t *testing.T) {
	src := &sliceSource{}
	err := ForEach(context.Background(), src.fetch, func(int) error { return nil }, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, src.fetches)
}

func TestForEach_StopsAtFirstActionError(t *testing.T) {
	src := &sliceSource{items: sequence(30)}
	boom := errors.New("boom")
	visited := 0

	err := ForEach(context.Background(), src.fetch, func(v int) error {
		visited++
		if v == 12 {
			return boom
		}
		return nil
	}, nil, 10)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 13, visited)
	assert.Len(t, src.fetches, 2)
}

func TestForEach_DoesNotRetryFailedFetch(t *testing.T) {
	calls := 0
	boom := errors.New("unavailable")
	err := ForEach(context.Background(), func(context.Context, Request) (Page[int], error) {
		calls++
		return Page[int]{}, boom
	}, func(int) error { return nil }, nil, 5)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestPMap_PreservesOrder(t *testing.T) {
	p := New(sequence(500), Of(2, 500), 2000)

	out, err := PMap(context.Background(), p, func(_ context.Context, v int) (int, error) {
		if v%3 == 0 {
			time.Sleep(time.Microsecond)
		}
		return v, nil
	}, 8)

	require.NoError(t, err)
	assert.Equal(t, p.Content, out.Content)
	assert.Equal(t, 2, out.Number)
	assert.Equal(t, 500, out.Size)
	assert.Equal(t, int64(2000), out.TotalElements)
}

func TestPMap_Transforms(t *testing.T) {
	p := New([]int{1, 2, 3}, Of(0, 3), 3)
	out, err := PMap(context.Background(), p, func(_ context.Context, v int) (string, error) {
		return fmt.Sprintf("#%d", v), nil
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"#1", "#2", "#3"}, out.Content)
}

func TestPMap_ReturnsError(t *testing.T) {
	var calls atomic.Int32
	boom := errors.New("bad element")
	p := New(sequence(10), Of(0, 10), 10)

	_, err := PMap(context.Background(), p, func(_ context.Context, v int) (int, error) {
		calls.Add(1)
		if v == 4 {
			return 0, boom
		}
		return v, nil
	}, 1)

	assert.ErrorIs(t, err, boom)
}

func TestPage_Metadata(t *testing.T) {
	p := New([]int{1, 2}, Of(1, 2), 5)
	assert.Equal(t, 3, p.TotalPages())
	assert.True(t, p.HasNext())

	last := New([]int{5}, Of(2, 2), 5)
	assert.False(t, last.HasNext())

	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"content":[1,2],"number":1,"size":2,"totalElements":5,"totalPages":3,"hasNext":true,"first":false,"last":false}`, string(b))

	b, err = json.Marshal(Empty[string](Of(0, 10)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"content":[],"number":0,"size":10,"totalElements":0,"totalPages":0,"hasNext":false,"first":true,"last":true}`, string(b))
}

func TestParseSort(t *testing.T) {
	orders, err := ParseSort([]string{"created_at,desc", "label", "id,ASC"})
	require.NoError(t, err)
	assert.Equal(t, []Order{
		{Property: "created_at", Direction: Desc},
		{Property: "label", Direction: Asc},
		{Property: "id", Direction: Asc},
	}, orders)

	_, err = ParseSort([]string{"label,sideways"})
	assert.Error(t, err)
}

type author struct {
	Name string
}

type record struct {
	ID     int
	Score  *int
	Author *author
}

func intPtr(v int) *int { return &v }

var recordKeys = SortKeys[record]{
	"id":    By(func(r record) *int { return &r.ID }),
	"score": By(func(r record) *int { return r.Score }),
	"author.name": By(func(r record) *string {
		if r.Author == nil {
			return nil
		}
		return &r.Author.Name
	}),
}

func ids(rs []record) []int {
	out := make([]int, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func TestPaged_NullsFirstAscendingLastDescending(t *testing.T) {
	items := []record{
		{ID: 1, Score: intPtr(5)},
		{ID: 2},
		{ID: 3, Score: intPtr(1)},
		{ID: 4},
		{ID: 5, Score: intPtr(3)},
	}

	asc, err := Paged(items, Of(0, 10, Order{Property: "score", Direction: Asc}), recordKeys)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4, 3, 5, 1}, ids(asc.Content))

	desc, err := Paged(items, Of(0, 10, Order{Property: "score", Direction: Desc}), recordKeys)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 5, 3, 2, 4}, ids(desc.Content))
}

func TestPaged_NestedPathTreatsMissingParentAsNull(t *testing.T) {
	items := []record{
		{ID: 1, Author: &author{Name: "b"}},
		{ID: 2},
		{ID: 3, Author: &author{Name: "a"}},
	}

	page, err := Paged(items, Of(0, 10, Order{Property: "author.name", Direction: Asc}), recordKeys)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 1}, ids(page.Content))
}

func TestPaged_SlicesAndSecondaryOrder(t *testing.T) {
	items := []record{
		{ID: 4, Score: intPtr(1)},
		{ID: 1, Score: intPtr(2)},
		{ID: 3, Score: intPtr(1)},
		{ID: 2, Score: intPtr(2)},
	}
	req := Of(1, 2, Order{Property: "score", Direction: Desc}, Order{Property: "id", Direction: Asc})

	page, err := Paged(items, req, recordKeys)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, ids(page.Content))
	assert.Equal(t, int64(4), page.TotalElements)
	assert.False(t, page.HasNext())

	beyond, err := Paged(items, Of(5, 2), recordKeys)
	require.NoError(t, err)
	assert.Empty(t, beyond.Content)
}

func TestPaged_UnknownProperty(t *testing.T) {
	_, err := Paged([]record{{ID: 1}}, Of(0, 1, Order{Property: "missing"}), recordKeys)
	var unknown *ErrUnknownSortingProperty
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "missing", unknown.Property)
}
