package paging

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "orkg-backend/backend/pkg/errors"
)

// DefaultChunkSize is the page size used by chunked iteration when none is given.
const DefaultChunkSize = 10_000

// Direction of a sort order
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Order sorts by one property path, e.g. "created_at" or "created_by.id".
type Order struct {
	Property  string
	Direction Direction
}

// Request is a 0-based page request.
type Request struct {
	Number int
	Size   int
	Sort   []Order
}

// Of builds a page request
func Of(number, size int, sort ...Order) Request {
	return Request{Number: number, Size: size, Sort: sort}
}

// Offset of the first element of the requested page
func (r Request) Offset() int64 {
	return int64(r.Number) * int64(r.Size)
}

// Next returns the request for the following page with the same size and sort.
func (r Request) Next() Request {
	r.Number++
	return r
}

// ParseSort reads Spring-style "property,direction" sort parameters.
func ParseSort(values []string) ([]Order, error) {
	orders := make([]Order, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		parts := strings.Split(v, ",")
		o := Order{Property: strings.TrimSpace(parts[0]), Direction: Asc}
		if len(parts) > 1 {
			switch strings.ToLower(strings.TrimSpace(parts[1])) {
			case "asc", "":
				o.Direction = Asc
			case "desc":
				o.Direction = Desc
			default:
				return nil, apperrors.NewValidation("sort", fmt.Sprintf("unknown direction %q", parts[1]))
			}
		}
		if o.Property == "" {
			return nil, apperrors.NewValidation("sort", "missing property")
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// Page is a bounded slice of a larger result set plus its metadata.
type Page[T any] struct {
	Content       []T
	Number        int
	Size          int
	TotalElements int64
}

// New builds a page for the given request
func New[T any](content []T, req Request, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	return Page[T]{Content: content, Number: req.Number, Size: req.Size, TotalElements: total}
}

// Empty returns a page without content for req
func Empty[T any](req Request) Page[T] {
	return New[T](nil, req, 0)
}

func (p Page[T]) TotalPages() int {
	if p.Size <= 0 {
		if p.TotalElements > 0 {
			return 1
		}
		return 0
	}
	return int((p.TotalElements + int64(p.Size) - 1) / int64(p.Size))
}

func (p Page[T]) HasNext() bool {
	return p.Number+1 < p.TotalPages()
}

// Map transforms the content sequentially, keeping the metadata.
func Map[T, R any](p Page[T], fn func(T) R) Page[R] {
	out := make([]R, len(p.Content))
	for i, v := range p.Content {
		out[i] = fn(v)
	}
	return Page[R]{Content: out, Number: p.Number, Size: p.Size, TotalElements: p.TotalElements}
}

type pageJSON[T any] struct {
	Content       []T   `json:"content"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	HasNext       bool  `json:"hasNext"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

func (p Page[T]) MarshalJSON() ([]byte, error) {
	content := p.Content
	if content == nil {
		content = []T{}
	}
	return json.Marshal(pageJSON[T]{
		Content:       content,
		Number:        p.Number,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages(),
		HasNext:       p.HasNext(),
		First:         p.Number == 0,
		Last:          !p.HasNext(),
	})
}

// ErrUnknownSortingProperty is returned when a sort names a property the source cannot order by.
type ErrUnknownSortingProperty struct {
	*apperrors.BaseError
	Property string
}

func NewUnknownSortingProperty(property string) *ErrUnknownSortingProperty {
	return &ErrUnknownSortingProperty{
		BaseError: apperrors.NewBaseError(apperrors.ErrorTypeValidation, fmt.Sprintf("Unknown sorting property %q.", property), nil),
		Property:  property,
	}
}
