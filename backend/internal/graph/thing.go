package graph

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"orkg-backend/backend/internal/ids"
)

// Kind names one of the four node variants
type Kind string

const (
	KindResource  Kind = "resource"
	KindPredicate Kind = "predicate"
	KindClass     Kind = "class"
	KindLiteral   Kind = "literal"
)

// Thing is any graph node. The set of implementations is closed:
// Resource, Predicate, Class and Literal.
type Thing interface {
	ThingID() ids.ThingID
	ThingLabel() string
	isThing()
}

// KindOf reports the variant of t
func KindOf(t Thing) Kind {
	switch t.(type) {
	case Resource:
		return KindResource
	case Predicate:
		return KindPredicate
	case Class:
		return KindClass
	case Literal:
		return KindLiteral
	default:
		panic(fmt.Sprintf("graph: unknown thing variant %T", t))
	}
}

// Visibility of a resource in listings
type Visibility string

const (
	VisibilityDefault  Visibility = "DEFAULT"
	VisibilityFeatured Visibility = "FEATURED"
	VisibilityUnlisted Visibility = "UNLISTED"
	VisibilityDeleted  Visibility = "DELETED"
)

// ParseVisibility maps an unset value to DEFAULT
func ParseVisibility(s string) Visibility {
	switch Visibility(strings.ToUpper(s)) {
	case VisibilityFeatured:
		return VisibilityFeatured
	case VisibilityUnlisted:
		return VisibilityUnlisted
	case VisibilityDeleted:
		return VisibilityDeleted
	default:
		return VisibilityDefault
	}
}

// ExtractionMethod records how a resource's content was produced
type ExtractionMethod string

const (
	ExtractionManual    ExtractionMethod = "MANUAL"
	ExtractionAutomatic ExtractionMethod = "AUTOMATIC"
	ExtractionUnknown   ExtractionMethod = "UNKNOWN"
)

func ParseExtractionMethod(s string) ExtractionMethod {
	switch ExtractionMethod(strings.ToUpper(s)) {
	case ExtractionManual:
		return ExtractionManual
	case ExtractionAutomatic:
		return ExtractionAutomatic
	default:
		return ExtractionUnknown
	}
}

// Resource is an instance node. Its classes determine which content views can be built from it.
type Resource struct {
	ID               ids.ThingID        `json:"id"`
	Label            string             `json:"label"`
	Classes          []ids.ThingID      `json:"classes"`
	CreatedAt        time.Time          `json:"created_at"`
	CreatedBy        ids.ContributorID  `json:"created_by"`
	ObservatoryID    ids.ObservatoryID  `json:"observatory_id"`
	OrganizationID   ids.OrganizationID `json:"organization_id"`
	Visibility       Visibility         `json:"visibility"`
	Verified         bool               `json:"verified"`
	ExtractionMethod ExtractionMethod   `json:"extraction_method"`
	UnlistedBy       ids.ContributorID  `json:"unlisted_by"`
	Modifiable       bool               `json:"modifiable"`
}

func (r Resource) ThingID() ids.ThingID { return r.ID }
func (r Resource) ThingLabel() string   { return r.Label }
func (Resource) isThing()               {}

// HasClass reports class membership
func (r Resource) HasClass(class ids.ThingID) bool {
	return slices.Contains(r.Classes, class)
}

// ContentType derives the content view of a resource from its classes; empty when none applies.
func (r Resource) ContentType() string {
	for _, ct := range contentTypes {
		if r.HasClass(ct.class) {
			return ct.name
		}
	}
	return ""
}

func (r Resource) MarshalJSON() ([]byte, error) {
	type alias Resource
	return json.Marshal(struct {
		Kind Kind `json:"_class"`
		alias
		Featured bool `json:"featured"`
		Unlisted bool `json:"unlisted"`
	}{KindResource, alias(r), r.Visibility == VisibilityFeatured, r.Visibility == VisibilityUnlisted})
}

// NormalizeClasses removes duplicates and sorts, giving class sets a canonical form.
func NormalizeClasses(classes []ids.ThingID) []ids.ThingID {
	out := make([]ids.ThingID, 0, len(classes))
	for _, c := range classes {
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b ids.ThingID) int { return strings.Compare(a.String(), b.String()) })
	return out
}

// Predicate labels the edge of a statement
type Predicate struct {
	ID         ids.ThingID       `json:"id"`
	Label      string            `json:"label"`
	CreatedAt  time.Time         `json:"created_at"`
	CreatedBy  ids.ContributorID `json:"created_by"`
	Modifiable bool              `json:"modifiable"`
}

func (p Predicate) ThingID() ids.ThingID { return p.ID }
func (p Predicate) ThingLabel() string   { return p.Label }
func (Predicate) isThing()               {}

func (p Predicate) MarshalJSON() ([]byte, error) {
	type alias Predicate
	return json.Marshal(struct {
		Kind Kind `json:"_class"`
		alias
	}{KindPredicate, alias(p)})
}

// Class is a type node that resources can be instances of
type Class struct {
	ID         ids.ThingID       `json:"id"`
	Label      string            `json:"label"`
	URI        string            `json:"uri,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	CreatedBy  ids.ContributorID `json:"created_by"`
	Modifiable bool              `json:"modifiable"`
}

func (c Class) ThingID() ids.ThingID { return c.ID }
func (c Class) ThingLabel() string   { return c.Label }
func (Class) isThing()               {}

func (c Class) MarshalJSON() ([]byte, error) {
	type alias Class
	return json.Marshal(struct {
		Kind Kind `json:"_class"`
		alias
	}{KindClass, alias(c)})
}

// Literal is a typed value node
type Literal struct {
	ID         ids.ThingID       `json:"id"`
	Label      string            `json:"label"`
	Datatype   string            `json:"datatype"`
	CreatedAt  time.Time         `json:"created_at"`
	CreatedBy  ids.ContributorID `json:"created_by"`
	Modifiable bool              `json:"modifiable"`
}

func (l Literal) ThingID() ids.ThingID { return l.ID }
func (l Literal) ThingLabel() string   { return l.Label }
func (Literal) isThing()               {}

func (l Literal) MarshalJSON() ([]byte, error) {
	type alias Literal
	return json.Marshal(struct {
		Kind Kind `json:"_class"`
		alias
	}{KindLiteral, alias(l)})
}
