package graph

import (
	"strings"
	"time"

	"orkg-backend/backend/internal/ids"
)

// GeneralStatement is a directed labeled edge between two things.
// Statements are immutable; an edit replaces the statement.
type GeneralStatement struct {
	ID         ids.StatementID   `json:"id"`
	Subject    Thing             `json:"subject"`
	Predicate  Predicate         `json:"predicate"`
	Object     Thing             `json:"object"`
	CreatedAt  time.Time         `json:"created_at"`
	CreatedBy  ids.ContributorID `json:"created_by"`
	Modifiable bool              `json:"modifiable"`
}

// StatementFilter narrows statement lookups; zero fields match anything.
type StatementFilter struct {
	Subject   ids.ThingID
	Predicate ids.ThingID
	Object    ids.ThingID
	// ObjectLabel matches the object label exactly
	ObjectLabel string
	CreatedBy   ids.ContributorID
}

// Matches applies the filter to an already loaded statement.
func (f StatementFilter) Matches(s GeneralStatement) bool {
	if !f.Subject.IsZero() && s.Subject.ThingID() != f.Subject {
		return false
	}
	if !f.Predicate.IsZero() && s.Predicate.ID != f.Predicate {
		return false
	}
	if !f.Object.IsZero() && s.Object.ThingID() != f.Object {
		return false
	}
	if f.ObjectLabel != "" && s.Object.ThingLabel() != f.ObjectLabel {
		return false
	}
	if !f.CreatedBy.IsUnknown() && s.CreatedBy != f.CreatedBy {
		return false
	}
	return true
}

// ResourceFilter narrows resource lookups; zero fields match anything.
type ResourceFilter struct {
	// Label matches case-insensitively when set
	Label      string
	Classes    []ids.ThingID
	Visibility VisibilityFilter
	CreatedBy  ids.ContributorID
}

// Matches applies the filter to an already loaded resource.
func (f ResourceFilter) Matches(r Resource) bool {
	if f.Label != "" && !strings.EqualFold(r.Label, f.Label) {
		return false
	}
	for _, c := range f.Classes {
		if !r.HasClass(c) {
			return false
		}
	}
	if f.Visibility != "" && !f.Visibility.Allows(r.Visibility) {
		return false
	}
	if !f.CreatedBy.IsUnknown() && r.CreatedBy != f.CreatedBy {
		return false
	}
	return true
}

// VisibilityFilter selects resources by visibility in listings
type VisibilityFilter string

const (
	FilterAllListed   VisibilityFilter = "ALL_LISTED"
	FilterUnlisted    VisibilityFilter = "UNLISTED"
	FilterFeatured    VisibilityFilter = "FEATURED"
	FilterNonFeatured VisibilityFilter = "NON_FEATURED"
	FilterDeleted     VisibilityFilter = "DELETED"
)

// ParseVisibilityFilter defaults to ALL_LISTED for an empty value.
func ParseVisibilityFilter(s string) (VisibilityFilter, error) {
	switch f := VisibilityFilter(strings.ToUpper(strings.TrimSpace(s))); f {
	case "":
		return FilterAllListed, nil
	case FilterAllListed, FilterUnlisted, FilterFeatured, FilterNonFeatured, FilterDeleted:
		return f, nil
	default:
		return "", NewInvalidVisibilityFilter(s)
	}
}

// Visibilities expands the filter into the visibility values it admits.
func (f VisibilityFilter) Visibilities() []Visibility {
	switch f {
	case FilterUnlisted:
		return []Visibility{VisibilityUnlisted}
	case FilterFeatured:
		return []Visibility{VisibilityFeatured}
	case FilterNonFeatured:
		return []Visibility{VisibilityDefault}
	case FilterDeleted:
		return []Visibility{VisibilityDeleted}
	default:
		return []Visibility{VisibilityDefault, VisibilityFeatured}
	}
}

// VisibilityStrings is Visibilities as plain strings, ready to bind as a query parameter.
func (f VisibilityFilter) VisibilityStrings() []string {
	vs := f.Visibilities()
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = string(v)
	}
	return out
}

func (f VisibilityFilter) Allows(v Visibility) bool {
	for _, allowed := range f.Visibilities() {
		if allowed == v {
			return true
		}
	}
	return false
}
