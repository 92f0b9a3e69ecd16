// Package ids holds the typed identifiers used across the graph and community domains.
// Every identifier wraps exactly one primitive and marshals to a single JSON string.
package ids

import (
	"encoding"
	"regexp"
	"strings"

	"github.com/google/uuid"

	apperrors "orkg-backend/backend/pkg/errors"
)

var thingIDPattern = regexp.MustCompile(`^[a-zA-Z0-9:_-]+$`)

// ThingID identifies any graph node: resource, predicate, class or literal.
type ThingID struct {
	value string
}

// ParseThingID validates s and wraps it
func ParseThingID(s string) (ThingID, error) {
	if err := checkStringID("thing id", s); err != nil {
		return ThingID{}, err
	}
	return ThingID{value: s}, nil
}

// MustThingID is ParseThingID for constants; it panics on malformed input.
func MustThingID(s string) ThingID {
	id, err := ParseThingID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id ThingID) String() string { return id.value }

// IsZero reports whether the id was never set.
func (id ThingID) IsZero() bool { return id.value == "" }

func (id ThingID) MarshalText() ([]byte, error) { return []byte(id.value), nil }

func (id *ThingID) UnmarshalText(b []byte) error {
	parsed, err := ParseThingID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// StatementID identifies a statement (edge).
type StatementID struct {
	value string
}

func ParseStatementID(s string) (StatementID, error) {
	if err := checkStringID("statement id", s); err != nil {
		return StatementID{}, err
	}
	return StatementID{value: s}, nil
}

func MustStatementID(s string) StatementID {
	id, err := ParseStatementID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id StatementID) String() string { return id.value }

func (id StatementID) IsZero() bool { return id.value == "" }

func (id StatementID) MarshalText() ([]byte, error) { return []byte(id.value), nil }

func (id *StatementID) UnmarshalText(b []byte) error {
	parsed, err := ParseStatementID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func checkStringID(kind, s string) error {
	if strings.TrimSpace(s) == "" {
		return apperrors.NewValidation(kind, "must not be blank")
	}
	if !thingIDPattern.MatchString(s) {
		return apperrors.NewValidation(kind, "\""+s+"\" is not a valid identifier")
	}
	return nil
}

// UUID-backed community identifiers. The zero UUID is the "unknown" sentinel
// meaning no association.

type ContributorID struct{ value uuid.UUID }

type ObservatoryID struct{ value uuid.UUID }

type OrganizationID struct{ value uuid.UUID }

var (
	UnknownContributor  = ContributorID{}
	UnknownObservatory  = ObservatoryID{}
	UnknownOrganization = OrganizationID{}
)

func parseUUID(kind, s string) (uuid.UUID, error) {
	// uuid.Parse also accepts urn and braced forms; only the canonical 36-char form is allowed
	if len(s) != 36 {
		return uuid.Nil, apperrors.NewValidation(kind, "\""+s+"\" is not a valid UUID")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, apperrors.NewValidation(kind, "\""+s+"\" is not a valid UUID")
	}
	return u, nil
}

func ParseContributorID(s string) (ContributorID, error) {
	u, err := parseUUID("contributor id", s)
	return ContributorID{value: u}, err
}

func NewContributorID() ContributorID { return ContributorID{value: uuid.New()} }

func ContributorIDFromUUID(u uuid.UUID) ContributorID { return ContributorID{value: u} }

func (id ContributorID) UUID() uuid.UUID { return id.value }

func (id ContributorID) String() string { return id.value.String() }

func (id ContributorID) IsUnknown() bool { return id.value == uuid.Nil }

func (id ContributorID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *ContributorID) UnmarshalText(b []byte) error {
	parsed, err := ParseContributorID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func ParseObservatoryID(s string) (ObservatoryID, error) {
	u, err := parseUUID("observatory id", s)
	return ObservatoryID{value: u}, err
}

func NewObservatoryID() ObservatoryID { return ObservatoryID{value: uuid.New()} }

func ObservatoryIDFromUUID(u uuid.UUID) ObservatoryID { return ObservatoryID{value: u} }

func (id ObservatoryID) UUID() uuid.UUID { return id.value }

func (id ObservatoryID) String() string { return id.value.String() }

func (id ObservatoryID) IsUnknown() bool { return id.value == uuid.Nil }

func (id ObservatoryID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *ObservatoryID) UnmarshalText(b []byte) error {
	parsed, err := ParseObservatoryID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func ParseOrganizationID(s string) (OrganizationID, error) {
	u, err := parseUUID("organization id", s)
	return OrganizationID{value: u}, err
}

func NewOrganizationID() OrganizationID { return OrganizationID{value: uuid.New()} }

func OrganizationIDFromUUID(u uuid.UUID) OrganizationID { return OrganizationID{value: u} }

func (id OrganizationID) UUID() uuid.UUID { return id.value }

func (id OrganizationID) String() string { return id.value.String() }

func (id OrganizationID) IsUnknown() bool { return id.value == uuid.Nil }

func (id OrganizationID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *OrganizationID) UnmarshalText(b []byte) error {
	parsed, err := ParseOrganizationID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseThingIDs parses every element, stopping at the first malformed one.
func ParseThingIDs(values []string) ([]ThingID, error) {
	out := make([]ThingID, 0, len(values))
	for _, v := range values {
		id, err := ParseThingID(v)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

var (
	_ encoding.TextMarshaler   = ThingID{}
	_ encoding.TextUnmarshaler = (*ThingID)(nil)
	_ encoding.TextMarshaler   = StatementID{}
	_ encoding.TextMarshaler   = ContributorID{}
	_ encoding.TextMarshaler   = ObservatoryID{}
	_ encoding.TextMarshaler   = OrganizationID{}
)
