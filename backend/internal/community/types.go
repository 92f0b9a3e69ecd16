// Package community holds the people and groups that curate the graph:
// contributors, observatories and organizations.
package community

import (
	"time"

	"orkg-backend/backend/internal/ids"
)

// OrganizationType classifies an organization
type OrganizationType string

const (
	OrganizationGeneral    OrganizationType = "GENERAL"
	OrganizationConference OrganizationType = "CONFERENCE"
	OrganizationJournal    OrganizationType = "JOURNAL"
)

// ParseOrganizationType falls back to general for unknown values
func ParseOrganizationType(s string) OrganizationType {
	switch t := OrganizationType(s); t {
	case OrganizationConference, OrganizationJournal:
		return t
	default:
		return OrganizationGeneral
	}
}

type Organization struct {
	ID        ids.OrganizationID `json:"id"`
	Name      string             `json:"name"`
	DisplayID string             `json:"display_id"`
	URL       string             `json:"url,omitempty"`
	Type      OrganizationType   `json:"type"`
	CreatedBy ids.ContributorID  `json:"created_by"`
}

// Observatory groups contributors around a research field
type Observatory struct {
	ID            ids.ObservatoryID    `json:"id"`
	Name          string               `json:"name"`
	Description   string               `json:"description,omitempty"`
	ResearchField ids.ThingID          `json:"research_field"`
	DisplayID     string               `json:"display_id"`
	Organizations []ids.OrganizationID `json:"organization_ids"`
	// Members is filled on lookup, it is not stored with the observatory
	Members []ids.ContributorID `json:"members"`
}

type Contributor struct {
	ID             ids.ContributorID  `json:"id"`
	Name           string             `json:"display_name"`
	Email          string             `json:"-"`
	JoinedAt       time.Time          `json:"joined_at"`
	ObservatoryID  ids.ObservatoryID  `json:"observatory_id"`
	OrganizationID ids.OrganizationID `json:"organization_id"`
}

func (c Contributor) GravatarID() ids.GravatarID {
	return ids.NewGravatarID(c.Email)
}

func (c Contributor) AvatarURL() string {
	return c.GravatarID().ImageURL()
}

// IsMemberOf reports whether the contributor already belongs to observatory
func (c Contributor) IsMemberOf(observatory ids.ObservatoryID) bool {
	return !c.ObservatoryID.IsUnknown() && c.ObservatoryID == observatory
}
