// Package inmemory implements the community ports over maps. The server falls back to
// it when no Postgres database is configured.
package inmemory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"orkg-backend/backend/internal/community"
	"orkg-backend/backend/internal/ids"
)

// Store holds observatories, organizations and contributors
type Store struct {
	mu            sync.RWMutex
	observatories map[ids.ObservatoryID]community.Observatory
	organizations map[ids.OrganizationID]community.Organization
	contributors  map[ids.ContributorID]community.Contributor
}

func NewStore() *Store {
	return &Store{
		observatories: make(map[ids.ObservatoryID]community.Observatory),
		organizations: make(map[ids.OrganizationID]community.Organization),
		contributors:  make(map[ids.ContributorID]community.Contributor),
	}
}

func (s *Store) Observatories() *ObservatoryRepository   { return &ObservatoryRepository{s: s} }
func (s *Store) Organizations() *OrganizationRepository { return &OrganizationRepository{s: s} }
func (s *Store) Contributors() *ContributorRepository   { return &ContributorRepository{s: s} }

type ObservatoryRepository struct{ s *Store }

func (r *ObservatoryRepository) Save(_ context.Context, o community.Observatory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o.Organizations = slices.Clone(o.Organizations)
	o.Members = nil
	r.s.observatories[o.ID] = o
	return nil
}

func (r *ObservatoryRepository) FindByID(_ context.Context, id ids.ObservatoryID) (community.Observatory, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.observatories[id]
	return o, ok, nil
}

func (r *ObservatoryRepository) FindByName(_ context.Context, name string) (community.Observatory, bool, error) {
	return r.find(func(o community.Observatory) bool { return strings.EqualFold(o.Name, name) })
}

func (r *ObservatoryRepository) FindByDisplayID(_ context.Context, displayID string) (community.Observatory, bool, error) {
	return r.find(func(o community.Observatory) bool { return o.DisplayID == displayID })
}

func (r *ObservatoryRepository) find(match func(community.Observatory) bool) (community.Observatory, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, o := range r.s.observatories {
		if match(o) {
			return o, true, nil
		}
	}
	return community.Observatory{}, false, nil
}

func (r *ObservatoryRepository) Exists(_ context.Context, id ids.ObservatoryID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.observatories[id]
	return ok, nil
}

type OrganizationRepository struct{ s *Store }

func (r *OrganizationRepository) Save(_ context.Context, o community.Organization) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.organizations[o.ID] = o
	return nil
}

func (r *OrganizationRepository) FindByID(_ context.Context, id ids.OrganizationID) (community.Organization, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.organizations[id]
	return o, ok, nil
}

func (r *OrganizationRepository) FindByDisplayID(_ context.Context, displayID string) (community.Organization, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, o := range r.s.organizations {
		if o.DisplayID == displayID {
			return o, true, nil
		}
	}
	return community.Organization{}, false, nil
}

func (r *OrganizationRepository) Exists(_ context.Context, id ids.OrganizationID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.organizations[id]
	return ok, nil
}

type ContributorRepository struct{ s *Store }

func (r *ContributorRepository) Save(_ context.Context, c community.Contributor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.contributors[c.ID] = c
	return nil
}

func (r *ContributorRepository) FindByID(_ context.Context, id ids.ContributorID) (community.Contributor, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.contributors[id]
	return c, ok, nil
}

// FindAllByObservatory returns the members ordered by join date
func (r *ContributorRepository) FindAllByObservatory(_ context.Context, id ids.ObservatoryID) ([]community.Contributor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var members []community.Contributor
	for _, c := range r.s.contributors {
		if c.IsMemberOf(id) {
			members = append(members, c)
		}
	}
	slices.SortFunc(members, func(a, b community.Contributor) int {
		if c := a.JoinedAt.Compare(b.JoinedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return members, nil
}
