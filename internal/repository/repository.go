// Package repository implements the read-only lookup layer the engine's
// HTTP entrypoint uses to resolve a team/formation reference into the
// matchtype values SimulationEngine needs: an in-memory reference store,
// a Redis read-through cache, and a circuit-breaker guard, composable in
// that order (spec §6's "pluggable roster/formation source").
package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/stitts-dev/matchsim/internal/apperr"
	"github.com/stitts-dev/matchsim/internal/matchtype"
)

// Repository is the read-only source SimulationEngine's HTTP layer
// resolves match inputs against. Nothing in the engine itself depends on
// this package — it exists purely to get a matchtype.MatchInput assembled
// before New is called.
type Repository interface {
	FetchTeam(ctx context.Context, id uuid.UUID) (matchtype.Team, error)
	FetchFormation(ctx context.Context, name string) (matchtype.Formation, error)
}

// InMemory is the reference implementation: a roster/formation catalog
// seeded at construction and extended at runtime through PutTeam and
// PutFormation, grounded on the teacher's simplest provider shape (a map
// keyed by id, no persistence).
type InMemory struct {
	mu         sync.RWMutex
	teams      map[uuid.UUID]matchtype.Team
	formations map[string]matchtype.Formation
}

func NewInMemory(teams []matchtype.Team, formations []matchtype.Formation) *InMemory {
	teamIndex := make(map[uuid.UUID]matchtype.Team, len(teams))
	for _, t := range teams {
		teamIndex[t.ID] = t
	}
	formationIndex := make(map[string]matchtype.Formation, len(formations))
	for _, f := range formations {
		formationIndex[f.Name] = f
	}
	return &InMemory{teams: teamIndex, formations: formationIndex}
}

func (r *InMemory) FetchTeam(_ context.Context, id uuid.UUID) (matchtype.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	team, ok := r.teams[id]
	if !ok {
		return matchtype.Team{}, apperr.Precondition("team not found: " + id.String())
	}
	return team, nil
}

func (r *InMemory) FetchFormation(_ context.Context, name string) (matchtype.Formation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.formations[name]
	if !ok {
		return matchtype.Formation{}, apperr.Precondition("formation not found: " + name)
	}
	return f, nil
}

// PutTeam registers or replaces a team in the catalog, for the admin
// registration endpoint that lets callers build a roster once and refer to
// it by id in subsequent simulate requests.
func (r *InMemory) PutTeam(t matchtype.Team) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.teams[t.ID] = t
}

// PutFormation registers or replaces a formation in the catalog.
func (r *InMemory) PutFormation(f matchtype.Formation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formations[f.Name] = f
}
