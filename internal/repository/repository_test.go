package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/matchsim/internal/apperr"
	"github.com/stitts-dev/matchsim/internal/matchtype"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func TestInMemoryFetchTeamReturnsPreconditionWhenMissing(t *testing.T) {
	repo := NewInMemory(nil, nil)
	_, err := repo.FetchTeam(context.Background(), uuid.New())
	assert.Equal(t, apperr.CodePrecondition, apperr.CodeOf(err))
}

func TestInMemoryFetchFormationReturnsPreconditionWhenMissing(t *testing.T) {
	repo := NewInMemory(nil, nil)
	_, err := repo.FetchFormation(context.Background(), "4-3-3")
	assert.Equal(t, apperr.CodePrecondition, apperr.CodeOf(err))
}

func TestInMemoryPutTeamMakesItFetchable(t *testing.T) {
	repo := NewInMemory(nil, nil)
	id := uuid.New()
	repo.PutTeam(matchtype.Team{ID: id, Name: "Rovers"})

	team, err := repo.FetchTeam(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Rovers", team.Name)
}

func TestInMemoryPutFormationMakesItFetchable(t *testing.T) {
	repo := NewInMemory(nil, nil)
	repo.PutFormation(matchtype.Formation{Name: "4-4-2"})

	formation, err := repo.FetchFormation(context.Background(), "4-4-2")
	require.NoError(t, err)
	assert.Equal(t, "4-4-2", formation.Name)
}

func TestInMemoryPutTeamReplacesExisting(t *testing.T) {
	repo := NewInMemory(nil, nil)
	id := uuid.New()
	repo.PutTeam(matchtype.Team{ID: id, Name: "Old Name"})
	repo.PutTeam(matchtype.Team{ID: id, Name: "New Name"})

	team, err := repo.FetchTeam(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "New Name", team.Name)
}

type failingRepository struct {
	calls int
}

func (f *failingRepository) FetchTeam(context.Context, uuid.UUID) (matchtype.Team, error) {
	f.calls++
	return matchtype.Team{}, errors.New("lookup backend down")
}

func (f *failingRepository) FetchFormation(context.Context, string) (matchtype.Formation, error) {
	f.calls++
	return matchtype.Formation{}, errors.New("lookup backend down")
}

func TestGuardedRepositoryTripsAfterRepeatedFailures(t *testing.T) {
	backend := &failingRepository{}
	guarded := NewGuardedRepository(backend, testLogger())

	var lastErr error
	for i := 0; i < 5; i++ {
		_, lastErr = guarded.FetchTeam(context.Background(), uuid.New())
	}

	require.Error(t, lastErr)
	assert.Equal(t, apperr.CodePrecondition, apperr.CodeOf(lastErr))

	callsAtTrip := backend.calls
	_, err := guarded.FetchTeam(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, callsAtTrip, backend.calls, "open circuit must short-circuit without calling the backend")
}

func TestGuardedRepositoryPassesThroughSuccessfulFetch(t *testing.T) {
	backend := NewInMemory([]matchtype.Team{{ID: uuid.Nil, Name: "Passthrough"}}, nil)
	guarded := NewGuardedRepository(backend, testLogger())

	team, err := guarded.FetchTeam(context.Background(), uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, "Passthrough", team.Name)
}
