package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/stitts-dev/matchsim/internal/apperr"
	"github.com/stitts-dev/matchsim/internal/matchtype"
)

// GuardedRepository trips a circuit breaker around the wrapped Repository,
// grounded on the teacher's sony/gobreaker usage in sse_provider.go
// (ReadyToTrip on a request-count/failure-ratio threshold, state changes
// logged). An open circuit is surfaced to the engine as a
// PreconditionFailure, since it means the match cannot be started at all,
// not that a tick mid-stream failed.
type GuardedRepository struct {
	next    Repository
	breaker *gobreaker.CircuitBreaker
}

func NewGuardedRepository(next Repository, logger *logrus.Logger) *GuardedRepository {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "match-repository",
		MaxRequests: 3,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker":    name,
				"from_state": from,
				"to_state":   to,
			}).Warn("repository circuit breaker state changed")
		},
	})
	return &GuardedRepository{next: next, breaker: cb}
}

func (g *GuardedRepository) FetchTeam(ctx context.Context, id uuid.UUID) (matchtype.Team, error) {
	result, err := g.breaker.Execute(func() (interface{}, error) {
		return g.next.FetchTeam(ctx, id)
	})
	if err != nil {
		return matchtype.Team{}, apperr.Precondition(fmt.Sprintf("team lookup unavailable: %v", err))
	}
	return result.(matchtype.Team), nil
}

func (g *GuardedRepository) FetchFormation(ctx context.Context, name string) (matchtype.Formation, error) {
	result, err := g.breaker.Execute(func() (interface{}, error) {
		return g.next.FetchFormation(ctx, name)
	})
	if err != nil {
		return matchtype.Formation{}, apperr.Precondition(fmt.Sprintf("formation lookup unavailable: %v", err))
	}
	return result.(matchtype.Formation), nil
}
