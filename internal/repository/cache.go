package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/matchsim/internal/matchtype"
)

// CachedRepository wraps a Repository with a Redis read-through cache,
// grounded on the teacher's go-redis usage in realtime-service (client
// built once, Ping-tested at startup, short TTLs on volatile lookups).
type CachedRepository struct {
	next   Repository
	redis  *redis.Client
	logger *logrus.Logger
	ttl    time.Duration
}

func NewCachedRepository(next Repository, client *redis.Client, logger *logrus.Logger) *CachedRepository {
	return &CachedRepository{next: next, redis: client, logger: logger, ttl: 10 * time.Minute}
}

func (c *CachedRepository) FetchTeam(ctx context.Context, id uuid.UUID) (matchtype.Team, error) {
	key := "matchsim:team:" + id.String()

	if cached, err := c.redis.Get(ctx, key).Result(); err == nil {
		var team matchtype.Team
		if jsonErr := json.Unmarshal([]byte(cached), &team); jsonErr == nil {
			return team, nil
		}
	}

	team, err := c.next.FetchTeam(ctx, id)
	if err != nil {
		return matchtype.Team{}, err
	}

	if encoded, err := json.Marshal(team); err == nil {
		if err := c.redis.Set(ctx, key, encoded, c.ttl).Err(); err != nil {
			c.logger.WithError(err).WithField("team_id", id).Warn("failed to cache team lookup")
		}
	}

	return team, nil
}

func (c *CachedRepository) FetchFormation(ctx context.Context, name string) (matchtype.Formation, error) {
	key := "matchsim:formation:" + name

	if cached, err := c.redis.Get(ctx, key).Result(); err == nil {
		var formation matchtype.Formation
		if jsonErr := json.Unmarshal([]byte(cached), &formation); jsonErr == nil {
			return formation, nil
		}
	}

	formation, err := c.next.FetchFormation(ctx, name)
	if err != nil {
		return matchtype.Formation{}, err
	}

	if encoded, err := json.Marshal(formation); err == nil {
		if err := c.redis.Set(ctx, key, encoded, c.ttl).Err(); err != nil {
			c.logger.WithError(err).WithField("formation", name).Warn("failed to cache formation lookup")
		}
	}

	return formation, nil
}
