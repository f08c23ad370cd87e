// Package cache wraps repositories with an in-process TTL cache. Only the
// read-heavy reference data (leagues, teams) is cached; match state and
// standings are always read through so live updates stay visible.
package cache

import (
	"context"

	"github.com/nfaconnect/matchday/internal/domain/league"
	"github.com/nfaconnect/matchday/internal/domain/team"
	basecache "github.com/nfaconnect/matchday/internal/platform/cache"
)

type LeagueRepository struct {
	next  league.Repository
	cache *basecache.Store
}

func NewLeagueRepository(next league.Repository, cache *basecache.Store) *LeagueRepository {
	return &LeagueRepository{next: next, cache: cache}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	v, err := r.cache.GetOrLoad(ctx, "league:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]league.League(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]league.League)
	return append([]league.League(nil), items...), nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	key := "league:id:" + leagueID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return cachedLeagueByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return league.League{}, false, err
	}

	cached, _ := v.(cachedLeagueByID)
	return cached.value, cached.exists, nil
}

type cachedLeagueByID struct {
	value  league.League
	exists bool
}

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) ListByLeague(ctx context.Context, leagueID string) ([]team.Team, error) {
	key := "team:list:" + leagueID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByLeague(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Team)
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	key := "team:id:" + teamID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return cachedTeamByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedTeamByID)
	return cached.value, cached.exists, nil
}

type cachedTeamByID struct {
	value  team.Team
	exists bool
}
