package memory

import (
	"context"
	"sync"

	"github.com/nfaconnect/matchday/internal/domain/team"
)

type TeamRepository struct {
	mu            sync.RWMutex
	items         map[string]team.Team
	teamsByLeague map[string][]string
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	items := make(map[string]team.Team, len(teams))
	teamsByLeague := make(map[string][]string)
	for _, item := range teams {
		items[item.ID] = item
		teamsByLeague[item.LeagueID] = append(teamsByLeague[item.LeagueID], item.ID)
	}

	return &TeamRepository{
		items:         items,
		teamsByLeague: teamsByLeague,
	}
}

func (r *TeamRepository) ListByLeague(_ context.Context, leagueID string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.teamsByLeague[leagueID]
	out := make([]team.Team, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.items[id])
	}

	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[teamID]
	if !ok {
		return team.Team{}, false, nil
	}

	return item, true, nil
}
