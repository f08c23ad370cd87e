package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/nfaconnect/matchday/internal/domain/league"
	"github.com/nfaconnect/matchday/internal/domain/standings"
	"github.com/nfaconnect/matchday/internal/platform/logging"
	"github.com/nfaconnect/matchday/internal/usecase"
)

// Generator runs one article generation pass.
type Generator interface {
	GenerateFromCurrentState(ctx context.Context) (usecase.GenerationSummary, error)
}

// Refresher rebuilds one league table.
type Refresher interface {
	Recompute(ctx context.Context, leagueID string) ([]standings.Row, error)
}

type leagueLister interface {
	List(ctx context.Context) ([]league.League, error)
}

type Config struct {
	Newsroom          Generator
	Standings         Refresher
	LeagueRepo        leagueLister
	NewsroomInterval  time.Duration
	StandingsInterval time.Duration
	RunTimeout        time.Duration
	GenerationEnabled bool
	Logger            *logging.Logger
}

// Scheduler drives the periodic background passes: article generation
// and standings refresh. The webhook path triggers the same work on
// demand; these timers only bound how stale derived content can get
// when no webhooks arrive.
type Scheduler struct {
	newsroom          Generator
	standings         Refresher
	leagueRepo        leagueLister
	newsroomInterval  time.Duration
	standingsInterval time.Duration
	runTimeout        time.Duration
	generationEnabled bool
	logger            *logging.Logger

	wg       conc.WaitGroup
	stop     chan struct{}
	stopOnce sync.Once
}

func New(cfg Config) *Scheduler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	newsroomInterval := cfg.NewsroomInterval
	if newsroomInterval <= 0 {
		newsroomInterval = 10 * time.Minute
	}
	standingsInterval := cfg.StandingsInterval
	if standingsInterval <= 0 {
		standingsInterval = 5 * time.Minute
	}
	runTimeout := cfg.RunTimeout
	if runTimeout <= 0 {
		runTimeout = time.Minute
	}

	return &Scheduler{
		newsroom:          cfg.Newsroom,
		standings:         cfg.Standings,
		leagueRepo:        cfg.LeagueRepo,
		newsroomInterval:  newsroomInterval,
		standingsInterval: standingsInterval,
		runTimeout:        runTimeout,
		generationEnabled: cfg.GenerationEnabled,
		logger:            logger,
		stop:              make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	if s.generationEnabled {
		s.wg.Go(func() { s.loop("newsroom-generate", s.newsroomInterval, s.runGeneration) })
	}
	s.wg.Go(func() { s.loop("standings-refresh", s.standingsInterval, s.runStandingsRefresh) })
}

// Stop halts the loops and waits for an in-flight pass to finish.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	if recovered := s.wg.WaitAndRecover(); recovered != nil {
		s.logger.Error("scheduler loop panicked", "panic", recovered.Value)
	}
}

func (s *Scheduler) loop(name string, interval time.Duration, run func(ctx context.Context) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
			if err := run(ctx); err != nil {
				s.logger.ErrorContext(ctx, "scheduled pass failed", "pass", name, "error", err)
			}
			cancel()
		}
	}
}

func (s *Scheduler) runGeneration(ctx context.Context) error {
	summary, err := s.newsroom.GenerateFromCurrentState(ctx)
	if err != nil {
		return err
	}
	if summary.Generated > 0 {
		s.logger.InfoContext(ctx, "scheduled generation published articles",
			"generated", summary.Generated, "skipped", summary.Skipped)
	}
	return nil
}

func (s *Scheduler) runStandingsRefresh(ctx context.Context) error {
	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return err
	}
	for _, item := range leagues {
		if _, err := s.standings.Recompute(ctx, item.ID); err != nil {
			s.logger.ErrorContext(ctx, "refresh standings", "league_id", item.ID, "error", err)
		}
	}
	return nil
}
