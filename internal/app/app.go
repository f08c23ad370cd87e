package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/nfaconnect/matchday/external/imagefinder"
	"github.com/nfaconnect/matchday/external/newswire"
	"github.com/nfaconnect/matchday/internal/config"
	"github.com/nfaconnect/matchday/internal/domain/article"
	"github.com/nfaconnect/matchday/internal/domain/league"
	"github.com/nfaconnect/matchday/internal/domain/lineup"
	"github.com/nfaconnect/matchday/internal/domain/match"
	"github.com/nfaconnect/matchday/internal/domain/matchevent"
	"github.com/nfaconnect/matchday/internal/domain/standings"
	"github.com/nfaconnect/matchday/internal/domain/team"
	cachedrepo "github.com/nfaconnect/matchday/internal/infrastructure/repository/cache"
	"github.com/nfaconnect/matchday/internal/infrastructure/repository/memory"
	"github.com/nfaconnect/matchday/internal/infrastructure/repository/postgres"
	"github.com/nfaconnect/matchday/internal/interfaces/httpapi"
	"github.com/nfaconnect/matchday/internal/livefeed"
	"github.com/nfaconnect/matchday/internal/platform/cache"
	"github.com/nfaconnect/matchday/internal/platform/logging"
	"github.com/nfaconnect/matchday/internal/platform/resilience"
	"github.com/nfaconnect/matchday/internal/platform/tasks"
	"github.com/nfaconnect/matchday/internal/scheduler"
	"github.com/nfaconnect/matchday/internal/usecase"
)

// App owns the wired service graph and its lifecycle.
type App struct {
	Server    *http.Server
	Scheduler *scheduler.Scheduler
	Runner    *tasks.Runner
	Hub       *livefeed.Hub

	db     *sqlx.DB
	logger *logging.Logger
}

type repositories struct {
	leagues   league.Repository
	teams     team.Repository
	matches   match.Repository
	events    matchevent.Repository
	lineups   lineup.Repository
	standings standings.Repository
	articles  article.Repository
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, db, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	runner, err := tasks.NewRunner(cfg.TaskWorkers, cfg.TaskTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("build task runner: %w", err)
	}

	hub := livefeed.NewHub(logger)

	standingsSvc := usecase.NewStandingsService(repos.leagues, repos.teams, repos.matches, repos.standings)

	newsroomCfg := usecase.NewsroomServiceConfig{
		LeagueRepo:  repos.leagues,
		MatchRepo:   repos.matches,
		LineupRepo:  repos.lineups,
		ArticleRepo: repos.articles,
		Standings:   standingsSvc,
		Logger:      logger,
	}
	if cfg.NewswireEnabled {
		newsroomCfg.Writer = newswire.NewClient(newswire.ClientConfig{
			BaseURL: cfg.NewswireBaseURL,
			Token:   cfg.NewswireToken,
			Timeout: cfg.NewswireTimeout,
			Logger:  logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.NewswireCircuitEnabled,
				FailureThreshold: cfg.NewswireCircuitFailureCount,
				OpenTimeout:      cfg.NewswireCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.NewswireCircuitHalfOpenMaxReq,
			},
		})
	}
	if cfg.ImageFinderEnabled {
		newsroomCfg.Images = imagefinder.NewClient(imagefinder.ClientConfig{
			BaseURL: cfg.ImageFinderBaseURL,
			Timeout: cfg.ImageFinderTimeout,
			Logger:  logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.ImageFinderCircuitEnabled,
				FailureThreshold: cfg.ImageFinderCircuitFailureCount,
				OpenTimeout:      cfg.ImageFinderCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.ImageFinderCircuitHalfOpenMaxReq,
			},
		})
	}
	newsroomSvc := usecase.NewNewsroomService(newsroomCfg)

	ingestionSvc := usecase.NewIngestionService(usecase.IngestionServiceConfig{
		WebhookSecret:     cfg.WebhookSecret,
		MatchRepo:         repos.matches,
		EventRepo:         repos.events,
		LineupRepo:        repos.lineups,
		Standings:         standingsSvc,
		Newsroom:          newsroomSvc,
		Publisher:         hub,
		Tasks:             runner,
		Logger:            logger,
		GenerationEnabled: cfg.GenerationEnabled,
	})

	handler := httpapi.NewHandler(ingestionSvc, standingsSvc, newsroomSvc, hub, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	sched := scheduler.New(scheduler.Config{
		Newsroom:          newsroomSvc,
		Standings:         standingsSvc,
		LeagueRepo:        repos.leagues,
		NewsroomInterval:  cfg.NewsroomInterval,
		StandingsInterval: cfg.StandingsRefreshInterval,
		RunTimeout:        cfg.TaskTimeout,
		GenerationEnabled: cfg.GenerationEnabled,
		Logger:            logger,
	})

	return &App{
		Server: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		Scheduler: sched,
		Runner:    runner,
		Hub:       hub,
		db:        db,
		logger:    logger,
	}, nil
}

// Start launches the background loops. The HTTP server is started by
// the caller so it controls listener errors.
func (a *App) Start() {
	a.Scheduler.Start()
}

// Close stops background work and releases resources. The HTTP server
// is shut down by the caller before Close.
func (a *App) Close() error {
	a.Scheduler.Stop()
	a.Runner.Close()

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return fmt.Errorf("close db: %w", err)
		}
	}

	return nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, *sqlx.DB, error) {
	if cfg.DBURL == "" {
		logger.Info("db url empty, using seeded in-memory repositories")
		return repositories{
			leagues:   memory.NewLeagueRepository(memory.SeedLeagues()),
			teams:     memory.NewTeamRepository(memory.SeedTeams()),
			matches:   memory.NewMatchRepository(memory.SeedMatches()),
			events:    memory.NewMatchEventRepository(),
			lineups:   memory.NewLineupRepository(),
			standings: memory.NewStandingsRepository(),
			articles:  memory.NewArticleRepository(),
		}, nil, nil
	}

	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Connect("postgres", dsn,
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("connect db: %w", err)
	}

	store := cache.NewStore(cfg.CacheTTL)

	return repositories{
		leagues:   cachedrepo.NewLeagueRepository(postgres.NewLeagueRepository(db), store),
		teams:     cachedrepo.NewTeamRepository(postgres.NewTeamRepository(db), store),
		matches:   postgres.NewMatchRepository(db),
		events:    postgres.NewMatchEventRepository(db),
		lineups:   postgres.NewLineupRepository(db),
		standings: postgres.NewStandingsRepository(db),
		articles:  postgres.NewArticleRepository(db),
	}, db, nil
}
