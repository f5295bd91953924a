package cli

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/rbeltran/stitchops/internal/adapters/persistence"
	"github.com/rbeltran/stitchops/internal/application/common"
	"github.com/rbeltran/stitchops/internal/application/routing/commands"
	"github.com/rbeltran/stitchops/internal/application/routing/queries"
	"github.com/rbeltran/stitchops/internal/application/routing/services"
	"github.com/rbeltran/stitchops/internal/infrastructure/config"
	"github.com/rbeltran/stitchops/internal/infrastructure/database"
)

// App bundles everything a CLI command needs: configuration, the database
// connection, and the mediator with all handlers registered.
type App struct {
	Config   *config.Config
	DB       *gorm.DB
	Mediator common.Mediator
	Jobs     *persistence.GormManufacturerJobRepository
	Logger   common.Logger
}

// NewApp loads configuration, opens the database, and wires the full
// command/query pipeline.
func NewApp(configPath string, verboseFlag bool) (*App, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// Repositories
	catalogRepo := persistence.NewGormCatalogRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	manufacturingRepo := persistence.NewGormManufacturingRepository(db)
	jobRepo := persistence.NewGormManufacturerJobRepository(db)

	// Services
	availability := services.NewAvailabilityChecker(catalogRepo, jobRepo)
	resolver := services.NewManufacturerResolver(catalogRepo)
	fallback := services.NewFallbackSelector(catalogRepo, availability)
	router := services.NewOrderRouter(orderRepo, resolver, availability, fallback)
	materializer := services.NewJobMaterializer(orderRepo, manufacturingRepo, jobRepo)
	assigner := services.NewManualAssigner(jobRepo, availability)

	// Mediator with all handlers
	m := common.NewMediator()
	m.Use(common.LoggingMiddleware())

	registrations := []error{
		common.RegisterHandler[*commands.RouteOrderCommand](m,
			commands.NewRouteOrderHandler(router)),
		common.RegisterHandler[*commands.CreateManufacturingJobsCommand](m,
			commands.NewCreateManufacturingJobsHandler(router, materializer)),
		common.RegisterHandler[*commands.ManuallyAssignJobCommand](m,
			commands.NewManuallyAssignJobHandler(assigner)),
		common.RegisterHandler[*commands.RerouteJobCommand](m,
			commands.NewRerouteJobHandler(jobRepo, manufacturingRepo, router, materializer)),
		common.RegisterHandler[*commands.RouteAllUnroutedCommand](m,
			commands.NewRouteAllUnroutedHandler(orderRepo, router, materializer,
				cfg.Routing.Batch.Concurrency, float64(cfg.Routing.Batch.RatePerSecond))),
		common.RegisterHandler[*queries.GetPendingJobsQuery](m,
			queries.NewGetPendingJobsHandler(jobRepo)),
		common.RegisterHandler[*queries.GetRoutingHistoryQuery](m,
			queries.NewGetRoutingHistoryHandler(jobRepo,
				cfg.Routing.History.DefaultLimit, cfg.Routing.History.MaxLimit)),
		common.RegisterHandler[*queries.GetRoutingStatsQuery](m,
			queries.NewGetRoutingStatsHandler(jobRepo)),
	}
	for _, err := range registrations {
		if err != nil {
			return nil, fmt.Errorf("failed to register handler: %w", err)
		}
	}

	level := cfg.Logging.Level
	if verboseFlag {
		level = "debug"
	}

	return &App{
		Config:   cfg,
		DB:       db,
		Mediator: m,
		Jobs:     jobRepo,
		Logger:   common.NewStdLogger(level),
	}, nil
}

// Context returns a context carrying the app logger
func (a *App) Context(parent context.Context) context.Context {
	return common.WithLogger(parent, a.Logger)
}

// Close releases the database connection
func (a *App) Close() error {
	return database.Close(a.DB)
}
