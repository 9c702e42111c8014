package cmd

import (
	"log/slog"
	"strconv"

	"github.com/Safary16/soptraloc-sub001/internal/adapters/out/postgres"
	"github.com/Safary16/soptraloc-sub001/internal/adapters/out/postgres/alertrepo"
	"github.com/Safary16/soptraloc-sub001/internal/adapters/out/postgres/auditrepo"
	"github.com/Safary16/soptraloc-sub001/internal/core/application/usecases/commands"
	"github.com/Safary16/soptraloc-sub001/internal/core/application/usecases/queries"
	"github.com/Safary16/soptraloc-sub001/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters into application handlers. All handler
// factories hand out value types, so a root can be shared freely.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	logger     *slog.Logger

	travelBaselineMinutes int
	unloadBaselineMinutes int
}

// NewCompositionRoot creates the dependency graph for the given database
// connection.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,

		travelBaselineMinutes: parseMinutes(config.TravelBaselineMinutes),
		unloadBaselineMinutes: parseMinutes(config.UnloadBaselineMinutes),
	}
}

func (c *CompositionRoot) CreateApplyTransitionCommandHandler() commands.ApplyTransitionCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewApplyTransitionCommandHandler(
		f,
		alertrepo.NewGormAlertStore(c.gormDB),
		auditrepo.NewGormMovementLog(c.gormDB),
		c.unloadBaselineMinutes,
	)
}

func (c *CompositionRoot) CreateRunAssignmentPassCommandHandler() commands.RunAssignmentPassCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewRunAssignmentPassCommandHandler(f, nil, c.travelBaselineMinutes)
}

func (c *CompositionRoot) CreateRecordActualTimesCommandHandler() commands.RecordActualTimesCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewRecordActualTimesCommandHandler(f, c.unloadBaselineMinutes)
}

func (c *CompositionRoot) CreateRecomputeEstimatesCommandHandler() commands.RecomputeEstimatesCommandHandler {
	var f commands.TimeRecordUoWFactory = FuncTimeRecordUoWFactory(func() commands.TimeRecordUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRecomputeEstimatesCommandHandler(f, c.logger)
}

func (c *CompositionRoot) CreatePredictDurationQueryHandler() queries.PredictDurationQueryHandler {
	return queries.NewPredictDurationQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetPendingContainersQueryHandler() queries.GetPendingContainersQueryHandler {
	return queries.NewGetPendingContainersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateRunAssignmentPassCommandHandler(),
		c.CreateRecomputeEstimatesCommandHandler(),
		c.logger,
	)
}

// parseMinutes converts an environment value into minutes, zero when unset
// or malformed so the handler default applies.
func parseMinutes(raw string) int {
	minutes, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return minutes
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncTimeRecordUoWFactory func() commands.TimeRecordUoW

func (f FuncTimeRecordUoWFactory) Create() commands.TimeRecordUoW {
	return f()
}
