package cmd

import (
	"log/slog"

	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/queue"
	"dispatch/internal/adapters/out/redisgeo"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot wires adapters into application use cases. All Create*
// methods are cheap; handlers hold no per-request state.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	geoIndex   ports.CourierGeoIndex
	publisher  ports.NotificationPublisher
	dispatcher commands.Dispatcher
	settings   commands.DispatchSettings
	config     Config
	logger     *slog.Logger
}

// NewCompositionRoot assembles the object graph from the infrastructure
// clients opened in main.
func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	redisClient *redis.Client,
	asynqClient *asynq.Client,
	logger *slog.Logger,
) *CompositionRoot {
	settings := commands.DispatchSettings{
		StandardRadiusKm:   config.DispatchStandardRadiusKm,
		EscalationRadiusKm: config.DispatchEscalationRadiusKm,
		MaxCandidates:      config.DispatchMaxCandidates,
		LocationMaxAge:     config.CourierLocationMaxAge,
	}

	geoIndex := redisgeo.NewRedisCourierGeoIndex(redisClient)
	publisher := queue.NewAsynqNotificationPublisher(asynqClient)

	return &CompositionRoot{
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		geoIndex:   geoIndex,
		publisher:  publisher,
		dispatcher: commands.NewDispatcher(
			geoIndex, services.NewCandidateFilter(), publisher, settings, logger),
		settings: settings,
		config:   config,
		logger:   logger,
	}
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.createUoWFactory())
}

func (c *CompositionRoot) CreateAdvanceShopOrderStatusCommandHandler() commands.AdvanceShopOrderStatusCommandHandler {
	return commands.NewAdvanceShopOrderStatusCommandHandler(
		c.createUoWFactory(), c.dispatcher, c.publisher, c.settings, c.logger)
}

func (c *CompositionRoot) CreateCancelShopOrderCommandHandler() commands.CancelShopOrderCommandHandler {
	return commands.NewCancelShopOrderCommandHandler(c.createUoWFactory(), c.publisher, c.logger)
}

func (c *CompositionRoot) CreateClaimAssignmentCommandHandler() commands.ClaimAssignmentCommandHandler {
	return commands.NewClaimAssignmentCommandHandler(c.createUoWFactory())
}

func (c *CompositionRoot) CreateIssueDeliveryCodeCommandHandler() commands.IssueDeliveryCodeCommandHandler {
	return commands.NewIssueDeliveryCodeCommandHandler(
		c.createUoWFactory(), c.publisher, c.config.DeliveryCodeTTL, c.logger)
}

func (c *CompositionRoot) CreateVerifyDeliveryCodeCommandHandler() commands.VerifyDeliveryCodeCommandHandler {
	return commands.NewVerifyDeliveryCodeCommandHandler(
		c.createUoWFactory(), c.publisher, c.config.DeliveryMasterCode, c.logger)
}

func (c *CompositionRoot) CreateCreateCourierCommandHandler() commands.CreateCourierCommandHandler {
	return commands.NewCreateCourierCommandHandler(c.createCourierUoWFactory())
}

func (c *CompositionRoot) CreateUpdateCourierLocationCommandHandler() commands.UpdateCourierLocationCommandHandler {
	return commands.NewUpdateCourierLocationCommandHandler(
		c.createCourierUoWFactory(), c.geoIndex, c.logger)
}

func (c *CompositionRoot) CreateSetCourierAvailabilityCommandHandler() commands.SetCourierAvailabilityCommandHandler {
	return commands.NewSetCourierAvailabilityCommandHandler(
		c.createCourierUoWFactory(), c.geoIndex, c.logger)
}

func (c *CompositionRoot) CreateGetOpenBroadcastsQueryHandler() queries.GetOpenBroadcastsQueryHandler {
	return queries.NewGetOpenBroadcastsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCourierActiveJobQueryHandler() queries.GetCourierActiveJobQueryHandler {
	return queries.NewGetCourierActiveJobQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetUncompletedShopOrdersQueryHandler() queries.GetUncompletedShopOrdersQueryHandler {
	return queries.NewGetUncompletedShopOrdersQueryHandler(c.gormDB)
}

// CreateJobManager wires the background retry sweep.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	redispatchHandler := commands.NewRedispatchShopOrderCommandHandler(
		c.createUoWFactory(), c.dispatcher, c.settings, c.logger)

	return jobs.NewJobManager(
		c.CreateGetUncompletedShopOrdersQueryHandler(),
		redispatchHandler,
		c.config.DispatchRetrySchedule,
		c.logger,
	)
}

// CreateNotificationWorker builds the asynq-side notification consumer.
func (c *CompositionRoot) CreateNotificationWorker() *queue.NotificationWorker {
	return queue.NewNotificationWorker(c.logger)
}

func (c *CompositionRoot) createUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) createCourierUoWFactory() commands.CourierUoWFactory {
	return FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}
