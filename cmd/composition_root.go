package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	httpadapter "cafe/internal/adapters/in/http"
	kafkain "cafe/internal/adapters/in/kafka"
	"cafe/internal/adapters/in/pgnotify"
	kafkaout "cafe/internal/adapters/out/kafka"
	"cafe/internal/adapters/out/memory"
	"cafe/internal/adapters/out/metrics"
	"cafe/internal/adapters/out/pebbledb"
	"cafe/internal/adapters/out/postgres"
	"cafe/internal/adapters/out/postgres/catalogrepo"
	"cafe/internal/adapters/out/postgres/courierrepo"
	"cafe/internal/adapters/out/postgres/loyaltyrepo"
	"cafe/internal/adapters/out/postgres/orderrepo"
	"cafe/internal/core/application/aggregation"
	"cafe/internal/core/application/eventhandlers"
	"cafe/internal/core/application/usecases/commands"
	"cafe/internal/core/application/usecases/queries"
	"cafe/internal/core/domain/model/actor"
	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/services"
	"cafe/internal/core/ports"
	"cafe/internal/jobs"

	"github.com/cockroachdb/pebble/vfs"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// CompositionRoot owns every long-lived component and wires them according to
// Config.
type CompositionRoot struct {
	cfg    Config
	logger *slog.Logger

	gormDB     *gorm.DB
	uowFactory ports.UnitOfWorkFactory
	orders     ports.OrderReader
	catalog    ports.Catalog
	couriers   ports.CourierDirectory
	loyalty    ports.LoyaltyRepository
	policy     services.AuthorizationPolicy
	system     actor.Actor

	engine  *aggregation.Engine
	metrics *metrics.Registry

	// feed is the background source of change notifications, if any.
	feed    func(ctx context.Context) error
	closers []io.Closer
}

func NewCompositionRoot(ctx context.Context, cfg Config, logger *slog.Logger) (*CompositionRoot, error) {
	system, err := actor.NewActor(kernel.NewUUID(), actor.Admin)
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		cfg:     cfg,
		logger:  logger,
		policy:  services.NewAuthorizationPolicy(),
		system:  system,
		metrics: metrics.NewRegistry(),
	}

	if cfg.usesPostgres() {
		if c.gormDB, err = gorm.Open(gormpg.Open(cfg.DSN()), &gorm.Config{TranslateError: true}); err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
	}
	if err = c.buildLoyalty(ctx); err != nil {
		return nil, errors.Join(err, c.Close())
	}
	if err = c.buildStorage(ctx); err != nil {
		return nil, errors.Join(err, c.Close())
	}
	return c, nil
}

func (c *CompositionRoot) buildLoyalty(ctx context.Context) error {
	switch c.cfg.LoyaltyBackend {
	case LoyaltyPostgres:
		repo := loyaltyrepo.NewGormLoyaltyRepository(c.gormDB)
		if err := repo.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate loyalty tables: %w", err)
		}
		c.loyalty = repo
	default:
		repo, err := pebbledb.Open(c.cfg.PebbleDir, vfs.Default)
		if err != nil {
			return fmt.Errorf("open loyalty ledger: %w", err)
		}
		c.loyalty = repo
		c.closers = append(c.closers, repo)
	}
	return nil
}

// buildStorage wires the order store, its change publisher and the feed that
// drives the aggregation engine. With the in-process feed the store notifies
// the engine directly; otherwise commits go out through PostgreSQL or Kafka
// and come back through the matching consumer.
func (c *CompositionRoot) buildStorage(ctx context.Context) error {
	var (
		memStore *memory.OrderStore
		source   aggregation.SnapshotSource
	)
	switch c.cfg.StorageBackend {
	case StoragePostgres:
		if err := c.gormDB.WithContext(ctx).AutoMigrate(
			&orderrepo.OrderDTO{}, &catalogrepo.ProductDTO{}, &courierrepo.CourierDTO{},
		); err != nil {
			return fmt.Errorf("migrate order tables: %w", err)
		}
		reader := orderrepo.NewGormOrderRepository(c.gormDB, nil)
		c.orders = reader
		c.catalog = catalogrepo.NewGormCatalog(c.gormDB)
		c.couriers = courierrepo.NewGormCourierDirectory(c.gormDB)
		source = aggregation.NewReaderSource(reader)
	default:
		memStore = memory.NewOrderStore(nil, c.logger.With("component", "order_store"))
		c.orders = memStore
		c.catalog = memory.NewCatalog()
		c.couriers = memory.NewCourierDirectory()
		source = memStore
	}
	if err := c.seed(ctx); err != nil {
		return err
	}

	c.engine = aggregation.NewEngine(source, c.metrics, c.logger.With("component", "stats_engine"))
	consumers := eventhandlers.Fanout{
		c.engine,
		eventhandlers.NewOrderCompletedAccrual(
			c.CreateAccrueOrderPointsCommandHandler(),
			c.system,
			c.logger.With("component", "order_completed_accrual"),
		),
	}

	var publisher ports.OrderEventPublisher
	switch c.cfg.FeedSource {
	case FeedPostgres:
		publisher = postgres.NewNotifyPublisher(c.gormDB, postgres.DefaultNotifyChannel)
		listener := pgnotify.NewListener(c.cfg.DSN(), postgres.DefaultNotifyChannel, consumers, c.logger)
		c.feed = listener.Run
	case FeedKafka:
		kafkaPublisher := kafkaout.NewPublisher(c.cfg.KafkaHost, c.cfg.KafkaOrderChangedTopic)
		c.closers = append(c.closers, kafkaPublisher)
		publisher = kafkaPublisher
		consumer := kafkain.NewConsumer(
			c.cfg.kafkaBrokers(), c.cfg.KafkaOrderChangedTopic, c.cfg.KafkaConsumerGroup, consumers, c.logger)
		c.feed = consumer.Run
	default:
		publisher = consumers
		if c.cfg.KafkaHost != "" {
			kafkaPublisher := kafkaout.NewPublisher(c.cfg.KafkaHost, c.cfg.KafkaOrderChangedTopic)
			c.closers = append(c.closers, kafkaPublisher)
			publisher = append(consumers, kafkaPublisher)
		}
	}

	if memStore != nil {
		memStore.SetPublisher(publisher)
		c.uowFactory = memStore
		return nil
	}
	c.uowFactory = postgres.NewGormUnitOfWorkFactory(c.gormDB, publisher, c.logger.With("component", "unit_of_work"))
	return nil
}

// seed loads the catalog and courier directory from SEED_FILE when set.
func (c *CompositionRoot) seed(ctx context.Context) error {
	if c.cfg.SeedFile == "" {
		return nil
	}
	seed, err := memory.LoadSeed(c.cfg.SeedFile)
	if err != nil {
		return err
	}
	products, couriers, err := seed.Build()
	if err != nil {
		return err
	}

	switch catalog := c.catalog.(type) {
	case *memory.Catalog:
		for _, p := range products {
			catalog.Put(p)
		}
	case *catalogrepo.GormCatalog:
		for _, p := range products {
			if err = catalog.Upsert(ctx, p); err != nil {
				return fmt.Errorf("seed product %s: %w", p.ID(), err)
			}
		}
	}
	switch directory := c.couriers.(type) {
	case *memory.CourierDirectory:
		for _, courier := range couriers {
			directory.Put(courier)
		}
	case *courierrepo.GormCourierDirectory:
		for _, courier := range couriers {
			if err = directory.Upsert(ctx, courier); err != nil {
				return fmt.Errorf("seed courier %s: %w", courier.ID().String(), err)
			}
		}
	}
	c.logger.InfoContext(ctx, "Seed loaded", "products", len(products), "couriers", len(couriers))
	return nil
}

// Run drives the aggregation engine and the inbound feed until ctx is done.
func (c *CompositionRoot) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.engine.Run(ctx) })
	if c.feed != nil {
		g.Go(func() error { return c.feed(ctx) })
	}
	return g.Wait()
}

// Close releases the ledger, Kafka writers and database pool.
func (c *CompositionRoot) Close() error {
	var closeErrs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		closeErrs = append(closeErrs, c.closers[i].Close())
	}
	if c.gormDB != nil {
		if sqlDB, err := c.gormDB.DB(); err == nil {
			closeErrs = append(closeErrs, sqlDB.Close())
		}
	}
	return errors.Join(closeErrs...)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.catalog, c.policy)
}

func (c *CompositionRoot) CreateAssignCourierCommandHandler() commands.AssignCourierCommandHandler {
	return commands.NewAssignCourierCommandHandler(c.orderUoWFactory(), c.couriers, c.policy)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(c.orderUoWFactory(), c.policy)
}

func (c *CompositionRoot) CreateAccrueOrderPointsCommandHandler() commands.AccrueOrderPointsCommandHandler {
	return commands.NewAccrueOrderPointsCommandHandler(c.orders, c.loyalty, c.policy)
}

// Handlers builds every use case the HTTP server exposes.
func (c *CompositionRoot) Handlers() httpadapter.Handlers {
	create := c.CreateCreateOrderCommandHandler()
	changeStatus := c.CreateChangeOrderStatusCommandHandler()

	return httpadapter.Handlers{
		CreateOrder:       create,
		AssignCourier:     c.CreateAssignCourierCommandHandler(),
		ChangeOrderStatus: changeStatus,
		CancelOrder:       commands.NewCancelOrderCommandHandler(changeStatus),
		DuplicateOrder:    commands.NewDuplicateOrderCommandHandler(c.orders, create),
		DeleteOrder:       commands.NewDeleteOrderCommandHandler(c.orderUoWFactory(), c.policy),
		AccruePoints:      commands.NewAccruePointsCommandHandler(c.loyalty, c.policy),
		RedeemPoints:      commands.NewRedeemPointsCommandHandler(c.loyalty, c.policy),
		AccrueOrderPoints: c.CreateAccrueOrderPointsCommandHandler(),
		UpdateProgram:     commands.NewUpdateLoyaltyProgramCommandHandler(c.loyalty, c.policy),

		GetOrder:          queries.NewGetOrderQueryHandler(c.orders),
		ListOrders:        queries.NewListOrdersQueryHandler(c.orders),
		GetAllCouriers:    queries.NewGetAllCouriersQueryHandler(c.couriers),
		GetStats:          queries.NewGetStatsQueryHandler(c.engine),
		GetAccountBalance: queries.NewGetAccountBalanceQueryHandler(c.loyalty),
		GetProgram:        queries.NewGetLoyaltyProgramQueryHandler(c.loyalty),
	}
}

// Router builds the HTTP surface.
func (c *CompositionRoot) Router() (*echo.Echo, error) {
	server := httpadapter.NewServer(c.Handlers(), c.engine, c.metrics, c.logger.With("component", "http"))
	return httpadapter.NewRouter(httpadapter.RouterConfig{
		Server:    server,
		JWTSecret: []byte(c.cfg.JWTSecret),
		Metrics:   c.metrics.Handler(),
		Logger:    c.logger.With("component", "http"),
	})
}

// Jobs builds the scheduled jobs.
func (c *CompositionRoot) Jobs() *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.NewStatsResyncJob(c.engine, c.cfg.StatsResyncSchedule, c.logger),
		jobs.NewLoyaltyAccrualSweepJob(
			c.orders, c.CreateAccrueOrderPointsCommandHandler(), c.system, c.cfg.LoyaltySweepSchedule, c.logger),
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
