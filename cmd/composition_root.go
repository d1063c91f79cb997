package cmd

import (
	"context"
	"fmt"
	"io"

	httpin "tracking/internal/adapters/in/http"
	"tracking/internal/adapters/in/ws"
	"tracking/internal/adapters/out/auth"
	"tracking/internal/adapters/out/postgres"
	"tracking/internal/adapters/out/rabbitmq"
	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/application/usecases/queries"
	"tracking/internal/core/ports"
	"tracking/internal/core/tracking"
	"tracking/internal/jobs"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CompositionRoot owns the long-lived collaborators and builds handlers on demand.
type CompositionRoot struct {
	cfg    Config
	gormDB *gorm.DB
	logger *zap.Logger

	uowFactory *postgres.GormUnitOfWorkFactory
	hasher     auth.BcryptHasher
	tokens     *auth.TokenManager

	hub         *ws.Hub
	registry    *tracking.Registry
	cache       *tracking.AssignmentCache
	broadcaster *tracking.Broadcaster
}

// NewCompositionRoot builds the shared collaborators. Handlers are created by the Create methods.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *zap.Logger) (*CompositionRoot, error) {
	hasher, err := auth.NewBcryptHasher(0)
	if err != nil {
		return nil, err
	}
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		cfg:      cfg,
		gormDB:   gormDB,
		logger:   logger,
		hasher:   hasher,
		tokens:   tokens,
		hub:      ws.NewHub(logger),
		registry: tracking.NewRegistry(),
		cache:    tracking.NewAssignmentCache(),
	}

	// The broadcaster records through units of work, and units of work
	// announce committed orders to the broadcaster. The recorder resolves
	// c.uowFactory per call, so it is set right after.
	c.broadcaster = tracking.NewBroadcaster(
		c.registry, c.cache, c.CreateRecordLocationCommandHandler(), c.hub, logger,
	)
	c.uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB, c.broadcaster)
	return c, nil
}

// WarmAssignments fills the assignment cache before traffic is accepted.
func (c *CompositionRoot) WarmAssignments(ctx context.Context) error {
	assignments, err := c.orders().ActiveAssignments(ctx)
	if err != nil {
		return fmt.Errorf("warm assignment cache: %w", err)
	}
	c.cache.Warm(assignments)
	c.logger.Info("assignment cache warmed", zap.Int("active", c.cache.Len()))
	return nil
}

// ConnectRelay routes broadcasts through RabbitMQ when a URL is configured.
// Without one it returns a no-op closer and delivery stays in-process.
func (c *CompositionRoot) ConnectRelay() (io.Closer, error) {
	if c.cfg.RabbitMQURL == "" {
		return closerFunc(func() error { return nil }), nil
	}
	relay, err := rabbitmq.Dial(rabbitmq.Config{
		URL:      c.cfg.RabbitMQURL,
		Exchange: c.cfg.RabbitMQExchange,
	}, c.broadcaster, c.logger)
	if err != nil {
		return nil, err
	}
	c.broadcaster.UseRelay(relay)
	return relay, nil
}

// Router serves the REST API and GET /ws.
func (c *CompositionRoot) Router(ctx context.Context) (*echo.Echo, error) {
	return httpin.NewRouter(ctx, httpin.NewServer(c.UseCases()), c.tokens, httpin.RouterConfig{
		AllowedOrigin: c.cfg.CORSOrigin,
		LiveTracking:  c.CreateLiveTrackingHandler(),
	}, c.logger)
}

// UseCases collects the handlers behind the REST server.
func (c *CompositionRoot) UseCases() httpin.UseCases {
	return httpin.UseCases{
		RegisterUser:          c.CreateRegisterUserCommandHandler(),
		Authenticate:          c.CreateAuthenticateUserQueryHandler(),
		CreateOrder:           c.CreateCreateOrderCommandHandler(),
		AssignDeliveryPartner: c.CreateAssignDeliveryPartnerCommandHandler(),
		UpdateOrderStatus:     c.CreateUpdateOrderStatusCommandHandler(),
		GetOrder:              c.CreateGetOrderQueryHandler(),
		ListOrders:            c.CreateListOrdersQueryHandler(),
		ListAvailablePartners: c.CreateListAvailablePartnersQueryHandler(),
		GetPartnerLocation:    c.CreateGetPartnerLocationQueryHandler(),
		Locations:             c.broadcaster,
		Tokens:                c.tokens,
	}
}

// CreateLiveTrackingHandler returns the GET /ws endpoint.
func (c *CompositionRoot) CreateLiveTrackingHandler() *ws.Handler {
	return ws.NewHandler(
		c.hub,
		c.registry,
		c.CreateGetOrderQueryHandler(),
		c.broadcaster,
		c.tokens,
		ws.Config{SendBuffer: c.cfg.WSSendBuffer, AllowedOrigin: c.cfg.CORSOrigin},
		c.logger,
	)
}

// Jobs returns the scheduled maintenance jobs, not yet started.
func (c *CompositionRoot) Jobs() *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.NewPartnerReconciliationJob(c.CreateReconcilePartnersCommandHandler(), c.cfg.ReconcileSchedule, c.logger),
		jobs.NewAssignmentRefreshJob(c.orders(), c.cache, c.cfg.CacheRefreshSchedule, c.logger),
	)
}

// CreateRegisterUserCommandHandler creates a handler for sign-up.
func (c *CompositionRoot) CreateRegisterUserCommandHandler() commands.RegisterUserCommandHandler {
	return commands.NewRegisterUserCommandHandler(c.commandUoWFactory(), c.hasher)
}

// CreateCreateOrderCommandHandler creates a handler for new customer orders.
func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.commandUoWFactory())
}

// CreateAssignDeliveryPartnerCommandHandler creates a handler for vendor assignments.
func (c *CompositionRoot) CreateAssignDeliveryPartnerCommandHandler() commands.AssignDeliveryPartnerCommandHandler {
	return commands.NewAssignDeliveryPartnerCommandHandler(c.commandUoWFactory())
}

// CreateUpdateOrderStatusCommandHandler creates a handler for partner status changes.
func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	return commands.NewUpdateOrderStatusCommandHandler(c.commandUoWFactory())
}

// CreateRecordLocationCommandHandler creates the handler that persists location reports.
func (c *CompositionRoot) CreateRecordLocationCommandHandler() commands.RecordLocationCommandHandler {
	return commands.NewRecordLocationCommandHandler(c.commandUoWFactory())
}

// CreateReconcilePartnersCommandHandler creates the handler run by the reconciliation job.
func (c *CompositionRoot) CreateReconcilePartnersCommandHandler() commands.ReconcilePartnersCommandHandler {
	return commands.NewReconcilePartnersCommandHandler(c.commandUoWFactory())
}

// CreateAuthenticateUserQueryHandler creates a handler for login.
func (c *CompositionRoot) CreateAuthenticateUserQueryHandler() queries.AuthenticateUserQueryHandler {
	return queries.NewAuthenticateUserQueryHandler(c.users(), c.hasher, c.tokens)
}

// CreateGetOrderQueryHandler creates a handler reading one order for a participant.
func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

// CreateListOrdersQueryHandler creates a handler listing the caller's orders.
func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

// CreateListAvailablePartnersQueryHandler creates a handler listing free partners.
func (c *CompositionRoot) CreateListAvailablePartnersQueryHandler() queries.ListAvailablePartnersQueryHandler {
	return queries.NewListAvailablePartnersQueryHandler(c.users())
}

// CreateGetPartnerLocationQueryHandler creates a handler reading a partner's last position.
func (c *CompositionRoot) CreateGetPartnerLocationQueryHandler() queries.GetPartnerLocationQueryHandler {
	return queries.NewGetPartnerLocationQueryHandler(c.users(), c.orders())
}

func (c *CompositionRoot) commandUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

// users and orders read outside any transaction.
func (c *CompositionRoot) users() ports.UserRepository {
	return c.uowFactory.Create().UserRepository()
}

func (c *CompositionRoot) orders() ports.OrderRepository {
	return c.uowFactory.Create().OrderRepository()
}

// FuncUoWFactory adapts a function to commands.UoWFactory.
type FuncUoWFactory func() commands.UoW

// Create calls f.
func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type closerFunc func() error

// Close calls f.
func (f closerFunc) Close() error {
	return f()
}
