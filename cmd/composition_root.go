package cmd

import (
	"log/slog"
	"os"
	"time"

	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/adapters/out/mockcarrier"
	"fulfillment/internal/adapters/out/notify"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/shippo"
	"fulfillment/internal/adapters/out/shopify"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	logger     *slog.Logger

	rateShopper    ports.RateShopper
	weightResolver ports.WeightResolver
	fulfillmentAPI ports.FulfillmentAPI
	notifier       ports.ReviewNotifier
	publisher      ports.OrderEventPublisher
	producer       kafka.Producer
}

func NewCompositionRoot(config Config, gormDB *gorm.DB) (*CompositionRoot, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	root := &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
	}

	if err := root.buildCarrier(); err != nil {
		return nil, err
	}
	if err := root.buildStorefront(); err != nil {
		return nil, err
	}
	if err := root.buildMessaging(); err != nil {
		return nil, err
	}

	notifier, err := notify.NewLogReviewNotifier(logger)
	if err != nil {
		return nil, err
	}
	root.notifier = notifier

	return root, nil
}

// buildCarrier selects the real Shippo client or the in-process mock carrier.
// The mock keeps local environments working without API credentials.
func (c *CompositionRoot) buildCarrier() error {
	if c.config.UseMockCarrier {
		c.rateShopper = mockcarrier.NewRateShopper()
		return nil
	}

	client, err := shippo.NewClient(shippo.Config{
		APIKey:       c.config.ShippoAPIKey,
		ShipperPhone: c.config.ShipperPhone,
	}, c.logger)
	if err != nil {
		return err
	}
	c.rateShopper = client
	return nil
}

func (c *CompositionRoot) buildStorefront() error {
	client, err := shopify.NewClient(shopify.Config{
		ShopDomain:  c.config.ShopifyShopDomain,
		AccessToken: c.config.ShopifyAccessToken,
		APIVersion:  c.config.ShopifyAPIVersion,
	}, c.logger)
	if err != nil {
		return err
	}
	c.weightResolver = client
	c.fulfillmentAPI = client
	return nil
}

// buildMessaging wires the order event stream. Without a broker configured
// events go to the log through the console producer.
func (c *CompositionRoot) buildMessaging() error {
	if c.config.KafkaHost != "" {
		c.producer = kafka.NewWriterProducer(c.config.KafkaHost, c.config.KafkaOrderChangedTopic)
	} else {
		c.producer = kafka.NewConsoleProducer(c.config.KafkaOrderChangedTopic, c.logger)
	}

	publisher, err := kafka.NewOrderEventPublisher(c.producer)
	if err != nil {
		return err
	}
	c.publisher = publisher
	return nil
}

// Close releases resources held by outbound adapters.
func (c *CompositionRoot) Close() error {
	return c.producer.Close()
}

func (c *CompositionRoot) Logger() *slog.Logger {
	return c.logger
}

func (c *CompositionRoot) leaseDuration() time.Duration {
	return time.Duration(c.config.PrintAgentLeaseSeconds) * time.Second
}

func (c *CompositionRoot) shipFromAddress() (kernel.Address, error) {
	return kernel.NewAddress(
		c.config.ShipperName,
		c.config.ShipperStreet1,
		c.config.ShipperStreet2,
		c.config.ShipperCity,
		c.config.ShipperState,
		c.config.ShipperZip,
		c.config.ShipperCountry,
		c.config.ShipperPhone,
		c.config.ShipperEmail,
	)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) printQueueUoWFactory() commands.PrintQueueUoWFactory {
	return FuncPrintQueueUoWFactory(func() commands.PrintQueueUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) fulfillmentUoWFactory() commands.FulfillmentUoWFactory {
	return FuncFulfillmentUoWFactory(func() commands.FulfillmentUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateProcessOrderCommandHandler() (commands.ProcessOrderCommandHandler, error) {
	shipFrom, err := c.shipFromAddress()
	if err != nil {
		return commands.ProcessOrderCommandHandler{}, err
	}

	return commands.NewProcessOrderCommandHandler(
		c.fulfillmentUoWFactory(),
		c.rateShopper,
		c.weightResolver,
		c.notifier,
		c.publisher,
		services.NewPackingEngine(c.config.PackingDensityGPerCuIn),
		commands.ProcessingConfig{
			ShipFrom:       shipFrom,
			DeniedServices: c.config.DeniedShippingServices,
		},
		c.logger,
	), nil
}

func (c *CompositionRoot) CreatePollPrintJobsCommandHandler() commands.PollPrintJobsCommandHandler {
	return commands.NewPollPrintJobsCommandHandler(
		c.printQueueUoWFactory(),
		c.leaseDuration(),
		c.config.PrintAgentMaxAttempts,
	)
}

func (c *CompositionRoot) CreateCompletePrintJobCommandHandler() commands.CompletePrintJobCommandHandler {
	return commands.NewCompletePrintJobCommandHandler(
		c.fulfillmentUoWFactory(),
		c.fulfillmentAPI,
		c.publisher,
		c.config.PrintAgentMaxAttempts,
		c.logger,
	)
}

func (c *CompositionRoot) CreateRetryPrintJobCommandHandler() commands.RetryPrintJobCommandHandler {
	return commands.NewRetryPrintJobCommandHandler(c.printQueueUoWFactory())
}

func (c *CompositionRoot) CreateReprintLabelsCommandHandler() commands.ReprintLabelsCommandHandler {
	return commands.NewReprintLabelsCommandHandler(c.fulfillmentUoWFactory())
}

func (c *CompositionRoot) CreateGetUnshippedOrdersQueryHandler() queries.GetUnshippedOrdersQueryHandler {
	return queries.NewGetUnshippedOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetPrintQueueQueryHandler() queries.GetPrintQueueQueryHandler {
	return queries.NewGetPrintQueueQueryHandler(c.gormDB)
}

// CreateHTTPServer assembles the inbound HTTP adapter with every handler wired.
func (c *CompositionRoot) CreateHTTPServer() (*httpin.Server, error) {
	processOrderHandler, err := c.CreateProcessOrderCommandHandler()
	if err != nil {
		return nil, err
	}

	return httpin.NewServer(
		c.CreateCreateOrderCommandHandler(),
		processOrderHandler,
		c.CreatePollPrintJobsCommandHandler(),
		c.CreateCompletePrintJobCommandHandler(),
		c.CreateRetryPrintJobCommandHandler(),
		c.CreateReprintLabelsCommandHandler(),
		c.CreateGetUnshippedOrdersQueryHandler(),
		c.CreateGetPrintQueueQueryHandler(),
	), nil
}

// CreateJobManager assembles the background jobs.
func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	processOrderHandler, err := c.CreateProcessOrderCommandHandler()
	if err != nil {
		return nil, err
	}

	return jobs.NewJobManager(
		c.orderUoWFactory(),
		c.printQueueUoWFactory(),
		processOrderHandler,
		c.leaseDuration(),
		c.config.PrintAgentMaxAttempts,
		c.config.AutoProcessOrders,
		c.logger,
	), nil
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncPrintQueueUoWFactory func() commands.PrintQueueUoW

func (f FuncPrintQueueUoWFactory) Create() commands.PrintQueueUoW {
	return f()
}

type FuncFulfillmentUoWFactory func() commands.FulfillmentUoW

func (f FuncFulfillmentUoWFactory) Create() commands.FulfillmentUoW {
	return f()
}
