package shipmentrepo_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/shipmentrepo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// ShipmentRepositoryIntegrationTestSuite provides integration tests for
// ShipmentRepository using PostgreSQL containers.
type ShipmentRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *shipmentrepo.GormShipmentRepository
	tracker    *MockAggregateTracker
}

func (suite *ShipmentRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&shipmentrepo.GroupDTO{}, &shipmentrepo.ShipmentDTO{}))
}

func (suite *ShipmentRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE shipment_groups, shipments").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = shipmentrepo.NewGormShipmentRepository(suite.db, suite.tracker)
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestAddGroup_EmptyGroup_Success() {
	ctx := context.Background()

	group := suite.createGroup(kernel.NewUUID())
	suite.tracker.On("TrackAggregate", group.ID(), group).Once()

	suite.Require().NoError(suite.repository.AddGroup(ctx, group))

	retrieved, err := suite.repository.GetGroupByOrder(ctx, group.OrderID())
	suite.Require().NoError(err)
	suite.Equal(group.ID(), retrieved.ID())
	suite.Equal(shipment.GroupPending, retrieved.Status())
	suite.Empty(retrieved.Shipments())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestUpdateGroup_AttachedShipmentsRoundTrip() {
	ctx := context.Background()

	orderID := kernel.NewUUID()
	group := suite.createGroup(orderID)
	suite.tracker.On("TrackAggregate", group.ID(), group).Twice()
	suite.Require().NoError(suite.repository.AddGroup(ctx, group))

	lineID := kernel.NewUUID()
	shp := suite.createShipment(orderID, 1, []kernel.UUID{lineID}, []byte("^XA^FDlabel^FS^XZ"))
	suite.Require().NoError(group.Attach(shp))
	suite.Require().NoError(group.MarkComplete())
	suite.Require().NoError(suite.repository.UpdateGroup(ctx, group))

	retrieved, err := suite.repository.GetGroupByOrder(ctx, orderID)
	suite.Require().NoError(err)
	suite.Equal(shipment.GroupComplete, retrieved.Status())
	suite.Require().Len(retrieved.Shipments(), 1)

	got := retrieved.Shipments()[0]
	suite.Equal(shp.ID(), got.ID())
	suite.Equal("Medium Box", got.BoxName())
	suite.Equal(1, got.Sequence())
	suite.Require().Len(got.LineIDs(), 1)
	suite.Equal(lineID, got.LineIDs()[0])
	suite.Equal(1250.0, got.Weight())
	suite.Equal("USPS", got.Carrier())
	suite.Equal("Priority Mail", got.Service())
	suite.Equal("9400100000000000000001", got.TrackingNumber())
	suite.Equal([]byte("^XA^FDlabel^FS^XZ"), got.LabelPayload())
	suite.Equal(8.45, got.Cost())
	suite.Equal("USD", got.Currency())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestUpdateGroup_RecordedFulfillmentPersists() {
	ctx := context.Background()

	orderID := kernel.NewUUID()
	group := suite.createGroup(orderID)
	suite.tracker.On("TrackAggregate", group.ID(), group).Times(3)
	suite.Require().NoError(suite.repository.AddGroup(ctx, group))

	shp := suite.createShipment(orderID, 1, []kernel.UUID{kernel.NewUUID()}, []byte("^XA^XZ"))
	suite.Require().NoError(group.Attach(shp))
	suite.Require().NoError(group.MarkComplete())
	suite.Require().NoError(suite.repository.UpdateGroup(ctx, group))

	suite.Require().NoError(shp.RecordExternalFulfillment("ff-42"))
	suite.Require().NoError(suite.repository.UpdateGroup(ctx, group))

	retrieved, err := suite.repository.GetGroupByOrder(ctx, orderID)
	suite.Require().NoError(err)
	suite.Require().Len(retrieved.Shipments(), 1)
	suite.Equal("ff-42", retrieved.Shipments()[0].ExternalFulfillmentID())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestGetGroupByOrder_NoGroup_ReturnsNotFoundError() {
	retrieved, err := suite.repository.GetGroupByOrder(context.Background(), kernel.NewUUID())

	suite.Nil(retrieved)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestDiscardGroup_RemovesGroupAndShipments() {
	ctx := context.Background()

	orderID := kernel.NewUUID()
	group := suite.createGroup(orderID)
	suite.tracker.On("TrackAggregate", group.ID(), group).Twice()
	suite.Require().NoError(suite.repository.AddGroup(ctx, group))

	shp := suite.createShipment(orderID, 1, []kernel.UUID{kernel.NewUUID()}, nil)
	suite.Require().NoError(group.Attach(shp))
	suite.Require().NoError(suite.repository.UpdateGroup(ctx, group))

	suite.Require().NoError(suite.repository.DiscardGroup(ctx, group))

	retrieved, err := suite.repository.GetGroupByOrder(ctx, orderID)
	suite.Nil(retrieved)
	suite.Require().Error(err)

	var shipmentCount int64
	suite.Require().NoError(suite.db.Model(&shipmentrepo.ShipmentDTO{}).Count(&shipmentCount).Error)
	suite.Equal(int64(0), shipmentCount)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestDiscardGroup_NonExistentGroup_ReturnsError() {
	group := suite.createGroup(kernel.NewUUID())
	err := suite.repository.DiscardGroup(context.Background(), group)
	suite.Require().Error(err)
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestShipmentsOrderedBySequence() {
	ctx := context.Background()

	orderID := kernel.NewUUID()
	group := suite.createGroup(orderID)
	suite.tracker.On("TrackAggregate", group.ID(), group).Twice()
	suite.Require().NoError(suite.repository.AddGroup(ctx, group))

	second := suite.createShipment(orderID, 2, []kernel.UUID{kernel.NewUUID()}, nil)
	first := suite.createShipment(orderID, 1, []kernel.UUID{kernel.NewUUID()}, nil)
	suite.Require().NoError(group.Attach(second))
	suite.Require().NoError(group.Attach(first))
	suite.Require().NoError(suite.repository.UpdateGroup(ctx, group))

	retrieved, err := suite.repository.GetGroupByOrder(ctx, orderID)
	suite.Require().NoError(err)
	suite.Require().Len(retrieved.Shipments(), 2)
	suite.Equal(1, retrieved.Shipments()[0].Sequence())
	suite.Equal(2, retrieved.Shipments()[1].Sequence())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *ShipmentRepositoryIntegrationTestSuite) createGroup(orderID kernel.UUID) *shipment.ShipmentGroup {
	group, err := shipment.NewShipmentGroup(kernel.NewUUID(), orderID)
	suite.Require().NoError(err)
	return group
}

func (suite *ShipmentRepositoryIntegrationTestSuite) createShipment(
	orderID kernel.UUID, sequence int, lineIDs []kernel.UUID, labelPayload []byte,
) *shipment.Shipment {
	shp, err := shipment.NewShipment(
		kernel.NewUUID(), orderID, kernel.NewUUID(),
		"Medium Box", sequence, lineIDs, 1250,
		"USPS", "Priority Mail",
		"9400100000000000000001",
		"https://tools.usps.com/go/track?q=9400100000000000000001",
		"https://labels.example.com/1.zpl",
		labelPayload, 8.45, "USD",
		time.Now().UTC().Truncate(time.Microsecond))
	suite.Require().NoError(err)
	return shp
}

func TestShipmentRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(ShipmentRepositoryIntegrationTestSuite))
}
