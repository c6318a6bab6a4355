package commands_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/box"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/printjob"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}
func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}
func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}
func (m *MockOrderRepository) GetFirstInPendingStatus(ctx context.Context) (*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockBoxRepository struct{ mock.Mock }

func (m *MockBoxRepository) Add(ctx context.Context, spec box.BoxSpec) error {
	args := m.Called(ctx, spec)
	return args.Error(0)
}
func (m *MockBoxRepository) GetAllActive(ctx context.Context) ([]box.BoxSpec, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]box.BoxSpec), args.Error(1)
}

type MockShipmentRepository struct{ mock.Mock }

func (m *MockShipmentRepository) AddGroup(ctx context.Context, g *shipment.ShipmentGroup) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}
func (m *MockShipmentRepository) UpdateGroup(ctx context.Context, g *shipment.ShipmentGroup) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}
func (m *MockShipmentRepository) GetGroupByOrder(ctx context.Context, orderID kernel.UUID) (*shipment.ShipmentGroup, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.ShipmentGroup), args.Error(1)
}
func (m *MockShipmentRepository) DiscardGroup(ctx context.Context, g *shipment.ShipmentGroup) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

type MockPrintJobRepository struct{ mock.Mock }

func (m *MockPrintJobRepository) Add(ctx context.Context, j *printjob.PrintJob) error {
	args := m.Called(ctx, j)
	return args.Error(0)
}
func (m *MockPrintJobRepository) Update(ctx context.Context, j *printjob.PrintJob) error {
	args := m.Called(ctx, j)
	return args.Error(0)
}
func (m *MockPrintJobRepository) Get(ctx context.Context, id kernel.UUID) (*printjob.PrintJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printjob.PrintJob), args.Error(1)
}
func (m *MockPrintJobRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*printjob.PrintJob, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*printjob.PrintJob), args.Error(1)
}
func (m *MockPrintJobRepository) CountUncompletedByOrder(ctx context.Context, orderID kernel.UUID) (int64, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockPrintJobRepository) LeasePending(ctx context.Context, printerID string, limit int) ([]*printjob.PrintJob, error) {
	args := m.Called(ctx, printerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*printjob.PrintJob), args.Error(1)
}
func (m *MockPrintJobRepository) ReclaimStale(ctx context.Context, leaseDuration time.Duration, maxAttempts int) error {
	args := m.Called(ctx, leaseDuration, maxAttempts)
	return args.Error(0)
}

// MockFulfillmentUoW satisfies every UoW composition used by the handlers.
type MockFulfillmentUoW struct{ mock.Mock }

func (m *MockFulfillmentUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockFulfillmentUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockFulfillmentUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockFulfillmentUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}
func (m *MockFulfillmentUoW) BoxRepository() ports.BoxRepository {
	args := m.Called()
	return args.Get(0).(ports.BoxRepository)
}
func (m *MockFulfillmentUoW) ShipmentRepository() ports.ShipmentRepository {
	args := m.Called()
	return args.Get(0).(ports.ShipmentRepository)
}
func (m *MockFulfillmentUoW) PrintJobRepository() ports.PrintJobRepository {
	args := m.Called()
	return args.Get(0).(ports.PrintJobRepository)
}

type MockFulfillmentUoWFactory struct{ mock.Mock }

func (m *MockFulfillmentUoWFactory) Create() commands.FulfillmentUoW {
	args := m.Called()
	return args.Get(0).(commands.FulfillmentUoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockPrintQueueUoWFactory struct{ mock.Mock }

func (m *MockPrintQueueUoWFactory) Create() commands.PrintQueueUoW {
	args := m.Called()
	return args.Get(0).(commands.PrintQueueUoW)
}

type MockRateShopper struct{ mock.Mock }

func (m *MockRateShopper) GetRates(ctx context.Context, req ports.RateRequest) ([]ports.Rate, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.Rate), args.Error(1)
}
func (m *MockRateShopper) PurchaseLabel(ctx context.Context, rate ports.Rate) (*ports.Label, error) {
	args := m.Called(ctx, rate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.Label), args.Error(1)
}

type MockWeightResolver struct{ mock.Mock }

func (m *MockWeightResolver) ResolveByVariantID(ctx context.Context, variantID string) (float64, error) {
	args := m.Called(ctx, variantID)
	return args.Get(0).(float64), args.Error(1)
}
func (m *MockWeightResolver) ResolveBySKU(ctx context.Context, sku string) (float64, error) {
	args := m.Called(ctx, sku)
	return args.Get(0).(float64), args.Error(1)
}

type MockReviewNotifier struct{ mock.Mock }

func (m *MockReviewNotifier) NotifyManualReview(ctx context.Context, o *order.Order, reason string) error {
	args := m.Called(ctx, o, reason)
	return args.Error(0)
}

type MockOrderEventPublisher struct{ mock.Mock }

func (m *MockOrderEventPublisher) PublishStateChanged(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

type MockFulfillmentAPI struct{ mock.Mock }

func (m *MockFulfillmentAPI) CreateFulfillment(
	ctx context.Context,
	o *order.Order,
	shipments []*shipment.Shipment,
) (string, error) {
	args := m.Called(ctx, o, shipments)
	return args.String(0), args.Error(1)
}

// Fixture helpers shared by the handler tests.

func testAddress(t *testing.T) kernel.Address {
	t.Helper()
	addr, err := kernel.NewAddress(
		"Jordan Doe", "1 Warehouse Way", "", "Springfield", "IL", "62704", "US",
		"555-555-5555", "jordan@example.com",
	)
	require.NoError(t, err)
	return addr
}

func testLine(t *testing.T, sku string, quantity int, weightG float64) order.OrderLine {
	t.Helper()
	line, err := order.NewLine(kernel.NewUUID(), sku, sku+" title", "variant-"+sku, quantity, weightG, true)
	require.NoError(t, err)
	return line
}

func testOrder(t *testing.T, risk order.RiskLevel, lines ...order.OrderLine) *order.Order {
	t.Helper()
	aggregate, err := order.NewOrder(kernel.NewUUID(), "#1001", testAddress(t), lines, risk, "")
	require.NoError(t, err)
	return aggregate
}

func testBox(t *testing.T, name string, maxWeightG float64, priority int) box.BoxSpec {
	t.Helper()
	spec, err := box.NewBoxSpec(kernel.NewUUID(), name, 12, 10, 8, maxWeightG, 100, priority)
	require.NoError(t, err)
	return spec
}
