package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetUnshippedOrdersQueryHandler retrieves in-flight orders from the database.
// Filters out shipped orders to provide active fulfillment workload visibility.
type GetUnshippedOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetUnshippedOrdersQueryHandler creates a handler for unshipped order queries.
// Requires a GORM database connection for query execution.
func NewGetUnshippedOrdersQueryHandler(db *gorm.DB) GetUnshippedOrdersQueryHandler {
	return GetUnshippedOrdersQueryHandler{db: db}
}

// Handle executes the query to retrieve all unshipped orders.
// Results are sorted by order number for consistent output.
func (h GetUnshippedOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetUnshippedOrdersQuery,
) ([]GetUnshippedOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetUnshippedOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_number,
			status,
			error_message
		FROM orders
		WHERE status != ?
		ORDER BY order_number
	`, order.Shipped).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetUnshippedOrdersQueryResponse
		var id uuid.UUID

		if err = rows.Scan(&id, &resp.OrderNumber, &resp.Status, &resp.ErrorMessage); err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = orderID
		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
