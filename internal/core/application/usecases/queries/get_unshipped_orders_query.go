package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrGetUnshippedOrdersQueryIsNotConstructed = errors.New(
	"GetUnshippedOrdersQuery must be created via NewGetUnshippedOrdersQuery constructor",
)

// GetUnshippedOrdersQuery retrieves all orders that have not shipped yet.
// Returns orders in any non-shipped status for warehouse monitoring.
//
// Example:
//
//	query := NewGetUnshippedOrdersQuery()
//	handler := NewGetUnshippedOrdersQueryHandler(db)
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get unshipped orders: %w", err)
//	}
//	fmt.Printf("%d orders in the pipeline\n", len(orders))
type GetUnshippedOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetUnshippedOrdersQuery creates a query to retrieve unshipped orders.
// This is a parameterless query that fetches every order still in flight.
func NewGetUnshippedOrdersQuery() GetUnshippedOrdersQuery {
	return GetUnshippedOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetUnshippedOrdersQueryIsNotConstructed if validation fails.
func (q GetUnshippedOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetUnshippedOrdersQueryIsNotConstructed)
}

// GetUnshippedOrdersQueryResponse represents one in-flight order.
type GetUnshippedOrdersQueryResponse struct {
	ID           kernel.UUID
	OrderNumber  string
	Status       order.Status
	ErrorMessage string
}
