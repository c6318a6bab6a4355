// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// BoxRepoFactory provides access to the box catalog within a transaction.
	BoxRepoFactory interface {
		BoxRepository() ports.BoxRepository
	}

	// ShipmentRepoFactory provides access to shipment storage within a transaction.
	ShipmentRepoFactory interface {
		ShipmentRepository() ports.ShipmentRepository
	}

	// PrintJobRepoFactory provides access to the print queue within a transaction.
	PrintJobRepoFactory interface {
		PrintJobRepository() ports.PrintJobRepository
	}

	// OrderUoW manages transactions for order-only operations.
	// Used when commands only modify order aggregates.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// PrintQueueUoW manages transactions for print-queue-only operations.
	PrintQueueUoW interface {
		TxManager
		PrintJobRepoFactory
	}

	// PrintQueueUoWFactory creates new print queue unit of work instances.
	PrintQueueUoWFactory interface {
		Create() PrintQueueUoW
	}

	// FulfillmentUoW manages transactions that span the whole fulfillment
	// pipeline: orders, the box catalog, shipments, and the print queue.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   orderRepo := uow.OrderRepository()
	//   shipmentRepo := uow.ShipmentRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	FulfillmentUoW interface {
		TxManager
		OrderRepoFactory
		BoxRepoFactory
		ShipmentRepoFactory
		PrintJobRepoFactory
	}

	// FulfillmentUoWFactory creates new unit of work instances for
	// cross-aggregate pipeline operations.
	FulfillmentUoWFactory interface {
		Create() FulfillmentUoW
	}
)
