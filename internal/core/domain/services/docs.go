// Package services provides domain services that orchestrate business operations
// across multiple domain entities in the fulfillment system. It implements complex
// business workflows that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - PackingEngine: A domain service that partitions an order's physical units
//     into the fewest shippable boxes under weight constraints
//   - GeneratePackingSlip: ZPL rendering for warehouse packing slips
//
// Domain services coordinate between aggregates, implementing business logic that
// spans multiple bounded contexts following Domain-Driven Design principles.
package services
