package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of a marketplace order inside the
// fulfillment pipeline. It implements a state machine with defined
// transitions to ensure orders follow the correct workflow.
//
// State transitions:
//
//	Pending ──> Processing ──> ReadyToShip ──> Shipped
//	   │            │ │
//	   │            │ └──────> Error ─────┐
//	   │            └────> ManualRequired │
//	   └─────────────────> ManualRequired │
//	        (Error and ManualRequired re-enter Processing on retry)
//
// Shipped is final. Error marks retryable system failures; ManualRequired
// marks orders needing an operator decision before the pipeline may re-run.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status after intake; the order awaits processing.
	Pending

	// Processing indicates the pipeline is working the order.
	Processing

	// ReadyToShip indicates every box has a purchased label and a print job.
	ReadyToShip

	// Shipped indicates all print jobs completed and tracking was handed off.
	Shipped

	// Error indicates a system or carrier failure; re-running the pipeline is safe.
	Error

	// ManualRequired indicates a data or capacity problem a human must resolve.
	ManualRequired
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "Unknown",
		Pending:        "pending",
		Processing:     "processing",
		ReadyToShip:    "ready_to_ship",
		Shipped:        "shipped",
		Error:          "error",
		ManualRequired: "manual_required",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:        "pending",
		Processing:     "processing",
		ReadyToShip:    "ready_to_ship",
		Shipped:        "shipped",
		Error:          "error",
		ManualRequired: "manual_required",
	}
}

// Validate checks if the Status value is valid.
// Unknown (0) and any other unmapped values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the persistence/display name of the status.
// Implements fmt.Stringer and is safe on any value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// StartProcessing transitions the status to Processing.
//
// Valid source states are Pending (first run), Error (operator or automatic
// retry after a system failure) and ManualRequired (re-run after an operator
// fixed the underlying data). ReadyToShip also re-enters Processing so an
// idempotent re-run can inspect existing shipments without purchasing again.
func (s Status) StartProcessing() (Status, error) {
	if s != Pending && s != Error && s != ManualRequired && s != ReadyToShip {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to start processing", s.String()),
		)
	}
	return Processing, nil
}

// MarkReadyToShip transitions Processing to ReadyToShip.
func (s Status) MarkReadyToShip() (Status, error) {
	if s != Processing {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to mark ready to ship", s.String()),
		)
	}
	return ReadyToShip, nil
}

// MarkShipped transitions ReadyToShip to Shipped. Shipped is final.
func (s Status) MarkShipped() (Status, error) {
	if s != ReadyToShip {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to mark shipped", s.String()),
		)
	}
	return Shipped, nil
}

// MarkError transitions Processing to Error.
// Error flags retryable system/API failures, never data problems.
func (s Status) MarkError() (Status, error) {
	if s != Processing {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to mark error", s.String()),
		)
	}
	return Error, nil
}

// MarkManualRequired transitions to ManualRequired.
//
// Valid from Pending (pre-validation failures such as risk flags or missing
// weights), Processing (packing failures) and Error (operator triage).
func (s Status) MarkManualRequired() (Status, error) {
	if s != Pending && s != Processing && s != Error {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to mark manual required", s.String()),
		)
	}
	return ManualRequired, nil
}
