package shipment

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// GroupStatus represents the lifecycle state of a shipment group.
//
// State transitions:
//
//	Pending ──> Complete
//	   │  └───> Partial ──> Complete
//	   └──────> Error   <── Partial
//
// Complete is final. Error marks a group whose run was aborted; the pipeline
// discards such groups on the next run and repacks.
type GroupStatus int

const (
	// GroupUnknown represents an invalid or undefined status.
	GroupUnknown GroupStatus = iota

	// GroupPending is the initial status while labels are being purchased.
	GroupPending

	// GroupPartial indicates some but not all boxes have labels.
	GroupPartial

	// GroupComplete indicates every box has a purchased label.
	GroupComplete

	// GroupError indicates the label run was aborted mid-group.
	GroupError
)

func getGroupStatusStrings() map[GroupStatus]string {
	return map[GroupStatus]string{
		GroupUnknown:  "Unknown",
		GroupPending:  "pending",
		GroupPartial:  "partial",
		GroupComplete: "complete",
		GroupError:    "error",
	}
}

// Validate checks if the GroupStatus value is valid.
func (s GroupStatus) Validate() error {
	if s != GroupPending && s != GroupPartial && s != GroupComplete && s != GroupError {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid group status", s))
	}
	return nil
}

// String returns the persistence/display name of the status.
func (s GroupStatus) String() string {
	if str, ok := getGroupStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// MarkPartial transitions Pending to Partial.
func (s GroupStatus) MarkPartial() (GroupStatus, error) {
	if s != GroupPending {
		return 0, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid group status to mark partial", s.String()))
	}
	return GroupPartial, nil
}

// MarkComplete transitions Pending or Partial to Complete.
func (s GroupStatus) MarkComplete() (GroupStatus, error) {
	if s != GroupPending && s != GroupPartial {
		return 0, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid group status to mark complete", s.String()))
	}
	return GroupComplete, nil
}

// MarkError transitions any non-complete status to Error.
func (s GroupStatus) MarkError() (GroupStatus, error) {
	if s == GroupComplete {
		return 0, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid group status to mark error", s.String()))
	}
	return GroupError, nil
}
