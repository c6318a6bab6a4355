package printjob

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of a print job in the queue.
//
// State transitions:
//
//	Pending ──> Printing ──> Completed
//	   ↑            │
//	   │            ├──> Pending  (failed attempt or expired lease, attempts left)
//	   │            └──> Failed   (attempts exhausted)
//	   └──────── Failed  (explicit operator retry only)
//
// The queue component owns every transition; no other code path may write
// job state. Out-of-order transition attempts are rejected.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Pending means the job is visible to the next poll.
	Pending

	// Printing means an agent holds the lease on the job.
	Printing

	// Completed means the agent reported a successful print. Final.
	Completed

	// Failed means attempts are exhausted; only an operator retry revives it.
	Failed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Pending:   "pending",
		Printing:  "printing",
		Completed: "completed",
		Failed:    "failed",
	}
}

// Validate checks if the Status value is valid.
func (s Status) Validate() error {
	if s != Pending && s != Printing && s != Completed && s != Failed {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid print job status", s))
	}
	return nil
}

// String returns the persistence/display name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// Lease transitions Pending to Printing.
func (s Status) Lease() (Status, error) {
	if s != Pending {
		return 0, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to lease", s.String()))
	}
	return Printing, nil
}

// Complete transitions Printing to Completed. Completing a job that is not
// leased is an out-of-order transition and is rejected.
func (s Status) Complete() (Status, error) {
	if s != Printing {
		return 0, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to complete", s.String()))
	}
	return Completed, nil
}

// Requeue transitions Printing back to Pending after a failed attempt with
// attempts remaining.
func (s Status) Requeue() (Status, error) {
	if s != Printing {
		return 0, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to requeue", s.String()))
	}
	return Pending, nil
}

// Fail transitions Printing to Failed once attempts are exhausted.
func (s Status) Fail() (Status, error) {
	if s != Printing {
		return 0, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to fail", s.String()))
	}
	return Failed, nil
}

// Retry transitions Failed to Pending. This is the operator escape hatch.
func (s Status) Retry() (Status, error) {
	if s != Failed {
		return 0, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to retry", s.String()))
	}
	return Pending, nil
}
