// Package printjob contains the PrintJob aggregate consumed by the remote
// printer agent through the lease-based queue.
package printjob

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// JobType distinguishes what the agent should render for a job.
type JobType string

const (
	// JobTypeLabel is raw printer-ready ZPL markup.
	JobTypeLabel JobType = "label"

	// JobTypeLabelPDF is a PDF byte stream needing conversion before printing.
	JobTypeLabelPDF JobType = "label_pdf"

	// JobTypePackingSlip is a generated ZPL packing slip.
	JobTypePackingSlip JobType = "packing_slip"
)

// Validate checks if the JobType is one of the known kinds.
func (t JobType) Validate() error {
	switch t {
	case JobTypeLabel, JobTypeLabelPDF, JobTypePackingSlip:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("jobType",
			fmt.Errorf("%q is not a valid job type", string(t)))
	}
}

// ErrJobIsNotConstructed is returned when a PrintJob instance was not created
// through the NewPrintJob factory method.
var ErrJobIsNotConstructed = errors.New("PrintJob must be created via NewPrintJob constructor")

// PrintJob is one durable unit of printable work. Its order and shipment
// references are weak: a job outlives deletion of its shipment via
// null-on-delete, so both references are optional.
//
// Jobs are never deleted. A job whose attempts are exhausted stays Failed
// until an operator explicitly retries it.
type PrintJob struct {
	id           kernel.UUID
	orderID      *kernel.UUID
	shipmentID   *kernel.UUID
	jobType      JobType
	payload      string
	printerID    *string
	status       Status
	attempts     int
	errorMessage string
	createdAt    time.Time
	updatedAt    time.Time
	completedAt  *time.Time

	isConstructed bool
}

// NewPrintJob creates a pending job with zero attempts. A nil printerID means
// any poller may lease the job; payload is the raw ZPL or PDF data to print.
func NewPrintJob(
	id kernel.UUID,
	orderID, shipmentID *kernel.UUID,
	jobType JobType,
	payload string,
	printerID *string,
	now time.Time,
) (*PrintJob, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := jobType.Validate(); err != nil {
		return nil, err
	}
	if payload == "" {
		return nil, errs.NewValueIsRequiredError("payload")
	}
	if orderID != nil {
		if err := orderID.Validate(); err != nil {
			return nil, err
		}
	}
	if shipmentID != nil {
		if err := shipmentID.Validate(); err != nil {
			return nil, err
		}
	}

	return &PrintJob{
		id:            id,
		orderID:       orderID,
		shipmentID:    shipmentID,
		jobType:       jobType,
		payload:       payload,
		printerID:     printerID,
		status:        Pending,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}, nil
}

// RestorePrintJob reconstructs a job from persistence. Used by repositories only.
func RestorePrintJob(
	id kernel.UUID,
	orderID, shipmentID *kernel.UUID,
	jobType JobType,
	payload string,
	printerID *string,
	status Status,
	attempts int,
	errorMessage string,
	createdAt, updatedAt time.Time,
	completedAt *time.Time,
) (*PrintJob, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if attempts < 0 {
		return nil, errs.NewValueIsInvalidError("attempts")
	}

	j, err := NewPrintJob(id, orderID, shipmentID, jobType, payload, printerID, createdAt)
	if err != nil {
		return nil, err
	}

	j.status = status
	j.attempts = attempts
	j.errorMessage = errorMessage
	j.updatedAt = updatedAt
	j.completedAt = completedAt
	return j, nil
}

// Validate ensures the PrintJob was created through a constructor.
func (j *PrintJob) Validate() error {
	if j == nil || !j.isConstructed {
		return ErrJobIsNotConstructed
	}
	return nil
}

// ID returns the job identifier.
func (j *PrintJob) ID() kernel.UUID { return j.id }

// OrderID returns the referenced order, nil for detached jobs.
func (j *PrintJob) OrderID() *kernel.UUID { return j.orderID }

// ShipmentID returns the referenced shipment, nil when it was deleted.
func (j *PrintJob) ShipmentID() *kernel.UUID { return j.shipmentID }

// Type returns the job type.
func (j *PrintJob) Type() JobType { return j.jobType }

// Payload returns the raw printable data.
func (j *PrintJob) Payload() string { return j.payload }

// PrinterID returns the target printer, nil meaning any printer.
func (j *PrintJob) PrinterID() *string { return j.printerID }

// Status returns the current queue status.
func (j *PrintJob) Status() Status { return j.status }

// Attempts returns how many times the job has been leased.
func (j *PrintJob) Attempts() int { return j.attempts }

// ErrorMessage returns the last failure message, empty when none.
func (j *PrintJob) ErrorMessage() string { return j.errorMessage }

// CreatedAt returns the enqueue timestamp.
func (j *PrintJob) CreatedAt() time.Time { return j.createdAt }

// UpdatedAt returns the time of the last transition. The queue compares it
// against the lease duration to reclaim stale leases.
func (j *PrintJob) UpdatedAt() time.Time { return j.updatedAt }

// CompletedAt returns the completion timestamp, nil while unfinished.
func (j *PrintJob) CompletedAt() *time.Time { return j.completedAt }

// MatchesPrinter reports whether a poller identifying as printerID may lease
// this job. Jobs without a printer id are eligible for any poller.
func (j *PrintJob) MatchesPrinter(printerID string) bool {
	return j.printerID == nil || *j.printerID == printerID
}

// Lease claims the job for an agent: Pending becomes Printing and the
// attempt counter increments. The repository mirrors this transition as a
// single conditional update so concurrent pollers cannot both win.
func (j *PrintJob) Lease(now time.Time) error {
	newStatus, err := j.status.Lease()
	if err != nil {
		return err
	}

	j.status = newStatus
	j.attempts++
	j.updatedAt = now
	return nil
}

// Complete records a successful print. Valid only while Printing.
func (j *PrintJob) Complete(now time.Time) error {
	newStatus, err := j.status.Complete()
	if err != nil {
		return err
	}

	j.status = newStatus
	j.errorMessage = ""
	j.updatedAt = now
	j.completedAt = &now
	return nil
}

// Fail records a failed attempt. With attempts remaining the job returns to
// Pending for the next poll; otherwise it becomes Failed until an operator
// retries it.
func (j *PrintJob) Fail(maxAttempts int, message string, now time.Time) error {
	var (
		newStatus Status
		err       error
	)
	if j.attempts >= maxAttempts {
		newStatus, err = j.status.Fail()
	} else {
		newStatus, err = j.status.Requeue()
	}
	if err != nil {
		return err
	}

	j.status = newStatus
	j.errorMessage = message
	j.updatedAt = now
	return nil
}

// ExpireLease reclaims a stale lease: back to Pending with attempts left,
// Failed once exhausted. The message records the expiry for operators.
func (j *PrintJob) ExpireLease(maxAttempts int, now time.Time) error {
	return j.Fail(maxAttempts, "print job lease expired", now)
}

// Retry is the operator reset of a Failed job: Pending again with the
// attempt counter cleared.
func (j *PrintJob) Retry(now time.Time) error {
	newStatus, err := j.status.Retry()
	if err != nil {
		return err
	}

	j.status = newStatus
	j.attempts = 0
	j.errorMessage = ""
	j.updatedAt = now
	return nil
}
