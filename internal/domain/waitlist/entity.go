package waitlist

import (
	"errors"
	"strings"
	"time"

	"booking-engine/internal/domain/window"

	"github.com/google/uuid"
)

var (
	ErrEntryClosed      = errors.New("waitlist entry is no longer active")
	ErrCommentsTooLong  = errors.New("comments are too long (max 1000 characters)")
	ErrInvalidStatus    = errors.New("invalid waitlist status")
	ErrMissingService   = errors.New("service is required")
	ErrMissingBranch    = errors.New("branch is required")
	ErrMissingCustomer  = errors.New("customer is required")
	ErrWindowNotDefined = errors.New("desired window is required")
)

const MaxCommentsLength = 1000

type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusMatched   Status = "matched"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusCancelled, StatusMatched:
		return true
	default:
		return false
	}
}

func NewStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

type NewParams struct {
	BranchID        uuid.UUID
	ServiceID       uuid.UUID
	ServiceOptionID *uuid.UUID
	StaffID         *uuid.UUID
	CustomerID      uuid.UUID
	Desired         window.Window
	Comments        string
	AutoBook        bool
}

type Entry struct {
	id              uuid.UUID
	branchID        uuid.UUID
	serviceID       uuid.UUID
	serviceOptionID *uuid.UUID
	staffID         *uuid.UUID
	customerID      uuid.UUID
	desired         window.Window
	comments        string
	autoBook        bool
	status          Status
	matchedBooking  *uuid.UUID
	createdAt       time.Time
	updatedAt       time.Time
}

func NewEntry(p NewParams, now time.Time) (*Entry, error) {
	switch {
	case p.BranchID == uuid.Nil:
		return nil, ErrMissingBranch
	case p.ServiceID == uuid.Nil:
		return nil, ErrMissingService
	case p.CustomerID == uuid.Nil:
		return nil, ErrMissingCustomer
	case p.Desired.IsZero():
		return nil, ErrWindowNotDefined
	}
	comments := strings.TrimSpace(p.Comments)
	if len(comments) > MaxCommentsLength {
		return nil, ErrCommentsTooLong
	}

	return &Entry{
		id:              uuid.New(),
		branchID:        p.BranchID,
		serviceID:       p.ServiceID,
		serviceOptionID: p.ServiceOptionID,
		staffID:         p.StaffID,
		customerID:      p.CustomerID,
		desired:         p.Desired,
		comments:        comments,
		autoBook:        p.AutoBook,
		status:          StatusActive,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

func ReconstructEntry(
	id, branchID, serviceID uuid.UUID,
	serviceOptionID, staffID *uuid.UUID,
	customerID uuid.UUID,
	desired window.Window,
	comments string,
	autoBook bool,
	status Status,
	matchedBooking *uuid.UUID,
	createdAt, updatedAt time.Time,
) *Entry {
	return &Entry{
		id:              id,
		branchID:        branchID,
		serviceID:       serviceID,
		serviceOptionID: serviceOptionID,
		staffID:         staffID,
		customerID:      customerID,
		desired:         desired,
		comments:        comments,
		autoBook:        autoBook,
		status:          status,
		matchedBooking:  matchedBooking,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// Cancel is the client-initiated exit. Terminal states are final.
func (e *Entry) Cancel(now time.Time) error {
	if e.status != StatusActive {
		return ErrEntryClosed
	}
	e.status = StatusCancelled
	e.updatedAt = now
	return nil
}

// MarkMatched records the booking created for this entry. Only the matcher calls it.
func (e *Entry) MarkMatched(bookingID uuid.UUID, now time.Time) error {
	if e.status != StatusActive {
		return ErrEntryClosed
	}
	e.status = StatusMatched
	e.matchedBooking = &bookingID
	e.updatedAt = now
	return nil
}

func (e *Entry) IsActive() bool {
	return e.status == StatusActive
}

func (e *Entry) ID() uuid.UUID               { return e.id }
func (e *Entry) BranchID() uuid.UUID         { return e.branchID }
func (e *Entry) ServiceID() uuid.UUID        { return e.serviceID }
func (e *Entry) ServiceOptionID() *uuid.UUID { return e.serviceOptionID }
func (e *Entry) StaffID() *uuid.UUID         { return e.staffID }
func (e *Entry) CustomerID() uuid.UUID       { return e.customerID }
func (e *Entry) Desired() window.Window      { return e.desired }
func (e *Entry) Comments() string            { return e.comments }
func (e *Entry) AutoBook() bool              { return e.autoBook }
func (e *Entry) Status() Status              { return e.status }
func (e *Entry) MatchedBooking() *uuid.UUID  { return e.matchedBooking }
func (e *Entry) CreatedAt() time.Time        { return e.createdAt }
func (e *Entry) UpdatedAt() time.Time        { return e.updatedAt }
