package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"teebay-client/internal/clock"
	"teebay-client/internal/domain"
	"teebay-client/internal/timewindow"
)

// State is the resolver's position in the booking interaction.
type State string

const (
	StateIdle                 State = "IDLE"
	StateCollectingInput      State = "COLLECTING_INPUT"
	StateAwaitingConfirmation State = "AWAITING_CONFIRMATION"
	StateSubmitting           State = "SUBMITTING"
	StateSucceeded            State = "SUCCEEDED"
	StateFailed               State = "FAILED"
	StateCancelled            State = "CANCELLED"
)

// ErrInvalidTransition is returned when an operation is called from a state
// it is not legal in.
var ErrInvalidTransition = errors.New("booking: operation not legal in current state")

// Submitter is the remote booking-mutation collaborator. Start and end are
// wire-format timestamps; durationHours is zero for PER_DAY bookings, where
// the duration is derived from the calendar range server-side.
type Submitter interface {
	SubmitBooking(ctx context.Context, productID int64, start, end string, durationHours int) (domain.MutationStatus, error)
}

// SelectionFields carries the user-entered part of a rental selection.
// Zero-valued fields leave the corresponding selection field unchanged, so
// partial UI updates can be applied as they happen.
type SelectionFields struct {
	StartDate     time.Time
	EndDate       time.Time
	StartDateTime time.Time
	DurationHours int
}

// sameDayCutoff is the local time of day after which same-day bookings are
// rejected server-side; the resolver surfaces it early as a warning.
const sameDayCutoff = 10 * time.Hour

// Resolver drives one rent-booking interaction: mode-dependent input
// collection, validation through the timewindow resolvers, confirmation,
// and a single submission to the booking mutation. It is safe for
// concurrent use; rapid repeated Confirm calls issue at most one request.
type Resolver struct {
	submitter Submitter
	clk       clock.Clock
	logger    *log.Logger

	mu         sync.Mutex
	state      State
	product    domain.Product
	selection  *domain.RentalSelection
	failureMsg string
	warning    string
}

// NewResolver creates a resolver in the idle state. A nil clock falls back
// to the system clock, a nil logger to the process default.
func NewResolver(submitter Submitter, clk clock.Clock, logger *log.Logger) *Resolver {
	if clk == nil {
		clk = clock.NewSystem()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{
		submitter: submitter,
		clk:       clk,
		logger:    logger,
		state:     StateIdle,
	}
}

// BeginBooking opens a booking interaction for the product. Fails with
// domain.ErrUnsupportedMode when the product carries no rental mode; that
// is a UI-wiring error, unreachable from a correct screen, but it must
// fail safely rather than proceed with an undefined mode.
func (r *Resolver) BeginBooking(p domain.Product) error {
	if !p.ForRent() {
		return fmt.Errorf("%w: product %d", domain.ErrUnsupportedMode, p.ID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.product = p
	r.selection = &domain.RentalSelection{Mode: *p.TypeOfRent}
	r.state = StateCollectingInput
	r.failureMsg = ""
	r.warning = ""
	return nil
}

// SetSelection merges the given fields into the in-progress selection.
// Legal during input collection and after a failed validation; it never
// transitions state.
func (r *Resolver) SetSelection(f SelectionFields) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateCollectingInput {
		return fmt.Errorf("%w: SetSelection from %s", ErrInvalidTransition, r.state)
	}
	if !f.StartDate.IsZero() {
		r.selection.StartDate = f.StartDate
	}
	if !f.EndDate.IsZero() {
		r.selection.EndDate = f.EndDate
	}
	if !f.StartDateTime.IsZero() {
		r.selection.StartDateTime = f.StartDateTime
	}
	if f.DurationHours != 0 {
		r.selection.DurationHours = f.DurationHours
	}
	return nil
}

// Validate runs the resolver for the selection's mode. On success the
// canonical window is stored and the resolver awaits confirmation; on
// failure the error kind is returned, the state stays at input collection,
// and the already-entered fields are preserved for correction.
func (r *Resolver) Validate() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateCollectingInput {
		return fmt.Errorf("%w: Validate from %s", ErrInvalidTransition, r.state)
	}

	var (
		w   timewindow.Window
		err error
	)
	switch r.selection.Mode {
	case domain.RentPerDay:
		w, err = timewindow.ResolveDailyWindow(r.selection.StartDate, r.selection.EndDate)
	case domain.RentPerHour:
		w, err = timewindow.ResolveHourlyWindow(r.selection.StartDateTime, r.selection.DurationHours)
	default:
		return fmt.Errorf("%w: mode %q", domain.ErrUnsupportedMode, r.selection.Mode)
	}
	if err != nil {
		r.logger.Printf("WARN: booking validation for product %d failed: %v", r.product.ID, err)
		return err
	}

	r.selection.ResolvedStart = w.Start
	r.selection.ResolvedEnd = w.End
	r.warning = r.sameDayWarning(w.Start)
	r.state = StateAwaitingConfirmation
	return nil
}

// Confirm submits the resolved window. It is a no-op while a submission is
// already in flight, so rapid repeated calls issue exactly one request.
// On a success response the selection is discarded; on failure the server
// message is preserved for display and Retry reopens input collection.
func (r *Resolver) Confirm(ctx context.Context) error {
	r.mu.Lock()
	if r.state == StateSubmitting {
		r.mu.Unlock()
		return nil
	}
	if r.state != StateAwaitingConfirmation {
		r.mu.Unlock()
		return fmt.Errorf("%w: Confirm from %s", ErrInvalidTransition, r.state)
	}
	r.state = StateSubmitting
	productID := r.product.ID
	start := timewindow.FormatForWire(r.selection.ResolvedStart)
	end := timewindow.FormatForWire(r.selection.ResolvedEnd)
	hours := 0
	if r.selection.Mode == domain.RentPerHour {
		hours = r.selection.DurationHours
	}
	r.mu.Unlock()

	status, err := r.submitter.SubmitBooking(ctx, productID, start, end, hours)

	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case err != nil:
		r.state = StateFailed
		r.failureMsg = err.Error()
		r.logger.Printf("WARN: booking submission for product %d failed: %v", productID, err)
		return err
	case !status.Success():
		r.state = StateFailed
		r.failureMsg = status.StatusMessage
		r.logger.Printf("WARN: booking for product %d rejected: %s", productID, status.StatusMessage)
		return domain.NewRemoteError(status)
	}
	r.state = StateSucceeded
	r.selection = nil
	r.logger.Printf("INFO: booked product %d from %s to %s", productID, start, end)
	return nil
}

// Retry reopens input collection after a failed submission, keeping the
// entered fields.
func (r *Resolver) Retry() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateFailed {
		return fmt.Errorf("%w: Retry from %s", ErrInvalidTransition, r.state)
	}
	r.state = StateCollectingInput
	return nil
}

// Cancel discards the selection. Legal from input collection or the
// confirmation prompt.
func (r *Resolver) Cancel() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateCollectingInput && r.state != StateAwaitingConfirmation {
		return fmt.Errorf("%w: Cancel from %s", ErrInvalidTransition, r.state)
	}
	r.selection = nil
	r.state = StateCancelled
	return nil
}

// State returns the resolver's current position in the interaction.
func (r *Resolver) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Selection returns a snapshot of the in-progress selection, or an error
// when none exists.
func (r *Resolver) Selection() (domain.RentalSelection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.selection == nil {
		return domain.RentalSelection{}, domain.ErrNoSelection
	}
	return *r.selection, nil
}

// FailureMessage returns the user-visible message of the last failed
// submission, empty otherwise.
func (r *Resolver) FailureMessage() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failureMsg
}

// Warning returns the non-blocking warning for the current selection,
// such as the same-day booking cutoff. Empty when there is none.
func (r *Resolver) Warning() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.warning
}

// DisplayWindow renders the resolved window for the confirmation dialog.
// Valid once validation has succeeded.
func (r *Resolver) DisplayWindow() (start, end string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.selection == nil || r.selection.ResolvedEnd.IsZero() {
		return "", "", domain.ErrNoSelection
	}
	return timewindow.FormatForDisplay(r.selection.ResolvedStart),
		timewindow.FormatForDisplay(r.selection.ResolvedEnd), nil
}

// EstimateUnits returns the billable units of the resolved window: hours
// for PER_HOUR, days for PER_DAY, any partial unit rounding up. This
// mirrors the server's own charge computation, which stays authoritative.
func (r *Resolver) EstimateUnits() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.selection == nil || r.selection.ResolvedEnd.IsZero() {
		return 0, domain.ErrNoSelection
	}
	span := r.selection.ResolvedEnd.Sub(r.selection.ResolvedStart)
	unit := time.Hour
	if r.selection.Mode == domain.RentPerDay {
		unit = 24 * time.Hour
	}
	return int(math.Ceil(span.Hours() / unit.Hours())), nil
}

// EstimateTotal returns the estimated charge for the resolved window at
// the product's rent price.
func (r *Resolver) EstimateTotal() (float64, error) {
	units, err := r.EstimateUnits()
	if err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.product.Rent == nil {
		return 0, domain.ErrUnsupportedMode
	}
	return float64(units) * *r.product.Rent, nil
}

// sameDayWarning reports the server's same-day cutoff rule ahead of time:
// bookings starting today are rejected when placed after 10:00 AM local.
func (r *Resolver) sameDayWarning(start time.Time) string {
	now := r.clk.Now()
	ny, nm, nd := now.Date()
	sy, sm, sd := start.Date()
	if ny != sy || nm != sm || nd != sd {
		return ""
	}
	midnight := time.Date(ny, nm, nd, 0, 0, 0, 0, now.Location())
	if now.Sub(midnight) > sameDayCutoff {
		return "Same-day rentals must be booked before 10:00 AM"
	}
	return ""
}
