package domain

import "time"

// RentalSelection is the ephemeral, client-owned state of one booking
// interaction. It is created when the booking dialog opens, discarded on
// cancel or successful submission, and never persisted.
//
// Which fields are meaningful depends on Mode: a PER_DAY selection uses
// StartDate/EndDate (calendar dates, no time-of-day component), a PER_HOUR
// selection uses StartDateTime/DurationHours. ResolvedStart/ResolvedEnd are
// derived by the timewindow package, never entered by the user.
type RentalSelection struct {
	Mode TypeOfRent

	// PER_DAY inputs.
	StartDate time.Time
	EndDate   time.Time

	// PER_HOUR inputs.
	StartDateTime time.Time
	DurationHours int

	// Derived canonical window. ResolvedEnd is strictly after ResolvedStart.
	ResolvedStart time.Time
	ResolvedEnd   time.Time
}
