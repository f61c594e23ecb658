package daycount

import "time"

// Input describes one counting question: which dates of [From, To]
// does this employee's leave of this type actually consume?
type Input struct {
	From        time.Time
	To          time.Time
	LocationID  string
	EmployeeID  string
	LeaveTypeID string

	// IsShort marks a short leave: the count is always exactly one day
	// no matter how wide the range is.
	IsShort bool
}

// BreakupDay is one countable date; the workflow materializes these
// verbatim as leave_request_days rows.
type BreakupDay struct {
	Date    time.Time `json:"date"`
	Weekday string    `json:"weekday"`
}

type Result struct {
	CountedDays  int          `json:"counted_days"`
	CalendarDays int          `json:"calendar_days"`
	Breakup      []BreakupDay `json:"breakup"`
}
