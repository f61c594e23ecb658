package ledger

// TypeBalance is one row of the reconciled ledger. Balance is always
// Total minus Availed; Adjusted is the informational sum of approved
// resize deltas and never feeds the subtraction (availed already
// reflects them). Applied sums still-Submitted requests, so
// AppliedBalance is the spendable balance net of pending asks.
type TypeBalance struct {
	LeaveTypeID    string  `json:"leave_type_id"`
	ShortCode      string  `json:"short_code"`
	Name           string  `json:"name"`
	Total          float64 `json:"total"`
	Availed        float64 `json:"availed"`
	Adjusted       float64 `json:"adjusted"`
	Applied        float64 `json:"applied"`
	Balance        float64 `json:"balance"`
	AppliedBalance float64 `json:"applied_balance"`
}

type BalanceResponse struct {
	EmployeeID       string        `json:"employee_id"`
	FiscalYearNumber int           `json:"fiscal_year_number"`
	Balances         []TypeBalance `json:"balances"`

	// LegacyBalance surfaces the pre-migration single balance when the
	// employee has no assignment rows at all and a profile exists. Types
	// without an assignment row already carry it as their Total.
	LegacyBalance *float64 `json:"legacy_balance,omitempty"`
}
