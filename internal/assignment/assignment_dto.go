package assignment

// SaveAssignmentsRequest grants one leave type to a batch of employees
// for a fiscal year; zero FiscalYearNumber means the active year.
type SaveAssignmentsRequest struct {
	EmployeeIDs      []string `json:"employee_ids" binding:"required,min=1,dive,uuid"`
	LeaveTypeID      string   `json:"leave_type_id" binding:"required,uuid"`
	FiscalYearNumber int      `json:"fiscal_year_number"`
	Days             float64  `json:"days" binding:"min=0"`
}

type AssignmentResponse struct {
	ID               string  `json:"id"`
	EmployeeID       string  `json:"employee_id"`
	LeaveTypeID      string  `json:"leave_type_id"`
	FiscalYearNumber int     `json:"fiscal_year_number"`
	Days             float64 `json:"days"`
	AssignedBy       string  `json:"assigned_by"`
}

// ImportRowError reports one rejected spreadsheet row; the import keeps
// going past bad rows.
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportResult struct {
	Imported int              `json:"imported"`
	Skipped  int              `json:"skipped"`
	Errors   []ImportRowError `json:"errors,omitempty"`
}

func mapToResponse(a LeaveAssignment) AssignmentResponse {
	return AssignmentResponse{
		ID:               a.ID.String(),
		EmployeeID:       a.EmployeeID.String(),
		LeaveTypeID:      a.LeaveTypeID.String(),
		FiscalYearNumber: a.FiscalYearNumber,
		Days:             a.Days,
		AssignedBy:       a.AssignedBy.String(),
	}
}

func mapToListResponse(assignments []LeaveAssignment) []AssignmentResponse {
	resp := make([]AssignmentResponse, len(assignments))
	for i, a := range assignments {
		resp[i] = mapToResponse(a)
	}
	return resp
}
