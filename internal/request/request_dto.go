package request

import "time"

type SubmitLeaveRequest struct {
	EmployeeID      string  `json:"employee_id" binding:"required,uuid"`
	LeaveTypeID     string  `json:"leave_type_id" binding:"required,uuid"`
	StartDate       string  `json:"start_date" binding:"required"`
	EndDate         string  `json:"end_date" binding:"required"`
	IsShort         bool    `json:"is_short"`
	Reason          string  `json:"reason"`
	ContactAddress  string  `json:"contact_address"`
	Recommenders    string  `json:"recommenders"`
	LocationID      string  `json:"location_id"`
	TravelStartDate *string `json:"travel_start_date"`
	TravelEndDate   *string `json:"travel_end_date"`
}

type EditLeaveRequest struct {
	LeaveTypeID     string  `json:"leave_type_id" binding:"required,uuid"`
	StartDate       string  `json:"start_date" binding:"required"`
	EndDate         string  `json:"end_date" binding:"required"`
	IsShort         bool    `json:"is_short"`
	Reason          string  `json:"reason"`
	ContactAddress  string  `json:"contact_address"`
	Recommenders    string  `json:"recommenders"`
	TravelStartDate *string `json:"travel_start_date"`
	TravelEndDate   *string `json:"travel_end_date"`
	DepartureDate   *string `json:"departure_date"`
	JoiningDate     *string `json:"joining_date"`
}

type DecideLeaveRequest struct {
	Decision string `json:"decision" binding:"required,oneof=APPROVE REJECT"`
	Comments string `json:"comments"`
}

type BreakupDayResponse struct {
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
}

type LeaveRequestResponse struct {
	ID                 string  `json:"id"`
	EmployeeID         string  `json:"employee_id"`
	LeaveTypeID        string  `json:"leave_type_id"`
	StartDate          string  `json:"start_date"`
	EndDate            string  `json:"end_date"`
	IsShort            bool    `json:"is_short"`
	CalendarDays       int     `json:"calendar_days"`
	CountedDays        int     `json:"counted_days"`
	Reason             string  `json:"reason"`
	ContactAddress     string  `json:"contact_address,omitempty"`
	Recommenders       string  `json:"recommenders,omitempty"`
	TravelStartDate    *string `json:"travel_start_date,omitempty"`
	TravelEndDate      *string `json:"travel_end_date,omitempty"`
	DepartureDate      *string `json:"departure_date,omitempty"`
	JoiningDate        *string `json:"joining_date,omitempty"`
	Status             string  `json:"status"`
	CreatedBy          string  `json:"created_by"`
	ReportingOfficerID string  `json:"reporting_officer_id"`
	RespondedBy        *string `json:"responded_by,omitempty"`
	RespondedAt        *string `json:"responded_at,omitempty"`
	ResponseComments   *string `json:"response_comments,omitempty"`
}

// DecideResult reports whether the decision was applied. Applied=false
// without an error means the caller was not the reporting officer or
// the request was no longer open. Both are deliberate silent no-ops.
type DecideResult struct {
	Applied bool                  `json:"applied"`
	Request *LeaveRequestResponse `json:"request,omitempty"`
}

func formatDate(t time.Time) string { return t.Format("2006-01-02") }

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := formatDate(*t)
	return &v
}

func mapToResponse(l LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:                 l.ID.String(),
		EmployeeID:         l.EmployeeID.String(),
		LeaveTypeID:        l.LeaveTypeID.String(),
		StartDate:          formatDate(l.StartDate),
		EndDate:            formatDate(l.EndDate),
		IsShort:            l.IsShort,
		CalendarDays:       l.CalendarDays,
		CountedDays:        l.CountedDays,
		Reason:             l.Reason,
		ContactAddress:     l.ContactAddress,
		Recommenders:       l.Recommenders,
		TravelStartDate:    formatDatePtr(l.TravelStartDate),
		TravelEndDate:      formatDatePtr(l.TravelEndDate),
		DepartureDate:      formatDatePtr(l.DepartureDate),
		JoiningDate:        formatDatePtr(l.JoiningDate),
		Status:             string(l.Status),
		CreatedBy:          l.CreatedBy.String(),
		ReportingOfficerID: l.ReportingOfficerID.String(),
		ResponseComments:   l.ResponseComments,
	}
	if l.RespondedBy != nil {
		v := l.RespondedBy.String()
		resp.RespondedBy = &v
	}
	if l.RespondedAt != nil {
		v := l.RespondedAt.Format(time.RFC3339)
		resp.RespondedAt = &v
	}
	return resp
}

func mapToListResponse(requests []LeaveRequest) []LeaveRequestResponse {
	resp := make([]LeaveRequestResponse, len(requests))
	for i, l := range requests {
		resp[i] = mapToResponse(l)
	}
	return resp
}

func mapBreakupToResponse(days []LeaveRequestDay) []BreakupDayResponse {
	resp := make([]BreakupDayResponse, len(days))
	for i, d := range days {
		resp[i] = BreakupDayResponse{Date: formatDate(d.Date), Weekday: d.Weekday}
	}
	return resp
}
