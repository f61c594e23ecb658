package adjustment

import "time"

type CreateResizeRequest struct {
	LeaveRequestID string `json:"leave_request_id" binding:"required,uuid"`
	NewStartDate   string `json:"new_start_date" binding:"required"`
	NewEndDate     string `json:"new_end_date" binding:"required"`
	Reason         string `json:"reason"`
}

type CreateCancellationRequest struct {
	LeaveRequestID string `json:"leave_request_id" binding:"required,uuid"`
	Reason         string `json:"reason"`
}

type DecideAdjustmentRequest struct {
	Decision string `json:"decision" binding:"required,oneof=APPROVE REJECT"`
	Comments string `json:"comments"`
}

type AdjustmentResponse struct {
	ID                 string  `json:"id"`
	LeaveRequestID     string  `json:"leave_request_id"`
	EmployeeID         string  `json:"employee_id"`
	IsCancellation     bool    `json:"is_cancellation"`
	NewStartDate       *string `json:"new_start_date,omitempty"`
	NewEndDate         *string `json:"new_end_date,omitempty"`
	OriginalDays       float64 `json:"original_days"`
	NewDays            float64 `json:"new_days"`
	Reason             string  `json:"reason"`
	Status             string  `json:"status"`
	CreatedBy          string  `json:"created_by"`
	ReportingOfficerID string  `json:"reporting_officer_id"`
	RespondedBy        *string `json:"responded_by,omitempty"`
	RespondedAt        *string `json:"responded_at,omitempty"`
	ResponseComments   *string `json:"response_comments,omitempty"`
}

// CreateResult and DecideResult mirror the request workflow: ok=false
// with no error is a silent precondition failure.
type CreateResult struct {
	Applied    bool                `json:"applied"`
	Adjustment *AdjustmentResponse `json:"adjustment,omitempty"`
}

type DecideResult struct {
	Applied    bool                `json:"applied"`
	Adjustment *AdjustmentResponse `json:"adjustment,omitempty"`
}

func formatDate(t time.Time) string { return t.Format("2006-01-02") }

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := formatDate(*t)
	return &v
}

func mapToResponse(a LeaveAdjustmentRequest) AdjustmentResponse {
	resp := AdjustmentResponse{
		ID:                 a.ID.String(),
		LeaveRequestID:     a.LeaveRequestID.String(),
		EmployeeID:         a.EmployeeID.String(),
		IsCancellation:     a.IsCancellation,
		NewStartDate:       formatDatePtr(a.NewStartDate),
		NewEndDate:         formatDatePtr(a.NewEndDate),
		OriginalDays:       a.OriginalDays,
		NewDays:            a.NewDays,
		Reason:             a.Reason,
		Status:             string(a.Status),
		CreatedBy:          a.CreatedBy.String(),
		ReportingOfficerID: a.ReportingOfficerID.String(),
		ResponseComments:   a.ResponseComments,
	}
	if a.RespondedBy != nil {
		v := a.RespondedBy.String()
		resp.RespondedBy = &v
	}
	if a.RespondedAt != nil {
		v := a.RespondedAt.Format(time.RFC3339)
		resp.RespondedAt = &v
	}
	return resp
}

func mapToListResponse(adjustments []LeaveAdjustmentRequest) []AdjustmentResponse {
	resp := make([]AdjustmentResponse, len(adjustments))
	for i, a := range adjustments {
		resp[i] = mapToResponse(a)
	}
	return resp
}
