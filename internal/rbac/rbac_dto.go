package rbac

// EnforceRequest asks whether an employee may perform an action on a
// resource at the route level. Domain-level approver checks live in
// internal/authz, not here.
type EnforceRequest struct {
	EmployeeID string `json:"employee_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
}
