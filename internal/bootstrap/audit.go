package bootstrap

import "context"

// AuditLog is one audit event: who decided what, when, and with which
// free-text comments. Decisions on leave requests and adjustments are
// required to pass through this sink.
type AuditLog struct {
	Action      string
	Message     string
	ResponderID string
	Meta        map[string]any
}

//go:generate mockgen -source=audit.go -destination=mock/audit_mock.go -package=mock
type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
