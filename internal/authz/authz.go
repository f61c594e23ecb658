// Package authz holds the domain-level authorization predicate for
// workflow decisions. Route-level RBAC (casbin) answers "may this role
// hit this endpoint"; this package answers "may this specific actor
// decide this specific request", which for the leave workflows means
// being the request's stored reporting officer.
package authz

type Action string

const (
	ActionDecide Action = "decide"
)

// Resource identifies the thing being acted on together with the
// officer recorded on it at submission time.
type Resource struct {
	Kind               string
	ReportingOfficerID string
}

//go:generate mockgen -source=authz.go -destination=mock/authz_mock.go -package=mock
type Authorizer interface {
	Authorize(actorID string, res Resource, action Action) bool
}

type reportingOfficerAuthorizer struct{}

// NewReportingOfficerAuthorizer returns the production rule: only the
// stored reporting officer may decide, and a resource with no officer
// recorded is decidable by no one.
func NewReportingOfficerAuthorizer() Authorizer {
	return reportingOfficerAuthorizer{}
}

func (reportingOfficerAuthorizer) Authorize(actorID string, res Resource, action Action) bool {
	if action != ActionDecide {
		return false
	}
	if res.ReportingOfficerID == "" || actorID == "" {
		return false
	}
	return actorID == res.ReportingOfficerID
}
