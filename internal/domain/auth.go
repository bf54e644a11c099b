package domain

// SubjectType differentiates citizens, administrators and the system itself.
type SubjectType string

const (
	SubjectTypeCitizen   SubjectType = "CITIZEN"
	SubjectTypeAdmin     SubjectType = "ADMIN"
	SubjectTypeAnonymous SubjectType = "ANONYMOUS"
	SubjectTypeSystem    SubjectType = "SYSTEM"
)

// Principal is the verified caller of a request.
type Principal struct {
	SubjectID string
	Subject   SubjectType
	Name      string
}

// IsAdmin reports whether the principal may triage reports.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Subject == SubjectTypeAdmin
}
