package internal

// Role names seeded in the roles dictionary and referenced by access
// guards and approver eligibility checks.
const (
	RoleAdmin    = "admin"
	RoleHR       = "hr"
	RoleApprover = "approver"
	RoleStaff    = "staff"
)
