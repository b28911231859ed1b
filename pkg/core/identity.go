package core

// Principal is the authenticated identity handed in by the session layer.
// The store trusts it as-is and never re-validates identity. The tenant id
// is an opaque, globally-unique identifier assigned at account creation and
// never derived from user-supplied text, so it is safe as a path segment.
type Principal struct {
	TenantID string
	Username string
	Role     string
}
