package domain

// AuthContext carries the authenticated principal into workflow calls.
// It is populated by the transport layer (which trusts its upstream
// authenticator) and passed by value; the core never reaches into a
// request object.
type AuthContext struct {
	UserID string
	Role   Role
}

// Is reports whether the principal holds the given role.
func (a AuthContext) Is(r Role) bool { return a.Role == r }
