package shared

import "strings"

// Role represents a platform role carried in the caller identity.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleTeacher Role = "TEACHER"
	RoleAdmin   Role = "ADMIN"
)

// IsValid checks if the role is a known platform role.
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// Actor is the identity on whose behalf an operation runs.
// A zero-value Actor is an anonymous caller.
type Actor struct {
	UserID string
	Roles  []Role
}

// Anonymous returns an unauthenticated actor.
func Anonymous() Actor {
	return Actor{}
}

// IsAuthenticated reports whether the actor carries a user identity.
func (a Actor) IsAuthenticated() bool {
	return a.UserID != ""
}

// HasRole reports whether the actor carries the given role.
func (a Actor) HasRole(role Role) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the actor carries the ADMIN role.
func (a Actor) IsAdmin() bool {
	return a.HasRole(RoleAdmin)
}

// Is reports whether the actor is the given user.
func (a Actor) Is(userID string) bool {
	return a.IsAuthenticated() && a.UserID == userID
}

// RequireAuthenticated returns an error if the actor is anonymous.
func (a Actor) RequireAuthenticated() error {
	if !a.IsAuthenticated() {
		return ErrAuthenticationRequired
	}
	return nil
}

// RequireRole returns an error if the actor does not carry the role.
func (a Actor) RequireRole(role Role) error {
	if err := a.RequireAuthenticated(); err != nil {
		return err
	}
	if !a.HasRole(role) {
		return ErrMissingRole
	}
	return nil
}

// RequireAnyRole returns an error if the actor carries none of the roles.
func (a Actor) RequireAnyRole(roles ...Role) error {
	if err := a.RequireAuthenticated(); err != nil {
		return err
	}
	for _, role := range roles {
		if a.HasRole(role) {
			return nil
		}
	}
	return ErrMissingRole
}

// ListOptions carries common pagination parameters for list queries.
type ListOptions struct {
	Limit  int
	Offset int
}

// Normalize clamps pagination values into sane bounds.
func (o ListOptions) Normalize() ListOptions {
	if o.Limit <= 0 || o.Limit > 100 {
		o.Limit = 20
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}

// NormalizeTitle trims surrounding whitespace for title comparison.
func NormalizeTitle(s string) string {
	return strings.TrimSpace(s)
}
