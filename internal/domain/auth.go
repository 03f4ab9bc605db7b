package domain

import "fmt"

// Profile differentiates the two admin credential scopes.
type Profile string

const (
	ProfileStandard Profile = "standard-admin"
	ProfileElevated Profile = "elevated-admin"
)

// Profiles lists every profile, most privileged first.
var Profiles = []Profile{ProfileElevated, ProfileStandard}

// Valid reports whether p is a known profile.
func (p Profile) Valid() bool {
	return p == ProfileStandard || p == ProfileElevated
}

// Role returns the role claim the backend issues for the profile.
func (p Profile) Role() string {
	if p == ProfileElevated {
		return RoleSuperAdmin
	}
	return RoleAdmin
}

// ParseProfile accepts the profile names plus the backend role aliases.
func ParseProfile(s string) (Profile, error) {
	switch s {
	case string(ProfileStandard), "standard", RoleAdmin:
		return ProfileStandard, nil
	case string(ProfileElevated), "elevated", RoleSuperAdmin:
		return ProfileElevated, nil
	default:
		return "", fmt.Errorf("unknown profile %q", s)
	}
}

// Backend role claims.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// Credential is an opaque bearer token and the profile it authenticates.
type Credential struct {
	Token   string
	Profile Profile
}

// Identity is the cached display snapshot of the signed-in principal.
type Identity struct {
	ID        int64  `json:"id,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	UserLimit *int   `json:"user_limit,omitempty"`
}

// LoginSurface is where a profile signs in again after teardown.
type LoginSurface struct {
	Profile Profile
	Path    string
}
