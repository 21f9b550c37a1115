package auth

import (
	"strings"
)

// RoleAssigner decides the role of a new account at registration time.
// The decision is made server-side only; clients never send a role.
type RoleAssigner struct {
	adminEmails map[string]struct{}
}

// NewRoleAssigner creates a role assigner from the configured admin
// email allow-list.
func NewRoleAssigner(adminEmails []string) *RoleAssigner {
	set := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			set[email] = struct{}{}
		}
	}
	return &RoleAssigner{adminEmails: set}
}

// AssignRole returns the role for a registering email: admin when the
// email is on the allow-list or carries the legacy "admin" marker,
// resident otherwise.
func (a *RoleAssigner) AssignRole(email string) Role {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, ok := a.adminEmails[email]; ok {
		return RoleAdmin
	}
	// Legacy convention: mess committee accounts are provisioned as
	// admin.<name>@<domain>.
	if strings.Contains(email, "admin") {
		return RoleAdmin
	}
	return RoleResident
}
