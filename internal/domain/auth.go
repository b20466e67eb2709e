package domain

import "time"

// RoleAdmin is the only role the portal issues credentials for.
const RoleAdmin = "admin"

// AdminIdentity is the decoded, verified admin credential.
type AdminIdentity struct {
	Email     string
	Role      string
	ExpiresAt time.Time
}
