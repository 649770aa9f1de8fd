package model

import "fmt"

// Role gates which operations an identity may invoke.
const (
	RolePending  = "pending"
	RoleEmployee = "Employee"
	RoleManager  = "Manager"
	RoleAdmin    = "Admin"
)

// User account lifecycle states.
const (
	StatusInactive = "inactive"
	StatusActive   = "active"
	StatusDeleted  = "deleted"
)

// NormalizeRole maps user-supplied role strings onto the closed role set.
// Unrecognized input is an error, never passed through as-is.
func NormalizeRole(input string) (string, error) {
	switch input {
	case "employee", "Employee":
		return RoleEmployee, nil
	case "manager", "Manager":
		return RoleManager, nil
	case "admin", "Admin":
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role %q: must be employee, manager, or admin", input)
	}
}
