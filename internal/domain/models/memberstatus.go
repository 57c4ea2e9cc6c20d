// internal/domain/models/memberstatus.go
package models

// Membership lifecycle statuses. Transitions are manual; there is no
// automatic expiry.
const (
	MemberStatusPending  = "pending"
	MemberStatusActive   = "active"
	MemberStatusInactive = "inactive"
)

// ValidMemberStatus reports whether s is one of the closed set of member
// statuses.
func ValidMemberStatus(s string) bool {
	switch s {
	case MemberStatusPending, MemberStatusActive, MemberStatusInactive:
		return true
	}
	return false
}
