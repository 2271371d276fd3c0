package model

import "strings"

// User statuses
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// DefaultPIN is the fallback PIN for users that never had one set.
// Known weakness carried over from the legacy deployments; login logs a
// warning whenever it is used.
const DefaultPIN = "1234"

// User represents an operator account. Phone is the primary dedup key
// (leading zeros insignificant). PIN is stored as-is for compatibility with
// records synced from older deployments.
type User struct {
	Base
	Nama    string `json:"nama" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Pin     string `json:"pin,omitempty"`
	Role    string `json:"role"`
	Status  string `json:"status"`
	Jabatan string `json:"jabatan,omitempty"`
}

// editRoles: admin, editor (new), plus legacy roles kept for backward
// compatibility. Everything else is view-only (viewer, relawan, unknown).
var editRoles = map[string]bool{
	"admin":       true,
	"editor":      true,
	"koordinator": true,
	"staff":       true,
	"aslab":       true,
}

var roleLabels = map[string]string{
	"admin":       "Full Access",
	"editor":      "Can Edit",
	"viewer":      "View Only",
	"koordinator": "Can Edit",
	"staff":       "Can Edit",
	"aslab":       "Can Edit",
	"relawan":     "View Only",
}

// CanEdit reports whether a role string grants mutation rights.
func CanEdit(role string) bool {
	return editRoles[strings.ToLower(role)]
}

// IsAdmin reports whether a role string is the admin role.
func IsAdmin(role string) bool {
	return strings.ToLower(role) == "admin"
}

// RoleLabel returns the friendly label for a role string, falling back to
// the raw role name and then to "View Only".
func RoleLabel(role string) string {
	if label, ok := roleLabels[strings.ToLower(role)]; ok {
		return label
	}
	if role != "" {
		return role
	}
	return "View Only"
}

// NormalizePhone strips leading zeros and surrounding whitespace so that
// "0812xxx" and "812xxx" compare equal.
func NormalizePhone(phone string) string {
	return strings.TrimLeft(strings.TrimSpace(phone), "0")
}

func (u *User) CanEdit() bool  { return CanEdit(u.Role) }
func (u *User) IsAdmin() bool  { return IsAdmin(u.Role) }
func (u *User) IsActive() bool { return u.Status == StatusActive }

// EffectivePin returns the stored PIN or the legacy default when none is set.
func (u *User) EffectivePin() string {
	if u.Pin == "" {
		return DefaultPIN
	}
	return u.Pin
}
