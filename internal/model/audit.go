package model

// Audit actions
const (
	AksiAdd    = "add"
	AksiUpdate = "update"
	AksiDelete = "delete"
	AksiLogin  = "login"
	AksiLogout = "logout"
	AksiImport = "import"
	AksiReset  = "reset"
)

// AuditEntry is an append-only trace of a mutating action. Entries are never
// updated or deleted by normal flow and never pushed to the cloud.
type AuditEntry struct {
	Base
	Aksi   string `json:"aksi"`
	Detail string `json:"detail"`
	User   string `json:"user"`
	Waktu  string `json:"waktu"`
}
