package model

// QC statuses for incoming material. Settable in any order by anyone with
// edit rights; there is no enforced ordering.
const (
	QCOk       = "ok"
	QCReview   = "review"
	QCRejected = "rejected"
)

// Logistik is one incoming-material intake record with its QC gate.
type Logistik struct {
	Base
	Nama     string  `json:"nama" validate:"required"`
	Berat    float64 `json:"berat"`
	Harga    int64   `json:"harga"`
	Supplier string  `json:"supplier,omitempty"`
	QCStatus string  `json:"qcStatus,omitempty"`
}

// ValidQCStatus reports whether s is one of the known QC states.
func ValidQCStatus(s string) bool {
	return s == QCOk || s == QCReview || s == QCRejected
}
