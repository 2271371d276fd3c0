package model

// Base carries the fields shared by every record in every table: the ID
// (time-based token assigned by the repository), the calendar date used for
// date-scoped queries, and the repository-stamped timestamps. Callers never
// set CreatedAt/UpdatedAt themselves.
type Base struct {
	ID        string `json:"id"`
	Tanggal   string `json:"tanggal,omitempty" validate:"omitempty,tanggal"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Record is the common surface the repository needs from any table record.
type Record interface {
	RecordID() string
	SetRecordID(id string)
	RecordDate() string
	StampCreated(ts string)
	StampUpdated(ts string)
}

func (b *Base) RecordID() string       { return b.ID }
func (b *Base) SetRecordID(id string)  { b.ID = id }
func (b *Base) RecordDate() string     { return b.Tanggal }
func (b *Base) StampCreated(ts string) { b.CreatedAt = ts }
func (b *Base) StampUpdated(ts string) { b.UpdatedAt = ts }
