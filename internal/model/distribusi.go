package model

// Distribusi statuses. Status hanya boleh maju, tidak pernah mundur.
const (
	StatusPending   = "pending"
	StatusBerangkat = "berangkat"
	StatusSampai    = "sampai"
	StatusSelesai   = "selesai"
)

// statusRank orders the delivery state machine:
// pending -> berangkat -> sampai -> selesai.
var statusRank = map[string]int{
	StatusPending:   0,
	StatusBerangkat: 1,
	StatusSampai:    2,
	StatusSelesai:   3,
}

// Distribusi is one delivery of meal boxes to a school, grouped into a
// kloter (delivery wave). The selesai transition is photo-gated: it is only
// reachable after a successful arrival photo capture.
type Distribusi struct {
	Base
	Sekolah      string `json:"sekolah" validate:"required"`
	Kloter       int    `json:"kloter"`
	JumlahBox    int    `json:"jumlahBox"`
	Driver       string `json:"driver,omitempty"`
	Status       string `json:"status"`
	JamBerangkat string `json:"jam_berangkat,omitempty"`
	JamSampai    string `json:"jam_sampai,omitempty"`
	Foto         string `json:"foto,omitempty"`
	FotoFile     string `json:"fotoFile,omitempty"`
}

// Kloter is one delivery wave, grouping distribusi records by departure
// time and recipient age group.
type Kloter struct {
	ID     int    `json:"id"`
	Label  string `json:"label"`
	Target string `json:"target"`
	Jam    string `json:"jam"`
}

// Kloters is the fixed wave schedule.
var Kloters = []Kloter{
	{ID: 1, Label: "TK, PAUD (07:30)", Target: "Anak usia 4-6 tahun", Jam: "07:30"},
	{ID: 2, Label: "SD 1-2 (09:00)", Target: "Kelas 1-2 SD", Jam: "09:00"},
	{ID: 3, Label: "SD 3-6 (10:00)", Target: "Kelas 3-6 SD", Jam: "10:00"},
	{ID: 4, Label: "SMP/SMA (12:00)", Target: "SMP dan SMA", Jam: "12:00"},
}

// CanAdvance reports whether a status transition moves strictly forward.
// Unknown statuses rank as pending so legacy records can still advance.
func CanAdvance(from, to string) bool {
	return statusRank[to] > statusRank[from]
}
