package model

// Produksi is one completed step of the daily production checklist.
// Foto holds the watermarked image as a data URI; it is stripped before any
// cloud push and only FotoFile (the generated filename) travels upstream.
type Produksi struct {
	Base
	Step     string `json:"step"`
	Label    string `json:"label" validate:"required"`
	Waktu    string `json:"waktu,omitempty"`
	User     string `json:"user,omitempty"`
	Foto     string `json:"foto,omitempty"`
	FotoFile string `json:"fotoFile,omitempty"`
}

// ChecklistStep is one step of the BGN SOP production checklist.
type ChecklistStep struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Desc      string `json:"desc"`
	NeedPhoto bool   `json:"needPhoto"`
}

// ProduksiChecklist is the fixed BGN SOP step list the kitchen completes
// every day. Produksi records reference steps by ID.
var ProduksiChecklist = []ChecklistStep{
	{ID: "sanitasi_dapur", Label: "Sanitasi Dapur", Desc: "Bersihkan area dapur sebelum mulai", NeedPhoto: false},
	{ID: "apd_petugas", Label: "APD Petugas", Desc: "Celemek, masker, sarung tangan, penutup kepala", NeedPhoto: true},
	{ID: "cuci_tangan", Label: "Cuci Tangan", Desc: "Semua petugas cuci tangan dengan sabun", NeedPhoto: false},
	{ID: "qc_bahan", Label: "QC Bahan Baku", Desc: "Cek kesegaran dan kondisi bahan", NeedPhoto: true},
	{ID: "persiapan_bahan", Label: "Persiapan Bahan", Desc: "Cuci, potong, dan siapkan bahan", NeedPhoto: false},
	{ID: "masak", Label: "Proses Memasak", Desc: "Masak sesuai resep dan standar", NeedPhoto: true},
	{ID: "test_food", Label: "Uji Rasa (Test Food)", Desc: "Tes rasa sebelum disajikan", NeedPhoto: false},
	{ID: "packing", Label: "Pengemasan", Desc: "Kemas dalam box dengan higienis", NeedPhoto: true},
	{ID: "simpan_sampel", Label: "Simpan Sampel", Desc: "Simpan sampel untuk pengecekan", NeedPhoto: true},
}

// ChecklistStepByID looks a step up by its ID.
func ChecklistStepByID(id string) (ChecklistStep, bool) {
	for _, s := range ProduksiChecklist {
		if s.ID == id {
			return s, true
		}
	}
	return ChecklistStep{}, false
}

// TimelineEntry is one entry of the fixed daily work timeline.
type TimelineEntry struct {
	Jam   string `json:"jam"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// DailyTimeline is the daily work rhythm (sesuai mekanisme SPPG), shown on
// the dashboard alongside checklist progress.
var DailyTimeline = []TimelineEntry{
	{Jam: "02:00", Label: "Persiapan dimulai", Icon: "moon"},
	{Jam: "03:00", Label: "Tim masuk & masak", Icon: "chef"},
	{Jam: "04:30", Label: "Kloter 1 selesai", Icon: "check"},
	{Jam: "05:00", Label: "Packing & Test Food", Icon: "box"},
	{Jam: "07:45", Label: "Distribusi Kloter 1", Icon: "truck"},
	{Jam: "09:00", Label: "Distribusi Kloter 2", Icon: "truck"},
	{Jam: "10:00", Label: "Distribusi Kloter 3", Icon: "truck"},
	{Jam: "13:00", Label: "Pengambilan Alat", Icon: "download"},
	{Jam: "15:00", Label: "Closing & QC", Icon: "clipboard"},
}
