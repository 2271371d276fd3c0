package model

// Table names. Semua data lokal disimpan per tabel sebagai satu list JSON.
const (
	TableUsers      = "users"
	TableProduksi   = "produksi"
	TableDistribusi = "distribusi"
	TableLogistik   = "logistik"
	TableAudit      = "audit"
)

// Tables returns every known table, in sync/export order.
func Tables() []string {
	return []string{TableUsers, TableProduksi, TableDistribusi, TableLogistik, TableAudit}
}
