package service

import (
	"encoding/json"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/model"
)

func TestExportImportRoundtrip(t *testing.T) {
	storage := newMockStorage()
	repo := newTestRepo(t, storage)
	svc := NewBackupService(storage, repo, zap.NewNop())

	repo.Logistik.Add(&model.Logistik{Nama: "Beras", Berat: 25})
	repo.Users.Add(&model.User{Nama: "Ayu", Phone: "0812"})

	doc, err := svc.ExportAll()
	if err != nil {
		t.Fatalf("ExportAll: %v", err)
	}

	var parsed map[string]json.RawMessage
	if err := json.Unmarshal(doc, &parsed); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	var version string
	if err := json.Unmarshal(parsed["version"], &version); err != nil || version != BackupVersion {
		t.Errorf("version = %q, want %q", version, BackupVersion)
	}
	if _, ok := parsed["exportedAt"]; !ok {
		t.Error("export must carry exportedAt")
	}
	for _, table := range model.Tables() {
		if _, ok := parsed[table]; !ok {
			t.Errorf("export missing table %s", table)
		}
	}

	// replay into a fresh node
	fresh := newMockStorage()
	freshRepo := newTestRepo(t, fresh)
	freshSvc := NewBackupService(fresh, freshRepo, zap.NewNop())
	if err := freshSvc.ImportAll(doc); err != nil {
		t.Fatalf("ImportAll: %v", err)
	}

	got := freshRepo.Logistik.All()
	if len(got) != 1 || got[0].Nama != "Beras" {
		t.Errorf("after import logistik = %v", got)
	}
	if len(freshRepo.Users.All()) != 1 {
		t.Error("after import users should have 1 record")
	}
}

func TestImportRejectsMalformedDocument(t *testing.T) {
	storage := newMockStorage()
	repo := newTestRepo(t, storage)
	svc := NewBackupService(storage, repo, zap.NewNop())

	if err := svc.ImportAll([]byte(`bukan json`)); !errors.Is(err, ErrInvalidImport) {
		t.Errorf("malformed doc err = %v, want ErrInvalidImport", err)
	}
}

func TestImportDoesNotPartiallyApply(t *testing.T) {
	storage := newMockStorage()
	repo := newTestRepo(t, storage)
	svc := NewBackupService(storage, repo, zap.NewNop())

	repo.Logistik.Add(&model.Logistik{Nama: "Lama"})
	before := len(storage.lists[model.TableLogistik])

	// logistik table valid, produksi table malformed: nothing may be written
	doc := []byte(`{
		"logistik": [{"id":"1","nama":"Baru"}],
		"produksi": {"bukan":"list"}
	}`)
	if err := svc.ImportAll(doc); !errors.Is(err, ErrInvalidImport) {
		t.Fatalf("err = %v, want ErrInvalidImport", err)
	}
	if got := len(storage.lists[model.TableLogistik]); got != before {
		t.Errorf("logistik was partially applied: %d records, want %d", got, before)
	}
}

func TestImportAudited(t *testing.T) {
	storage := newMockStorage()
	repo := newTestRepo(t, storage)
	svc := NewBackupService(storage, repo, zap.NewNop())

	if err := svc.ImportAll([]byte(`{"logistik":[]}`)); err != nil {
		t.Fatal(err)
	}
	entries := repo.Audit.All()
	if len(entries) != 1 || entries[0].Aksi != model.AksiImport {
		t.Errorf("audit after import = %v", entries)
	}
}

func TestResetAll(t *testing.T) {
	storage := newMockStorage()
	repo := newTestRepo(t, storage)
	svc := NewBackupService(storage, repo, zap.NewNop())

	repo.Logistik.Add(&model.Logistik{Nama: "Beras"})
	repo.Produksi.Add(&model.Produksi{Label: "Masak"})

	if err := svc.ResetAll(); err != nil {
		t.Fatalf("ResetAll: %v", err)
	}
	if len(repo.Logistik.All()) != 0 || len(repo.Produksi.All()) != 0 {
		t.Error("tables should be empty after reset")
	}
	entries := repo.Audit.All()
	if len(entries) != 1 || entries[0].Aksi != model.AksiReset {
		t.Errorf("audit after reset = %v", entries)
	}
}
