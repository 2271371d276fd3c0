package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/foto"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/model"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/repository"
)

func newProduksiFixture(t *testing.T) (*ProduksiService, *repository.Repository) {
	t.Helper()
	storage := newMockStorage()
	repo := newTestRepo(t, storage)
	pipeline := foto.New(foto.Options{OrgName: "SPPG - JIMBARAN 5", Address: "Jimbaran, Badung, Bali"}, nil, zap.NewNop())
	return NewProduksiService(repo, pipeline, zap.NewNop()), repo
}

func TestCompleteStepWithoutPhoto(t *testing.T) {
	svc, repo := newProduksiFixture(t)

	rec, err := svc.CompleteStep(context.Background(), "cuci_tangan", "Ayu", nil)
	if err != nil {
		t.Fatalf("CompleteStep: %v", err)
	}
	if rec.Step != "cuci_tangan" || rec.Label != "Cuci Tangan" {
		t.Errorf("record = %+v", rec)
	}
	if rec.User != "Ayu" || rec.Waktu == "" || rec.Tanggal == "" {
		t.Errorf("record missing operator/waktu/tanggal: %+v", rec)
	}
	if len(repo.Produksi.All()) != 1 {
		t.Error("completion should persist one record")
	}
}

func TestCompleteStepUnknown(t *testing.T) {
	svc, _ := newProduksiFixture(t)
	if _, err := svc.CompleteStep(context.Background(), "step_misterius", "Ayu", nil); !errors.Is(err, ErrUnknownStep) {
		t.Errorf("err = %v, want ErrUnknownStep", err)
	}
}

func TestCompleteStepTwiceSameDay(t *testing.T) {
	svc, _ := newProduksiFixture(t)

	if _, err := svc.CompleteStep(context.Background(), "sanitasi_dapur", "Ayu", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CompleteStep(context.Background(), "sanitasi_dapur", "Wayan", nil); !errors.Is(err, ErrStepSelesai) {
		t.Errorf("err = %v, want ErrStepSelesai", err)
	}
}

func TestCompleteStepPhotoRequired(t *testing.T) {
	svc, repo := newProduksiFixture(t)

	if _, err := svc.CompleteStep(context.Background(), "masak", "Ayu", nil); !errors.Is(err, ErrFotoRequired) {
		t.Fatalf("err = %v, want ErrFotoRequired", err)
	}
	if len(repo.Produksi.All()) != 0 {
		t.Error("rejected completion must not persist")
	}

	rec, err := svc.CompleteStep(context.Background(), "masak", "Ayu", testPNG(t))
	if err != nil {
		t.Fatalf("CompleteStep with photo: %v", err)
	}
	if !strings.HasPrefix(rec.Foto, "data:image/jpeg;base64,") {
		t.Error("photo step should embed the watermarked JPEG")
	}
	if rec.FotoFile == "" {
		t.Error("photo step should carry a generated filename")
	}
}

func TestCompleteStepBadPhotoAborts(t *testing.T) {
	svc, repo := newProduksiFixture(t)

	if _, err := svc.CompleteStep(context.Background(), "qc_bahan", "Ayu", strings.NewReader("rusak")); !errors.Is(err, foto.ErrImageDecode) {
		t.Fatalf("err = %v, want ErrImageDecode", err)
	}
	if len(repo.Produksi.All()) != 0 {
		t.Error("failed capture must not persist a record")
	}
}

func TestChecklistMergesCompletion(t *testing.T) {
	svc, _ := newProduksiFixture(t)

	rec, err := svc.CompleteStep(context.Background(), "test_food", "Ayu", nil)
	if err != nil {
		t.Fatal(err)
	}

	items := svc.Checklist(rec.Tanggal)
	if len(items) != len(model.ProduksiChecklist) {
		t.Fatalf("checklist length = %d, want %d", len(items), len(model.ProduksiChecklist))
	}
	var found bool
	for _, item := range items {
		if item.ID == "test_food" {
			found = true
			if !item.Done || item.Record == nil {
				t.Errorf("test_food should be done: %+v", item)
			}
		} else if item.Done {
			t.Errorf("step %s should not be done", item.ID)
		}
	}
	if !found {
		t.Error("test_food missing from checklist")
	}
}
