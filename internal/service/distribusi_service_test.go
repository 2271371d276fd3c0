package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/foto"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/model"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/repository"
)

func testPNG(t *testing.T) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 320, 240))
	for y := 0; y < 240; y++ {
		for x := 0; x < 320; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return &buf
}

func newDistribusiFixture(t *testing.T) (*DistribusiService, *repository.Repository) {
	t.Helper()
	storage := newMockStorage()
	repo := newTestRepo(t, storage)
	pipeline := foto.New(foto.Options{OrgName: "SPPG - JIMBARAN 5", Address: "Jimbaran, Badung, Bali"}, nil, zap.NewNop())
	return NewDistribusiService(repo, pipeline, zap.NewNop()), repo
}

func TestAdvanceForwardOnly(t *testing.T) {
	svc, repo := newDistribusiFixture(t)
	rec := repo.Distribusi.Add(&model.Distribusi{Sekolah: "SD 1 Jimbaran", Kloter: 2, Status: model.StatusPending})

	moved, err := svc.Advance(rec.ID, model.StatusBerangkat)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if moved.Status != model.StatusBerangkat {
		t.Errorf("status = %q", moved.Status)
	}
	if moved.JamBerangkat == "" {
		t.Error("departure should stamp jam_berangkat")
	}

	// backwards is rejected
	if _, err := svc.Advance(rec.ID, model.StatusPending); !errors.Is(err, ErrStatusMundur) {
		t.Errorf("backwards transition err = %v, want ErrStatusMundur", err)
	}
	// repeating the same status is rejected too
	if _, err := svc.Advance(rec.ID, model.StatusBerangkat); !errors.Is(err, ErrStatusMundur) {
		t.Errorf("same-status transition err = %v, want ErrStatusMundur", err)
	}
}

func TestAdvanceCannotReachSelesai(t *testing.T) {
	svc, repo := newDistribusiFixture(t)
	rec := repo.Distribusi.Add(&model.Distribusi{Sekolah: "SD 2", Status: model.StatusBerangkat})

	if _, err := svc.Advance(rec.ID, model.StatusSelesai); !errors.Is(err, ErrStatusMundur) {
		t.Errorf("selesai without foto err = %v, want ErrStatusMundur", err)
	}
}

func TestAdvanceUnknownID(t *testing.T) {
	svc, _ := newDistribusiFixture(t)
	if _, err := svc.Advance("999", model.StatusBerangkat); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCompleteWithFoto(t *testing.T) {
	svc, repo := newDistribusiFixture(t)
	rec := repo.Distribusi.Add(&model.Distribusi{Sekolah: "SD 3 Jimbaran", Status: model.StatusBerangkat})

	done, err := svc.CompleteWithFoto(context.Background(), rec.ID, testPNG(t), "Ayu")
	if err != nil {
		t.Fatalf("CompleteWithFoto: %v", err)
	}
	if done.Status != model.StatusSelesai {
		t.Errorf("status = %q, want selesai", done.Status)
	}
	if !strings.HasPrefix(done.Foto, "data:image/jpeg;base64,") {
		t.Error("completion should embed the watermarked JPEG as a data URI")
	}
	if done.JamSampai == "" {
		t.Error("completion should stamp jam_sampai")
	}
	if !strings.HasSuffix(done.FotoFile, ".jpg") {
		t.Errorf("fotoFile = %q", done.FotoFile)
	}
}

func TestFailedCaptureLeavesRecordUnchanged(t *testing.T) {
	svc, repo := newDistribusiFixture(t)
	rec := repo.Distribusi.Add(&model.Distribusi{Sekolah: "SD 4", Status: model.StatusBerangkat})

	_, err := svc.CompleteWithFoto(context.Background(), rec.ID, strings.NewReader("bukan gambar"), "Ayu")
	if !errors.Is(err, foto.ErrImageDecode) {
		t.Fatalf("err = %v, want ErrImageDecode", err)
	}

	after, ok := repo.Distribusi.ByID(rec.ID)
	if !ok {
		t.Fatal("record vanished")
	}
	if after.Status != model.StatusBerangkat || after.Foto != "" {
		t.Errorf("failed capture must leave the record untouched, got %+v", after)
	}
}

func TestCompleteWithFotoRequiresForwardState(t *testing.T) {
	svc, repo := newDistribusiFixture(t)
	rec := repo.Distribusi.Add(&model.Distribusi{Sekolah: "SD 5", Status: model.StatusSelesai})

	if _, err := svc.CompleteWithFoto(context.Background(), rec.ID, testPNG(t), "Ayu"); !errors.Is(err, ErrStatusMundur) {
		t.Errorf("re-completing err = %v, want ErrStatusMundur", err)
	}
}

func TestKloterSummary(t *testing.T) {
	svc, repo := newDistribusiFixture(t)
	date := "2026-03-14"

	repo.Distribusi.Add(&model.Distribusi{Base: model.Base{Tanggal: date}, Sekolah: "TK A", Kloter: 1, JumlahBox: 40, Status: model.StatusSelesai})
	repo.Distribusi.Add(&model.Distribusi{Base: model.Base{Tanggal: date}, Sekolah: "TK B", Kloter: 1, JumlahBox: 35, Status: model.StatusBerangkat})
	repo.Distribusi.Add(&model.Distribusi{Base: model.Base{Tanggal: date}, Sekolah: "SD 1", Kloter: 3, JumlahBox: 120, Status: model.StatusPending})
	// different date, must not count
	repo.Distribusi.Add(&model.Distribusi{Base: model.Base{Tanggal: "2026-03-13"}, Sekolah: "TK C", Kloter: 1, JumlahBox: 10, Status: model.StatusSelesai})

	stats := svc.KloterSummary(date)
	if len(stats) != len(model.Kloters) {
		t.Fatalf("stats length = %d, want %d", len(stats), len(model.Kloters))
	}

	k1 := stats[0]
	if k1.TotalBox != 75 || k1.Selesai != 1 || k1.Berangkat != 1 || len(k1.Records) != 2 {
		t.Errorf("kloter 1 = %+v", k1)
	}
	k2 := stats[1]
	if k2.TotalBox != 0 || len(k2.Records) != 0 {
		t.Errorf("empty kloter 2 = %+v", k2)
	}
	k3 := stats[2]
	if k3.TotalBox != 120 || k3.Selesai != 0 {
		t.Errorf("kloter 3 = %+v", k3)
	}
}
