package service

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/foto"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/model"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/repository"
)

// ErrStatusMundur rejects any status transition that does not move the
// delivery strictly forward.
var ErrStatusMundur = errors.New("status distribusi tidak boleh mundur")

// KloterStat is the per-wave rollup for the dashboard.
type KloterStat struct {
	Kloter    model.Kloter       `json:"kloter"`
	TotalBox  int                `json:"totalBox"`
	Selesai   int                `json:"selesai"`
	Berangkat int                `json:"berangkat"`
	Records   []model.Distribusi `json:"records"`
}

// DistribusiService owns the delivery state machine. The selesai transition
// is photo-gated: it happens only after the watermark pipeline succeeds.
type DistribusiService struct {
	repo     *repository.Repository
	pipeline *foto.Pipeline
	logger   *zap.Logger
	now      func() time.Time
}

func NewDistribusiService(repo *repository.Repository, pipeline *foto.Pipeline, logger *zap.Logger) *DistribusiService {
	return &DistribusiService{repo: repo, pipeline: pipeline, logger: logger, now: time.Now}
}

// Advance moves a delivery to the given status, forward only. The selesai
// status is not reachable here; use CompleteWithFoto.
func (s *DistribusiService) Advance(id, status string) (*model.Distribusi, error) {
	if status == model.StatusSelesai {
		return nil, ErrStatusMundur
	}
	rec, ok := s.repo.Distribusi.ByID(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !model.CanAdvance(rec.Status, status) {
		return nil, ErrStatusMundur
	}
	return s.repo.Distribusi.Update(id, map[string]any{
		"status":        status,
		"jam_" + status: s.now().Format("15:04"),
	})
}

// CompleteWithFoto runs the arrival photo through the watermark pipeline
// and, only on success, advances the delivery to selesai. A failed capture
// leaves the record exactly as it was so the driver can retry.
func (s *DistribusiService) CompleteWithFoto(ctx context.Context, id string, photo io.Reader, operator string) (*model.Distribusi, error) {
	rec, ok := s.repo.Distribusi.ByID(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !model.CanAdvance(rec.Status, model.StatusSelesai) {
		return nil, ErrStatusMundur
	}

	data, err := s.pipeline.Capture(ctx, photo, operator)
	if err != nil {
		s.logger.Warn("foto kedatangan gagal, status tidak berubah",
			zap.String("id", id), zap.Error(err))
		return nil, err
	}

	sekolah := rec.Sekolah
	if sekolah == "" {
		sekolah = "Sekolah"
	}
	return s.repo.Distribusi.Update(id, map[string]any{
		"status":     model.StatusSelesai,
		"jam_sampai": s.now().Format("15:04"),
		"foto":       "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data),
		"fotoFile":   foto.Filename("SPPG_MBG", "Distribusi_"+sekolah, operator, s.now()),
	})
}

// KloterSummary rolls today's deliveries up per wave.
func (s *DistribusiService) KloterSummary(date string) []KloterStat {
	records := s.repo.Distribusi.ByDate(date)
	stats := make([]KloterStat, 0, len(model.Kloters))
	for _, k := range model.Kloters {
		stat := KloterStat{Kloter: k, Records: []model.Distribusi{}}
		for _, r := range records {
			if r.Kloter != k.ID {
				continue
			}
			stat.Records = append(stat.Records, r)
			stat.TotalBox += r.JumlahBox
			switch r.Status {
			case model.StatusSelesai:
				stat.Selesai++
			case model.StatusBerangkat:
				stat.Berangkat++
			}
		}
		stats = append(stats, stat)
	}
	return stats
}
