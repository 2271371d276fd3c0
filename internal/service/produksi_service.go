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

var (
	ErrUnknownStep  = errors.New("step checklist tidak dikenal")
	ErrStepSelesai  = errors.New("step sudah selesai hari ini")
	ErrFotoRequired = errors.New("step ini membutuhkan foto")
)

// ProduksiService drives the daily checklist: completing a step creates a
// produksi record, with a watermarked photo for steps that require one.
type ProduksiService struct {
	repo     *repository.Repository
	pipeline *foto.Pipeline
	logger   *zap.Logger
	now      func() time.Time
}

func NewProduksiService(repo *repository.Repository, pipeline *foto.Pipeline, logger *zap.Logger) *ProduksiService {
	return &ProduksiService{repo: repo, pipeline: pipeline, logger: logger, now: time.Now}
}

// Checklist returns today's checklist with completion state merged in.
type ChecklistItem struct {
	model.ChecklistStep
	Done   bool            `json:"done"`
	Record *model.Produksi `json:"record,omitempty"`
}

func (s *ProduksiService) Checklist(date string) []ChecklistItem {
	records := s.repo.Produksi.ByDate(date)
	items := make([]ChecklistItem, 0, len(model.ProduksiChecklist))
	for _, step := range model.ProduksiChecklist {
		item := ChecklistItem{ChecklistStep: step}
		for i := range records {
			if records[i].Step == step.ID {
				item.Done = true
				item.Record = &records[i]
				break
			}
		}
		items = append(items, item)
	}
	return items
}

// CompleteStep marks a checklist step done for today. Steps flagged
// needPhoto must come with a photo; it runs through the watermark pipeline
// and a capture failure aborts the completion so the operator can retry.
func (s *ProduksiService) CompleteStep(ctx context.Context, stepID, operator string, photo io.Reader) (*model.Produksi, error) {
	step, ok := model.ChecklistStepByID(stepID)
	if !ok {
		return nil, ErrUnknownStep
	}

	today := s.now().Format("2006-01-02")
	for _, r := range s.repo.Produksi.ByDate(today) {
		if r.Step == stepID {
			return nil, ErrStepSelesai
		}
	}

	rec := &model.Produksi{
		Base:  model.Base{Tanggal: today},
		Step:  step.ID,
		Label: step.Label,
		Waktu: s.now().Format("15:04"),
		User:  operator,
	}

	if step.NeedPhoto {
		if photo == nil {
			return nil, ErrFotoRequired
		}
		data, err := s.pipeline.Capture(ctx, photo, operator)
		if err != nil {
			return nil, err
		}
		rec.Foto = "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data)
		rec.FotoFile = foto.Filename("SPPG_MBG", "Produksi_"+step.Label, operator, s.now())
	}

	return s.repo.Produksi.Add(rec), nil
}
