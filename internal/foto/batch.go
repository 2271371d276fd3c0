package foto

import (
	"context"
	"io"
	"strconv"

	"go.uber.org/zap"
)

// File is one input of a batch capture.
type File struct {
	Name string
	R    io.Reader
}

// BatchResult is one successfully processed photo of a batch.
type BatchResult struct {
	Original string `json:"original"`
	Index    int    `json:"index"`
	Filename string `json:"filename"`
	Data     []byte `json:"-"`
}

// ProgressFunc reports incremental batch progress (1-based index).
type ProgressFunc func(current, total int, name string)

// CaptureBatch processes a batch sequentially. A failing photo is logged
// and excluded from the result set; it never aborts the rest of the batch.
func (p *Pipeline) CaptureBatch(ctx context.Context, files []File, operator, tag string, progress ProgressFunc) []BatchResult {
	total := len(files)
	results := make([]BatchResult, 0, total)
	for i, f := range files {
		if progress != nil {
			progress(i+1, total, f.Name)
		}
		data, err := p.Capture(ctx, f.R, operator)
		if err != nil {
			p.logger.Warn("foto gagal diproses, dilewati",
				zap.String("file", f.Name), zap.Error(err))
			continue
		}
		results = append(results, BatchResult{
			Original: f.Name,
			Index:    i + 1,
			Filename: Filename("SPPG_MBG", tagIndexed(tag, i+1), operator, p.now()),
			Data:     data,
		})
	}
	return results
}

func tagIndexed(tag string, i int) string {
	if tag == "" {
		tag = "Foto"
	}
	return tag + "_" + strconv.Itoa(i)
}
