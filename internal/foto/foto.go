// Package foto is the photo capture pipeline: decode, scale down, burn a
// provenance watermark (org, address, date, time, operator, GPS), and
// re-encode as compressed JPEG.
package foto

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	_ "image/png"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	ErrNoFile      = errors.New("tidak ada file dipilih")
	ErrImageDecode = errors.New("gagal memuat gambar")
)

// Options configures the watermark content and output size.
type Options struct {
	OrgName  string
	Address  string
	MaxWidth int // downscale bound, px
	Quality  int // JPEG quality factor
}

// Pipeline produces watermarked JPEGs. Locator may be nil; GPS is always
// best-effort and its absence never fails a capture.
type Pipeline struct {
	opts    Options
	locator Locator
	logger  *zap.Logger
	now     func() time.Time
}

func New(opts Options, locator Locator, logger *zap.Logger) *Pipeline {
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = 1200
	}
	if opts.Quality <= 0 {
		opts.Quality = 75
	}
	return &Pipeline{opts: opts, locator: locator, logger: logger, now: time.Now}
}

// Capture reads one image, resolves the device location, composites the
// watermark badge bottom-right, and returns the compressed JPEG bytes.
func (p *Pipeline) Capture(ctx context.Context, r io.Reader, operator string) ([]byte, error) {
	if r == nil {
		return nil, ErrNoFile
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	if len(data) == 0 {
		return nil, ErrNoFile
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	canvas := p.scale(src)
	p.drawBadge(canvas, p.watermarkLines(ctx, operator))

	var out bytes.Buffer
	if err := jpeg.Encode(&out, canvas, &jpeg.Options{Quality: p.opts.Quality}); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// scale bounds the working width to MaxWidth, preserving aspect ratio.
func (p *Pipeline) scale(src image.Image) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > p.opts.MaxWidth {
		scaled := p.opts.MaxWidth
		h = h * scaled / w
		w = scaled
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// watermarkLines builds the badge text. The GPS line is appended only when
// a fix is available.
func (p *Pipeline) watermarkLines(ctx context.Context, operator string) []badgeLine {
	now := p.now()
	if operator == "" {
		operator = "User"
	}
	lines := []badgeLine{
		{text: p.opts.OrgName, color: colorName},
		{text: p.opts.Address, color: colorText},
		{text: formatTanggalID(now), color: colorText},
		{text: now.Format("15:04:05") + " WIB", color: colorText},
		{text: operator, color: colorText},
	}
	if fix := p.location(ctx); fix != nil {
		lines = append(lines, badgeLine{
			text:  fmt.Sprintf("GPS: %.6f, %.6f", fix.Lat, fix.Lng),
			color: colorGPS,
		})
	}
	return lines
}

// location resolves a GPS fix with a bounded wait. Denied, unavailable, or
// slow location services all degrade to "no GPS line".
func (p *Pipeline) location(ctx context.Context) *Fix {
	if p.locator == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, locationTimeout)
	defer cancel()
	fix, err := p.locator.Current(ctx)
	if err != nil {
		p.logger.Debug("GPS tidak tersedia", zap.Error(err))
		return nil
	}
	return fix
}

type badgeLine struct {
	text  string
	color color.RGBA
}

var (
	colorName = color.RGBA{R: 0x90, G: 0xEE, B: 0x90, A: 0xFF} // light green
	colorText = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	colorGPS  = color.RGBA{R: 0x87, G: 0xCE, B: 0xEB, A: 0xFF} // light blue
)

// drawBadge composites the semi-opaque label region anchored bottom-right,
// 45% of the canvas width.
func (p *Pipeline) drawBadge(canvas *image.RGBA, lines []badgeLine) {
	const (
		padding    = 12
		lineHeight = 18
	)
	b := canvas.Bounds()
	badgeW := b.Dx() * 45 / 100
	badgeH := len(lines)*lineHeight + padding*2
	badge := image.Rect(b.Max.X-badgeW, b.Max.Y-badgeH, b.Max.X, b.Max.Y)

	draw.Draw(canvas, badge, image.NewUniform(color.RGBA{A: 128}), image.Point{}, draw.Over)

	face := basicfont.Face7x13
	y := badge.Min.Y + padding + face.Ascent
	for _, line := range lines {
		d := font.Drawer{
			Dst:  canvas,
			Src:  image.NewUniform(line.color),
			Face: face,
			Dot:  fixed.P(badge.Min.X+padding, y),
		}
		d.DrawString(line.text)
		y += lineHeight
	}
}

var (
	hariID  = []string{"Min", "Sen", "Sel", "Rab", "Kam", "Jum", "Sab"}
	bulanID = []string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}
)

// formatTanggalID renders e.g. "Sen, 05 Jan 2026".
func formatTanggalID(t time.Time) string {
	return fmt.Sprintf("%s, %02d %s %d", hariID[t.Weekday()], t.Day(), bulanID[t.Month()-1], t.Year())
}

// Filename generates the download filename for a watermarked photo,
// e.g. SPPG_MBG_Kloter_1_2026-01-06_10-30_Budi.jpg.
func Filename(prefix, context, operator string, t time.Time) string {
	if operator == "" {
		operator = "User"
	}
	op := strings.ReplaceAll(strings.TrimSpace(operator), " ", "_")
	ctx := strings.ReplaceAll(strings.TrimSpace(context), " ", "_")
	if len(ctx) > 20 {
		ctx = ctx[:20]
	}
	return fmt.Sprintf("%s_%s_%s_%s_%s.jpg",
		prefix, ctx, t.Format("2006-01-02"), t.Format("15-04"), op)
}
