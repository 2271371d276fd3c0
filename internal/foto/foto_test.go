package foto

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func encodePNG(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 64, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return &buf
}

func testOptions() Options {
	return Options{OrgName: "SPPG - JIMBARAN 5", Address: "Jimbaran, Badung, Bali"}
}

func TestCaptureProducesBoundedJPEG(t *testing.T) {
	p := New(testOptions(), nil, zap.NewNop())

	out, err := p.Capture(context.Background(), encodePNG(t, 2400, 1600), "Ayu")
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}

	decoded, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not a JPEG: %v", err)
	}
	b := decoded.Bounds()
	if b.Dx() != 1200 {
		t.Errorf("width = %d, want 1200", b.Dx())
	}
	// aspect ratio preserved
	if b.Dy() != 800 {
		t.Errorf("height = %d, want 800", b.Dy())
	}
}

func TestCaptureKeepsSmallImagesUnscaled(t *testing.T) {
	p := New(testOptions(), nil, zap.NewNop())

	out, err := p.Capture(context.Background(), encodePNG(t, 640, 480), "Ayu")
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Bounds().Dx() != 640 {
		t.Errorf("small image should not be upscaled, width = %d", decoded.Bounds().Dx())
	}
}

func TestCaptureRejectsGarbage(t *testing.T) {
	p := New(testOptions(), nil, zap.NewNop())

	if _, err := p.Capture(context.Background(), strings.NewReader("bukan gambar"), "Ayu"); !errors.Is(err, ErrImageDecode) {
		t.Errorf("err = %v, want ErrImageDecode", err)
	}
	if _, err := p.Capture(context.Background(), nil, "Ayu"); !errors.Is(err, ErrNoFile) {
		t.Errorf("nil reader err = %v, want ErrNoFile", err)
	}
	if _, err := p.Capture(context.Background(), strings.NewReader(""), "Ayu"); !errors.Is(err, ErrNoFile) {
		t.Errorf("empty reader err = %v, want ErrNoFile", err)
	}
}

type failingLocator struct{}

func (failingLocator) Current(context.Context) (*Fix, error) {
	return nil, errors.New("izin lokasi ditolak")
}

func TestCaptureSucceedsWithoutGPS(t *testing.T) {
	p := New(testOptions(), failingLocator{}, zap.NewNop())

	out, err := p.Capture(context.Background(), encodePNG(t, 800, 600), "Ayu")
	if err != nil {
		t.Fatalf("GPS failure must never fail a capture: %v", err)
	}
	if _, err := jpeg.Decode(bytes.NewReader(out)); err != nil {
		t.Fatalf("output is not a JPEG: %v", err)
	}
}

func TestWatermarkLinesIncludeGPSOnlyWithFix(t *testing.T) {
	withFix := New(testOptions(), &StaticLocator{Fix: Fix{Lat: -8.790123, Lng: 115.167890}}, zap.NewNop())
	lines := withFix.watermarkLines(context.Background(), "Ayu")
	last := lines[len(lines)-1].text
	if !strings.HasPrefix(last, "GPS: ") || !strings.Contains(last, "-8.790123") {
		t.Errorf("GPS line = %q", last)
	}

	without := New(testOptions(), nil, zap.NewNop())
	lines = without.watermarkLines(context.Background(), "Ayu")
	for _, l := range lines {
		if strings.HasPrefix(l.text, "GPS:") {
			t.Error("no locator means no GPS line")
		}
	}
	if len(lines) != 5 {
		t.Errorf("expected 5 lines without GPS, got %d", len(lines))
	}
}

func TestCachedLocatorReusesFix(t *testing.T) {
	calls := 0
	inner := locatorFunc(func(context.Context) (*Fix, error) {
		calls++
		return &Fix{Lat: 1, Lng: 2}, nil
	})
	c := &CachedLocator{Inner: inner}

	for i := 0; i < 3; i++ {
		if _, err := c.Current(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 1 {
		t.Errorf("inner locator called %d times, want 1", calls)
	}
}

type locatorFunc func(context.Context) (*Fix, error)

func (f locatorFunc) Current(ctx context.Context) (*Fix, error) { return f(ctx) }

func TestCaptureBatchSkipsFailures(t *testing.T) {
	p := New(testOptions(), nil, zap.NewNop())

	files := []File{
		{Name: "a.png", R: encodePNG(t, 300, 200)},
		{Name: "rusak.bin", R: strings.NewReader("bukan gambar")},
		{Name: "b.png", R: encodePNG(t, 300, 200)},
	}

	var progress []string
	results := p.CaptureBatch(context.Background(), files, "Ayu", "Kloter 1", func(cur, total int, name string) {
		progress = append(progress, name)
	})

	if len(results) != 2 {
		t.Fatalf("results = %d, want 2 (bad file skipped)", len(results))
	}
	if results[0].Original != "a.png" || results[1].Original != "b.png" {
		t.Errorf("results = %+v", results)
	}
	// indices are positions in the input, not the output
	if results[1].Index != 3 {
		t.Errorf("second result index = %d, want 3", results[1].Index)
	}
	// progress fires for every input, including the failing one
	if len(progress) != 3 {
		t.Errorf("progress calls = %d, want 3", len(progress))
	}
}

func TestFilename(t *testing.T) {
	ts := time.Date(2026, 1, 6, 10, 30, 0, 0, time.UTC)

	got := Filename("SPPG_MBG", "Kloter 1", "Budi Santoso", ts)
	want := "SPPG_MBG_Kloter_1_2026-01-06_10-30_Budi_Santoso.jpg"
	if got != want {
		t.Errorf("Filename = %q, want %q", got, want)
	}

	// long contexts are capped, empty operators fall back
	got = Filename("SPPG_MBG", "Distribusi SD Negeri 1 Jimbaran Selatan", "", ts)
	if !strings.HasSuffix(got, "_User.jpg") {
		t.Errorf("empty operator should fall back to User: %q", got)
	}
	if len(got) > len("SPPG_MBG_")+20+len("_2026-01-06_10-30_User.jpg") {
		t.Errorf("context not capped: %q", got)
	}
}

func TestFormatTanggalID(t *testing.T) {
	// 2026-01-06 is a Tuesday (Selasa)
	ts := time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)
	if got := formatTanggalID(ts); got != "Sel, 06 Jan 2026" {
		t.Errorf("formatTanggalID = %q", got)
	}
}
