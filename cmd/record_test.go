package cmd

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/webtrail/webtrail-cli/internal/config"
	"github.com/webtrail/webtrail-cli/internal/model"
	"github.com/webtrail/webtrail-cli/internal/store"
)

type stubShooter struct {
	data []byte
	area model.Area
	err  error
}

func (s stubShooter) CaptureViewport(ctx context.Context) ([]byte, model.Area, error) {
	return s.data, s.area, s.err
}

func viewportPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 16), uint8(y * 20), 128, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestCaptureNavigationShot(t *testing.T) {
	limits = config.Default()
	st, err := store.Open(t.TempDir(), limits)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	shooter := stubShooter{data: viewportPNG(t), area: model.Area{W: 16, H: 12}}
	if err := captureNavigationShot(context.Background(), st, shooter, "https://example.com/cart"); err != nil {
		t.Fatalf("captureNavigationShot: %v", err)
	}

	shots, err := st.Screenshots()
	if err != nil {
		t.Fatalf("Screenshots: %v", err)
	}
	if len(shots) != 1 {
		t.Fatalf("gallery holds %d shots, want 1", len(shots))
	}
	shot := shots[0]
	if shot.Kind != model.ShotNavigation {
		t.Errorf("kind = %q, want %q", shot.Kind, model.ShotNavigation)
	}
	if !strings.Contains(shot.Description, "https://example.com/cart") {
		t.Errorf("description = %q", shot.Description)
	}
	if shot.ID == "" || len(shot.Data) == 0 {
		t.Errorf("incomplete shot: %+v", shot)
	}
}

func TestCaptureNavigationShotPropagatesError(t *testing.T) {
	limits = config.Default()
	st, err := store.Open(t.TempDir(), limits)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	shooter := stubShooter{err: errors.New("target crashed")}
	if err := captureNavigationShot(context.Background(), st, shooter, "https://example.com"); err == nil {
		t.Fatal("expected capture error to propagate")
	}
	shots, err := st.Screenshots()
	if err != nil {
		t.Fatalf("Screenshots: %v", err)
	}
	if len(shots) != 0 {
		t.Errorf("failed capture stored %d shots", len(shots))
	}
}
