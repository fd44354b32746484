package model

import "time"

// ScreenshotKind tells how a screenshot was captured.
type ScreenshotKind string

const (
	ShotFullPage   ScreenshotKind = "fullpage"
	ShotCustomArea ScreenshotKind = "custom-area"
	ShotNavigation ScreenshotKind = "navigation"
)

// Area is a rectangle in page pixels.
type Area struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
	W int `yaml:"w" json:"w"`
	H int `yaml:"h" json:"h"`
}

// Empty reports whether the area has no positive extent.
func (a Area) Empty() bool {
	return a.W <= 0 || a.H <= 0
}

// Screenshot is a captured bitmap. Immutable once stored except for
// deletion; the gallery evicts oldest-first past its cap.
type Screenshot struct {
	ID          string         `yaml:"id"                    json:"id"`
	CapturedAt  time.Time      `yaml:"captured_at"           json:"captured_at"`
	Kind        ScreenshotKind `yaml:"kind"                  json:"kind"`
	Format      string         `yaml:"format"                json:"format"` // "png" or "jpeg"
	Data        []byte         `yaml:"data"                  json:"data"`
	Viewport    Area           `yaml:"viewport"              json:"viewport"`
	Crop        *Area          `yaml:"crop,omitempty"        json:"crop,omitempty"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
}
