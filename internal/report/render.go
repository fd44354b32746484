// Package report renders the step log and screenshot gallery into
// human-readable bug report artifacts: plain text, Markdown, RTF and a
// paginated HTML document with embedded images.
package report

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/webtrail/webtrail-cli/internal/model"
)

// Format selects the output artifact type.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatRTF      Format = "rtf"
	FormatHTML     Format = "html"
)

// Artifact is one rendered report.
type Artifact struct {
	Format   Format `yaml:"format" json:"format"`
	Filename string `yaml:"filename" json:"filename"`
	Data     []byte `yaml:"data" json:"data"`
}

// Options tune rendering.
type Options struct {
	Title     string
	ShotsOnly bool // screenshot-only document: gallery without the step list
	MaxImageW int  // bounding box for embedded images; 0 means 600
	MaxImageH int  // 0 means 450
}

// Render produces the report in the requested format. Steps are sorted by
// timestamp first; storage order is never trusted.
func Render(steps []model.Step, shots []model.Screenshot, format Format, opts Options) (Artifact, error) {
	if opts.Title == "" {
		opts.Title = "Bug report"
	}
	if opts.MaxImageW <= 0 {
		opts.MaxImageW = 600
	}
	if opts.MaxImageH <= 0 {
		opts.MaxImageH = 450
	}

	sorted := make([]model.Step, len(steps))
	copy(sorted, steps)
	model.SortByTime(sorted)

	doc := buildDocument(sorted, shots, opts)

	switch format {
	case FormatText:
		return Artifact{Format: format, Filename: "bug-report.txt", Data: renderText(doc)}, nil
	case FormatMarkdown:
		return Artifact{Format: format, Filename: "bug-report.md", Data: renderMarkdown(doc)}, nil
	case FormatRTF:
		return Artifact{Format: format, Filename: "bug-report.rtf", Data: renderRTF(doc, opts)}, nil
	case FormatHTML:
		return renderHTML(doc, opts)
	default:
		return Artifact{}, fmt.Errorf("unsupported report format: %s", format)
	}
}

// document is the format-independent intermediate representation.
type document struct {
	Title       string
	GeneratedAt time.Time
	Sentences   []string
	// AttachedShots maps a 1-based sentence ordinal to its screenshots.
	AttachedShots map[int][]model.Screenshot
	// LooseShots are unassociated, in chronological order.
	LooseShots []model.Screenshot
	ShotsOnly  bool
}

func buildDocument(steps []model.Step, shots []model.Screenshot, opts Options) document {
	doc := document{
		Title:         opts.Title,
		GeneratedAt:   time.Now(),
		AttachedShots: make(map[int][]model.Screenshot),
		ShotsOnly:     opts.ShotsOnly,
	}
	if !opts.ShotsOnly {
		doc.Sentences = Sentences(steps)
	}

	for _, shot := range shots {
		if n, ok := stepOrdinal(shot.Description); ok && n >= 1 && n <= len(doc.Sentences) {
			doc.AttachedShots[n] = append(doc.AttachedShots[n], shot)
			continue
		}
		doc.LooseShots = append(doc.LooseShots, shot)
	}
	return doc
}

var stepRefPattern = regexp.MustCompile(`(?i)\bstep\s+(\d+)\b`)

// stepOrdinal extracts an explicit "step N" reference from a screenshot
// description.
func stepOrdinal(text string) (int, bool) {
	m := stepRefPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
