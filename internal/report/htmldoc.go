package report

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"image"

	"github.com/webtrail/webtrail-cli/internal/imaging"
	"github.com/webtrail/webtrail-cli/internal/model"
)

// htmlTmpl lays the report out as printable pages: the step list first,
// then one page per screenshot, with page-break hints for paginated
// output.
var htmlTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; margin: 2em; }
.page { page-break-after: always; }
ol li { margin-bottom: 0.4em; }
figure { margin: 1em 0; }
figcaption { color: #555; font-size: 0.9em; }
img { border: 1px solid #ccc; }
</style>
</head>
<body>
<div class="page">
<h1>{{.Title}}</h1>
<p>Generated: {{.Generated}}</p>
{{if .Sentences}}
<h2>Steps to reproduce</h2>
<ol>
{{range .Sentences}}<li>{{.}}</li>
{{end}}</ol>
{{end}}
</div>
{{range .Images}}<div class="page">
<figure>
<img src="data:image/{{.MIME}};base64,{{.B64}}" width="{{.W}}" height="{{.H}}" alt="{{.Caption}}">
<figcaption>{{.Caption}}</figcaption>
</figure>
</div>
{{end}}
</body>
</html>
`))

type htmlImage struct {
	MIME    string
	B64     string
	W, H    int
	Caption string
}

type htmlData struct {
	Title     string
	Generated string
	Sentences []string
	Images    []htmlImage
}

func renderHTML(doc document, opts Options) (Artifact, error) {
	data := htmlData{
		Title:     doc.Title,
		Generated: doc.GeneratedAt.Format("2006-01-02 15:04:05"),
	}
	if !doc.ShotsOnly {
		data.Sentences = doc.Sentences
	}

	appendShot := func(shot model.Screenshot, caption string) {
		img, ok := embedImage(shot, caption, opts)
		if !ok {
			return
		}
		data.Images = append(data.Images, img)
	}

	for i := range doc.Sentences {
		for _, shot := range doc.AttachedShots[i+1] {
			appendShot(shot, fmt.Sprintf("Step %d: %s", i+1, shot.Description))
		}
	}
	for _, shot := range doc.LooseShots {
		caption := shot.Description
		if caption == "" {
			caption = fmt.Sprintf("Screenshot %s (%s)", shot.ID, shot.Kind)
		}
		appendShot(shot, caption)
	}

	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, data); err != nil {
		return Artifact{}, fmt.Errorf("render html report: %w", err)
	}
	return Artifact{Format: FormatHTML, Filename: "bug-report.html", Data: buf.Bytes()}, nil
}

// embedImage sizes a screenshot to the bounding box from its real decoded
// dimensions, falling back to the recorded viewport when decoding fails.
func embedImage(shot model.Screenshot, caption string, opts Options) (htmlImage, bool) {
	w, h := shot.Viewport.W, shot.Viewport.H
	mime := shot.Format
	if cfg, format, err := image.DecodeConfig(bytes.NewReader(shot.Data)); err == nil {
		w, h = cfg.Width, cfg.Height
		mime = format
	}
	if w <= 0 || h <= 0 {
		return htmlImage{}, false
	}
	if mime == "" {
		mime = "png"
	}
	fw, fh := imaging.FitBox(w, h, opts.MaxImageW, opts.MaxImageH)
	return htmlImage{
		MIME:    mime,
		B64:     base64.StdEncoding.EncodeToString(shot.Data),
		W:       fw,
		H:       fh,
		Caption: caption,
	}, true
}
