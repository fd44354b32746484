package report

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"image"
	"strings"

	"github.com/webtrail/webtrail-cli/internal/imaging"
	"github.com/webtrail/webtrail-cli/internal/model"
)

// twipsPerPixel converts image pixels to RTF goal sizes at 96 DPI.
const twipsPerPixel = 15

func renderRTF(doc document, opts Options) []byte {
	var b bytes.Buffer
	b.WriteString(`{\rtf1\ansi\deff0{\fonttbl{\f0 Helvetica;}}\f0\fs22` + "\n")

	fmt.Fprintf(&b, `{\b\fs32 %s}\par\par`+"\n", rtfEscape(doc.Title))
	fmt.Fprintf(&b, `Generated: %s\par\par`+"\n", doc.GeneratedAt.Format("2006-01-02 15:04:05"))

	if !doc.ShotsOnly {
		b.WriteString(`{\b Steps to reproduce}\par` + "\n")
		for i, sentence := range doc.Sentences {
			fmt.Fprintf(&b, `%d. %s\par`+"\n", i+1, rtfEscape(sentence))
			for _, shot := range doc.AttachedShots[i+1] {
				writeRTFImage(&b, shot, opts)
			}
		}
		b.WriteString(`\par` + "\n")
	}

	if len(doc.LooseShots) > 0 {
		b.WriteString(`{\b Screenshots}\par` + "\n")
		for _, shot := range doc.LooseShots {
			writeRTFImage(&b, shot, opts)
		}
	}

	b.WriteString("}")
	return b.Bytes()
}

// writeRTFImage embeds one screenshot as a pict group, sized to the
// bounding box with aspect ratio preserved. Undecodable images degrade to
// a textual placeholder; embedding is never allowed to fail the render.
func writeRTFImage(b *bytes.Buffer, shot model.Screenshot, opts Options) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(shot.Data))
	if err != nil {
		fmt.Fprintf(b, `[screenshot %s unavailable]\par`+"\n", rtfEscape(shot.ID))
		return
	}

	var blip string
	switch format {
	case "png":
		blip = `\pngblip`
	case "jpeg":
		blip = `\jpegblip`
	default:
		fmt.Fprintf(b, `[screenshot %s: unsupported format %s]\par`+"\n", rtfEscape(shot.ID), format)
		return
	}

	w, h := imaging.FitBox(cfg.Width, cfg.Height, opts.MaxImageW, opts.MaxImageH)
	fmt.Fprintf(b, `{\pict%s\picw%d\pich%d\picwgoal%d\pichgoal%d `,
		blip, cfg.Width, cfg.Height, w*twipsPerPixel, h*twipsPerPixel)
	b.WriteString(hex.EncodeToString(shot.Data))
	b.WriteString(`}\par` + "\n")
}

var rtfEscaper = strings.NewReplacer(`\`, `\\`, `{`, `\{`, `}`, `\}`)

func rtfEscape(s string) string {
	escaped := rtfEscaper.Replace(s)
	var b strings.Builder
	for _, r := range escaped {
		if r < 128 {
			b.WriteRune(r)
		} else {
			fmt.Fprintf(&b, `\u%d?`, int16(r))
		}
	}
	return b.String()
}
