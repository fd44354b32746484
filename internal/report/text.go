package report

import (
	"bytes"
	"fmt"
)

func renderText(doc document) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%s\n", doc.Title)
	fmt.Fprintf(&b, "Generated: %s\n\n", doc.GeneratedAt.Format("2006-01-02 15:04:05"))

	if !doc.ShotsOnly {
		b.WriteString("Steps to reproduce:\n")
		for i, sentence := range doc.Sentences {
			fmt.Fprintf(&b, "%d. %s\n", i+1, sentence)
			for _, shot := range doc.AttachedShots[i+1] {
				fmt.Fprintf(&b, "   [screenshot %s: %s]\n", shot.ID, shot.Description)
			}
		}
		b.WriteString("\n")
	}

	if len(doc.LooseShots) > 0 {
		b.WriteString("Attachments:\n")
		for _, shot := range doc.LooseShots {
			fmt.Fprintf(&b, "- screenshot %s (%s) captured %s\n",
				shot.ID, shot.Kind, shot.CapturedAt.Format("15:04:05"))
		}
	}
	return b.Bytes()
}

func renderMarkdown(doc document) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "# %s\n\n", doc.Title)
	fmt.Fprintf(&b, "_Generated: %s_\n\n", doc.GeneratedAt.Format("2006-01-02 15:04:05"))

	if !doc.ShotsOnly {
		b.WriteString("## Steps to reproduce\n\n")
		for i, sentence := range doc.Sentences {
			fmt.Fprintf(&b, "%d. %s\n", i+1, sentence)
		}
		b.WriteString("\n")
	}

	if len(doc.LooseShots) > 0 || attachedCount(doc) > 0 {
		b.WriteString("## Screenshots\n\n")
		for ordinal := 1; ordinal <= len(doc.Sentences); ordinal++ {
			for _, shot := range doc.AttachedShots[ordinal] {
				fmt.Fprintf(&b, "- step %d: %s (%s)\n", ordinal, shot.ID, shot.Description)
			}
		}
		for _, shot := range doc.LooseShots {
			fmt.Fprintf(&b, "- %s (%s)\n", shot.ID, shot.Kind)
		}
	}
	return b.Bytes()
}

func attachedCount(doc document) int {
	n := 0
	for _, shots := range doc.AttachedShots {
		n += len(shots)
	}
	return n
}
