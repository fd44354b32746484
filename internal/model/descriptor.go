package model

import "strings"

// InjectedAttr marks elements injected by the recorder itself (indicator,
// toasts). Events on flagged elements are never captured.
const InjectedAttr = "data-webtrail"

// NodeInfo is a lightweight description of one DOM element in an ancestor
// chain, ordered target-first. No live DOM references cross the capture
// boundary; this is all the normalizer ever sees of an element.
type NodeInfo struct {
	Tag      string   `json:"tag"`
	ID       string   `json:"id,omitempty"`
	Classes  []string `json:"classes,omitempty"`
	Injected bool     `json:"injected,omitempty"`
}

// CSSPath builds a stable structural locator from a target-first ancestor
// chain. An element id short-circuits the walk ("#id" is assumed unique);
// otherwise tag.class segments are joined root-to-target. Recorder-injected
// elements yield an empty path so their events can be discarded.
func CSSPath(chain []NodeInfo) string {
	if len(chain) == 0 {
		return ""
	}
	if chain[0].Injected {
		return ""
	}

	var segments []string
	for _, node := range chain {
		if node.Injected {
			continue
		}
		if node.ID != "" {
			segments = append(segments, "#"+node.ID)
			break
		}
		tag := strings.ToLower(node.Tag)
		if tag == "" || tag == "html" || tag == "#document" {
			break
		}
		segments = append(segments, segment(tag, node.Classes))
	}

	// chain is target-first; the path reads root-to-target.
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return strings.Join(segments, " > ")
}

func segment(tag string, classes []string) string {
	if len(classes) == 0 {
		return tag
	}
	return tag + "." + strings.Join(classes, ".")
}
