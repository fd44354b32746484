package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/webtrail/webtrail-cli/internal/model"
	"github.com/webtrail/webtrail-cli/internal/output"
)

// parseArea parses "x,y,w,h" into an Area.
func parseArea(s string) (model.Area, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return model.Area{}, fmt.Errorf("area must be x,y,w,h, got %q", s)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return model.Area{}, fmt.Errorf("area component %q: %w", p, err)
		}
		vals[i] = n
	}
	return model.Area{X: vals[0], Y: vals[1], W: vals[2], H: vals[3]}, nil
}

// writeFile writes data to path with default permissions.
func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// printAction emits the standard write-command result.
func printAction(action, detail string) error {
	return output.Print(output.ActionResult{OK: true, Action: action, Detail: detail})
}

// Parameter extraction helpers for MCP tool argument maps.

func stringParam(params map[string]interface{}, key, defaultVal string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
		// Handle numeric values that JSON may parse as int/float
		return fmt.Sprintf("%v", v)
	}
	return defaultVal
}

func intParam(params map[string]interface{}, key string, defaultVal int) int {
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case float64:
			return int(n)
		case int64:
			return int(n)
		}
	}
	return defaultVal
}

func boolParam(params map[string]interface{}, key string, defaultVal bool) bool {
	if v, ok := params[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return defaultVal
}
