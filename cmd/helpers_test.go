package cmd

import (
	"testing"

	"github.com/webtrail/webtrail-cli/internal/model"
)

func TestParseArea(t *testing.T) {
	tests := []struct {
		in      string
		want    model.Area
		wantErr bool
	}{
		{"10,20,300,400", model.Area{X: 10, Y: 20, W: 300, H: 400}, false},
		{" 0, 0, 50, 50 ", model.Area{W: 50, H: 50}, false},
		{"10,20,300", model.Area{}, true},
		{"10,20,300,400,500", model.Area{}, true},
		{"a,b,c,d", model.Area{}, true},
		{"", model.Area{}, true},
	}

	for _, tt := range tests {
		got, err := parseArea(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseArea(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseArea(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestStringParam(t *testing.T) {
	params := map[string]interface{}{"name": "alice", "count": 5}
	if got := stringParam(params, "name", ""); got != "alice" {
		t.Errorf("stringParam = %q", got)
	}
	if got := stringParam(params, "count", ""); got != "5" {
		t.Errorf("stringParam coerced = %q", got)
	}
	if got := stringParam(params, "missing", "fallback"); got != "fallback" {
		t.Errorf("stringParam default = %q", got)
	}
}

func TestIntParam(t *testing.T) {
	params := map[string]interface{}{"a": 3, "b": 4.0, "c": "nope"}
	if got := intParam(params, "a", 0); got != 3 {
		t.Errorf("int value = %d", got)
	}
	if got := intParam(params, "b", 0); got != 4 {
		t.Errorf("float64 value = %d", got)
	}
	if got := intParam(params, "c", 7); got != 7 {
		t.Errorf("unparseable value = %d, want default", got)
	}
	if got := intParam(params, "missing", 9); got != 9 {
		t.Errorf("missing key = %d, want default", got)
	}
}

func TestBoolParam(t *testing.T) {
	params := map[string]interface{}{"on": true, "s": "true"}
	if !boolParam(params, "on", false) {
		t.Error("bool value lost")
	}
	if boolParam(params, "s", false) {
		t.Error("string should not coerce to bool")
	}
	if !boolParam(params, "missing", true) {
		t.Error("missing key should return default")
	}
}
