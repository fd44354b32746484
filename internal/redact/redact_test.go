package redact

import (
	"strings"
	"testing"
)

func TestRedact_SensitiveFields(t *testing.T) {
	r := New(nil, 0)
	cases := []struct {
		field string
		value string
	}{
		{"password", "hunter2"},
		{"user-password", "hunter2"},
		{"PASSWORD_CONFIRM", "hunter2"},
		{"pwd", "abc"},
		{"api_token", "tok-123"},
		{"secret-question", "blue"},
		{"ssn", "123-45-6789"},
		{"credit-card", "4111111111111111"},
		{"cardNumber", "4111111111111111"},
		{"cvv", "123"},
		{"session_key", "deadbeef"},
	}
	for _, tc := range cases {
		got := r.Redact(tc.field, tc.value)
		if got != Marker {
			t.Errorf("Redact(%q, %q) = %q, want %q", tc.field, tc.value, got, Marker)
		}
	}
}

func TestRedact_PlainFields(t *testing.T) {
	r := New(nil, 0)
	cases := []struct {
		field string
		value string
		want  string
	}{
		{"username", "alice", "alice"},
		{"email", "  alice@example.com  ", "alice@example.com"},
		{"search", "", ""},
		{"comment", "hello world", "hello world"},
	}
	for _, tc := range cases {
		if got := r.Redact(tc.field, tc.value); got != tc.want {
			t.Errorf("Redact(%q, %q) = %q, want %q", tc.field, tc.value, got, tc.want)
		}
	}
}

func TestRedact_Truncation(t *testing.T) {
	r := New(nil, 10)
	got := r.Redact("comment", "0123456789ABCDEF")
	if got != "0123456789…" {
		t.Errorf("got %q, want 10 runes plus ellipsis", got)
	}

	// Exactly at the cap: no ellipsis.
	if got := r.Redact("comment", "0123456789"); got != "0123456789" {
		t.Errorf("value at cap should be unchanged, got %q", got)
	}
}

func TestTruncate_MultibyteRunes(t *testing.T) {
	if got := Truncate("héllo wörld", 5); got != "héllo…" {
		t.Errorf("got %q, want rune-aware truncation", got)
	}
}

func TestRedact_Deterministic(t *testing.T) {
	r := New(nil, 0)
	a := r.Redact("username", "alice")
	b := r.Redact("username", "alice")
	if a != b {
		t.Errorf("redact not deterministic: %q vs %q", a, b)
	}
}

func TestKeywordPolicy_CustomKeywords(t *testing.T) {
	r := New(NewKeywordPolicy([]string{"pin"}), 0)
	if got := r.Redact("card-pin", "1234"); got != Marker {
		t.Errorf("custom keyword not applied: %q", got)
	}
	// Default keywords are not active under a custom policy.
	if got := r.Redact("password", "x"); got == Marker {
		t.Error("custom policy should not inherit default keywords")
	}
}

func TestRedact_NoRawValueLeaks(t *testing.T) {
	// A sensitive value must never appear in any output, even as a
	// substring of a truncated result.
	r := New(nil, 0)
	value := strings.Repeat("supersecretvalue", 20)
	got := r.Redact("password_field", value)
	if strings.Contains(got, "supersecretvalue") {
		t.Errorf("raw value leaked into output: %q", got)
	}
}
