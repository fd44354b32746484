// Package redact maps captured field values to safe display text.
// Values from sensitive fields are discarded entirely and replaced with a
// fixed marker; everything else is trimmed and length-capped. Redaction is
// pure and deterministic so it can be applied idempotently at capture time.
package redact

import (
	"strings"
	"unicode/utf8"
)

// Marker replaces any value captured from a sensitive field.
const Marker = "[REDACTED]"

// DefaultMaxLen caps the length of non-sensitive display values.
const DefaultMaxLen = 100

// Policy decides whether a field identifier (name, id or placeholder)
// denotes a sensitive field. Implementations must be side-effect-free.
type Policy interface {
	Sensitive(fieldIdentifier string) bool
}

// KeywordPolicy flags fields whose identifier contains any of a fixed
// keyword set, case-insensitively.
type KeywordPolicy struct {
	keywords []string
}

// defaultKeywords is the built-in sensitive-field set.
var defaultKeywords = []string{
	"password", "pwd", "passwd",
	"secret", "token", "key",
	"ssn",
	"credit-card", "creditcard", "credit_card",
	"card-number", "cardnumber", "card_number",
	"cvv", "cvc",
}

// NewKeywordPolicy builds a policy over the given keywords. Keywords are
// matched as case-insensitive substrings of the field identifier.
func NewKeywordPolicy(keywords []string) KeywordPolicy {
	lowered := make([]string, len(keywords))
	for i, k := range keywords {
		lowered[i] = strings.ToLower(k)
	}
	return KeywordPolicy{keywords: lowered}
}

// DefaultPolicy returns the built-in keyword policy.
func DefaultPolicy() Policy {
	return NewKeywordPolicy(defaultKeywords)
}

func (p KeywordPolicy) Sensitive(fieldIdentifier string) bool {
	id := strings.ToLower(fieldIdentifier)
	for _, k := range p.keywords {
		if strings.Contains(id, k) {
			return true
		}
	}
	return false
}

// Redactor applies a policy and a length cap.
type Redactor struct {
	policy Policy
	maxLen int
}

// New builds a redactor. A nil policy falls back to the default keyword
// set; maxLen <= 0 falls back to DefaultMaxLen.
func New(policy Policy, maxLen int) *Redactor {
	if policy == nil {
		policy = DefaultPolicy()
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}
	return &Redactor{policy: policy, maxLen: maxLen}
}

// Redact returns a safe textual representation of rawValue captured from
// the field named by fieldIdentifier. Sensitive values are replaced with
// Marker and never appear in the output, even truncated.
func (r *Redactor) Redact(fieldIdentifier, rawValue string) string {
	if r.policy.Sensitive(fieldIdentifier) {
		return Marker
	}
	return Truncate(strings.TrimSpace(rawValue), r.maxLen)
}

// Truncate caps s at max runes, appending an ellipsis when cut.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "…"
}
