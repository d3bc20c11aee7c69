// Package id generates the prefixed identifiers used across the
// store, e.g. "shelf-V1StGXR8_Z5jdHi6B-myT". The prefix makes a bare
// ID self-describing in logs and API payloads.
package id

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// randLen is the length of the random part, the gonanoid default.
const randLen = 21

// Generate returns prefix + "-" + a fresh 21-character NanoID. The
// prefix must be non-empty and must not itself contain a dash, so the
// first dash in an ID always separates prefix from random part.
func Generate(prefix string) (string, error) {
	if prefix == "" || strings.Contains(prefix, "-") {
		return "", fmt.Errorf("invalid id prefix %q", prefix)
	}
	suffix, err := gonanoid.New(randLen)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + suffix, nil
}

// Prefix returns the prefix of an ID produced by Generate, or "" when
// the value has no dash.
func Prefix(id string) string {
	p, _, ok := strings.Cut(id, "-")
	if !ok {
		return ""
	}
	return p
}
