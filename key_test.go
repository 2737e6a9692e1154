package tonic

import (
	"errors"
	"testing"
)

func TestParseKeyAcceptsValidPaths(t *testing.T) {
	cases := []struct {
		text      string
		namespace string
		param     string
	}{
		{"train.lr", "train", "lr"},
		{"fizz.buzz.bar", "fizz.buzz", "bar"},
		{"*.seed", "*", "seed"},
		{"a_1.b_2", "a_1", "b_2"},
	}
	for _, tc := range cases {
		key, err := ParseKey(tc.text)
		if err != nil {
			t.Fatalf("ParseKey(%q) returned error: %v", tc.text, err)
		}
		if key.Namespace != tc.namespace || key.Param != tc.param {
			t.Fatalf("ParseKey(%q) = %+v, want namespace %q param %q", tc.text, key, tc.namespace, tc.param)
		}
		if key.String() != tc.text {
			t.Fatalf("Key.String() = %q, want %q", key.String(), tc.text)
		}
	}
}

func TestParseKeyRejectsMalformedPaths(t *testing.T) {
	cases := []string{
		"",
		"train",
		".lr",
		"train.",
		"train..lr",
		"train.*",
		"a.*.b",
		"tr ain.lr",
		"train.lr-x",
		"*",
	}
	for _, text := range cases {
		if _, err := ParseKey(text); !errors.Is(err, ErrMalformedKey) {
			t.Fatalf("ParseKey(%q) = %v, want ErrMalformedKey", text, err)
		}
	}
}

func TestParseOverrideMarkers(t *testing.T) {
	key, entry, err := parseOverride("@print_count.count", "counter")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Kind != KindInstanced {
		t.Fatalf("kind = %v, want instanced", entry.Kind)
	}
	if key.Namespace != "print_count" || key.Param != "count" {
		t.Fatalf("unexpected key: %+v", key)
	}
	if got := formatOverride(key, entry.Kind); got != "@print_count.count" {
		t.Fatalf("formatOverride = %q, want round-trip", got)
	}

	key, entry, err = parseOverride("$job.workers", "base * 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Kind != KindComputed {
		t.Fatalf("kind = %v, want computed", entry.Kind)
	}
	if got := formatOverride(key, entry.Kind); got != "$job.workers" {
		t.Fatalf("formatOverride = %q, want round-trip", got)
	}

	_, entry, err = parseOverride("train.lr", 0.005)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Kind != KindLiteral || entry.Value != 0.005 {
		t.Fatalf("unexpected literal entry: %+v", entry)
	}
}

func TestParseOverrideRejectsBadMarkedValues(t *testing.T) {
	if _, _, err := parseOverride("@a.b", 42); !errors.Is(err, ErrMalformedKey) {
		t.Fatalf("instanced with non-string value: %v, want ErrMalformedKey", err)
	}
	if _, _, err := parseOverride("@a.b", "not a namespace!"); !errors.Is(err, ErrMalformedKey) {
		t.Fatalf("instanced with invalid target: %v, want ErrMalformedKey", err)
	}
	if _, _, err := parseOverride("$a.b", ""); !errors.Is(err, ErrMalformedKey) {
		t.Fatalf("computed with empty expression: %v, want ErrMalformedKey", err)
	}
	if _, _, err := parseOverride("$a.b", 7); !errors.Is(err, ErrMalformedKey) {
		t.Fatalf("computed with non-string value: %v, want ErrMalformedKey", err)
	}
}
