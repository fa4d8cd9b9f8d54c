package utils

import "testing"

func TestHTTPHelper_IsValidURL(t *testing.T) {
	h := NewHTTPHelper()

	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.techpowerup.com", true},
		{"http://localhost:8080/gpu-specs/", true},
		{"ftp://example.com", false},
		{"www.techpowerup.com", false},
		{"", false},
		{"https://", false},
	}

	for _, tt := range tests {
		if got := h.IsValidURL(tt.url); got != tt.want {
			t.Errorf("IsValidURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestHTTPHelper_BuildHeaders(t *testing.T) {
	h := NewHTTPHelper()

	headers := h.BuildHeaders(map[string]string{
		"X-Algolia-Application-Id": "APP",
		"Accept":                   "application/json",
	})

	if got := headers.Get("User-Agent"); got != UserAgent {
		t.Errorf("User-Agent = %q, want %q", got, UserAgent)
	}

	if got := headers.Get("Accept"); got != "application/json" {
		t.Errorf("Accept = %q, want custom value", got)
	}

	if got := headers.Get("X-Algolia-Application-Id"); got != "APP" {
		t.Errorf("X-Algolia-Application-Id = %q", got)
	}
}

func TestStringHelper(t *testing.T) {
	s := NewStringHelper()

	if got := s.NormalizeWhitespace("  GeForce \n RTX\t4090  "); got != "GeForce RTX 4090" {
		t.Errorf("NormalizeWhitespace = %q", got)
	}

	if got := s.TruncateString("short", 10); got != "short" {
		t.Errorf("TruncateString short = %q", got)
	}

	if got := s.TruncateString("abcdefghij", 4); got != "abcd..." {
		t.Errorf("TruncateString = %q", got)
	}

	if got := s.TruncateString("héllo wörld", 5); got != "héllo..." {
		t.Errorf("TruncateString runes = %q", got)
	}
}
