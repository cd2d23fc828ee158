package main

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"scanrecon/internal/scan"
)

func TestIsYes(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{"y", true},
		{"Y\n", true},
		{" yes ", true},
		{"YES\r\n", true},
		{"n", false},
		{"", false},
		{"yep", false},
	}

	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			if got := isYes(tt.answer); got != tt.want {
				t.Errorf("isYes(%q) = %v, want %v", tt.answer, got, tt.want)
			}
		})
	}
}

func TestReadLineAnswer(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("y\nno\nyes"))
	var out bytes.Buffer

	for i, want := range []bool{true, false, true, false} {
		got, err := readLineAnswer(r, &out)
		if err != nil {
			t.Fatalf("answer %d: error = %v", i, err)
		}
		if got != want {
			t.Errorf("answer %d = %v, want %v", i, got, want)
		}
	}
}

func TestDescribeFolder(t *testing.T) {
	r := &scan.SubfolderResult{
		Name:   "scans_2021_jpg",
		Plan:   &scan.SyncPlan{ToCopy: []string{"a.jpg", "b.jpg"}, DestinationOnly: []string{"c.jpg"}},
		Result: &scan.SyncResult{Copied: 1, Failures: []scan.CopyFailure{{File: "b.jpg"}}},
	}
	want := "scans_2021_jpg: copied 1 of 2 file(s), 1 failed, 1 only at destination"
	if got := describeFolder(r); got != want {
		t.Errorf("describeFolder() = %q, want %q", got, want)
	}
}
