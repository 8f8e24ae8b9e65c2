package ui

import "testing"

func TestDescribeGesture(t *testing.T) {
	tests := []struct {
		entry HistoryEntry
		want  string
	}{
		{HistoryEntry{Kind: "tap", Weight: 1}, "tap"},
		{HistoryEntry{Kind: "tap", Weight: 3}, "tap x3"},
		{HistoryEntry{Kind: "hold", Weight: 0}, "hold (w0)"},
		{HistoryEntry{Kind: "stop"}, "stop"},
	}

	for _, tt := range tests {
		if got := describeGesture(tt.entry); got != tt.want {
			t.Errorf("describeGesture(%+v) = %q, want %q", tt.entry, got, tt.want)
		}
	}
}
