package services

import (
	"testing"
	"time"
)

func TestBatchCodePrefix(t *testing.T) {
	day := time.Date(2025, time.March, 9, 14, 30, 0, 0, time.UTC)
	got := BatchCodePrefix(day, "KHK")
	want := "DOK-20250309-KHK-"
	if got != want {
		t.Fatalf("BatchCodePrefix=%q, want %q", got, want)
	}
}

func TestFormatBatchCode(t *testing.T) {
	prefix := "DOK-20250309-KHK-"
	cases := []struct {
		seq  int64
		want string
	}{
		{seq: 1, want: "DOK-20250309-KHK-001"},
		{seq: 42, want: "DOK-20250309-KHK-042"},
		{seq: 999, want: "DOK-20250309-KHK-999"},
		{seq: 1000, want: "DOK-20250309-KHK-1000"},
	}
	for _, tc := range cases {
		got := FormatBatchCode(prefix, tc.seq)
		if got != tc.want {
			t.Fatalf("FormatBatchCode(%d)=%q, want %q", tc.seq, got, tc.want)
		}
	}
}
