package types

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "plain date",
			value: "2024-05-10",
			want:  time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "RFC3339 timestamp",
			value: "2024-05-10T14:30:00Z",
			want:  time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC),
		},
		{
			name:  "RFC3339 with offset is normalized to UTC",
			value: "2024-05-10T14:30:00+02:00",
			want:  time.Date(2024, 5, 10, 12, 30, 0, 0, time.UTC),
		},
		{
			name:    "empty string",
			value:   "",
			wantErr: true,
		},
		{
			name:    "wrong format",
			value:   "10/05/2024",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDate(%q) expected error, got %v", tt.value, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.value, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestEndOfPreviousDay(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "midday",
			in:   time.Date(2024, 5, 10, 14, 30, 45, 0, time.UTC),
			want: time.Date(2024, 5, 9, 23, 59, 59, 0, time.UTC),
		},
		{
			name: "exactly midnight",
			in:   time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
			want: time.Date(2024, 5, 9, 23, 59, 59, 0, time.UTC),
		},
		{
			name: "first day of month rolls back",
			in:   time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
			want: time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC),
		},
		{
			name: "first day of year rolls back",
			in:   time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
			want: time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC),
		},
		{
			name: "non UTC input is converted first",
			in:   time.Date(2024, 5, 10, 1, 0, 0, 0, time.FixedZone("CEST", 2*3600)),
			want: time.Date(2024, 5, 8, 23, 59, 59, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EndOfPreviousDay(tt.in)
			if !got.Equal(tt.want) {
				t.Errorf("EndOfPreviousDay(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
