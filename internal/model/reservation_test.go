package model

import "testing"

func TestClockSeconds(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"10:00", 36000, false},
		{"10:30", 37800, false},
		{"10:00:30", 36030, false},
		{"24:00", 86400, false},
		{" 09:15 ", 33300, false},
		{"24:01", 0, true},
		{"25:00", 0, true},
		{"10:60", 0, true},
		{"10", 0, true},
		{"10:00:00:00", 0, true},
		{"", 0, true},
		{"ab:cd", 0, true},
	}
	for _, tc := range cases {
		got, err := ClockSeconds(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ClockSeconds(%q) = %d, want error", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ClockSeconds(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ClockSeconds(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name         string
		aStart, aEnd string
		bStart, bEnd string
		want         bool
	}{
		{"identical", "10:00", "12:00", "10:00", "12:00", true},
		{"partial overlap", "10:00", "12:00", "11:00", "13:00", true},
		{"contained", "10:00", "12:00", "10:30", "11:30", true},
		{"containing", "10:30", "11:30", "10:00", "12:00", true},
		{"disjoint before", "08:00", "09:00", "10:00", "12:00", false},
		{"disjoint after", "13:00", "14:00", "10:00", "12:00", false},
		{"touching end to start", "08:00", "10:00", "10:00", "12:00", false},
		{"touching start to end", "12:00", "14:00", "10:00", "12:00", false},
		{"one minute overlap", "09:00", "10:01", "10:00", "12:00", true},
		{"full day vs slot", "00:00", "24:00", "10:00", "12:00", true},
		{"malformed a", "bad", "10:00", "09:00", "11:00", false},
		{"malformed b", "09:00", "11:00", "10:00", "oops", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
				t.Errorf("Overlaps(%q,%q,%q,%q) = %v, want %v",
					tc.aStart, tc.aEnd, tc.bStart, tc.bEnd, got, tc.want)
			}
			// Overlap is symmetric.
			if got := Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd); got != tc.want {
				t.Errorf("Overlaps(%q,%q,%q,%q) = %v, want %v (symmetry)",
					tc.bStart, tc.bEnd, tc.aStart, tc.aEnd, got, tc.want)
			}
		})
	}
}
