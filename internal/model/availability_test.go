package model

import "testing"

func TestScheduleAllows(t *testing.T) {
	tests := []struct {
		name        string
		declared    int
		openForDate bool
		want        bool
	}{
		{"no schedule rows means default open", 0, false, true},
		{"declared open for the date", 3, true, true},
		{"rows exist but none open the date", 3, false, false},
		{"single row for another date closes this one", 1, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScheduleAllows(tt.declared, tt.openForDate); got != tt.want {
				t.Errorf("ScheduleAllows(%d, %v) = %v, want %v", tt.declared, tt.openForDate, got, tt.want)
			}
		})
	}
}

func TestFullyBooked(t *testing.T) {
	tests := []struct {
		name      string
		intervals []Interval
		want      bool
	}{
		{"no bookings", nil, false},
		{"one half-day booking leaves room", []Interval{{"00:00", "12:00"}}, false},
		{"two half days cover the whole day", []Interval{{"00:00", "12:00"}, {"12:00", "24:00"}}, true},
		{"single full-day booking", []Interval{{"00:00", "24:00"}}, true},
		{"many short slots summing under a day", []Interval{{"08:00", "10:00"}, {"10:00", "12:00"}, {"14:00", "18:00"}}, false},
		{"sum can exceed a day when intervals overlap", []Interval{{"00:00", "20:00"}, {"10:00", "24:00"}}, true},
		{"malformed interval contributes nothing", []Interval{{"zz", "12:00"}, {"00:00", "12:00"}}, false},
		{"inverted interval contributes nothing", []Interval{{"12:00", "08:00"}, {"00:00", "12:00"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FullyBooked(tt.intervals); got != tt.want {
				t.Errorf("FullyBooked(%v) = %v, want %v", tt.intervals, got, tt.want)
			}
		})
	}
}
