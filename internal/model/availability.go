package model

// ScheduleAllows reports whether a space's operator-declared schedule admits
// bookings on the target date. A space with no schedule rows at all is open
// by default; once any row exists, only an explicit open row for the exact
// date qualifies.
func ScheduleAllows(declaredRows int, openForDate bool) bool {
	return declaredRows == 0 || openForDate
}

// FullyBooked reports whether the booked intervals of one space on one date
// cover a full day (24 hours, 86400 seconds) or more in total. Intervals
// that fail to parse contribute nothing, matching Overlaps.
func FullyBooked(intervals []Interval) bool {
	total := 0
	for _, iv := range intervals {
		start, err := ClockSeconds(iv.Start)
		if err != nil {
			continue
		}
		end, err := ClockSeconds(iv.End)
		if err != nil {
			continue
		}
		if end > start {
			total += end - start
		}
	}
	return total >= 24*3600
}
