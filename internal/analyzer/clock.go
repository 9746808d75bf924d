package analyzer

import "time"

const windowSeparator = " – "

// FormatHour renders an hour of day on a 12-hour clock, e.g. 13 -> "01:00 PM".
// Hour 24 wraps to the following midnight, "12:00 AM".
func FormatHour(hour int) string {
	return time.Date(2000, time.January, 1, hour, 0, 0, 0, time.UTC).Format("03:04 PM")
}

func WindowLabel(start, end int) string {
	return FormatHour(start) + windowSeparator + FormatHour(end)
}
