package availability

import (
	bookingModel "clinicbook/internal/domains/booking/model"
	scheduleModel "clinicbook/internal/domains/schedule/model"
	"clinicbook/shared/constant"
	"fmt"
	"time"
)

// ParseClock converts a zero-padded HH:MM wall-clock string to minutes since
// midnight. All interval arithmetic is done on these integers; the string form
// only exists at the boundary.
func ParseClock(value string) (int, error) {
	t, err := time.Parse(constant.ClockTimeFormat, value)
	if err != nil {
		return 0, fmt.Errorf("invalid wall-clock time %q: %w", value, err)
	}

	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock is the inverse of ParseClock.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// overlaps is the half-open interval test on [aStart,aEnd) and [bStart,bEnd).
// Intervals that merely touch (one ends exactly where the other starts) do not
// overlap, so back-to-back appointments are never flagged as conflicting.
func overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

type bookedInterval struct {
	start int
	end   int
}

// GenerateSlots walks the candidate start times of one schedule and returns
// the bookable ones as ordered HH:MM strings. A candidate is kept when the
// whole service fits inside the working window, avoids the break, avoids
// every existing live booking, and - for same-day requests only - starts at
// least the fixed lead time after now. A candidate whose end would spill past
// the working window is dropped, not clipped, so a service longer than the
// window yields an empty result rather than an error.
func GenerateSlots(sched scheduleModel.Schedule, serviceDuration int, bookings []bookingModel.Booking, date, now time.Time) ([]string, error) {
	startMin, err := ParseClock(sched.StartTime)
	if err != nil {
		return nil, err
	}

	endMin, err := ParseClock(sched.EndTime)
	if err != nil {
		return nil, err
	}

	slotStep := sched.SlotDuration
	if slotStep <= 0 {
		slotStep = constant.DefaultSlotDurationMinutes
	}

	hasBreak := sched.BreakStart != nil && sched.BreakEnd != nil

	var breakStart, breakEnd int

	if hasBreak {
		breakStart, err = ParseClock(*sched.BreakStart)
		if err != nil {
			return nil, err
		}

		breakEnd, err = ParseClock(*sched.BreakEnd)
		if err != nil {
			return nil, err
		}
	}

	booked := make([]bookedInterval, 0, len(bookings))

	for _, booking := range bookings {
		bookingStart, err := ParseClock(booking.StartTime)
		if err != nil {
			return nil, err
		}

		booked = append(booked, bookedInterval{
			start: bookingStart,
			end:   bookingStart + booking.DurationMinutes,
		})
	}

	// The lead-time cutoff only applies when the target date is today.
	cutoff := -1

	dateYear, dateMonth, dateDay := date.Date()
	nowYear, nowMonth, nowDay := now.Date()

	if dateYear == nowYear && dateMonth == nowMonth && dateDay == nowDay {
		cutoff = now.Hour()*60 + now.Minute() + constant.SameDayLeadTimeMinutes
	}

	slots := []string{}

	for t := startMin; t+serviceDuration <= endMin; t += slotStep {
		if cutoff >= 0 && t < cutoff {
			continue
		}

		if hasBreak && overlaps(t, t+serviceDuration, breakStart, breakEnd) {
			continue
		}

		conflict := false

		for _, interval := range booked {
			if overlaps(t, t+serviceDuration, interval.start, interval.end) {
				conflict = true

				break
			}
		}

		if conflict {
			continue
		}

		slots = append(slots, FormatClock(t))
	}

	return slots, nil
}
