// Package availability parses instructor availability windows into the
// integer hour-slots the scheduler's decision variables are indexed by.
package availability

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/noah-isme/timetable-engine/internal/models"
)

// labels are the weekday names instructor availability is keyed by,
// carried over from the system this engine continues.
var labels = map[string]models.Weekday{
	"Lunes":     models.Monday,
	"Martes":    models.Tuesday,
	"Miércoles": models.Wednesday,
	"Miercoles": models.Wednesday,
	"Jueves":    models.Thursday,
	"Viernes":   models.Friday,
	"Sábado":    models.Saturday,
	"Sabado":    models.Saturday,
}

// Label returns the canonical weekday label used in availability JSON.
func Label(day models.Weekday) string {
	switch day {
	case models.Monday:
		return "Lunes"
	case models.Tuesday:
		return "Martes"
	case models.Wednesday:
		return "Miércoles"
	case models.Thursday:
		return "Jueves"
	case models.Friday:
		return "Viernes"
	case models.Saturday:
		return "Sábado"
	default:
		return ""
	}
}

// SlotSet is the set of hour-slots an instructor is available in, for
// one weekday.
type SlotSet map[int]struct{}

// Has reports whether hour is in the set.
func (s SlotSet) Has(hour int) bool {
	_, ok := s[hour]
	return ok
}

// Week maps every weekday to the instructor's available hour-slots on
// that day. A weekday absent from the source map has no availability.
type Week map[models.Weekday]SlotSet

// Available reports whether the instructor can be assigned on the given
// weekday and hour.
func (w Week) Available(day models.Weekday, hour int) bool {
	slots, ok := w[day]
	if !ok {
		return false
	}
	return slots.Has(hour)
}

// ParseWeek decodes an instructor's raw availability JSON — a map of
// weekday label to a list of "HH:MM-HH:MM" ranges — into a Week. Ranges
// are end-exclusive on the hour and ignore minutes: "09:30-11:15" yields
// hour-slots {9, 10}. A day name absent from raw yields no availability
// for that day. Malformed range syntax is reported as an error naming
// the offending weekday and range.
func ParseWeek(raw json.RawMessage) (Week, error) {
	week := make(Week, len(models.Weekdays))
	if len(raw) == 0 {
		return week, nil
	}

	var bySource map[string][]string
	if err := json.Unmarshal(raw, &bySource); err != nil {
		return nil, fmt.Errorf("decode availability: %w", err)
	}

	for label, day := range labels {
		ranges, ok := bySource[label]
		if !ok || len(ranges) == 0 {
			continue
		}
		slots, err := parseRanges(ranges)
		if err != nil {
			return nil, fmt.Errorf("weekday %s: %w", label, err)
		}
		if existing, ok := week[day]; ok {
			for h := range slots {
				existing[h] = struct{}{}
			}
		} else {
			week[day] = slots
		}
	}

	return week, nil
}

func parseRanges(ranges []string) (SlotSet, error) {
	slots := make(SlotSet)
	for _, r := range ranges {
		start, end, err := parseRange(r)
		if err != nil {
			return nil, err
		}
		for h := start; h < end; h++ {
			slots[h] = struct{}{}
		}
	}
	return slots, nil
}

// parseRange parses a single "HH:MM-HH:MM" range into a start/end hour
// pair, end-exclusive. Minutes are ignored, matching the system this
// engine continues.
func parseRange(r string) (start, end int, err error) {
	parts := strings.SplitN(strings.TrimSpace(r), "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed range %q", r)
	}
	start, err = parseHour(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed range %q: %w", r, err)
	}
	end, err = parseHour(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed range %q: %w", r, err)
	}
	if end <= start {
		return 0, 0, fmt.Errorf("malformed range %q: end must be after start", r)
	}
	return start, end, nil
}

func parseHour(clock string) (int, error) {
	hm := strings.SplitN(strings.TrimSpace(clock), ":", 2)
	if len(hm) != 2 {
		return 0, fmt.Errorf("malformed time %q", clock)
	}
	hour, err := strconv.Atoi(hm[0])
	if err != nil {
		return 0, fmt.Errorf("malformed time %q", clock)
	}
	if hour < 0 || hour > 23 {
		return 0, fmt.Errorf("malformed time %q: hour out of 0..23", clock)
	}
	if _, err := strconv.Atoi(hm[1]); err != nil {
		return 0, fmt.Errorf("malformed time %q", clock)
	}
	return hour, nil
}

// SortedHours returns the slot set's hours in ascending order, used for
// deterministic variable creation and display.
func SortedHours(s SlotSet) []int {
	hours := make([]int, 0, len(s))
	for h := range s {
		hours = append(hours, h)
	}
	sort.Ints(hours)
	return hours
}
