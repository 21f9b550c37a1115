package menu

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// Resolve merges published menu records into the fallback week and
// returns the per-day display mapping.
//
// Records dated before today are ignored entirely. The remaining
// records are applied in ascending date order, so when two records
// target the same weekday and meal slot the chronologically later one
// wins. A record never clears a slot: if its items produce no text the
// slot keeps whatever was there before. Note there is no upper date
// bound; a published record weeks out still lands in its weekday
// bucket, since the seven buckets are days of the week rather than a
// sliding window.
func Resolve(fallback WeekMenu, records []Record, today time.Time) WeekMenu {
	resolved := make(WeekMenu, len(fallback))
	for day, dm := range fallback {
		resolved[day] = dm
	}

	if len(records) == 0 {
		return resolved
	}

	cutoff := dateOnly(today)

	upcoming := make([]Record, 0, len(records))
	for _, rec := range records {
		if dateOnly(rec.Date).Before(cutoff) {
			continue
		}
		upcoming = append(upcoming, rec)
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].Date.Before(upcoming[j].Date)
	})

	for _, rec := range upcoming {
		text := displayText(rec)
		if text == "" {
			continue
		}
		day := strings.ToLower(rec.Date.Weekday().String())
		dm := resolved[day]
		dm.SetSlot(rec.Meal, text)
		resolved[day] = dm
	}

	return resolved
}

// displayText renders a record's items payload as the slot text. A
// flat array joins every entry; an object keyed by meal type joins
// only the entries under the record's own meal key.
func displayText(rec Record) string {
	var flat []string
	if err := json.Unmarshal(rec.Items, &flat); err == nil {
		return strings.Join(flat, ", ")
	}

	var keyed map[string][]string
	if err := json.Unmarshal(rec.Items, &keyed); err == nil {
		return strings.Join(keyed[string(rec.Meal)], ", ")
	}

	return ""
}

// ValidItems reports whether a raw items payload has one of the two
// accepted shapes.
func ValidItems(items json.RawMessage) bool {
	var flat []string
	if err := json.Unmarshal(items, &flat); err == nil {
		return true
	}
	var keyed map[string][]string
	return json.Unmarshal(items, &keyed) == nil
}

// dateOnly normalizes to a calendar date in UTC so that records parsed
// in UTC compare correctly against a local "today".
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

//   This project is the backend API for the HostelHub mess portal. Weekly mess menus, resident accounts and helper endpoints for our hostel apps.
//   API Copyright (C) 2025 HostelHub
//       This program is free software: you can redistribute it and/or modify
//       it under the terms of the GNU General Public License as published by
//       the Free Software Foundation, either version 3 of the License, or
//       (at your option) any later version.

//       This program is distributed in the hope that it will be useful,
//       but WITHOUT ANY WARRANTY; without even the implied warranty of
//       MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
//       GNU General Public License for more details.

//       You should have received a copy of the GNU General Public License
//       along with this program.  If not, see <https://www.gnu.org/licenses/>.
