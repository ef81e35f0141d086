// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	// MinWeight is the lowest accepted body weight in kilograms.
	MinWeight = 30.0
	// MaxWeight is the highest accepted body weight in kilograms.
	MaxWeight = 300.0
)

// MonthMap is a sparse mapping from day-of-month ("1".."31") to a weight in
// kilograms. A missing key means "no data" for that day.
type MonthMap map[string]float64

// WeightDocument maps a month key ("YYYY-MM") to that month's entries. There is
// at most one document per user.
type WeightDocument map[string]MonthMap

// MonthRef identifies a calendar month. Month is 1-based.
type MonthRef struct {
	Year  int
	Month int
}

// Key returns the zero-padded "YYYY-MM" form used in documents and on the wire.
func (r MonthRef) Key() string {
	return fmt.Sprintf("%04d-%02d", r.Year, r.Month)
}

// Valid reports whether the month lies in 1..12 and the year is positive.
func (r MonthRef) Valid() bool {
	return r.Year > 0 && r.Month >= 1 && r.Month <= 12
}

// Next returns the following calendar month.
func (r MonthRef) Next() MonthRef {
	if r.Month == 12 {
		return MonthRef{Year: r.Year + 1, Month: 1}
	}
	return MonthRef{Year: r.Year, Month: r.Month + 1}
}

// Prev returns the preceding calendar month.
func (r MonthRef) Prev() MonthRef {
	if r.Month == 1 {
		return MonthRef{Year: r.Year - 1, Month: 12}
	}
	return MonthRef{Year: r.Year, Month: r.Month - 1}
}

// ParseMonthKey parses "YYYY-MM". Single-digit months ("2025-9") are accepted
// for compatibility with documents written by older clients.
func ParseMonthKey(key string) (MonthRef, error) {
	yearPart, monthPart, ok := strings.Cut(key, "-")
	if !ok {
		return MonthRef{}, fmt.Errorf("%w: %q", ErrInvalidMonthKey, key)
	}

	year, err := strconv.Atoi(yearPart)
	if err != nil || len(yearPart) != 4 {
		return MonthRef{}, fmt.Errorf("%w: %q", ErrInvalidMonthKey, key)
	}
	month, err := strconv.Atoi(monthPart)
	if err != nil || len(monthPart) > 2 {
		return MonthRef{}, fmt.Errorf("%w: %q", ErrInvalidMonthKey, key)
	}

	ref := MonthRef{Year: year, Month: month}
	if !ref.Valid() {
		return MonthRef{}, fmt.Errorf("%w: %q", ErrInvalidMonthKey, key)
	}

	return ref, nil
}

// ValidDay reports whether day is a day-of-month key between 1 and 31.
func ValidDay(day string) bool {
	d, err := strconv.Atoi(day)
	if err != nil {
		return false
	}
	return d >= 1 && d <= 31 && strconv.Itoa(d) == day
}

// InRange reports whether v is an acceptable weight.
func InRange(v float64) bool {
	return v >= MinWeight && v <= MaxWeight
}

// Clone returns a copy that shares no storage with m.
func (m MonthMap) Clone() MonthMap {
	out := make(MonthMap, len(m))
	for day, v := range m {
		out[day] = v
	}
	return out
}

// Days returns the populated day keys in ascending numeric order.
func (m MonthMap) Days() []string {
	days := make([]string, 0, len(m))
	for day := range m {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool {
		a, _ := strconv.Atoi(days[i])
		b, _ := strconv.Atoi(days[j])
		return a < b
	})
	return days
}

// Clone returns a deep copy of d.
func (d WeightDocument) Clone() WeightDocument {
	out := make(WeightDocument, len(d))
	for key, month := range d {
		out[key] = month.Clone()
	}
	return out
}

// StripEmpty returns a copy of d without months that have no entries.
func (d WeightDocument) StripEmpty() WeightDocument {
	out := make(WeightDocument, len(d))
	for key, month := range d {
		if len(month) == 0 {
			continue
		}
		out[key] = month.Clone()
	}
	return out
}

// Entries returns the number of day entries across all months.
func (d WeightDocument) Entries() int {
	n := 0
	for _, month := range d {
		n += len(month)
	}
	return n
}

// MonthKeys returns the month keys in ascending order.
func (d WeightDocument) MonthKeys() []string {
	keys := make([]string, 0, len(d))
	for key := range d {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Normalize returns the canonical byte form of d: empty months removed and all
// keys sorted at every level. Two documents holding the same data normalize to
// identical bytes regardless of construction order.
func (d WeightDocument) Normalize() []byte {
	// encoding/json writes map keys in sorted order at every depth.
	b, err := json.Marshal(d.StripEmpty())
	if err != nil {
		return nil
	}
	return b
}

// Equivalent reports whether d and other normalize to the same form.
func (d WeightDocument) Equivalent(other WeightDocument) bool {
	return string(d.Normalize()) == string(other.Normalize())
}

// MergeDocuments starts from server and shallow-unions every month of local
// into it. On a day collision the local value wins. Months present on only one
// side are kept as they are. Neither input is modified.
func MergeDocuments(server, local WeightDocument) WeightDocument {
	merged := server.Clone()
	for key, month := range local {
		target, ok := merged[key]
		if !ok {
			target = make(MonthMap, len(month))
			merged[key] = target
		}
		for day, v := range month {
			target[day] = v
		}
	}
	return merged
}

// Summary describes a document for conflict prompts.
type Summary struct {
	Months  int
	Entries int
	// First and Last are the earliest and latest month keys, empty if there are
	// no months.
	First string
	Last  string
}

// Summarize returns the [Summary] of d, ignoring empty months.
func (d WeightDocument) Summarize() Summary {
	stripped := d.StripEmpty()
	keys := stripped.MonthKeys()

	s := Summary{Months: len(keys), Entries: stripped.Entries()}
	if len(keys) > 0 {
		s.First = keys[0]
		s.Last = keys[len(keys)-1]
	}
	return s
}

// String renders a one-line, human readable summary.
func (s Summary) String() string {
	if s.Months == 0 {
		return "no entries"
	}
	return fmt.Sprintf("%d entries across %d months (%s .. %s)", s.Entries, s.Months, s.First, s.Last)
}
