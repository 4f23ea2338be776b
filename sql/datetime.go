// Copyright 2026 George Fraser
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sql

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/src-d/go-errors.v1"
)

// ErrTemporalParse is returned when a string does not match the
// canonical textual grammar of a date/time kind.
var ErrTemporalParse = errors.NewKind("could not parse %q as %s")

// TimestampScale is the sub-second precision used when formatting and
// parsing temporal values.
type TimestampScale int

const (
	// Microseconds is the default precision.
	Microseconds TimestampScale = 6
	// Nanoseconds is enabled by LanguageOptions.TimestampNanos.
	Nanoseconds TimestampScale = 9
)

const (
	dateLayout     = "2006-01-02"
	datetimeLayout = "2006-01-02 15:04:05"
)

// FormatDate renders a civil date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseDate parses YYYY-MM-DD, rejecting any trailing garbage.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, ErrTemporalParse.New(s, Date)
	}
	return t, nil
}

func (s TimestampScale) truncate(ns int) int {
	if s == Nanoseconds {
		return ns
	}
	return ns - ns%1000
}

func fractionSuffix(ns int, scale TimestampScale) string {
	ns = scale.truncate(ns)
	if ns == 0 {
		return ""
	}
	frac := fmt.Sprintf("%09d", ns)
	return "." + strings.TrimRight(frac, "0")
}

// FormatTimeOfDay renders a TIME value as HH:MM:SS[.fraction].
func FormatTimeOfDay(d time.Duration, scale TimestampScale) string {
	h := int(d / time.Hour)
	m := int(d/time.Minute) % 60
	sec := int(d/time.Second) % 60
	ns := int(d % time.Second)
	return fmt.Sprintf("%02d:%02d:%02d%s", h, m, sec, fractionSuffix(ns, scale))
}

// ParseTimeOfDay parses HH:MM:SS[.fraction] into a duration since
// midnight.
func ParseTimeOfDay(s string, scale TimestampScale) (time.Duration, error) {
	layout := "15:04:05"
	if strings.Contains(s, ".") {
		layout = "15:04:05.999999999"
	}
	t, err := time.ParseInLocation(layout, s, time.UTC)
	if err != nil {
		return 0, ErrTemporalParse.New(s, Time)
	}
	d := time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(scale.truncate(t.Nanosecond()))
	return d, nil
}

// FormatDatetime renders a civil datetime as
// YYYY-MM-DD HH:MM:SS[.fraction].
func FormatDatetime(t time.Time, scale TimestampScale) string {
	return t.Format(datetimeLayout) + fractionSuffix(t.Nanosecond(), scale)
}

// ParseDatetime parses the canonical civil datetime grammar.
func ParseDatetime(s string, scale TimestampScale) (time.Time, error) {
	layout := datetimeLayout
	if strings.Contains(s, ".") {
		layout = datetimeLayout + ".999999999"
	}
	t, err := time.ParseInLocation(layout, s, time.UTC)
	if err != nil {
		return time.Time{}, ErrTemporalParse.New(s, Datetime)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(),
		scale.truncate(t.Nanosecond()), time.UTC), nil
}

// FormatTimestamp renders an absolute instant in the given timezone with
// its UTC offset, e.g. "2024-01-05 12:00:00.5+01:00".
func FormatTimestamp(t time.Time, scale TimestampScale, loc *time.Location) string {
	local := t.In(loc)
	return local.Format(datetimeLayout) + fractionSuffix(local.Nanosecond(), scale) + local.Format("-07:00")
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp parses the canonical timestamp grammar. Strings
// without an explicit offset are interpreted in loc.
func ParseTimestamp(s string, scale TimestampScale, loc *time.Location) (time.Time, error) {
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			ns := scale.truncate(t.Nanosecond())
			return t.Add(time.Duration(ns - t.Nanosecond())), nil
		}
	}
	return time.Time{}, ErrTemporalParse.New(s, Timestamp)
}

// civilTime strips the location from a wall-clock reading, keeping the
// same displayed date and time.
func civilTime(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(),
		t.Second(), t.Nanosecond(), time.UTC)
}

// sinceMidnight returns the wall-clock offset of t within its day,
// truncated to the given scale.
func sinceMidnight(t time.Time, scale TimestampScale) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(scale.truncate(t.Nanosecond()))
}
