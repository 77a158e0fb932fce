package astro

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Formatting for the three position representations callers ask for:
// decimal degrees, decimal hours for the right ascension, and classic
// sexagesimal (hours/minutes/seconds and degrees/arcminutes/arcseconds).
// All of it is pure string work on the stored degree values.

var (
	hmsPattern = regexp.MustCompile(`^(\d{1,2})h(\d{1,2})m(\d{1,2}(?:\.\d+)?)s$`)
	dmsPattern = regexp.MustCompile(`^([+-]?)(\d{1,3})d(\d{1,2})m(\d{1,2}(?:\.\d+)?)s$`)
)

// DecimalString renders the position as decimal degrees, e.g.
// "9.81625 +0.88806".
func (p Position) DecimalString() string {
	return fmt.Sprintf("%.5f %+.5f", p.ra, p.dec)
}

// HourString renders the right ascension in decimal hours and the
// declination in decimal degrees, e.g. "0.654417h +0.888060d".
func (p Position) HourString() string {
	return fmt.Sprintf("%.6fh %+.6fd", p.RAHours(), p.dec)
}

// SexagesimalString renders the position in hms/dms form, e.g.
// "00h39m15.90s +00d53m17.0s".
func (p Position) SexagesimalString() string {
	return FormatHMS(p.ra) + " " + FormatDMS(p.dec)
}

// FormatHMS renders a right ascension given in degrees as hours, minutes
// and seconds, e.g. 9.81625 becomes "00h39m15.90s".
func FormatHMS(raDeg float64) string {
	hours := wrapRA(raDeg) / degPerHour
	h := int(hours)
	minutes := (hours - float64(h)) * 60
	m := int(minutes)
	s := (minutes - float64(m)) * 60

	// carry rounding at the printed precision so 59.996s never renders
	if s >= 59.995 {
		s = 0
		m++
	}
	if m == 60 {
		m = 0
		h++
	}
	if h == 24 {
		h = 0
	}
	return fmt.Sprintf("%02dh%02dm%05.2fs", h, m, s)
}

// FormatDMS renders a declination given in degrees as signed degrees,
// arcminutes and arcseconds, e.g. 0.88806 becomes "+00d53m17.0s".
func FormatDMS(decDeg float64) string {
	sign := "+"
	abs := decDeg
	if abs < 0 {
		sign = "-"
		abs = -abs
	}
	d := int(abs)
	minutes := (abs - float64(d)) * 60
	m := int(minutes)
	s := (minutes - float64(m)) * 60

	if s >= 59.95 {
		s = 0
		m++
	}
	if m == 60 {
		m = 0
		d++
	}
	return fmt.Sprintf("%s%02dd%02dm%04.1fs", sign, d, m, s)
}

// ParseHMS converts an "HHhMMmSS.Ss" right ascension back to degrees.
func ParseHMS(s string) (float64, error) {
	match := hmsPattern.FindStringSubmatch(strings.TrimSpace(strings.ToLower(s)))
	if match == nil {
		return 0, fmt.Errorf("not a valid hms right ascension: %q", s)
	}
	h, _ := strconv.ParseFloat(match[1], 64)
	m, _ := strconv.ParseFloat(match[2], 64)
	sec, _ := strconv.ParseFloat(match[3], 64)
	if h >= 24 || m >= 60 || sec >= 60 {
		return 0, fmt.Errorf("hms component out of range: %q", s)
	}
	return (h + m/60 + sec/3600) * degPerHour, nil
}

// ParseDMS converts a "+DDdMMmSS.Ss" declination back to degrees.
func ParseDMS(s string) (float64, error) {
	match := dmsPattern.FindStringSubmatch(strings.TrimSpace(strings.ToLower(s)))
	if match == nil {
		return 0, fmt.Errorf("not a valid dms declination: %q", s)
	}
	d, _ := strconv.ParseFloat(match[2], 64)
	m, _ := strconv.ParseFloat(match[3], 64)
	sec, _ := strconv.ParseFloat(match[4], 64)
	if m >= 60 || sec >= 60 {
		return 0, fmt.Errorf("dms component out of range: %q", s)
	}
	deg := d + m/60 + sec/3600
	if match[1] == "-" {
		deg = -deg
	}
	if deg < -90 || deg > 90 {
		return 0, fmt.Errorf("declination %q out of range [-90, +90]", s)
	}
	return deg, nil
}

// ParseRA accepts a right ascension as decimal degrees or hms text.
// Command line flags and query parameters use it so callers can paste
// coordinates in either form.
func ParseRA(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if deg, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(deg) || math.IsInf(deg, 0) {
			return 0, fmt.Errorf("right ascension is not a finite number: %q", s)
		}
		return deg, nil
	}
	return ParseHMS(s)
}

// ParseDec accepts a declination as decimal degrees or dms text.
func ParseDec(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if deg, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(deg) || math.IsInf(deg, 0) {
			return 0, fmt.Errorf("declination is not a finite number: %q", s)
		}
		return deg, nil
	}
	return ParseDMS(s)
}
