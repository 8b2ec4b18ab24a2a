// Package brformat converts Brazilian-formatted dates, numbers and CPF
// documents from the POS exports into canonical machine forms.
package brformat

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseDateTime parses "DD/MM/YYYY" or "DD/MM/YYYY HH:MM:SS" into an ISO
// "YYYY-MM-DDTHH:MM:SS" timestamp. Blank or malformed input returns ok=false;
// blank dates are expected in the exports and are not an error.
func ParseDateTime(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	datePart := s
	timePart := "00:00:00"
	if idx := strings.IndexByte(s, ' '); idx >= 0 {
		datePart = s[:idx]
		timePart = strings.TrimSpace(s[idx+1:])
	}

	parts := strings.Split(datePart, "/")
	if len(parts) != 3 {
		return "", false
	}

	day, month, year := parts[0], parts[1], parts[2]
	if day == "" || month == "" || year == "" {
		return "", false
	}
	// Exports sometimes carry two-digit years.
	if len(year) == 2 {
		year = "20" + year
	}

	for _, p := range []string{day, month, year} {
		if _, err := strconv.Atoi(p); err != nil {
			return "", false
		}
	}

	return fmt.Sprintf("%s-%s-%sT%s", year, pad2(month), pad2(day), timePart), true
}

// ParseDateOnly is ParseDateTime restricted to the date portion,
// producing "YYYY-MM-DD".
func ParseDateOnly(s string) (string, bool) {
	iso, ok := ParseDateTime(s)
	if !ok {
		return "", false
	}
	if idx := strings.IndexByte(iso, 'T'); idx >= 0 {
		return iso[:idx], true
	}
	return iso, true
}

// ParseNumber parses Brazilian decimal notation. "1.234,56" -> 1234.56,
// "7,5" -> 7.5. Empty or unparseable input yields 0.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	hasDot := strings.Contains(s, ".")
	hasComma := strings.Contains(s, ",")

	switch {
	case hasDot && hasComma:
		// Dot is the thousands separator, comma the decimal point.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// NormalizeCPF strips non-digits and forces exactly 11 digits: shorter values
// are left-padded with zeros, longer ones keep only the last 11. Empty input
// returns "" and the caller treats the row as having no valid identifier.
func NormalizeCPF(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}

	if len(digits) < 11 {
		digits = strings.Repeat("0", 11-len(digits)) + digits
	} else if len(digits) > 11 {
		digits = digits[len(digits)-11:]
	}
	return digits
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
