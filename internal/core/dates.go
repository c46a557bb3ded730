package core

import (
	"strings"
	"time"
)

const (
	isoLayout       = "2006-01-02"
	dmySlashLayout  = "02/01/2006"
	dmyHyphenLayout = "02-01-2006"
)

// ToDMY converts "YYYY-MM-DD" to the "DD/MM/YYYY" form the upstream BETWEEN
// filter expects. ok is false for empty or malformed input.
func ToDMY(iso string) (string, bool) {
	t, err := time.Parse(isoLayout, strings.TrimSpace(iso))
	if err != nil {
		return "", false
	}
	return t.Format(dmySlashLayout), true
}

// ToISO normalises DD-MM-YYYY, DD/MM/YYYY and YYYY-MM-DD to YYYY-MM-DD.
// Unrecognised input is returned unchanged.
func ToISO(s string) string {
	trimmed := strings.TrimSpace(s)
	for _, layout := range []string{dmySlashLayout, dmyHyphenLayout, isoLayout} {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format(isoLayout)
		}
	}
	return s
}

// ValidISODate reports whether s is a real calendar date in YYYY-MM-DD form.
func ValidISODate(s string) bool {
	_, ok := ToDMY(s)
	return ok
}
