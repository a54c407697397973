package enroll

import (
	"fmt"
	"time"
)

// YearMode selects which fiscal-boundary rule a school year label is computed with.
type YearMode string

const (
	// YearModeAdministrative follows the year currently in session:
	// the label rolls over on September 1st.
	YearModeAdministrative YearMode = "administrative"

	// YearModeEnrollmentWindow follows the enrollment intake period:
	// during summer (June-August) the label already points at the
	// upcoming year, since enrollment for it opens before the
	// administrative year rolls over.
	YearModeEnrollmentWindow YearMode = "enrollment-window"
)

// AdministrativeYear returns the school year label in session at ref,
// eg. "2024/2025" for any date from 2024-09-01 through 2025-08-31.
func AdministrativeYear(ref time.Time) string {
	y := ref.Year()
	if ref.Month() >= time.September {
		return yearLabel(y)
	}
	return yearLabel(y - 1)
}

// EnrollmentWindowYear returns the school year label enrollment applies
// to at ref: the upcoming year during June-August, otherwise the same
// label as AdministrativeYear.
func EnrollmentWindowYear(ref time.Time) string {
	switch ref.Month() {
	case time.June, time.July, time.August:
		return yearLabel(ref.Year())
	}
	return AdministrativeYear(ref)
}

// SchoolYear dispatches on mode; unknown modes fall back to the administrative rule.
func SchoolYear(mode YearMode, ref time.Time) string {
	if mode == YearModeEnrollmentWindow {
		return EnrollmentWindowYear(ref)
	}
	return AdministrativeYear(ref)
}

func yearLabel(startYear int) string {
	return fmt.Sprintf("%d/%d", startYear, startYear+1)
}
