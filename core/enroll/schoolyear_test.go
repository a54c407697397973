package enroll

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestAdministrativeYear(t *testing.T) {
	tests := []struct {
		name string
		ref  time.Time
		want string
	}{
		{name: "last day of session", ref: date(2024, time.August, 31), want: "2023/2024"},
		{name: "first day of new session", ref: date(2024, time.September, 1), want: "2024/2025"},
		{name: "mid September", ref: date(2024, time.September, 15), want: "2024/2025"},
		{name: "winter term", ref: date(2025, time.January, 10), want: "2024/2025"},
		{name: "late spring", ref: date(2024, time.May, 31), want: "2023/2024"},
		{name: "summer still in session", ref: date(2024, time.June, 1), want: "2023/2024"},
		{name: "december", ref: date(2024, time.December, 31), want: "2024/2025"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AdministrativeYear(tt.ref); got != tt.want {
				t.Errorf("AdministrativeYear(%v) = %s, want %s", tt.ref, got, tt.want)
			}
		})
	}
}

func TestEnrollmentWindowYear(t *testing.T) {
	tests := []struct {
		name string
		ref  time.Time
		want string
	}{
		{name: "window opens in June", ref: date(2024, time.June, 1), want: "2024/2025"},
		{name: "mid window", ref: date(2024, time.July, 15), want: "2024/2025"},
		{name: "window end", ref: date(2024, time.August, 31), want: "2024/2025"},
		{name: "day before window", ref: date(2024, time.May, 31), want: "2023/2024"},
		{name: "after rollover", ref: date(2024, time.September, 1), want: "2024/2025"},
		{name: "mid session", ref: date(2025, time.February, 1), want: "2024/2025"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EnrollmentWindowYear(tt.ref); got != tt.want {
				t.Errorf("EnrollmentWindowYear(%v) = %s, want %s", tt.ref, got, tt.want)
			}
		})
	}
}

func TestSchoolYear(t *testing.T) {
	july := date(2024, time.July, 1)

	if got := SchoolYear(YearModeAdministrative, july); got != "2023/2024" {
		t.Errorf("SchoolYear(administrative) = %s, want 2023/2024", got)
	}
	if got := SchoolYear(YearModeEnrollmentWindow, july); got != "2024/2025" {
		t.Errorf("SchoolYear(enrollment-window) = %s, want 2024/2025", got)
	}
	if got := SchoolYear(YearMode("lol"), july); got != "2023/2024" {
		t.Errorf("SchoolYear(unknown) = %s, want administrative fallback 2023/2024", got)
	}
}
